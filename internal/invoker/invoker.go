// Package invoker calls the text-generation upstream with bounded retries,
// per-attempt timeouts and a process-wide circuit breaker.
package invoker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/af-corp/draftgen/internal/config"
)

// Generator turns a prompt into raw model text. Implementations live in the
// adapters package.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Attempt outcomes reported to the observer.
const (
	OutcomeSuccess   = "success"
	OutcomeTransient = "transient"
	OutcomeFatal     = "fatal"
	OutcomeCanceled  = "canceled"
	OutcomeRejected  = "circuit_open"
)

// Options controls retry pacing.
type Options struct {
	MaxAttempts         int
	InitialBackoff      time.Duration
	Multiplier          float64
	RandomizationFactor float64
	MaxBackoff          time.Duration
	AttemptTimeout      time.Duration
}

// OptionsFromConfig maps the resilience section onto Options.
func OptionsFromConfig(cfg config.ResilienceConfig) Options {
	return Options{
		MaxAttempts:         cfg.MaxAttempts,
		InitialBackoff:      cfg.InitialBackoff,
		Multiplier:          cfg.Multiplier,
		RandomizationFactor: cfg.RandomizationFactor,
		MaxBackoff:          cfg.MaxBackoff,
		AttemptTimeout:      cfg.AttemptTimeout,
	}
}

// Invoker wraps a Generator with retries and the circuit breaker.
type Invoker struct {
	mu  sync.RWMutex
	gen Generator

	breaker *CircuitBreaker
	opts    Options
	observe func(outcome string)
}

// New creates an Invoker. observe may be nil.
func New(gen Generator, breaker *CircuitBreaker, opts Options, observe func(outcome string)) *Invoker {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if observe == nil {
		observe = func(string) {}
	}
	return &Invoker{gen: gen, breaker: breaker, opts: opts, observe: observe}
}

// SetGenerator swaps the upstream, e.g. after providers.yaml is reloaded.
// The breaker state is kept.
func (inv *Invoker) SetGenerator(gen Generator) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.gen = gen
}

func (inv *Invoker) generator() Generator {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.gen
}

// Breaker exposes the shared breaker for health reporting.
func (inv *Invoker) Breaker() *CircuitBreaker { return inv.breaker }

func (inv *Invoker) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = inv.opts.InitialBackoff
	eb.Multiplier = inv.opts.Multiplier
	eb.RandomizationFactor = inv.opts.RandomizationFactor
	if inv.opts.MaxBackoff > 0 {
		eb.MaxInterval = inv.opts.MaxBackoff
	}
	eb.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(inv.opts.MaxAttempts-1)), ctx)
}

func (inv *Invoker) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if inv.opts.AttemptTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, inv.opts.AttemptTimeout)
}

// Invoke sends prompt upstream and returns the raw model text.
//
// Errors: ErrCircuitOpen when the breaker rejects the call, a
// *RetryExhaustedError when every attempt failed transiently, the caller's
// context error on cancellation, or the non-transient error unchanged.
func (inv *Invoker) Invoke(ctx context.Context, prompt string) (string, error) {
	gen := inv.generator()
	attempts := 0

	op := func() (string, error) {
		if err := ctx.Err(); err != nil {
			return "", backoff.Permanent(err)
		}
		ok, trial := inv.breaker.Allow()
		if !ok {
			inv.observe(OutcomeRejected)
			return "", backoff.Permanent(ErrCircuitOpen)
		}
		attempts++

		actx, cancel := inv.attemptContext(ctx)
		text, err := gen.Generate(actx, prompt)
		cancel()

		if err == nil {
			inv.breaker.RecordSuccess()
			inv.observe(OutcomeSuccess)
			return text, nil
		}
		if ctx.Err() != nil {
			// The caller gave up; the outcome says nothing about upstream health.
			if trial {
				inv.breaker.AbandonProbe()
			}
			inv.observe(OutcomeCanceled)
			return "", backoff.Permanent(ctx.Err())
		}

		inv.breaker.RecordFailure()
		if !IsTransient(err) {
			inv.observe(OutcomeFatal)
			slog.Error("upstream call failed", "attempt", attempts, "error", err)
			return "", backoff.Permanent(err)
		}
		inv.observe(OutcomeTransient)
		slog.Warn("upstream call failed, will retry",
			"attempt", attempts,
			"max_attempts", inv.opts.MaxAttempts,
			"error", err,
		)
		return "", err
	}

	text, err := backoff.RetryWithData[string](op, inv.newBackOff(ctx))
	switch {
	case err == nil:
		return text, nil
	case errors.Is(err, ErrCircuitOpen):
		return "", err
	case ctx.Err() != nil:
		return "", ctx.Err()
	case IsTransient(err):
		return "", &RetryExhaustedError{Attempts: attempts, Last: err}
	default:
		return "", err
	}
}
