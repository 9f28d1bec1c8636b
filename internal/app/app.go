// Package app assembles the generation pipeline from a loaded configuration.
// Both the HTTP server and the CLI build their pipeline here.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/af-corp/draftgen/internal/config"
	"github.com/af-corp/draftgen/internal/drafts"
	"github.com/af-corp/draftgen/internal/filter"
	"github.com/af-corp/draftgen/internal/filter/injection"
	"github.com/af-corp/draftgen/internal/filter/keyword"
	"github.com/af-corp/draftgen/internal/filter/policy"
	"github.com/af-corp/draftgen/internal/invoker"
	"github.com/af-corp/draftgen/internal/invoker/adapters"
	"github.com/af-corp/draftgen/internal/pipeline"
	"github.com/af-corp/draftgen/internal/telemetry"
)

// App holds the assembled pipeline and the parts that follow config reloads.
type App struct {
	Pipeline *pipeline.Pipeline
	Invoker  *invoker.Invoker

	loader   *config.Loader
	screener *keyword.Screener
	content  *keyword.ContentScanner
	policy   *policy.Evaluator
	// pinned generators survive reloads (draftctl --mock).
	pinned bool
}

// Options tweak assembly.
type Options struct {
	// Generator replaces the configured provider when set.
	Generator invoker.Generator
}

// Build wires filters, provider, invoker and pipeline from loader's current
// configuration. loader.Load must have succeeded.
func Build(ctx context.Context, loader *config.Loader, metrics *telemetry.Metrics, opts Options) (*App, error) {
	cfg := loader.Config()

	patterns, err := keyword.PatternsFromConfig(loader.Policy())
	if err != nil {
		return nil, fmt.Errorf("content patterns: %w", err)
	}
	screener := keyword.NewScreener(keyword.TermsFromConfig(loader.Policy()))
	content := keyword.NewContentScanner(patterns)
	injectionScanner := injection.NewScanner(func() config.InjectionFilterConfig {
		return loader.Config().Filter.Injection
	})
	evaluator := policy.NewEvaluator(func() config.PolicyFilterConfig {
		return loader.Config().Filter.Policy
	})
	if cfg.Filter.Policy.Enabled {
		// A policy that fails to load denies every request.
		if err := evaluator.Load(); err != nil {
			slog.Error("failed to load policies", "path", cfg.Filter.Policy.BundlePath, "error", err)
		}
	}

	gen := opts.Generator
	if gen == nil {
		gen, err = adapters.FromConfig(ctx, loader.Providers(), cfg.Generation)
		if err != nil {
			return nil, fmt.Errorf("build generator: %w", err)
		}
	}

	breaker := invoker.NewCircuitBreaker(
		cfg.Resilience.CircuitBreaker.FailureThreshold,
		cfg.Resilience.CircuitBreaker.Cooldown,
	)
	var observe func(string)
	if metrics != nil {
		observe = metrics.RecordUpstreamAttempt
	}
	inv := invoker.New(gen, breaker, invoker.OptionsFromConfig(cfg.Resilience), observe)

	p := pipeline.New(
		filter.NewChain(screener, injectionScanner, evaluator),
		inv,
		drafts.NewNormalizer(content),
		metrics,
		loader.Config,
	)

	return &App{
		Pipeline: p,
		Invoker:  inv,
		loader:   loader,
		screener: screener,
		content:  content,
		policy:   evaluator,
		pinned:   opts.Generator != nil,
	}, nil
}

// Reload applies the loader's current configuration to the risk tables,
// policies and provider. A part that fails to rebuild keeps its previous
// state.
func (a *App) Reload(ctx context.Context) {
	cfg := a.loader.Config()

	a.screener.SetTerms(keyword.TermsFromConfig(a.loader.Policy()))
	if patterns, err := keyword.PatternsFromConfig(a.loader.Policy()); err != nil {
		slog.Error("content patterns not reloaded", "error", err)
	} else {
		a.content.SetPatterns(patterns)
	}

	if cfg.Filter.Policy.Enabled {
		if err := a.policy.Load(); err != nil {
			slog.Error("policies not reloaded", "error", err)
		}
	}

	if !a.pinned {
		gen, err := adapters.FromConfig(ctx, a.loader.Providers(), cfg.Generation)
		if err != nil {
			slog.Error("provider not reloaded", "provider", cfg.Generation.Provider, "error", err)
		} else {
			a.Invoker.SetGenerator(gen)
		}
	}

	slog.Info("pipeline reloaded", "provider", cfg.Generation.Provider, "model", cfg.Generation.Model)
}
