// Package pipeline runs a writing request through validation, screening,
// prompt construction, the model call, parsing and draft normalization.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/af-corp/draftgen/internal/config"
	"github.com/af-corp/draftgen/internal/drafts"
	"github.com/af-corp/draftgen/internal/filter"
	"github.com/af-corp/draftgen/internal/invoker"
	"github.com/af-corp/draftgen/internal/parser"
	"github.com/af-corp/draftgen/internal/prompt"
	"github.com/af-corp/draftgen/internal/telemetry"
	"github.com/af-corp/draftgen/internal/types"
	"github.com/af-corp/draftgen/internal/validate"
)

// Processing steps reported in result metadata, in execution order.
const (
	StepInputValidation   = "input_validation"
	StepRiskScreening     = "risk_screening"
	StepPromptGeneration  = "prompt_generation"
	StepAIGeneration      = "ai_generation"
	StepResponseParsing   = "response_parsing"
	StepContentValidation = "content_validation"
)

const rawPreviewRunes = 500

// Health statuses.
const (
	StatusHealthy  = "HEALTHY"
	StatusDegraded = "DEGRADED"
)

// Pipeline holds the dependencies of one generation call.
type Pipeline struct {
	chain      *filter.Chain
	invoker    *invoker.Invoker
	normalizer *drafts.Normalizer
	metrics    *telemetry.Metrics
	cfg        func() *config.Config
	now        func() time.Time
}

// New wires a pipeline. metrics may be nil.
func New(chain *filter.Chain, inv *invoker.Invoker, normalizer *drafts.Normalizer, metrics *telemetry.Metrics, cfg func() *config.Config) *Pipeline {
	if metrics != nil {
		metrics.SetCircuitState(int(inv.Breaker().State()))
		inv.Breaker().OnStateChange(func(s invoker.CircuitState) {
			metrics.SetCircuitState(int(s))
		})
	}
	return &Pipeline{
		chain:      chain,
		invoker:    inv,
		normalizer: normalizer,
		metrics:    metrics,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Generate produces up to three drafts for req. Every error it returns is a
// *Error.
func (p *Pipeline) Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error) {
	start := p.now()
	run := &run{requestID: req.RequestID}

	result, err := p.generate(ctx, req, run)
	elapsed := p.now().Sub(start)

	var perr *Error
	if err != nil {
		perr = classify(err, p.invoker.Breaker())
		p.logFailure(req, run, perr)
	}
	p.logUsage(req, elapsed, perr)
	p.record(req, run, elapsed, perr)

	if perr != nil {
		return nil, perr
	}
	result.Metadata.ResponseTimeMs = elapsed.Milliseconds()
	return result, nil
}

// run collects per-call state for logging and metrics.
type run struct {
	requestID string
	steps     []string
	strategy  string
	raw       string
}

func (p *Pipeline) generate(ctx context.Context, req types.GenerationRequest, r *run) (*types.GenerationResult, error) {
	sreq, err := validate.Validate(req)
	if err != nil {
		return nil, err
	}
	sreq.RequestedAt = p.now()
	r.steps = append(r.steps, StepInputValidation)

	if err := p.screen(ctx, sreq); err != nil {
		return nil, err
	}
	r.steps = append(r.steps, StepRiskScreening)

	text := prompt.Build(sreq)
	r.steps = append(r.steps, StepPromptGeneration)
	slog.Debug("prompt built",
		"request_id", sreq.RequestID,
		"prompt_length", utf8.RuneCountInString(text),
	)

	raw, err := p.invoker.Invoke(ctx, text)
	if err != nil {
		return nil, err
	}
	r.raw = raw
	r.steps = append(r.steps, StepAIGeneration)

	parsed, err := parser.Parse(raw)
	if err != nil {
		return nil, err
	}
	r.strategy = parsed.Strategy
	r.steps = append(r.steps, StepResponseParsing)
	if parsed.Strategy != parser.StrategyStrict {
		slog.Info("response recovered by fallback parser",
			"request_id", sreq.RequestID,
			"strategy", parsed.Strategy,
			"candidates", len(parsed.Candidates),
		)
	}

	out, err := p.normalizer.Normalize(parsed.Candidates, sreq.Category)
	if err != nil {
		return nil, err
	}
	r.steps = append(r.steps, StepContentValidation)

	provider, model := p.model()
	return &types.GenerationResult{
		RequestID: sreq.RequestID,
		Drafts:    out,
		Metadata: types.Metadata{
			Category:        sreq.Category,
			SubCategory:     sreq.SubCategory,
			RiskLevel:       sreq.RiskLevel,
			GeneratedAt:     p.now(),
			Model:           model,
			Provider:        provider,
			ParseStrategy:   parsed.Strategy,
			ProcessingSteps: r.steps,
		},
		UserInfo: userInfo(sreq.Profile),
		Request: types.RequestSummary{
			Category:      sreq.Category,
			SubCategory:   sreq.SubCategory,
			PromptLength:  utf8.RuneCountInString(sreq.Prompt),
			KeywordsCount: countKeywords(sreq.Keywords),
		},
	}, nil
}

// screen runs the filter chain. A block becomes a validation error; flagged
// risk only annotates the request.
func (p *Pipeline) screen(ctx context.Context, sreq *types.SanitizedRequest) error {
	if p.chain == nil {
		return nil
	}
	results, blocked := p.chain.Run(ctx, sreq)
	if blocked != nil {
		slog.Warn("request blocked by filter",
			"request_id", sreq.RequestID,
			"filter", blocked.FilterName,
			"detections", blocked.Detections,
			"score", blocked.Score,
			"caller_id", sreq.CallerID,
		)
		if p.metrics != nil {
			p.metrics.RecordFilterAction(blocked.FilterName, string(blocked.Action))
		}
		return &Error{Kind: KindValidation, Message: blocked.Message}
	}

	for _, fr := range results {
		if fr.Action == filter.ActionFlag && p.metrics != nil {
			p.metrics.RecordFilterAction(fr.FilterName, string(filter.ActionFlag))
		}
	}
	if p.metrics != nil {
		p.metrics.RecordRequestRisk(string(sreq.RiskLevel))
	}
	if sreq.RiskLevel == types.RiskHigh {
		slog.Warn("high-risk request",
			"request_id", sreq.RequestID,
			"risk_level", sreq.RiskLevel,
			"terms", sreq.RiskTerms,
		)
	}
	return nil
}

func (p *Pipeline) model() (provider, model string) {
	if p.cfg == nil {
		return "", ""
	}
	g := p.cfg().Generation
	return g.Provider, g.Model
}

func (p *Pipeline) logFailure(req types.GenerationRequest, r *run, perr *Error) {
	attrs := []any{
		"request_id", req.RequestID,
		"kind", perr.Kind,
		"steps", r.steps,
		"error", perr.Err,
	}
	switch perr.Kind {
	case KindValidation:
		slog.Info("generation rejected", append(attrs, "message", perr.Message)...)
	case KindParsing, KindEmptyResult:
		slog.Error("model response unusable", append(attrs, "raw_preview", preview(r.raw))...)
	default:
		slog.Error("generation failed", attrs...)
	}
}

// logUsage emits one usage line per call, successful or not.
func (p *Pipeline) logUsage(req types.GenerationRequest, elapsed time.Duration, perr *Error) {
	errorType := ""
	if perr != nil {
		errorType = string(perr.Kind)
	}
	slog.Info("usage stats",
		"request_id", req.RequestID,
		"caller_id", req.CallerID,
		"user_name", req.Profile.Name,
		"position", req.Profile.Position,
		"region", req.Profile.Region(),
		"district", req.Profile.ElectoralDistrict,
		"category", categoryOf(req),
		"success", perr == nil,
		"response_time_ms", elapsed.Milliseconds(),
		"error_type", errorType,
	)
}

func (p *Pipeline) record(req types.GenerationRequest, r *run, elapsed time.Duration, perr *Error) {
	if p.metrics == nil {
		return
	}
	outcome := "success"
	if perr != nil {
		outcome = string(perr.Kind)
	}
	p.metrics.RecordGeneration(telemetry.GenerationLabels{
		Category:   categoryOf(req),
		Outcome:    outcome,
		Strategy:   r.strategy,
		DurationMs: float64(elapsed.Milliseconds()),
	})
}

// userInfo echoes the sanitized profile, with the greeting the prompt told
// the model to open with.
func userInfo(p types.WriterProfile) types.UserInfo {
	return types.UserInfo{
		Name:             p.Name,
		Position:         p.Position,
		Region:           p.Region(),
		District:         p.ElectoralDistrict,
		ExpectedGreeting: prompt.Greeting(p),
	}
}

func countKeywords(s string) int {
	n := 0
	for _, k := range strings.Split(s, ",") {
		if strings.TrimSpace(k) != "" {
			n++
		}
	}
	return n
}

// HealthReport is the pipeline's view of upstream health.
type HealthReport struct {
	Status         string           `json:"status"`
	CircuitBreaker invoker.Snapshot `json:"circuitBreaker"`
	Timestamp      time.Time        `json:"timestamp"`
}

// Health reports DEGRADED while the breaker is open.
func (p *Pipeline) Health() HealthReport {
	snap := p.invoker.Breaker().Snapshot()
	status := StatusHealthy
	if snap.State == invoker.StateOpen.String() {
		status = StatusDegraded
	}
	return HealthReport{Status: status, CircuitBreaker: snap, Timestamp: p.now()}
}

// IsKind reports whether err is a pipeline error of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}

// categoryOf names the category a request will be written under. Names
// outside the table collapse to "unknown" to bound metric cardinality.
func categoryOf(req types.GenerationRequest) string {
	if req.Category == "" {
		return types.DefaultCategory
	}
	if _, ok := types.LookupCategory(req.Category); !ok {
		return "unknown"
	}
	return req.Category
}

func preview(raw string) string {
	if utf8.RuneCountInString(raw) <= rawPreviewRunes {
		return raw
	}
	return string([]rune(raw)[:rawPreviewRunes]) + "..."
}
