package policy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/af-corp/draftgen/internal/config"
	"github.com/af-corp/draftgen/internal/filter"
	"github.com/af-corp/draftgen/internal/types"
	"github.com/open-policy-agent/opa/rego"
)

const query = "[data.draftgen.policy.allow, data.draftgen.policy.risk, data.draftgen.policy.reason]"

// PolicyInput is the data sent to OPA for evaluation.
type PolicyInput struct {
	Caller  PolicyCaller  `json:"caller"`
	Request PolicyRequest `json:"request"`
	Time    PolicyTime    `json:"time"`
}

type PolicyCaller struct {
	ID string `json:"id"`
}

type PolicyRequest struct {
	Category     string   `json:"category"`
	SubCategory  string   `json:"sub_category"`
	Region       string   `json:"region"`
	RiskLevel    string   `json:"risk_level"`
	RiskTerms    []string `json:"risk_terms"`
	PromptLength int      `json:"prompt_length"`
}

type PolicyTime struct {
	Hour int    `json:"hour"`
	Day  string `json:"day"`
}

// Decision is the outcome of one policy evaluation.
type Decision struct {
	Allowed bool
	Risk    types.RiskLevel
	Reason  string
}

// Evaluator implements filter.Filter using OPA. A jurisdiction policy can
// raise a request's risk level or deny it outright.
type Evaluator struct {
	mu       sync.RWMutex
	prepared *rego.PreparedEvalQuery
	cfg      func() config.PolicyFilterConfig
	now      func() time.Time
}

// NewEvaluator creates a policy evaluator. Call Load() to compile policies.
func NewEvaluator(cfg func() config.PolicyFilterConfig) *Evaluator {
	return &Evaluator{cfg: cfg, now: time.Now}
}

func (e *Evaluator) Name() string  { return "policy" }
func (e *Evaluator) Enabled() bool { return e.cfg().Enabled }

// Load compiles Rego modules from the bundle path.
func (e *Evaluator) Load() error {
	cfg := e.cfg()
	modules, err := LoadRegoFiles(cfg.BundlePath)
	if err != nil {
		return fmt.Errorf("load rego files: %w", err)
	}
	if len(modules) == 0 {
		slog.Warn("no rego files found", "path", cfg.BundlePath)
		return nil
	}
	if err := e.LoadFromModules(modules); err != nil {
		return err
	}
	slog.Info("opa policies loaded", "modules", len(modules))
	return nil
}

// LoadFromModules compiles policies from provided module sources.
func (e *Evaluator) LoadFromModules(modules map[string]string) error {
	opts := []func(*rego.Rego){rego.Query(query)}
	for name, src := range modules {
		opts = append(opts, rego.Module(name, src))
	}

	prepared, err := rego.New(opts...).PrepareForEval(context.Background())
	if err != nil {
		return fmt.Errorf("prepare rego: %w", err)
	}

	e.mu.Lock()
	e.prepared = &prepared
	e.mu.Unlock()
	return nil
}

// Evaluate runs the policy against the given input.
func (e *Evaluator) Evaluate(ctx context.Context, input PolicyInput) (Decision, error) {
	e.mu.RLock()
	prepared := e.prepared
	e.mu.RUnlock()

	if prepared == nil {
		// No policies loaded: fail closed
		return Decision{Reason: "no policies loaded"}, nil
	}

	timeout := e.cfg().EvaluationTimeout
	if timeout == 0 {
		timeout = 100 * time.Millisecond
	}

	evalCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results, err := prepared.Eval(evalCtx, rego.EvalInput(input))
	if err != nil {
		return Decision{Reason: "policy evaluation error"}, fmt.Errorf("evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return Decision{Reason: "no policy result"}, nil
	}

	// Result is [allow, risk, reason]
	arr, ok := results[0].Expressions[0].Value.([]interface{})
	if !ok || len(arr) < 3 {
		return Decision{Reason: "unexpected policy result format"}, nil
	}

	allowed, _ := arr[0].(bool)
	riskStr, _ := arr[1].(string)
	reason, _ := arr[2].(string)

	risk, ok := types.ParseRiskLevel(riskStr)
	if !ok {
		risk = types.RiskLow
	}

	return Decision{Allowed: allowed, Risk: risk, Reason: reason}, nil
}

// ScanRequest implements filter.Filter.
func (e *Evaluator) ScanRequest(ctx context.Context, req *types.SanitizedRequest) filter.Result {
	now := e.now().UTC()
	input := PolicyInput{
		Caller: PolicyCaller{ID: req.CallerID},
		Request: PolicyRequest{
			Category:     req.Category,
			SubCategory:  req.SubCategory,
			Region:       req.Profile.Region(),
			RiskLevel:    string(req.RiskLevel),
			RiskTerms:    req.RiskTerms,
			PromptLength: len([]rune(req.Prompt)),
		},
		Time: PolicyTime{
			Hour: now.Hour(),
			Day:  now.Weekday().String(),
		},
	}

	decision, err := e.Evaluate(ctx, input)
	if err != nil {
		slog.Error("policy evaluation failed", "request_id", req.RequestID, "error", err)
		// Fail closed
		return filter.Result{
			Action:     filter.ActionBlock,
			FilterName: "policy",
			Message:    "정책 검토를 완료할 수 없어 요청이 거부되었습니다.",
		}
	}

	if !decision.Allowed {
		return filter.Result{
			Action:     filter.ActionBlock,
			FilterName: "policy",
			Message:    "정책에 의해 거부된 요청입니다: " + decision.Reason,
		}
	}

	action := filter.ActionPass
	if decision.Risk.Level() > types.RiskLow.Level() {
		action = filter.ActionFlag
	}
	return filter.Result{Action: action, FilterName: "policy", Risk: decision.Risk, Message: decision.Reason}
}
