package filter

import (
	"context"
	"testing"

	"github.com/af-corp/draftgen/internal/types"
)

type stubFilter struct {
	name    string
	enabled bool
	result  Result
	called  *int
}

func (s stubFilter) Name() string  { return s.name }
func (s stubFilter) Enabled() bool { return s.enabled }
func (s stubFilter) ScanRequest(_ context.Context, _ *types.SanitizedRequest) Result {
	if s.called != nil {
		*s.called++
	}
	r := s.result
	r.FilterName = s.name
	return r
}

func TestChain_FoldsRisk(t *testing.T) {
	c := NewChain(
		stubFilter{name: "a", enabled: true, result: Result{Action: ActionFlag, Risk: types.RiskHigh, Terms: []string{"투표"}}},
		stubFilter{name: "b", enabled: true, result: Result{Action: ActionPass, Risk: types.RiskLow}},
	)
	req := &types.SanitizedRequest{}
	results, blocked := c.Run(context.Background(), req)
	if blocked != nil {
		t.Fatalf("unexpected block by %s", blocked.FilterName)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if req.RiskLevel != types.RiskHigh {
		t.Errorf("expected HIGH risk, got %s", req.RiskLevel)
	}
	if len(req.RiskTerms) != 1 || req.RiskTerms[0] != "투표" {
		t.Errorf("unexpected risk terms: %v", req.RiskTerms)
	}
}

func TestChain_DefaultsToLow(t *testing.T) {
	c := NewChain(stubFilter{name: "a", enabled: true, result: Result{Action: ActionPass}})
	req := &types.SanitizedRequest{}
	c.Run(context.Background(), req)
	if req.RiskLevel != types.RiskLow {
		t.Errorf("expected LOW risk, got %q", req.RiskLevel)
	}
}

func TestChain_StopsOnBlock(t *testing.T) {
	calls := 0
	c := NewChain(
		stubFilter{name: "blocker", enabled: true, result: Result{Action: ActionBlock, Message: "nope"}},
		stubFilter{name: "after", enabled: true, called: &calls},
	)
	_, blocked := c.Run(context.Background(), &types.SanitizedRequest{})
	if blocked == nil || blocked.FilterName != "blocker" {
		t.Fatalf("expected block by blocker, got %+v", blocked)
	}
	if calls != 0 {
		t.Error("filters after a block must not run")
	}
}

func TestChain_SkipsDisabled(t *testing.T) {
	calls := 0
	c := NewChain(stubFilter{name: "off", enabled: false, called: &calls})
	results, _ := c.Run(context.Background(), &types.SanitizedRequest{})
	if calls != 0 || len(results) != 0 {
		t.Error("disabled filters must not run")
	}
}
