package filter

import (
	"context"

	"github.com/af-corp/draftgen/internal/types"
)

// Action represents the filter decision.
type Action string

const (
	ActionPass  Action = "pass"
	ActionFlag  Action = "flag"
	ActionBlock Action = "block"
)

// Result is returned by each filter.
type Result struct {
	Action     Action
	FilterName string
	Message    string
	Detections int
	Score      float64

	// Risk is the advisory level this filter assigns; empty means no opinion.
	Risk  types.RiskLevel
	Terms []string
}

// Filter is the interface all request screens implement.
type Filter interface {
	Name() string
	Enabled() bool
	ScanRequest(ctx context.Context, req *types.SanitizedRequest) Result
}

// Chain runs filters in order, stopping on the first Block.
type Chain struct {
	filters []Filter
}

// NewChain creates a filter chain from the given filters.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Run executes all enabled filters in order and folds every non-blocking
// result's risk into req.RiskLevel (risk only ever rises). Returns all results
// and a pointer to the first blocking result (nil if no filter blocked).
func (c *Chain) Run(ctx context.Context, req *types.SanitizedRequest) ([]Result, *Result) {
	if req.RiskLevel == "" {
		req.RiskLevel = types.RiskLow
	}
	var results []Result
	for _, f := range c.filters {
		if !f.Enabled() {
			continue
		}
		r := f.ScanRequest(ctx, req)
		results = append(results, r)
		if r.Action == ActionBlock {
			return results, &r
		}
		req.RiskLevel = req.RiskLevel.Max(r.Risk)
		req.RiskTerms = append(req.RiskTerms, r.Terms...)
	}
	return results, nil
}
