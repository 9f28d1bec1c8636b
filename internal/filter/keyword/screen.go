package keyword

import (
	"context"
	"strings"
	"sync"

	"github.com/af-corp/draftgen/internal/filter"
	"github.com/af-corp/draftgen/internal/types"
)

// Screener flags requests whose topic or keywords mention a risk term.
// Matching is a case-insensitive substring scan; any hit means HIGH.
type Screener struct {
	mu    sync.RWMutex
	terms []string
}

// NewScreener creates a screener over the given terms.
func NewScreener(terms []string) *Screener {
	s := &Screener{}
	s.SetTerms(terms)
	return s
}

// SetTerms replaces the term table.
func (s *Screener) SetTerms(terms []string) {
	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lowered = append(lowered, t)
		}
	}
	s.mu.Lock()
	s.terms = lowered
	s.mu.Unlock()
}

func (s *Screener) Name() string  { return "keyword" }
func (s *Screener) Enabled() bool { return true }

// Matches returns every term found in topic or keywords.
func (s *Screener) Matches(topic, keywords string) []string {
	text := strings.ToLower(topic + " " + keywords)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []string
	for _, t := range s.terms {
		if strings.Contains(text, t) {
			found = append(found, t)
		}
	}
	return found
}

// Screen returns HIGH if any term matches, else LOW.
func (s *Screener) Screen(topic, keywords string) types.RiskLevel {
	if len(s.Matches(topic, keywords)) > 0 {
		return types.RiskHigh
	}
	return types.RiskLow
}

// ScanRequest implements filter.Filter. It never blocks.
func (s *Screener) ScanRequest(_ context.Context, req *types.SanitizedRequest) filter.Result {
	found := s.Matches(req.Prompt, req.Keywords)
	if len(found) == 0 {
		return filter.Result{Action: filter.ActionPass, FilterName: "keyword", Risk: types.RiskLow}
	}
	return filter.Result{
		Action:     filter.ActionFlag,
		FilterName: "keyword",
		Message:    "risk terms: " + strings.Join(found, ", "),
		Detections: len(found),
		Risk:       types.RiskHigh,
		Terms:      found,
	}
}
