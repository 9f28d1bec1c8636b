package keyword

import (
	"sync"

	"github.com/af-corp/draftgen/internal/types"
)

// ContentScanner checks generated content for solicitation-style phrasing.
type ContentScanner struct {
	mu       sync.RWMutex
	patterns []Pattern
}

// NewContentScanner creates a scanner with the given patterns.
func NewContentScanner(patterns []Pattern) *ContentScanner {
	return &ContentScanner{patterns: patterns}
}

// SetPatterns replaces the pattern table.
func (s *ContentScanner) SetPatterns(patterns []Pattern) {
	s.mu.Lock()
	s.patterns = patterns
	s.mu.Unlock()
}

// Scan returns the names of all patterns that match content.
func (s *ContentScanner) Scan(content string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []string
	for _, p := range s.patterns {
		if p.Regex.MatchString(content) {
			matched = append(matched, p.Name)
		}
	}
	return matched
}

// Risk returns MEDIUM if any pattern matches, else LOW.
func (s *ContentScanner) Risk(content string) types.RiskLevel {
	if len(s.Scan(content)) > 0 {
		return types.RiskMedium
	}
	return types.RiskLow
}
