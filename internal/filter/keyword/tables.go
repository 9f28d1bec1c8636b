package keyword

import (
	"fmt"
	"regexp"

	"github.com/af-corp/draftgen/internal/config"
)

// Pattern defines a content-risk detection pattern.
type Pattern struct {
	Name  string
	Regex *regexp.Regexp
}

// DefaultTerms returns the built-in election/endorsement/campaign-finance terms.
func DefaultTerms() []string {
	return []string{
		"선거", "투표", "지지", "반대", "탄핵", "규탄", "비판", "공격",
		"후보", "당선", "낙선", "정치자금", "기부", "후원", "선거운동",
		"정적", "견제", "대립", "갈등", "논란", "스캔들",
	}
}

// DefaultPatterns returns the built-in solicitation-style phrasing patterns.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Name: "support_request", Regex: regexp.MustCompile(`지지.*해주세요`)},
		{Name: "vote_request", Regex: regexp.MustCompile(`투표.*부탁`)},
		{Name: "sponsorship_request", Regex: regexp.MustCompile(`후원.*요청`)},
		{Name: "donation_request", Regex: regexp.MustCompile(`기부.*해주`)},
		{Name: "opposition_call", Regex: regexp.MustCompile(`반대.*해야`)},
		{Name: "condemnation", Regex: regexp.MustCompile(`규탄.*합니다`)},
		{Name: "solicitation_en", Regex: regexp.MustCompile(`(?i)please\s+(support|vote|donate)`)},
	}
}

// TermsFromConfig returns the configured terms, or the defaults when none are set.
func TermsFromConfig(cfg *config.PolicyConfig) []string {
	if cfg == nil || len(cfg.RiskTerms) == 0 {
		return DefaultTerms()
	}
	return cfg.RiskTerms
}

// PatternsFromConfig compiles the configured patterns, or returns the defaults
// when none are set.
func PatternsFromConfig(cfg *config.PolicyConfig) ([]Pattern, error) {
	if cfg == nil || len(cfg.ContentPatterns) == 0 {
		return DefaultPatterns(), nil
	}
	patterns := make([]Pattern, 0, len(cfg.ContentPatterns))
	for _, pc := range cfg.ContentPatterns {
		re, err := regexp.Compile(pc.Regex)
		if err != nil {
			return nil, fmt.Errorf("compile content pattern %s: %w", pc.Name, err)
		}
		patterns = append(patterns, Pattern{Name: pc.Name, Regex: re})
	}
	return patterns, nil
}
