package injection

import (
	"context"
	"fmt"

	"github.com/af-corp/draftgen/internal/config"
	"github.com/af-corp/draftgen/internal/filter"
	"github.com/af-corp/draftgen/internal/types"
)

// Detection records a matched injection pattern.
type Detection struct {
	Field    string
	RuleName string
	Severity float64
	Category string
}

// field is one request value that ends up in the prompt.
type field struct {
	name  string
	value string
}

// Scanner scores the free-text parts of a generation request against the
// injection rules. Only the topic and keywords can block; the writer profile
// names real people and places, so a match there only flags.
type Scanner struct {
	rules []Rule
	cfg   func() config.InjectionFilterConfig
}

// NewScanner creates a prompt injection scanner.
func NewScanner(cfg func() config.InjectionFilterConfig) *Scanner {
	return &Scanner{rules: DefaultRules(), cfg: cfg}
}

func (s *Scanner) Name() string  { return "injection" }
func (s *Scanner) Enabled() bool { return s.cfg().Enabled }

// Scan returns every rule that matches text, once per rule.
func (s *Scanner) Scan(text string) []Detection {
	var detections []Detection
	for _, r := range s.rules {
		if r.Regex.MatchString(text) {
			detections = append(detections, Detection{
				RuleName: r.Name,
				Severity: r.Severity,
				Category: r.Category,
			})
		}
	}
	return detections
}

// scanFields tags detections with their field and returns the highest severity.
func (s *Scanner) scanFields(fields []field) ([]Detection, float64) {
	var out []Detection
	score := 0.0
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		for _, d := range s.Scan(f.value) {
			d.Field = f.name
			out = append(out, d)
			score = max(score, d.Severity)
		}
	}
	return out, score
}

// ScanRequest implements filter.Filter.
func (s *Scanner) ScanRequest(_ context.Context, req *types.SanitizedRequest) filter.Result {
	instruction, instructionScore := s.scanFields([]field{
		{"prompt", req.Prompt},
		{"keywords", req.Keywords},
	})
	profile, profileScore := s.scanFields([]field{
		{"name", req.Profile.Name},
		{"position", req.Profile.Position},
		{"region_metro", req.Profile.RegionMetro},
		{"region_local", req.Profile.RegionLocal},
		{"electoral_district", req.Profile.ElectoralDistrict},
	})
	cfg := s.cfg()
	detections := len(instruction) + len(profile)

	if instructionScore >= cfg.BlockThreshold {
		return filter.Result{
			Action:     filter.ActionBlock,
			FilterName: "injection",
			Message:    fmt.Sprintf("요청에 허용되지 않는 지시문이 포함되어 있습니다. (score %.2f)", instructionScore),
			Detections: detections,
			Score:      instructionScore,
		}
	}

	score := max(instructionScore, profileScore)
	if score >= cfg.FlagThreshold {
		return filter.Result{
			Action:     filter.ActionFlag,
			FilterName: "injection",
			Message:    "injection pattern in " + firstField(instruction, profile),
			Detections: detections,
			Score:      score,
		}
	}
	return filter.Result{Action: filter.ActionPass, FilterName: "injection", Score: score}
}

func firstField(groups ...[]Detection) string {
	for _, g := range groups {
		if len(g) > 0 {
			return g[0].Field
		}
	}
	return ""
}
