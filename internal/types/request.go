package types

import (
	"strings"
	"time"
)

// WriterProfile identifies the politician the drafts are written for.
type WriterProfile struct {
	Name              string `json:"name" validate:"required,max=50"`
	Position          string `json:"position" validate:"required,max=100"`
	RegionMetro       string `json:"regionMetro" validate:"required,max=50"`
	RegionLocal       string `json:"regionLocal,omitempty" validate:"max=50"`
	ElectoralDistrict string `json:"electoralDistrict,omitempty" validate:"max=100"`
}

// Region is the metro and local region joined, e.g. "서울시 강남구".
func (p WriterProfile) Region() string {
	return strings.TrimSpace(p.RegionMetro + " " + p.RegionLocal)
}

// FullRegion appends the electoral district when one is set.
func (p WriterProfile) FullRegion() string {
	if p.ElectoralDistrict == "" {
		return p.Region()
	}
	return p.Region() + " " + p.ElectoralDistrict
}

// GenerationRequest is the inbound writing request as submitted by the caller.
type GenerationRequest struct {
	Profile     WriterProfile `json:"userProfile"`
	Prompt      string        `json:"prompt" validate:"required,min=5,max=500"`
	Keywords    string        `json:"keywords,omitempty" validate:"max=200"`
	Category    string        `json:"category,omitempty" validate:"omitempty,category"`
	SubCategory string        `json:"subCategory,omitempty"`

	// Set by the server, never decoded from the body.
	RequestID string `json:"-"`
	CallerID  string `json:"-"`
}

// SanitizedRequest is a GenerationRequest that passed validation, with every
// free-text field stripped of characters that could corrupt the prompt.
type SanitizedRequest struct {
	RequestID   string
	CallerID    string
	Profile     WriterProfile
	Prompt      string
	Keywords    string
	Category    string
	SubCategory string

	// Risk annotation (set by the filter chain)
	RiskLevel RiskLevel
	RiskTerms []string

	// RequestedAt is rendered into the prompt as the writing date.
	RequestedAt time.Time
}
