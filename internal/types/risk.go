package types

// RiskLevel is the advisory risk annotation carried by requests and drafts.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Level returns a numeric level for comparison.
// Higher values mean more sensitive.
func (r RiskLevel) Level() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	default:
		return -1
	}
}

// Max returns the more sensitive of r and other.
func (r RiskLevel) Max(other RiskLevel) RiskLevel {
	if other.Level() > r.Level() {
		return other
	}
	return r
}

func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s), true
	default:
		return "", false
	}
}
