package config

// PolicyConfig holds the replaceable risk tables. Empty lists mean the
// built-in tables are used.
type PolicyConfig struct {
	RiskTerms       []string        `yaml:"risk_terms"`
	ContentPatterns []PatternConfig `yaml:"content_patterns"`
}

type PatternConfig struct {
	Name  string `yaml:"name"`
	Regex string `yaml:"regex"`
}
