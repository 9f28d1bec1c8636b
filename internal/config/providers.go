package config

import "time"

type ProvidersConfig struct {
	Providers map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig describes one text-generation backend. Type is one of
// "gemini", "openai" or "mock".
type ProviderConfig struct {
	Type       string            `yaml:"type"`
	BaseURL    string            `yaml:"base_url,omitempty"`
	APIKey     string            `yaml:"api_key"`
	APIVersion string            `yaml:"api_version,omitempty"`
	Timeout    time.Duration     `yaml:"timeout"`
	Headers    map[string]string `yaml:"headers,omitempty"`
}

// Lookup returns the named provider entry.
func (p *ProvidersConfig) Lookup(name string) (ProviderConfig, bool) {
	if p == nil {
		return ProviderConfig{}, false
	}
	cfg, ok := p.Providers[name]
	return cfg, ok
}
