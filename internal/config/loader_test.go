package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "hello")
	defer os.Unsetenv("TEST_VAR")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR}", "hello"},
		{"${TEST_VAR:default}", "hello"},
		{"${UNSET_VAR:fallback}", "fallback"},
		{"${UNSET_VAR}", ""},
		{"no vars here", "no vars here"},
		{"prefix-${TEST_VAR}-suffix", "prefix-hello-suffix"},
	}

	for _, tt := range tests {
		got := expandEnvVars(tt.input)
		if got != tt.expected {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLoadFile(t *testing.T) {
	// Create a temp YAML file
	tmpFile, err := os.CreateTemp("", "test-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	content := `
server:
  host: "0.0.0.0"
  port: 9999
`
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	var cfg Config
	if err := LoadFile(tmpFile.Name(), &cfg); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected host 0.0.0.0, got %s", cfg.Server.Host)
	}
}

func TestLoadFile_WithEnvVars(t *testing.T) {
	os.Setenv("TEST_PORT", "7777")
	defer os.Unsetenv("TEST_PORT")

	tmpFile, err := os.CreateTemp("", "test-config-env-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	content := `
server:
  host: "${TEST_HOST:127.0.0.1}"
  port: ${TEST_PORT}
`
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	var cfg Config
	if err := LoadFile(tmpFile.Name(), &cfg); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected host 127.0.0.1 (default), got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("expected port 7777, got %d", cfg.Server.Port)
	}
}

func writeConfigDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const testProviders = `
providers:
  gemini:
    type: gemini
    api_key: "${TEST_GEMINI_KEY:none}"
    timeout: 20s
  local:
    type: mock
`

func TestLoader_Load(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		"draftgen.yaml": `
generation:
  provider: gemini
  model: gemini-1.5-pro
resilience:
  circuit_breaker:
    failure_threshold: 8
`,
		"providers.yaml": testProviders,
	})

	l := NewLoader(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := l.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg := l.Config()
	if cfg.Generation.Model != "gemini-1.5-pro" {
		t.Errorf("expected model override, got %s", cfg.Generation.Model)
	}
	// Unset keys keep their defaults
	if cfg.Generation.Temperature != 0.6 {
		t.Errorf("expected default temperature 0.6, got %v", cfg.Generation.Temperature)
	}
	if cfg.Resilience.CircuitBreaker.FailureThreshold != 8 {
		t.Errorf("expected failure threshold 8, got %d", cfg.Resilience.CircuitBreaker.FailureThreshold)
	}
	if cfg.Resilience.CircuitBreaker.Cooldown != 60*time.Second {
		t.Errorf("expected default cooldown 60s, got %s", cfg.Resilience.CircuitBreaker.Cooldown)
	}

	p, ok := l.Providers().Lookup("gemini")
	if !ok {
		t.Fatal("expected gemini provider")
	}
	if p.APIKey != "none" {
		t.Errorf("expected env default api key, got %q", p.APIKey)
	}
	if p.Timeout != 20*time.Second {
		t.Errorf("expected timeout 20s, got %s", p.Timeout)
	}

	if l.Policy() == nil || len(l.Policy().RiskTerms) != 0 {
		t.Error("expected empty policy config when policy.yaml is absent")
	}
}

func TestLoader_Load_UnknownProvider(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		"draftgen.yaml":  "generation:\n  provider: azure\n",
		"providers.yaml": testProviders,
	})

	l := NewLoader(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := l.Load(); err == nil {
		t.Fatal("expected error for provider missing from providers.yaml")
	}
}

func TestLoader_Load_PolicyFile(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		"draftgen.yaml":  "generation:\n  provider: local\n",
		"providers.yaml": testProviders,
		"policy.yaml": `
risk_terms: ["election", "ballot"]
content_patterns:
  - name: vote_request
    regex: "(?i)vote\\s+for\\s+me"
`,
	})

	l := NewLoader(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := l.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	pol := l.Policy()
	if len(pol.RiskTerms) != 2 || pol.RiskTerms[1] != "ballot" {
		t.Errorf("unexpected risk terms: %v", pol.RiskTerms)
	}
	if len(pol.ContentPatterns) != 1 || pol.ContentPatterns[0].Name != "vote_request" {
		t.Errorf("unexpected content patterns: %v", pol.ContentPatterns)
	}
}

func TestLoader_OnReload(t *testing.T) {
	l := NewLoader(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	calls := 0
	l.OnReload(func() { calls++ })
	l.OnReload(func() { calls++ })
	l.reloaded()
	if calls != 2 {
		t.Errorf("expected 2 reload callbacks, got %d", calls)
	}
}

func TestTelemetryConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := (TelemetryConfig{LogLevel: tt.level}).SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
