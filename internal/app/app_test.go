package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/af-corp/draftgen/internal/config"
	"github.com/af-corp/draftgen/internal/invoker/adapters"
	"github.com/af-corp/draftgen/internal/telemetry"
	"github.com/af-corp/draftgen/internal/types"
)

const (
	testConfig    = "generation:\n  provider: local\n  model: exemplar\n"
	testProviders = "providers:\n  local:\n    type: mock\n"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newLoader(t *testing.T, policy string) (*config.Loader, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "draftgen.yaml", testConfig)
	writeFile(t, dir, "providers.yaml", testProviders)
	if policy != "" {
		writeFile(t, dir, "policy.yaml", policy)
	}
	l := config.NewLoader(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, l.Load())
	return l, dir
}

func request(topic string) types.GenerationRequest {
	return types.GenerationRequest{
		Profile: types.WriterProfile{
			Name:        "홍길동",
			Position:    "시의원",
			RegionMetro: "부산시",
			RegionLocal: "해운대구",
		},
		Prompt:    topic,
		RequestID: "req-app",
		CallerID:  "user-1",
	}
}

func TestBuild_GeneratesWithConfiguredProvider(t *testing.T) {
	l, _ := newLoader(t, "")
	a, err := Build(context.Background(), l, telemetry.NewMetrics(prometheus.NewRegistry()), Options{})
	require.NoError(t, err)

	res, err := a.Pipeline.Generate(context.Background(), request("해수욕장 개장 안내"))
	require.NoError(t, err)
	assert.Len(t, res.Drafts, 3)
	assert.Equal(t, "local", res.Metadata.Provider)
	assert.Equal(t, "exemplar", res.Metadata.Model)
	assert.Equal(t, types.DefaultCategory, res.Metadata.Category)
}

func TestBuild_InvalidContentPattern(t *testing.T) {
	l, _ := newLoader(t, "content_patterns:\n  - name: broken\n    regex: \"(\"\n")
	_, err := Build(context.Background(), l, nil, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestReload_AppliesNewRiskTerms(t *testing.T) {
	l, dir := newLoader(t, "risk_terms: [\"축제\"]\n")
	a, err := Build(context.Background(), l, nil, Options{})
	require.NoError(t, err)

	res, err := a.Pipeline.Generate(context.Background(), request("여름 축제 일정 공유"))
	require.NoError(t, err)
	assert.Equal(t, types.RiskHigh, res.Metadata.RiskLevel)

	writeFile(t, dir, "policy.yaml", "risk_terms: [\"재개발\"]\n")
	require.NoError(t, l.Load())
	a.Reload(context.Background())

	res, err = a.Pipeline.Generate(context.Background(), request("여름 축제 일정 공유"))
	require.NoError(t, err)
	assert.Equal(t, types.RiskLow, res.Metadata.RiskLevel)
}

func TestReload_KeepsPinnedGenerator(t *testing.T) {
	l, _ := newLoader(t, "")
	pinned := &adapters.Mock{Response: `[{"title":"고정 응답","content":"해운대구 주민 여러분, 이번 주말 해수욕장 개장 행사에 함께해주세요."}]`}
	a, err := Build(context.Background(), l, nil, Options{Generator: pinned})
	require.NoError(t, err)

	a.Reload(context.Background())

	res, err := a.Pipeline.Generate(context.Background(), request("해수욕장 개장 안내"))
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "고정 응답", res.Drafts[0].Title)
}
