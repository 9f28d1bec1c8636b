// Package adapters provides the text-generation backends behind
// invoker.Generator.
package adapters

import (
	"context"
	"fmt"

	"github.com/af-corp/draftgen/internal/config"
	"github.com/af-corp/draftgen/internal/invoker"
)

// New builds the generator for one providers.yaml entry.
func New(ctx context.Context, cfg config.ProviderConfig, gen config.GenerationConfig) (invoker.Generator, error) {
	switch cfg.Type {
	case "gemini":
		return NewGemini(ctx, cfg, gen)
	case "openai":
		return NewOpenAI(cfg, gen), nil
	case "mock":
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
	}
}

// FromConfig resolves the provider selected by the generation section.
func FromConfig(ctx context.Context, providers *config.ProvidersConfig, gen config.GenerationConfig) (invoker.Generator, error) {
	pc, ok := providers.Lookup(gen.Provider)
	if !ok {
		return nil, fmt.Errorf("provider %q not found in providers config", gen.Provider)
	}
	g, err := New(ctx, pc, gen)
	if err != nil {
		return nil, fmt.Errorf("provider %q: %w", gen.Provider, err)
	}
	return g, nil
}
