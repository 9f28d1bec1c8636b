package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/af-corp/draftgen/internal/config"
	"github.com/af-corp/draftgen/internal/invoker"
)

const geminiProvider = "gemini"

// Gemini calls the Gemini API through the genai SDK.
type Gemini struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func NewGemini(ctx context.Context, cfg config.ProviderConfig, gen config.GenerationConfig) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: cfg.APIVersion,
			Headers:    headers(cfg.Headers),
		},
	}
	if cfg.Timeout > 0 {
		cc.HTTPOptions.Timeout = genai.Ptr(cfg.Timeout)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  gen.Model,
		config: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(gen.Temperature),
			TopP:            genai.Ptr(gen.TopP),
			TopK:            genai.Ptr(gen.TopK),
			CandidateCount:  1,
			MaxOutputTokens: gen.MaxOutputTokens,
		},
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", geminiError(err)
	}

	text := resp.Text()
	if text == "" {
		ue := &invoker.UpstreamError{Provider: geminiProvider, Code: "empty_response", Message: "response contained no text"}
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
			ue.Message = fmt.Sprintf("response contained no text (finish reason %s)", resp.Candidates[0].FinishReason)
		}
		return "", ue
	}
	return text, nil
}

func geminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &invoker.UpstreamError{
			Provider:   geminiProvider,
			StatusCode: apiErr.Code,
			Code:       apiErr.Status,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return &invoker.UpstreamError{Provider: geminiProvider, Message: err.Error(), Err: err}
}

func headers(m map[string]string) http.Header {
	if len(m) == 0 {
		return nil
	}
	h := make(http.Header, len(m))
	for k, v := range m {
		if v != "" {
			h.Set(k, v)
		}
	}
	return h
}
