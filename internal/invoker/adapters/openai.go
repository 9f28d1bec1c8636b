package adapters

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/af-corp/draftgen/internal/config"
	"github.com/af-corp/draftgen/internal/invoker"
)

const openAIProvider = "openai"

const systemPrompt = "당신은 정치인의 블로그 원고를 작성하는 전문 비서관입니다. 요청된 JSON 형식으로만 응답하세요."

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client openai.Client
	gen    config.GenerationConfig
}

func NewOpenAI(cfg config.ProviderConfig, gen config.GenerationConfig) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retries are owned by the invoker.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	for k, v := range cfg.Headers {
		if v != "" {
			opts = append(opts, option.WithHeader(k, v))
		}
	}
	return &OpenAI{client: openai.NewClient(opts...), gen: gen}
}

func (a *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.gen.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(float64(a.gen.Temperature)),
		TopP:        openai.Float(float64(a.gen.TopP)),
	}
	if a.gen.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(int64(a.gen.MaxOutputTokens))
	}

	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", openAIError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &invoker.UpstreamError{Provider: openAIProvider, Code: "empty_response", Message: "response contained no choices"}
	}
	return resp.Choices[0].Message.Content, nil
}

func openAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &invoker.UpstreamError{
			Provider:   openAIProvider,
			StatusCode: apiErr.StatusCode,
			Code:       apiErr.Code,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return &invoker.UpstreamError{Provider: openAIProvider, Message: err.Error(), Err: err}
}
