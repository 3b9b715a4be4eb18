package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/animora/vetassist/internal/domain"
	"github.com/animora/vetassist/internal/metrics"
)

// Vision describes images through an OpenAI-compatible multimodal endpoint
// (Ollama with LLaVA, or a hosted vision model).
type Vision struct {
	client   *openai.Client
	model    string
	provider string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewVision creates a vision provider. Image models are slow, so the timeout
// is longer than for text completion.
func NewVision(cfg *Config) *Vision {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Vision{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		timeout:  timeout,
		logger:   cfg.Logger,
	}
}

// Describe sends the image with the prompt and returns the model's free-text
// description. A refused connection maps to ErrVisionNotRunning so the
// handler can tell the operator to start the local model server.
func (v *Vision) Describe(ctx context.Context, imageBase64, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       v.model,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: "data:image/jpeg;base64," + imageBase64,
					},
				},
			},
		}},
	}

	start := time.Now()

	resp, err := v.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(v.provider, v.model, "error").Inc()
		if isConnectionRefused(err) {
			return "", fmt.Errorf("%s is not reachable: %w", v.provider, domain.ErrVisionNotRunning)
		}
		return "", mapProviderError(v.provider, err)
	}

	if len(resp.Choices) == 0 {
		metrics.CompletionRequestsTotal.WithLabelValues(v.provider, v.model, "error").Inc()
		return "", fmt.Errorf("empty vision response: %w", domain.ErrProviderUnavailable)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(v.provider, v.model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(v.provider, v.model).Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}
