package inference

import (
	"context"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIChat is a ChatCompleter for OpenAI-compatible chat completion routers.
type OpenAIChat struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIChat creates a ChatCompleter against baseURL. A zero timeout
// falls back to DefaultTimeout.
func NewOpenAIChat(apiKey, baseURL, model string, timeout time.Duration, logger *slog.Logger) *OpenAIChat {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	cfg.HTTPClient = NewHTTPClient(timeout)
	if logger == nil {
		logger = slog.Default()
	}

	return &OpenAIChat{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger.With("component", "inference.openai"),
	}
}

// Model returns the model identifier.
func (o *OpenAIChat) Model() string {
	return o.model
}

// ChatCompletion sends the message as a single user turn.
func (o *OpenAIChat) ChatCompletion(ctx context.Context, message string) string {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		o.logger.Error("chat completion failed", "model", o.model, "error", err)
		return FallbackErrorReply
	}
	if len(resp.Choices) == 0 {
		return FallbackEmptyReply
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return FallbackEmptyReply
	}
	return reply
}
