package inference

import (
	"context"
	"encoding/json"
	"strings"
)

// DefaultChatModel is the conversational model used for chat and writing.
const DefaultChatModel = "microsoft/DialoGPT-medium"

// Replies used when the model produced nothing usable.
const (
	FallbackEmptyReply = "I apologize, but I couldn't generate a response at this time."
	FallbackErrorReply = "Sorry, I'm experiencing technical difficulties. Please try again later."
)

// ChatCompleter produces a single reply for a prompt. Implementations never
// fail: upstream problems turn into a fallback reply.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, message string) string
	Model() string
}

type generatedText struct {
	GeneratedText string `json:"generated_text"`
}

// TextGenerationChat drives a text-generation model with a "User:/Bot:" transcript.
type TextGenerationChat struct {
	client *Client
	model  string
}

// NewTextGenerationChat creates a ChatCompleter on the inference API.
func NewTextGenerationChat(client *Client, model string) *TextGenerationChat {
	if model == "" {
		model = DefaultChatModel
	}
	return &TextGenerationChat{client: client, model: model}
}

// Model returns the model identifier.
func (t *TextGenerationChat) Model() string {
	return t.model
}

// ChatCompletion asks the model to continue a one-turn transcript.
func (t *TextGenerationChat) ChatCompletion(ctx context.Context, message string) string {
	body, err := t.client.postJSON(ctx, t.model, "User: "+message+"\nBot:", map[string]any{
		"max_length":  500,
		"temperature": 0.7,
		"do_sample":   true,
	})
	if err != nil {
		t.client.logger.Error("chat completion failed", "model", t.model, "error", err)
		return FallbackErrorReply
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.client.logger.Error("chat completion returned unexpected payload", "model", t.model, "error", err)
		return FallbackErrorReply
	}

	// Valid JSON that is not a non-empty list of generations is an empty answer.
	var results []generatedText
	if list, ok := payload.([]any); !ok || len(list) == 0 || json.Unmarshal(body, &results) != nil {
		return FallbackEmptyReply
	}

	reply := extractBotReply(results[0].GeneratedText)
	if reply == "" {
		return FallbackEmptyReply
	}
	return reply
}

// extractBotReply keeps only the text after the last "Bot:" marker.
func extractBotReply(generated string) string {
	if i := strings.LastIndex(generated, "Bot:"); i >= 0 {
		return strings.TrimSpace(generated[i+len("Bot:"):])
	}
	return generated
}
