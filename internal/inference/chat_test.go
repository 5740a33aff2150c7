package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBotReply(t *testing.T) {
	tests := []struct {
		name      string
		generated string
		want      string
	}{
		{"after last marker", "User: hi\nBot: hello there ", "hello there"},
		{"multiple markers", "User: hi\nBot: one\nUser: more\nBot:  two", "two"},
		{"no marker", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBotReply(tt.generated))
		})
	}
}

func TestChatCompletion(t *testing.T) {
	var got capturedRequest
	srv := newTestServer(t, http.StatusOK, `[{"generated_text":"User: selam\nBot: Hi! How can I help?"}]`, &got)
	chat := NewTextGenerationChat(newTestClient(srv, nil), "")

	reply := chat.ChatCompletion(context.Background(), "selam")
	assert.Equal(t, "Hi! How can I help?", reply)
	assert.Equal(t, DefaultChatModel, chat.Model())
	assert.Equal(t, "/"+DefaultChatModel, got.Path)

	var payload struct {
		Inputs     string         `json:"inputs"`
		Parameters map[string]any `json:"parameters"`
	}
	require.NoError(t, json.Unmarshal(got.Body, &payload))
	assert.Equal(t, "User: selam\nBot:", payload.Inputs)
	assert.Equal(t, float64(500), payload.Parameters["max_length"])
	assert.Equal(t, 0.7, payload.Parameters["temperature"])
	assert.Equal(t, true, payload.Parameters["do_sample"])
}

func TestChatCompletion_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"empty list", http.StatusOK, `[]`, FallbackEmptyReply},
		{"object instead of list", http.StatusOK, `{"warning":"odd"}`, FallbackEmptyReply},
		{"blank generation", http.StatusOK, `[{"generated_text":"User: hi\nBot:   "}]`, FallbackEmptyReply},
		{"list of strings", http.StatusOK, `["odd"]`, FallbackEmptyReply},
		{"not json", http.StatusOK, `<html>gateway</html>`, FallbackErrorReply},
		{"upstream error", http.StatusInternalServerError, `boom`, FallbackErrorReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body, nil)
			chat := NewTextGenerationChat(newTestClient(srv, nil), "")
			assert.Equal(t, tt.want, chat.ChatCompletion(context.Background(), "hi"))
		})
	}
}

func TestChatCompletion_MissingKey(t *testing.T) {
	chat := NewTextGenerationChat(New(Options{}), "")
	assert.Equal(t, FallbackErrorReply, chat.ChatCompletion(context.Background(), "hi"))
}

func TestOpenAIChat(t *testing.T) {
	var got capturedRequest
	srv := newTestServer(t, http.StatusOK, `{
		"id":"cmpl-1","object":"chat.completion","model":"m",
		"choices":[{"index":0,"message":{"role":"assistant","content":"  Selam!  "},"finish_reason":"stop"}]
	}`, &got)

	chat := NewOpenAIChat("key", srv.URL+"/v1/", "meta-llama/Llama-3.1-8B-Instruct", 0, nil)
	reply := chat.ChatCompletion(context.Background(), "hello")

	assert.Equal(t, "Selam!", reply)
	assert.Equal(t, "/v1/chat/completions", got.Path)
	assert.Equal(t, "Bearer key", got.Auth)
	assert.Equal(t, "meta-llama/Llama-3.1-8B-Instruct", chat.Model())
}

func TestOpenAIChat_Fallbacks(t *testing.T) {
	empty := newTestServer(t, http.StatusOK, `{"choices":[]}`, nil)
	assert.Equal(t, FallbackEmptyReply,
		NewOpenAIChat("key", empty.URL, "m", 0, nil).ChatCompletion(context.Background(), "hi"))

	failing := newTestServer(t, http.StatusBadGateway, `{"error":{"message":"bad gateway"}}`, nil)
	assert.Equal(t, FallbackErrorReply,
		NewOpenAIChat("key", failing.URL, "m", 0, nil).ChatCompletion(context.Background(), "hi"))
}
