package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethiogpt/toolsgate/internal/model"
)

// Content types understood by the writer.
const (
	ContentBlog        = "blog"
	ContentResume      = "resume"
	ContentCoverLetter = "cover_letter"
	ContentSocial      = "social"
)

// WriteInput is the body of /write.
type WriteInput struct {
	Type   string `json:"type"`
	Topic  string `json:"topic" validate:"required,max=1000"`
	Length string `json:"length"`
	Tone   string `json:"tone"`
}

var writeMessages = Messages{
	"topic.required": "Topic is required",
	"topic.max":      "Topic too long. Maximum 1000 characters.",
}

// WriteResult is the /write response.
type WriteResult struct {
	Content string `json:"content"`
	Type    string `json:"type"`
	Topic   string `json:"topic"`
	Length  string `json:"length"`
	Tone    string `json:"tone"`
}

// WriterPrompt builds the generation prompt. Unknown types get a generic prompt.
func WriterPrompt(contentType, topic, length, tone string) string {
	switch contentType {
	case ContentBlog:
		return fmt.Sprintf("Write a %s blog post about: %s. Length: %s", tone, topic, length)
	case ContentResume:
		return fmt.Sprintf("Write a %s professional resume summary for: %s", tone, topic)
	case ContentCoverLetter:
		return fmt.Sprintf("Write a %s cover letter for: %s", tone, topic)
	case ContentSocial:
		return fmt.Sprintf("Write a %s social media post about: %s. Length: %s", tone, topic, length)
	default:
		return "Write about: " + topic
	}
}

// Write generates a piece of content through the chat model.
func (s *ToolService) Write(ctx context.Context, input WriteInput) (*WriteResult, error) {
	input.Topic = strings.TrimSpace(input.Topic)
	if err := s.validator.Struct(input, writeMessages); err != nil {
		return nil, err
	}

	result := &WriteResult{
		Type:   defaultString(input.Type, ContentBlog),
		Topic:  input.Topic,
		Length: defaultString(input.Length, "medium"),
		Tone:   defaultString(input.Tone, "professional"),
	}

	prompt := WriterPrompt(result.Type, result.Topic, result.Length, result.Tone)
	result.Content = s.chat.ChatCompletion(ctx, prompt)
	s.record(model.ToolWriter, nil)

	return result, nil
}
