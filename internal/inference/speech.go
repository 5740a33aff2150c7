package inference

import (
	"context"
	"encoding/json"
	"fmt"
)

// Speech models.
const (
	TTSModel = "facebook/mms-tts-eng"
	STTModel = "facebook/wav2vec2-base-960h"
)

// TextToSpeech returns synthesized audio bytes.
func (c *Client) TextToSpeech(ctx context.Context, text string) ([]byte, error) {
	data, err := c.postJSON(ctx, TTSModel, text, nil)
	if err != nil {
		return nil, fmt.Errorf("TTS failed: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("TTS failed: empty response from %s", TTSModel)
	}
	return data, nil
}

type transcription struct {
	Text string `json:"text"`
}

// SpeechToText transcribes raw audio bytes.
func (c *Client) SpeechToText(ctx context.Context, audio []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body, err := c.post(ctx, STTModel, contentType, audio)
	if err != nil {
		return "", fmt.Errorf("STT failed: %w", err)
	}

	var result transcription
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("STT failed: decode response: %w", err)
	}
	return result.Text, nil
}
