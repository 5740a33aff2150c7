package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ethiogpt/toolsgate/internal/inference"
	"github.com/ethiogpt/toolsgate/internal/metrics"
	"github.com/ethiogpt/toolsgate/internal/model"
)

// Tool outcome labels for metrics.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// Inference is the remote model API used by the tools.
type Inference interface {
	GenerateImage(ctx context.Context, prompt, preset string) ([]byte, error)
	Translate(ctx context.Context, text, target, source string) string
	TextToSpeech(ctx context.Context, text string) ([]byte, error)
	SpeechToText(ctx context.Context, audio []byte, contentType string) (string, error)
}

// ArtifactStore persists generated files.
type ArtifactStore interface {
	Save(ctx context.Context, kind model.ArtifactKind, data []byte) (string, error)
}

// ToolService implements the AI tools on top of the inference API.
type ToolService struct {
	chat      inference.ChatCompleter
	inference Inference
	artifacts ArtifactStore
	validator *Validator
	resumes   *ResumeRenderer
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// ToolServiceOptions wires a ToolService.
type ToolServiceOptions struct {
	Chat      inference.ChatCompleter
	Inference Inference
	Artifacts ArtifactStore
	Validator *Validator
	Logger    *slog.Logger
	Metrics   metrics.Recorder
}

// NewToolService creates a new ToolService.
func NewToolService(opts ToolServiceOptions) *ToolService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := opts.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	v := opts.Validator
	if v == nil {
		v = NewValidator()
	}
	return &ToolService{
		chat:      opts.Chat,
		inference: opts.Inference,
		artifacts: opts.Artifacts,
		validator: v,
		resumes:   NewResumeRenderer(),
		logger:    logger.With("component", "service.tools"),
		metrics:   recorder,
	}
}

func (s *ToolService) record(tool string, err error) {
	if err != nil {
		s.metrics.IncToolRequest(tool, statusError)
		return
	}
	s.metrics.IncToolRequest(tool, statusSuccess)
}

func defaultString(value, fallback string) string {
	if value = strings.TrimSpace(value); value == "" {
		return fallback
	}
	return value
}

// ChatInput is the body of /chat.
type ChatInput struct {
	Input     string `json:"input" validate:"required,max=1000"`
	SessionID string `json:"session_id"`
}

var chatMessages = Messages{
	"input.required": "Input is required",
	"input.max":      "Input too long. Maximum 1000 characters.",
}

// ChatMeta describes how a reply was produced.
type ChatMeta struct {
	Model     string `json:"model"`
	SessionID string `json:"session_id"`
}

// ChatResult is the /chat response.
type ChatResult struct {
	Reply string   `json:"reply"`
	Meta  ChatMeta `json:"meta"`
}

// Chat replies to a single message. Upstream failures produce a fallback reply.
func (s *ToolService) Chat(ctx context.Context, input ChatInput) (*ChatResult, error) {
	input.Input = strings.TrimSpace(input.Input)
	if err := s.validator.Struct(input, chatMessages); err != nil {
		return nil, err
	}

	reply := s.chat.ChatCompletion(ctx, input.Input)
	s.record(model.ToolChat, nil)

	return &ChatResult{
		Reply: reply,
		Meta: ChatMeta{
			Model:     s.chat.Model(),
			SessionID: defaultString(input.SessionID, "default"),
		},
	}, nil
}

// ImageInput is the body of /image.
type ImageInput struct {
	Prompt string `json:"prompt" validate:"required,max=500"`
	Preset string `json:"preset"`
}

var imageMessages = Messages{
	"prompt.required": "Prompt is required",
	"prompt.max":      "Prompt too long. Maximum 500 characters.",
}

// GenerateImage renders a prompt and stores the picture as an artifact.
func (s *ToolService) GenerateImage(ctx context.Context, input ImageInput) (*model.ArtifactResponse, error) {
	input.Prompt = strings.TrimSpace(input.Prompt)
	if err := s.validator.Struct(input, imageMessages); err != nil {
		return nil, err
	}
	preset := defaultString(input.Preset, inference.PresetRealistic)

	data, err := s.inference.GenerateImage(ctx, input.Prompt, preset)
	if err == nil {
		var name string
		name, err = s.artifacts.Save(ctx, model.ArtifactImage, data)
		if err == nil {
			s.record(model.ToolImage, nil)
			resp := model.NewArtifactResponse(name)
			return &resp, nil
		}
	}

	s.record(model.ToolImage, err)
	s.logger.Error("image generation failed", "preset", preset, "error", err)
	return nil, err
}

// TranslateInput is the body of /translate.
type TranslateInput struct {
	Text       string `json:"text" validate:"required,max=2000"`
	TargetLang string `json:"target_lang"`
	SourceLang string `json:"source_lang"`
}

var translateMessages = Messages{
	"text.required": "Text is required",
	"text.max":      "Text too long. Maximum 2000 characters.",
}

// TranslateResult is the /translate response.
type TranslateResult struct {
	TranslatedText string `json:"translated_text"`
	OriginalText   string `json:"original_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
}

// Translate translates text. Upstream failures return the original text.
func (s *ToolService) Translate(ctx context.Context, input TranslateInput) (*TranslateResult, error) {
	input.Text = strings.TrimSpace(input.Text)
	if err := s.validator.Struct(input, translateMessages); err != nil {
		return nil, err
	}
	target := defaultString(input.TargetLang, "en")
	source := defaultString(input.SourceLang, "en")

	translated := s.inference.Translate(ctx, input.Text, target, source)
	s.record(model.ToolTranslator, nil)

	return &TranslateResult{
		TranslatedText: translated,
		OriginalText:   input.Text,
		SourceLang:     source,
		TargetLang:     target,
	}, nil
}

// TTSInput is the body of /tts.
type TTSInput struct {
	Text string `json:"text" validate:"required,max=1000"`
}

var ttsMessages = Messages{
	"text.required": "Text is required",
	"text.max":      "Text too long. Maximum 1000 characters.",
}

// TextToSpeech synthesizes speech and stores the audio as an artifact.
func (s *ToolService) TextToSpeech(ctx context.Context, input TTSInput) (*model.ArtifactResponse, error) {
	input.Text = strings.TrimSpace(input.Text)
	if err := s.validator.Struct(input, ttsMessages); err != nil {
		return nil, err
	}

	data, err := s.inference.TextToSpeech(ctx, input.Text)
	if err == nil {
		var name string
		name, err = s.artifacts.Save(ctx, model.ArtifactAudio, data)
		if err == nil {
			s.record(model.ToolTTS, nil)
			resp := model.NewArtifactResponse(name)
			return &resp, nil
		}
	}

	s.record(model.ToolTTS, err)
	s.logger.Error("text to speech failed", "error", err)
	return nil, err
}

// STTResult is the /stt response.
type STTResult struct {
	Text string `json:"text"`
}

// SpeechToText transcribes an uploaded recording. It counts against the tts tool.
func (s *ToolService) SpeechToText(ctx context.Context, audio []byte, contentType string) (*STTResult, error) {
	if len(audio) == 0 {
		return nil, &ValidationError{Message: "Audio file is empty"}
	}

	text, err := s.inference.SpeechToText(ctx, audio, contentType)
	s.record(model.ToolTTS, err)
	if err != nil {
		s.logger.Error("speech to text failed", "error", err)
		return nil, err
	}
	return &STTResult{Text: text}, nil
}
