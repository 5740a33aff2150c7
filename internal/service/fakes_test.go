package service

import (
	"context"
	"errors"
	"sync"

	"github.com/ethiogpt/toolsgate/internal/model"
)

type fakeChat struct {
	mu      sync.Mutex
	prompts []string
	reply   string
}

func (f *fakeChat) ChatCompletion(ctx context.Context, message string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, message)
	return f.reply
}

func (f *fakeChat) Model() string { return "fake/chat" }

func (f *fakeChat) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeInference struct {
	image     []byte
	imageErr  error
	audio     []byte
	audioErr  error
	text      string
	sttErr    error
	gotPreset string
	gotTarget string
	gotSource string
}

func (f *fakeInference) GenerateImage(ctx context.Context, prompt, preset string) ([]byte, error) {
	f.gotPreset = preset
	return f.image, f.imageErr
}

func (f *fakeInference) Translate(ctx context.Context, text, target, source string) string {
	f.gotTarget, f.gotSource = target, source
	return "translated:" + text
}

func (f *fakeInference) TextToSpeech(ctx context.Context, text string) ([]byte, error) {
	return f.audio, f.audioErr
}

func (f *fakeInference) SpeechToText(ctx context.Context, audio []byte, contentType string) (string, error) {
	return f.text, f.sttErr
}

type fakeArtifacts struct {
	saved []model.ArtifactKind
	err   error
}

func (f *fakeArtifacts) Save(ctx context.Context, kind model.ArtifactKind, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, kind)
	return "file" + kind.Extension(), nil
}

var errUpstream = errors.New("image generation failed: upstream down")
