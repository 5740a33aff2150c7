package inference

import (
	"context"
	"fmt"
)

// Image presets.
const (
	PresetGhibli    = "ghibli"
	PresetCartoon   = "cartoon"
	PresetAnime     = "anime"
	PresetRealistic = "realistic"
)

// DefaultImageModel serves unknown presets.
const DefaultImageModel = "stabilityai/stable-diffusion-xl-base-1.0"

var presetModels = map[string]string{
	PresetGhibli:    "22h/vintage-illustration",
	PresetCartoon:   "ogkalu/Comic-Diffusion",
	PresetAnime:     "cagliostrolab/animagine-xl-3.1",
	PresetRealistic: DefaultImageModel,
}

var presetPrefixes = map[string]string{
	PresetGhibli:    "Studio Ghibli style, anime, beautiful, cinematic, ",
	PresetCartoon:   "cartoon style, vibrant colors, comic book, ",
	PresetAnime:     "anime style, Japanese animation, detailed, ",
	PresetRealistic: "photorealistic, high quality, detailed, 4k, ",
}

// ImageModel returns the model for a preset, falling back to DefaultImageModel.
func ImageModel(preset string) string {
	if model, ok := presetModels[preset]; ok {
		return model
	}
	return DefaultImageModel
}

// EnhancePrompt decorates a prompt with the preset's style keywords.
// Unknown presets leave the prompt untouched.
func EnhancePrompt(prompt, preset string) string {
	return presetPrefixes[preset] + prompt
}

// GenerateImage returns the raw image bytes for a prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt, preset string) ([]byte, error) {
	model := ImageModel(preset)
	data, err := c.postJSON(ctx, model, EnhancePrompt(prompt, preset), nil)
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image generation failed: empty response from %s", model)
	}
	return data, nil
}
