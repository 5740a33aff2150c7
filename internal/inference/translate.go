package inference

import (
	"context"
	"encoding/json"
	"fmt"
)

// Languages without a hosted translation model get a labelled echo.
var placeholderLanguages = map[string]string{
	"am": "Amharic Translation: ",
	"ti": "Tigrinya Translation: ",
}

// TranslationModel returns the opus-mt model id for a language pair.
func TranslationModel(source, target string) string {
	return fmt.Sprintf("Helsinki-NLP/opus-mt-%s-%s", source, target)
}

type translationResult struct {
	TranslationText string `json:"translation_text"`
}

// Translate translates text from source to target. It never fails: when the
// upstream call does not produce a translation the input text is returned.
func (c *Client) Translate(ctx context.Context, text, target, source string) string {
	if prefix, ok := placeholderLanguages[target]; ok {
		return prefix + text
	}

	model := TranslationModel(source, target)
	body, err := c.postJSON(ctx, model, text, nil)
	if err != nil {
		c.logger.Error("translation failed", "model", model, "error", err)
		return text
	}

	var results []translationResult
	if err := json.Unmarshal(body, &results); err != nil || len(results) == 0 {
		return text
	}
	if results[0].TranslationText == "" {
		return text
	}
	return results[0].TranslationText
}
