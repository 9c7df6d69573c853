package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizePrompt trims and NFC-normalizes prompt text. Prompts end up as CLI
// arguments to the generation tools, so they are canonicalized once at the
// boundary.
func NormalizePrompt(prompt string) string {
	return norm.NFC.String(strings.TrimSpace(prompt))
}

// HoistPrompt moves a legacy "prompt" key out of input_params into the
// dedicated prompt field. Older clients submit the prompt inside the
// parameter map; after hoisting, input_params never carries the prompt and
// the dedicated field is the single source of truth. An explicitly provided
// prompt wins over the legacy key.
func HoistPrompt(prompt string, params map[string]any) (string, map[string]any) {
	prompt = NormalizePrompt(prompt)
	if params == nil {
		return prompt, map[string]any{}
	}
	if raw, ok := params["prompt"]; ok {
		if s, ok := raw.(string); ok && prompt == "" {
			prompt = NormalizePrompt(s)
		}
		delete(params, "prompt")
	}
	return prompt, params
}
