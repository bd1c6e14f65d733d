package llm

import (
	"context"
	"strings"

	apperrors "github.com/matzehuels/mindmap/pkg/errors"
)

// Default sampling settings for mind map generation.
const (
	DefaultTemperature = 1.0
	DefaultMaxTokens   = 16000
	DefaultModel       = "openai/gpt-4o-mini"
)

// Provider names, the part of a model string before the slash.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// KnownModels is the menu of models offered to users. Any "provider/name"
// string with a known provider is accepted.
var KnownModels = []string{
	"openai/gpt-4o",
	"openai/gpt-4o-mini",
	"openai/gpt-3.5-turbo",
	"anthropic/claude-3-5-sonnet-20241022",
	"anthropic/claude-3-5-haiku-20241022",
	"anthropic/claude-3-opus-20240229",
	"ollama/llama3:instruct",
}

// Request is one completion call.
type Request struct {
	Model       string  `json:"model"`
	System      string  `json:"system"`
	User        string  `json:"user"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Completer returns the text a model produces for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ParseModel splits "provider/name". The name may itself contain slashes.
func ParseModel(model string) (provider, name string, err error) {
	provider, name, ok := strings.Cut(model, "/")
	if !ok || provider == "" || name == "" {
		return "", "", apperrors.New(apperrors.ErrCodeInvalidModel, "model %q: want provider/name", model)
	}
	switch provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderOllama:
		return provider, name, nil
	}
	return "", "", apperrors.New(apperrors.ErrCodeUnsupported, "model %q: unknown provider %q", model, provider)
}

// withDefaults fills zero sampling settings.
func (r Request) withDefaults() Request {
	if r.Temperature == 0 {
		r.Temperature = DefaultTemperature
	}
	if r.MaxTokens == 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	return r
}

// joinParts joins non-empty text parts with a blank line.
func joinParts(parts []string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
