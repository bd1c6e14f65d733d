package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/mindmap/pkg/catmap"
	apperrors "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/extract"
	"github.com/matzehuels/mindmap/pkg/llm"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/store"
)

// DefaultPrompt is the system prompt used when the caller supplies none. The
// central label is sent as the user message.
const DefaultPrompt = `You build mind maps. The user sends one word or short phrase, the central idea.

Answer with a single JSON object and nothing else:
- each key is a category related to the central idea (4 to 8 categories)
- each value is a list of 2 to 6 short related terms (one to three words each)

Example for "Tree":
` + "```json" + `
{"Nature": ["Forest", "Leaf", "Root"], "Symbolism": ["Life", "Growth"]}
` + "```"

// GenerateOptions configures one generation.
type GenerateOptions struct {
	Options

	Model       string  `json:"model"`
	Prompt      string  `json:"prompt,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// GenerateResult is a finished generation.
type GenerateResult struct {
	*Result

	Model      string
	Map        *catmap.Map
	Raw        string
	Strategy   extract.Strategy
	PromptPath string
	MapPath    string
}

// GenerateError reports a model answer that could not be turned into a
// category map. Raw holds the full answer so it can be shown or retried.
type GenerateError struct {
	Raw string
	Err error
}

func (e *GenerateError) Error() string { return e.Err.Error() }
func (e *GenerateError) Unwrap() error { return e.Err }

// centralChecker is implemented by stores that restrict central labels.
type centralChecker interface {
	CheckCentral(central string) error
}

// Generate asks the model for a category map and lays it out.
//
// The prompt is saved before the model is called and the map after it was
// extracted, when a Store is configured. An answer without a usable JSON
// object yields a *GenerateError wrapping an EXTRACTION_FAILED or
// MALFORMED_INPUT error.
func (r *Runner) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	if r.LLM == nil {
		return nil, apperrors.New(apperrors.ErrCodeUnsupported, "no language model configured")
	}
	if strings.TrimSpace(opts.Central) == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "central label is required")
	}
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	if opts.Model == "" {
		opts.Model = llm.DefaultModel
	}
	if _, _, err := llm.ParseModel(opts.Model); err != nil {
		return nil, err
	}

	if c, ok := r.Store.(centralChecker); ok {
		if err := c.CheckCentral(opts.Central); err != nil {
			return nil, err
		}
	}

	out := &GenerateResult{Model: opts.Model}
	gen := &store.Generation{Central: opts.Central, Model: opts.Model, Prompt: opts.Prompt}
	if r.Store != nil {
		path, err := r.Store.SavePrompt(ctx, gen)
		if err != nil {
			return nil, err
		}
		out.PromptPath = path
		r.Logger.Debug("saved prompt", "path", path)
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Model, opts.Central)
	start := time.Now()
	text, err := r.LLM.Complete(ctx, llm.Request{
		Model:       opts.Model,
		System:      opts.Prompt,
		User:        opts.Central,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	elapsed := time.Since(start)
	hooks.OnGenerateComplete(ctx, opts.Model, opts.Central, elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	out.Raw = text
	r.Logger.Info("model answered", "model", opts.Model, "bytes", len(text), "duration", elapsed)

	m, res, _, err := r.ExtractWithCacheInfo(ctx, text)
	if err != nil {
		return nil, &GenerateError{Raw: text, Err: err}
	}
	out.Map = m
	out.Strategy = res.Strategy

	if r.Store != nil {
		gen.Map = m
		path, err := r.Store.SaveMap(ctx, gen)
		if err != nil {
			return nil, err
		}
		out.MapPath = path
		r.Logger.Debug("saved map", "path", path)
	}

	opts.Map = m
	result, err := r.Execute(ctx, opts.Options)
	if err != nil {
		return nil, err
	}
	result.Stats.GenerateTime = elapsed
	out.Result = result
	return out, nil
}
