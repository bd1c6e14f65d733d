// Package pipeline provides the mind map pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Generate: ask a language model for a category map (optional)
//  2. Extract: recover the JSON object from the model's answer
//  3. Layout: build the mind map model and place every node radially
//  4. Render: produce SVG, PNG, PDF, DOT or layout JSON
//
// Each stage can be run independently or as part of the complete pipeline,
// and the layout, render and extract stages are cached.
//
// # Usage
//
// Lay out and render an existing category map:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Central: "Tree",
//	    Map:     cm,
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Generate a map with a model first:
//
//	runner.LLM = llm.New(cfg.LLM.Client())
//	runner.Store = fileStore
//	gen, err := runner.Generate(ctx, pipeline.GenerateOptions{
//	    Options: pipeline.Options{Central: "Tree"},
//	    Model:   "openai/gpt-4o-mini",
//	    Prompt:  pipeline.DefaultPrompt,
//	})
package pipeline

import (
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/cache"
	"github.com/matzehuels/mindmap/pkg/catmap"
	apperrors "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStyle is the default render style.
	DefaultStyle = graph.StyleRadial

	// DefaultZoom is the radial renderer's pixel multiplier.
	DefaultZoom = 4.0

	// DefaultPNGScale is the rasterization scale for PNG output.
	DefaultPNGScale = 2.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for laying out and rendering one map.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Model options
	Central string      `json:"central"`
	Map     *catmap.Map `json:"map,omitempty"`

	// Layout options (zero means default)
	CategoryRadius float64 `json:"category_radius,omitempty"`
	LeafRadius     float64 `json:"leaf_radius,omitempty"`
	LeafSpan       float64 `json:"leaf_span,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`
	Zoom    float64  `json:"zoom,omitempty"`
	NoTitle bool     `json:"no_title,omitempty"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// MapHash is the content hash of the category map.
	MapHash string

	// Layout is the exported layout.
	Layout graph.Layout

	// LayoutHash is the content hash of the layout.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	GenerateTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ExtractHit bool // Whether the extracted map came from cache
	LayoutHit  bool // Whether the layout came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(graph.Formats, format) {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(graph.Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !slices.Contains(graph.Styles, style) {
		return apperrors.New(apperrors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: %s)", style, strings.Join(graph.Styles, ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// LayoutOptions returns the placement options with defaults applied.
func (o *Options) LayoutOptions() layout.Options {
	lo := layout.DefaultOptions()
	layout.WithOptions(layout.Options{
		CategoryRadius: o.CategoryRadius,
		LeafRadius:     o.LeafRadius,
		LeafSpan:       o.LeafSpan,
	})(&lo)
	return lo
}

// ValidateForLayout checks the central label and placement options.
func (o *Options) ValidateForLayout() error {
	o.setLogger()
	if strings.TrimSpace(o.Central) == "" {
		return apperrors.New(apperrors.ErrCodeMalformedInput, "central label is empty")
	}
	return o.LayoutOptions().Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{graph.FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Zoom == 0 {
		o.Zoom = DefaultZoom
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if !(o.Zoom > 0) || math.IsInf(o.Zoom, 0) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "zoom must be positive, got %v", o.Zoom)
	}
	return ValidateStyle(o.Style)
}

// ValidateAndSetDefaults checks the options for the full pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	lo := o.LayoutOptions()
	return cache.LayoutKeyOpts{
		Central:        o.Central,
		CategoryRadius: lo.CategoryRadius,
		LeafRadius:     lo.LeafRadius,
		LeafSpan:       lo.LeafSpan,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Style:   o.Style,
		Zoom:    o.Zoom,
		NoTitle: o.NoTitle,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
