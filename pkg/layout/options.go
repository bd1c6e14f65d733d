package layout

import (
	"math"

	apperrors "github.com/matzehuels/mindmap/pkg/errors"
)

// Default placement constants.
const (
	DefaultCategoryRadius = 4.0
	DefaultLeafRadius     = 2.0
	DefaultLeafSpan       = math.Pi / 2.5
)

// Options tune the radial placement. Distances are in layout units.
type Options struct {
	CategoryRadius float64 `json:"category_radius"`
	LeafRadius     float64 `json:"leaf_radius"`
	LeafSpan       float64 `json:"leaf_span"` // radians
}

// DefaultOptions returns the default placement options.
func DefaultOptions() Options {
	return Options{
		CategoryRadius: DefaultCategoryRadius,
		LeafRadius:     DefaultLeafRadius,
		LeafSpan:       DefaultLeafSpan,
	}
}

// Validate checks that radii are positive and the span lies in [0, 2π].
func (o Options) Validate() error {
	if !(o.CategoryRadius > 0) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "category radius must be positive, got %v", o.CategoryRadius)
	}
	if !(o.LeafRadius > 0) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "leaf radius must be positive, got %v", o.LeafRadius)
	}
	if !(o.LeafSpan >= 0 && o.LeafSpan <= 2*math.Pi) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "leaf span must be between 0 and 2π radians, got %v", o.LeafSpan)
	}
	return nil
}

// Option modifies Options.
type Option func(*Options)

func WithCategoryRadius(r float64) Option { return func(o *Options) { o.CategoryRadius = r } }
func WithLeafRadius(r float64) Option     { return func(o *Options) { o.LeafRadius = r } }
func WithLeafSpan(s float64) Option       { return func(o *Options) { o.LeafSpan = s } }

// WithOptions replaces all options at once. Zero fields keep their defaults.
func WithOptions(in Options) Option {
	return func(o *Options) {
		if in.CategoryRadius != 0 {
			o.CategoryRadius = in.CategoryRadius
		}
		if in.LeafRadius != 0 {
			o.LeafRadius = in.LeafRadius
		}
		if in.LeafSpan != 0 {
			o.LeafSpan = in.LeafSpan
		}
	}
}
