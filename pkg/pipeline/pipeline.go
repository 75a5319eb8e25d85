// Package pipeline provides the shared layout-computation path for the
// FreeCell tools.
//
// The CLI and the HTTP server both turn a request (card count plus
// optional geometry/visibility overrides) into a serializable layout
// artifact. Centralizing that here keeps validation, defaulting, caching,
// and instrumentation identical across entry points.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{CardCount: 12}
//	layout, err := runner.ComputeLayout(ctx, opts)
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/GalacticGlum/FreeCell/pkg/cache"
	"github.com/GalacticGlum/FreeCell/pkg/errors"
	"github.com/GalacticGlum/FreeCell/pkg/stack"
)

// Options contains all configuration for a layout computation.
// Zero-valued geometry/visibility fields fall back to the stack defaults.
// This struct supports JSON serialization for API requests.
type Options struct {
	// CardCount is the number of cards to lay out. Required.
	CardCount int `json:"card_count"`

	// Geometry overrides
	ViewportHeight float64 `json:"viewport_height,omitempty"`
	CardHeight     float64 `json:"card_height,omitempty"`

	// Visibility overrides
	DefaultVisibility   float64 `json:"default_visibility,omitempty"`
	MaxCards            int     `json:"max_cards,omitempty"`
	CompressedGroupSize int     `json:"compressed_group_size,omitempty"`
	CompressionFactor   float64 `json:"compression_factor,omitempty"`

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.CardCount < 1 {
		return errors.New(errors.ErrCodeInvalidCardCount, "card count is required, got %d", o.CardCount)
	}

	if o.ViewportHeight == 0 {
		o.ViewportHeight = stack.DefaultViewportHeight
	}
	if o.CardHeight == 0 {
		o.CardHeight = stack.DefaultCardHeight
	}
	if o.DefaultVisibility == 0 {
		o.DefaultVisibility = stack.DefaultPixelVisibility
	}
	if o.MaxCards == 0 {
		o.MaxCards = stack.DefaultMaxCards
	}
	if o.CompressedGroupSize == 0 {
		o.CompressedGroupSize = stack.DefaultCompressedGroupSize
	}
	if o.CompressionFactor == 0 {
		o.CompressionFactor = stack.DeriveCompressionFactor(o.CardHeight)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Geometry returns the viewport geometry described by the options.
func (o *Options) Geometry() stack.Geometry {
	return stack.Geometry{
		ViewportHeight: o.ViewportHeight,
		CardHeight:     o.CardHeight,
	}
}

// Visibility returns the visibility configuration described by the options.
func (o *Options) Visibility() stack.Visibility {
	return stack.Visibility{
		Default:             o.DefaultVisibility,
		MaxCards:            o.MaxCards,
		CompressedGroupSize: o.CompressedGroupSize,
		CompressionFactor:   o.CompressionFactor,
	}
}

// LayoutKeyOpts returns cache key options covering every layout input.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		CardCount:           o.CardCount,
		ViewportHeight:      o.ViewportHeight,
		CardHeight:          o.CardHeight,
		DefaultVisibility:   o.DefaultVisibility,
		MaxCards:            o.MaxCards,
		CompressedGroupSize: o.CompressedGroupSize,
		CompressionFactor:   o.CompressionFactor,
	}
}
