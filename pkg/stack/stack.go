package stack

import (
	"math"

	"github.com/GalacticGlum/FreeCell/pkg/errors"
)

// Default tuning for the card stack UI. Geometry values are pixels.
const (
	// DefaultViewportHeight is the height of the stack viewport.
	DefaultViewportHeight = 800.0

	// DefaultCardHeight is the height of a single card.
	DefaultCardHeight = 200.0

	// DefaultPixelVisibility is the comfortable per-card spacing used while
	// the whole stack still fits without compression.
	DefaultPixelVisibility = 100.0

	// DefaultMaxCards is the card count at which spacing reaches its floor.
	DefaultMaxCards = 10

	// DefaultCompressedGroupSize is the number of bottommost cards (above
	// the bottom card itself) that always use the most-compressed spacing.
	DefaultCompressedGroupSize = 4

	// compressionFraction is the fraction of card height lost per excess
	// card: CompressionFactor = CardHeight * compressionFraction.
	compressionFraction = 2.0 / 100.0
)

// Geometry describes the fixed viewport the stack is laid out in.
// It is a value type, supplied once per layout pass.
type Geometry struct {
	ViewportHeight float64 `json:"viewport_height"`
	CardHeight     float64 `json:"card_height"`
}

// DefaultGeometry returns the viewport geometry the UI ships with.
func DefaultGeometry() Geometry {
	return Geometry{ViewportHeight: DefaultViewportHeight, CardHeight: DefaultCardHeight}
}

// Span returns the vertical distance available for spreading cards: the
// viewport height minus one card height. The bottom card's top edge lands
// at origin + Span() when the stack is compressed to fill the viewport.
func (g Geometry) Span() float64 {
	return g.ViewportHeight - g.CardHeight
}

// Visibility configures how spacing degrades as the stack grows.
type Visibility struct {
	// Default is the per-card spacing while the stack fits uncompressed.
	Default float64 `json:"default"`

	// MaxCards is the card count at which spacing bottoms out; the floor
	// spacing is Span() / (MaxCards - 1). Must exceed 1.
	MaxCards int `json:"max_cards"`

	// CompressedGroupSize is the number of cards directly above the bottom
	// card that always receive the most-compressed spacing.
	CompressedGroupSize int `json:"compressed_group_size"`

	// CompressionFactor is the spacing lost per card beyond the
	// comfortable-fit count. Derived from card height by default.
	CompressionFactor float64 `json:"compression_factor"`
}

// DeriveCompressionFactor returns the standard compression factor for a
// card height: a fixed fraction (2%) of the height.
func DeriveCompressionFactor(cardHeight float64) float64 {
	return cardHeight * compressionFraction
}

// NewVisibility returns the default visibility configuration for geo, with
// the compression factor derived from the card height.
func NewVisibility(geo Geometry) Visibility {
	return Visibility{
		Default:             DefaultPixelVisibility,
		MaxCards:            DefaultMaxCards,
		CompressedGroupSize: DefaultCompressedGroupSize,
		CompressionFactor:   DeriveCompressionFactor(geo.CardHeight),
	}
}

// Calculator computes per-card offsets for a fixed geometry and visibility
// configuration. It is stateless: every call depends only on its inputs,
// so a single Calculator is safe for concurrent use.
type Calculator struct {
	geo Geometry
	vis Visibility
}

// New validates the geometry and visibility configuration and returns a
// Calculator. Degenerate inputs fail fast with INVALID_GEOMETRY or
// INVALID_CONFIGURATION rather than surfacing later as NaN offsets.
func New(geo Geometry, vis Visibility) (*Calculator, error) {
	if geo.CardHeight <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "card height must be positive, got %g", geo.CardHeight)
	}
	if geo.ViewportHeight <= geo.CardHeight {
		return nil, errors.New(errors.ErrCodeInvalidGeometry,
			"viewport height %g must exceed card height %g", geo.ViewportHeight, geo.CardHeight)
	}
	if vis.Default <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "default visibility must be positive, got %g", vis.Default)
	}
	if vis.MaxCards <= 1 {
		// MaxCards is a divisor (MaxCards - 1); 1 would divide by zero.
		return nil, errors.New(errors.ErrCodeInvalidConfig, "max cards must exceed 1, got %d", vis.MaxCards)
	}
	if vis.CompressedGroupSize < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"compressed group size must be at least 1, got %d", vis.CompressedGroupSize)
	}
	return &Calculator{geo: geo, vis: vis}, nil
}

// Geometry returns the viewport geometry the calculator was built with.
func (c *Calculator) Geometry() Geometry { return c.geo }

// Visibility returns the visibility configuration the calculator was built with.
func (c *Calculator) Visibility() Visibility { return c.vis }

// MinFitCount returns the largest card count that still fits at default
// spacing. Stacks up to this size are laid out without compression.
func (c *Calculator) MinFitCount() int {
	return int(math.Ceil(c.geo.Span() / c.vis.Default))
}

// MinVisibility returns the floor spacing, reached when the stack holds
// MaxCards cards. Spacing never compresses below this.
func (c *Calculator) MinVisibility() float64 {
	return c.geo.Span() / float64(c.vis.MaxCards-1)
}

// CompressedVisibility returns the spacing used for the compressed group at
// the given card count: the default spacing reduced linearly per card
// beyond MinFitCount, clamped at MinVisibility. The clamp is one-sided:
// a count below MinFitCount yields a value above the default. Offsets never
// hits that case (small stacks take the uncompressed branch), but callers
// inspecting the degradation curve directly will observe it.
func (c *Calculator) CompressedVisibility(count int) float64 {
	excess := float64(count - c.MinFitCount())
	return math.Max(c.vis.Default-excess*c.vis.CompressionFactor, c.MinVisibility())
}

// Offsets returns one vertical offset per card: the distance from card i's
// origin to card i+1's origin. The last element is always 0 (no card
// follows the bottom card).
//
// Cards up to MinFitCount are spaced at the default. Beyond that, the
// CompressedGroupSize cards directly above the bottom card receive
// CompressedVisibility, and the remaining upper cards share what is left of
// the span evenly, so the bottom card lands exactly at origin + Span().
//
// A count of CompressedGroupSize+1 leaves the upper region with zero cards
// to absorb the leftover span and is rejected with INVALID_CARD_COUNT, as
// are non-positive counts.
func (c *Calculator) Offsets(count int) ([]float64, error) {
	if count <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidCardCount, "card count must be positive, got %d", count)
	}
	group := c.vis.CompressedGroupSize
	if count == group+1 {
		return nil, errors.New(errors.ErrCodeInvalidCardCount,
			"card count %d leaves no cards above the compressed group of %d", count, group)
	}

	offsets := make([]float64, count)

	if count <= c.MinFitCount() {
		for i := range offsets[:count-1] {
			offsets[i] = c.vis.Default
		}
		return offsets, nil
	}

	compressed := c.CompressedVisibility(count)

	// Spacing for the cards above the compressed group, chosen so the
	// cumulative offsets fill the span exactly. Only defined when such
	// cards exist.
	var leftover float64
	if count > group+1 {
		leftover = (c.geo.Span() - compressed*float64(group)) / float64(count-group-1)
	}

	for i := 0; i < count-1; i++ {
		if count-i <= group+1 {
			offsets[i] = compressed
		} else {
			offsets[i] = leftover
		}
	}
	return offsets, nil
}
