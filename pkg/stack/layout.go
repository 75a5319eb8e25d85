package stack

import (
	"encoding/json"
	"os"

	"github.com/GalacticGlum/FreeCell/pkg/errors"
)

// Layout is the serializable result of a layout pass: the inputs that
// produced it plus the offset sequence and the accumulated positions.
//
// Offsets is index-aligned with the stack (index 0 = topmost card). The
// last offset is always 0. Positions is the running sum from a zero
// origin - the consumer contract spelled out, so hosts that do not want
// to accumulate themselves can read absolute y-coordinates directly.
type Layout struct {
	// ID identifies the computed artifact (assigned by the pipeline).
	ID string `json:"id,omitempty"`

	Geometry   Geometry   `json:"geometry"`
	Visibility Visibility `json:"visibility"`

	CardCount int       `json:"card_count"`
	Offsets   []float64 `json:"offsets"`
	Positions []float64 `json:"positions"`
}

// Layout computes the offsets for count cards and packages them with the
// calculator's inputs and the accumulated positions.
func (c *Calculator) Layout(count int) (Layout, error) {
	offsets, err := c.Offsets(count)
	if err != nil {
		return Layout{}, err
	}
	return Layout{
		Geometry:   c.geo,
		Visibility: c.vis,
		CardCount:  count,
		Offsets:    offsets,
		Positions:  Positions(offsets),
	}, nil
}

// Positions accumulates offsets into absolute y-coordinates from a zero
// origin: position[0] = 0, position[i] = position[i-1] + offsets[i-1].
func Positions(offsets []float64) []float64 {
	if len(offsets) == 0 {
		return nil
	}
	positions := make([]float64, len(offsets))
	for i := 1; i < len(offsets); i++ {
		positions[i] = positions[i-1] + offsets[i-1]
	}
	return positions
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that the offset sequence matches the declared card count and
// recomputes positions when the input omits them.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}

	if l.CardCount < 1 {
		return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout must contain at least one card")
	}
	if len(l.Offsets) != l.CardCount {
		return Layout{}, errors.New(errors.ErrCodeInvalidFormat,
			"layout has %d offsets for %d cards", len(l.Offsets), l.CardCount)
	}
	if len(l.Positions) == 0 {
		l.Positions = Positions(l.Offsets)
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	return UnmarshalLayout(data)
}
