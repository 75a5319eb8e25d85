// Package stack computes vertical spacing for a column of overlapping cards
// rendered in a fixed-height viewport.
//
// The calculator answers one question: given how many cards are in the
// stack, how far below the previous card should each card sit? With few
// cards every gap is the comfortable default. Past the count that fits at
// default spacing, gaps compress linearly down to a hard floor, and the
// cards directly above the bottom card always use the most-compressed gap
// so the top of the stack stays readable.
//
// The package is a pure library: no rendering, no state, no I/O. A renderer
// consumes the result by accumulating offsets from its own origin:
//
//	position[0] = origin
//	position[i] = position[i-1] + offsets[i-1]
//
// Usage:
//
//	geo := stack.DefaultGeometry()
//	calc, err := stack.New(geo, stack.NewVisibility(geo))
//	if err != nil {
//	    return err
//	}
//	offsets, err := calc.Offsets(12)
package stack
