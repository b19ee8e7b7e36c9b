package stream

import (
	"math"

	"github.com/matt-g-everett/labeltx/gradient"
)

// A Trail is an Animation that scrolls a gradient along the label. The
// gradient repeats, so whatever runs off the end comes back in at the start.
type Trail struct {
	gradient gradient.StopList
	current  float64
	step     float64
}

// NewTrail creates an instance of a Trail that moves by step each tick.
// A negative step scrolls backwards.
func NewTrail(stops gradient.StopList, step float64) *Trail {
	t := new(Trail)
	t.gradient = stops.Clone()
	t.step = step
	t.current = 0
	return t
}

// Forwards reports whether the gradient is scrolling towards the end.
func (t *Trail) Forwards() bool {
	return t.step >= 0
}

// Offset is how far the gradient has scrolled, in [0,1).
func (t *Trail) Offset() float64 {
	return t.current
}

// Stops returns the gradient being scrolled, before the offset is applied.
func (t *Trail) Stops() gradient.StopList {
	return t.gradient.Clone()
}

// Colorize samples the gradient behind each unit, shifted back by the
// current offset.
func (t *Trail) Colorize(units []rune) []gradient.Glyph {
	n := len(units)
	glyphs := make([]gradient.Glyph, n)
	for i, u := range units {
		position := float64(i+1)/float64(n) - t.current
		glyphs[i] = gradient.Glyph{Unit: u, Color: gradient.Evaluate(t.gradient, wrap(position))}
	}

	return glyphs
}

// Advance scrolls the gradient by one step.
func (t *Trail) Advance() {
	t.current = math.Mod(t.current+t.step, 1)
	if t.current < 0 {
		t.current++
	}
}

// wrap folds p back into [0,1]. Positions already inside are left alone so
// that an unshifted gradient still reaches its end stop at 1.
func wrap(p float64) float64 {
	if p >= 0 && p <= 1 {
		return p
	}
	return p - math.Floor(p)
}
