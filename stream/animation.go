package stream

import "github.com/matt-g-everett/labeltx/gradient"

// An Animation is the per-subject state that moves a gradient over time.
type Animation interface {
	// Stops returns the gradient the animation is drawing from. The list
	// belongs to the caller.
	Stops() gradient.StopList
	// Colorize colours units for the current frame.
	Colorize(units []rune) []gradient.Glyph
	// Advance moves the animation on by one tick.
	Advance()
	// Forwards reports the current direction of travel.
	Forwards() bool
}
