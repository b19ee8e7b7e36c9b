package stream

import (
	"github.com/matt-g-everett/labeltx/gradient"
	"github.com/matt-g-everett/labeltx/util"
)

const (
	// StepSize is how far the moving stop travels each tick.
	StepSize = 0.03
	// EdgeStop is how close the moving stop may get to either end before it
	// turns around.
	EdgeStop = 0.12
)

var (
	// Around is the colour at both ends of the default bounce.
	Around = gradient.RGB{R: 254, G: 72, B: 0}
	// Center is the colour of the default bounce's moving stop.
	Center = gradient.RGB{R: 253, G: 252, B: 0}
)

// DefaultBounceStops is the gradient a Bounce starts from unless configured
// otherwise.
func DefaultBounceStops() gradient.StopList {
	return gradient.StopList{
		{Color: Around, Position: 0.0},
		{Color: Center, Position: 0.5},
		{Color: Around, Position: 1.0},
	}
}

// A Bounce is an Animation that slides the middle of three stops back and
// forth between the outer two.
//
// The middle stop's position is kept as progress from the first outer stop
// to the last, in the same units as StepSize and EdgeStop, and is only mapped
// onto the outer stops when drawn. For a gradient spanning [0,1] the two are
// the same.
type Bounce struct {
	stops    gradient.StopList
	forwards bool
	easing   util.EasingFunc
}

// NewBounce creates a Bounce moving forwards from stops. Only three-stop
// gradients move; any other gradient is rendered as given.
func NewBounce(stops gradient.StopList, easing util.EasingFunc) *Bounce {
	b := new(Bounce)
	b.stops = stops.Clone()
	b.forwards = true
	b.easing = easing

	if len(b.stops) == 3 {
		first, last := b.stops[0].Position, b.stops[2].Position
		if span := last - first; span > 0 {
			b.stops[1].Position = (b.stops[1].Position - first) / span
		} else {
			b.stops[1].Position = 0
		}
	}
	return b
}

// Forwards reports whether the moving stop is heading towards the end.
func (b *Bounce) Forwards() bool {
	return b.forwards
}

// Stops returns the gradient for the current frame. The moving stop is eased
// and placed between the outer stops, never beyond them.
func (b *Bounce) Stops() gradient.StopList {
	stops := b.stops.Clone()
	if len(stops) != 3 {
		return stops
	}

	t := stops[1].Position
	if b.easing != nil {
		t = b.easing(t)
	}
	first, last := stops[0].Position, stops[2].Position
	stops[1].Position = first + clamp01(t)*(last-first)
	return stops
}

// Colorize colours units with the current gradient.
func (b *Bounce) Colorize(units []rune) []gradient.Glyph {
	return gradient.Colorize(units, b.Stops())
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Advance moves the middle stop one step. The turn-around check uses the
// position before stepping, so the stop can pass the edge margin by up to one
// step before heading back.
func (b *Bounce) Advance() {
	if len(b.stops) != 3 {
		return
	}

	target := &b.stops[1]
	if b.forwards {
		if target.Position+EdgeStop >= 1 {
			b.forwards = false
		}
	} else {
		if target.Position-EdgeStop <= 0 {
			b.forwards = true
		}
	}

	if b.forwards {
		target.Position += StepSize
	} else {
		target.Position -= StepSize
	}
}
