// Package gradient evaluates linear multi-stop colour gradients and parses
// them from their compact <#RRGGBB:pos ...> notation.
package gradient

import (
	"math"
)

// Evaluate gets the colour at position on the gradient described by stops.
//
// stops must be sorted by position. position is clamped to the first and last
// stop, so callers don't need to clamp it themselves. An empty gradient is
// White and a single stop is a solid colour.
func Evaluate(stops StopList, position float64) RGB {
	if len(stops) == 0 {
		return White
	}

	if len(stops) == 1 {
		return stops[0].Color
	}

	first := stops[0]
	if position <= first.Position {
		return first.Color
	}

	last := stops[len(stops)-1]
	if position >= last.Position {
		return last.Color
	}

	// Narrow down to the tightest pair around position. An interior stop
	// sitting exactly on position becomes the upper bound, so every stop's
	// colour is reachable.
	a, b := first, last
	for _, s := range stops[1 : len(stops)-1] {
		if s.Position < position && s.Position > a.Position {
			a = s
		}
		if s.Position >= position && s.Position < b.Position {
			b = s
		}
	}

	t := (position - a.Position) / (b.Position - a.Position)
	return RGB{
		R: lerp(a.Color.R, b.Color.R, t),
		G: lerp(a.Color.G, b.Color.G, t),
		B: lerp(a.Color.B, b.Color.B, t),
	}
}

func lerp(from, to uint8, t float64) uint8 {
	return uint8(math.Floor(float64(from) + t*(float64(to)-float64(from))))
}
