package gradient

// A Glyph is one unit of text together with the colour it is drawn in.
type Glyph struct {
	Unit  rune
	Color RGB
}

// Colorize samples the gradient once per unit. Unit i of n is sampled at
// (i+1)/n, so the last unit always gets the end of the gradient while the
// first unit is one unit's width in.
func Colorize(units []rune, stops StopList) []Glyph {
	n := len(units)
	glyphs := make([]Glyph, n)
	for i, u := range units {
		position := float64(i+1) / float64(n)
		glyphs[i] = Glyph{Unit: u, Color: Evaluate(stops, position)}
	}

	return glyphs
}

// ColorizeString colorizes the runes of text.
func ColorizeString(text string, stops StopList) []Glyph {
	return Colorize([]rune(text), stops)
}
