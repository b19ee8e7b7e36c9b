package gradient

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a colour with 8 bits per channel.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// White is what an empty gradient evaluates to.
var White = RGB{255, 255, 255}

// FromColorful converts a colorful.Color, clamping it into the RGB cube first.
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// Colorful converts the colour into a colorful.Color.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Hex formats the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return c.Hex()
}

// A Stop anchors a colour at a position between 0 and 1 on the gradient.
type Stop struct {
	Color    RGB
	Position float64
}

// StopList is a gradient made of stops sorted by ascending position.
type StopList []Stop

// Clone returns a copy that shares nothing with l.
func (l StopList) Clone() StopList {
	if l == nil {
		return nil
	}
	out := make(StopList, len(l))
	copy(out, l)
	return out
}
