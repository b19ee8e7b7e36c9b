package stream

import (
	"fmt"
	"strings"
)

// Formatting is a set of text decorations applied to a whole frame.
type Formatting uint8

// Decorations a frame can carry.
const (
	Bold Formatting = 1 << iota
	Italic
	Underlined
	Strikethrough
	Obfuscated
)

// Marker characters used to name decorations in config, in the order they
// are written out by String.
var markers = []struct {
	marker rune
	flag   Formatting
}{
	{'l', Bold},
	{'o', Italic},
	{'n', Underlined},
	{'m', Strikethrough},
	{'k', Obfuscated},
}

var formattingByMarker = map[rune]Formatting{
	'l': Bold,
	'o': Italic,
	'n': Underlined,
	'm': Strikethrough,
	'k': Obfuscated,
}

// FormattingByMarker looks up the decoration for a single marker character.
func FormattingByMarker(r rune) (Formatting, bool) {
	f, ok := formattingByMarker[r]
	return f, ok
}

// ParseFormatting combines the decorations named by a string of markers,
// e.g. "lo" for bold italic.
func ParseFormatting(s string) (Formatting, error) {
	var f Formatting
	for _, r := range s {
		flag, ok := FormattingByMarker(r)
		if !ok {
			return 0, fmt.Errorf("unknown formatting marker %q", r)
		}
		f |= flag
	}

	return f, nil
}

// Has reports whether every decoration in flag is set.
func (f Formatting) Has(flag Formatting) bool {
	return f&flag == flag
}

// Toggle switches a decoration on or off.
func (f Formatting) Toggle(flag Formatting, on bool) Formatting {
	if on {
		return f | flag
	}
	return f &^ flag
}

func (f Formatting) String() string {
	var sb strings.Builder
	for _, m := range markers {
		if f.Has(m.flag) {
			sb.WriteRune(m.marker)
		}
	}
	return sb.String()
}
