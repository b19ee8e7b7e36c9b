package stream

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"

	"github.com/matt-g-everett/labeltx/gradient"
)

// Frame is one rendering of a subject's label: every character with its
// colour, plus decorations for the whole label.
type Frame struct {
	Glyphs []gradient.Glyph
	Format Formatting
}

// NewFrame colorizes label with stops.
func NewFrame(label string, stops gradient.StopList, format Formatting) *Frame {
	f := new(Frame)
	f.Glyphs = gradient.ColorizeString(label, stops)
	f.Format = format
	return f
}

// Text returns the frame's characters without colours.
func (f *Frame) Text() string {
	runes := make([]rune, len(f.Glyphs))
	for i, g := range f.Glyphs {
		runes[i] = g.Unit
	}
	return string(runes)
}

type textComponent struct {
	Text          string          `json:"text"`
	Color         string          `json:"color,omitempty"`
	Bold          bool            `json:"bold,omitempty"`
	Italic        bool            `json:"italic,omitempty"`
	Underlined    bool            `json:"underlined,omitempty"`
	Strikethrough bool            `json:"strikethrough,omitempty"`
	Obfuscated    bool            `json:"obfuscated,omitempty"`
	Extra         []textComponent `json:"extra,omitempty"`
}

// MarshalJSON converts a Frame into a text component with one coloured child
// per character.
func (f *Frame) MarshalJSON() ([]byte, error) {
	root := textComponent{
		Bold:          f.Format.Has(Bold),
		Italic:        f.Format.Has(Italic),
		Underlined:    f.Format.Has(Underlined),
		Strikethrough: f.Format.Has(Strikethrough),
		Obfuscated:    f.Format.Has(Obfuscated),
		Extra:         make([]textComponent, 0, len(f.Glyphs)),
	}
	for _, g := range f.Glyphs {
		root.Extra = append(root.Extra, textComponent{Text: string(g.Unit), Color: g.Color.Hex()})
	}

	return json.Marshal(root)
}

// ErrFrameTooLong is returned when a frame has more glyphs than the binary
// encoding can count.
var ErrFrameTooLong = errors.New("frame has more than 65535 glyphs")

// MarshalBinary converts a Frame into binary data: glyph count, formatting,
// then R, G, B and the character for each glyph.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	if len(f.Glyphs) > math.MaxUint16 {
		return nil, ErrFrameTooLong
	}

	data = make([]byte, 3, (len(f.Glyphs)*7)+3)
	binary.LittleEndian.PutUint16(data, uint16(len(f.Glyphs)))
	data[2] = byte(f.Format)
	for _, g := range f.Glyphs {
		data = append(data, g.Color.R, g.Color.G, g.Color.B)
		data = binary.LittleEndian.AppendUint32(data, uint32(g.Unit))
	}

	return data, nil
}
