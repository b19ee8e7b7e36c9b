package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/matt-g-everett/labeltx/gradient"
)

func TestParseFormatting(t *testing.T) {
	tests := []struct {
		markers string
		want    Formatting
		wantErr bool
	}{
		{"", 0, false},
		{"l", Bold, false},
		{"lo", Bold | Italic, false},
		{"knmol", Bold | Italic | Underlined | Strikethrough | Obfuscated, false},
		{"ll", Bold, false},
		{"x", 0, true},
		{"lx", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseFormatting(tt.markers)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormatting(%q) error = %v, wantErr %v", tt.markers, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormatting(%q) = %v, want %v", tt.markers, got, tt.want)
		}
	}
}

func TestFormattingString(t *testing.T) {
	if got := (Obfuscated | Bold | Underlined).String(); got != "lnk" {
		t.Errorf("String() = %q, want lnk", got)
	}
	f := Bold.Toggle(Italic, true).Toggle(Bold, false)
	if f != Italic {
		t.Errorf("Toggle result = %v, want o", f)
	}
	if _, ok := FormattingByMarker('z'); ok {
		t.Error("FormattingByMarker('z') found a flag")
	}
}

func TestFrameMarshalJSON(t *testing.T) {
	f := NewFrame("ab", gradient.StopList{{Color: gradient.RGB{R: 255}, Position: 0}}, Bold)
	got, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}

	want := `{"text":"","bold":true,"extra":[{"text":"a","color":"#ff0000"},{"text":"b","color":"#ff0000"}]}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s\nwant %s", got, want)
	}
}

func TestFrameMarshalBinary(t *testing.T) {
	f := NewFrame("aé", gradient.StopList{{Color: gradient.RGB{R: 1, G: 2, B: 3}, Position: 0}}, Bold|Italic)
	got, err := f.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{
		2, 0, 3,
		1, 2, 3, 'a', 0, 0, 0,
		1, 2, 3, 0xe9, 0, 0, 0,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("MarshalBinary() = %v, want %v", got, want)
	}
}

func TestFrameText(t *testing.T) {
	label := "FancyItem | Ünïcode"
	if got := NewFrame(label, DefaultBounceStops(), 0).Text(); got != label {
		t.Errorf("Text() = %q, want %q", got, label)
	}
}

func TestFrameMarshalBinaryTooLong(t *testing.T) {
	stops := gradient.StopList{{Color: gradient.White, Position: 0}}

	longest := NewFrame(strings.Repeat("a", math.MaxUint16), stops, 0)
	data, err := longest.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() of %d glyphs = %v", math.MaxUint16, err)
	}
	if data[0] != 0xff || data[1] != 0xff {
		t.Errorf("count = %v, want 65535", data[:2])
	}

	tooLong := NewFrame(strings.Repeat("a", math.MaxUint16+1), stops, 0)
	if _, err := tooLong.MarshalBinary(); !errors.Is(err, ErrFrameTooLong) {
		t.Errorf("MarshalBinary() = %v, want ErrFrameTooLong", err)
	}
}
