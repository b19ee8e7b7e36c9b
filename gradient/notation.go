package gradient

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Reasons a notation can be rejected.
var (
	ErrDelimiters = errors.New("notation must be enclosed in < and >")
	ErrToken      = errors.New("stop must have the form #RRGGBB:position")
	ErrColor      = errors.New("colour must be # followed by 6 hex digits")
	ErrPosition   = errors.New("position must be a number between 0 and 1")
	ErrEmpty      = errors.New("notation has no stops")
)

// NotationError describes why a notation could not be parsed.
type NotationError struct {
	Notation string
	Token    string
	Err      error
}

func (e *NotationError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("gradient %q: %v", e.Notation, e.Err)
	}
	return fmt.Sprintf("gradient %q: stop %q: %v", e.Notation, e.Token, e.Err)
}

func (e *NotationError) Unwrap() error {
	return e.Err
}

// ParseNotation parses a gradient notation such as
// <#FF0000:0 #00FF00:.5 #0000FF:1> into a stop list sorted by position.
// Stops sharing a position keep the order they were written in. Any malformed
// stop rejects the whole notation.
func ParseNotation(notation string) (StopList, error) {
	if !strings.HasPrefix(notation, "<") || !strings.HasSuffix(notation, ">") || len(notation) < 2 {
		return nil, &NotationError{Notation: notation, Err: ErrDelimiters}
	}

	body := notation[1 : len(notation)-1]
	if body == "" {
		return nil, &NotationError{Notation: notation, Err: ErrEmpty}
	}

	// Empty tokens are kept, so a doubled or trailing space is a malformed
	// stop rather than being skipped.
	tokens := strings.Split(body, " ")
	stops := make(StopList, 0, len(tokens))
	for _, token := range tokens {
		s, err := parseStop(token)
		if err != nil {
			return nil, &NotationError{Notation: notation, Token: token, Err: err}
		}
		stops = append(stops, s)
	}

	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Position < stops[j].Position
	})

	return stops, nil
}

func parseStop(token string) (Stop, error) {
	// A trailing colon leaves a third, empty part and is rejected too.
	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return Stop{}, ErrToken
	}

	c, err := parseHex(parts[0])
	if err != nil {
		return Stop{}, err
	}

	position, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || math.IsNaN(position) || position < 0 || position > 1 {
		return Stop{}, ErrPosition
	}

	return Stop{Color: c, Position: position}, nil
}

func parseHex(s string) (RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return RGB{}, ErrColor
	}
	for _, r := range s[1:] {
		if !isHexDigit(r) {
			return RGB{}, ErrColor
		}
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %v", ErrColor, err)
	}

	return FromColorful(c), nil
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// FormatNotation writes stops in the notation ParseNotation reads.
func FormatNotation(stops StopList) string {
	var sb strings.Builder
	sb.WriteByte('<')
	for i, s := range stops {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.Color.Hex())
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(s.Position, 'g', -1, 64))
	}
	sb.WriteByte('>')

	return sb.String()
}

func (l StopList) String() string {
	return FormatNotation(l)
}
