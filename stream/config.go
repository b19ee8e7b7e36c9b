package stream

import (
	"fmt"
	"strings"
	"time"

	"github.com/matt-g-everett/labeltx/gradient"
	"github.com/matt-g-everett/labeltx/util"
)

// Animation styles.
const (
	StyleBounce = "bounce"
	StyleTrail  = "trail"
)

// Frame encodings.
const (
	EncodingJSON   = "json"
	EncodingBinary = "binary"
)

// Config is read from the YAML config file.
type Config struct {
	Mqtt struct {
		URL      string        `yaml:"url"`
		Username string        `yaml:"username"`
		Password string        `yaml:"password"`
		ClientID string        `yaml:"clientId"`
		Qos      byte          `yaml:"qos"`
		Timeout  time.Duration `yaml:"timeout"`
		Topics   struct {
			Subjects string `yaml:"subjects"`
			Frames   string `yaml:"frames"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Animation struct {
		Style      string        `yaml:"style"`
		Gradient   string        `yaml:"gradient"`
		Easing     string        `yaml:"easing"`
		Period     time.Duration `yaml:"period"`
		TrailStep  float64       `yaml:"trailStep"`
		Formatting string        `yaml:"formatting"`
		Label      string        `yaml:"label"`
		Encoding   string        `yaml:"encoding"`
	} `yaml:"animation"`
	API struct {
		Listen string `yaml:"listen"`
	} `yaml:"api"`
}

// DefaultConfig returns the settings used for anything the config file leaves
// out.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.URL = "tcp://localhost:1883"
	c.Mqtt.ClientID = "labeltx"
	c.Mqtt.Qos = 0
	c.Mqtt.Timeout = 2 * time.Second
	c.Mqtt.Topics.Subjects = "labeltx/subjects"
	c.Mqtt.Topics.Frames = "labeltx/frames"
	c.Animation.Style = StyleBounce
	c.Animation.Gradient = gradient.FormatNotation(DefaultBounceStops())
	c.Animation.Easing = "linear"
	c.Animation.Period = 50 * time.Millisecond
	c.Animation.TrailStep = 0.02
	c.Animation.Formatting = "l"
	c.Animation.Label = "FancyItem | {name}"
	c.Animation.Encoding = EncodingJSON
	c.API.Listen = ":3000"
	return c
}

// Validate checks everything that can be checked before connecting.
func (c Config) Validate() error {
	if _, err := c.Stops(); err != nil {
		return err
	}
	if _, err := c.Format(); err != nil {
		return err
	}
	if _, err := util.Easing(c.Animation.Easing); err != nil {
		return err
	}
	switch c.Animation.Style {
	case StyleBounce, StyleTrail:
	default:
		return fmt.Errorf("unknown animation style %q", c.Animation.Style)
	}
	switch c.Animation.Encoding {
	case EncodingJSON, EncodingBinary:
	default:
		return fmt.Errorf("unknown frame encoding %q", c.Animation.Encoding)
	}
	if c.Animation.Period <= 0 {
		return fmt.Errorf("animation period must be positive, got %v", c.Animation.Period)
	}
	if c.Mqtt.Timeout <= 0 {
		return fmt.Errorf("mqtt timeout must be positive, got %v", c.Mqtt.Timeout)
	}
	if c.Mqtt.Qos > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2, got %d", c.Mqtt.Qos)
	}
	return nil
}

// Stops parses the configured gradient.
func (c Config) Stops() (gradient.StopList, error) {
	stops, err := gradient.ParseNotation(c.Animation.Gradient)
	if err != nil {
		return nil, fmt.Errorf("animation gradient: %w", err)
	}
	return stops, nil
}

// Format parses the configured formatting markers.
func (c Config) Format() (Formatting, error) {
	f, err := ParseFormatting(c.Animation.Formatting)
	if err != nil {
		return 0, fmt.Errorf("animation formatting: %w", err)
	}
	return f, nil
}

// Label builds the label shown for a subject called name by substituting it
// for {name} in the configured label.
func (c Config) Label(name string) string {
	return strings.ReplaceAll(c.Animation.Label, "{name}", name)
}

// AnimationFactory returns a constructor for the configured animation. Each
// call of the constructor creates fresh state.
func (c Config) AnimationFactory() (func() Animation, error) {
	stops, err := c.Stops()
	if err != nil {
		return nil, err
	}
	easing, err := util.Easing(c.Animation.Easing)
	if err != nil {
		return nil, err
	}

	switch c.Animation.Style {
	case StyleBounce:
		return func() Animation { return NewBounce(stops, easing) }, nil
	case StyleTrail:
		step := c.Animation.TrailStep
		return func() Animation { return NewTrail(stops, step) }, nil
	}
	return nil, fmt.Errorf("unknown animation style %q", c.Animation.Style)
}
