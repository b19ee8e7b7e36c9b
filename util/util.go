// Package util holds small helpers shared by the animations.
package util

import (
	"fmt"
	"sort"

	"github.com/fogleman/ease"
)

// EasingFunc remaps a progress value in [0,1].
type EasingFunc func(t float64) float64

var easings = map[string]EasingFunc{
	"linear":     ease.Linear,
	"inQuad":     ease.InQuad,
	"outQuad":    ease.OutQuad,
	"inOutQuad":  ease.InOutQuad,
	"inCubic":    ease.InCubic,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"inSine":     ease.InSine,
	"outSine":    ease.OutSine,
	"inOutSine":  ease.InOutSine,
	"inOutCirc":  ease.InOutCirc,
	"outBounce":  ease.OutBounce,
}

// Easing looks up an easing function by name. The empty name is linear.
func Easing(name string) (EasingFunc, error) {
	if name == "" {
		return ease.Linear, nil
	}
	f, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q (have %v)", name, EasingNames())
	}
	return f, nil
}

// EasingNames lists the known easing names in alphabetical order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
