// Package colorfmt formats color records as the strings shared by every
// export format: hex codes, CSS functional notation, HSL, and HSV.
package colorfmt

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"opalite-go/internal/model"
)

// ErrInvalidHex is returned by ParseHex for malformed input.
var ErrInvalidHex = errors.New("invalid hex color")

// Clamp limits v to [0, 1]. NaN becomes 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Channel8 converts a normalized channel to 0-255.
func Channel8(v float64) uint8 {
	return uint8(math.Round(Clamp(v) * 255))
}

// Clamped returns c with all four channels clamped.
func Clamped(c model.ColorRecord) model.ColorRecord {
	c.Red = Clamp(c.Red)
	c.Green = Clamp(c.Green)
	c.Blue = Clamp(c.Blue)
	c.Alpha = Clamp(c.Alpha)
	return c
}

// Hex returns "#RRGGBB".
func Hex(c model.ColorRecord) string {
	return fmt.Sprintf("#%02X%02X%02X", Channel8(c.Red), Channel8(c.Green), Channel8(c.Blue))
}

// HexWithAlpha returns "#RRGGBBAA".
func HexWithAlpha(c model.ColorRecord) string {
	return Hex(c) + fmt.Sprintf("%02X", Channel8(c.Alpha))
}

// RGB returns "rgb(r, g, b)" with 0-255 channels.
func RGB(c model.ColorRecord) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", Channel8(c.Red), Channel8(c.Green), Channel8(c.Blue))
}

// RGBA returns "rgba(r, g, b, a)" with 0-255 channels and alpha to two places.
func RGBA(c model.ColorRecord) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", Channel8(c.Red), Channel8(c.Green), Channel8(c.Blue), Clamp(c.Alpha))
}

// CSS returns RGBA when the color is translucent and RGB otherwise.
func CSS(c model.ColorRecord) string {
	if Clamp(c.Alpha) < 1 {
		return RGBA(c)
	}
	return RGB(c)
}

// HSL returns "hsl(h, s%, l%)" with hue in whole degrees.
func HSL(c model.ColorRecord) string {
	h, s, l := ToHSL(c.Red, c.Green, c.Blue)
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", int(math.Round(h*360))%360, int(math.Round(s*100)), int(math.Round(l*100)))
}

// NameOrHex returns the color's name, or its hex code when the name is blank.
func NameOrHex(c model.ColorRecord) string {
	if strings.TrimSpace(c.Name) == "" {
		return Hex(c)
	}
	return c.Name
}

// ToHSV converts RGB to hue, saturation and brightness, all in [0, 1].
// Hue is expressed in turns, so pure red is 0 and never 1.
func ToHSV(r, g, b float64) (h, s, v float64) {
	r, g, b = Clamp(r), Clamp(g), Clamp(b)
	maxC := max(r, g, b)
	minC := min(r, g, b)
	delta := maxC - minC

	v = maxC
	if maxC > 0 {
		s = delta / maxC
	}
	return hue(r, g, b, maxC, delta), s, v
}

// ToHSL converts RGB to hue (turns), saturation and lightness.
func ToHSL(r, g, b float64) (h, s, l float64) {
	r, g, b = Clamp(r), Clamp(g), Clamp(b)
	maxC := max(r, g, b)
	minC := min(r, g, b)
	delta := maxC - minC

	l = (maxC + minC) / 2
	if delta > 0 {
		s = delta / (1 - math.Abs(2*l-1))
	}
	return hue(r, g, b, maxC, delta), s, l
}

func hue(r, g, b, maxC, delta float64) float64 {
	if delta == 0 {
		return 0
	}
	var h float64
	switch maxC {
	case r:
		h = math.Mod((g-b)/delta, 6)
	case g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}
	h /= 6
	if h < 0 {
		h++
	}
	if h >= 1 {
		h = 0
	}
	return h
}

// ParseHex parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (the leading '#' is optional)
// into normalized channels. Alpha defaults to 1.
func ParseHex(s string) (r, g, b, a float64, err error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 && len(s) != 8 {
		return 0, 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	if len(s) == 6 {
		s += "FF"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return float64(v>>24&0xff) / 255, float64(v>>16&0xff) / 255, float64(v>>8&0xff) / 255, float64(v&0xff) / 255, nil
}
