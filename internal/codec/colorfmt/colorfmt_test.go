package colorfmt

import (
	"errors"
	"math"
	"testing"

	"opalite-go/internal/model"
)

func rgba(r, g, b, a float64) model.ColorRecord {
	return model.ColorRecord{Red: r, Green: g, Blue: b, Alpha: a}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{in: -0.5, want: 0},
		{in: 0, want: 0},
		{in: 0.25, want: 0.25},
		{in: 1, want: 1},
		{in: 7, want: 1},
		{in: math.NaN(), want: 0},
		{in: math.Inf(1), want: 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		name         string
		color        model.ColorRecord
		hex          string
		hexWithAlpha string
		rgb          string
		rgba         string
		hsl          string
		css          string
	}{
		{
			name:         "opaque red",
			color:        rgba(1, 0, 0, 1),
			hex:          "#FF0000",
			hexWithAlpha: "#FF0000FF",
			rgb:          "rgb(255, 0, 0)",
			rgba:         "rgba(255, 0, 0, 1.00)",
			hsl:          "hsl(0, 100%, 50%)",
			css:          "rgb(255, 0, 0)",
		},
		{
			name:         "translucent teal",
			color:        rgba(0, 0.5, 0.5, 0.5),
			hex:          "#008080",
			hexWithAlpha: "#00808080",
			rgb:          "rgb(0, 128, 128)",
			rgba:         "rgba(0, 128, 128, 0.50)",
			hsl:          "hsl(180, 100%, 25%)",
			css:          "rgba(0, 128, 128, 0.50)",
		},
		{
			name:         "out of range channels are clamped",
			color:        rgba(2, -1, 0.2, 3),
			hex:          "#FF0033",
			hexWithAlpha: "#FF0033FF",
			rgb:          "rgb(255, 0, 51)",
			rgba:         "rgba(255, 0, 51, 1.00)",
			hsl:          "hsl(348, 100%, 50%)",
			css:          "rgb(255, 0, 51)",
		},
		{
			name:         "gray",
			color:        rgba(0.5, 0.5, 0.5, 1),
			hex:          "#808080",
			hexWithAlpha: "#808080FF",
			rgb:          "rgb(128, 128, 128)",
			rgba:         "rgba(128, 128, 128, 1.00)",
			hsl:          "hsl(0, 0%, 50%)",
			css:          "rgb(128, 128, 128)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hex(tt.color); got != tt.hex {
				t.Errorf("Hex() = %q, want %q", got, tt.hex)
			}
			if got := HexWithAlpha(tt.color); got != tt.hexWithAlpha {
				t.Errorf("HexWithAlpha() = %q, want %q", got, tt.hexWithAlpha)
			}
			if got := RGB(tt.color); got != tt.rgb {
				t.Errorf("RGB() = %q, want %q", got, tt.rgb)
			}
			if got := RGBA(tt.color); got != tt.rgba {
				t.Errorf("RGBA() = %q, want %q", got, tt.rgba)
			}
			if got := HSL(tt.color); got != tt.hsl {
				t.Errorf("HSL() = %q, want %q", got, tt.hsl)
			}
			if got := CSS(tt.color); got != tt.css {
				t.Errorf("CSS() = %q, want %q", got, tt.css)
			}
		})
	}
}

func TestNameOrHex(t *testing.T) {
	c := rgba(0, 0, 1, 1)
	if got := NameOrHex(c); got != "#0000FF" {
		t.Errorf("NameOrHex(unnamed) = %q, want %q", got, "#0000FF")
	}
	c.Name = "   "
	if got := NameOrHex(c); got != "#0000FF" {
		t.Errorf("NameOrHex(blank) = %q, want %q", got, "#0000FF")
	}
	c.Name = "Ocean"
	if got := NameOrHex(c); got != "Ocean" {
		t.Errorf("NameOrHex(named) = %q, want %q", got, "Ocean")
	}
}

func TestToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		h, s, v float64
	}{
		{name: "red", r: 1, g: 0, b: 0, h: 0, s: 1, v: 1},
		{name: "green", r: 0, g: 1, b: 0, h: 1.0 / 3, s: 1, v: 1},
		{name: "blue", r: 0, g: 0, b: 1, h: 2.0 / 3, s: 1, v: 1},
		{name: "magenta wraps below one", r: 1, g: 0, b: 1, h: 5.0 / 6, s: 1, v: 1},
		{name: "black", r: 0, g: 0, b: 0, h: 0, s: 0, v: 0},
		{name: "white", r: 1, g: 1, b: 1, h: 0, s: 0, v: 1},
		{name: "dim orange", r: 0.5, g: 0.25, b: 0, h: 1.0 / 12, s: 1, v: 0.5},
	}

	const eps = 1e-9
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := ToHSV(tt.r, tt.g, tt.b)
			if math.Abs(h-tt.h) > eps || math.Abs(s-tt.s) > eps || math.Abs(v-tt.v) > eps {
				t.Errorf("ToHSV(%v, %v, %v) = (%v, %v, %v), want (%v, %v, %v)", tt.r, tt.g, tt.b, h, s, v, tt.h, tt.s, tt.v)
			}
			if h < 0 || h >= 1 {
				t.Errorf("hue %v outside [0, 1)", h)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		input   string
		want    [4]uint8
		wantErr bool
	}{
		{input: "#FF0000", want: [4]uint8{255, 0, 0, 255}},
		{input: "00ff80", want: [4]uint8{0, 255, 128, 255}},
		{input: "#f00", want: [4]uint8{255, 0, 0, 255}},
		{input: "#11223344", want: [4]uint8{0x11, 0x22, 0x33, 0x44}},
		{input: "#12345", wantErr: true},
		{input: "#GGGGGG", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, g, b, a, err := ParseHex(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHex) {
					t.Fatalf("ParseHex(%q) error = %v, want ErrInvalidHex", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) error = %v", tt.input, err)
			}
			got := [4]uint8{Channel8(r), Channel8(g), Channel8(b), Channel8(a)}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
