// Package native encodes and decodes Opalite's own interchange documents:
// JSON objects describing a single color or a palette with embedded colors.
//
// Decoding goes through strongly-typed input structs whose field types never
// fail on a wrong JSON type; they simply report the value as absent. Required
// fields are then checked explicitly, so a wrong type on a required field is
// reported as ErrMissingRequiredFields, while optional fields fall back to
// their defaults.
package native

import (
	"bytes"
	"errors"
	"math"
	"time"

	"github.com/goccy/go-json"
)

var (
	// ErrInvalidFormat means the bytes are not a JSON object at all.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrMissingRequiredFields means the object lacks an id, a channel, or a palette name.
	ErrMissingRequiredFields = errors.New("missing required fields")
)

// UnknownDevice is written for updatedOnDeviceName when the record has none.
const UnknownDevice = "Unknown"

// ColorDocument is the encoded form of a color.
type ColorDocument struct {
	ID           string  `json:"id"`
	Name         *string `json:"name"`
	Notes        *string `json:"notes"`
	Hex          string  `json:"hex"`
	HexWithAlpha string  `json:"hexWithAlpha"`
	RGB          string  `json:"rgb"`
	RGBA         string  `json:"rgba"`
	HSL          string  `json:"hsl"`
	Red          float64 `json:"red"`
	Green        float64 `json:"green"`
	Blue         float64 `json:"blue"`
	Alpha        float64 `json:"alpha"`
	CreatedAt    float64 `json:"createdAt"`
	UpdatedAt    float64 `json:"updatedAt"`

	CreatedOnDeviceName  *string `json:"createdOnDeviceName"`
	CreatedByDisplayName *string `json:"createdByDisplayName"`
	UpdatedOnDeviceName  string  `json:"updatedOnDeviceName"`
}

// PaletteDocument is the encoded form of a palette.
type PaletteDocument struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Notes             *string  `json:"notes"`
	Tags              []string `json:"tags"`
	IsPinned          bool     `json:"isPinned"`
	PreviewBackground *string  `json:"previewBackground"`
	CreatedAt         float64  `json:"createdAt"`
	UpdatedAt         float64  `json:"updatedAt"`

	CreatedOnDeviceName  *string `json:"createdOnDeviceName"`
	CreatedByDisplayName *string `json:"createdByDisplayName"`
	UpdatedOnDeviceName  string  `json:"updatedOnDeviceName"`

	Colors []ColorDocument `json:"colors"`
}

// colorInput mirrors ColorDocument for decoding. Formatted strings (hex, rgb,
// ...) are derived data and ignored on the way in.
type colorInput struct {
	ID    optString `json:"id"`
	Name  optString `json:"name"`
	Notes optString `json:"notes"`

	Red   optNumber `json:"red"`
	Green optNumber `json:"green"`
	Blue  optNumber `json:"blue"`
	Alpha optNumber `json:"alpha"`

	CreatedAt optNumber `json:"createdAt"`
	UpdatedAt optNumber `json:"updatedAt"`

	CreatedOnDeviceName  optString `json:"createdOnDeviceName"`
	CreatedByDisplayName optString `json:"createdByDisplayName"`
	UpdatedOnDeviceName  optString `json:"updatedOnDeviceName"`
}

type paletteInput struct {
	ID                optString  `json:"id"`
	Name              optString  `json:"name"`
	Notes             optString  `json:"notes"`
	Tags              stringList `json:"tags"`
	IsPinned          optBool    `json:"isPinned"`
	PreviewBackground optString  `json:"previewBackground"`

	CreatedAt optNumber `json:"createdAt"`
	UpdatedAt optNumber `json:"updatedAt"`

	CreatedOnDeviceName  optString `json:"createdOnDeviceName"`
	CreatedByDisplayName optString `json:"createdByDisplayName"`
	UpdatedOnDeviceName  optString `json:"updatedOnDeviceName"`

	Colors rawList `json:"colors"`
}

func isNull(b []byte) bool { return string(bytes.TrimSpace(b)) == "null" }

// optString holds a JSON string, or nothing if the value had any other type.
type optString struct {
	value string
	valid bool
}

func (s *optString) UnmarshalJSON(b []byte) error {
	*s = optString{}
	if isNull(b) {
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err == nil {
		*s = optString{value: v, valid: true}
	}
	return nil
}

// optNumber holds a finite JSON number, or nothing.
type optNumber struct {
	value float64
	valid bool
}

func (n *optNumber) UnmarshalJSON(b []byte) error {
	*n = optNumber{}
	if isNull(b) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
		*n = optNumber{value: v, valid: true}
	}
	return nil
}

type optBool struct {
	value bool
	valid bool
}

func (o *optBool) UnmarshalJSON(b []byte) error {
	*o = optBool{}
	if isNull(b) {
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*o = optBool{value: v, valid: true}
	}
	return nil
}

// stringList keeps the string elements of a JSON array and drops the rest.
// Anything but an array yields an empty list.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	*l = nil
	var items []optString
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	for _, item := range items {
		if item.valid {
			*l = append(*l, item.value)
		}
	}
	return nil
}

// rawList holds the elements of a JSON array undecoded.
// Anything but an array yields an empty list.
type rawList []json.RawMessage

func (l *rawList) UnmarshalJSON(b []byte) error {
	*l = nil
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err == nil {
		*l = items
	}
	return nil
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// epochSeconds converts t to fractional Unix seconds.
func epochSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// maxEpochSeconds bounds decoded timestamps to what time.Unix can represent.
const maxEpochSeconds = 1 << 40

// timeFromEpoch converts fractional Unix seconds to a UTC time, or returns
// fallback when the value is absent or out of range.
func timeFromEpoch(n optNumber, fallback time.Time) time.Time {
	if !n.valid || math.Abs(n.value) > maxEpochSeconds {
		return fallback
	}
	sec := math.Floor(n.value)
	nsec := math.Round((n.value - sec) * 1e9)
	return time.Unix(int64(sec), int64(nsec)).UTC()
}
