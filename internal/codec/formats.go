// Package codec is the entry point to Opalite's interchange formats. It maps
// format ids to encoders, builds export filenames, and turns native documents
// into import previews. It performs no I/O.
package codec

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"opalite-go/internal/codec/ase"
	"opalite-go/internal/codec/native"
	"opalite-go/internal/codec/procreate"
	"opalite-go/internal/codec/textfmt"
	"opalite-go/internal/model"
)

// FormatID identifies an export format.
type FormatID string

const (
	FormatNativeColor   FormatID = "native-color"
	FormatNativePalette FormatID = "native-palette"
	FormatASE           FormatID = "ase"
	FormatProcreate     FormatID = "procreate"
	FormatGPL           FormatID = "gpl"
	FormatCSS           FormatID = "css"
	FormatSnippet       FormatID = "source-snippet"
)

// Scope says which record kinds a format can carry.
type Scope int

const (
	ScopeColor Scope = 1 << iota
	ScopePalette
	ScopeBoth = ScopeColor | ScopePalette
)

func (s Scope) String() string {
	switch s {
	case ScopeColor:
		return "color"
	case ScopePalette:
		return "palette"
	case ScopeBoth:
		return "color, palette"
	default:
		return "none"
	}
}

// Format describes one export format. Free is informational; the codec does
// not gate anything on it.
type Format struct {
	ID        FormatID
	Extension string
	Label     string
	Free      bool
	Scope     Scope

	encodeColor   func(model.ColorRecord, time.Time) ([]byte, error)
	encodePalette func(model.PaletteRecord, time.Time) ([]byte, error)
}

func infallible[T any](fn func(T) []byte) func(T, time.Time) ([]byte, error) {
	return func(r T, _ time.Time) ([]byte, error) { return fn(r), nil }
}

func timeless[T any](fn func(T) ([]byte, error)) func(T, time.Time) ([]byte, error) {
	return func(r T, _ time.Time) ([]byte, error) { return fn(r) }
}

var formats = map[FormatID]*Format{
	FormatNativeColor: {
		ID: FormatNativeColor, Extension: ".opalitecolor", Label: "Opalite Color", Free: true, Scope: ScopeColor,
		encodeColor: timeless(native.EncodeColor),
	},
	FormatNativePalette: {
		ID: FormatNativePalette, Extension: ".opalitepalette", Label: "Opalite Palette", Free: true, Scope: ScopePalette,
		encodePalette: timeless(native.EncodePalette),
	},
	FormatASE: {
		ID: FormatASE, Extension: ".ase", Label: "Adobe Swatch Exchange", Scope: ScopeBoth,
		encodeColor:   timeless(ase.EncodeColor),
		encodePalette: timeless(ase.EncodePalette),
	},
	FormatProcreate: {
		ID: FormatProcreate, Extension: ".swatches", Label: "Procreate Swatches", Scope: ScopeBoth,
		encodeColor:   procreate.EncodeColor,
		encodePalette: procreate.EncodePalette,
	},
	FormatGPL: {
		ID: FormatGPL, Extension: ".gpl", Label: "GIMP Palette", Scope: ScopeBoth,
		encodeColor:   infallible(textfmt.GPLColor),
		encodePalette: infallible(textfmt.GPLPalette),
	},
	FormatCSS: {
		ID: FormatCSS, Extension: ".css", Label: "CSS Custom Properties", Scope: ScopeBoth,
		encodeColor:   infallible(textfmt.CSSColor),
		encodePalette: infallible(textfmt.CSSPalette),
	},
	FormatSnippet: {
		ID: FormatSnippet, Extension: ".swift", Label: "SwiftUI Snippet", Scope: ScopeBoth,
		encodeColor:   infallible(textfmt.SnippetColor),
		encodePalette: infallible(textfmt.SnippetPalette),
	},
}

// Lookup returns the descriptor for id.
func Lookup(id FormatID) (*Format, error) {
	f, ok := formats[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, id)
	}
	return f, nil
}

// LookupExtension finds a format by file extension, with or without the
// leading dot and ignoring case.
func LookupExtension(ext string) (*Format, error) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, f := range formats {
		if f.Extension == ext {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w for extension %q", ErrUnknownFormat, ext)
}

// Formats lists every format sorted by id.
func Formats() []*Format {
	out := make([]*Format, 0, len(formats))
	for _, f := range formats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FormatsFor lists the formats that can carry the given scope, sorted by id.
func FormatsFor(scope Scope) []*Format {
	var out []*Format
	for _, f := range Formats() {
		if f.Scope&scope != 0 {
			out = append(out, f)
		}
	}
	return out
}
