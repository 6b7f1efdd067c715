// Package procreate encodes Procreate-style .swatches bundles: a JSON
// document of HSV swatches stored as Swatches.json inside a ZIP archive.
package procreate

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"opalite-go/internal/codec/archive"
	"opalite-go/internal/codec/colorfmt"
	"opalite-go/internal/model"
)

// MemberName is the archive member holding the swatch document.
const MemberName = "Swatches.json"

// Swatch is one color in HSV, every component in [0, 1].
type Swatch struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Brightness float64 `json:"brightness"`
	Alpha      float64 `json:"alpha"`
	ColorSpace int     `json:"colorSpace"`
}

// Document is the content of Swatches.json.
type Document struct {
	Name     string   `json:"name"`
	Swatches []Swatch `json:"swatches"`
}

// EncodeColor bundles a single swatch named after the color.
func EncodeColor(c model.ColorRecord, modified time.Time) ([]byte, error) {
	return encode(colorfmt.NameOrHex(c), []model.ColorRecord{c}, modified)
}

// EncodePalette bundles one swatch per palette color.
func EncodePalette(p model.PaletteRecord, modified time.Time) ([]byte, error) {
	name := p.Name
	if strings.TrimSpace(name) == "" {
		name = "Untitled"
	}
	return encode(name, p.Colors, modified)
}

// NewDocument converts colors to HSV swatches.
func NewDocument(name string, colors []model.ColorRecord) Document {
	doc := Document{Name: name, Swatches: make([]Swatch, 0, len(colors))}
	for _, c := range colors {
		h, s, v := colorfmt.ToHSV(c.Red, c.Green, c.Blue)
		doc.Swatches = append(doc.Swatches, Swatch{
			Hue:        h,
			Saturation: s,
			Brightness: v,
			Alpha:      colorfmt.Clamp(c.Alpha),
		})
	}
	return doc
}

func encode(name string, colors []model.ColorRecord, modified time.Time) ([]byte, error) {
	payload, err := json.Marshal(NewDocument(name, colors))
	if err != nil {
		return nil, fmt.Errorf("encoding swatch document: %w", err)
	}
	data, err := archive.Wrap(MemberName, payload, modified)
	if err != nil {
		return nil, fmt.Errorf("wrapping swatch document: %w", err)
	}
	return data, nil
}

// Decode unpacks a bundle produced by EncodeColor or EncodePalette.
func Decode(data []byte) (*Document, error) {
	entry, err := archive.Read(data)
	if err != nil {
		return nil, err
	}
	if entry.Name != MemberName {
		return nil, fmt.Errorf("unexpected archive member %q", entry.Name)
	}
	var doc Document
	if err := json.Unmarshal(entry.Data, &doc); err != nil {
		return nil, fmt.Errorf("decoding swatch document: %w", err)
	}
	return &doc, nil
}
