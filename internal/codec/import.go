package codec

import (
	"time"

	"opalite-go/internal/codec/native"
	"opalite-go/internal/codec/reconcile"
	"opalite-go/internal/model"
)

// Kind is the record kind held by a native document.
type Kind = native.Kind

const (
	KindColor   = native.KindColor
	KindPalette = native.KindPalette
)

// DetectKind reports whether data is a native color or palette document.
func DetectKind(data []byte) (Kind, error) {
	kind, err := native.Sniff(data)
	return kind, classifyDecode(err)
}

// PreviewColorImport decodes a native color document and matches it against
// the caller's colors. now fills in missing timestamps.
func PreviewColorImport(data []byte, colors []model.ColorRecord, now time.Time) (*reconcile.ColorPreview, error) {
	decoded, err := native.DecodeColor(data, now)
	if err != nil {
		return nil, classifyDecode(err)
	}
	return reconcile.PreviewColor(*decoded, colors), nil
}

// PreviewPaletteImport decodes a native palette document and matches it and
// its colors against the caller's records.
func PreviewPaletteImport(data []byte, palettes []model.PaletteRecord, colors []model.ColorRecord, now time.Time) (*reconcile.PalettePreview, error) {
	decoded, err := native.DecodePalette(data, now)
	if err != nil {
		return nil, classifyDecode(err)
	}
	return reconcile.PreviewPalette(*decoded, palettes, colors), nil
}
