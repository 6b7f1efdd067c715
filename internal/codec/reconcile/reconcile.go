// Package reconcile classifies decoded imports against the records a caller
// already has. It never mutates its inputs; applying the result is up to the caller.
package reconcile

import (
	"github.com/google/uuid"

	"opalite-go/internal/model"
)

// ColorPreview describes what importing a single color would do.
type ColorPreview struct {
	Decoded  model.ColorRecord
	Existing *model.ColorRecord // caller's record with the same id, if any
}

// WillSkip reports whether the color already exists and the import is a no-op.
func (p *ColorPreview) WillSkip() bool { return p.Existing != nil }

// PalettePreview describes what importing a palette would do.
type PalettePreview struct {
	Decoded         model.PaletteRecord
	ExistingPalette *model.PaletteRecord

	// NewColors are decoded colors whose id the caller does not have.
	NewColors []model.ColorRecord
	// ExistingColors are the caller's own records for decoded ids it already has.
	ExistingColors []model.ColorRecord
}

// WillUpdate reports whether the palette already exists.
func (p *PalettePreview) WillUpdate() bool { return p.ExistingPalette != nil }

// PreviewColor looks decoded up among existing by id.
func PreviewColor(decoded model.ColorRecord, existing []model.ColorRecord) *ColorPreview {
	preview := &ColorPreview{Decoded: decoded}
	for i := range existing {
		if existing[i].ID == decoded.ID {
			match := existing[i]
			preview.Existing = &match
			break
		}
	}
	return preview
}

// PreviewPalette matches decoded against the caller's palettes by id and
// splits its colors into new ones and ones the caller already has.
func PreviewPalette(decoded model.PaletteRecord, palettes []model.PaletteRecord, colors []model.ColorRecord) *PalettePreview {
	preview := &PalettePreview{Decoded: decoded}
	for i := range palettes {
		if palettes[i].ID == decoded.ID {
			match := palettes[i]
			preview.ExistingPalette = &match
			break
		}
	}

	byID := make(map[uuid.UUID]int, len(colors))
	for i := range colors {
		byID[colors[i].ID] = i
	}
	for _, c := range decoded.Colors {
		if i, ok := byID[c.ID]; ok {
			preview.ExistingColors = append(preview.ExistingColors, colors[i])
			continue
		}
		preview.NewColors = append(preview.NewColors, c)
	}
	return preview
}

// PalettePlan is the set of writes that applies a palette preview.
// Exactly one of AttachTo and Create is set.
type PalettePlan struct {
	// AttachTo is the existing palette that receives NewColors. Its own
	// metadata is left as the caller has it.
	AttachTo *uuid.UUID
	// Create is a new palette carrying the decoded metadata and only NewColors.
	Create *model.PaletteRecord
	// NewColors must be stored before they are attached.
	NewColors []model.ColorRecord
}

// Plan turns the preview into writes. Colors the caller already has are
// never re-created, and are dropped from a newly created palette.
func (p *PalettePreview) Plan() PalettePlan {
	newColors := append([]model.ColorRecord(nil), p.NewColors...)
	if p.WillUpdate() {
		id := p.ExistingPalette.ID
		return PalettePlan{AttachTo: &id, NewColors: newColors}
	}

	created := p.Decoded
	created.Tags = append([]string(nil), p.Decoded.Tags...)
	created.Colors = newColors
	return PalettePlan{Create: &created, NewColors: newColors}
}
