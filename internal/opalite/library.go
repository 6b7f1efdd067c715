package opalite

import (
	"time"

	"github.com/google/uuid"

	"opalite-go/internal/codec/reconcile"
	"opalite-go/internal/model"
)

// Library stores the user's colors and palettes.
// Find methods return nil, nil when the record does not exist.
type Library interface {
	// CreateColor stores a new color under its own id.
	CreateColor(color *model.ColorRecord) error

	// FindColor returns a color by id.
	FindColor(id uuid.UUID) (*model.ColorRecord, error)

	// ListColors returns every color, oldest first.
	ListColors() ([]model.ColorRecord, error)

	// CreatePalette stores a palette and its membership list. Every color in
	// palette.Colors must already exist.
	CreatePalette(palette *model.PaletteRecord) error

	// FindPalette returns a palette with its colors in order.
	FindPalette(id uuid.UUID) (*model.PaletteRecord, error)

	// ListPalettes returns every palette with its colors, oldest first.
	ListPalettes() ([]model.PaletteRecord, error)

	// AttachColors appends colors to the end of a palette, skipping any
	// already in it, and bumps the palette's updated time.
	AttachColors(paletteID uuid.UUID, colorIDs []uuid.UUID, at time.Time) error

	// ApplyPalettePlan performs an import plan in a single transaction.
	ApplyPalettePlan(plan reconcile.PalettePlan, at time.Time) error

	// Close releases the underlying storage.
	Close() error
}
