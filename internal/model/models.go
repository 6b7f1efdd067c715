package model

import (
	"time"

	"github.com/google/uuid"
)

// ColorRecord is a single color as the application stores it.
// Channels are normalized to [0, 1]; readers must not assume the producer clamped them.
type ColorRecord struct {
	ID    uuid.UUID // identity key for duplicate detection, never regenerated on import
	Name  string    // optional display name
	Notes string    // optional free text

	Red   float64
	Green float64
	Blue  float64
	Alpha float64

	CreatedAt time.Time
	UpdatedAt time.Time

	AuthorName    string // createdByDisplayName
	AuthorDevice  string // createdOnDeviceName
	UpdaterDevice string // updatedOnDeviceName
}

// PaletteRecord is an ordered, named group of colors.
// The palette owns its Colors list; colors carry no reference back to the palette.
type PaletteRecord struct {
	ID    uuid.UUID
	Name  string
	Notes string
	Tags  []string

	IsPinned          bool
	PreviewBackground string // display-background preference, carried verbatim

	CreatedAt time.Time
	UpdatedAt time.Time

	AuthorName    string
	AuthorDevice  string
	UpdaterDevice string

	Colors []ColorRecord
}

// ColorIDs returns the ids of the palette's colors in order.
func (p *PaletteRecord) ColorIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(p.Colors))
	for i := range p.Colors {
		ids[i] = p.Colors[i].ID
	}
	return ids
}
