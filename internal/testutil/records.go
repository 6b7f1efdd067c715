package testutil

import (
	"time"

	"github.com/google/uuid"

	"opalite-go/internal/model"
)

// Color returns a fully populated color with the given id and name.
func Color(id uuid.UUID, name string, r, g, b float64) model.ColorRecord {
	at := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return model.ColorRecord{
		ID:            id,
		Name:          name,
		Red:           r,
		Green:         g,
		Blue:          b,
		Alpha:         1,
		CreatedAt:     at,
		UpdatedAt:     at,
		AuthorName:    "Tester",
		AuthorDevice:  "test-device",
		UpdaterDevice: "test-device",
	}
}

// Palette returns a palette with the given id, name and colors.
func Palette(id uuid.UUID, name string, colors ...model.ColorRecord) model.PaletteRecord {
	at := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return model.PaletteRecord{
		ID:            id,
		Name:          name,
		Tags:          []string{},
		CreatedAt:     at,
		UpdatedAt:     at,
		AuthorName:    "Tester",
		AuthorDevice:  "test-device",
		UpdaterDevice: "test-device",
		Colors:        colors,
	}
}
