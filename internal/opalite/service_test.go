package opalite_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"opalite-go/internal/codec/colorfmt"
	"opalite-go/internal/opalite"
	"opalite-go/internal/testutil"
)

func newTestService(t *testing.T, sealer opalite.Sealer) (*opalite.Service, *testutil.StubClock) {
	t.Helper()
	clock := testutil.FixedClock()
	svc := opalite.NewService(
		testutil.NewTestLibrary(t),
		sealer,
		opalite.NewNopLogger(),
		clock,
		testutil.NewStubIDGenerator(),
		opalite.Identity{AuthorName: "Ada", DeviceName: "studio"},
	)
	return svc, clock
}

func TestService_AddColor(t *testing.T) {
	t.Run("stores parsed channels and provenance", func(t *testing.T) {
		svc, clock := newTestService(t, nil)

		c, err := svc.AddColor("  Coral ", "#FF7F50", "warm")
		if err != nil {
			t.Fatalf("AddColor() error = %v", err)
		}
		if c.ID != testutil.SequentialID(1) {
			t.Errorf("ID = %s, want %s", c.ID, testutil.SequentialID(1))
		}
		if c.Name != "Coral" {
			t.Errorf("Name = %q, want %q", c.Name, "Coral")
		}
		if got := colorfmt.Hex(*c); got != "#FF7F50" {
			t.Errorf("Hex = %s, want #FF7F50", got)
		}
		if c.Alpha != 1 {
			t.Errorf("Alpha = %v, want 1", c.Alpha)
		}
		if !c.CreatedAt.Equal(clock.Now()) {
			t.Errorf("CreatedAt = %v, want %v", c.CreatedAt, clock.Now())
		}
		if c.AuthorName != "Ada" || c.AuthorDevice != "studio" || c.UpdaterDevice != "studio" {
			t.Errorf("provenance = %q %q %q", c.AuthorName, c.AuthorDevice, c.UpdaterDevice)
		}

		colors, err := svc.ListColors()
		if err != nil {
			t.Fatalf("ListColors() error = %v", err)
		}
		if len(colors) != 1 || colors[0].ID != c.ID {
			t.Errorf("ListColors() = %v", colors)
		}
	})

	t.Run("rejects invalid hex", func(t *testing.T) {
		svc, _ := newTestService(t, nil)

		_, err := svc.AddColor("Bad", "#GGGGGG", "")
		if !errors.Is(err, colorfmt.ErrInvalidHex) {
			t.Errorf("AddColor() error = %v, want ErrInvalidHex", err)
		}
	})
}

func TestService_CreatePalette(t *testing.T) {
	t.Run("creates an empty palette", func(t *testing.T) {
		svc, _ := newTestService(t, nil)

		p, err := svc.CreatePalette("Dusk", "evening", []string{"warm"})
		if err != nil {
			t.Fatalf("CreatePalette() error = %v", err)
		}

		palettes, err := svc.ListPalettes()
		if err != nil {
			t.Fatalf("ListPalettes() error = %v", err)
		}
		if len(palettes) != 1 || palettes[0].ID != p.ID || palettes[0].Name != "Dusk" {
			t.Fatalf("ListPalettes() = %+v", palettes)
		}
		if len(palettes[0].Tags) != 1 || palettes[0].Tags[0] != "warm" {
			t.Errorf("Tags = %v, want [warm]", palettes[0].Tags)
		}
	})

	t.Run("requires a name", func(t *testing.T) {
		svc, _ := newTestService(t, nil)

		if _, err := svc.CreatePalette("   ", "", nil); !errors.Is(err, opalite.ErrNameRequired) {
			t.Errorf("CreatePalette() error = %v, want ErrNameRequired", err)
		}
	})
}

func TestService_AddColorToPalette(t *testing.T) {
	svc, _ := newTestService(t, nil)

	c, err := svc.AddColor("Red", "#F00", "")
	if err != nil {
		t.Fatalf("AddColor() error = %v", err)
	}
	p, err := svc.CreatePalette("Primary", "", nil)
	if err != nil {
		t.Fatalf("CreatePalette() error = %v", err)
	}

	if err := svc.AddColorToPalette(p.ID, c.ID); err != nil {
		t.Fatalf("AddColorToPalette() error = %v", err)
	}
	if err := svc.AddColorToPalette(p.ID, c.ID); err != nil {
		t.Fatalf("second AddColorToPalette() error = %v", err)
	}

	palettes, err := svc.ListPalettes()
	if err != nil {
		t.Fatalf("ListPalettes() error = %v", err)
	}
	if len(palettes[0].Colors) != 1 {
		t.Errorf("palette has %d colors, want 1", len(palettes[0].Colors))
	}

	if err := svc.AddColorToPalette(uuid.New(), c.ID); !errors.Is(err, opalite.ErrPaletteNotFound) {
		t.Errorf("unknown palette error = %v, want ErrPaletteNotFound", err)
	}
	if err := svc.AddColorToPalette(p.ID, uuid.New()); !errors.Is(err, opalite.ErrColorNotFound) {
		t.Errorf("unknown color error = %v, want ErrColorNotFound", err)
	}
}
