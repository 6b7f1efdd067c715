package library

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"opalite-go/internal/codec/reconcile"
	"opalite-go/internal/model"
)

var baseTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestLibrary(t *testing.T) *SQLiteLibrary {
	t.Helper()

	lib, err := NewSQLiteLibrary(":memory:")
	if err != nil {
		t.Fatalf("failed to create library: %v", err)
	}
	t.Cleanup(func() {
		lib.Close()
	})
	return lib
}

func newColor(name string, offset time.Duration) model.ColorRecord {
	return model.ColorRecord{
		ID:            uuid.New(),
		Name:          name,
		Notes:         "notes for " + name,
		Red:           0.25,
		Green:         0.5,
		Blue:          0.75,
		Alpha:         1,
		CreatedAt:     baseTime.Add(offset),
		UpdatedAt:     baseTime.Add(offset),
		AuthorName:    "Ada",
		AuthorDevice:  "mac",
		UpdaterDevice: "mac",
	}
}

func mustCreateColor(t *testing.T, lib *SQLiteLibrary, c model.ColorRecord) {
	t.Helper()
	if err := lib.CreateColor(&c); err != nil {
		t.Fatalf("CreateColor() error = %v", err)
	}
}

func colorIDs(colors []model.ColorRecord) []uuid.UUID {
	ids := make([]uuid.UUID, len(colors))
	for i, c := range colors {
		ids[i] = c.ID
	}
	return ids
}

func sameIDs(got, want []uuid.UUID) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestSQLiteLibrary_Colors(t *testing.T) {
	t.Run("returns nil when color not found", func(t *testing.T) {
		lib := newTestLibrary(t)

		c, err := lib.FindColor(uuid.New())
		if err != nil {
			t.Fatalf("FindColor() error = %v", err)
		}
		if c != nil {
			t.Errorf("FindColor() = %+v, want nil", c)
		}
	})

	t.Run("stores every field", func(t *testing.T) {
		lib := newTestLibrary(t)
		want := newColor("Coral", 0)
		want.Alpha = 0.5
		mustCreateColor(t, lib, want)

		got, err := lib.FindColor(want.ID)
		if err != nil {
			t.Fatalf("FindColor() error = %v", err)
		}
		if got == nil {
			t.Fatal("FindColor() = nil")
		}
		if got.ID != want.ID || got.Name != want.Name || got.Notes != want.Notes {
			t.Errorf("identity fields = %v %q %q, want %v %q %q", got.ID, got.Name, got.Notes, want.ID, want.Name, want.Notes)
		}
		if got.Red != want.Red || got.Green != want.Green || got.Blue != want.Blue || got.Alpha != want.Alpha {
			t.Errorf("channels = %v %v %v %v", got.Red, got.Green, got.Blue, got.Alpha)
		}
		if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
			t.Errorf("timestamps = %v %v, want %v", got.CreatedAt, got.UpdatedAt, want.CreatedAt)
		}
		if got.AuthorName != "Ada" || got.AuthorDevice != "mac" || got.UpdaterDevice != "mac" {
			t.Errorf("provenance = %q %q %q", got.AuthorName, got.AuthorDevice, got.UpdaterDevice)
		}
	})

	t.Run("keeps sub-second timestamps", func(t *testing.T) {
		lib := newTestLibrary(t)
		c := newColor("Precise", 1500*time.Millisecond)
		mustCreateColor(t, lib, c)

		got, err := lib.FindColor(c.ID)
		if err != nil {
			t.Fatalf("FindColor() error = %v", err)
		}
		if !got.CreatedAt.Equal(c.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, c.CreatedAt)
		}
	})

	t.Run("rejects a duplicate id", func(t *testing.T) {
		lib := newTestLibrary(t)
		c := newColor("Once", 0)
		mustCreateColor(t, lib, c)

		if err := lib.CreateColor(&c); err == nil {
			t.Fatal("CreateColor() expected error for duplicate id")
		}
	})

	t.Run("lists colors oldest first", func(t *testing.T) {
		lib := newTestLibrary(t)
		second := newColor("Second", time.Minute)
		first := newColor("First", 0)
		mustCreateColor(t, lib, second)
		mustCreateColor(t, lib, first)

		colors, err := lib.ListColors()
		if err != nil {
			t.Fatalf("ListColors() error = %v", err)
		}
		if !sameIDs(colorIDs(colors), []uuid.UUID{first.ID, second.ID}) {
			t.Errorf("ListColors() order = %v", colorIDs(colors))
		}
	})
}

func TestSQLiteLibrary_Palettes(t *testing.T) {
	t.Run("returns nil when palette not found", func(t *testing.T) {
		lib := newTestLibrary(t)

		p, err := lib.FindPalette(uuid.New())
		if err != nil {
			t.Fatalf("FindPalette() error = %v", err)
		}
		if p != nil {
			t.Errorf("FindPalette() = %+v, want nil", p)
		}
	})

	t.Run("stores metadata and color order", func(t *testing.T) {
		lib := newTestLibrary(t)
		a, b := newColor("A", 0), newColor("B", time.Second)
		mustCreateColor(t, lib, a)
		mustCreateColor(t, lib, b)

		palette := model.PaletteRecord{
			ID:                uuid.New(),
			Name:              "Dusk",
			Notes:             "evening",
			Tags:              []string{"warm", "soft"},
			IsPinned:          true,
			PreviewBackground: "dark",
			CreatedAt:         baseTime,
			UpdatedAt:         baseTime,
			Colors:            []model.ColorRecord{b, a},
		}
		if err := lib.CreatePalette(&palette); err != nil {
			t.Fatalf("CreatePalette() error = %v", err)
		}

		got, err := lib.FindPalette(palette.ID)
		if err != nil {
			t.Fatalf("FindPalette() error = %v", err)
		}
		if got.Name != "Dusk" || got.Notes != "evening" || !got.IsPinned || got.PreviewBackground != "dark" {
			t.Errorf("metadata = %+v", got)
		}
		if len(got.Tags) != 2 || got.Tags[0] != "warm" || got.Tags[1] != "soft" {
			t.Errorf("Tags = %v, want [warm soft]", got.Tags)
		}
		if !sameIDs(colorIDs(got.Colors), []uuid.UUID{b.ID, a.ID}) {
			t.Errorf("Colors order = %v, want [B A]", colorIDs(got.Colors))
		}
	})

	t.Run("nil tags are stored as empty", func(t *testing.T) {
		lib := newTestLibrary(t)
		palette := model.PaletteRecord{ID: uuid.New(), Name: "Bare", CreatedAt: baseTime, UpdatedAt: baseTime}
		if err := lib.CreatePalette(&palette); err != nil {
			t.Fatalf("CreatePalette() error = %v", err)
		}

		got, err := lib.FindPalette(palette.ID)
		if err != nil {
			t.Fatalf("FindPalette() error = %v", err)
		}
		if got.Tags == nil || len(got.Tags) != 0 {
			t.Errorf("Tags = %#v, want empty slice", got.Tags)
		}
	})

	t.Run("rejects unknown colors", func(t *testing.T) {
		lib := newTestLibrary(t)
		palette := model.PaletteRecord{
			ID: uuid.New(), Name: "Ghost", CreatedAt: baseTime, UpdatedAt: baseTime,
			Colors: []model.ColorRecord{newColor("never stored", 0)},
		}
		if err := lib.CreatePalette(&palette); err == nil {
			t.Fatal("CreatePalette() expected foreign key error")
		}

		got, err := lib.FindPalette(palette.ID)
		if err != nil {
			t.Fatalf("FindPalette() error = %v", err)
		}
		if got != nil {
			t.Error("failed CreatePalette() left a palette behind")
		}
	})

	t.Run("lists palettes with colors", func(t *testing.T) {
		lib := newTestLibrary(t)
		a := newColor("A", 0)
		mustCreateColor(t, lib, a)

		for i, name := range []string{"One", "Two"} {
			p := model.PaletteRecord{
				ID: uuid.New(), Name: name,
				CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
				UpdatedAt: baseTime,
				Colors:    []model.ColorRecord{a},
			}
			if err := lib.CreatePalette(&p); err != nil {
				t.Fatalf("CreatePalette() error = %v", err)
			}
		}

		palettes, err := lib.ListPalettes()
		if err != nil {
			t.Fatalf("ListPalettes() error = %v", err)
		}
		if len(palettes) != 2 || palettes[0].Name != "One" || palettes[1].Name != "Two" {
			t.Fatalf("ListPalettes() = %+v", palettes)
		}
		for _, p := range palettes {
			if len(p.Colors) != 1 || p.Colors[0].ID != a.ID {
				t.Errorf("palette %s colors = %v", p.Name, colorIDs(p.Colors))
			}
		}
	})
}

func TestSQLiteLibrary_AttachColors(t *testing.T) {
	lib := newTestLibrary(t)
	a, b, c := newColor("A", 0), newColor("B", 0), newColor("C", 0)
	for _, color := range []model.ColorRecord{a, b, c} {
		mustCreateColor(t, lib, color)
	}

	palette := model.PaletteRecord{ID: uuid.New(), Name: "P", CreatedAt: baseTime, UpdatedAt: baseTime, Colors: []model.ColorRecord{a}}
	if err := lib.CreatePalette(&palette); err != nil {
		t.Fatalf("CreatePalette() error = %v", err)
	}

	later := baseTime.Add(time.Hour)
	if err := lib.AttachColors(palette.ID, []uuid.UUID{b.ID, a.ID, c.ID}, later); err != nil {
		t.Fatalf("AttachColors() error = %v", err)
	}

	got, err := lib.FindPalette(palette.ID)
	if err != nil {
		t.Fatalf("FindPalette() error = %v", err)
	}
	if !sameIDs(colorIDs(got.Colors), []uuid.UUID{a.ID, b.ID, c.ID}) {
		t.Errorf("Colors = %v, want [A B C]", colorIDs(got.Colors))
	}
	if !got.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, later)
	}

	if err := lib.AttachColors(uuid.New(), []uuid.UUID{a.ID}, later); err == nil {
		t.Error("AttachColors() expected error for unknown palette")
	}
}

func TestSQLiteLibrary_ApplyPalettePlan(t *testing.T) {
	t.Run("attach to existing palette", func(t *testing.T) {
		lib := newTestLibrary(t)
		a := newColor("A", 0)
		mustCreateColor(t, lib, a)
		palette := model.PaletteRecord{ID: uuid.New(), Name: "Local", CreatedAt: baseTime, UpdatedAt: baseTime, Colors: []model.ColorRecord{a}}
		if err := lib.CreatePalette(&palette); err != nil {
			t.Fatalf("CreatePalette() error = %v", err)
		}

		b := newColor("B", 0)
		plan := reconcile.PalettePlan{AttachTo: &palette.ID, NewColors: []model.ColorRecord{b}}
		if err := lib.ApplyPalettePlan(plan, baseTime.Add(time.Hour)); err != nil {
			t.Fatalf("ApplyPalettePlan() error = %v", err)
		}

		got, err := lib.FindPalette(palette.ID)
		if err != nil {
			t.Fatalf("FindPalette() error = %v", err)
		}
		if got.Name != "Local" {
			t.Errorf("Name = %q, palette metadata must not change", got.Name)
		}
		if !sameIDs(colorIDs(got.Colors), []uuid.UUID{a.ID, b.ID}) {
			t.Errorf("Colors = %v, want [A B]", colorIDs(got.Colors))
		}
	})

	t.Run("create palette", func(t *testing.T) {
		lib := newTestLibrary(t)
		b := newColor("B", 0)
		created := model.PaletteRecord{ID: uuid.New(), Name: "Imported", Tags: []string{"x"}, CreatedAt: baseTime, UpdatedAt: baseTime, Colors: []model.ColorRecord{b}}

		plan := reconcile.PalettePlan{Create: &created, NewColors: []model.ColorRecord{b}}
		if err := lib.ApplyPalettePlan(plan, baseTime); err != nil {
			t.Fatalf("ApplyPalettePlan() error = %v", err)
		}

		got, err := lib.FindPalette(created.ID)
		if err != nil {
			t.Fatalf("FindPalette() error = %v", err)
		}
		if got == nil || got.Name != "Imported" || len(got.Colors) != 1 {
			t.Fatalf("FindPalette() = %+v", got)
		}
		color, err := lib.FindColor(b.ID)
		if err != nil || color == nil {
			t.Fatalf("FindColor() = %v, %v; want the imported color", color, err)
		}
	})

	t.Run("failure rolls back new colors", func(t *testing.T) {
		lib := newTestLibrary(t)
		b := newColor("B", 0)
		missing := uuid.New()

		plan := reconcile.PalettePlan{AttachTo: &missing, NewColors: []model.ColorRecord{b}}
		if err := lib.ApplyPalettePlan(plan, baseTime); err == nil {
			t.Fatal("ApplyPalettePlan() expected error for unknown palette")
		}

		color, err := lib.FindColor(b.ID)
		if err != nil {
			t.Fatalf("FindColor() error = %v", err)
		}
		if color != nil {
			t.Error("color was stored despite the failed plan")
		}
	})

	t.Run("empty plan", func(t *testing.T) {
		lib := newTestLibrary(t)
		if err := lib.ApplyPalettePlan(reconcile.PalettePlan{}, baseTime); err == nil {
			t.Fatal("ApplyPalettePlan() expected error for empty plan")
		}
	})
}

func TestSQLiteLibrary_Operations(t *testing.T) {
	lib := newTestLibrary(t)

	first, err := lib.CreateOperation("AddColor", "Coral", baseTime)
	if err != nil {
		t.Fatalf("CreateOperation() error = %v", err)
	}
	second, err := lib.CreateOperation("ApplyImport", "dusk.opalitepalette", baseTime.Add(time.Minute))
	if err != nil {
		t.Fatalf("CreateOperation() error = %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("operation ids not increasing: %d then %d", first.ID, second.ID)
	}

	if err := lib.FinishOperation(first.ID, "success", baseTime.Add(time.Second)); err != nil {
		t.Fatalf("FinishOperation() error = %v", err)
	}

	ops, err := lib.ListOperations(10)
	if err != nil {
		t.Fatalf("ListOperations() error = %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("len(ListOperations()) = %d, want 2", len(ops))
	}
	if ops[0].ID != second.ID {
		t.Errorf("ListOperations()[0].ID = %d, want newest %d", ops[0].ID, second.ID)
	}
	if ops[0].FinishedAt.Valid {
		t.Error("unfinished operation has FinishedAt")
	}
	if ops[1].Status != "success" || !ops[1].FinishedAt.Valid {
		t.Errorf("finished operation = %+v", ops[1])
	}

	limited, err := lib.ListOperations(1)
	if err != nil {
		t.Fatalf("ListOperations() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("len(ListOperations(1)) = %d, want 1", len(limited))
	}
}
