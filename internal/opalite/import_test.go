package opalite_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"opalite-go/internal/codec"
	"opalite-go/internal/codec/native"
	"opalite-go/internal/encryption"
	"opalite-go/internal/opalite"
	"opalite-go/internal/testutil"
)

func TestService_ImportColor(t *testing.T) {
	c := testutil.Color(uuid.MustParse("6f1d3c2a-8b4e-4f7a-9c1d-2e3f4a5b6c7d"), "Imported", 0.1, 0.2, 0.3)
	data, err := native.EncodeColor(c)
	if err != nil {
		t.Fatalf("EncodeColor() error = %v", err)
	}

	svc, _ := newTestService(t, nil)

	preview, err := svc.PreviewImport(data, nil)
	if err != nil {
		t.Fatalf("PreviewImport() error = %v", err)
	}
	if preview.Kind != codec.KindColor || preview.Color == nil {
		t.Fatalf("preview = %+v, want a color preview", preview)
	}
	if preview.Color.WillSkip() {
		t.Error("WillSkip() = true for a new color")
	}

	result, err := svc.ApplyImport(preview)
	if err != nil {
		t.Fatalf("ApplyImport() error = %v", err)
	}
	if result.ColorsCreated != 1 {
		t.Errorf("ColorsCreated = %d, want 1", result.ColorsCreated)
	}

	colors, err := svc.ListColors()
	if err != nil {
		t.Fatalf("ListColors() error = %v", err)
	}
	if len(colors) != 1 || colors[0].ID != c.ID {
		t.Fatalf("ListColors() = %v, want the imported id", colors)
	}

	// A second import of the same file is a duplicate.
	preview, err = svc.PreviewImport(data, nil)
	if err != nil {
		t.Fatalf("PreviewImport() error = %v", err)
	}
	if !preview.Color.WillSkip() {
		t.Error("WillSkip() = false for a known color")
	}
	result, err = svc.ApplyImport(preview)
	if err != nil {
		t.Fatalf("ApplyImport() error = %v", err)
	}
	if result.ColorsSkipped != 1 || result.ColorsCreated != 0 {
		t.Errorf("result = %+v, want one skipped", result)
	}
}

func TestService_ImportPalette(t *testing.T) {
	idA := uuid.MustParse("aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa")
	idB := uuid.MustParse("bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb")
	idP := uuid.MustParse("dddddddd-dddd-4ddd-8ddd-dddddddddddd")

	exported := testutil.Palette(idP, "Shared",
		testutil.Color(idA, "A from file", 1, 0, 0),
		testutil.Color(idB, "B from file", 0, 1, 0),
	)
	data, err := native.EncodePalette(exported)
	if err != nil {
		t.Fatalf("EncodePalette() error = %v", err)
	}

	t.Run("new palette keeps only new colors", func(t *testing.T) {
		lib := testutil.NewTestLibrary(t)
		localA := testutil.Color(idA, "A local", 0, 0, 1)
		if err := lib.CreateColor(&localA); err != nil {
			t.Fatalf("CreateColor() error = %v", err)
		}
		svc := opalite.NewService(lib, nil, opalite.NewNopLogger(), testutil.FixedClock(), testutil.NewStubIDGenerator(), opalite.Identity{})

		preview, err := svc.PreviewImport(data, nil)
		if err != nil {
			t.Fatalf("PreviewImport() error = %v", err)
		}
		if preview.Palette.WillUpdate() {
			t.Error("WillUpdate() = true for an unknown palette")
		}
		if len(preview.Palette.ExistingColors) != 1 || preview.Palette.ExistingColors[0].Name != "A local" {
			t.Errorf("ExistingColors = %+v, want the local A", preview.Palette.ExistingColors)
		}

		result, err := svc.ApplyImport(preview)
		if err != nil {
			t.Fatalf("ApplyImport() error = %v", err)
		}
		if !result.PaletteCreated || result.ColorsCreated != 1 || result.ColorsSkipped != 1 {
			t.Errorf("result = %+v", result)
		}

		p, err := lib.FindPalette(idP)
		if err != nil || p == nil {
			t.Fatalf("FindPalette() = %v, %v", p, err)
		}
		if p.Name != "Shared" {
			t.Errorf("Name = %q, want Shared", p.Name)
		}
		if len(p.Colors) != 1 || p.Colors[0].ID != idB {
			t.Errorf("palette colors = %+v, want only B", p.Colors)
		}
		a, err := lib.FindColor(idA)
		if err != nil || a == nil || a.Name != "A local" {
			t.Errorf("local A = %+v, %v; must be untouched", a, err)
		}
	})

	t.Run("existing palette gets new colors attached", func(t *testing.T) {
		lib := testutil.NewTestLibrary(t)
		localA := testutil.Color(idA, "A local", 0, 0, 1)
		if err := lib.CreateColor(&localA); err != nil {
			t.Fatalf("CreateColor() error = %v", err)
		}
		local := testutil.Palette(idP, "My name", localA)
		if err := lib.CreatePalette(&local); err != nil {
			t.Fatalf("CreatePalette() error = %v", err)
		}
		svc := opalite.NewService(lib, nil, opalite.NewNopLogger(), testutil.FixedClock(), testutil.NewStubIDGenerator(), opalite.Identity{})

		preview, err := svc.PreviewImport(data, nil)
		if err != nil {
			t.Fatalf("PreviewImport() error = %v", err)
		}
		if !preview.Palette.WillUpdate() {
			t.Fatal("WillUpdate() = false for a known palette")
		}
		if len(preview.Palette.NewColors) != 1 || preview.Palette.NewColors[0].ID != idB {
			t.Errorf("NewColors = %+v, want [B]", preview.Palette.NewColors)
		}

		result, err := svc.ApplyImport(preview)
		if err != nil {
			t.Fatalf("ApplyImport() error = %v", err)
		}
		if !result.PaletteUpdated || result.PaletteCreated {
			t.Errorf("result = %+v, want an update", result)
		}

		p, err := lib.FindPalette(idP)
		if err != nil {
			t.Fatalf("FindPalette() error = %v", err)
		}
		if p.Name != "My name" {
			t.Errorf("Name = %q, local metadata must be kept", p.Name)
		}
		if len(p.Colors) != 2 || p.Colors[0].ID != idA || p.Colors[1].ID != idB {
			t.Errorf("palette colors = %+v, want [A B]", p.Colors)
		}
	})
}

func TestService_ImportSealed(t *testing.T) {
	sealer := encryption.NewTestSealer()
	if err := sealer.Setup("pw"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	svc, _ := newTestService(t, sealer)

	c, err := svc.AddColor("Sealed", "#123456", "")
	if err != nil {
		t.Fatalf("AddColor() error = %v", err)
	}
	exp, err := svc.ExportColor(c.ID, codec.FormatNativeColor, true)
	if err != nil {
		t.Fatalf("ExportColor() error = %v", err)
	}

	t.Run("with passphrase", func(t *testing.T) {
		preview, err := svc.PreviewImport(exp.Data, func() (string, error) { return "pw", nil })
		if err != nil {
			t.Fatalf("PreviewImport() error = %v", err)
		}
		if !preview.Sealed {
			t.Error("Sealed = false")
		}
		if !preview.Color.WillSkip() {
			t.Error("WillSkip() = false for our own color")
		}
	})

	t.Run("without passphrase", func(t *testing.T) {
		if _, err := svc.PreviewImport(exp.Data, nil); !errors.Is(err, opalite.ErrPassphraseRequired) {
			t.Errorf("PreviewImport() error = %v, want ErrPassphraseRequired", err)
		}
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		if _, err := svc.PreviewImport(exp.Data, func() (string, error) { return "nope", nil }); err == nil {
			t.Error("PreviewImport() expected error for wrong passphrase")
		}
	})

	t.Run("passphrase prompt fails", func(t *testing.T) {
		cause := errors.New("no tty")
		if _, err := svc.PreviewImport(exp.Data, func() (string, error) { return "", cause }); !errors.Is(err, cause) {
			t.Errorf("PreviewImport() error = %v, want %v", err, cause)
		}
	})
}

func TestService_ImportErrors(t *testing.T) {
	svc, _ := newTestService(t, nil)

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "garbage", data: "\x00\x01\x02", wantErr: codec.ErrInvalidFormat},
		{name: "json array", data: "[1,2,3]", wantErr: codec.ErrInvalidFormat},
		{name: "missing red", data: `{"id":"6f1d3c2a-8b4e-4f7a-9c1d-2e3f4a5b6c7d","green":0,"blue":0}`, wantErr: codec.ErrMissingRequiredFields},
		{name: "palette without name", data: `{"id":"6f1d3c2a-8b4e-4f7a-9c1d-2e3f4a5b6c7d","colors":[]}`, wantErr: codec.ErrMissingRequiredFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PreviewImport([]byte(tt.data), nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("PreviewImport() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := svc.ApplyImport(&opalite.ImportPreview{}); err == nil {
		t.Error("ApplyImport() expected error for an empty preview")
	}
}
