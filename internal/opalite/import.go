package opalite

import (
	"bytes"
	"errors"
	"fmt"

	"opalite-go/internal/codec"
	"opalite-go/internal/codec/reconcile"
)

// ErrPassphraseRequired is returned when a sealed file is imported without
// a way to obtain the passphrase.
var ErrPassphraseRequired = errors.New("file is sealed and no passphrase was provided")

// PassphraseFunc supplies the passphrase for a sealed import. It is only
// called when the input is actually sealed.
type PassphraseFunc func() (string, error)

// ImportPreview is the outcome of decoding a native document against the
// library. Exactly one of Color and Palette is set.
type ImportPreview struct {
	Kind    codec.Kind
	Sealed  bool
	Color   *reconcile.ColorPreview
	Palette *reconcile.PalettePreview
}

// ImportResult counts what ApplyImport wrote.
type ImportResult struct {
	ColorsCreated  int
	ColorsSkipped  int
	PaletteCreated bool
	PaletteUpdated bool
}

// PreviewImport decodes a native color or palette document and classifies it
// against the library without writing anything. Sealed input is opened first
// with the passphrase from passphrase.
func (s *Service) PreviewImport(data []byte, passphrase PassphraseFunc) (*ImportPreview, error) {
	preview := &ImportPreview{}

	if s.sealer != nil && s.sealer.IsSealed(data) {
		opened, err := s.unseal(data, passphrase)
		if err != nil {
			return nil, err
		}
		data = opened
		preview.Sealed = true
	}

	kind, err := codec.DetectKind(data)
	if err != nil {
		return nil, err
	}
	preview.Kind = kind

	colors, err := s.library.ListColors()
	if err != nil {
		return nil, fmt.Errorf("loading colors: %w", err)
	}
	now := s.clock.Now()

	switch kind {
	case codec.KindPalette:
		palettes, err := s.library.ListPalettes()
		if err != nil {
			return nil, fmt.Errorf("loading palettes: %w", err)
		}
		preview.Palette, err = codec.PreviewPaletteImport(data, palettes, colors, now)
		if err != nil {
			return nil, err
		}
	default:
		preview.Color, err = codec.PreviewColorImport(data, colors, now)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Debug("import previewed", "kind", kind, "sealed", preview.Sealed)
	return preview, nil
}

// ApplyImport writes a preview to the library. A known color is skipped. A
// known palette gets only the new colors attached and keeps its own metadata;
// an unknown palette is created with the decoded metadata and only the new
// colors.
func (s *Service) ApplyImport(preview *ImportPreview) (*ImportResult, error) {
	result := &ImportResult{}

	switch {
	case preview.Color != nil:
		if preview.Color.WillSkip() {
			result.ColorsSkipped = 1
			s.logger.Info("import skipped, color exists", "id", preview.Color.Decoded.ID)
			return result, nil
		}
		color := preview.Color.Decoded
		if err := s.library.CreateColor(&color); err != nil {
			return nil, fmt.Errorf("importing color: %w", err)
		}
		result.ColorsCreated = 1

	case preview.Palette != nil:
		plan := preview.Palette.Plan()
		if err := s.library.ApplyPalettePlan(plan, s.clock.Now()); err != nil {
			return nil, fmt.Errorf("importing palette: %w", err)
		}
		result.ColorsCreated = len(plan.NewColors)
		result.ColorsSkipped = len(preview.Palette.ExistingColors)
		result.PaletteCreated = plan.Create != nil
		result.PaletteUpdated = plan.AttachTo != nil

	default:
		return nil, errors.New("import preview is empty")
	}

	s.logger.Info("import applied",
		"colors_created", result.ColorsCreated,
		"colors_skipped", result.ColorsSkipped,
		"palette_created", result.PaletteCreated,
		"palette_updated", result.PaletteUpdated)
	return result, nil
}

func (s *Service) unseal(data []byte, passphrase PassphraseFunc) ([]byte, error) {
	if !s.sealer.IsConfigured() {
		return nil, ErrSealingNotConfigured
	}
	if passphrase == nil {
		return nil, ErrPassphraseRequired
	}

	pass, err := passphrase()
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	unsealer, err := s.sealer.Unlock(pass)
	if err != nil {
		return nil, fmt.Errorf("unlocking private key: %w", err)
	}

	var buf bytes.Buffer
	if err := unsealer.Unseal(bytes.NewReader(data), &buf); err != nil {
		return nil, fmt.Errorf("opening sealed file: %w", err)
	}
	return buf.Bytes(), nil
}
