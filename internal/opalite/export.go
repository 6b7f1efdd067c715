package opalite

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"opalite-go/internal/codec"
)

// ErrSealingNotConfigured is returned when a sealed export or import is
// requested without a configured key pair.
var ErrSealingNotConfigured = errors.New("sealing keys are not configured (run `opalite keys init`)")

// ExportColor encodes a library color. When seal is true the encoded bytes
// are wrapped in an envelope and the sealer's extension is appended to the
// filename.
func (s *Service) ExportColor(id uuid.UUID, format codec.FormatID, seal bool) (*codec.Export, error) {
	color, err := s.findColor(id)
	if err != nil {
		return nil, err
	}

	exp, err := codec.ExportColor(*color, format, codec.ExportOptions{Modified: s.clock.Now()})
	if err != nil {
		return nil, err
	}
	if seal {
		if err := s.seal(exp); err != nil {
			return nil, err
		}
	}

	s.logger.Info("color exported", "id", id, "format", format, "sealed", seal, "bytes", len(exp.Data))
	return exp, nil
}

// ExportPalette encodes a library palette with its colors.
func (s *Service) ExportPalette(id uuid.UUID, format codec.FormatID, seal bool) (*codec.Export, error) {
	palette, err := s.findPalette(id)
	if err != nil {
		return nil, err
	}

	exp, err := codec.ExportPalette(*palette, format, codec.ExportOptions{Modified: s.clock.Now()})
	if err != nil {
		return nil, err
	}
	if seal {
		if err := s.seal(exp); err != nil {
			return nil, err
		}
	}

	s.logger.Info("palette exported", "id", id, "format", format, "sealed", seal, "colors", len(palette.Colors))
	return exp, nil
}

func (s *Service) seal(exp *codec.Export) error {
	if s.sealer == nil || !s.sealer.IsConfigured() {
		return ErrSealingNotConfigured
	}

	var buf bytes.Buffer
	if err := s.sealer.Seal(bytes.NewReader(exp.Data), &buf); err != nil {
		return fmt.Errorf("sealing export: %w", err)
	}
	exp.Data = buf.Bytes()
	exp.Filename += s.sealer.Extension()
	return nil
}
