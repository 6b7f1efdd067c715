package opalite

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"opalite-go/internal/codec"
	"opalite-go/internal/codec/archive"
	"opalite-go/internal/codec/procreate"
	"opalite-go/internal/model"
)

// Inspection describes a file without touching the library.
type Inspection struct {
	// Kind is one of "sealed", "ase", "archive", "native-color" or "native-palette".
	Kind string

	ASEBlocks uint32
	Entry     *archive.Entry
	Swatches  *procreate.Document
	Color     *model.ColorRecord
	Palette   *model.PaletteRecord
}

var aseSignature = []byte("ASEF")

// Inspect identifies data and decodes as much of it as it can.
func (s *Service) Inspect(data []byte) (*Inspection, error) {
	switch {
	case s.sealer != nil && s.sealer.IsSealed(data):
		return &Inspection{Kind: "sealed"}, nil

	case bytes.HasPrefix(data, aseSignature):
		if len(data) < 12 {
			return nil, fmt.Errorf("%w: truncated ase header", codec.ErrInvalidFormat)
		}
		return &Inspection{Kind: "ase", ASEBlocks: binary.BigEndian.Uint32(data[8:12])}, nil

	case bytes.HasPrefix(data, []byte("PK")):
		entry, err := archive.Read(data)
		if err != nil {
			return nil, fmt.Errorf("reading archive: %w", err)
		}
		in := &Inspection{Kind: "archive", Entry: entry}
		if entry.Name == procreate.MemberName {
			doc, err := procreate.Decode(data)
			if err != nil {
				return nil, fmt.Errorf("reading swatches: %w", err)
			}
			in.Swatches = doc
		}
		return in, nil
	}

	kind, err := codec.DetectKind(data)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if kind == codec.KindPalette {
		p, err := codec.PreviewPaletteImport(data, nil, nil, now)
		if err != nil {
			return nil, err
		}
		return &Inspection{Kind: string(codec.FormatNativePalette), Palette: &p.Decoded}, nil
	}
	c, err := codec.PreviewColorImport(data, nil, now)
	if err != nil {
		return nil, err
	}
	return &Inspection{Kind: string(codec.FormatNativeColor), Color: &c.Decoded}, nil
}
