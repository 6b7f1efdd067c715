// Package ase encodes colors and palettes as Adobe Swatch Exchange files.
//
// File layout (all fields big-endian):
//
//	"ASEF" | version 1.0 | block count (u32) | blocks...
//
// Each block is a u16 type, a u32 body length, then the body. Names are
// length-prefixed UTF-16BE with a trailing null; the length counts the null.
package ase

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"opalite-go/internal/codec/bytebuf"
	"opalite-go/internal/codec/colorfmt"
	"opalite-go/internal/model"
)

const (
	signature    = "ASEF"
	versionMajor = 1
	versionMinor = 0

	blockColor      = 0x0001
	blockGroupStart = 0xC001
	blockGroupEnd   = 0xC002

	colorModelRGB   = "RGB "
	colorTypeGlobal = 0
)

// ErrNameTooLong is returned when a name does not fit the 16-bit length field.
var ErrNameTooLong = errors.New("ase name too long")

// EncodeColor returns a one-block swatch file for c. Alpha is dropped.
func EncodeColor(c model.ColorRecord) ([]byte, error) {
	w := bytebuf.NewWriter(64)
	writeHeader(w, 1)
	if err := writeColorBlock(w, c); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// EncodePalette returns a swatch file with the palette as one named group.
func EncodePalette(p model.PaletteRecord) ([]byte, error) {
	name := p.Name
	if strings.TrimSpace(name) == "" {
		name = "Untitled"
	}
	if uint64(len(p.Colors))+2 > math.MaxUint32 {
		return nil, fmt.Errorf("palette has too many colors: %d", len(p.Colors))
	}

	w := bytebuf.NewWriter(32 + 48*len(p.Colors))
	writeHeader(w, uint32(len(p.Colors)+2))

	body, err := nameBody(name)
	if err != nil {
		return nil, fmt.Errorf("palette %q: %w", name, err)
	}
	writeBlock(w, blockGroupStart, body.Bytes())

	for _, c := range p.Colors {
		if err := writeColorBlock(w, c); err != nil {
			return nil, err
		}
	}

	// The group end block never carries a body.
	writeBlock(w, blockGroupEnd, nil)
	return w.Bytes(), nil
}

func writeHeader(w *bytebuf.Writer, blocks uint32) {
	w.WriteString(signature)
	w.WriteU16BE(versionMajor)
	w.WriteU16BE(versionMinor)
	w.WriteU32BE(blocks)
}

func writeColorBlock(w *bytebuf.Writer, c model.ColorRecord) error {
	c = colorfmt.Clamped(c)
	name := colorfmt.NameOrHex(c)

	body, err := nameBody(name)
	if err != nil {
		return fmt.Errorf("color %s: %w", colorfmt.Hex(c), err)
	}
	body.WriteString(colorModelRGB)
	body.WriteF32BE(float32(c.Red))
	body.WriteF32BE(float32(c.Green))
	body.WriteF32BE(float32(c.Blue))
	body.WriteU16BE(colorTypeGlobal)

	writeBlock(w, blockColor, body.Bytes())
	return nil
}

// nameBody starts a block body with the length-prefixed, null-terminated name.
func nameBody(name string) (*bytebuf.Writer, error) {
	units := bytebuf.UTF16Len(name) + 1
	if units > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d code units", ErrNameTooLong, units)
	}
	body := bytebuf.NewWriter(2 + 2*units + 20)
	body.WriteU16BE(uint16(units))
	body.WriteUTF16BE(name)
	body.WriteU16BE(0)
	return body, nil
}

func writeBlock(w *bytebuf.Writer, blockType uint16, body []byte) {
	w.WriteU16BE(blockType)
	w.WriteU32BE(uint32(len(body)))
	w.WriteBytes(body)
}
