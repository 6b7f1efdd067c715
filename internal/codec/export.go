package codec

import (
	"fmt"
	"time"

	"opalite-go/internal/model"
)

// Export is an encoded record ready to be written or shared.
type Export struct {
	Format   *Format
	Filename string
	Data     []byte
}

// ExportOptions tunes an export. Modified stamps container formats that
// carry a timestamp; the zero value encodes as 1980-01-01.
type ExportOptions struct {
	Modified time.Time
}

// ExportColor encodes c in the given format.
func ExportColor(c model.ColorRecord, id FormatID, opts ExportOptions) (*Export, error) {
	f, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	if f.encodeColor == nil {
		return nil, &ExportError{Format: id, Err: fmt.Errorf("%w: color", ErrUnsupportedRecord)}
	}

	data, err := f.encodeColor(c, opts.Modified)
	if err != nil {
		return nil, &ExportError{Format: id, Err: err}
	}
	return &Export{Format: f, Filename: ColorFilename(c) + f.Extension, Data: data}, nil
}

// ExportPalette encodes p in the given format.
func ExportPalette(p model.PaletteRecord, id FormatID, opts ExportOptions) (*Export, error) {
	f, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	if f.encodePalette == nil {
		return nil, &ExportError{Format: id, Err: fmt.Errorf("%w: palette", ErrUnsupportedRecord)}
	}

	data, err := f.encodePalette(p, opts.Modified)
	if err != nil {
		return nil, &ExportError{Format: id, Err: err}
	}
	return &Export{Format: f, Filename: PaletteFilename(p) + f.Extension, Data: data}, nil
}
