package native

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"opalite-go/internal/codec/colorfmt"
	"opalite-go/internal/model"
)

// Kind identifies which record a native document holds.
type Kind int

const (
	KindColor Kind = iota + 1
	KindPalette
)

func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindPalette:
		return "palette"
	default:
		return "unknown"
	}
}

// EncodeColor returns the indented JSON document for c.
func EncodeColor(c model.ColorRecord) ([]byte, error) {
	return json.MarshalIndent(NewColorDocument(c), "", "  ")
}

// EncodePalette returns the indented JSON document for p and its colors.
func EncodePalette(p model.PaletteRecord) ([]byte, error) {
	return json.MarshalIndent(NewPaletteDocument(p), "", "  ")
}

// NewColorDocument builds the document for c. Channels are clamped, and a
// missing updater device is written as UnknownDevice.
func NewColorDocument(c model.ColorRecord) ColorDocument {
	c = colorfmt.Clamped(c)
	updater := c.UpdaterDevice
	if updater == "" {
		updater = UnknownDevice
	}
	return ColorDocument{
		ID:                   c.ID.String(),
		Name:                 stringPtr(c.Name),
		Notes:                stringPtr(c.Notes),
		Hex:                  colorfmt.Hex(c),
		HexWithAlpha:         colorfmt.HexWithAlpha(c),
		RGB:                  colorfmt.RGB(c),
		RGBA:                 colorfmt.RGBA(c),
		HSL:                  colorfmt.HSL(c),
		Red:                  c.Red,
		Green:                c.Green,
		Blue:                 c.Blue,
		Alpha:                c.Alpha,
		CreatedAt:            epochSeconds(c.CreatedAt),
		UpdatedAt:            epochSeconds(c.UpdatedAt),
		CreatedOnDeviceName:  stringPtr(c.AuthorDevice),
		CreatedByDisplayName: stringPtr(c.AuthorName),
		UpdatedOnDeviceName:  updater,
	}
}

// NewPaletteDocument builds the document for p with every color embedded.
func NewPaletteDocument(p model.PaletteRecord) PaletteDocument {
	updater := p.UpdaterDevice
	if updater == "" {
		updater = UnknownDevice
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	colors := make([]ColorDocument, len(p.Colors))
	for i, c := range p.Colors {
		colors[i] = NewColorDocument(c)
	}
	return PaletteDocument{
		ID:                   p.ID.String(),
		Name:                 p.Name,
		Notes:                stringPtr(p.Notes),
		Tags:                 tags,
		IsPinned:             p.IsPinned,
		PreviewBackground:    stringPtr(p.PreviewBackground),
		CreatedAt:            epochSeconds(p.CreatedAt),
		UpdatedAt:            epochSeconds(p.UpdatedAt),
		CreatedOnDeviceName:  stringPtr(p.AuthorDevice),
		CreatedByDisplayName: stringPtr(p.AuthorName),
		UpdatedOnDeviceName:  updater,
		Colors:               colors,
	}
}

// Sniff reports whether data holds a color or a palette document. Palette
// documents are recognized by their "colors" member.
func Sniff(data []byte) (Kind, error) {
	var members map[string]json.RawMessage
	if err := parseObject(data, &members); err != nil {
		return 0, err
	}
	if _, ok := members["colors"]; ok {
		return KindPalette, nil
	}
	return KindColor, nil
}

// DecodeColor decodes a color document. id, red, green and blue are required;
// alpha defaults to 1 and missing timestamps to now.
func DecodeColor(data []byte, now time.Time) (*model.ColorRecord, error) {
	var in colorInput
	if err := parseObject(data, &in); err != nil {
		return nil, err
	}
	return in.record(now)
}

// DecodePalette decodes a palette document. id and a non-empty name are
// required; every embedded color must decode or the whole palette fails.
// When two embedded colors share an id the later one wins, keeping the
// position of the first.
func DecodePalette(data []byte, now time.Time) (*model.PaletteRecord, error) {
	var in paletteInput
	if err := parseObject(data, &in); err != nil {
		return nil, err
	}

	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	if !in.Name.valid || in.Name.value == "" {
		return nil, fmt.Errorf("%w: palette name", ErrMissingRequiredFields)
	}
	name := in.Name.value
	if strings.TrimSpace(name) == "" {
		name = "Untitled"
	}

	p := &model.PaletteRecord{
		ID:                id,
		Name:              name,
		Notes:             in.Notes.value,
		Tags:              []string(in.Tags),
		IsPinned:          in.IsPinned.value,
		PreviewBackground: in.PreviewBackground.value,
		CreatedAt:         timeFromEpoch(in.CreatedAt, now),
		UpdatedAt:         timeFromEpoch(in.UpdatedAt, now),
		AuthorName:        in.CreatedByDisplayName.value,
		AuthorDevice:      in.CreatedOnDeviceName.value,
		UpdaterDevice:     in.UpdatedOnDeviceName.value,
	}

	seen := make(map[uuid.UUID]int, len(in.Colors))
	for i, raw := range in.Colors {
		var ci colorInput
		if err := parseObject(raw, &ci); err != nil {
			if errors.Is(err, ErrInvalidFormat) {
				return nil, fmt.Errorf("%w: color %d is not an object", ErrMissingRequiredFields, i)
			}
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		c, err := ci.record(now)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		if at, dup := seen[c.ID]; dup {
			p.Colors[at] = *c
			continue
		}
		seen[c.ID] = len(p.Colors)
		p.Colors = append(p.Colors, *c)
	}
	return p, nil
}

func (in *colorInput) record(now time.Time) (*model.ColorRecord, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	if !in.Red.valid || !in.Green.valid || !in.Blue.valid {
		return nil, fmt.Errorf("%w: color channels", ErrMissingRequiredFields)
	}
	alpha := 1.0
	if in.Alpha.valid {
		alpha = in.Alpha.value
	}

	return &model.ColorRecord{
		ID:            id,
		Name:          in.Name.value,
		Notes:         in.Notes.value,
		Red:           colorfmt.Clamp(in.Red.value),
		Green:         colorfmt.Clamp(in.Green.value),
		Blue:          colorfmt.Clamp(in.Blue.value),
		Alpha:         colorfmt.Clamp(alpha),
		CreatedAt:     timeFromEpoch(in.CreatedAt, now),
		UpdatedAt:     timeFromEpoch(in.UpdatedAt, now),
		AuthorName:    in.CreatedByDisplayName.value,
		AuthorDevice:  in.CreatedOnDeviceName.value,
		UpdaterDevice: in.UpdatedOnDeviceName.value,
	}, nil
}

func parseID(s optString) (uuid.UUID, error) {
	if !s.valid {
		return uuid.Nil, fmt.Errorf("%w: id", ErrMissingRequiredFields)
	}
	id, err := uuid.Parse(s.value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: id %q is not a valid identifier", ErrMissingRequiredFields, s.value)
	}
	return id, nil
}

// parseObject rejects anything that is not a single JSON object before
// decoding it into v.
func parseObject(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return ErrInvalidFormat
	}
	return json.Unmarshal(trimmed, v)
}
