package opalite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"opalite-go/internal/codec/colorfmt"
	"opalite-go/internal/model"
)

var (
	ErrColorNotFound   = errors.New("color not found")
	ErrPaletteNotFound = errors.New("palette not found")
	ErrNameRequired    = errors.New("name is required")
)

// Identity is the provenance stamped on records created on this device.
type Identity struct {
	AuthorName string
	DeviceName string
}

// Service coordinates the record library, the codec and the sealer for the CLI.
type Service struct {
	library  Library
	sealer   Sealer
	logger   Logger
	clock    Clock
	idgen    IDGenerator
	identity Identity
}

// NewService creates a Service. sealer may be nil, in which case sealed
// exports and imports are refused.
func NewService(library Library, sealer Sealer, logger Logger, clock Clock, idgen IDGenerator, identity Identity) *Service {
	return &Service{
		library:  library,
		sealer:   sealer,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
		identity: identity,
	}
}

// AddColor creates a color from a hex code (#RGB, #RRGGBB or #RRGGBBAA).
func (s *Service) AddColor(name, hex, notes string) (*model.ColorRecord, error) {
	r, g, b, a, err := colorfmt.ParseHex(hex)
	if err != nil {
		return nil, fmt.Errorf("parsing color: %w", err)
	}

	now := s.clock.Now()
	color := &model.ColorRecord{
		ID:            s.idgen.New(),
		Name:          strings.TrimSpace(name),
		Notes:         notes,
		Red:           r,
		Green:         g,
		Blue:          b,
		Alpha:         a,
		CreatedAt:     now,
		UpdatedAt:     now,
		AuthorName:    s.identity.AuthorName,
		AuthorDevice:  s.identity.DeviceName,
		UpdaterDevice: s.identity.DeviceName,
	}
	if err := s.library.CreateColor(color); err != nil {
		return nil, fmt.Errorf("creating color: %w", err)
	}

	s.logger.Info("color added", "id", color.ID, "hex", colorfmt.Hex(*color))
	return color, nil
}

// CreatePalette creates an empty palette.
func (s *Service) CreatePalette(name, notes string, tags []string) (*model.PaletteRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("creating palette: %w", ErrNameRequired)
	}

	now := s.clock.Now()
	palette := &model.PaletteRecord{
		ID:            s.idgen.New(),
		Name:          name,
		Notes:         notes,
		Tags:          append([]string{}, tags...),
		CreatedAt:     now,
		UpdatedAt:     now,
		AuthorName:    s.identity.AuthorName,
		AuthorDevice:  s.identity.DeviceName,
		UpdaterDevice: s.identity.DeviceName,
	}
	if err := s.library.CreatePalette(palette); err != nil {
		return nil, fmt.Errorf("creating palette: %w", err)
	}

	s.logger.Info("palette created", "id", palette.ID, "name", palette.Name)
	return palette, nil
}

// AddColorToPalette appends an existing color to an existing palette.
// Adding a color that is already in the palette is a no-op.
func (s *Service) AddColorToPalette(paletteID, colorID uuid.UUID) error {
	palette, err := s.findPalette(paletteID)
	if err != nil {
		return err
	}
	if _, err := s.findColor(colorID); err != nil {
		return err
	}

	if err := s.library.AttachColors(palette.ID, []uuid.UUID{colorID}, s.clock.Now()); err != nil {
		return fmt.Errorf("attaching color: %w", err)
	}

	s.logger.Debug("color attached", "palette", paletteID, "color", colorID)
	return nil
}

// ListColors returns every color in the library.
func (s *Service) ListColors() ([]model.ColorRecord, error) {
	colors, err := s.library.ListColors()
	if err != nil {
		return nil, fmt.Errorf("listing colors: %w", err)
	}
	return colors, nil
}

// ListPalettes returns every palette in the library with its colors.
func (s *Service) ListPalettes() ([]model.PaletteRecord, error) {
	palettes, err := s.library.ListPalettes()
	if err != nil {
		return nil, fmt.Errorf("listing palettes: %w", err)
	}
	return palettes, nil
}

func (s *Service) findColor(id uuid.UUID) (*model.ColorRecord, error) {
	color, err := s.library.FindColor(id)
	if err != nil {
		return nil, fmt.Errorf("finding color: %w", err)
	}
	if color == nil {
		return nil, fmt.Errorf("%w: %s", ErrColorNotFound, id)
	}
	return color, nil
}

func (s *Service) findPalette(id uuid.UUID) (*model.PaletteRecord, error) {
	palette, err := s.library.FindPalette(id)
	if err != nil {
		return nil, fmt.Errorf("finding palette: %w", err)
	}
	if palette == nil {
		return nil, fmt.Errorf("%w: %s", ErrPaletteNotFound, id)
	}
	return palette, nil
}
