package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"opalite-go/internal/codec"
	"opalite-go/internal/config"
	"opalite-go/internal/encryption"
	"opalite-go/internal/library"
	"opalite-go/internal/model"
	"opalite-go/internal/opalite"
)

// ErrKeysExist is returned by SetupKeys when a key pair is already configured.
var ErrKeysExist = errors.New("sealing keys already exist")

// OpaliteApp is the application layer between the CLI and opalite.Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw strings from the command line, and records library-mutating
// commands in the operations table.
type OpaliteApp struct {
	cfg     *config.Config
	library *library.SQLiteLibrary
	sealer  opalite.Sealer
	service *opalite.Service
	op      *Operation
	logFile *os.File
}

// NewOpaliteApp creates a fully wired OpaliteApp from the given config.
// operation identifies the CLI command being run (e.g. "AddColor", "ApplyImport").
// The caller must call Close when done.
func NewOpaliteApp(cfg *config.Config, operation string) (*OpaliteApp, error) {
	lib, err := library.NewLibraryFromConfig(cfg.Library)
	if err != nil {
		return nil, fmt.Errorf("creating library: %w", err)
	}

	if err := lib.CheckMigrations(); err != nil {
		lib.Close()
		return nil, fmt.Errorf("library schema out of date: %w", err)
	}

	sealer, err := encryption.NewSealerFromConfig(cfg.Encryption)
	if err != nil {
		lib.Close()
		return nil, fmt.Errorf("creating sealer: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		lib.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	identity := opalite.Identity{AuthorName: cfg.AuthorName, DeviceName: cfg.DeviceName}
	svc := opalite.NewService(lib, sealer, &slogAdapter{l: logger.With("cmd", operation)},
		opalite.RealClock{}, opalite.UUIDGenerator{}, identity)

	return &OpaliteApp{
		cfg:     cfg,
		library: lib,
		sealer:  sealer,
		service: svc,
		op:      NewOperation(operation, ""),
		logFile: logFile,
	}, nil
}

// persistOperation saves the operation to the library, giving it an auto-increment ID.
// This should only be called for library-mutating commands.
func (a *OpaliteApp) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	rec, err := a.library.CreateOperation(a.op.Operation, a.op.Parameters, time.Now())
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = rec.ID
	return nil
}

// AddColor parses hex and stores a new color.
func (a *OpaliteApp) AddColor(name, hex, notes string) (*model.ColorRecord, error) {
	if err := a.persistOperation(hex); err != nil {
		return nil, err
	}
	c, err := a.service.AddColor(name, hex, notes)
	return c, a.op.Fail(err)
}

// CreatePalette stores a new empty palette.
func (a *OpaliteApp) CreatePalette(name, notes string, tags []string) (*model.PaletteRecord, error) {
	if err := a.persistOperation(name); err != nil {
		return nil, err
	}
	p, err := a.service.CreatePalette(name, notes, tags)
	return p, a.op.Fail(err)
}

// AddColorToPalette attaches a color to a palette, both given as id strings.
func (a *OpaliteApp) AddColorToPalette(rawPaletteID, rawColorID string) error {
	paletteID, err := parseID("palette", rawPaletteID)
	if err != nil {
		return err
	}
	colorID, err := parseID("color", rawColorID)
	if err != nil {
		return err
	}
	if err := a.persistOperation(rawPaletteID + " " + rawColorID); err != nil {
		return err
	}
	return a.op.Fail(a.service.AddColorToPalette(paletteID, colorID))
}

func (a *OpaliteApp) ListColors() ([]model.ColorRecord, error) {
	return a.service.ListColors()
}

func (a *OpaliteApp) ListPalettes() ([]model.PaletteRecord, error) {
	return a.service.ListPalettes()
}

// ExportColor encodes the color with the given id. An empty format falls back
// to the configured default when it can carry a color, then to native-color.
func (a *OpaliteApp) ExportColor(rawID, format string, seal bool) (*codec.Export, error) {
	id, err := parseID("color", rawID)
	if err != nil {
		return nil, err
	}
	return a.service.ExportColor(id, a.resolveFormat(format, codec.ScopeColor), seal)
}

// ExportPalette encodes the palette with the given id. An empty format falls
// back to the configured default when it can carry a palette, then to
// native-palette.
func (a *OpaliteApp) ExportPalette(rawID, format string, seal bool) (*codec.Export, error) {
	id, err := parseID("palette", rawID)
	if err != nil {
		return nil, err
	}
	return a.service.ExportPalette(id, a.resolveFormat(format, codec.ScopePalette), seal)
}

func (a *OpaliteApp) resolveFormat(format string, scope codec.Scope) codec.FormatID {
	if format != "" {
		return codec.FormatID(format)
	}
	if def := a.cfg.Export.DefaultFormat; def != "" {
		if f, err := codec.Lookup(codec.FormatID(def)); err == nil && f.Scope&scope != 0 {
			return f.ID
		}
	}
	if scope == codec.ScopePalette {
		return codec.FormatNativePalette
	}
	return codec.FormatNativeColor
}

// WriteExport writes exp to disk and returns the path written. out may be a
// file path or an existing directory; when empty the configured output_dir is
// used, then the working directory.
func (a *OpaliteApp) WriteExport(exp *codec.Export, out string) (string, error) {
	if out == "" {
		out = a.cfg.Export.OutputDir
	}
	if out == "" {
		out = "."
	}

	path := out
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		path = filepath.Join(out, exp.Filename)
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	if err := os.WriteFile(path, exp.Data, 0644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// PreviewImport reads a native (optionally sealed) document from path and
// classifies it against the library.
func (a *OpaliteApp) PreviewImport(path string, passphrase opalite.PassphraseFunc) (*opalite.ImportPreview, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	return a.service.PreviewImport(data, passphrase)
}

// ApplyImport writes a previewed import to the library.
func (a *OpaliteApp) ApplyImport(preview *opalite.ImportPreview, source string) (*opalite.ImportResult, error) {
	if err := a.persistOperation(source); err != nil {
		return nil, err
	}
	res, err := a.service.ApplyImport(preview)
	return res, a.op.Fail(err)
}

// Inspect reads path and describes its contents.
func (a *OpaliteApp) Inspect(path string) (*opalite.Inspection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return a.service.Inspect(data)
}

// History returns the most recent library-mutating operations.
func (a *OpaliteApp) History(limit int) ([]*library.Operation, error) {
	return a.library.ListOperations(limit)
}

// SetupKeys generates the sealing key pair. Existing keys are kept unless
// force is set.
func (a *OpaliteApp) SetupKeys(passphrase string, force bool) error {
	if a.sealer.IsConfigured() && !force {
		return ErrKeysExist
	}
	if strings.TrimSpace(passphrase) == "" {
		return fmt.Errorf("passphrase must not be empty")
	}
	if err := a.sealer.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up keys: %w", err)
	}
	return nil
}

// Close finalizes the operation record when one was persisted and closes the
// library and log file.
func (a *OpaliteApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.library.FinishOperation(a.op.ID, a.op.Status, time.Now()); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.library.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing library: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q: %w", kind, raw, err)
	}
	return id, nil
}
