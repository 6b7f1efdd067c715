// Package library stores colors and palettes in SQLite.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"opalite-go/internal/codec/reconcile"
	"opalite-go/internal/library/migrations"
	"opalite-go/internal/model"
	"opalite-go/internal/opalite"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteLibrary implements opalite.Library using SQLite.
type SQLiteLibrary struct {
	db   *sql.DB
	path string
}

var _ opalite.Library = (*SQLiteLibrary)(nil)

// NewSQLiteLibrary opens the library at path, or an in-memory one for
// ":memory:", and migrates it to the latest schema.
func NewSQLiteLibrary(path string) (*SQLiteLibrary, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating library: %w", err)
	}
	return &SQLiteLibrary{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection. Foreign keys are
// enabled through the DSN so every pooled connection gets them.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each connection to ":memory:" is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Path returns the database file path, or ":memory:".
func (s *SQLiteLibrary) Path() string { return s.path }

// CheckMigrations verifies the schema is at the version this binary expects.
func (s *SQLiteLibrary) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteLibrary) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Color operations

const colorColumns = `id, name, notes, red, green, blue, alpha, created_at, updated_at,
	author_name, author_device, updater_device`

func (s *SQLiteLibrary) CreateColor(color *model.ColorRecord) error {
	if err := insertColor(context.Background(), s.db, color, false); err != nil {
		return fmt.Errorf("creating color: %w", err)
	}
	return nil
}

func (s *SQLiteLibrary) FindColor(id uuid.UUID) (*model.ColorRecord, error) {
	row := s.db.QueryRowContext(context.Background(),
		`SELECT `+colorColumns+` FROM colors WHERE id = ?`, id.String())
	color, err := scanColor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding color: %w", err)
	}
	return color, nil
}

func (s *SQLiteLibrary) ListColors() ([]model.ColorRecord, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT `+colorColumns+` FROM colors ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing colors: %w", err)
	}
	defer rows.Close()

	var colors []model.ColorRecord
	for rows.Next() {
		color, err := scanColor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning color: %w", err)
		}
		colors = append(colors, *color)
	}
	return colors, rows.Err()
}

func insertColor(ctx context.Context, q execer, c *model.ColorRecord, ignoreExisting bool) error {
	verb := "INSERT"
	if ignoreExisting {
		verb = "INSERT OR IGNORE"
	}
	_, err := q.ExecContext(ctx, verb+` INTO colors (`+colorColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.Name, c.Notes, c.Red, c.Green, c.Blue, c.Alpha,
		c.CreatedAt.UTC(), c.UpdatedAt.UTC(), c.AuthorName, c.AuthorDevice, c.UpdaterDevice)
	return err
}

func scanColor(row rowScanner) (*model.ColorRecord, error) {
	var c model.ColorRecord
	err := row.Scan(&c.ID, &c.Name, &c.Notes, &c.Red, &c.Green, &c.Blue, &c.Alpha,
		&c.CreatedAt, &c.UpdatedAt, &c.AuthorName, &c.AuthorDevice, &c.UpdaterDevice)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Palette operations

const paletteColumns = `id, name, notes, tags, is_pinned, preview_background, created_at, updated_at,
	author_name, author_device, updater_device`

func (s *SQLiteLibrary) CreatePalette(palette *model.PaletteRecord) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertPalette(ctx, tx, palette); err != nil {
		return fmt.Errorf("creating palette: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteLibrary) FindPalette(id uuid.UUID) (*model.PaletteRecord, error) {
	ctx := context.Background()

	row := s.db.QueryRowContext(ctx, `SELECT `+paletteColumns+` FROM palettes WHERE id = ?`, id.String())
	palette, err := scanPalette(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding palette: %w", err)
	}

	if palette.Colors, err = s.paletteColors(ctx, palette.ID); err != nil {
		return nil, err
	}
	return palette, nil
}

func (s *SQLiteLibrary) ListPalettes() ([]model.PaletteRecord, error) {
	ctx := context.Background()

	rows, err := s.db.QueryContext(ctx, `SELECT `+paletteColumns+` FROM palettes ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing palettes: %w", err)
	}

	var palettes []model.PaletteRecord
	for rows.Next() {
		palette, err := scanPalette(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning palette: %w", err)
		}
		palettes = append(palettes, *palette)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("listing palettes: %w", err)
	}
	// Release the connection before loading colors; in-memory libraries have only one.
	rows.Close()

	for i := range palettes {
		if palettes[i].Colors, err = s.paletteColors(ctx, palettes[i].ID); err != nil {
			return nil, err
		}
	}
	return palettes, nil
}

func (s *SQLiteLibrary) AttachColors(paletteID uuid.UUID, colorIDs []uuid.UUID, at time.Time) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := attachColors(ctx, tx, paletteID, colorIDs, at); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteLibrary) ApplyPalettePlan(plan reconcile.PalettePlan, at time.Time) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// A color may have been added since the preview was built.
	for i := range plan.NewColors {
		if err := insertColor(ctx, tx, &plan.NewColors[i], true); err != nil {
			return fmt.Errorf("creating color %s: %w", plan.NewColors[i].ID, err)
		}
	}

	switch {
	case plan.AttachTo != nil:
		ids := make([]uuid.UUID, len(plan.NewColors))
		for i, c := range plan.NewColors {
			ids[i] = c.ID
		}
		if err := attachColors(ctx, tx, *plan.AttachTo, ids, at); err != nil {
			return err
		}
	case plan.Create != nil:
		if err := insertPalette(ctx, tx, plan.Create); err != nil {
			return fmt.Errorf("creating palette: %w", err)
		}
	default:
		return errors.New("palette plan has neither a target nor a palette to create")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertPalette(ctx context.Context, q execer, p *model.PaletteRecord) error {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	encodedTags, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	_, err = q.ExecContext(ctx, `INSERT INTO palettes (`+paletteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.Name, p.Notes, string(encodedTags), p.IsPinned, p.PreviewBackground,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC(), p.AuthorName, p.AuthorDevice, p.UpdaterDevice)
	if err != nil {
		return err
	}

	for i, c := range p.Colors {
		_, err := q.ExecContext(ctx,
			`INSERT INTO palette_colors (palette_id, color_id, position) VALUES (?, ?, ?)`,
			p.ID.String(), c.ID.String(), i)
		if err != nil {
			return fmt.Errorf("adding color %s: %w", c.ID, err)
		}
	}
	return nil
}

func attachColors(ctx context.Context, q execer, paletteID uuid.UUID, colorIDs []uuid.UUID, at time.Time) error {
	res, err := q.ExecContext(ctx, `UPDATE palettes SET updated_at = ? WHERE id = ?`, at.UTC(), paletteID.String())
	if err != nil {
		return fmt.Errorf("touching palette: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("touching palette: %w", err)
	} else if n == 0 {
		return fmt.Errorf("palette %s does not exist", paletteID)
	}

	var next int64
	err = q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM palette_colors WHERE palette_id = ?`,
		paletteID.String()).Scan(&next)
	if err != nil {
		return fmt.Errorf("finding next position: %w", err)
	}

	for _, id := range colorIDs {
		res, err := q.ExecContext(ctx,
			`INSERT OR IGNORE INTO palette_colors (palette_id, color_id, position) VALUES (?, ?, ?)`,
			paletteID.String(), id.String(), next)
		if err != nil {
			return fmt.Errorf("attaching color %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			next++
		}
	}
	return nil
}

func (s *SQLiteLibrary) paletteColors(ctx context.Context, paletteID uuid.UUID) ([]model.ColorRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+prefixed("c.", colorColumns)+`
		FROM palette_colors pc JOIN colors c ON c.id = pc.color_id
		WHERE pc.palette_id = ? ORDER BY pc.position`, paletteID.String())
	if err != nil {
		return nil, fmt.Errorf("loading palette colors: %w", err)
	}
	defer rows.Close()

	var colors []model.ColorRecord
	for rows.Next() {
		color, err := scanColor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning palette color: %w", err)
		}
		colors = append(colors, *color)
	}
	return colors, rows.Err()
}

func scanPalette(row rowScanner) (*model.PaletteRecord, error) {
	var p model.PaletteRecord
	var tags string
	err := row.Scan(&p.ID, &p.Name, &p.Notes, &tags, &p.IsPinned, &p.PreviewBackground,
		&p.CreatedAt, &p.UpdatedAt, &p.AuthorName, &p.AuthorDevice, &p.UpdaterDevice)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags of palette %s: %w", p.ID, err)
	}
	return &p, nil
}

// prefixed qualifies every column in a comma-separated list with prefix.
func prefixed(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = prefix + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
