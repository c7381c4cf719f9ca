// Package sqlite implements a game backend in a SQLite file.
package sqlite

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/jacobpatterson1549/tennis-scorer/db"
	gamedb "github.com/jacobpatterson1549/tennis-scorer/db/game"
	"github.com/jacobpatterson1549/tennis-scorer/db/sql"
	_ "modernc.org/sqlite" // register "sqlite" database driver from package init() function
)

//go:embed sql/*.sql
var schemaFS embed.FS

// GameBackend manages game records in a SQLite database.
type GameBackend struct {
	Database *sql.Database
}

const (
	driverName = "sqlite"
	dsnOptions = "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"

	recordCols  = "id, points_a, points_b, finished, winner, display, updated_at"
	filterWhere = " WHERE (? = 0 OR finished = 1) AND (? = '' OR (finished = 1 AND winner = ?))"
)

// Open creates a backend on the SQLite file, creating the file if it does not exist.
func Open(path string, cfg db.Config) (*GameBackend, error) {
	if len(strings.TrimSpace(path)) == 0 {
		return nil, fmt.Errorf("sqlite file path required")
	}
	dsn := filepath.Clean(path) + dsnOptions
	d, err := sql.Open(driverName, dsn, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite game database: %w", err)
	}
	d.DB.SetMaxOpenConns(1) // sqlite allows one writer
	b := GameBackend{
		Database: d,
	}
	return &b, nil
}

// Close closes the database file.
func (b GameBackend) Close() error {
	return b.Database.Close()
}

// Setup creates the games table if it does not exist.
func (b GameBackend) Setup(ctx context.Context) error {
	if err := b.Database.Ping(ctx); err != nil {
		return fmt.Errorf("pinging sqlite database: %w", err)
	}
	names, err := fs.Glob(schemaFS, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("finding schema files: %w", err)
	}
	files := make([]io.Reader, len(names))
	for i, n := range names {
		f, err := schemaFS.Open(n)
		if err != nil {
			return fmt.Errorf("opening schema file %v: %w", n, err)
		}
		defer f.Close()
		files[i] = f
	}
	if err := b.Database.Setup(ctx, files); err != nil {
		return fmt.Errorf("creating games table: %w", err)
	}
	return nil
}

// Save inserts the record or replaces the one with the same id.
func (b GameBackend) Save(ctx context.Context, r gamedb.Record) error {
	cmd := "INSERT INTO games (" + recordCols + ") VALUES (?, ?, ?, ?, ?, ?, ?)" +
		" ON CONFLICT(id) DO UPDATE SET points_a = excluded.points_a, points_b = excluded.points_b," +
		" finished = excluded.finished, winner = excluded.winner, display = excluded.display, updated_at = excluded.updated_at"
	q := sql.NewStatement(cmd, r.ID, r.PointsA, r.PointsB, r.Finished, r.Winner, r.Display, toMillis(r.UpdatedAt))
	if err := b.Database.Exec(ctx, q); err != nil {
		return fmt.Errorf("saving game record: %w", err)
	}
	return nil
}

// Read gets the record with the id.
func (b GameBackend) Read(ctx context.Context, id string) (*gamedb.Record, error) {
	q := sql.NewStatement("SELECT "+recordCols+" FROM games WHERE id = ?", id)
	var r gamedb.Record
	var updatedAt int64
	if err := b.Database.Query(ctx, q, recordDest(&r, &updatedAt)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gamedb.ErrNotFound
		}
		return nil, fmt.Errorf("querying game record: %w", err)
	}
	r.UpdatedAt = fromMillis(updatedAt)
	return &r, nil
}

// List gets the records that match the filter, most recently updated first.
func (b GameBackend) List(ctx context.Context, f gamedb.Filter) ([]gamedb.Record, error) {
	cmd := "SELECT " + recordCols + " FROM games" + filterWhere + " ORDER BY updated_at DESC, id"
	q := sql.NewStatement(cmd, filterArgs(f)...)
	var records []gamedb.Record
	scanFunc := func(s sql.Scanner) error {
		var r gamedb.Record
		var updatedAt int64
		if err := s.Scan(recordDest(&r, &updatedAt)...); err != nil {
			return err
		}
		r.UpdatedAt = fromMillis(updatedAt)
		records = append(records, r)
		return nil
	}
	if err := b.Database.QueryRows(ctx, q, scanFunc); err != nil {
		return nil, fmt.Errorf("listing game records: %w", err)
	}
	return records, nil
}

// Count gets the number of records that match the filter.
func (b GameBackend) Count(ctx context.Context, f gamedb.Filter) (int, error) {
	q := sql.NewStatement("SELECT COUNT(*) FROM games"+filterWhere, filterArgs(f)...)
	var n int
	if err := b.Database.Query(ctx, q, &n); err != nil {
		return 0, fmt.Errorf("counting game records: %w", err)
	}
	return n, nil
}

// filterArgs are the placeholder values of the filterWhere clause.
func filterArgs(f gamedb.Filter) []interface{} {
	return []interface{}{f.Finished, f.Winner, f.Winner}
}

// recordDest creates the scan destinations for the record columns.
// The time is stored as unix milliseconds.
func recordDest(r *gamedb.Record, updatedAt *int64) []interface{} {
	return []interface{}{
		&r.ID,
		&r.PointsA,
		&r.PointsB,
		&r.Finished,
		&r.Winner,
		&r.Display,
		updatedAt,
	}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
