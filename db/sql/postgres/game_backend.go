// Package postgres implements a game backend for Postgres servers using stored functions.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"

	gamedb "github.com/jacobpatterson1549/tennis-scorer/db/game"
	"github.com/jacobpatterson1549/tennis-scorer/db/sql"
)

//go:embed sql/*.sql
var setupFS embed.FS

type (
	// GameBackend manages game records on a Postgres SQL Database.
	GameBackend struct {
		Database
		// SetupFS contains the sql files that create the games table and its functions.  The embedded files are used if nil.
		SetupFS fs.FS
	}

	// Database contains methods to create, read, update, and delete data.
	Database interface {
		// Setup initializes the database by reading the files.
		Setup(ctx context.Context, files []io.Reader) error
		// Query reads a single row from the database without updating it.
		Query(ctx context.Context, q sql.Query, dest ...interface{}) error
		// QueryRows reads many rows from the database without updating it.
		QueryRows(ctx context.Context, q sql.Query, scanFunc func(s sql.Scanner) error) error
		// Exec makes a change to existing data, creating/modifying/removing it.
		Exec(ctx context.Context, queries ...sql.Query) error
	}
)

// recordCols are the columns of the games table, in the order they are scanned.
var recordCols = []string{
	"id",
	"points_a",
	"points_b",
	"finished",
	"winner",
	"display",
	"updated_at",
}

// Setup runs the sql setup files in name order.
func (b GameBackend) Setup(ctx context.Context) error {
	fsys := b.SetupFS
	if fsys == nil {
		sub, err := fs.Sub(setupFS, "sql")
		if err != nil {
			return fmt.Errorf("reading embedded setup files: %w", err)
		}
		fsys = sub
	}
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("finding setup files: %w", err)
	}
	sort.Strings(names)
	files := make([]io.Reader, len(names))
	for i, n := range names {
		f, err := fsys.Open(n)
		if err != nil {
			return fmt.Errorf("opening setup file %v: %w", n, err)
		}
		defer f.Close()
		files[i] = f
	}
	if err := b.Database.Setup(ctx, files); err != nil {
		return fmt.Errorf("setting up games: %w", err)
	}
	return nil
}

// Save creates or replaces the record.
func (b GameBackend) Save(ctx context.Context, r gamedb.Record) error {
	q := sql.NewExecFunction("game_save", r.ID, r.PointsA, r.PointsB, r.Finished, r.Winner, r.Display, r.UpdatedAt)
	if err := b.Database.Exec(ctx, q); err != nil {
		return fmt.Errorf("saving game record: %w", err)
	}
	return nil
}

// Read gets the record with the id.
func (b GameBackend) Read(ctx context.Context, id string) (*gamedb.Record, error) {
	q := sql.NewQueryFunction("game_read", recordCols, id)
	var r gamedb.Record
	if err := b.Database.Query(ctx, q, recordDest(&r)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gamedb.ErrNotFound
		}
		return nil, fmt.Errorf("querying game record: %w", err)
	}
	return &r, nil
}

// List gets the records that match the filter.
func (b GameBackend) List(ctx context.Context, f gamedb.Filter) ([]gamedb.Record, error) {
	q := sql.NewQueryFunction("game_list", recordCols, f.Finished, f.Winner)
	var records []gamedb.Record
	scanFunc := func(s sql.Scanner) error {
		var r gamedb.Record
		if err := s.Scan(recordDest(&r)...); err != nil {
			return err
		}
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
	q := sql.NewQueryFunction("game_count", []string{"total"}, f.Finished, f.Winner)
	var n int
	if err := b.Database.Query(ctx, q, &n); err != nil {
		return 0, fmt.Errorf("counting game records: %w", err)
	}
	return n, nil
}

// recordDest creates the scan destinations for the record columns.
func recordDest(r *gamedb.Record) []interface{} {
	return []interface{}{
		&r.ID,
		&r.PointsA,
		&r.PointsB,
		&r.Finished,
		&r.Winner,
		&r.Display,
		&r.UpdatedAt,
	}
}
