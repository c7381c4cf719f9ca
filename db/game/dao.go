package game

import (
	"context"
	"fmt"
	"time"

	"github.com/jacobpatterson1549/tennis-scorer/game"
)

type (
	// Dao contains the operations to store and query game states.
	Dao struct {
		backend  Backend
		timeFunc func() time.Time
	}

	// Backend is the storage of game records.
	Backend interface {
		// Setup initializes the storage, such as by creating tables or indexes.
		Setup(ctx context.Context) error
		// Save creates or replaces the record with the same ID.
		Save(ctx context.Context, r Record) error
		// Read gets the record with the ID, returning ErrNotFound if it does not exist.
		Read(ctx context.Context, id string) (*Record, error)
		// List gets all the records that match the filter, most recently updated first.
		List(ctx context.Context, f Filter) ([]Record, error)
		// Count gets the number of records that match the filter.
		Count(ctx context.Context, f Filter) (int, error)
	}
)

// NewDao creates a Dao on the backend.
func NewDao(backend Backend, timeFunc func() time.Time) (*Dao, error) {
	if err := validate(backend, timeFunc); err != nil {
		return nil, fmt.Errorf("creating game dao: validation: %w", err)
	}
	d := Dao{
		backend:  backend,
		timeFunc: timeFunc,
	}
	return &d, nil
}

// validate checks fields to set up the dao.
func validate(backend Backend, timeFunc func() time.Time) error {
	switch {
	case backend == nil:
		return fmt.Errorf("backend required")
	case timeFunc == nil:
		return fmt.Errorf("time func required")
	}
	return nil
}

// Setup initializes the backend.
func (d Dao) Setup(ctx context.Context) error {
	if err := d.backend.Setup(ctx); err != nil {
		return fmt.Errorf("setting up game backend: %w", err)
	}
	return nil
}

// Save stores the state, replacing any previous state of the game.
func (d Dao) Save(ctx context.Context, s game.State) error {
	if len(s.GameID) == 0 {
		return fmt.Errorf("saving game: game id required")
	}
	r := NewRecord(s, d.timeFunc())
	if err := d.backend.Save(ctx, r); err != nil {
		return fmt.Errorf("saving game %v: %w", s.GameID, err)
	}
	return nil
}

// Read gets the last saved state of the game.
func (d Dao) Read(ctx context.Context, id string) (*game.State, error) {
	r, err := d.backend.Read(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading game %v: %w", id, err)
	}
	s := r.State()
	return &s, nil
}

// List gets the states of all saved games.
func (d Dao) List(ctx context.Context) ([]game.State, error) {
	return d.list(ctx, Filter{})
}

// ListFinished gets the states of all saved games that have a winner.
func (d Dao) ListFinished(ctx context.Context) ([]game.State, error) {
	return d.list(ctx, Filter{Finished: true})
}

// CountTotal gets the number of saved games.
func (d Dao) CountTotal(ctx context.Context) (int, error) {
	return d.count(ctx, Filter{})
}

// CountFinished gets the number of saved games that have a winner.
func (d Dao) CountFinished(ctx context.Context) (int, error) {
	return d.count(ctx, Filter{Finished: true})
}

// CountByWinner gets the number of saved games won by the side.
func (d Dao) CountByWinner(ctx context.Context, side game.Side) (int, error) {
	f := Filter{
		Finished: true,
		Winner:   side.String(),
	}
	return d.count(ctx, f)
}

func (d Dao) list(ctx context.Context, f Filter) ([]game.State, error) {
	records, err := d.backend.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	states := make([]game.State, len(records))
	for i, r := range records {
		states[i] = r.State()
	}
	return states, nil
}

func (d Dao) count(ctx context.Context, f Filter) (int, error) {
	n, err := d.backend.Count(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("counting games: %w", err)
	}
	return n, nil
}
