// Package firestore use a google cloud firestore database to store games.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/jacobpatterson1549/tennis-scorer/db"
	gamedb "github.com/jacobpatterson1549/tennis-scorer/db/game"
)

const (
	finishedField = "finished"
	winnerField   = "winner"
	countAlias    = "total"
)

// GameBackend is a backend manager for a games collection.
type GameBackend struct {
	client *firestore.Client
	db.Config
}

// NewGameBackend creates a backend manager for games.
func NewGameBackend(ctx context.Context, cfg db.Config, projectID string) (*GameBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating firestore game backend: validation: %w", err)
	}
	client, err := firestore.NewClient(ctx, projectID) // do not timeout context - the client is used by the backend
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	b := GameBackend{
		client: client,
		Config: cfg,
	}
	return &b, nil
}

func (b *GameBackend) gamesCollection() *firestore.CollectionRef {
	return b.client.Collection("services").Doc("tennis-scorer").Collection("games")
}

// Close closes the client.
func (b *GameBackend) Close() error {
	return b.client.Close()
}

// Setup does nothing: collections are created when the first document is written.
func (*GameBackend) Setup(ctx context.Context) error {
	return nil
}

// Save sets the document of the game, creating it if it does not exist.
func (b *GameBackend) Save(ctx context.Context, r gamedb.Record) error {
	if err := b.WithTimeout(ctx, func(ctx context.Context) error {
		docRef := b.gamesCollection().Doc(r.ID)
		_, err := docRef.Set(ctx, r)
		return err
	}); err != nil {
		return fmt.Errorf("saving game: %w", err)
	}
	return nil
}

// Read gets the document of the game.
func (b *GameBackend) Read(ctx context.Context, id string) (*gamedb.Record, error) {
	var r gamedb.Record
	if err := b.WithTimeout(ctx, func(ctx context.Context) error {
		docRef := b.gamesCollection().Doc(id)
		snapshot, err := docRef.Get(ctx)
		if err != nil {
			if snapshot != nil && !snapshot.Exists() {
				return gamedb.ErrNotFound
			}
			return err
		}
		return snapshot.DataTo(&r)
	}); err != nil {
		if err == gamedb.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("reading game: %w", err)
	}
	r.ID = id
	return &r, nil
}

// List gets the documents that match the filter.
// The documents are sorted after they are read so no composite index is needed.
func (b *GameBackend) List(ctx context.Context, f gamedb.Filter) ([]gamedb.Record, error) {
	var records []gamedb.Record
	if err := b.WithTimeout(ctx, func(ctx context.Context) error {
		snapshots, err := b.query(f).Documents(ctx).GetAll()
		if err != nil {
			return err
		}
		records = make([]gamedb.Record, len(snapshots))
		for i, s := range snapshots {
			if err := s.DataTo(&records[i]); err != nil {
				return fmt.Errorf("reading game %v: %w", s.Ref.ID, err)
			}
			records[i].ID = s.Ref.ID
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	gamedb.SortRecords(records)
	return records, nil
}

// Count gets the number of documents that match the filter with an aggregation query.
func (b *GameBackend) Count(ctx context.Context, f gamedb.Filter) (int, error) {
	var n int
	if err := b.WithTimeout(ctx, func(ctx context.Context) error {
		q := b.query(f)
		aq := q.NewAggregationQuery().WithCount(countAlias)
		result, err := aq.Get(ctx)
		if err != nil {
			return err
		}
		n, err = countValue(result)
		return err
	}); err != nil {
		return 0, fmt.Errorf("counting games: %w", err)
	}
	return n, nil
}

// condition is a where clause of a query.
type condition struct {
	path  string
	op    string
	value interface{}
}

// query creates the collection query for the filter.
func (b *GameBackend) query(f gamedb.Filter) firestore.Query {
	q := b.gamesCollection().Query
	for _, c := range filterConditions(f) {
		q = q.Where(c.path, c.op, c.value)
	}
	return q
}

// filterConditions creates the where clauses of the filter.  Games with a winner are always finished.
func filterConditions(f gamedb.Filter) []condition {
	var conditions []condition
	if f.Finished || len(f.Winner) != 0 {
		conditions = append(conditions, condition{finishedField, "==", true})
	}
	if len(f.Winner) != 0 {
		conditions = append(conditions, condition{winnerField, "==", f.Winner})
	}
	return conditions
}

// countValue reads the count from the result of an aggregation query.
func countValue(result firestore.AggregationResult) (int, error) {
	v, ok := result[countAlias].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected count value: %v", result[countAlias])
	}
	return int(v.GetIntegerValue()), nil
}
