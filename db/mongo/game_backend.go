// Package mongo implements a game backend for mongodb.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jacobpatterson1549/tennis-scorer/db"
	gamedb "github.com/jacobpatterson1549/tennis-scorer/db/game"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	databaseName   = "tennis-scorer-db"
	collectionName = "games"
	idField        = "game_id"
	finishedField  = "finished"
	winnerField    = "winner"
	updatedAtField = "updated_at"
)

// GameBackend is a backend manager for a games collection.
type GameBackend struct {
	Games *mongo.Collection
	db.Config
}

// NewGameBackend connects to the database and creates a backend manager for its games collection.
func NewGameBackend(ctx context.Context, cfg db.Config, databaseURL string) (*GameBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating mongo game backend: validation: %w", err)
	}
	clientOptions := options.Client()
	clientOptions.ApplyURI(databaseURL)
	ctx, cancelFunc := context.WithTimeout(ctx, cfg.QueryPeriod)
	defer cancelFunc()
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	games := client.Database(databaseName).Collection(collectionName)
	b := GameBackend{
		Games:  games,
		Config: cfg,
	}
	return &b, nil
}

// Close disconnects from the database.
func (b *GameBackend) Close(ctx context.Context) error {
	return b.WithTimeout(ctx, b.Games.Database().Client().Disconnect)
}

// Setup creates a unique index on the game id and an index to count finished games.
func (b *GameBackend) Setup(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    d(e(idField, 1)),
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: d(e(finishedField, 1), e(winnerField, 1)),
		},
	}
	indexes := b.Games.Indexes()
	if err := b.WithTimeout(ctx, func(ctx context.Context) error {
		_, err := indexes.CreateMany(ctx, models)
		return err
	}); err != nil {
		return fmt.Errorf("creating game indexes: %w", err)
	}
	return nil
}

// Save replaces the document of the game, inserting it if it does not exist.
func (b *GameBackend) Save(ctx context.Context, r gamedb.Record) error {
	filter := d(e(idField, r.ID))
	opts := options.Replace().SetUpsert(true)
	if err := b.WithTimeout(ctx, func(ctx context.Context) error {
		_, err := b.Games.ReplaceOne(ctx, filter, r, opts)
		return err
	}); err != nil {
		return fmt.Errorf("saving game: %w", err)
	}
	return nil
}

// Read gets the document of the game.
func (b *GameBackend) Read(ctx context.Context, id string) (*gamedb.Record, error) {
	filter := d(e(idField, id))
	var r gamedb.Record
	if err := b.WithTimeout(ctx, func(ctx context.Context) error {
		return b.Games.FindOne(ctx, filter).Decode(&r)
	}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, gamedb.ErrNotFound
		}
		return nil, fmt.Errorf("reading game: %w", err)
	}
	return &r, nil
}

// List gets the documents that match the filter, most recently updated first.
func (b *GameBackend) List(ctx context.Context, f gamedb.Filter) ([]gamedb.Record, error) {
	opts := options.Find().SetSort(d(e(updatedAtField, -1), e(idField, 1)))
	var records []gamedb.Record
	if err := b.WithTimeout(ctx, func(ctx context.Context) error {
		cursor, err := b.Games.Find(ctx, filterDocument(f), opts)
		if err != nil {
			return err
		}
		return cursor.All(ctx, &records)
	}); err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	return records, nil
}

// Count gets the number of documents that match the filter.
func (b *GameBackend) Count(ctx context.Context, f gamedb.Filter) (int, error) {
	var n int64
	if err := b.WithTimeout(ctx, func(ctx context.Context) error {
		var err error
		n, err = b.Games.CountDocuments(ctx, filterDocument(f))
		return err
	}); err != nil {
		return 0, fmt.Errorf("counting games: %w", err)
	}
	return int(n), nil
}

// filterDocument creates the query document for the filter.
func filterDocument(f gamedb.Filter) bson.D {
	filter := bson.D{}
	if f.Finished || len(f.Winner) != 0 {
		filter = append(filter, e(finishedField, true))
	}
	if len(f.Winner) != 0 {
		filter = append(filter, e(winnerField, f.Winner))
	}
	return filter
}

// d is a helper function to create bson.D elements.
func d(e ...bson.E) bson.D {
	return bson.D(e)
}

// e is a helper function to create bson.E elements.
func e(key string, value interface{}) bson.E {
	return bson.E{Key: key, Value: value}
}
