// Package game stores the states of tennis games in a backend.
package game

import (
	"errors"
	"sort"
	"time"

	"github.com/jacobpatterson1549/tennis-scorer/game"
)

type (
	// Record is the stored form of a game state.
	// Only the points are needed to rebuild the state; the other fields are stored so they can be queried.
	Record struct {
		ID        string    `bson:"game_id" firestore:"-"`
		PointsA   int       `bson:"points_a" firestore:"pointsA"`
		PointsB   int       `bson:"points_b" firestore:"pointsB"`
		Finished  bool      `bson:"finished" firestore:"finished"`
		Winner    string    `bson:"winner" firestore:"winner"`
		Display   string    `bson:"display" firestore:"display"`
		UpdatedAt time.Time `bson:"updated_at" firestore:"updatedAt"`
	}

	// Filter restricts the records that are listed or counted.
	Filter struct {
		// Finished only includes records of games that have been won.
		Finished bool
		// Winner only includes records of games won by the player with the name, such as "A".
		Winner string
	}
)

// ErrNotFound is returned when a game is not stored.
var ErrNotFound = errors.New("game not found")

// NewRecord creates the record of the state, updated at the time.
func NewRecord(s game.State, updatedAt time.Time) Record {
	r := Record{
		ID:        s.GameID,
		PointsA:   s.Score.PointsA,
		PointsB:   s.Score.PointsB,
		Finished:  s.Finished,
		Display:   s.Display,
		UpdatedAt: updatedAt,
	}
	if s.Finished {
		r.Winner = s.Winner.String()
	}
	return r
}

// State rebuilds the game state from the stored points so derived fields can not drift from the score.
func (r Record) State() game.State {
	score := game.Score{
		PointsA: r.PointsA,
		PointsB: r.PointsB,
	}
	return game.StateOf(r.ID, score)
}

// Matches determines if the record should be included by the filter.
func (r Record) Matches(f Filter) bool {
	switch {
	case f.Finished && !r.Finished,
		len(f.Winner) != 0 && (!r.Finished || f.Winner != r.Winner):
		return false
	}
	return true
}

// SortRecords orders the records by most recently updated, then by id.
func SortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID < b.ID
	})
}
