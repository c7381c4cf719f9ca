// Package event publishes the points and results of games to other systems.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jacobpatterson1549/tennis-scorer/game"
)

type (
	// Type describes what happened in a game.
	Type string

	// Event is a message about a change to a game.
	Event struct {
		GameID string `json:"gameId"`
		Type   Type   `json:"eventType"`
		// Player is the side that scored.  It is only set for point events.
		Player       string  `json:"player,omitempty"`
		PlayerAScore int     `json:"playerAScore"`
		PlayerBScore int     `json:"playerBScore"`
		DisplayScore string  `json:"displayScore"`
		Finished     bool    `json:"isFinished"`
		Winner       *string `json:"winner"`
		// Timestamp is when the event was created, in milliseconds since the unix epoch.
		Timestamp int64 `json:"timestamp"`
	}
)

const (
	// PointScored events are created after each point.
	PointScored Type = "POINT_SCORED"
	// GameFinished events are created after the last point of a game.
	GameFinished Type = "GAME_FINISHED"
	// Topic is where events about games are sent.
	Topic = "tennis-game-events"
)

// NewPointScored creates an event for the side winning a point.
func NewPointScored(s game.State, side game.Side, t time.Time) Event {
	e := newEvent(s, PointScored, t)
	e.Player = side.String()
	return e
}

// NewGameFinished creates an event for the game ending.
func NewGameFinished(s game.State, t time.Time) Event {
	return newEvent(s, GameFinished, t)
}

func newEvent(s game.State, eventType Type, t time.Time) Event {
	e := Event{
		GameID:       s.GameID,
		Type:         eventType,
		PlayerAScore: s.Score.PointsA,
		PlayerBScore: s.Score.PointsB,
		DisplayScore: s.Display,
		Finished:     s.Finished,
		Timestamp:    t.UnixMilli(),
	}
	if s.Finished {
		winner := s.Winner.String()
		e.Winner = &winner
	}
	return e
}

// Decode reads an event from json.
func Decode(b []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	switch e.Type {
	case PointScored, GameFinished:
	default:
		return nil, fmt.Errorf("unknown event type: %q", e.Type)
	}
	return &e, nil
}

// Encode writes the event as json.
func (e Event) Encode() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding event: %w", err)
	}
	return b, nil
}

// WinnerName is the side that won the game, or an empty string.
func (e Event) WinnerName() string {
	if e.Winner == nil {
		return ""
	}
	return *e.Winner
}
