package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jacobpatterson1549/tennis-scorer/game"
	"github.com/jacobpatterson1549/tennis-scorer/server/log"
)

type (
	// Publisher sends events to a destination.
	Publisher interface {
		Publish(ctx context.Context, e Event) error
	}

	// MultiPublisher sends each event to all of its publishers.
	MultiPublisher []Publisher

	// LogPublisher writes a line for each event to the log.
	LogPublisher struct {
		Log log.Logger
	}

	// Notifier creates events from the points of games and publishes them.
	Notifier struct {
		NotifierConfig
	}

	// NotifierConfig contains the collaborators of a Notifier.
	NotifierConfig struct {
		// Log is used to report publish failures.
		Log log.Logger
		// Publisher is where the events are sent.
		Publisher Publisher
		// TimeFunc supplies the timestamps of events.
		TimeFunc func() time.Time
	}
)

// Publish sends the event to every publisher, even if some fail.
func (m MultiPublisher) Publish(ctx context.Context, e Event) error {
	var errs []error
	for i, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("publisher %v: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Publish logs the event.
func (l LogPublisher) Publish(ctx context.Context, e Event) error {
	switch e.Type {
	case PointScored:
		l.Log.Printf("point scored - game: %v, player: %v, score: %v", e.GameID, e.Player, e.DisplayScore)
	case GameFinished:
		l.Log.Printf("game finished - game: %v, winner: %v", e.GameID, e.WinnerName())
	default:
		return fmt.Errorf("unknown event type: %q", e.Type)
	}
	return nil
}

// NewNotifier creates a Notifier from the config.
func (cfg NotifierConfig) NewNotifier() (*Notifier, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating notifier: validation: %w", err)
	}
	n := Notifier{
		NotifierConfig: cfg,
	}
	return &n, nil
}

func (cfg NotifierConfig) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.Publisher == nil:
		return fmt.Errorf("publisher required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	}
	return nil
}

// PointScored publishes an event for the point.
func (n *Notifier) PointScored(ctx context.Context, s game.State, side game.Side) {
	e := NewPointScored(s, side, n.TimeFunc())
	n.publish(ctx, e)
}

// GameFinished publishes an event for the end of the game.
func (n *Notifier) GameFinished(ctx context.Context, s game.State) {
	e := NewGameFinished(s, n.TimeFunc())
	n.publish(ctx, e)
}

func (n *Notifier) publish(ctx context.Context, e Event) {
	if err := n.Publisher.Publish(ctx, e); err != nil {
		n.Log.Printf("publishing %v event for game %v: %v", e.Type, e.GameID, err)
	}
}
