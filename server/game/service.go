// Package game plays tennis games from ball sequences, recording each point as it is scored.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jacobpatterson1549/tennis-scorer/game"
	"github.com/jacobpatterson1549/tennis-scorer/server/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type (
	// Service plays games, saving, publishing, and counting every point.
	Service struct {
		Config
	}

	// Config contains the collaborators of the Service.
	Config struct {
		// Debug is a flag that causes the service to log each point that is scored.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// Dao stores the state of the game after each point.
		Dao Dao
		// Publisher sends events about the game as it is played.
		Publisher Publisher
		// Metrics counts points, games, and wins.
		Metrics Metrics
		// Tracer starts a span for each game that is played.
		Tracer trace.Tracer
		// IDFunc creates the id for each new game.
		IDFunc func() string
		// TimeFunc supplies the current time to measure how long games take to play.
		TimeFunc func() time.Time
	}

	// Dao saves game states.
	Dao interface {
		// Save stores the state, replacing any previous state of the game.
		Save(ctx context.Context, s game.State) error
	}

	// Publisher sends events about games.  Publishing is best-effort, so failures are handled by the publisher.
	Publisher interface {
		// PointScored is called after the side wins a point.
		PointScored(ctx context.Context, s game.State, side game.Side)
		// GameFinished is called after the last point of the game.
		GameFinished(ctx context.Context, s game.State)
	}

	// Metrics records counts and timings of games.
	Metrics interface {
		// IncPointsScored increments the number of points played.
		IncPointsScored()
		// IncGamesPlayed increments the number of games that have finished.
		IncGamesPlayed()
		// IncWins increments the number of games won by the side.
		IncWins(side game.Side)
		// ObserveProcessing records how long it took to play a game.
		ObserveProcessing(d time.Duration)
	}
)

// NewService creates a Service from the config.
func (cfg Config) NewService() (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating game service: validation: %w", err)
	}
	s := Service{
		Config: cfg,
	}
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.Dao == nil:
		return fmt.Errorf("dao required")
	case cfg.Publisher == nil:
		return fmt.Errorf("publisher required")
	case cfg.Metrics == nil:
		return fmt.Errorf("metrics required")
	case cfg.Tracer == nil:
		return fmt.Errorf("tracer required")
	case cfg.IDFunc == nil:
		return fmt.Errorf("id func required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	}
	return nil
}

// PlayGame plays a new game with the sides that won each ball, returning the id of the game and the result after each point.
// Balls after the game is won are ignored.
// Failures to save the state are logged and do not stop the game.
// An error is only returned if the context is done before all the points are played.
func (s *Service) PlayGame(ctx context.Context, sides []game.Side) (gameID string, progression []string, err error) {
	start := s.TimeFunc()
	defer func() {
		s.Metrics.ObserveProcessing(s.TimeFunc().Sub(start))
	}()
	gameID = s.IDFunc()
	ctx, span := s.Tracer.Start(ctx, "PlayGame", trace.WithAttributes(
		attribute.String("game.id", gameID),
		attribute.Int("game.balls", len(sides)),
	))
	defer span.End()
	state := game.NewState(gameID)
	progression = make([]string, 0, len(sides))
	for _, side := range sides {
		if state.Finished {
			break
		}
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "game interrupted")
			return "", nil, fmt.Errorf("playing game %v: %w", gameID, err)
		}
		state = s.playPoint(ctx, state, side)
		progression = append(progression, state.Result())
	}
	span.SetAttributes(
		attribute.Int("game.points", len(progression)),
		attribute.Bool("game.finished", state.Finished),
	)
	return gameID, progression, nil
}

// playPoint adds the point for the side and records it.
func (s *Service) playPoint(ctx context.Context, state game.State, side game.Side) game.State {
	state = state.AddPoint(side)
	if err := s.Dao.Save(ctx, state); err != nil {
		s.Log.Printf("saving state of game %v: %v", state.GameID, err)
	}
	s.Publisher.PointScored(ctx, state, side)
	s.Metrics.IncPointsScored()
	if s.Debug {
		s.Log.Printf("game %v: point for %v: %v", state.GameID, side.PlayerName(), state.Display)
	}
	if state.Finished {
		s.Publisher.GameFinished(ctx, state)
		s.Metrics.IncGamesPlayed()
		s.Metrics.IncWins(state.Winner)
	}
	return state
}

// ErrInvalidRequest is returned when a request can not be played.
var ErrInvalidRequest = errors.New("invalid request")

// ValidationError describes why a field of a request is invalid.
type ValidationError struct {
	// Field is the json name of the invalid field.
	Field string
	// Message is a description of the problem that can be shown to users.
	Message string
	// Err is the cause.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %v: %v", ErrInvalidRequest, e.Field, e.Err)
}

// Unwrap allows the error to be matched as an ErrInvalidRequest and as its cause.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidRequest, e.Err}
}

// Play validates the ball sequence of the request and plays the game.
// Invalid requests return a *ValidationError.
func (s *Service) Play(ctx context.Context, r Request) (*Response, error) {
	sides, err := game.ParseSequence(r.BallSequence)
	if err != nil {
		message := "Ball sequence must contain only 'A' and 'B' characters"
		if len(strings.TrimSpace(r.BallSequence)) == 0 {
			message = "Ball sequence cannot be empty"
		}
		return nil, &ValidationError{
			Field:   "ballSequence",
			Message: message,
			Err:     err,
		}
	}
	gameID, progression, err := s.PlayGame(ctx, sides)
	if err != nil {
		return nil, err
	}
	resp := NewResponse(gameID, progression)
	return &resp, nil
}
