package game

import (
	"context"
	"time"

	"github.com/jacobpatterson1549/tennis-scorer/game"
)

type (
	mockDao struct {
		saveFunc func(ctx context.Context, s game.State) error
	}

	mockPublisher struct {
		pointScoredFunc  func(ctx context.Context, s game.State, side game.Side)
		gameFinishedFunc func(ctx context.Context, s game.State)
	}

	// recordingMetrics counts the calls to each metric.
	recordingMetrics struct {
		points      int
		games       int
		wins        map[game.Side]int
		observed    int
		lastElapsed time.Duration
	}
)

func (m mockDao) Save(ctx context.Context, s game.State) error {
	return m.saveFunc(ctx, s)
}

func (m mockPublisher) PointScored(ctx context.Context, s game.State, side game.Side) {
	m.pointScoredFunc(ctx, s, side)
}

func (m mockPublisher) GameFinished(ctx context.Context, s game.State) {
	m.gameFinishedFunc(ctx, s)
}

func (m *recordingMetrics) IncPointsScored() {
	m.points++
}

func (m *recordingMetrics) IncGamesPlayed() {
	m.games++
}

func (m *recordingMetrics) IncWins(side game.Side) {
	if m.wins == nil {
		m.wins = make(map[game.Side]int)
	}
	m.wins[side]++
}

func (m *recordingMetrics) ObserveProcessing(d time.Duration) {
	m.observed++
	m.lastElapsed = d
}
