// Package metrics counts games, points, and wins with prometheus.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jacobpatterson1549/tennis-scorer/game"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const (
	// GamesPlayedName counts the games that have finished.
	GamesPlayedName = "tennis_games_played_total"
	// PointsScoredName counts every point of every game.
	PointsScoredName = "tennis_points_scored_total"
	// GamesWonName counts the games won by each player.
	GamesWonName = "tennis_games_won_total"
	// ProcessingName measures how long games take to play.
	ProcessingName = "tennis_game_processing_seconds"
	// playerLabel is the side of the player that won a game.
	playerLabel = "player"
)

type (
	// GameMetrics records counts of games on its own registry.
	GameMetrics struct {
		registry     *prometheus.Registry
		gamesPlayed  prometheus.Counter
		pointsScored prometheus.Counter
		gamesWon     *prometheus.CounterVec
		processing   prometheus.Histogram
	}

	// Snapshot contains the current values of the game counters.
	Snapshot struct {
		GamesPlayed  int
		PointsScored int
		PlayerAWins  int
		PlayerBWins  int
	}
)

// NewGameMetrics creates the game metrics and registers them with the runtime metrics of the process.
func NewGameMetrics() (*GameMetrics, error) {
	m := GameMetrics{
		registry: prometheus.NewRegistry(),
		gamesPlayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: GamesPlayedName,
			Help: "Total number of tennis games played",
		}),
		pointsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: PointsScoredName,
			Help: "Total number of points scored",
		}),
		gamesWon: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: GamesWonName,
			Help: "Total number of games won by each player",
		}, []string{playerLabel}),
		processing: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    ProcessingName,
			Help:    "Time taken to process a tennis game",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		}),
	}
	cs := []prometheus.Collector{
		m.gamesPlayed,
		m.pointsScored,
		m.gamesWon,
		m.processing,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("registering game metrics: %w", err)
		}
	}
	for _, side := range []game.Side{game.A, game.B} {
		m.gamesWon.WithLabelValues(side.String()) // report zero wins before the first game
	}
	return &m, nil
}

// IncPointsScored increments the number of points played.
func (m *GameMetrics) IncPointsScored() {
	m.pointsScored.Inc()
}

// IncGamesPlayed increments the number of games that have finished.
func (m *GameMetrics) IncGamesPlayed() {
	m.gamesPlayed.Inc()
}

// IncWins increments the number of games won by the side.
func (m *GameMetrics) IncWins(side game.Side) {
	m.gamesWon.WithLabelValues(side.String()).Inc()
}

// ObserveProcessing records how long it took to play a game.
func (m *GameMetrics) ObserveProcessing(d time.Duration) {
	m.processing.Observe(d.Seconds())
}

// Snapshot reads the current counts.
func (m *GameMetrics) Snapshot() (*Snapshot, error) {
	var s Snapshot
	counters := []struct {
		prometheus.Counter
		dest *int
	}{
		{m.gamesPlayed, &s.GamesPlayed},
		{m.pointsScored, &s.PointsScored},
		{m.gamesWon.WithLabelValues(game.A.String()), &s.PlayerAWins},
		{m.gamesWon.WithLabelValues(game.B.String()), &s.PlayerBWins},
	}
	for _, c := range counters {
		var metric dto.Metric
		if err := c.Write(&metric); err != nil {
			return nil, fmt.Errorf("reading game metric: %w", err)
		}
		*c.dest = int(metric.GetCounter().GetValue())
	}
	return &s, nil
}

// Handler serves the metrics in the prometheus text format.
func (m *GameMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
