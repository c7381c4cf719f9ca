package game

import (
	"errors"
	"fmt"
)

// Score is the number of points each side has won in a game.
// Scores are values: AddPoint returns a new Score rather than changing the receiver.
type Score struct {
	// PointsA is the number of balls won by player A.
	PointsA int `json:"playerAPoints"`
	// PointsB is the number of balls won by player B.
	PointsB int `json:"playerBPoints"`
}

// ErrInvalidState is returned when the winner of a game that has not been won is requested.
var ErrInvalidState = errors.New("invalid game state")

// numberedLabels are the display labels of the first points of a game.
var numberedLabels = [...]string{"0", "15", "30", "40"}

const (
	// fortyPoints is the number of points a side has when it reaches forty.
	fortyPoints = 3
	// minWinPoints is the least number of points needed to win a game.
	minWinPoints = 4
	// minWinLead is the least number of points the winner must lead by.
	minWinLead = 2
)

// Points returns the number of points the side has won.
func (s Score) Points(side Side) int {
	if side == A {
		return s.PointsA
	}
	return s.PointsB
}

// AddPoint returns a score with one more point for the side.
func (s Score) AddPoint(side Side) Score {
	if side == A {
		s.PointsA++
	} else {
		s.PointsB++
	}
	return s
}

// IsDeuce determines if both sides have at least forty and are tied.
func (s Score) IsDeuce() bool {
	return s.bothAtForty() && s.PointsA == s.PointsB
}

// HasAdvantage determines if both sides have at least forty and the side leads by exactly one point.
func (s Score) HasAdvantage(side Side) bool {
	return s.bothAtForty() && s.Points(side) == s.Points(side.Other())+1
}

// IsGameWon determines if a side has at least four points and leads by two or more.
func (s Score) IsGameWon() bool {
	return max(s.PointsA, s.PointsB) >= minWinPoints && abs(s.PointsA-s.PointsB) >= minWinLead
}

// Winner returns the side with more points.
// Callers must check IsGameWon first: ErrInvalidState is returned if the game is not won.
func (s Score) Winner() (Side, error) {
	if !s.IsGameWon() {
		return 0, fmt.Errorf("getting winner of %v-%v: %w: game is not won yet", s.PointsA, s.PointsB, ErrInvalidState)
	}
	if s.PointsA > s.PointsB {
		return A, nil
	}
	return B, nil
}

// DisplayLabel returns the score token of the side: 0, 15, 30, 40, Deuce, or Advantage.
func (s Score) DisplayLabel(side Side) string {
	if s.bothAtForty() {
		switch {
		case s.IsDeuce():
			return "Deuce"
		case s.HasAdvantage(side):
			return "Advantage"
		}
		return numberedLabels[fortyPoints]
	}
	points := s.Points(side)
	if points >= len(numberedLabels) {
		// only reachable by scores that skipped deuce
		return numberedLabels[fortyPoints]
	}
	return numberedLabels[points]
}

// bothAtForty determines if the game is in deuce territory.
func (s Score) bothAtForty() bool {
	return s.PointsA >= fortyPoints && s.PointsB >= fortyPoints
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
