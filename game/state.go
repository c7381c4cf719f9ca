package game

import "fmt"

// State is a snapshot of a game after a number of points have been played.
// Finished, Winner, and Display are derived from the Score whenever a State is created.
type State struct {
	// GameID identifies the game the state is for.
	GameID string `json:"gameId"`
	// Score is the number of points each side has.
	Score Score `json:"score"`
	// Finished is true when the score has a winner.
	Finished bool `json:"isFinished"`
	// Winner is the side that won the game.  It is only valid when the game is Finished.
	Winner Side `json:"-"`
	// Display is the human-readable score.
	Display string `json:"displayScore"`
}

// NewState creates the state of a game that has not had any points played.
func NewState(gameID string) State {
	return StateOf(gameID, Score{})
}

// StateOf creates the state of the game with the score, deriving the other fields from it.
func StateOf(gameID string, score Score) State {
	s := State{
		GameID:   gameID,
		Score:    score,
		Finished: score.IsGameWon(),
		Display:  formatDisplay(score),
	}
	if s.Finished {
		s.Winner, _ = score.Winner() // the score is won
	}
	return s
}

// AddPoint returns the state after the side wins a ball.
// Points are still counted if the game is already finished.
func (s State) AddPoint(side Side) State {
	return StateOf(s.GameID, s.Score.AddPoint(side))
}

// WinnerName returns the name of the winning player, or an empty string if the game is not finished.
func (s State) WinnerName() string {
	if !s.Finished {
		return ""
	}
	return s.Winner.PlayerName()
}

// Result is the progression entry of the state: the display score or the win message when the game is finished.
func (s State) Result() string {
	if s.Finished {
		return fmt.Sprintf("Player %v wins the game", s.Winner)
	}
	return s.Display
}

// formatDisplay creates the display score of both players.
func formatDisplay(score Score) string {
	switch {
	case score.IsDeuce():
		return "Player A : Deuce / Player B : Deuce"
	case score.HasAdvantage(A):
		return "Player A : Advantage / Player B : 40"
	case score.HasAdvantage(B):
		return "Player A : 40 / Player B : Advantage"
	}
	return fmt.Sprintf("Player A : %s / Player B : %s", score.DisplayLabel(A), score.DisplayLabel(B))
}
