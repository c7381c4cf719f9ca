package game

import "strings"

type (
	// Request is the body of a request to play a game.
	Request struct {
		// BallSequence is the side that won each ball, such as "ABABAA".
		BallSequence string `json:"ballSequence"`
	}

	// Response is the result of playing a game.
	Response struct {
		GameID           string   `json:"gameId"`
		ScoreProgression []string `json:"scoreProgression"`
		Finished         bool     `json:"isFinished"`
		// Winner is "Player A" or "Player B", or nil if the game is not finished.
		Winner *string `json:"winner"`
	}
)

const winSuffix = "wins the game"

// NewResponse creates a response from the progression of a game.
// The game is finished if the last entry is a win message.
func NewResponse(gameID string, progression []string) Response {
	r := Response{
		GameID:           gameID,
		ScoreProgression: progression,
	}
	if len(progression) == 0 {
		return r
	}
	last := progression[len(progression)-1]
	if !strings.Contains(last, winSuffix) {
		return r
	}
	r.Finished = true
	winner := "Player B"
	if strings.Contains(last, "Player A") {
		winner = "Player A"
	}
	r.Winner = &winner
	return r
}
