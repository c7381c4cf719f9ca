// Package game contains the scoring rules of a single tennis game.
package game

// Rules gets the scoring rules for the game, keyed by the part of the game they describe.
func Rules() map[string]string {
	return map[string]string{
		"scoring":   "0, 15, 30, 40, Game",
		"deuce":     "When both players reach 40, it's deuce",
		"advantage": "From deuce, next point gives advantage",
		"winning":   "Player with advantage wins on next point, or back to deuce",
		"input":     "Send 'A' for Player A point, 'B' for Player B point",
		"example":   "ABABAA means: A scores, B scores, A scores, B scores, A scores, A scores (A wins)",
	}
}
