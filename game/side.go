package game

import (
	"errors"
	"fmt"
	"strings"
)

// Side is one of the two competitors in a game.
type Side int

const (
	_ Side = iota
	// A is the first player, listed on the left of every score.
	A
	// B is the second player.
	B
)

// ErrInvalidSequence is returned when a ball sequence cannot be decoded.
var ErrInvalidSequence = errors.New("invalid ball sequence")

// String returns the display value for the side.
func (s Side) String() string {
	switch s {
	case A:
		return "A"
	case B:
		return "B"
	}
	return "?"
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == A {
		return B
	}
	return A
}

// PlayerName returns the name of the side as shown in scores, such as "Player A".
func (s Side) PlayerName() string {
	return "Player " + s.String()
}

// valid determines if the side is one of the two players.
func (s Side) valid() bool {
	return s == A || s == B
}

// ParseSide decodes a single ball character.
func ParseSide(r rune) (Side, error) {
	switch r {
	case 'A':
		return A, nil
	case 'B':
		return B, nil
	}
	return 0, fmt.Errorf("%w: %q is not 'A' or 'B'", ErrInvalidSequence, r)
}

// ParseSequence decodes each character of the ball sequence into the side that won the ball.
// Empty sequences and characters other than 'A' and 'B' are rejected.
func ParseSequence(sequence string) ([]Side, error) {
	if len(strings.TrimSpace(sequence)) == 0 {
		return nil, fmt.Errorf("%w: ball sequence cannot be empty", ErrInvalidSequence)
	}
	sides := make([]Side, 0, len(sequence))
	for i, r := range sequence {
		s, err := ParseSide(r)
		if err != nil {
			return nil, fmt.Errorf("ball sequence must contain only 'A' and 'B' characters: index %v: %w", i, err)
		}
		sides = append(sides, s)
	}
	return sides, nil
}
