package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidRules = errors.New("invalid rules")

// Rules are the tunable parts of the turn policy.
type Rules struct {
	HandSize      int // tiles dealt to each player
	FirstMissDraw int // tiles drawn on the first miss of the game
	LaterMissDraw int // tiles drawn on every later miss
	// DrawWhenBlocked sends a player with no legal move to the draw policy
	// while the pile has tiles, instead of ending the game at once.
	DrawWhenBlocked bool
}

// DefaultRules returns the classic setup: ten tiles each, draw ten on the
// first miss and one afterwards, game over as soon as the active player is blocked.
func DefaultRules() Rules {
	return Rules{
		HandSize:      10,
		FirstMissDraw: 10,
		LaterMissDraw: 1,
	}
}

// Validate rejects rule sets that cannot be dealt from a single set, and
// draw counts that would let a blocked player draw nothing forever.
func (r Rules) Validate() error {
	if r.HandSize < 1 {
		return fmt.Errorf("%w: hand size %d", ErrInvalidRules, r.HandSize)
	}
	if r.HandSize*2 > SetSize {
		return fmt.Errorf("%w: hand size %d leaves no room for two players", ErrInvalidRules, r.HandSize)
	}
	if r.FirstMissDraw < 1 || r.LaterMissDraw < 1 {
		return fmt.Errorf("%w: draw counts must be at least 1, got %d and %d", ErrInvalidRules, r.FirstMissDraw, r.LaterMissDraw)
	}
	return nil
}

// DrawCount returns how many tiles the next miss draws given how many draws came before.
func (r Rules) DrawCount(draws int) int {
	if draws == 0 {
		return r.FirstMissDraw
	}
	return r.LaterMissDraw
}

// DetermineWinner compares final pip totals. The higher total wins;
// equal totals return tie=true and seat -1.
func DetermineWinner(pips [2]int) (seat int, tie bool) {
	switch {
	case pips[0] > pips[1]:
		return 0, false
	case pips[1] > pips[0]:
		return 1, false
	default:
		return -1, true
	}
}
