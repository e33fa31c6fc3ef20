package domain

import (
	"errors"
	"fmt"
)

var ErrInvariantViolation = errors.New("tile conservation violated")

// CheckConservation reports an ErrInvariantViolation unless the tiles in
// groups, taken together, are exactly the tiles of full with no duplicates.
func CheckConservation(full []Tile, groups ...[]Tile) error {
	want := make(map[Tile]int, len(full))
	for _, t := range full {
		if !validPip(t.A) || !validPip(t.B) {
			return invariantf("tile %s out of range", t)
		}
		want[t]++
	}

	seen := make(map[Tile]int, len(full))
	total := 0
	for _, group := range groups {
		for _, t := range group {
			seen[t]++
			total++
			if seen[t] > want[t] {
				if want[t] == 0 {
					return invariantf("unknown tile %s", t)
				}
				return invariantf("tile %s held %d times", t, seen[t])
			}
		}
	}
	if total != len(full) {
		return invariantf("%d tiles accounted for, want %d", total, len(full))
	}
	return nil
}

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
