package domain

import (
	"fmt"
	"strings"
)

const (
	MinPip = 0
	MaxPip = 6
	// SetSize is the number of tiles in a double-six set.
	SetSize = 28
)

// Tile is a single domino piece. A and B are the two pip values.
type Tile struct {
	A int
	B int
}

// Pips returns the sum of both sides.
func (t Tile) Pips() int {
	return t.A + t.B
}

// Matches reports whether either side of the tile equals v.
func (t Tile) Matches(v int) bool {
	return t.A == v || t.B == v
}

// Other returns the side left open once the tile is attached on v.
// A side is checked first, so a double returns its own value.
func (t Tile) Other(v int) int {
	if t.A == v {
		return t.B
	}
	return t.A
}

func (t Tile) String() string {
	return fmt.Sprintf("[%d|%d]", t.A, t.B)
}

// Generate returns the full double-six set in ascending (A, then B) order.
func Generate() []Tile {
	tiles := make([]Tile, 0, SetSize)
	for a := MinPip; a <= MaxPip; a++ {
		for b := a; b <= MaxPip; b++ {
			tiles = append(tiles, Tile{A: a, B: b})
		}
	}
	return tiles
}

// FormatTiles renders tiles as space separated [a|b] tokens.
func FormatTiles(tiles []Tile) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// SumPips totals the pips of a tile sequence.
func SumPips(tiles []Tile) int {
	total := 0
	for _, t := range tiles {
		total += t.Pips()
	}
	return total
}

func validPip(v int) bool {
	return v >= MinPip && v <= MaxPip
}
