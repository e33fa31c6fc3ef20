package domain

import (
	"errors"
	"fmt"
)

var ErrInsufficientTiles = errors.New("not enough tiles in draw pile")

// Shuffler is the randomness source used to reorder a pile. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// DrawPile is the shared pool of undealt tiles. Draws take from the end.
type DrawPile struct {
	tiles []Tile
}

// NewDrawPile returns a pile holding a copy of tiles in the given order.
func NewDrawPile(tiles []Tile) *DrawPile {
	return &DrawPile{tiles: append([]Tile(nil), tiles...)}
}

// Len returns the number of tiles left.
func (p *DrawPile) Len() int {
	return len(p.tiles)
}

// Empty reports whether nothing is left to draw.
func (p *DrawPile) Empty() bool {
	return len(p.tiles) == 0
}

// Tiles returns a copy of the pile contents, bottom first.
func (p *DrawPile) Tiles() []Tile {
	return append([]Tile(nil), p.tiles...)
}

// Shuffle reorders the pile with the given source.
func (p *DrawPile) Shuffle(rng Shuffler) {
	rng.Shuffle(len(p.tiles), func(i, j int) { p.tiles[i], p.tiles[j] = p.tiles[j], p.tiles[i] })
}

// Draw removes up to n tiles from the end of the pile and returns them in
// the order they were taken. Fewer than n are returned when the pile runs out.
func (p *DrawPile) Draw(n int) []Tile {
	if n <= 0 || len(p.tiles) == 0 {
		return nil
	}
	if n > len(p.tiles) {
		n = len(p.tiles)
	}

	out := make([]Tile, 0, n)
	for i := 0; i < n; i++ {
		last := len(p.tiles) - 1
		out = append(out, p.tiles[last])
		p.tiles = p.tiles[:last]
	}
	return out
}

// DrawExact is Draw without clamping: the pile is left untouched when it holds fewer than n tiles.
func (p *DrawPile) DrawExact(n int) ([]Tile, error) {
	if n > len(p.tiles) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientTiles, n, len(p.tiles))
	}
	return p.Draw(n), nil
}
