package domain

import (
	"errors"
	"fmt"
)

var ErrTileMismatch = errors.New("tile does not match open end")

// End names one of the two extendable ends of the table.
type End int

const (
	EndTail End = iota
	EndHead
)

func (e End) String() string {
	switch e {
	case EndTail:
		return "tail"
	case EndHead:
		return "head"
	default:
		return fmt.Sprintf("end(%d)", int(e))
	}
}

// Table is the shared line of play. Tail and Head start at 0.
type Table struct {
	Tail int
	Head int

	played []Tile
}

// NewTable returns an empty table with both ends at 0.
func NewTable() *Table {
	return &Table{}
}

// OpenEnd returns the value currently exposed at e.
func (t *Table) OpenEnd(e End) int {
	if e == EndHead {
		return t.Head
	}
	return t.Tail
}

// Place attaches tile on end e and records it in the played sequence.
func (t *Table) Place(tile Tile, e End) error {
	open := t.OpenEnd(e)
	if !tile.Matches(open) {
		return fmt.Errorf("%w: %s on %s=%d", ErrTileMismatch, tile, e, open)
	}

	switch e {
	case EndTail:
		t.Tail = tile.Other(open)
	case EndHead:
		t.Head = tile.Other(open)
	default:
		return fmt.Errorf("%w: unknown %s", ErrTileMismatch, e)
	}
	t.played = append(t.played, tile)
	return nil
}

// Played returns a copy of the tiles played so far, in play order.
func (t *Table) Played() []Tile {
	return append([]Tile(nil), t.played...)
}

// Len returns the number of tiles on the table.
func (t *Table) Len() int {
	return len(t.played)
}
