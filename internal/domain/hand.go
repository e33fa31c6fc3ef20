package domain

// Move describes a legal placement found in a hand.
type Move struct {
	Tile  Tile
	Index int // position in the hand at the time it was found
	End   End
}

// Hand holds one player's tiles in the order they were drawn.
type Hand struct {
	tiles []Tile
}

// NewHand returns a hand holding tiles in the given order.
func NewHand(tiles ...Tile) *Hand {
	return &Hand{tiles: append([]Tile(nil), tiles...)}
}

// Tiles returns a copy of the held tiles.
func (h *Hand) Tiles() []Tile {
	return append([]Tile(nil), h.tiles...)
}

// Len returns the number of held tiles.
func (h *Hand) Len() int {
	return len(h.tiles)
}

// Draw moves up to n tiles from the pile into the hand and returns how many moved.
func (h *Hand) Draw(p *DrawPile, n int) int {
	drawn := p.Draw(n)
	h.tiles = append(h.tiles, drawn...)
	return len(drawn)
}

// TotalPips sums the pips of every held tile.
func (h *Hand) TotalPips() int {
	return SumPips(h.tiles)
}

// FindPlayable returns the first tile that attaches to tail, or failing
// that the first tile that attaches to head. CanPlay and MakeMove both
// go through it so they cannot disagree.
func (h *Hand) FindPlayable(tail, head int) (Move, bool) {
	for i, t := range h.tiles {
		if t.Matches(tail) {
			return Move{Tile: t, Index: i, End: EndTail}, true
		}
	}
	for i, t := range h.tiles {
		if t.Matches(head) {
			return Move{Tile: t, Index: i, End: EndHead}, true
		}
	}
	return Move{}, false
}

// CanPlay reports whether any held tile matches tail or head.
func (h *Hand) CanPlay(tail, head int) bool {
	_, ok := h.FindPlayable(tail, head)
	return ok
}

// MakeMove plays the first playable tile onto the table. It returns false,
// leaving hand and table untouched, when nothing matches.
func (h *Hand) MakeMove(t *Table) (Move, bool) {
	move, ok := h.FindPlayable(t.Tail, t.Head)
	if !ok {
		return Move{}, false
	}
	if err := t.Place(move.Tile, move.End); err != nil {
		return Move{}, false
	}
	h.tiles = append(h.tiles[:move.Index], h.tiles[move.Index+1:]...)
	return move, true
}
