package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestDrawPileDraw(t *testing.T) {
	three := []Tile{{A: 0, B: 1}, {A: 2, B: 3}, {A: 4, B: 5}}

	tests := []struct {
		name     string
		pile     []Tile
		n        int
		want     []Tile
		wantLeft int
	}{
		{name: "takes from the end", pile: three, n: 2, want: []Tile{{A: 4, B: 5}, {A: 2, B: 3}}, wantLeft: 1},
		{name: "clamps to what remains", pile: three, n: 10, want: []Tile{{A: 4, B: 5}, {A: 2, B: 3}, {A: 0, B: 1}}, wantLeft: 0},
		{name: "empty pile", pile: nil, n: 1, want: nil, wantLeft: 0},
		{name: "zero request", pile: three, n: 0, want: nil, wantLeft: 3},
		{name: "negative request", pile: three, n: -4, want: nil, wantLeft: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pile := NewDrawPile(tt.pile)
			got := pile.Draw(tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Draw(%d) = %v, want %v", tt.n, got, tt.want)
			}
			if pile.Len() != tt.wantLeft {
				t.Fatalf("pile left = %d, want %d", pile.Len(), tt.wantLeft)
			}
		})
	}
}

func TestDrawPileDrawExact(t *testing.T) {
	pile := NewDrawPile([]Tile{{A: 0, B: 1}, {A: 2, B: 3}, {A: 4, B: 5}})

	if _, err := pile.DrawExact(4); !errors.Is(err, ErrInsufficientTiles) {
		t.Fatalf("DrawExact(4) error = %v, want ErrInsufficientTiles", err)
	}
	if pile.Len() != 3 {
		t.Fatalf("failed DrawExact must leave pile untouched, len = %d", pile.Len())
	}

	got, err := pile.DrawExact(3)
	if err != nil {
		t.Fatalf("DrawExact(3) unexpected error: %v", err)
	}
	if len(got) != 3 || !pile.Empty() {
		t.Fatalf("DrawExact(3) drew %d, left %d", len(got), pile.Len())
	}
}

func TestDrawPileCopies(t *testing.T) {
	src := []Tile{{A: 1, B: 1}}
	pile := NewDrawPile(src)
	src[0] = Tile{A: 6, B: 6}

	out := pile.Tiles()
	out[0] = Tile{A: 5, B: 5}

	if got := pile.Tiles()[0]; got != (Tile{A: 1, B: 1}) {
		t.Fatalf("pile aliased caller slices, got %s", got)
	}
}
