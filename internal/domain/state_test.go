package domain

import (
	"errors"
	"math/rand"
	"testing"
)

func TestNewGameDeal(t *testing.T) {
	g, err := NewGame("g1", [Seats]string{"u1", "u2"}, DefaultRules(), rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewGame() error: %v", err)
	}

	if g.Phase != PhasePlaying {
		t.Fatalf("phase = %s, want playing", g.Phase)
	}
	for seat, p := range g.Players {
		if p.Hand.Len() != 10 {
			t.Fatalf("seat %d hand size = %d, want 10", seat, p.Hand.Len())
		}
		if p.Seat != seat {
			t.Fatalf("player seat = %d, want %d", p.Seat, seat)
		}
	}
	if g.Pile.Len() != 8 {
		t.Fatalf("pile size = %d, want 8", g.Pile.Len())
	}
	if g.Table.Tail != 0 || g.Table.Head != 0 || g.Table.Len() != 0 {
		t.Fatalf("table not empty: %d...%d len %d", g.Table.Tail, g.Table.Head, g.Table.Len())
	}
	if g.CurrentTurn != 0 {
		t.Fatalf("current turn = %d, want 0", g.CurrentTurn)
	}
	if err := g.CheckConservation(); err != nil {
		t.Fatalf("fresh game breaks conservation: %v", err)
	}
	if g.SeatOf("u2") != 1 || g.SeatOf("nobody") != -1 {
		t.Fatalf("SeatOf() lookup wrong")
	}
}

func TestNewGameRejectsBadRules(t *testing.T) {
	_, err := NewGame("g1", [Seats]string{"u1", "u2"}, Rules{HandSize: 20}, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrInvalidRules) {
		t.Fatalf("NewGame() error = %v, want ErrInvalidRules", err)
	}
}

func TestNewGameWithDeal(t *testing.T) {
	set := Generate()
	hands := [Seats][]Tile{set[:3], set[3:6]}

	g, err := NewGameWithDeal("g1", [Seats]string{"u1", "u2"}, DefaultRules(), hands, set[6:])
	if err != nil {
		t.Fatalf("NewGameWithDeal() error: %v", err)
	}
	if g.Players[1].Hand.Len() != 3 || g.Pile.Len() != 22 {
		t.Fatalf("hand = %d pile = %d, want 3 and 22", g.Players[1].Hand.Len(), g.Pile.Len())
	}

	_, err = NewGameWithDeal("g2", [Seats]string{"u1", "u2"}, DefaultRules(), hands, set[7:])
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("short deal error = %v, want ErrInvariantViolation", err)
	}

	stuck := Rules{HandSize: 10, DrawWhenBlocked: true}
	_, err = NewGameWithDeal("g3", [Seats]string{"u1", "u2"}, stuck, hands, set[6:])
	if !errors.Is(err, ErrInvalidRules) {
		t.Fatalf("zero draw rules error = %v, want ErrInvalidRules", err)
	}
}

func TestAdvanceTurnAlternates(t *testing.T) {
	g := &Game{}
	for i, want := range []int{1, 0, 1, 0} {
		if got := g.AdvanceTurn(); got != want {
			t.Fatalf("step %d: AdvanceTurn() = %d, want %d", i, got, want)
		}
	}
	if g.TurnNumber != 4 {
		t.Fatalf("turn number = %d, want 4", g.TurnNumber)
	}
}

func TestGameResult(t *testing.T) {
	g := &Game{
		Players: [Seats]*Player{
			{Seat: 0, Hand: NewHand(Tile{A: 6, B: 6}, Tile{A: 5, B: 6}, Tile{A: 5, B: 5}, Tile{A: 1, B: 6})}, // 40
			{Seat: 1, Hand: NewHand(Tile{A: 6, B: 6}, Tile{A: 5, B: 6}, Tile{A: 4, B: 5}, Tile{A: 0, B: 0})}, // 32
		},
	}
	r := g.Result()
	if r.Pips != [Seats]int{40, 32} {
		t.Fatalf("pips = %v, want [40 32]", r.Pips)
	}
	if r.Tie || r.WinnerSeat != 0 {
		t.Fatalf("result = %+v, want seat 0 to win", r)
	}
}

func TestCheckConservation(t *testing.T) {
	full := Generate()

	tests := []struct {
		name    string
		groups  [][]Tile
		wantErr bool
	}{
		{name: "all in one group", groups: [][]Tile{full}},
		{name: "split across groups", groups: [][]Tile{full[:10], full[10:20], full[20:]}},
		{name: "missing tile", groups: [][]Tile{full[:27]}, wantErr: true},
		{name: "duplicated tile", groups: [][]Tile{full, {full[3]}}, wantErr: true},
		{name: "unknown tile", groups: [][]Tile{full[:27], {{A: 9, B: 9}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConservation(full, tt.groups...)
			if tt.wantErr != (err != nil) {
				t.Fatalf("CheckConservation() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvariantViolation) {
				t.Fatalf("error %v is not ErrInvariantViolation", err)
			}
		})
	}
}

func TestCheckConservationRejectsOutOfRangeSet(t *testing.T) {
	bad := []Tile{{A: 0, B: 0}, {A: 3, B: 7}}
	if err := CheckConservation(bad, bad); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("CheckConservation() = %v, want ErrInvariantViolation", err)
	}
}
