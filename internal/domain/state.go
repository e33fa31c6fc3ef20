package domain

import "fmt"

// Phase represents the lifecycle stage of a domino game.
type Phase string

const (
	// PhaseLobby is the pre-game state where players can join.
	PhaseLobby Phase = "lobby"
	// PhasePlaying is the active game state where tiles are played.
	PhasePlaying Phase = "playing"
	// PhaseEnded is the state after the active player ran out of moves.
	PhaseEnded Phase = "ended"
)

// Seats is the fixed player count.
const Seats = 2

// Player holds state for a participant in the game.
type Player struct {
	UserID string
	Seat   int // 0-based seat index
	Hand   *Hand
}

// Result is the outcome of a finished game.
type Result struct {
	Pips       [Seats]int
	WinnerSeat int // -1 on a tie
	Tie        bool
}

// Game is the authoritative state of one session. It owns the pile, both
// hands and the table; nothing else holds references into them.
type Game struct {
	ID      string
	Phase   Phase
	Rules   Rules
	Players [Seats]*Player
	Pile    *DrawPile
	Table   *Table

	CurrentTurn int // seat of the player about to act
	TurnNumber  int // turns completed so far
	Draws       int // draws made under the miss policy, across the whole game

	inventory []Tile
}

// NewGame deals a fresh game from a shuffled set. Seat 0 is dealt first and acts first.
func NewGame(id string, userIDs [Seats]string, rules Rules, rng Shuffler) (*Game, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	pile := NewDrawPile(Generate())
	pile.Shuffle(rng)

	var hands [Seats][]Tile
	for seat := range hands {
		dealt, err := pile.DrawExact(rules.HandSize)
		if err != nil {
			return nil, fmt.Errorf("deal seat %d: %w", seat, err)
		}
		hands[seat] = dealt
	}
	return NewGameWithDeal(id, userIDs, rules, hands, pile.Tiles())
}

// NewGameWithDeal builds a game from an explicit deal. Hands and pile
// together must hold the full set exactly once; pile is bottom first.
func NewGameWithDeal(id string, userIDs [Seats]string, rules Rules, hands [Seats][]Tile, pile []Tile) (*Game, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	set := Generate()
	if err := CheckConservation(set, hands[0], hands[1], pile); err != nil {
		return nil, fmt.Errorf("deal: %w", err)
	}

	g := &Game{
		ID:        id,
		Phase:     PhasePlaying,
		Rules:     rules,
		Pile:      NewDrawPile(pile),
		Table:     NewTable(),
		inventory: set,
	}
	for seat, uid := range userIDs {
		g.Players[seat] = &Player{UserID: uid, Seat: seat, Hand: NewHand(hands[seat]...)}
	}
	return g, nil
}

// Active returns the player about to act.
func (g *Game) Active() *Player {
	return g.Players[g.CurrentTurn]
}

// PlayerBySeat returns the player at seat or nil.
func (g *Game) PlayerBySeat(seat int) *Player {
	if seat < 0 || seat >= Seats {
		return nil
	}
	return g.Players[seat]
}

// SeatOf returns the seat held by userID or -1.
func (g *Game) SeatOf(userID string) int {
	for _, p := range g.Players {
		if p != nil && p.UserID == userID {
			return p.Seat
		}
	}
	return -1
}

// AdvanceTurn hands the turn to the other seat.
func (g *Game) AdvanceTurn() int {
	g.CurrentTurn = (g.CurrentTurn + 1) % Seats
	g.TurnNumber++
	return g.CurrentTurn
}

// Result computes the final pip totals and winner.
func (g *Game) Result() Result {
	var r Result
	for seat, p := range g.Players {
		if p != nil {
			r.Pips[seat] = p.Hand.TotalPips()
		}
	}
	r.WinnerSeat, r.Tie = DetermineWinner(r.Pips)
	return r
}

// CheckConservation verifies that pile, hands and table together hold the
// full set exactly once.
func (g *Game) CheckConservation() error {
	groups := [][]Tile{g.Pile.Tiles(), g.Table.Played()}
	for _, p := range g.Players {
		if p != nil {
			groups = append(groups, p.Hand.Tiles())
		}
	}
	return CheckConservation(g.inventory, groups...)
}
