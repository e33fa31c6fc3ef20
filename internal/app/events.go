package app

import "domino/internal/domain"

// EventKind identifies emitted game events for dispatch.
type EventKind string

const (
	EventGameStarted EventKind = "game_started"
	EventHandDealt   EventKind = "hand_dealt"
	EventTurnStarted EventKind = "turn_started"
	EventTilePlayed  EventKind = "tile_played"
	EventTilesDrawn  EventKind = "tiles_drawn"
	EventTurnPassed  EventKind = "turn_passed"
	EventTurnEnded   EventKind = "turn_ended"
	EventGameEnded   EventKind = "game_ended"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	GameID        string
	Phase         domain.Phase
	FirstTurnSeat int
	Pile          []domain.Tile
}

type HandDealtPayload struct {
	Seat int
	Hand []domain.Tile
}

type TurnStartedPayload struct {
	Seat int
	Tail int
	Head int
}

type TilePlayedPayload struct {
	Seat int
	Tile domain.Tile
	End  domain.End
	Tail int
	Head int
}

type TilesDrawnPayload struct {
	Seat      int
	Requested int
	Drawn     int
	PileLeft  int
}

type TurnPassedPayload struct {
	Seat int
}

// TurnEndedPayload snapshots the table after a turn, before the pointer moves.
type TurnEndedPayload struct {
	Seat         int
	Hand         []domain.Tile
	Played       []domain.Tile
	Pile         []domain.Tile
	NextTurnSeat int
}

type GameEndedPayload struct {
	GameID       string
	BlockedSeat  int
	Pips         [domain.Seats]int
	WinnerSeat   int
	Tie          bool
	TurnsPlayed  int
	TilesOnTable int
}
