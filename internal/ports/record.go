package ports

import (
	"context"
	"time"
)

// GameRecord is the persisted summary of a finished game.
type GameRecord struct {
	GameID      string    `json:"game_id"`
	Players     []string  `json:"players"` // user IDs in seat order
	Pips        []int     `json:"pips"`
	WinnerSeat  int       `json:"winner_seat"` // -1 on a tie
	Tie         bool      `json:"tie"`
	BlockedSeat int       `json:"blocked_seat"`
	Turns       int       `json:"turns"`
	Seed        int64     `json:"seed,omitempty"`
	FinishedAt  time.Time `json:"finished_at"`
}

// RecordPort stores finished games.
type RecordPort interface {
	// SaveResult persists rec for every player in it.
	// Saving the same GameID twice must not create a second record.
	SaveResult(ctx context.Context, rec GameRecord) error
}
