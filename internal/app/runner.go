package app

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"domino/internal/domain"
	"domino/internal/ports"
)

// Runner drives a whole game without outside input, narrating every event.
type Runner struct {
	svc     *Service
	display ports.DisplayPort
	logger  *log.Logger
}

// NewRunner wires a runner. A nil display or logger discards output.
func NewRunner(svc *Service, display ports.DisplayPort, logger *log.Logger) *Runner {
	if display == nil {
		display = ports.NopDisplay{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{svc: svc, display: display, logger: logger}
}

// Run plays a game between the two players until the active player is blocked.
func (r *Runner) Run(ctx context.Context, playerIDs [domain.Seats]string) (domain.Result, error) {
	game, events, err := r.svc.StartGame(playerIDs)
	if err != nil {
		return domain.Result{}, err
	}
	logger := r.logger.With("game", game.ID)
	logger.Info("game started", "players", playerIDs, "pile", game.Pile.Len(), "hand_size", game.Rules.HandSize)
	r.narrate(events)

	for game.Phase == domain.PhasePlaying {
		if err := ctx.Err(); err != nil {
			logger.Warn("game interrupted", "turn", game.TurnNumber, "err", err)
			return domain.Result{}, err
		}
		seat := game.CurrentTurn
		events, err := r.svc.Step(game)
		r.narrate(events)
		if err != nil {
			logger.Error("turn failed", "seat", seat, "turn", game.TurnNumber, "err", err)
			return domain.Result{}, err
		}
		logger.Debug("turn", "seat", seat, "tail", game.Table.Tail, "head", game.Table.Head,
			"pile", game.Pile.Len(), "played", game.Table.Len())
	}

	res := game.Result()
	logger.Info("game over", "pips", res.Pips, "winner_seat", res.WinnerSeat, "tie", res.Tie, "turns", game.TurnNumber)
	return res, nil
}

func (r *Runner) narrate(events []Event) {
	for _, ev := range events {
		Narrate(ev, r.display)
	}
}
