package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"domino/internal/domain"
)

// Service contains domino use-cases operating on domain state.
type Service struct {
	rng   *rand.Rand
	rules domain.Rules
	newID func() string
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand, rules domain.Rules) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, rules: rules, newID: uuid.NewString}
}

var (
	ErrNotPlaying    = errors.New("match not in playing phase")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrUnknownSeat   = errors.New("seat not found")
	ErrTooFewPlayers = errors.New("not enough players to start")
)

// Rules returns the rule set new games are dealt with.
func (s *Service) Rules() domain.Rules {
	return s.rules
}

// StartGame deals a new game for the players in seat order.
func (s *Service) StartGame(playerIDs [domain.Seats]string) (*domain.Game, []Event, error) {
	occupied := 0
	for i, id := range playerIDs {
		if id == "" {
			continue
		}
		for _, other := range playerIDs[:i] {
			if other == id {
				return nil, nil, fmt.Errorf("%w: %s holds two seats", ErrTooFewPlayers, id)
			}
		}
		occupied++
	}
	if occupied < MinPlayersToStartGame {
		return nil, nil, ErrTooFewPlayers
	}

	game, err := domain.NewGame(s.newID(), playerIDs, s.rules, s.rng)
	if err != nil {
		return nil, nil, err
	}

	events := make([]Event, 0, domain.Seats+1)
	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameID:        game.ID,
			Phase:         game.Phase,
			FirstTurnSeat: game.CurrentTurn,
			Pile:          game.Pile.Tiles(),
		},
	})
	for _, pl := range game.Players {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: pl.Seat, Hand: pl.Hand.Tiles()},
			Recipients: []string{pl.UserID},
		})
	}
	return game, events, nil
}

// TakeTurn plays one turn on behalf of seat.
func (s *Service) TakeTurn(game *domain.Game, seat int) ([]Event, error) {
	if game == nil || game.Phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}
	if game.PlayerBySeat(seat) == nil {
		return nil, ErrUnknownSeat
	}
	if seat != game.CurrentTurn {
		return nil, ErrNotYourTurn
	}
	return s.Step(game)
}

// Step plays one turn for whoever holds the turn pointer.
func (s *Service) Step(game *domain.Game) ([]Event, error) {
	if game == nil || game.Phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}

	pl := game.Active()
	table := game.Table

	if !pl.Hand.CanPlay(table.Tail, table.Head) {
		if !game.Rules.DrawWhenBlocked || game.Pile.Empty() {
			return []Event{s.endGame(game, pl.Seat)}, nil
		}
	}

	events := []Event{{
		Kind:    EventTurnStarted,
		Payload: TurnStartedPayload{Seat: pl.Seat, Tail: table.Tail, Head: table.Head},
	}}

	if move, ok := pl.Hand.MakeMove(table); ok {
		events = append(events, Event{
			Kind: EventTilePlayed,
			Payload: TilePlayedPayload{
				Seat: pl.Seat,
				Tile: move.Tile,
				End:  move.End,
				Tail: table.Tail,
				Head: table.Head,
			},
		})
	} else {
		events = append(events, s.resolveMiss(game, pl))
	}

	events = append(events, Event{
		Kind: EventTurnEnded,
		Payload: TurnEndedPayload{
			Seat:         pl.Seat,
			Hand:         pl.Hand.Tiles(),
			Played:       table.Played(),
			Pile:         game.Pile.Tiles(),
			NextTurnSeat: (pl.Seat + 1) % domain.Seats,
		},
	})
	game.AdvanceTurn()

	if err := game.CheckConservation(); err != nil {
		game.Phase = domain.PhaseEnded
		return events, fmt.Errorf("turn %d: %w", game.TurnNumber, err)
	}
	return events, nil
}

// resolveMiss applies the draw policy for a player who did not place a tile.
func (s *Service) resolveMiss(game *domain.Game, pl *domain.Player) Event {
	if game.Pile.Empty() {
		return Event{Kind: EventTurnPassed, Payload: TurnPassedPayload{Seat: pl.Seat}}
	}

	want := game.Rules.DrawCount(game.Draws)
	drawn := pl.Hand.Draw(game.Pile, want)
	game.Draws++
	return Event{
		Kind: EventTilesDrawn,
		Payload: TilesDrawnPayload{
			Seat:      pl.Seat,
			Requested: want,
			Drawn:     drawn,
			PileLeft:  game.Pile.Len(),
		},
	}
}

func (s *Service) endGame(game *domain.Game, blockedSeat int) Event {
	game.Phase = domain.PhaseEnded
	res := game.Result()
	return Event{
		Kind: EventGameEnded,
		Payload: GameEndedPayload{
			GameID:       game.ID,
			BlockedSeat:  blockedSeat,
			Pips:         res.Pips,
			WinnerSeat:   res.WinnerSeat,
			Tie:          res.Tie,
			TurnsPlayed:  game.TurnNumber,
			TilesOnTable: game.Table.Len(),
		},
	}
}
