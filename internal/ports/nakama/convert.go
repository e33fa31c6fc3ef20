package nakama

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"domino/internal/app"
	"domino/internal/domain"
)

// outbound is one wire message produced from an app event.
type outbound struct {
	opCode     int64
	fields     map[string]interface{}
	recipients []string // user IDs; empty means everyone in the match
}

// eventMessages maps an app event to wire messages. Hidden information
// (hand contents, pile order) only ever goes to the player it belongs to.
func eventMessages(ev app.Event, seats [domain.Seats]string) []outbound {
	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		return []outbound{{opCode: OpGameStarted, fields: map[string]interface{}{
			"game_id":         p.GameID,
			"phase":           string(p.Phase),
			"first_turn_seat": p.FirstTurnSeat,
			"pile_size":       len(p.Pile),
		}}}
	case app.HandDealtPayload:
		return []outbound{handMessage(p.Seat, p.Hand, ev.Recipients)}
	case app.TurnStartedPayload:
		return []outbound{{opCode: OpTurnStarted, fields: map[string]interface{}{
			"seat": p.Seat,
			"tail": p.Tail,
			"head": p.Head,
		}}}
	case app.TilePlayedPayload:
		return []outbound{{opCode: OpTilePlayed, fields: map[string]interface{}{
			"seat": p.Seat,
			"tile": tileValue(p.Tile),
			"end":  p.End.String(),
			"tail": p.Tail,
			"head": p.Head,
		}}}
	case app.TilesDrawnPayload:
		return []outbound{{opCode: OpTilesDrawn, fields: map[string]interface{}{
			"seat":      p.Seat,
			"requested": p.Requested,
			"drawn":     p.Drawn,
			"pile_left": p.PileLeft,
		}}}
	case app.TurnPassedPayload:
		return []outbound{{opCode: OpTurnPassed, fields: map[string]interface{}{
			"seat": p.Seat,
		}}}
	case app.TurnEndedPayload:
		public := outbound{opCode: OpTurnEnded, fields: map[string]interface{}{
			"seat":           p.Seat,
			"hand_size":      len(p.Hand),
			"played":         tilesValue(p.Played),
			"pile_size":      len(p.Pile),
			"next_turn_seat": p.NextTurnSeat,
		}}
		out := []outbound{public}
		if p.Seat >= 0 && p.Seat < domain.Seats && seats[p.Seat] != "" {
			out = append(out, handMessage(p.Seat, p.Hand, []string{seats[p.Seat]}))
		}
		return out
	case app.GameEndedPayload:
		return []outbound{{opCode: OpGameEnded, fields: map[string]interface{}{
			"game_id":        p.GameID,
			"blocked_seat":   p.BlockedSeat,
			"pips":           []interface{}{p.Pips[0], p.Pips[1]},
			"winner_seat":    p.WinnerSeat,
			"tie":            p.Tie,
			"turns_played":   p.TurnsPlayed,
			"tiles_on_table": p.TilesOnTable,
		}}}
	default:
		return nil
	}
}

func handMessage(seat int, hand []domain.Tile, recipients []string) outbound {
	return outbound{
		opCode: OpHandDealt,
		fields: map[string]interface{}{
			"seat": seat,
			"hand": tilesValue(hand),
		},
		recipients: recipients,
	}
}

func tileValue(t domain.Tile) []interface{} {
	return []interface{}{t.A, t.B}
}

func tilesValue(tiles []domain.Tile) []interface{} {
	out := make([]interface{}, 0, len(tiles))
	for _, t := range tiles {
		out = append(out, tileValue(t))
	}
	return out
}

// encodePayload renders fields as a JSON object through structpb.
func encodePayload(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build payload: %w", err)
	}
	return protojson.Marshal(s)
}

// decodePayload parses a JSON object payload. An empty payload decodes to an empty struct.
func decodePayload(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if len(data) == 0 {
		return s, nil
	}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return s, nil
}

// matchLabel renders the label used by quick_match queries.
func matchLabel(open int, state string) (string, error) {
	b, err := encodePayload(map[string]interface{}{
		MatchLabelKeyOpenSeats: open,
		"game":                 matchGameLabel,
		"state":                state,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
