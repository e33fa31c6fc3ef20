package app

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"domino/internal/domain"
)

// recordingDisplay keeps every line it is asked to show.
type recordingDisplay struct {
	lines []string
}

func (d *recordingDisplay) ShowTiles(label string, tiles []domain.Tile) {
	d.lines = append(d.lines, strings.TrimSpace(label+" "+domain.FormatTiles(tiles)))
}

func (d *recordingDisplay) ShowStatus(msg string) {
	d.lines = append(d.lines, msg)
}

func TestNarrateTurn(t *testing.T) {
	svc := NewService(nil, domain.DefaultRules())
	game := rigGame(t, domain.DefaultRules(),
		[]domain.Tile{{A: 2, B: 2}, {A: 0, B: 4}},
		[]domain.Tile{{A: 1, B: 1}},
	)

	evs, err := svc.Step(game)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	d := &recordingDisplay{}
	for _, ev := range evs {
		Narrate(ev, d)
	}

	want := []string{
		"Table: 0...0",
		"Player 1's turn:",
		"Played a piece from their hand.",
		"Player 1 hand: [2|2]",
		"Played pieces: [0|4]",
	}
	if len(d.lines) != len(want)+1 {
		t.Fatalf("lines = %q", d.lines)
	}
	for i, line := range want {
		if d.lines[i] != line {
			t.Fatalf("line %d = %q, want %q", i, d.lines[i], line)
		}
	}
	if !strings.HasPrefix(d.lines[len(want)], "Available pieces left: ") {
		t.Fatalf("last line = %q", d.lines[len(want)])
	}
}

func TestNarrateOutcomes(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want []string
	}{
		{
			name: "draw",
			ev:   Event{Kind: EventTilesDrawn, Payload: TilesDrawnPayload{Seat: 1, Requested: 10, Drawn: 3}},
			want: []string{"Drew 3 pieces from available pieces."},
		},
		{
			name: "pass",
			ev:   Event{Kind: EventTurnPassed, Payload: TurnPassedPayload{Seat: 0}},
			want: []string{"No available pieces to draw. Passing the turn."},
		},
		{
			name: "second player wins",
			ev:   Event{Kind: EventGameEnded, Payload: GameEndedPayload{WinnerSeat: 1}},
			want: []string{"No valid moves left. Game over!", "Player 2 wins!"},
		},
		{
			name: "tie",
			ev:   Event{Kind: EventGameEnded, Payload: GameEndedPayload{WinnerSeat: -1, Tie: true}},
			want: []string{"No valid moves left. Game over!", "It's a tie!"},
		},
		{
			name: "hand dealt",
			ev:   Event{Kind: EventHandDealt, Payload: HandDealtPayload{Seat: 1, Hand: []domain.Tile{{A: 3, B: 5}, {A: 0, B: 0}}}},
			want: []string{"Player 2 hand: [3|5] [0|0]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &recordingDisplay{}
			Narrate(tt.ev, d)
			if strings.Join(d.lines, "\n") != strings.Join(tt.want, "\n") {
				t.Fatalf("lines = %q, want %q", d.lines, tt.want)
			}
		})
	}
}

func TestRunnerPlaysToTheEnd(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs)
	logger.SetLevel(log.DebugLevel)

	d := &recordingDisplay{}
	runner := NewRunner(NewService(rand.New(rand.NewSource(7)), domain.DefaultRules()), d, logger)

	res, err := runner.Run(context.Background(), testPlayers)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if want, tie := domain.DetermineWinner(res.Pips); res.WinnerSeat != want || res.Tie != tie {
		t.Fatalf("result %+v disagrees with pips", res)
	}

	if !strings.HasPrefix(d.lines[0], "Available pieces: ") {
		t.Fatalf("first line = %q", d.lines[0])
	}
	if !strings.HasPrefix(d.lines[1], "Player 1 hand: ") || !strings.HasPrefix(d.lines[2], "Player 2 hand: ") {
		t.Fatalf("deal lines = %q", d.lines[1:3])
	}
	last := d.lines[len(d.lines)-1]
	if last != "It's a tie!" && !strings.HasSuffix(last, " wins!") {
		t.Fatalf("last line = %q", last)
	}
	if d.lines[len(d.lines)-2] != "No valid moves left. Game over!" {
		t.Fatalf("game over line missing: %q", d.lines[len(d.lines)-2])
	}

	for _, msg := range []string{"game started", "turn", "game over"} {
		if !strings.Contains(logs.String(), msg) {
			t.Fatalf("log output missing %q:\n%s", msg, logs.String())
		}
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(NewService(rand.New(rand.NewSource(7)), domain.DefaultRules()), nil, nil)
	if _, err := runner.Run(ctx, testPlayers); err != context.Canceled {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}
