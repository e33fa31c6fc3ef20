package domain

import (
	"errors"
	"testing"
)

func TestDetermineWinner(t *testing.T) {
	tests := []struct {
		name     string
		pips     [2]int
		wantSeat int
		wantTie  bool
	}{
		{name: "higher total wins for player 1", pips: [2]int{40, 35}, wantSeat: 0},
		{name: "higher total wins for player 2", pips: [2]int{12, 30}, wantSeat: 1},
		{name: "equal totals tie", pips: [2]int{21, 21}, wantSeat: -1, wantTie: true},
		{name: "both empty tie", pips: [2]int{0, 0}, wantSeat: -1, wantTie: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seat, tie := DetermineWinner(tt.pips)
			if seat != tt.wantSeat || tie != tt.wantTie {
				t.Fatalf("DetermineWinner(%v) = (%d, %v), want (%d, %v)", tt.pips, seat, tie, tt.wantSeat, tt.wantTie)
			}
		})
	}
}

func TestRulesValidate(t *testing.T) {
	tests := []struct {
		name    string
		rules   Rules
		wantErr bool
	}{
		{name: "defaults", rules: DefaultRules()},
		{name: "whole set dealt", rules: Rules{HandSize: 14, FirstMissDraw: 1, LaterMissDraw: 1}},
		{name: "empty hands", rules: Rules{HandSize: 0}, wantErr: true},
		{name: "too many tiles", rules: Rules{HandSize: 15}, wantErr: true},
		{name: "negative draw", rules: Rules{HandSize: 7, FirstMissDraw: -1, LaterMissDraw: 1}, wantErr: true},
		{name: "zero first draw", rules: Rules{HandSize: 7, FirstMissDraw: 0, LaterMissDraw: 1}, wantErr: true},
		{name: "zero later draw", rules: Rules{HandSize: 7, FirstMissDraw: 10, LaterMissDraw: 0}, wantErr: true},
		{name: "zero later draw while drawing on block", rules: Rules{HandSize: 7, FirstMissDraw: 10, DrawWhenBlocked: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rules.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRules) {
				t.Fatalf("Validate() error %v is not ErrInvalidRules", err)
			}
		})
	}
}

func TestRulesDrawCount(t *testing.T) {
	r := DefaultRules()
	if got := r.DrawCount(0); got != 10 {
		t.Fatalf("first miss draws %d, want 10", got)
	}
	for _, draws := range []int{1, 2, 9} {
		if got := r.DrawCount(draws); got != 1 {
			t.Fatalf("draw #%d takes %d, want 1", draws+1, got)
		}
	}
}
