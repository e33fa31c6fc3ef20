package app

import (
	"fmt"

	"domino/internal/ports"
)

// Narrate renders ev as transcript lines on d. Events it does not know are ignored.
func Narrate(ev Event, d ports.DisplayPort) {
	switch p := ev.Payload.(type) {
	case GameStartedPayload:
		d.ShowTiles("Available pieces:", p.Pile)
	case HandDealtPayload:
		d.ShowTiles(seatLabel(p.Seat)+" hand:", p.Hand)
	case TurnStartedPayload:
		d.ShowStatus(fmt.Sprintf("Table: %d...%d", p.Tail, p.Head))
		d.ShowStatus(seatLabel(p.Seat) + "'s turn:")
	case TilePlayedPayload:
		d.ShowStatus("Played a piece from their hand.")
	case TilesDrawnPayload:
		d.ShowStatus(fmt.Sprintf("Drew %d pieces from available pieces.", p.Drawn))
	case TurnPassedPayload:
		d.ShowStatus("No available pieces to draw. Passing the turn.")
	case TurnEndedPayload:
		d.ShowTiles(seatLabel(p.Seat)+" hand:", p.Hand)
		d.ShowTiles("Played pieces:", p.Played)
		d.ShowTiles("Available pieces left:", p.Pile)
	case GameEndedPayload:
		d.ShowStatus("No valid moves left. Game over!")
		if p.Tie {
			d.ShowStatus("It's a tie!")
		} else {
			d.ShowStatus(seatLabel(p.WinnerSeat) + " wins!")
		}
	}
}

// seatLabel names a seat the way players see it.
func seatLabel(seat int) string {
	return fmt.Sprintf("Player %d", seat+1)
}
