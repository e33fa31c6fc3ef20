package ports

import "domino/internal/domain"

// DisplayPort renders the human-readable game transcript.
type DisplayPort interface {
	// ShowTiles prints label followed by tiles in order on one line.
	ShowTiles(label string, tiles []domain.Tile)
	// ShowStatus prints a single status line.
	ShowStatus(msg string)
}

// NopDisplay discards everything shown to it.
type NopDisplay struct{}

func (NopDisplay) ShowTiles(string, []domain.Tile) {}
func (NopDisplay) ShowStatus(string)               {}

var _ DisplayPort = NopDisplay{}
