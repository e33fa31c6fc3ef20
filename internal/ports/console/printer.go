package console

import (
	"fmt"
	"io"

	"domino/internal/domain"
	"domino/internal/ports"
)

// Printer writes the transcript to w, one line per call.
type Printer struct {
	w   io.Writer
	err error
}

// NewPrinter returns a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// ShowTiles prints label and the tiles separated by single spaces.
func (p *Printer) ShowTiles(label string, tiles []domain.Tile) {
	if len(tiles) == 0 {
		p.println(label)
		return
	}
	p.println(label + " " + domain.FormatTiles(tiles))
}

// ShowStatus prints msg on its own line.
func (p *Printer) ShowStatus(msg string) {
	p.println(msg)
}

// Err returns the first write error, if any. Later writes are skipped once one fails.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) println(line string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, line)
}

var _ ports.DisplayPort = (*Printer)(nil)
