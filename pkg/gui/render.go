package gui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/qnkhuat/checkerterm/pkg/checkers"
	"github.com/rivo/tview"
)

const (
	numrows = 8
	numcols = 8

	manGlyph  = "●"
	kingGlyph = "◉"
)

// cellToCoord maps a table cell to a board coordinate. Column 0 holds the
// rank labels and the last row holds the file labels. Each side sees its
// own pieces at the bottom.
func cellToCoord(local checkers.Color, row, col int) (checkers.Coord, bool) {
	if row < 0 || row >= numrows || col < 1 || col > numcols {
		return checkers.Coord{}, false
	}
	x, y := col-1, row
	if local == checkers.Red {
		y = numrows - row - 1
	} else {
		x = numcols - col
	}
	return checkers.Coord{X: x, Y: y}, true
}

func coordToCell(local checkers.Color, c checkers.Coord) (row, col int) {
	if local == checkers.Red {
		return numrows - c.Y - 1, c.X + 1
	}
	return c.Y, numcols - c.X
}

// frame is what the board view draws.
type frame struct {
	board    checkers.Snapshot
	mover    checkers.Color
	selected *checkers.Coord
	forced   []checkers.Coord
}

func frameOf(s sessionView) frame {
	g := s.Game()
	f := frame{
		board:  g.Board().Snapshot(),
		mover:  g.Mover(),
		forced: g.Forced(),
	}
	if c, ok := g.Selected(); ok {
		f.selected = &c
	}
	return f
}

func squareBg(c checkers.Coord, f frame, t Theme) tcell.Color {
	if f.selected != nil && *f.selected == c {
		return t.SquareHigh
	}
	for _, fc := range f.forced {
		if fc == c {
			return t.SquareForced
		}
	}
	if (c.X+c.Y)%2 == 1 {
		return t.SquareDark
	}
	return t.SquareLight
}

func pieceText(sq checkers.Square) string {
	switch {
	case !sq.Occupied:
		return "  "
	case sq.King:
		return " " + kingGlyph
	default:
		return " " + manGlyph
	}
}

// renderBoard redraws every cell of table from f.
func renderBoard(table *tview.Table, local checkers.Color, f frame, t Theme) {
	for row := 0; row <= numrows; row++ {
		for col := 0; col <= numcols; col++ {
			if col == 0 && row != numrows { // rank label
				c, _ := cellToCoord(local, row, 1)
				table.SetCell(row, col, tview.NewTableCell(fmt.Sprintf("%d", c.Y)).
					SetAlign(tview.AlignCenter).
					SetTextColor(t.Rank).
					SetSelectable(false))
				continue
			}
			if row == numrows { // file labels
				text := ""
				if col > 0 {
					c, _ := cellToCoord(local, 0, col)
					text = fmt.Sprintf(" %d", c.X)
				}
				table.SetCell(row, col, tview.NewTableCell(text).
					SetAlign(tview.AlignCenter).
					SetTextColor(t.Rank).
					SetSelectable(false))
				continue
			}

			c, _ := cellToCoord(local, row, col)
			sq := f.board[c.X][c.Y]
			fg := t.Black
			if sq.Occupied && sq.Color == checkers.Red {
				fg = t.Red
			}
			table.SetCell(row, col, tview.NewTableCell(pieceText(sq)).
				SetAlign(tview.AlignCenter).
				SetTextColor(fg).
				SetBackgroundColor(squareBg(c, f, t)))
		}
	}
}

// statusLine describes whose turn it is from the local player's side.
func statusLine(local checkers.Color, started bool, f frame) string {
	switch {
	case !started:
		return "Waiting for an opponent..."
	case f.mover == local && len(f.forced) > 0:
		return fmt.Sprintf("Your move (%s): capture required", local)
	case f.mover == local:
		return fmt.Sprintf("Your move (%s)", local)
	default:
		return fmt.Sprintf("Waiting for %s", f.mover)
	}
}

func playerList(players []string, name string) string {
	var b strings.Builder
	b.WriteString("Players\n\n")
	for _, p := range players {
		if p == name {
			fmt.Fprintf(&b, "* %s\n", p)
		} else {
			fmt.Fprintf(&b, "  %s\n", p)
		}
	}
	return b.String()
}
