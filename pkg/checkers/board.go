package checkers

import (
	"errors"
	"fmt"
	"strings"
)

const (
	numrows = 8
	numcols = 8
)

var (
	// ErrPosition occurs when a coordinate falls outside the 8x8 grid
	ErrPosition = errors.New("position is out of range")
	// ErrOccupied occurs when a piece is placed or moved onto a taken cell
	ErrOccupied = errors.New("the position is occupied")
	// ErrEmpty occurs when moving from a cell that holds no piece
	ErrEmpty = errors.New("the position is empty")
)

type Coord struct {
	X, Y int
}

func (c Coord) InBounds() bool {
	return c.X >= 0 && c.X < numcols && c.Y >= 0 && c.Y < numrows
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

type Move struct {
	From Coord
	To   Coord
}

func NewMove(fromX, fromY, toX, toY int) Move {
	return Move{From: Coord{fromX, fromY}, To: Coord{toX, toY}}
}

func (m Move) dx() int { return m.To.X - m.From.X }
func (m Move) dy() int { return m.To.Y - m.From.Y }

// IsJump reports whether the move covers two diagonal squares.
func (m Move) IsJump() bool {
	return abs(m.dx()) == 2 && abs(m.dy()) == 2
}

func (m Move) Midpoint() Coord {
	return Coord{(m.From.X + m.To.X) / 2, (m.From.Y + m.To.Y) / 2}
}

func (m Move) String() string {
	return fmt.Sprintf("%s->%s", m.From, m.To)
}

// Board is the 8x8 grid. A cell holds nil or the piece standing on it.
type Board struct {
	cells [numcols][numrows]*Piece
}

func NewBoard() *Board {
	return &Board{}
}

// NewStandardBoard returns the opening position: Red on rows 0-2, Black on
// rows 5-7, dark squares only.
func NewStandardBoard() *Board {
	b := NewBoard()
	for y := 0; y < numrows; y++ {
		var color Color
		switch {
		case y < 3:
			color = Red
		case y > 4:
			color = Black
		default:
			continue
		}
		for x := (y + 1) % 2; x < numcols; x += 2 {
			b.cells[x][y] = NewPiece(color)
		}
	}
	return b
}

func (b *Board) PieceAt(c Coord) *Piece {
	if !c.InBounds() {
		return nil
	}
	return b.cells[c.X][c.Y]
}

func (b *Board) Place(p *Piece, c Coord) error {
	if !c.InBounds() {
		return fmt.Errorf("%w: %s", ErrPosition, c)
	}
	if b.cells[c.X][c.Y] != nil {
		return fmt.Errorf("%w: %s", ErrOccupied, c)
	}
	b.cells[c.X][c.Y] = p
	return nil
}

// Remove clears the cell and returns what was on it.
func (b *Board) Remove(c Coord) *Piece {
	if !c.InBounds() {
		return nil
	}
	p := b.cells[c.X][c.Y]
	b.cells[c.X][c.Y] = nil
	return p
}

// Move relocates a piece without consulting any rule.
func (b *Board) Move(from, to Coord) error {
	if !from.InBounds() || !to.InBounds() {
		return fmt.Errorf("%w: %s->%s", ErrPosition, from, to)
	}
	p := b.cells[from.X][from.Y]
	if p == nil {
		return fmt.Errorf("%w: %s", ErrEmpty, from)
	}
	if b.cells[to.X][to.Y] != nil {
		return fmt.Errorf("%w: %s", ErrOccupied, to)
	}
	b.cells[to.X][to.Y] = p
	b.cells[from.X][from.Y] = nil
	return nil
}

func (b *Board) Count(color Color) int {
	n := 0
	for x := 0; x < numcols; x++ {
		for y := 0; y < numrows; y++ {
			if p := b.cells[x][y]; p != nil && p.Color == color {
				n++
			}
		}
	}
	return n
}

// Square is the render view of a cell.
type Square struct {
	Occupied bool
	Color    Color
	King     bool
}

// Snapshot is a value copy of the board indexed [x][y].
type Snapshot [numcols][numrows]Square

func (b *Board) Snapshot() Snapshot {
	var s Snapshot
	for x := 0; x < numcols; x++ {
		for y := 0; y < numrows; y++ {
			if p := b.cells[x][y]; p != nil {
				s[x][y] = Square{Occupied: true, Color: p.Color, King: p.IsKing()}
			}
		}
	}
	return s
}

// String draws the board with row 7 on top.
func (b *Board) String() string {
	var sb strings.Builder
	for y := numrows - 1; y >= 0; y-- {
		fmt.Fprintf(&sb, "%d ", y)
		for x := 0; x < numcols; x++ {
			if p := b.cells[x][y]; p != nil {
				sb.WriteString(p.String())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  01234567\n")
	return sb.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
