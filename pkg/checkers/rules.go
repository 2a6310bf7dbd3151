package checkers

// MoveOutcome is what ApplyMove did besides relocating the piece.
type MoveOutcome struct {
	Captured *Coord
	Promoted bool
}

// IsLegalMove checks the shape of a single step or jump for a piece of color.
// Forced capture is judged separately, see ForcedPieces.
func IsLegalMove(b *Board, color Color, m Move) bool {
	if !m.From.InBounds() || !m.To.InBounds() {
		return false
	}
	p := b.PieceAt(m.From)
	if p == nil || p.Color != color {
		return false
	}
	if b.PieceAt(m.To) != nil {
		return false
	}

	dx, dy := m.dx(), m.dy()
	if abs(dx) != abs(dy) {
		return false
	}

	switch abs(dx) {
	case 1:
		return p.allows(dy)
	case 2:
		if !p.allows(dy / 2) {
			return false
		}
		mid := b.PieceAt(m.Midpoint())
		return mid != nil && mid.Color != color
	default:
		return false
	}
}

// CanCapture reports whether the piece on c has a jump available.
func CanCapture(b *Board, c Coord) bool {
	p := b.PieceAt(c)
	if p == nil {
		return false
	}
	for _, dy := range p.Directions() {
		for _, dx := range []int{-1, 1} {
			m := Move{From: c, To: Coord{c.X + 2*dx, c.Y + 2*dy}}
			if IsLegalMove(b, p.Color, m) {
				return true
			}
		}
	}
	return false
}

// ForcedPieces lists every piece of color that has a capture, ordered by x
// then y. A non-empty result makes capturing mandatory.
func ForcedPieces(b *Board, color Color) []Coord {
	var forced []Coord
	for x := 0; x < numcols; x++ {
		for y := 0; y < numrows; y++ {
			c := Coord{x, y}
			if p := b.PieceAt(c); p != nil && p.Color == color && CanCapture(b, c) {
				forced = append(forced, c)
			}
		}
	}
	return forced
}

// ApplyMove relocates the piece, removes a jumped piece and crowns a man that
// lands on its far row. The move must already be legal.
func ApplyMove(b *Board, m Move) MoveOutcome {
	var out MoveOutcome

	p := b.PieceAt(m.From)
	if p == nil {
		return out
	}

	if m.IsJump() {
		mid := m.Midpoint()
		if b.Remove(mid) != nil {
			out.Captured = &mid
		}
	}

	if err := b.Move(m.From, m.To); err != nil {
		return out
	}

	if !p.IsKing() && m.To.Y == PromotionRow(p.Color) {
		p.Rank = King
		out.Promoted = true
	}
	return out
}

// HasFurtherCapture is checked on the square the piece landed on.
func HasFurtherCapture(b *Board, c Coord) bool {
	return CanCapture(b, c)
}

// Victor returns the color whose opponent has no pieces left.
func Victor(b *Board) (Color, bool) {
	red, black := b.Count(Red), b.Count(Black)
	switch {
	case black == 0 && red > 0:
		return Red, true
	case red == 0 && black > 0:
		return Black, true
	default:
		return Red, false
	}
}
