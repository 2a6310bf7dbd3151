package checkers

type Color int

const (
	Red Color = iota
	Black
)

func (c Color) String() string {
	switch c {
	case Red:
		return "Red"
	case Black:
		return "Black"
	default:
		return "Unknown"
	}
}

func (c Color) Opponent() Color {
	if c == Red {
		return Black
	}
	return Red
}

// Forward is the vertical step a man of this color moves by.
func (c Color) Forward() int {
	if c == Red {
		return 1
	}
	return -1
}

// PromotionRow is the far row where a man of this color is crowned.
func PromotionRow(c Color) int {
	if c == Red {
		return numrows - 1
	}
	return 0
}

type Rank int

const (
	Man Rank = iota
	King
)

func (r Rank) String() string {
	if r == King {
		return "King"
	}
	return "Man"
}

type Piece struct {
	Color Color
	Rank  Rank
}

func NewPiece(c Color) *Piece {
	return &Piece{Color: c, Rank: Man}
}

func (p *Piece) IsKing() bool {
	return p.Rank == King
}

// Directions returns the vertical steps the piece may move or capture along.
func (p *Piece) Directions() []int {
	if p.IsKing() {
		return []int{1, -1}
	}
	return []int{p.Color.Forward()}
}

func (p *Piece) allows(dy int) bool {
	for _, d := range p.Directions() {
		if d == dy {
			return true
		}
	}
	return false
}

func (p *Piece) String() string {
	switch {
	case p.Color == Red && p.IsKing():
		return "R"
	case p.Color == Red:
		return "r"
	case p.IsKing():
		return "B"
	default:
		return "b"
	}
}
