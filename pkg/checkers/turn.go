package checkers

import "errors"

// ErrGameOver is reported by callers that try to move after a victory.
var ErrGameOver = errors.New("the game is over")

type Phase int

const (
	AwaitingSelection Phase = iota
	Dragging
	Resolving
	GameOver
)

func (p Phase) String() string {
	switch p {
	case AwaitingSelection:
		return "AwaitingSelection"
	case Dragging:
		return "Dragging"
	case Resolving:
		return "Resolving"
	case GameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Status is how a resolved move ended.
type Status int

const (
	Cancelled Status = iota
	Rejected
	Continued
	HandedOff
	Won
)

func (s Status) String() string {
	switch s {
	case Cancelled:
		return "Cancelled"
	case Rejected:
		return "Rejected"
	case Continued:
		return "Continued"
	case HandedOff:
		return "HandedOff"
	case Won:
		return "Won"
	default:
		return "Unknown"
	}
}

// Applied reports whether the board changed.
func (s Status) Applied() bool {
	return s == Continued || s == HandedOff || s == Won
}

type Result struct {
	Status  Status
	Move    Move
	Mover   Color // side that attempted the move
	Next    Color // side to move afterwards
	Outcome MoveOutcome
	Winner  Color // valid when Status == Won
}

// Controller sequences turns over a board it owns exclusively.
type Controller struct {
	board *Board
	emit  func(Move)

	mover  Color
	phase  Phase
	forced []Coord

	// jumping is set while a multi-jump is in progress
	jumping *Coord

	selected *Coord
	pointer  Coord

	winner Color
}

// NewController starts with Red to move. emit receives every legal move made
// through AttemptMove or Release; it may be nil.
func NewController(b *Board, emit func(Move)) *Controller {
	tc := &Controller{board: b, emit: emit, mover: Red}
	tc.forced = ForcedPieces(b, tc.mover)
	if w, ok := Victor(b); ok {
		tc.phase = GameOver
		tc.winner = w
	}
	return tc
}

func (tc *Controller) Board() *Board { return tc.board }
func (tc *Controller) Mover() Color  { return tc.mover }
func (tc *Controller) Phase() Phase  { return tc.phase }

func (tc *Controller) Forced() []Coord {
	out := make([]Coord, len(tc.forced))
	copy(out, tc.forced)
	return out
}

func (tc *Controller) Selected() (Coord, bool) {
	if tc.selected == nil {
		return Coord{}, false
	}
	return *tc.selected, true
}

func (tc *Controller) Pointer() Coord { return tc.pointer }

func (tc *Controller) Winner() (Color, bool) {
	return tc.winner, tc.phase == GameOver
}

func (tc *Controller) isForced(c Coord) bool {
	for _, f := range tc.forced {
		if f == c {
			return true
		}
	}
	return false
}

// Select picks up a piece of the side to move.
func (tc *Controller) Select(c Coord) bool {
	if tc.phase != AwaitingSelection {
		return false
	}
	p := tc.board.PieceAt(c)
	if p == nil || p.Color != tc.mover {
		return false
	}
	if len(tc.forced) > 0 && !tc.isForced(c) {
		return false
	}
	tc.selected = &c
	tc.pointer = c
	tc.phase = Dragging
	return true
}

// Drag records the cell under the pointer while a piece is held.
func (tc *Controller) Drag(c Coord) {
	if tc.phase == Dragging {
		tc.pointer = c
	}
}

// Release drops the held piece on to.
func (tc *Controller) Release(to Coord) Result {
	if tc.phase != Dragging || tc.selected == nil {
		return Result{Status: Rejected, Mover: tc.mover, Next: tc.mover}
	}
	return tc.AttemptMove(Move{From: *tc.selected, To: to})
}

// AttemptMove resolves a local move and emits it when it was applied.
func (tc *Controller) AttemptMove(m Move) Result {
	r := tc.resolve(m)
	if r.Status.Applied() && tc.emit != nil {
		tc.emit(m)
	}
	return r
}

// ApplyRemoteMove replays a move the peer already made. The same rules run,
// so both boards go through identical transitions.
func (tc *Controller) ApplyRemoteMove(m Move) Result {
	return tc.resolve(m)
}

func (tc *Controller) resolve(m Move) Result {
	r := Result{Move: m, Mover: tc.mover, Next: tc.mover}
	if tc.phase == GameOver {
		r.Status = Rejected
		r.Winner = tc.winner
		return r
	}

	tc.phase = Resolving
	tc.selected = nil
	tc.forced = tc.currentForced()

	if !m.To.InBounds() || m.From == m.To {
		r.Status = Cancelled
		tc.phase = AwaitingSelection
		return r
	}

	capture := m.IsJump()
	if !IsLegalMove(tc.board, tc.mover, m) ||
		(len(tc.forced) > 0 && (!capture || !tc.isForced(m.From))) {
		r.Status = Rejected
		tc.phase = AwaitingSelection
		return r
	}

	r.Outcome = ApplyMove(tc.board, m)

	if r.Outcome.Captured != nil && HasFurtherCapture(tc.board, m.To) {
		to := m.To
		tc.jumping = &to
		tc.forced = []Coord{to}
		tc.phase = AwaitingSelection
		r.Status = Continued
		return r
	}

	tc.jumping = nil
	tc.mover = tc.mover.Opponent()
	tc.forced = ForcedPieces(tc.board, tc.mover)
	r.Next = tc.mover

	if w, ok := Victor(tc.board); ok {
		tc.winner = w
		tc.phase = GameOver
		r.Status = Won
		r.Winner = w
		return r
	}

	tc.phase = AwaitingSelection
	r.Status = HandedOff
	return r
}

// currentForced is the pre-move forced set. During a multi-jump only the
// jumping piece may move.
func (tc *Controller) currentForced() []Coord {
	if tc.jumping != nil {
		if CanCapture(tc.board, *tc.jumping) {
			return []Coord{*tc.jumping}
		}
		tc.jumping = nil
	}
	return ForcedPieces(tc.board, tc.mover)
}
