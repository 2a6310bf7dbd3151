package peer

import "github.com/qnkhuat/checkerterm/pkg/checkers"

type EventKind int

const (
	EventPlayerJoined EventKind = iota
	EventGameStarted
	EventBoardChanged
	EventPlayerLeft
	EventGameOver
	EventDesync
	EventDisconnected
)

func (k EventKind) String() string {
	switch k {
	case EventPlayerJoined:
		return "player-joined"
	case EventGameStarted:
		return "game-started"
	case EventBoardChanged:
		return "board-changed"
	case EventPlayerLeft:
		return "player-left"
	case EventGameOver:
		return "game-over"
	case EventDesync:
		return "desync"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event tells the renderer what happened. Board, Mover and Forced are always
// the state after the event.
type Event struct {
	Kind   EventKind
	Name   string // joined or departed player
	Result checkers.Result
	Board  checkers.Snapshot
	Mover  checkers.Color
	Forced []checkers.Coord
	Err    error
}
