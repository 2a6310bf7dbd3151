package peer

import (
	"fmt"

	"github.com/qnkhuat/checkerterm/pkg/checkers"
)

// Session is the game as one peer sees it. It is not safe for concurrent
// use; Client serializes every call on its dispatch loop.
type Session struct {
	Name  string
	Host  bool
	Color checkers.Color

	players []string
	started bool

	game   *checkers.Controller
	notify func(Event)
}

// NewSession sets up a standard board. The host plays Red and moves first.
// emit receives every local move to forward to the relay.
func NewSession(name string, host bool, emit func(checkers.Move), notify func(Event)) *Session {
	color := checkers.Black
	if host {
		color = checkers.Red
	}
	if notify == nil {
		notify = func(Event) {}
	}
	return &Session{
		Name:   name,
		Host:   host,
		Color:  color,
		game:   checkers.NewController(checkers.NewStandardBoard(), emit),
		notify: notify,
	}
}

func (s *Session) Game() *checkers.Controller { return s.game }

func (s *Session) Started() bool { return s.started }

func (s *Session) Players() []string {
	out := make([]string, len(s.players))
	copy(out, s.players)
	return out
}

// LocalTurn reports whether local input is accepted right now.
func (s *Session) LocalTurn() bool {
	return s.started && s.game.Phase() != checkers.GameOver && s.game.Mover() == s.Color
}

func (s *Session) AddPlayer(name string) {
	s.players = append(s.players, name)
	s.event(Event{Kind: EventPlayerJoined, Name: name})

	if !s.started && len(s.players) >= 2 {
		s.started = true
		s.event(Event{Kind: EventGameStarted})
	}
}

func (s *Session) RemovePlayer(name string) {
	for i, p := range s.players {
		if p == name {
			s.players = append(s.players[:i], s.players[i+1:]...)
			break
		}
	}
	s.event(Event{Kind: EventPlayerLeft, Name: name})
}

func (s *Session) Select(c checkers.Coord) bool {
	if !s.LocalTurn() {
		return false
	}
	return s.game.Select(c)
}

func (s *Session) Drag(c checkers.Coord) {
	if s.LocalTurn() {
		s.game.Drag(c)
	}
}

// Release drops the held piece. Releasing off the board cancels the drag.
func (s *Session) Release(to checkers.Coord) checkers.Result {
	if !s.LocalTurn() {
		return checkers.Result{Status: checkers.Rejected, Mover: s.game.Mover(), Next: s.game.Mover()}
	}
	r := s.game.Release(to)
	s.resolved(r)
	return r
}

// Cancel snaps a held piece back to where it was picked up.
func (s *Session) Cancel() checkers.Result {
	return s.Release(checkers.Coord{X: -1, Y: -1})
}

// ApplyRemoteMove replays the opponent's move. A move the local rules refuse
// means the boards have diverged and is reported as EventDesync.
func (s *Session) ApplyRemoteMove(m checkers.Move) checkers.Result {
	r := s.game.ApplyRemoteMove(m)
	if !r.Status.Applied() {
		err := fmt.Errorf("remote move %s %s", m, r.Status)
		if r.Status == checkers.Rejected && s.game.Phase() == checkers.GameOver {
			err = fmt.Errorf("remote move %s: %w", m, checkers.ErrGameOver)
		}
		s.event(Event{Kind: EventDesync, Result: r, Err: err})
		return r
	}
	s.resolved(r)
	return r
}

func (s *Session) resolved(r checkers.Result) {
	if r.Status == checkers.Won {
		s.event(Event{Kind: EventGameOver, Result: r})
		return
	}
	s.event(Event{Kind: EventBoardChanged, Result: r})
}

func (s *Session) event(ev Event) {
	ev.Board = s.game.Board().Snapshot()
	ev.Mover = s.game.Mover()
	ev.Forced = s.game.Forced()
	s.notify(ev)
}
