package peer

import (
	"testing"

	"github.com/qnkhuat/checkerterm/pkg/checkers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
	moves  []checkers.Move
}

func (r *recorder) notify(ev Event)      { r.events = append(r.events, ev) }
func (r *recorder) emit(m checkers.Move) { r.moves = append(r.moves, m) }
func (r *recorder) last() Event          { return r.events[len(r.events)-1] }

func (r *recorder) kinds() (out []EventKind) {
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func startedSession(t *testing.T, host bool) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := NewSession("alice", host, rec.emit, rec.notify)
	s.AddPlayer("alice")
	s.AddPlayer("bob")
	require.True(t, s.Started())
	rec.events = nil
	return s, rec
}

func TestSessionColors(t *testing.T) {
	host := NewSession("alice", true, nil, nil)
	guest := NewSession("bob", false, nil, nil)

	assert.Equal(t, checkers.Red, host.Color)
	assert.Equal(t, checkers.Black, guest.Color)
	assert.Equal(t, checkers.Red, host.Game().Mover())
}

func TestSessionStartsWithTwoPlayers(t *testing.T) {
	rec := &recorder{}
	s := NewSession("alice", true, rec.emit, rec.notify)

	s.AddPlayer("alice")
	assert.False(t, s.Started())
	assert.False(t, s.Select(checkers.Coord{X: 1, Y: 2}), "input before the game starts")

	s.AddPlayer("bob")
	assert.True(t, s.Started())
	assert.Equal(t, []string{"alice", "bob"}, s.Players())
	assert.Equal(t, []EventKind{EventPlayerJoined, EventPlayerJoined, EventGameStarted}, rec.kinds())
}

func TestSessionLocalMove(t *testing.T) {
	s, rec := startedSession(t, true)

	require.True(t, s.Select(checkers.Coord{X: 1, Y: 2}))
	s.Drag(checkers.Coord{X: 2, Y: 3})
	r := s.Release(checkers.Coord{X: 2, Y: 3})

	assert.Equal(t, checkers.HandedOff, r.Status)
	assert.Equal(t, []checkers.Move{checkers.NewMove(1, 2, 2, 3)}, rec.moves)
	require.Len(t, rec.events, 1)
	assert.Equal(t, EventBoardChanged, rec.last().Kind)
	assert.True(t, rec.last().Board[2][3].Occupied)
	assert.False(t, rec.last().Board[1][2].Occupied)

	// now Black's turn; the host may not move
	assert.False(t, s.LocalTurn())
	assert.False(t, s.Select(checkers.Coord{X: 3, Y: 2}))
}

func TestSessionGuestWaitsForRed(t *testing.T) {
	s, rec := startedSession(t, false)

	assert.False(t, s.LocalTurn())
	assert.False(t, s.Select(checkers.Coord{X: 2, Y: 5}))
	r := s.Release(checkers.Coord{X: 3, Y: 4})
	assert.Equal(t, checkers.Rejected, r.Status)
	assert.Empty(t, rec.events)

	r = s.ApplyRemoteMove(checkers.NewMove(1, 2, 2, 3))
	assert.Equal(t, checkers.HandedOff, r.Status)
	assert.Empty(t, rec.moves, "remote moves are not sent back")
	assert.True(t, s.LocalTurn())
	assert.True(t, s.Select(checkers.Coord{X: 2, Y: 5}))
}

func TestSessionReportsForcedCapture(t *testing.T) {
	s, rec := startedSession(t, true)

	require.True(t, s.Select(checkers.Coord{X: 1, Y: 2}))
	s.Release(checkers.Coord{X: 2, Y: 3})
	assert.Empty(t, rec.last().Forced)

	// black steps next to the red man, which must now capture
	r := s.ApplyRemoteMove(checkers.NewMove(4, 5, 3, 4))
	require.Equal(t, checkers.HandedOff, r.Status)

	ev := rec.last()
	assert.Equal(t, EventBoardChanged, ev.Kind)
	assert.Equal(t, checkers.Red, ev.Mover)
	assert.Equal(t, []checkers.Coord{{X: 2, Y: 3}}, ev.Forced)
}

func TestSessionCancel(t *testing.T) {
	s, rec := startedSession(t, true)

	require.True(t, s.Select(checkers.Coord{X: 1, Y: 2}))
	r := s.Cancel()

	assert.Equal(t, checkers.Cancelled, r.Status)
	assert.Empty(t, rec.moves)
	assert.True(t, s.LocalTurn())
	assert.True(t, rec.last().Board[1][2].Occupied)
}

func TestSessionDesync(t *testing.T) {
	s, rec := startedSession(t, false)

	r := s.ApplyRemoteMove(checkers.NewMove(1, 2, 1, 3))
	assert.Equal(t, checkers.Rejected, r.Status)
	require.Len(t, rec.events, 1)
	assert.Equal(t, EventDesync, rec.last().Kind)
	assert.Error(t, rec.last().Err)
	assert.Equal(t, checkers.Red, s.Game().Mover())
}

func TestSessionPlayerLeft(t *testing.T) {
	s, rec := startedSession(t, true)

	s.RemovePlayer("bob")
	assert.Equal(t, []string{"alice"}, s.Players())
	assert.Equal(t, EventPlayerLeft, rec.last().Kind)
	assert.Equal(t, "bob", rec.last().Name)
}
