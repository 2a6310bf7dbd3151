package gui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/qnkhuat/checkerterm/pkg/checkers"
	"github.com/qnkhuat/checkerterm/pkg/peer"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// Actor runs f on the goroutine that owns the session.
type Actor interface {
	Do(f func(*peer.Session))
}

type sessionView interface {
	Game() *checkers.Controller
}

// GUI is the terminal board of one player. Its fields are only touched from
// the tview event loop.
type GUI struct {
	App     *tview.Application
	Board   *tview.Table
	Status  *tview.TextView
	Players *tview.TextView
	Layout  *tview.Grid

	name   string
	local  checkers.Color
	theme  Theme
	actor  Actor
	logger *zap.Logger

	frame   frame
	players []string
	started bool
	message string

	winner *checkers.Color
}

func New(name string, local checkers.Color, theme Theme, logger *zap.Logger) *GUI {
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &GUI{
		App:     tview.NewApplication(),
		Board:   tview.NewTable(),
		Status:  tview.NewTextView(),
		Players: tview.NewTextView(),
		name:    name,
		local:   local,
		theme:   theme,
		logger:  logger,
		frame: frame{
			board: checkers.NewStandardBoard().Snapshot(),
			mover: checkers.Red,
		},
	}

	g.Status.SetTextColor(theme.Msg)
	g.Players.SetTextColor(theme.Msg)

	g.Layout = tview.NewGrid().
		SetRows(-1, 10, 3, -1).
		SetColumns(-1, 28, 20, -1).
		AddItem(g.Board, 1, 1, 1, 1, 0, 0, true).
		AddItem(g.Players, 1, 2, 1, 1, 0, 0, false).
		AddItem(g.Status, 2, 1, 1, 2, 0, 0, false)

	g.initTable()
	g.App.SetRoot(g.Layout, true).SetInputCapture(g.capture)
	g.redraw()

	return g
}

// Attach routes input to a.
func (g *GUI) Attach(a Actor) {
	g.actor = a
}

func (g *GUI) Run() error {
	return g.App.Run()
}

func (g *GUI) Stop() {
	g.App.Stop()
}

// Winner is set once the game ended.
func (g *GUI) Winner() (checkers.Color, bool) {
	if g.winner == nil {
		return 0, false
	}
	return *g.winner, true
}

func (g *GUI) initTable() {
	g.Board.SetSelectable(true, true)
	g.Board.Select(numrows-1, 1)

	g.Board.SetSelectedFunc(func(row, col int) {
		c, ok := cellToCoord(g.local, row, col)
		if !ok {
			return
		}
		if g.frame.selected == nil {
			g.do(func(s *peer.Session) {
				if !s.Select(c) {
					g.logger.Debug("selection refused", zap.Stringer("square", c))
				}
			})
			return
		}
		g.do(func(s *peer.Session) { s.Release(c) })
	})

	g.Board.SetSelectionChangedFunc(func(row, col int) {
		if g.frame.selected == nil {
			return
		}
		if c, ok := cellToCoord(g.local, row, col); ok {
			g.do(func(s *peer.Session) { s.Drag(c) })
		}
	})

	g.Board.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEscape {
			return
		}
		if g.frame.selected != nil {
			g.do(func(s *peer.Session) { s.Cancel() })
			return
		}
		g.App.Stop()
	})
}

func (g *GUI) capture(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
		g.App.Stop()
		return nil
	}
	return ev
}

// do runs f on the session and then redraws from the session's state.
func (g *GUI) do(f func(*peer.Session)) {
	if g.actor == nil {
		return
	}
	g.actor.Do(func(s *peer.Session) {
		f(s)
		fr := frameOf(s)
		started := s.Started()
		g.App.QueueUpdateDraw(func() {
			g.frame = fr
			g.started = started
			g.redraw()
		})
	})
}

// HandleEvent is the session observer. It is called off the tview loop.
func (g *GUI) HandleEvent(ev peer.Event) {
	g.App.QueueUpdateDraw(func() {
		g.apply(ev)
		g.redraw()
	})
}

func (g *GUI) apply(ev peer.Event) {
	g.frame.board = ev.Board
	g.frame.mover = ev.Mover
	g.frame.forced = ev.Forced

	switch ev.Kind {
	case peer.EventPlayerJoined:
		g.players = append(g.players, ev.Name)
		g.message = fmt.Sprintf("%s joined", ev.Name)
	case peer.EventGameStarted:
		g.started = true
		g.message = "Game started"
	case peer.EventPlayerLeft:
		for i, p := range g.players {
			if p == ev.Name {
				g.players = append(g.players[:i], g.players[i+1:]...)
				break
			}
		}
		g.message = fmt.Sprintf("%s left the game", ev.Name)
	case peer.EventBoardChanged:
		g.frame.selected = nil
		g.message = describe(ev.Result)
	case peer.EventGameOver:
		w := ev.Result.Winner
		g.winner = &w
		g.frame.selected = nil
		g.message = fmt.Sprintf("%s wins! Press q to quit", w)
	case peer.EventDesync:
		g.message = fmt.Sprintf("Boards out of sync: %v", ev.Err)
	case peer.EventDisconnected:
		g.message = "Connection to the relay lost. Press q to quit"
	}
}

func describe(r checkers.Result) string {
	switch r.Status {
	case checkers.Cancelled:
		return ""
	case checkers.Rejected:
		return fmt.Sprintf("%s is not allowed", r.Move)
	case checkers.Continued:
		return fmt.Sprintf("%s: keep jumping", r.Move)
	}
	if r.Outcome.Promoted {
		return fmt.Sprintf("%s %s, crowned", r.Mover, r.Move)
	}
	return fmt.Sprintf("%s %s", r.Mover, r.Move)
}

func (g *GUI) redraw() {
	renderBoard(g.Board, g.local, g.frame, g.theme)

	status := statusLine(g.local, g.started, g.frame)
	if g.winner != nil {
		status = fmt.Sprintf("%s wins!", *g.winner)
	}
	if g.message != "" {
		status += "\n" + g.message
	}
	g.Status.SetText(status)
	g.Players.SetText(playerList(g.players, g.name))
}
