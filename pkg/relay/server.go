package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qnkhuat/checkerterm/pkg/protocol"
	"go.uber.org/zap"
)

const (
	DefaultMaxPeers    = 2
	DefaultIdleTimeout = 30 * time.Second
)

var (
	ErrRosterFull   = errors.New("roster is full")
	ErrServerClosed = errors.New("relay server closed")
)

type Options struct {
	MaxPeers    int
	IdleTimeout time.Duration
}

// Server relays protocol lines between peers. It reads command tags for the
// roster only and never interprets moves.
type Server struct {
	opts   Options
	logger *zap.Logger
	roster Roster

	join   chan net.Conn
	events chan inbound

	started   chan struct{}
	startOnce sync.Once

	done      chan struct{}
	closeOnce sync.Once

	mu        sync.Mutex
	listeners []net.Listener
}

func NewServer(opts Options, logger *zap.Logger) *Server {
	if opts.MaxPeers <= 0 {
		opts.MaxPeers = DefaultMaxPeers
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		opts:    opts,
		logger:  logger,
		join:    make(chan net.Conn),
		events:  make(chan inbound, CommandQueueSize),
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}

	go s.dispatch()

	return s
}

// Started is closed the moment the roster first reaches two peers.
func (s *Server) Started() <-chan struct{} {
	return s.started
}

func (s *Server) Roster() []ClientRecord {
	return s.roster.Snapshot()
}

// Listen serves on a TCP address or unix socket path until ctx ends or the
// server is closed.
func (s *Server) Listen(ctx context.Context, address string) error {
	network, address := protocol.NetworkAndAddress(address)

	l, err := net.Listen(network, address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return s.Serve(ctx, l)
}

// Serve accepts connections from l. Acceptance runs independently of the
// dispatcher and re-arms immediately.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()

	s.logger.Info("relay listening", zap.String("addr", l.Addr().String()))

	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
		}
		l.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-s.done:
				return ErrServerClosed
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}

		select {
		case s.join <- conn:
		case <-s.done:
			conn.Close()
			return ErrServerClosed
		}
	}
}

func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		for _, l := range s.listeners {
			l.Close()
		}
		s.mu.Unlock()
	})
	return nil
}

// dispatch is the only goroutine that mutates the roster or writes to peers,
// so relay order is the order lines arrive here.
func (s *Server) dispatch() {
	for {
		select {
		case conn := <-s.join:
			s.handleJoin(conn)
		case in := <-s.events:
			if in.gone {
				s.handleLeave(in)
			} else {
				s.handleLine(in)
			}
		case <-s.done:
			for _, rec := range s.roster.recipients(uuid.Nil) {
				rec.conn.Close()
			}
			return
		}
	}
}

func (s *Server) handleJoin(conn net.Conn) {
	addr := conn.RemoteAddr().String()

	if s.roster.Len() >= s.opts.MaxPeers {
		s.logger.Warn("refusing connection", zap.String("addr", addr), zap.Error(ErrRosterFull))
		conn.Close()
		return
	}

	rec := &ClientRecord{ID: uuid.New(), Addr: addr}
	logger := s.logger.With(zap.Stringer("peer", rec.ID), zap.String("addr", addr))
	rec.conn = newPeerConn(conn, s.opts.IdleTimeout, logger)

	names := s.roster.Names()
	s.roster.add(rec)

	go rec.conn.handleRead(rec, s.events, s.done)
	go rec.conn.handleWrite()

	rec.conn.Send(protocol.EncodeLine(protocol.ServerWho{Names: names}))
	logger.Info("peer connected", zap.Int("peers", s.roster.Len()))

	if s.roster.Len() == 2 {
		s.startOnce.Do(func() {
			s.logger.Info("game start")
			close(s.started)
		})
	}
}

func (s *Server) handleLine(in inbound) {
	logger := s.logger.With(zap.Stringer("peer", in.record.ID))

	msg, err := protocol.Decode(in.line)
	if err != nil {
		logger.Warn("dropping line", zap.Error(err))
		return
	}

	switch m := msg.(type) {
	case protocol.ClientWho:
		if in.record.Registered {
			logger.Warn("ignoring repeated registration", zap.String("name", m.Name))
			return
		}
		rec := s.roster.register(in.record.ID, m.Name, m.Host)
		if rec == nil {
			return
		}
		logger.Info("peer registered", zap.String("name", m.Name), zap.Bool("host", m.Host))
		s.broadcast(protocol.ServerConnect{Name: m.Name}, uuid.Nil)
	case protocol.ClientMove:
		// relayed re-encoded from the decoded coordinates
		logger.Debug("relaying move", zap.Stringer("move", m.Move))
		s.broadcast(protocol.ServerMove{Move: m.Move}, in.record.ID)
	case protocol.ClientPing:
	default:
		logger.Warn("unexpected command from peer", zap.String("cmd", string(msg.Command())))
	}
}

func (s *Server) handleLeave(d inbound) {
	rec := s.roster.remove(d.record.ID)
	if rec == nil {
		return
	}
	rec.conn.Close()

	fields := []zap.Field{zap.Stringer("peer", rec.ID), zap.String("name", rec.Name), zap.Int("peers", s.roster.Len())}
	if d.err != nil {
		fields = append(fields, zap.Error(d.err))
	}
	s.logger.Info("peer disconnected", fields...)

	if rec.Registered {
		s.broadcast(protocol.ServerDisconnect{Name: rec.Name}, rec.ID)
	}
}

// broadcast sends m to every peer except the one with id except.
func (s *Server) broadcast(m protocol.Message, except uuid.UUID) {
	line := protocol.EncodeLine(m)
	for _, rec := range s.roster.recipients(except) {
		rec.conn.Send(line)
	}
}
