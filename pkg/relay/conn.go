package relay

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/qnkhuat/checkerterm/pkg/protocol"
	"go.uber.org/zap"
)

const (
	CommandQueueSize = 20
	WriteTimeout     = 10 * time.Second
)

// inbound is a line from a peer, or its departure when gone is set. Both
// travel on one channel so a departure never overtakes the peer's lines.
type inbound struct {
	record *ClientRecord
	line   string
	gone   bool
	err    error
}

// peerConn runs the read and write loops of one accepted connection.
type peerConn struct {
	net.Conn

	idleTimeout time.Duration
	out         chan []byte
	done        chan struct{}
	closeOnce   sync.Once

	logger *zap.Logger
}

func newPeerConn(conn net.Conn, idleTimeout time.Duration, logger *zap.Logger) *peerConn {
	return &peerConn{
		Conn:        conn,
		idleTimeout: idleTimeout,
		out:         make(chan []byte, CommandQueueSize),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// handleRead forwards every line to the dispatcher until the peer goes away,
// then reports the departure. A silent peer is dropped after idleTimeout.
// Over-long lines are discarded and the peer stays connected.
func (p *peerConn) handleRead(rec *ClientRecord, events chan<- inbound, stop <-chan struct{}) {
	lr := protocol.NewLineReader(p.Conn)

	var err error
	for {
		if p.idleTimeout > 0 {
			if err = p.SetReadDeadline(time.Now().Add(p.idleTimeout)); err != nil {
				break
			}
		}

		var line string
		line, err = lr.ReadLine()
		if errors.Is(err, protocol.ErrProtocol) {
			p.logger.Warn("dropping line", zap.Error(err))
			continue
		}
		if err != nil {
			break
		}

		select {
		case events <- inbound{record: rec, line: line}:
		case <-stop:
			return
		}
	}

	if errors.Is(err, io.EOF) {
		err = nil
	}
	select {
	case events <- inbound{record: rec, gone: true, err: err}:
	case <-stop:
	}
}

func (p *peerConn) handleWrite() {
	for {
		select {
		case b := <-p.out:
			if err := p.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
				p.Close()
				return
			}
			if _, err := p.Conn.Write(b); err != nil {
				p.logger.Debug("write failed", zap.Error(err))
				p.Close()
				return
			}
		case <-p.done:
			return
		}
	}
}

// Send queues a line. A peer whose queue is full is closed so one stalled
// client cannot hold up the dispatcher.
func (p *peerConn) Send(b []byte) {
	select {
	case <-p.done:
		return
	default:
	}

	select {
	case p.out <- b:
	default:
		p.logger.Warn("send queue full, closing connection")
		p.Close()
	}
}

func (p *peerConn) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.Conn.Close()
	})
}
