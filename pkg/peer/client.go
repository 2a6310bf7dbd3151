package peer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/qnkhuat/checkerterm/pkg/checkers"
	"github.com/qnkhuat/checkerterm/pkg/protocol"
	"go.uber.org/zap"
)

const (
	ConnTimeout      = 30 * time.Second
	WriteTimeout     = 10 * time.Second
	CommandQueueSize = 20

	DefaultKeepAlive    = 7 * time.Second
	DefaultDialAttempts = 25
	DefaultDialBackoff  = 250 * time.Millisecond
)

var ErrDisconnected = errors.New("disconnected from relay")

type DialOptions struct {
	Attempts int
	Backoff  time.Duration
}

// Dial connects to the relay, retrying while it is not up yet.
func Dial(ctx context.Context, address string, opts DialOptions) (net.Conn, error) {
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultDialAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultDialBackoff
	}

	network, address := protocol.NetworkAndAddress(address)
	d := net.Dialer{Timeout: ConnTimeout}

	var err error
	for tries := 1; ; tries++ {
		var conn net.Conn
		conn, err = d.DialContext(ctx, network, address)
		if err == nil {
			return conn, nil
		}
		if tries >= opts.Attempts {
			break
		}

		select {
		case <-time.After(opts.Backoff):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrDisconnected, ctx.Err())
		}
	}
	return nil, fmt.Errorf("%w: failed to connect to %s: %v", ErrDisconnected, address, err)
}

type Options struct {
	Name      string
	Host      bool
	KeepAlive time.Duration
}

type received struct {
	msg  protocol.Message
	gone bool
	err  error
}

// Client runs one relay connection and the session it feeds. Only Run's
// goroutine touches the session.
type Client struct {
	conn    net.Conn
	opts    Options
	logger  *zap.Logger
	session *Session

	in      chan received
	out     chan []byte
	actions chan func(*Session)

	done      chan struct{}
	closeOnce sync.Once
}

// NewClient wraps an established connection. notify is called from Run's
// goroutine for every session event.
func NewClient(conn net.Conn, opts Options, notify func(Event), logger *zap.Logger) *Client {
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = DefaultKeepAlive
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		conn:    conn,
		opts:    opts,
		logger:  logger,
		in:      make(chan received, CommandQueueSize),
		out:     make(chan []byte, CommandQueueSize),
		actions: make(chan func(*Session), CommandQueueSize),
		done:    make(chan struct{}),
	}
	c.session = NewSession(opts.Name, opts.Host, c.sendMove, notify)
	return c
}

// Run dispatches relay messages and queued local actions until the
// connection drops or ctx ends.
func (c *Client) Run(ctx context.Context) error {
	go c.handleRead()
	go c.handleWrite()
	go c.handleSendKeepAlive()

	defer c.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			c.session.event(Event{Kind: EventDisconnected, Err: ErrDisconnected})
			return ErrDisconnected
		case r := <-c.in:
			if r.gone {
				err := r.err
				if err == nil {
					err = io.EOF
				}
				err = fmt.Errorf("%w: %v", ErrDisconnected, err)
				c.logger.Info("connection lost", zap.Error(err))
				c.session.event(Event{Kind: EventDisconnected, Err: err})
				return err
			}
			c.handle(r.msg)
		case f := <-c.actions:
			f(c.session)
		}
	}
}

// Do queues f to run against the session on Run's goroutine.
func (c *Client) Do(f func(*Session)) {
	select {
	case c.actions <- f:
	case <-c.done:
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

func (c *Client) handle(msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.ServerWho:
		for _, name := range m.Names {
			c.session.AddPlayer(name)
		}
		c.Send(protocol.ClientWho{Name: c.opts.Name, Host: c.opts.Host})
	case protocol.ServerConnect:
		c.logger.Info("player joined", zap.String("name", m.Name))
		c.session.AddPlayer(m.Name)
	case protocol.ServerMove:
		r := c.session.ApplyRemoteMove(m.Move)
		if !r.Status.Applied() {
			c.logger.Warn("remote move refused", zap.Stringer("move", m.Move), zap.Stringer("status", r.Status))
		}
	case protocol.ServerDisconnect:
		c.logger.Info("player left", zap.String("name", m.Name))
		c.session.RemovePlayer(m.Name)
	default:
		c.logger.Warn("unexpected command from relay", zap.String("cmd", string(msg.Command())))
	}
}

func (c *Client) sendMove(m checkers.Move) {
	c.logger.Debug("sending move", zap.Stringer("move", m))
	c.Send(protocol.ClientMove{Move: m})
}

func (c *Client) Send(m protocol.Message) {
	select {
	case c.out <- protocol.EncodeLine(m):
	case <-c.done:
	}
}

func (c *Client) handleRead() {
	lr := protocol.NewLineReader(c.conn)

	var err error
	for {
		var line string
		line, err = lr.ReadLine()
		if errors.Is(err, protocol.ErrProtocol) {
			c.logger.Warn("dropping line", zap.Error(err))
			continue
		}
		if err != nil {
			break
		}

		msg, derr := protocol.Decode(line)
		if derr != nil {
			c.logger.Warn("dropping line", zap.Error(derr))
			continue
		}
		select {
		case c.in <- received{msg: msg}:
		case <-c.done:
			return
		}
	}

	if errors.Is(err, io.EOF) {
		err = nil
	}
	select {
	case c.in <- received{gone: true, err: err}:
	case <-c.done:
	}
}

func (c *Client) handleWrite() {
	for {
		select {
		case b := <-c.out:
			if err := c.conn.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
				c.Close()
				return
			}
			if _, err := c.conn.Write(b); err != nil {
				c.logger.Warn("write failed", zap.Error(err))
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) handleSendKeepAlive() {
	t := time.NewTicker(c.opts.KeepAlive)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.Send(protocol.ClientPing{})
		case <-c.done:
			return
		}
	}
}
