//go:build !windows

package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"github.com/gliderlabs/ssh"
	gossh "golang.org/x/crypto/ssh"
	"go.uber.org/zap"
)

const DefaultIdleTimeout = 10 * time.Minute

// Gateway serves the terminal client over SSH. Every interactive session
// runs ClientBinary in a pty, connected to RelayAddress.
type Gateway struct {
	Address      string
	HostKey      string
	ClientBinary string
	RelayAddress string
	IdleTimeout  time.Duration
	Logger       *zap.Logger

	server *ssh.Server
}

func (g *Gateway) ListenAndServe() error {
	if g.Address == "" {
		return errors.New("ssh gateway address must be specified")
	}
	if g.Logger == nil {
		g.Logger = zap.NewNop()
	}
	if g.IdleTimeout == 0 {
		g.IdleTimeout = DefaultIdleTimeout
	}

	g.server = &ssh.Server{
		Addr:        g.Address,
		IdleTimeout: g.IdleTimeout,
		Handler:     g.handle,
		PtyCallback: func(ctx ssh.Context, pty ssh.Pty) bool {
			return true
		},
		PublicKeyHandler: func(ctx ssh.Context, key ssh.PublicKey) bool {
			return true
		},
		PasswordHandler: func(ctx ssh.Context, password string) bool {
			return true
		},
		KeyboardInteractiveHandler: func(ctx ssh.Context, challenger gossh.KeyboardInteractiveChallenge) bool {
			return true
		},
	}

	if g.HostKey != "" {
		if err := g.server.SetOption(ssh.HostKeyFile(g.HostKey)); err != nil {
			return fmt.Errorf("failed to load host key %s: %w", g.HostKey, err)
		}
	}

	g.Logger.Info("ssh gateway listening", zap.String("addr", g.Address))
	err := g.server.ListenAndServe()
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

func (g *Gateway) Close() error {
	if g.server == nil {
		return nil
	}
	return g.server.Close()
}

func (g *Gateway) handle(s ssh.Session) {
	logger := g.Logger.With(zap.String("user", s.User()), zap.String("addr", s.RemoteAddr().String()))

	ptyReq, winCh, isPty := s.Pty()
	if !isPty {
		io.WriteString(s, "failed to start checkerterm: non-interactive terminals are not supported\n")
		s.Exit(1)
		return
	}

	cmdCtx, cancelCmd := context.WithCancel(s.Context())
	defer cancelCmd()

	cmd := exec.CommandContext(cmdCtx, g.ClientBinary, clientArgs(s.User(), s.Command(), g.RelayAddress)...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("TERM=%s", ptyReq.Term))

	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(ptyReq.Window.Height), Cols: uint16(ptyReq.Window.Width)})
	if err != nil {
		logger.Error("failed to start client", zap.Error(err))
		io.WriteString(s, fmt.Sprintf("failed to initialize pseudo-terminal: %s\n", err))
		s.Exit(1)
		return
	}
	defer f.Close()
	logger.Info("ssh session started")

	go func() {
		for win := range winCh {
			pty.Setsize(f, &pty.Winsize{Rows: uint16(win.Height), Cols: uint16(win.Width)})
		}
	}()

	go func() {
		io.Copy(f, s)
	}()
	io.Copy(s, f)

	cancelCmd()
	if err := cmd.Wait(); err != nil {
		logger.Debug("client exited", zap.Error(err))
	}
	logger.Info("ssh session ended")
}
