//go:build windows

package ssh

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// SSH gateway is unsupported on Windows

type Gateway struct {
	Address      string
	HostKey      string
	ClientBinary string
	RelayAddress string
	IdleTimeout  time.Duration
	Logger       *zap.Logger
}

func (g *Gateway) ListenAndServe() error {
	return errors.New("ssh gateway is unsupported on windows")
}

func (g *Gateway) Close() error {
	return nil
}
