package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/qnkhuat/checkerterm/pkg/config"
	"github.com/qnkhuat/checkerterm/pkg/obslog"
	"github.com/qnkhuat/checkerterm/pkg/relay"
	"github.com/qnkhuat/checkerterm/pkg/relay/ssh"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		listen     = flag.String("listen", "", "relay listen address or unix socket path")
		maxPeers   = flag.Int("max-peers", 0, "connections accepted at once")
		sshAddress = flag.String("ssh", "", "serve the terminal client over SSH on this address")
		sshHostKey = flag.String("ssh-host-key", "", "SSH host key file")
		sshClient  = flag.String("ssh-client", "", "terminal client binary started for SSH sessions")
		logLevel   = flag.String("log-level", "", "log level")
		logFile    = flag.String("log-file", "", "log file, stderr when empty")
	)
	header := "Environment variables:"
	flag.Usage = cleanenv.FUsage(flag.CommandLine.Output(), &config.Server{}, &header, flag.Usage)
	flag.Parse()

	cfg, err := config.LoadServer(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			cfg.Listen = *listen
		case "max-peers":
			cfg.MaxPeers = *maxPeers
		case "ssh":
			cfg.SSH.Address = *sshAddress
		case "ssh-host-key":
			cfg.SSH.HostKey = *sshHostKey
		case "ssh-client":
			cfg.SSH.ClientBinary = *sshClient
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-file":
			cfg.Log.File = *logFile
		}
	})

	logger, err := obslog.New(obslog.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File, Name: "relay"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := relay.NewServer(relay.Options{MaxPeers: cfg.MaxPeers, IdleTimeout: cfg.IdleTimeout}, logger)
	errc := make(chan error, 2)
	go func() {
		errc <- srv.Listen(ctx, cfg.Listen)
	}()

	var gateway *ssh.Gateway
	if cfg.SSH.Address != "" {
		gateway = &ssh.Gateway{
			Address:      cfg.SSH.Address,
			HostKey:      cfg.SSH.HostKey,
			ClientBinary: cfg.SSH.ClientBinary,
			RelayAddress: localAddress(cfg.Listen),
			IdleTimeout:  cfg.SSH.IdleTimeout,
			Logger:       logger.Named("ssh"),
		}
		go func() {
			errc <- gateway.ListenAndServe()
		}()
	}

	go func() {
		<-srv.Started()
		logger.Info("two players connected")
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc,
		syscall.SIGINT,
		syscall.SIGTERM)

	select {
	case sig := <-sigc:
		logger.Info("shutting down", zap.Stringer("signal", sig))
	case err := <-errc:
		if err != nil && !errors.Is(err, relay.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
		}
	}

	cancel()
	srv.Close()
	if gateway != nil {
		gateway.Close()
	}
}

// localAddress is the address SSH sessions use to reach the relay on this
// host.
func localAddress(listen string) string {
	if strings.HasPrefix(listen, ":") {
		return "127.0.0.1" + listen
	}
	return listen
}
