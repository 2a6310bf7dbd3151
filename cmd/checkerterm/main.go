package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/qnkhuat/checkerterm/pkg/checkers"
	"github.com/qnkhuat/checkerterm/pkg/config"
	"github.com/qnkhuat/checkerterm/pkg/gui"
	"github.com/qnkhuat/checkerterm/pkg/obslog"
	"github.com/qnkhuat/checkerterm/pkg/peer"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		server     = flag.String("server", "", "relay address")
		name       = flag.String("name", "", "player name")
		host       = flag.Bool("host", false, "host the game and play Red")
		theme      = flag.String("theme", "", "board theme")
		logLevel   = flag.String("log-level", "", "log level")
		logFile    = flag.String("log-file", "", "log file")
	)
	header := "Environment variables:"
	flag.Usage = cleanenv.FUsage(flag.CommandLine.Output(), &config.Client{}, &header, flag.Usage)
	flag.Parse()

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		fail(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			cfg.Server = *server
		case "name":
			cfg.Name = *name
		case "host":
			cfg.Host = *host
		case "theme":
			cfg.Theme = *theme
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-file":
			cfg.Log.File = *logFile
		}
	})

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fail(fmt.Errorf("checkerterm needs an interactive terminal"))
	}

	th, err := gui.ThemeByName(cfg.Theme)
	if err != nil {
		fail(err)
	}

	logger, err := obslog.New(obslog.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File, Name: "client"})
	if err != nil {
		fail(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := peer.Dial(ctx, cfg.Server, peer.DialOptions{Attempts: cfg.DialAttempts, Backoff: cfg.DialBackoff})
	if err != nil {
		fail(err)
	}
	logger.Info("connected", zap.String("server", cfg.Server), zap.String("name", cfg.Name), zap.Bool("host", cfg.Host))

	local := checkers.Black
	if cfg.Host {
		local = checkers.Red
	}

	g := gui.New(cfg.Name, local, th, logger)
	cl := peer.NewClient(conn, peer.Options{Name: cfg.Name, Host: cfg.Host, KeepAlive: cfg.KeepAlive}, g.HandleEvent, logger)
	g.Attach(cl)

	go func() {
		if err := cl.Run(ctx); err != nil {
			logger.Info("client stopped", zap.Error(err))
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc,
		syscall.SIGINT,
		syscall.SIGTERM)
	go func() {
		<-sigc
		g.Stop()
	}()

	if err := g.Run(); err != nil {
		logger.Error("terminal ui failed", zap.Error(err))
	}

	cancel()
	cl.Close()

	if winner, ok := g.Winner(); ok {
		gui.Announce(os.Stdout, winner, local)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
