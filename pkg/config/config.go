package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/ilyakaznacheev/cleanenv"
)

type Log struct {
	Level  string `yaml:"level" env:"CHECKERS_LOG_LEVEL" env-default:"info" env-description:"log level (debug, info, warn, error)"`
	Format string `yaml:"format" env:"CHECKERS_LOG_FORMAT" env-default:"console" env-description:"log format (console or json)"`
	File   string `yaml:"file" env:"CHECKERS_LOG_FILE" env-description:"log file path, empty for stderr"`
}

type SSH struct {
	Address      string        `yaml:"address" env:"CHECKERS_SSH_LISTEN" env-description:"serve the terminal client over SSH on this address"`
	HostKey      string        `yaml:"host-key" env:"CHECKERS_SSH_HOST_KEY" env-description:"SSH host key file, generated when empty"`
	ClientBinary string        `yaml:"client-binary" env:"CHECKERS_SSH_CLIENT" env-default:"checkerterm" env-description:"terminal client started for each SSH session"`
	IdleTimeout  time.Duration `yaml:"idle-timeout" env:"CHECKERS_SSH_IDLE_TIMEOUT" env-default:"10m" env-description:"close idle SSH sessions"`
}

// Server configures the relay.
type Server struct {
	Listen      string        `yaml:"listen" env:"CHECKERS_LISTEN" env-default:":6321" env-description:"relay listen address"`
	MaxPeers    int           `yaml:"max-peers" env:"CHECKERS_MAX_PEERS" env-default:"2" env-description:"connections accepted at once"`
	IdleTimeout time.Duration `yaml:"idle-timeout" env:"CHECKERS_IDLE_TIMEOUT" env-default:"30s" env-description:"drop peers silent for this long"`
	SSH         SSH           `yaml:"ssh"`
	Log         Log           `yaml:"log"`
}

// Client configures the terminal client.
type Client struct {
	Server       string        `yaml:"server" env:"CHECKERS_SERVER" env-default:"127.0.0.1:6321" env-description:"relay address"`
	Name         string        `yaml:"name" env:"CHECKERS_NAME" env-description:"player name, random when empty"`
	Host         bool          `yaml:"host" env:"CHECKERS_HOST" env-default:"false" env-description:"host the game and play Red"`
	KeepAlive    time.Duration `yaml:"keep-alive" env:"CHECKERS_KEEP_ALIVE" env-default:"7s" env-description:"interval between keep-alive pings"`
	DialAttempts int           `yaml:"dial-attempts" env:"CHECKERS_DIAL_ATTEMPTS" env-default:"25" env-description:"connection attempts before giving up"`
	DialBackoff  time.Duration `yaml:"dial-backoff" env:"CHECKERS_DIAL_BACKOFF" env-default:"250ms" env-description:"pause between connection attempts"`
	Theme        string        `yaml:"theme" env:"CHECKERS_THEME" env-default:"classic" env-description:"board theme (classic or mono)"`
	Log          Log           `yaml:"log"`
}

// Load fills cfg from an optional YAML file and then from the environment.
func Load(path string, cfg interface{}) error {
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return fmt.Errorf("unable to load config file %s: %w", path, err)
		}
		return nil
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("unable to read environment: %w", err)
	}
	return nil
}

func LoadServer(path string) (*Server, error) {
	cfg := &Server{}
	if err := Load(path, cfg); err != nil {
		return nil, err
	}
	if cfg.MaxPeers < 2 {
		return nil, fmt.Errorf("max-peers must be at least 2, got %d", cfg.MaxPeers)
	}
	return cfg, nil
}

func LoadClient(path string) (*Client, error) {
	cfg := &Client{}
	if err := Load(path, cfg); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName()
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaultClientLog()
	}
	return cfg, nil
}

// DefaultName returns a random two word player name.
func DefaultName() string {
	return petname.Generate(2, "-")
}

func defaultClientLog() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "checkerterm.log"
	}
	return filepath.Join(dir, "checkerterm", "client.log")
}
