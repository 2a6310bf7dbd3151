package protocol

import "github.com/qnkhuat/checkerterm/pkg/checkers"

type Command string

const (
	CommandServerWho        Command = "SWHO"
	CommandClientWho        Command = "CWHO"
	CommandServerConnect    Command = "SCNN"
	CommandClientMove       Command = "CMOV"
	CommandServerMove       Command = "SMOV"
	CommandServerDisconnect Command = "SDIS"
	CommandClientPing       Command = "CPNG"
)

const (
	Delimiter   = "|"
	Terminator  = "\n"
	DefaultPort = 6321
)

type Message interface {
	Command() Command
}

// ServerWho is sent once on accept with the names already registered.
type ServerWho struct {
	Names []string
}

func (m ServerWho) Command() Command { return CommandServerWho }

// ClientWho is the client's answer to ServerWho.
type ClientWho struct {
	Name string
	Host bool
}

func (m ClientWho) Command() Command { return CommandClientWho }

// ServerConnect announces a newly registered player.
type ServerConnect struct {
	Name string
}

func (m ServerConnect) Command() Command { return CommandServerConnect }

type ClientMove struct {
	Move checkers.Move
}

func (m ClientMove) Command() Command { return CommandClientMove }

type ServerMove struct {
	Move checkers.Move
}

func (m ServerMove) Command() Command { return CommandServerMove }

// ServerDisconnect announces that a player's connection dropped.
type ServerDisconnect struct {
	Name string
}

func (m ServerDisconnect) Command() Command { return CommandServerDisconnect }

// ClientPing keeps the connection alive. The relay never forwards it.
type ClientPing struct{}

func (m ClientPing) Command() Command { return CommandClientPing }
