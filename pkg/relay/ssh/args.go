package ssh

import (
	"strings"

	"github.com/qnkhuat/checkerterm/pkg/config"
	"github.com/qnkhuat/checkerterm/pkg/protocol"
)

// HostCommand is the SSH command that asks to host the game, as in
// `ssh -t relay.example host`.
const HostCommand = "host"

// clientArgs builds the terminal client's arguments for one SSH session.
func clientArgs(user string, command []string, relayAddress string) []string {
	name := protocol.SanitizeName(user)
	if name == "" {
		name = config.DefaultName()
	}

	args := []string{"--name", name, "--server", relayAddress}
	for _, c := range command {
		if strings.EqualFold(c, HostCommand) {
			args = append(args, "--host")
			break
		}
	}
	return args
}
