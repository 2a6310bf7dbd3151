package protocol

import (
	"fmt"
	"strings"
)

// NetworkAndAddress picks unix for socket paths and adds the default port to
// bare TCP hosts.
func NetworkAndAddress(address string) (string, string) {
	if strings.ContainsAny(address, `\/`) {
		return "unix", address
	}
	if !strings.Contains(address, ":") {
		address = fmt.Sprintf("%s:%d", address, DefaultPort)
	}
	return "tcp", address
}
