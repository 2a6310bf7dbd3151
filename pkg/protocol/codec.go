package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/qnkhuat/checkerterm/pkg/checkers"
)

// ErrProtocol matches every *ProtocolError.
var ErrProtocol = errors.New("protocol error")

// ProtocolError describes a line that could not be decoded. The line should
// be dropped; the connection stays usable.
type ProtocolError struct {
	Line   string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s: %q", e.Reason, e.Line)
}

func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol
}

var nameReplacer = strings.NewReplacer(Delimiter, "", "\r", "", "\n", "")

// SanitizeName strips the characters that would break line framing.
func SanitizeName(name string) string {
	return strings.TrimSpace(nameReplacer.Replace(name))
}

// Encode renders m as a single line without the terminator.
func Encode(m Message) string {
	fields := []string{string(m.Command())}

	switch msg := m.(type) {
	case ServerWho:
		// every name is followed by a delimiter, including the last
		var sb strings.Builder
		sb.WriteString(string(CommandServerWho))
		sb.WriteString(Delimiter)
		for _, name := range msg.Names {
			sb.WriteString(SanitizeName(name))
			sb.WriteString(Delimiter)
		}
		return sb.String()
	case ClientWho:
		host := "0"
		if msg.Host {
			host = "1"
		}
		fields = append(fields, SanitizeName(msg.Name), host)
	case ServerConnect:
		fields = append(fields, SanitizeName(msg.Name))
	case ServerDisconnect:
		fields = append(fields, SanitizeName(msg.Name))
	case ClientMove:
		fields = append(fields, moveFields(msg.Move)...)
	case ServerMove:
		fields = append(fields, moveFields(msg.Move)...)
	case ClientPing:
	}

	return strings.Join(fields, Delimiter)
}

// EncodeLine is Encode plus the line terminator.
func EncodeLine(m Message) []byte {
	return []byte(Encode(m) + Terminator)
}

func moveFields(m checkers.Move) []string {
	return []string{
		strconv.Itoa(m.From.X),
		strconv.Itoa(m.From.Y),
		strconv.Itoa(m.To.X),
		strconv.Itoa(m.To.Y),
	}
}

// Decode parses one line. Trailing CR/LF is ignored.
func Decode(line string) (Message, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil, &ProtocolError{Line: line, Reason: "empty line"}
	}

	fields := strings.Split(line, Delimiter)
	cmd := Command(fields[0])
	args := fields[1:]

	switch cmd {
	case CommandServerWho:
		if len(args) > 0 && args[len(args)-1] == "" {
			args = args[:len(args)-1]
		}
		names := make([]string, 0, len(args))
		for _, name := range args {
			if name == "" {
				return nil, &ProtocolError{Line: line, Reason: "empty player name"}
			}
			names = append(names, name)
		}
		return ServerWho{Names: names}, nil
	case CommandClientWho:
		if err := expectFields(line, args, 2); err != nil {
			return nil, err
		}
		var host bool
		switch args[1] {
		case "0":
		case "1":
			host = true
		default:
			return nil, &ProtocolError{Line: line, Reason: "host flag must be 0 or 1"}
		}
		if args[0] == "" {
			return nil, &ProtocolError{Line: line, Reason: "empty player name"}
		}
		return ClientWho{Name: args[0], Host: host}, nil
	case CommandServerConnect:
		if err := expectFields(line, args, 1); err != nil {
			return nil, err
		}
		return ServerConnect{Name: args[0]}, nil
	case CommandServerDisconnect:
		if err := expectFields(line, args, 1); err != nil {
			return nil, err
		}
		return ServerDisconnect{Name: args[0]}, nil
	case CommandClientMove, CommandServerMove:
		m, err := decodeMove(line, args)
		if err != nil {
			return nil, err
		}
		if cmd == CommandClientMove {
			return ClientMove{Move: m}, nil
		}
		return ServerMove{Move: m}, nil
	case CommandClientPing:
		if err := expectFields(line, args, 0); err != nil {
			return nil, err
		}
		return ClientPing{}, nil
	default:
		return nil, &ProtocolError{Line: line, Reason: "unknown command " + strconv.Quote(string(cmd))}
	}
}

func expectFields(line string, args []string, n int) error {
	if len(args) != n {
		return &ProtocolError{Line: line, Reason: fmt.Sprintf("expected %d fields, got %d", n, len(args))}
	}
	return nil
}

func decodeMove(line string, args []string) (checkers.Move, error) {
	if err := expectFields(line, args, 4); err != nil {
		return checkers.Move{}, err
	}
	var v [4]int
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return checkers.Move{}, &ProtocolError{Line: line, Reason: fmt.Sprintf("coordinate %d is not an integer", i+1)}
		}
		v[i] = n
	}
	return checkers.NewMove(v[0], v[1], v[2], v[3]), nil
}
