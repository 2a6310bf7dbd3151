package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxLineLength bounds a single line, terminator excluded. No valid command
// comes close.
const MaxLineLength = 4096

const errorPrefixLen = 32

// LineReader splits a stream into lines. A line longer than the limit is
// discarded up to its terminator and reported as a *ProtocolError; reading
// can continue after it.
type LineReader struct {
	r   *bufio.Reader
	max int
}

func NewLineReader(r io.Reader) *LineReader {
	return NewLineReaderSize(r, MaxLineLength)
}

func NewLineReaderSize(r io.Reader, max int) *LineReader {
	return &LineReader{r: bufio.NewReaderSize(r, max+len(Terminator)), max: max}
}

// ReadLine returns the next line without its terminator. An unterminated
// final line is returned before io.EOF.
func (lr *LineReader) ReadLine() (string, error) {
	var (
		buf     []byte
		prefix  string
		tooLong bool
	)
	for {
		chunk, err := lr.r.ReadSlice('\n')
		if !tooLong {
			buf = append(buf, chunk...)
			if len(strings.TrimRight(string(buf), "\r\n")) > lr.max {
				tooLong = true
				prefix = string(buf[:min(len(buf), errorPrefixLen)])
				buf = nil
			}
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(buf) > 0 {
				return strings.TrimRight(string(buf), "\r\n"), nil
			}
			return "", err
		}
		break
	}

	if tooLong {
		return "", &ProtocolError{Line: prefix, Reason: fmt.Sprintf("line longer than %d bytes", lr.max)}
	}
	return strings.TrimRight(string(buf), "\r\n"), nil
}
