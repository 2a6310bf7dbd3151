package protocol

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader(t *testing.T) {
	lr := NewLineReader(strings.NewReader("SWHO|\r\nCMOV|1|2|2|3\n\nCPNG"))

	for _, want := range []string{"SWHO|", "CMOV|1|2|2|3", "", "CPNG"} {
		line, err := lr.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
	_, err := lr.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReaderSkipsLongLine(t *testing.T) {
	long := "CMOV|" + strings.Repeat("7", 70*1024)
	lr := NewLineReader(strings.NewReader(long + "\nCMOV|1|2|2|3\n"))

	_, err := lr.ReadLine()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProtocol))
	var perr *ProtocolError
	require.True(t, errors.As(err, &perr))
	assert.True(t, strings.HasPrefix(perr.Line, "CMOV|777"))

	line, err := lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "CMOV|1|2|2|3", line)
}

func TestLineReaderLimit(t *testing.T) {
	lr := NewLineReaderSize(strings.NewReader("CPNG\nCMOV|1|2|2|3\nSWHO|\n"), 12)

	line, err := lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "CPNG", line)

	// exactly at the limit is still a line
	line, err = lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "CMOV|1|2|2|3", line)

	lr = NewLineReaderSize(strings.NewReader("CMOV|10|20|30|40\nCPNG\n"), 15)
	_, err = lr.ReadLine()
	assert.ErrorIs(t, err, ErrProtocol)
	line, err = lr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "CPNG", line)
}
