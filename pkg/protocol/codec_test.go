package protocol

import (
	"errors"
	"testing"

	"github.com/qnkhuat/checkerterm/pkg/checkers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		msg  Message
		want string
	}{
		{ServerWho{}, "SWHO|"},
		{ServerWho{Names: []string{"alice", "bob"}}, "SWHO|alice|bob|"},
		{ClientWho{Name: "alice", Host: true}, "CWHO|alice|1"},
		{ClientWho{Name: "bob"}, "CWHO|bob|0"},
		{ServerConnect{Name: "bob"}, "SCNN|bob"},
		{ServerDisconnect{Name: "bob"}, "SDIS|bob"},
		{ClientMove{Move: checkers.NewMove(1, 2, 2, 3)}, "CMOV|1|2|2|3"},
		{ServerMove{Move: checkers.NewMove(1, 2, 2, 3)}, "SMOV|1|2|2|3"},
		{ClientPing{}, "CPNG"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.msg))
		})
	}
}

func TestEncodeSanitizesNames(t *testing.T) {
	assert.Equal(t, "CWHO|abc|0", Encode(ClientWho{Name: "a|b\nc"}))
	assert.Equal(t, "SWHO|xy|", Encode(ServerWho{Names: []string{"x|y"}}))
	assert.Equal(t, []byte("SCNN|bob\n"), EncodeLine(ServerConnect{Name: "bob"}))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		line string
		want Message
	}{
		{"SWHO|", ServerWho{Names: []string{}}},
		{"SWHO", ServerWho{Names: []string{}}},
		{"SWHO|alice|", ServerWho{Names: []string{"alice"}}},
		{"SWHO|alice|bob|\r\n", ServerWho{Names: []string{"alice", "bob"}}},
		{"CWHO|alice|1", ClientWho{Name: "alice", Host: true}},
		{"CWHO|bob|0\n", ClientWho{Name: "bob"}},
		{"SCNN|bob", ServerConnect{Name: "bob"}},
		{"SDIS|bob", ServerDisconnect{Name: "bob"}},
		{"CMOV|1|2|2|3", ClientMove{Move: checkers.NewMove(1, 2, 2, 3)}},
		{"SMOV|7|0|-1|9", ServerMove{Move: checkers.NewMove(7, 0, -1, 9)}},
		{"CPNG", ClientPing{}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Decode(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	lines := []string{
		"",
		"\n",
		"HELLO|world",
		"cmov|1|2|2|3",
		"CMOV|1|2|2",
		"CMOV|1|2|2|3|4",
		"CMOV|a|2|2|3",
		"SMOV|1|2|2|3.0",
		"CWHO|alice",
		"CWHO|alice|yes",
		"CWHO||1",
		"SCNN",
		"SCNN|a|b",
		"SWHO|alice||",
		"CPNG|1",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			msg, err := Decode(line)
			assert.Nil(t, msg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrProtocol))

			var perr *ProtocolError
			require.True(t, errors.As(err, &perr))
			assert.NotEmpty(t, perr.Reason)
		})
	}
}

func TestMoveRoundTrip(t *testing.T) {
	for fx := 0; fx < 8; fx++ {
		for fy := 0; fy < 8; fy++ {
			m := checkers.NewMove(fx, fy, 7-fx, 7-fy)

			decoded, err := Decode(Encode(ClientMove{Move: m}))
			require.NoError(t, err)
			assert.Equal(t, ClientMove{Move: m}, decoded)

			decoded, err = Decode(Encode(ServerMove{Move: m}))
			require.NoError(t, err)
			assert.Equal(t, ServerMove{Move: m}, decoded)
		}
	}
}
