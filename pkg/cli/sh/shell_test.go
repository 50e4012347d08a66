package sh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/relais.go/pkg/framework"
	"github.com/robotalks/relais.go/pkg/msgs"
	pb "github.com/robotalks/relais.go/pkg/proto/relais/v1"
	"github.com/robotalks/relais.go/pkg/relais"
	"github.com/robotalks/relais.go/pkg/relais/relaistest"
)

func TestParseByte(t *testing.T) {
	testCases := []struct {
		in  string
		out byte
		ok  bool
	}{
		{"0", 0, true},
		{"255", 255, true},
		{"0xff", 255, true},
		{"0b101", 5, true},
		{"010", 8, true},
		{"256", 0, false},
		{"-1", 0, false},
		{"x", 0, false},
	}
	for _, tc := range testCases {
		v, err := ParseByte(tc.in)
		if !tc.ok {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.out, v, tc.in)
	}
}

func TestParseAddrData(t *testing.T) {
	addr, data, first, err := ParseAddrData([]string{"0x0f"})
	require.NoError(t, err)
	require.True(t, first)
	require.Equal(t, byte(0), addr)
	require.Equal(t, byte(0x0f), data)

	addr, data, first, err = ParseAddrData([]string{"2", "3"})
	require.NoError(t, err)
	require.False(t, first)
	require.Equal(t, byte(2), addr)
	require.Equal(t, byte(3), data)

	_, _, _, err = ParseAddrData(nil)
	require.Error(t, err)
	_, _, _, err = ParseAddrData([]string{"1", "2", "3"})
	require.Error(t, err)
	_, _, _, err = ParseAddrData([]string{"1", "300"})
	require.Error(t, err)
}

func TestParseFrame(t *testing.T) {
	f, err := parseFrame([]string{"3", "1", "0xff"})
	require.NoError(t, err)
	require.Equal(t, relais.NewFrame(relais.CmdSetPort, 1, 0xff), f)
	_, err = parseFrame([]string{"3", "1"})
	require.Error(t, err)
}

func TestFormatReply(t *testing.T) {
	out, err := FormatReply(msgs.NewCommandOK(), false)
	require.NoError(t, err)
	require.Equal(t, "OK", out)

	reply := &msgs.RelaysReply{RelaysReply: pb.RelaysReply{Address: 1, Data: 5}}
	out, err = FormatReply(reply, false)
	require.NoError(t, err)
	require.Equal(t, "1: 00000101", out)

	out, err = FormatReply(reply, true)
	require.NoError(t, err)
	require.JSONEq(t, `{"address":1,"data":5}`, out)
}

func TestShellSimulated(t *testing.T) {
	s := &Shell{Config: relais.NewConfig(), Simulate: 2}
	require.NoError(t, s.Open())
	defer s.Close()
	require.True(t, s.Relais.Initialized())
	require.Equal(t, 2, s.Relais.NumberOfBoards())

	cmd := &msgs.ChannelCommand{}
	cmd.Channel = 3
	cmd.Action = pb.ChannelCommand_ON
	reply, err := s.Execute(cmd)
	require.NoError(t, err)
	require.Equal(t, uint32(4), reply.(*msgs.RelaysReply).Data)

	_, err = s.Execute(&msgs.CommandOK{})
	require.Error(t, err)

	s.Close()
	require.Nil(t, s.Relais)
	_, err = s.Execute(cmd)
	require.Error(t, err)
}

func TestDecodeFrame(t *testing.T) {
	f, err := decodeFrame([]string{"0xfc", "1", "0x2a", "0xd7"})
	require.NoError(t, err)
	require.Equal(t, "reply to SET PORT address=1 data=00101010", FormatFrame(f))

	f, err = decodeFrame([]string{"6", "1", "4", "3"})
	require.NoError(t, err)
	require.Equal(t, "SET SINGLE address=1 data=00000100", FormatFrame(f))

	_, err = decodeFrame([]string{"0xfc", "1", "0x2a", "0"})
	require.Error(t, err)
	_, err = decodeFrame([]string{"1", "2"})
	require.Error(t, err)
}

type closableChain struct {
	*relaistest.Chain
	closed bool
}

func (c *closableChain) Close() error {
	c.closed = true
	return nil
}

func TestShellReopen(t *testing.T) {
	var chains []*closableChain
	s := &Shell{Config: relais.NewConfig()}
	s.Opener = func() (*relais.Relais, error) {
		for _, c := range chains {
			require.True(t, c.closed, "previous chain still open")
		}
		chain := &closableChain{Chain: relaistest.NewChain(1)}
		chains = append(chains, chain)
		return relais.New(chain, relais.WithDelay(0)), nil
	}
	require.NoError(t, s.Open())
	require.NoError(t, s.Open())
	require.Len(t, chains, 2)
	require.True(t, s.Relais.Initialized())
	require.False(t, chains[1].closed)

	openErr := errors.New("no such port")
	s.Opener = func() (*relais.Relais, error) { return nil, openErr }
	require.Equal(t, openErr, s.Open())
	require.True(t, chains[1].closed)
	require.Nil(t, s.Relais)
	require.Nil(t, s.Service)
}

func TestShellRaw(t *testing.T) {
	chain := relaistest.NewChain(1)
	s := &Shell{Opener: func() (*relais.Relais, error) {
		return relais.New(chain, relais.WithDelay(0)), nil
	}}
	_, err := s.Raw(relais.NewFrame(relais.CmdSetPort, 1, 0x81))
	require.Error(t, err)

	require.NoError(t, s.Open())
	var events int
	s.Service.Watch(func(fx.Message) { events++ })
	session, err := s.Raw(relais.NewFrame(relais.CmdSetPort, 1, 0x81))
	require.NoError(t, err)
	require.Equal(t, byte(0x81), session.LastData)
	require.Equal(t, byte(0x81), chain.Relays(1))
	require.Equal(t, 1, events)
}

func TestFormatInfo(t *testing.T) {
	s := &Shell{Simulate: 2}
	require.NoError(t, s.Open())
	require.Equal(t, "Port:         simulated\n"+
		"Manufacturer: Conrad Electronic SE\n"+
		"Model:        197720\n"+
		"Firmware:     11\n"+
		"Boards:       2\n"+
		"Initialized:  true\n"+
		"First:        1\n", FormatInfo(s.Service.Info()))
}
