package remote

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/relais.go/pkg/framework"
	"github.com/robotalks/relais.go/pkg/msgs"
	pb "github.com/robotalks/relais.go/pkg/proto/relais/v1"
	"github.com/robotalks/relais.go/pkg/relais"
	"github.com/robotalks/relais.go/pkg/relais/relaistest"
)

type chanPacketRW struct {
	in  chan []byte
	out chan []byte
}

func newChanPacketRW() *chanPacketRW {
	return &chanPacketRW{in: make(chan []byte, 1), out: make(chan []byte, 4)}
}

func (c *chanPacketRW) ReadPacket() ([]byte, error) {
	pkt, ok := <-c.in
	if !ok {
		return nil, io.EOF
	}
	return pkt, nil
}

func (c *chanPacketRW) WritePacket(pkt []byte) error {
	c.out <- pkt
	return nil
}

func newTestService(boards int) (*Service, *relaistest.Chain) {
	chain := relaistest.NewChain(boards)
	return NewService(relais.New(chain, relais.WithDelay(0), relais.WithDevicePort("sim"))), chain
}

func encodePacket(t *testing.T, msg fx.Message, seq uint32) []byte {
	typed, err := msgs.TypedFrom(msg)
	require.NoError(t, err)
	typed.Sequence = seq
	pkt, err := typed.Encode()
	require.NoError(t, err)
	return pkt
}

func receive(t *testing.T, ch <-chan []byte) (*msgs.Typed, fx.Message) {
	select {
	case pkt := <-ch:
		typed, err := msgs.DecodeTyped(pkt)
		require.NoError(t, err)
		msg, err := typed.Decode()
		require.NoError(t, err)
		return typed, msg
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
	return nil, nil
}

func TestServiceExecute(t *testing.T) {
	svc, chain := newTestService(2)
	var events []fx.Message
	unwatch := svc.Watch(func(msg fx.Message) { events = append(events, msg) })

	reply := svc.Execute(&msgs.RelaysCommand{RelaysCommand: pb.RelaysCommand{Command: 3, FirstBoard: true, Data: 0x0f}})
	require.Equal(t, &msgs.RelaysReply{RelaysReply: pb.RelaysReply{Address: 1, Data: 0x0f}}, reply)
	require.Equal(t, byte(0x0f), chain.Relays(1))

	reply = svc.Execute(&msgs.RelaysCommand{RelaysCommand: pb.RelaysCommand{Command: 6, Address: 2, Data: 0x80}})
	require.Equal(t, &msgs.RelaysReply{RelaysReply: pb.RelaysReply{Address: 2, Data: 0x80}}, reply)
	require.Equal(t, byte(0x80), chain.Relays(2))

	reply = svc.Execute(&msgs.ChannelCommand{ChannelCommand: pb.ChannelCommand{Channel: 1, Action: pb.ChannelCommand_TOGGLE}})
	require.Equal(t, &msgs.RelaysReply{RelaysReply: pb.RelaysReply{Address: 2, Data: 0x01}}, reply)
	require.Equal(t, byte(0x81), chain.Relays(2))

	require.Len(t, events, 3)
	require.Equal(t, &msgs.RelaysStatus{RelaysStatus: pb.RelaysStatus{Command: 8, Address: 2, Data: 0x01}}, events[2])

	unwatch()
	reply = svc.Execute(&msgs.RelaysCommand{RelaysCommand: pb.RelaysCommand{Command: 2, Address: 1, Data: 0xff}})
	require.Equal(t, &msgs.RelaysReply{RelaysReply: pb.RelaysReply{Address: 1, Data: 0x0f}}, reply)
	require.Len(t, events, 3)
	require.Equal(t, relais.CmdGetPort, chain.Frames()[len(chain.Frames())-1].Command())
	require.Equal(t, byte(0), chain.Frames()[len(chain.Frames())-1].Data())
}

func TestServiceErrors(t *testing.T) {
	svc, _ := newTestService(1)
	testCases := []struct {
		name string
		msg  fx.Message
		err  string
	}{
		{"setup not allowed", &msgs.RelaysCommand{RelaysCommand: pb.RelaysCommand{Command: 1, Address: 1}}, msgs.ErrUnsupportedCommand.Error()},
		{"data out of range", &msgs.RelaysCommand{RelaysCommand: pb.RelaysCommand{Command: 3, Address: 1, Data: 256}}, "address 1 or data 256 out of range"},
		{"no board", &msgs.RelaysCommand{RelaysCommand: pb.RelaysCommand{Command: 2, Address: 7}}, "response too short: "},
		{"bad action", &msgs.ChannelCommand{ChannelCommand: pb.ChannelCommand{Channel: 1, Action: 5}}, msgs.ErrUnsupportedCommand.Error()},
		{"reply as command", &msgs.CommandOK{}, msgs.ErrUnsupportedCommand.Error()},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reply := svc.Execute(tc.msg)
			cmdErr, ok := reply.(*msgs.CommandErr)
			require.True(t, ok, "unexpected reply %v", reply)
			require.Equal(t, tc.err, cmdErr.Message)
		})
	}
}

func TestServiceInfo(t *testing.T) {
	svc, _ := newTestService(3)
	require.Equal(t, &msgs.DeviceInfo{DeviceInfo: pb.DeviceInfo{
		DevicePort:      "sim",
		Manufacturer:    relais.Manufacturer,
		Model:           relais.Model,
		FirmwareVersion: "11",
		Boards:          3,
		Initialized:     true,
		FirstAddress:    1,
	}}, svc.Info())
}

func TestPipe(t *testing.T) {
	svc, chain := newTestService(1)
	rw := newChanPacketRW()
	pipe := NewPipe(rw, svc)
	errCh := make(chan error, 1)
	go func() { errCh <- pipe.Run(context.Background()) }()

	rw.in <- encodePacket(t, &msgs.ChannelCommand{ChannelCommand: pb.ChannelCommand{Channel: 3}}, 1)
	received := make(map[msgs.Class]fx.Message)
	for i := 0; i < 2; i++ {
		typed, msg := receive(t, rw.out)
		if typed.Class() == msgs.ClassReply {
			require.Equal(t, uint32(1), typed.Sequence)
		}
		received[typed.Class()] = msg
	}
	require.Equal(t, &msgs.RelaysStatus{RelaysStatus: pb.RelaysStatus{Command: 6, Address: 1, Data: 0x04}}, received[msgs.ClassEvent])
	require.Equal(t, &msgs.RelaysReply{RelaysReply: pb.RelaysReply{Address: 1, Data: 0x04}}, received[msgs.ClassReply])
	require.Equal(t, byte(0x04), chain.Relays(1))

	rw.in <- encodePacket(t, &msgs.DeviceInfoQuery{}, 2)
	typed, msg := receive(t, rw.out)
	require.Equal(t, uint32(2), typed.Sequence)
	require.Equal(t, "11", msg.(*msgs.DeviceInfo).FirmwareVersion)

	rw.in <- encodePacket(t, &msgs.RelaysStatus{}, 0)
	rw.in <- encodePacket(t, &msgs.RelaysCommand{RelaysCommand: pb.RelaysCommand{Command: 2, Address: 9}}, 3)
	typed, msg = receive(t, rw.out)
	require.Equal(t, uint32(3), typed.Sequence)
	_, ok := msg.(*msgs.CommandErr)
	require.True(t, ok)

	close(rw.in)
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("pipe not stopped")
	}
}

// stalledPacketRW never completes a write until released.
type stalledPacketRW struct {
	in      chan []byte
	writes  chan struct{}
	release chan struct{}
}

func (c *stalledPacketRW) ReadPacket() ([]byte, error) {
	pkt, ok := <-c.in
	if !ok {
		return nil, io.EOF
	}
	return pkt, nil
}

func (c *stalledPacketRW) WritePacket(pkt []byte) error {
	select {
	case c.writes <- struct{}{}:
	default:
	}
	<-c.release
	return nil
}

func TestPipeStalledPeer(t *testing.T) {
	svc, chain := newTestService(1)
	rw := &stalledPacketRW{
		in:      make(chan []byte),
		writes:  make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	defer close(rw.release)
	errCh := make(chan error, 1)
	go func() { errCh <- NewPipe(rw, svc).Run(context.Background()) }()

	// wait until the pipe watches events.
	for i := 0; ; i++ {
		svc.watchLock.RLock()
		n := len(svc.watchers)
		svc.watchLock.RUnlock()
		if n > 0 {
			break
		}
		require.True(t, i < 100, "pipe not watching")
		time.Sleep(10 * time.Millisecond)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < EventQueueSize*2; i++ {
			svc.Execute(&msgs.ChannelCommand{ChannelCommand: pb.ChannelCommand{Channel: 1, Action: pb.ChannelCommand_TOGGLE}})
		}
		unwatch := svc.Watch(func(fx.Message) {})
		unwatch()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("commands blocked by a peer not reading events")
	}
	select {
	case <-rw.writes:
	case <-time.After(time.Second):
		t.Fatal("no event sent to peer")
	}
	require.Equal(t, byte(0), chain.Relays(1))

	close(rw.in)
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("pipe not stopped")
	}
}

func TestServiceDo(t *testing.T) {
	svc, chain := newTestService(1)
	var events []fx.Message
	svc.Watch(func(msg fx.Message) { events = append(events, msg) })

	session, err := svc.Do(relais.CmdSetPort, true, 0, 0x3c)
	require.NoError(t, err)
	require.Equal(t, byte(0x3c), session.LastData)
	require.Equal(t, byte(0x3c), chain.Relays(1))
	require.Len(t, events, 1)

	_, err = svc.Do(relais.CmdSetPort, false, 9, 0x01)
	require.Error(t, err)
	require.Len(t, events, 1)
}
