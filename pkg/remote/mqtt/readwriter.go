package mqtt

import (
	"io"
	"sync"

	"github.com/robotalks/relais.go/pkg/remote"
)

// ReadWriter implements remote.PacketReadWriter over a pair of topics.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh  chan []byte
	doneCh    chan struct{}
	closeOnce sync.Once
	sub       *Subscription
}

// NewReadWriter creates a ReadWriter and subscribes SubTopic.
func NewReadWriter(q *Queue, sub, pub string) *ReadWriter {
	p := &ReadWriter{
		Queue:    q,
		SubTopic: sub,
		PubTopic: pub,
		packetCh: make(chan []byte, 16),
		doneCh:   make(chan struct{}),
	}
	p.sub = q.Sub(sub, p.handleMsg)
	return p
}

// ForDevice creates a ReadWriter using the device convention:
// commands are received from <ref>/cmd and replies/events are
// published to <ref>/msg.
func ForDevice(q *Queue, ref remote.Ref) *ReadWriter {
	prefix := ref.Name()
	return NewReadWriter(q, prefix+"/cmd", prefix+"/msg")
}

// ForClient creates a ReadWriter talking to a device.
func ForClient(q *Queue, ref remote.Ref) *ReadWriter {
	prefix := ref.Name()
	return NewReadWriter(q, prefix+"/msg", prefix+"/cmd")
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.doneCh:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.PubWith(p.PubTopic, pkt, 1, false)
	token.Wait()
	return token.Error()
}

// Close stops receiving packets. Pending reads return io.EOF.
func (p *ReadWriter) Close() (err error) {
	p.closeOnce.Do(func() {
		close(p.doneCh)
		err = p.sub.Close()
	})
	return
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.doneCh:
	}
}
