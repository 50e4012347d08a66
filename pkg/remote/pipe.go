package remote

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/relais.go/pkg/framework"
	"github.com/robotalks/relais.go/pkg/msgs"
)

// EventQueueSize is the number of events buffered per peer. Events for a
// peer are dropped while its queue is full.
const EventQueueSize = 16

// Pipe serves one remote peer: requests read from ReadWriter are executed
// by Service and replied, Service events are forwarded.
type Pipe struct {
	ReadWriter PacketReadWriter
	Service    *Service

	sendLock sync.Mutex
}

// NewPipe creates a Pipe.
func NewPipe(rw PacketReadWriter, svc *Service) *Pipe {
	return &Pipe{ReadWriter: rw, Service: svc}
}

// SendReply sends a reply to the request with seq.
func (p *Pipe) SendReply(msg fx.Message, seq uint32) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		panic(err)
	}
	if class := typed.Class(); class != msgs.ClassReply {
		panic("expect reply, got " + class.String())
	}
	typed.Sequence = seq
	return p.SendTyped(typed)
}

// SendEvent sends a message which must be an event.
func (p *Pipe) SendEvent(msg fx.Message) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		panic(err)
	}
	if class := typed.Class(); class != msgs.ClassEvent {
		panic("expect event, got " + class.String())
	}
	return p.SendTyped(typed)
}

// SendTyped send a Typed message.
func (p *Pipe) SendTyped(typed *msgs.Typed) error {
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	return p.ReadWriter.WritePacket(pkt)
}

// Run implements Runnable. It returns nil when the peer closes.
func (p *Pipe) Run(ctx context.Context) error {
	defer p.Close()

	eventCh := make(chan fx.Message, EventQueueSize)
	doneCh := make(chan struct{})
	defer close(doneCh)
	unwatch := p.Service.Watch(func(msg fx.Message) {
		select {
		case eventCh <- msg:
		default:
			glog.V(1).Info("peer event queue full, event dropped")
		}
	})
	defer unwatch()
	go p.forwardEvents(eventCh, doneCh)

	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		typed, msg, err := msgs.DecodeRequest(pkt)
		if typed == nil {
			glog.V(1).Infof("bad packet: %v", err)
			continue
		}
		if err == msgs.ErrNotRequest {
			continue
		}
		var reply fx.Message
		if err != nil {
			reply = msgs.NewCommandErr(err)
		} else {
			reply = p.Service.Execute(msg)
		}
		if err = p.SendReply(reply, typed.Sequence); err != nil {
			return err
		}
	}
}

func (p *Pipe) forwardEvents(eventCh <-chan fx.Message, doneCh <-chan struct{}) {
	for {
		select {
		case <-doneCh:
			return
		case msg := <-eventCh:
			if err := p.SendEvent(msg); err != nil {
				glog.V(1).Infof("send event error: %v", err)
			}
		}
	}
}

// Close implements Closer.
func (p *Pipe) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
