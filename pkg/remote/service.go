package remote

import (
	"fmt"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/relais.go/pkg/framework"
	"github.com/robotalks/relais.go/pkg/msgs"
	pb "github.com/robotalks/relais.go/pkg/proto/relais/v1"
	"github.com/robotalks/relais.go/pkg/relais"
)

// Service is the single owner of a Relais and serializes all
// exchanges requested by remote peers.
type Service struct {
	relais *relais.Relais
	lock   sync.Mutex

	watchers  map[int]func(fx.Message)
	watcherID int
	watchLock sync.RWMutex
}

// NewService creates a Service.
func NewService(r *relais.Relais) *Service {
	return &Service{relais: r, watchers: make(map[int]func(fx.Message))}
}

// Watch registers fn to receive events. The returned func unregisters it.
func (s *Service) Watch(fn func(fx.Message)) func() {
	s.watchLock.Lock()
	id := s.watcherID
	s.watcherID++
	s.watchers[id] = fn
	s.watchLock.Unlock()
	return func() {
		s.watchLock.Lock()
		delete(s.watchers, id)
		s.watchLock.Unlock()
	}
}

// Info returns the device information.
func (s *Service) Info() *msgs.DeviceInfo {
	s.lock.Lock()
	defer s.lock.Unlock()
	r := s.relais
	return &msgs.DeviceInfo{DeviceInfo: pb.DeviceInfo{
		DevicePort:      r.DevicePort(),
		Manufacturer:    r.Manufacturer(),
		Model:           r.Model(),
		FirmwareVersion: r.FirmwareVersion(),
		Boards:          uint32(r.NumberOfBoards()),
		Initialized:     r.Initialized(),
		FirstAddress:    uint32(r.FirstAddress()),
	}}
}

// Execute executes a command message and returns the reply.
func (s *Service) Execute(msg fx.Message) fx.Message {
	switch m := msg.(type) {
	case *msgs.DeviceInfoQuery:
		return s.Info()
	case *msgs.RelaysCommand:
		cmd := relais.Command(m.Command)
		switch cmd {
		case relais.CmdGetPort, relais.CmdSetPort, relais.CmdSetSingle, relais.CmdDelSingle, relais.CmdToggle:
		default:
			return msgs.NewCommandErr(msgs.ErrUnsupportedCommand)
		}
		if m.Address > 0xff || m.Data > 0xff {
			return msgs.NewCommandErrFromMsg(fmt.Sprintf("address %d or data %d out of range", m.Address, m.Data))
		}
		data := byte(m.Data)
		if cmd == relais.CmdGetPort {
			data = 0
		}
		return s.do(cmd, m.FirstBoard, byte(m.Address), data)
	case *msgs.ChannelCommand:
		var cmd relais.Command
		switch m.Action {
		case pb.ChannelCommand_ON:
			cmd = relais.CmdSetSingle
		case pb.ChannelCommand_OFF:
			cmd = relais.CmdDelSingle
		case pb.ChannelCommand_TOGGLE:
			cmd = relais.CmdToggle
		default:
			return msgs.NewCommandErr(msgs.ErrUnsupportedCommand)
		}
		return s.do(cmd, true, 0, relais.Mask(int(m.Channel)))
	}
	return msgs.NewCommandErr(msgs.ErrUnsupportedCommand)
}

// Do exchanges one frame with any command code and notifies watchers on
// success. The first board is addressed when firstBoard is set.
func (s *Service) Do(cmd relais.Command, firstBoard bool, address, data byte) (relais.Session, error) {
	s.lock.Lock()
	if firstBoard {
		address = s.relais.FirstAddress()
	}
	err := s.relais.Board().Do(cmd, address, data)
	session := s.relais.Session()
	s.lock.Unlock()
	if err != nil {
		return session, err
	}
	s.notify(&msgs.RelaysStatus{RelaysStatus: pb.RelaysStatus{
		Command: uint32(cmd),
		Address: uint32(session.FirstAddress),
		Data:    uint32(session.LastData),
	}})
	return session, nil
}

func (s *Service) do(cmd relais.Command, firstBoard bool, address, data byte) fx.Message {
	session, err := s.Do(cmd, firstBoard, address, data)
	if err != nil {
		return msgs.NewCommandErr(err)
	}
	return &msgs.RelaysReply{RelaysReply: pb.RelaysReply{
		Address: uint32(session.FirstAddress),
		Data:    uint32(session.LastData),
	}}
}

// notify calls watchers outside of watchLock, a slow watcher must not
// hold up Watch or unwatch.
func (s *Service) notify(msg fx.Message) {
	s.watchLock.RLock()
	watchers := make([]func(fx.Message), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.watchLock.RUnlock()
	glog.V(2).Infof("notify %d watchers", len(watchers))
	for _, fn := range watchers {
		fn(msg)
	}
}
