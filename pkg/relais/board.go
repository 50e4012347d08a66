package relais

import (
	"time"

	"github.com/golang/glog"
)

// Board drives request/response exchanges over a Transport and keeps
// the Session. It is not safe for concurrent use: the chain is a single
// half-duplex channel and all exchanges must be serialized by the owner.
type Board struct {
	Transport Transport
	// Delay is the quiescence interval after writing a frame.
	Delay time.Duration
	// Sleep is used to wait for Delay, time.Sleep if nil.
	Sleep func(time.Duration)

	session Session
}

// NewBoard creates a Board with the default delay.
func NewBoard(t Transport) *Board {
	return &Board{Transport: t, Delay: DefaultDelay}
}

// Session returns a copy of the current session.
func (b *Board) Session() Session {
	return b.session
}

// Exchange sends one frame and validates the response.
// The session is never changed.
func (b *Board) Exchange(cmd Command, address, data byte) (Delta, error) {
	frame := NewFrame(cmd, address, data)
	glog.V(3).Infof("SND [%s] % x", cmd, frame[:])
	if _, err := frame.WriteTo(b.Transport); err != nil {
		err = &TransportError{Op: "write", Err: err}
		glog.V(1).Infof("%s to %d: %v", cmd, address, err)
		return Delta{}, err
	}
	b.wait()
	resp, err := b.Transport.ReadAvailable()
	if err != nil {
		// a failed read is an empty response.
		glog.V(1).Infof("%s to %d: %v", cmd, address, &TransportError{Op: "read", Err: err})
		resp = nil
	}
	glog.V(3).Infof("RCV [%s] % x", cmd, resp)
	blk, err := Decode(cmd, resp)
	if err != nil {
		glog.V(1).Infof("%s to %d: %v", cmd, address, err)
		return Delta{}, err
	}
	return DeltaFrom(cmd, blk), nil
}

// Do exchanges a frame and applies the result to the session.
func (b *Board) Do(cmd Command, address, data byte) error {
	d, err := b.Exchange(cmd, address, data)
	if err != nil {
		return err
	}
	b.session.Apply(d)
	return nil
}

// ControlBoard is Do reduced to success or failure.
func (b *Board) ControlBoard(cmd Command, address, data byte) bool {
	return b.Do(cmd, address, data) == nil
}

// Setup runs the setup command against address and records
// the firmware version on success.
func (b *Board) Setup(address byte) bool {
	if !b.ControlBoard(CmdSetup, address, 0) {
		return false
	}
	b.session.FirmwareVersion = b.session.LastData
	b.session.Initialized = true
	return true
}

func (b *Board) wait() {
	if b.Delay <= 0 {
		return
	}
	if sleep := b.Sleep; sleep != nil {
		sleep(b.Delay)
	} else {
		time.Sleep(b.Delay)
	}
}
