// Package relaistest provides a simulated chain of relay cards.
package relaistest

import (
	"sync"

	"github.com/robotalks/relais.go/pkg/relais"
)

// DefaultFirmware is the firmware version reported by simulated boards.
const DefaultFirmware byte = 11

// Chain simulates daisy-chained relay cards behind a serial port.
// Board addresses start at 1 in chain order.
type Chain struct {
	Firmware byte
	// WriteErr fails all writes when set.
	WriteErr error

	lock    sync.Mutex
	states  []byte
	frames  []relais.Frame
	pending []byte
}

// NewChain creates a Chain with the given number of boards.
func NewChain(boards int) *Chain {
	return &Chain{Firmware: DefaultFirmware, states: make([]byte, boards)}
}

// Write implements io.Writer.
func (c *Chain) Write(p []byte) (int, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.WriteErr != nil {
		return 0, c.WriteErr
	}
	for b := p; len(b) >= relais.FrameSize; b = b[relais.FrameSize:] {
		var f relais.Frame
		copy(f[:], b)
		c.frames = append(c.frames, f)
		c.pending = append(c.pending, c.respond(f)...)
	}
	return len(p), nil
}

// ReadAvailable implements relais.Transport.
func (c *Chain) ReadAvailable() ([]byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	resp := c.pending
	c.pending = nil
	return resp, nil
}

// Relays returns the relay states of a board.
func (c *Chain) Relays(address byte) byte {
	c.lock.Lock()
	defer c.lock.Unlock()
	if i := int(address) - 1; i >= 0 && i < len(c.states) {
		return c.states[i]
	}
	return 0
}

// Frames returns all frames received.
func (c *Chain) Frames() []relais.Frame {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]relais.Frame(nil), c.frames...)
}

func (c *Chain) respond(f relais.Frame) []byte {
	if !f.Valid() {
		return nil
	}
	cmd := f.Command()
	if cmd == relais.CmdSetup {
		// every board answers and forwards setup to the next address,
		// the frame forwarded by the last board returns to the host.
		var resp []byte
		for i := range c.states {
			resp = append(resp, reply(cmd, f.Address()+byte(i), c.Firmware)...)
		}
		last := relais.NewFrame(cmd, f.Address()+byte(len(c.states)), 0)
		return append(resp, last[:]...)
	}
	i := int(f.Address()) - 1
	if i < 0 || i >= len(c.states) {
		return nil
	}
	data := f.Data()
	switch cmd {
	case relais.CmdGetPort:
		data = c.states[i]
	case relais.CmdSetPort:
		c.states[i] = data
	case relais.CmdSetSingle:
		c.states[i] |= data
	case relais.CmdDelSingle:
		c.states[i] &^= data
	case relais.CmdToggle:
		c.states[i] ^= data
	default:
		return nil
	}
	return reply(cmd, f.Address(), data)
}

func reply(cmd relais.Command, address, data byte) []byte {
	r := cmd.Reply()
	return []byte{r, address, data, r ^ address ^ data}
}
