package relais

import (
	"io"
	"strconv"
)

// Command is the command byte of a frame.
type Command byte

// Commands understood by the relay cards.
const (
	CmdSetup     Command = 1 // setup the chain, replies firmware version
	CmdGetPort   Command = 2 // query relay states
	CmdSetPort   Command = 3 // switch all relays
	CmdSetSingle Command = 6 // switch on selected relays
	CmdDelSingle Command = 7 // switch off selected relays
	CmdToggle    Command = 8 // toggle selected relays
)

// FrameSize is the size of a request frame and of each response block.
const FrameSize = 4

// Reply returns the command byte a board answers c with.
func (c Command) Reply() byte {
	return 255 - byte(c)
}

// String implements fmt.Stringer.
func (c Command) String() string {
	switch c {
	case CmdSetup:
		return "SETUP"
	case CmdGetPort:
		return "GET PORT"
	case CmdSetPort:
		return "SET PORT"
	case CmdSetSingle:
		return "SET SINGLE"
	case CmdDelSingle:
		return "DEL SINGLE"
	case CmdToggle:
		return "TOGGLE"
	}
	return "CMD " + strconv.Itoa(int(c))
}

// Frame is a single encoded block.
type Frame [FrameSize]byte

// NewFrame builds a frame, the checksum is always computed.
func NewFrame(cmd Command, address, data byte) Frame {
	return Frame{byte(cmd), address, data, byte(cmd) ^ address ^ data}
}

// Command gets the command byte.
func (f Frame) Command() Command { return Command(f[0]) }

// Address gets the address byte.
func (f Frame) Address() byte { return f[1] }

// Data gets the data byte.
func (f Frame) Data() byte { return f[2] }

// Checksum gets the checksum byte.
func (f Frame) Checksum() byte { return f[3] }

// Valid checks the XOR checksum.
func (f Frame) Valid() bool {
	return f[0]^f[1]^f[2] == f[3]
}

// Bytes returns encoded bytes for sending.
func (f Frame) Bytes() []byte {
	b := make([]byte, FrameSize)
	copy(b, f[:])
	return b
}

// WriteTo writes encoded bytes.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f[:])
	return int64(n), err
}

// ParseFrame parses exactly one block.
func ParseFrame(b []byte) (f Frame, err error) {
	if len(b) < FrameSize {
		return f, &FrameError{Err: ErrTooShort, Response: b}
	}
	if len(b) != FrameSize {
		return f, &FrameError{Err: ErrMisaligned, Response: b}
	}
	copy(f[:], b)
	if !f.Valid() {
		return f, &FrameError{Err: ErrChecksum, Response: b}
	}
	return f, nil
}

// Block is the interpreted first block of a response.
type Block struct {
	Address byte
	Data    byte
	// Blocks is the total number of blocks in the response,
	// one per board in the chain.
	Blocks int
}

// Decode validates a response to req and interprets its first block.
func Decode(req Command, resp []byte) (blk Block, err error) {
	switch {
	case len(resp) < FrameSize:
		err = ErrTooShort
	case len(resp)%FrameSize != 0:
		err = ErrMisaligned
	case resp[0]^resp[1]^resp[2] != resp[3]:
		err = ErrChecksum
	case int(resp[0])+int(req) != 255:
		err = ErrCommandMismatch
	}
	if err != nil {
		return blk, &FrameError{Err: err, Response: resp}
	}
	return Block{Address: resp[1], Data: resp[2], Blocks: len(resp) / FrameSize}, nil
}
