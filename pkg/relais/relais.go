package relais

import (
	"io"
	"strconv"
	"time"
)

// Instrument identification.
const (
	Manufacturer = "Conrad Electronic SE"
	Model        = "197720"
)

// SetupAddress is the address the setup command is sent to.
const SetupAddress byte = 1

// Relais is a chain of relay cards.
type Relais struct {
	board      *Board
	devicePort string
}

// Option customizes a Relais before setup.
type Option func(*Relais)

// WithDelay overrides the quiescence delay.
func WithDelay(d time.Duration) Option {
	return func(r *Relais) { r.board.Delay = d }
}

// WithSleep replaces time.Sleep for waiting the delay.
func WithSleep(sleep func(time.Duration)) Option {
	return func(r *Relais) { r.board.Sleep = sleep }
}

// WithDevicePort records the name of the port the transport is opened on.
func WithDevicePort(name string) Option {
	return func(r *Relais) { r.devicePort = name }
}

// New creates a Relais and runs setup against SetupAddress.
// A failed setup leaves the Relais uninitialized, check Initialized.
func New(t Transport, opts ...Option) *Relais {
	r := &Relais{board: NewBoard(t)}
	for _, opt := range opts {
		opt(r)
	}
	r.board.Setup(SetupAddress)
	r.board.wait()
	return r
}

// Board gets the underlying Board.
func (r *Relais) Board() *Board {
	return r.board
}

// Close closes the transport if it's closable.
func (r *Relais) Close() error {
	if closer, ok := r.board.Transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// DevicePort returns the port name.
func (r *Relais) DevicePort() string { return r.devicePort }

// Manufacturer returns the instrument manufacturer.
func (r *Relais) Manufacturer() string { return Manufacturer }

// Model returns the instrument type.
func (r *Relais) Model() string { return Model }

// FirmwareVersion returns the firmware version of the first board in decimal.
func (r *Relais) FirmwareVersion() string {
	return strconv.Itoa(int(r.board.session.FirmwareVersion))
}

// NumberOfBoards returns the number of boards detected by setup.
func (r *Relais) NumberOfBoards() int { return r.board.session.Boards }

// Initialized indicates setup succeeded.
func (r *Relais) Initialized() bool { return r.board.session.Initialized }

// FirstAddress returns the address of the first board.
func (r *Relais) FirstAddress() byte { return r.board.session.FirstAddress }

// LastData returns the data byte of the last successful response.
func (r *Relais) LastData() byte { return r.board.session.LastData }

// Session returns a copy of the session.
func (r *Relais) Session() Session { return r.board.session }

// SetRelaysAt switches all relays of a board, bit i is relay i+1.
func (r *Relais) SetRelaysAt(address, mask byte) bool {
	return r.board.ControlBoard(CmdSetPort, address, mask)
}

// SetRelays switches all relays of the first board.
func (r *Relais) SetRelays(mask byte) bool {
	return r.SetRelaysAt(r.FirstAddress(), mask)
}

// GetRelaysAt queries relay states, the result is in LastData.
func (r *Relais) GetRelaysAt(address byte) bool {
	return r.board.ControlBoard(CmdGetPort, address, 0)
}

// GetRelays queries relay states of the first board.
func (r *Relais) GetRelays() bool {
	return r.GetRelaysAt(r.FirstAddress())
}

// SingleOnAt switches on the relays selected by mask.
func (r *Relais) SingleOnAt(address, mask byte) bool {
	return r.board.ControlBoard(CmdSetSingle, address, mask)
}

// SingleOn switches on relays of the first board.
func (r *Relais) SingleOn(mask byte) bool {
	return r.SingleOnAt(r.FirstAddress(), mask)
}

// SingleOffAt switches off the relays selected by mask.
func (r *Relais) SingleOffAt(address, mask byte) bool {
	return r.board.ControlBoard(CmdDelSingle, address, mask)
}

// SingleOff switches off relays of the first board.
func (r *Relais) SingleOff(mask byte) bool {
	return r.SingleOffAt(r.FirstAddress(), mask)
}

// SingleToggleAt toggles the relays selected by mask.
func (r *Relais) SingleToggleAt(address, mask byte) bool {
	return r.board.ControlBoard(CmdToggle, address, mask)
}

// SingleToggle toggles relays of the first board.
func (r *Relais) SingleToggle(mask byte) bool {
	return r.SingleToggleAt(r.FirstAddress(), mask)
}

// On switches on a channel of the first board.
func (r *Relais) On(channel int) bool {
	return r.SingleOn(Mask(channel))
}

// Off switches off a channel of the first board.
func (r *Relais) Off(channel int) bool {
	return r.SingleOff(Mask(channel))
}

// Toggle toggles a channel of the first board.
func (r *Relais) Toggle(channel int) bool {
	return r.SingleToggle(Mask(channel))
}

// Mask maps channel 1..8 to its relay bit. Any other channel maps to 0,
// which still issues the command but switches nothing.
func Mask(channel int) byte {
	if channel < 1 || channel > 8 {
		return 0
	}
	return 1 << uint(channel-1)
}
