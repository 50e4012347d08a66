package relais

// Session is the state learned from successful exchanges.
type Session struct {
	// FirmwareVersion of the first board, set by setup.
	FirmwareVersion byte
	// FirstAddress is the address field of the last successful response.
	FirstAddress byte
	// LastData is the data field of the last successful response.
	// After a GET PORT command it holds the relay states.
	LastData byte
	// Boards is the number of boards detected by the last setup.
	Boards int
	// Initialized indicates setup succeeded.
	Initialized bool
}

// Delta is the change a successful exchange applies to a Session.
type Delta struct {
	Address   byte
	Data      byte
	Boards    int
	HasBoards bool
}

// DeltaFrom derives the Delta from the decoded response to cmd.
func DeltaFrom(cmd Command, blk Block) Delta {
	d := Delta{Address: blk.Address, Data: blk.Data}
	if cmd == CmdSetup {
		d.Boards, d.HasBoards = blk.Blocks-1, true
	}
	return d
}

// Apply applies the delta.
func (s *Session) Apply(d Delta) {
	s.FirstAddress, s.LastData = d.Address, d.Data
	if d.HasBoards {
		s.Boards = d.Boards
	}
}
