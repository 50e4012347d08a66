package sh

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/relais.go/pkg/msgs"
	pb "github.com/robotalks/relais.go/pkg/proto/relais/v1"
	"github.com/robotalks/relais.go/pkg/relais"
)

func init() {
	AddCmds(
		&GetCmd,
		&SetCmd,
		relaysCmd("single-on", relais.CmdSetSingle, "Switch on relays in MASK, others unchanged."),
		relaysCmd("single-off", relais.CmdDelSingle, "Switch off relays in MASK, others unchanged."),
		relaysCmd("single-toggle", relais.CmdToggle, "Toggle relays in MASK."),
		channelCmd("on", pb.ChannelCommand_ON),
		channelCmd("off", pb.ChannelCommand_OFF),
		channelCmd("toggle", pb.ChannelCommand_TOGGLE),
		&RawCmd,
		&FrameCmd,
		&DecodeCmd,
	)
}

var (
	// GetCmd queries the relay states.
	GetCmd = ishell.Cmd{
		Name: "get",
		Help: "[ADDR]",
		Func: MustBeOpen(func(c *ishell.Context) {
			cmd := &msgs.RelaysCommand{}
			cmd.Command = uint32(relais.CmdGetPort)
			cmd.FirstBoard = true
			if len(c.Args) > 0 {
				addr, err := ParseByte(c.Args[0])
				if err != nil {
					c.Err(err)
					return
				}
				cmd.Address, cmd.FirstBoard = uint32(addr), false
			}
			DoCommand(c, cmd)
		}),
	}

	// SetCmd sets all relays of a board.
	SetCmd = *relaysCmd("set", relais.CmdSetPort, "Set all relays to MASK.")

	// RawCmd exchanges a frame without any interpretation of the command.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "CMD ADDR DATA",
		Func: MustBeOpen(func(c *ishell.Context) {
			f, err := parseFrame(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			session, err := ShellFrom(c).Raw(f)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("%d: %08b\n", session.FirstAddress, session.LastData)
		}),
	}

	// FrameCmd prints the encoded frame.
	FrameCmd = ishell.Cmd{
		Name: "frame",
		Help: "CMD ADDR DATA",
		Func: func(c *ishell.Context) {
			f, err := parseFrame(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("% x\n", f.Bytes())
		},
	}
)

// DecodeCmd parses a single 4-byte block, e.g. a captured response.
var DecodeCmd = ishell.Cmd{
	Name: "decode",
	Help: "B0 B1 B2 B3",
	Func: func(c *ishell.Context) {
		f, err := decodeFrame(c.Args)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(FormatFrame(f))
	},
}

// FormatFrame describes a frame. A reply is recognized by its command
// byte being the complement of a known command.
func FormatFrame(f relais.Frame) string {
	cmd := f.Command()
	if req := relais.Command(255 - byte(cmd)); isKnown(req) {
		return fmt.Sprintf("reply to %s address=%d data=%08b", req, f.Address(), f.Data())
	}
	return fmt.Sprintf("%s address=%d data=%08b", cmd, f.Address(), f.Data())
}

func isKnown(cmd relais.Command) bool {
	switch cmd {
	case relais.CmdSetup, relais.CmdGetPort, relais.CmdSetPort,
		relais.CmdSetSingle, relais.CmdDelSingle, relais.CmdToggle:
		return true
	}
	return false
}

func decodeFrame(args []string) (relais.Frame, error) {
	raw := make([]byte, len(args))
	for i, arg := range args {
		v, err := ParseByte(arg)
		if err != nil {
			return relais.Frame{}, err
		}
		raw[i] = v
	}
	return relais.ParseFrame(raw)
}

func relaysCmd(name string, command relais.Command, help string) *ishell.Cmd {
	return &ishell.Cmd{
		Name:     name,
		Help:     "[ADDR] MASK",
		LongHelp: help,
		Func: MustBeOpen(func(c *ishell.Context) {
			addr, data, first, err := ParseAddrData(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			cmd := &msgs.RelaysCommand{}
			cmd.Command = uint32(command)
			cmd.Address = uint32(addr)
			cmd.FirstBoard = first
			cmd.Data = uint32(data)
			DoCommand(c, cmd)
		}),
	}
}

func channelCmd(name string, action pb.ChannelCommand_Action) *ishell.Cmd {
	return &ishell.Cmd{
		Name: name,
		Help: "CHANNEL",
		Func: MustBeOpen(func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("expect CHANNEL"))
				return
			}
			ch, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("invalid channel %q", c.Args[0]))
				return
			}
			cmd := &msgs.ChannelCommand{}
			cmd.Channel = int32(ch)
			cmd.Action = action
			DoCommand(c, cmd)
		}),
	}
}

func parseFrame(args []string) (relais.Frame, error) {
	if len(args) != 3 {
		return relais.Frame{}, fmt.Errorf("expect CMD ADDR DATA")
	}
	var vals [3]byte
	for i, arg := range args {
		v, err := ParseByte(arg)
		if err != nil {
			return relais.Frame{}, err
		}
		vals[i] = v
	}
	return relais.NewFrame(relais.Command(vals[0]), vals[1], vals[2]), nil
}
