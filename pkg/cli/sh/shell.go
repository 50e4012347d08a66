// Package sh provides an interactive shell driving a relay chain.
package sh

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"reflect"
	"strconv"

	"github.com/abiosoft/ishell"

	fx "github.com/robotalks/relais.go/pkg/framework"
	"github.com/robotalks/relais.go/pkg/msgs"
	"github.com/robotalks/relais.go/pkg/relais"
	"github.com/robotalks/relais.go/pkg/relais/relaistest"
	"github.com/robotalks/relais.go/pkg/remote"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	// Simulate opens a simulated chain with the number of boards
	// instead of the serial port when positive.
	Simulate int
	// Opener opens the chain instead of Simulate and Config when set.
	Opener func() (*relais.Relais, error)

	Shell   *ishell.Shell
	Config  *relais.Config
	Relais  *relais.Relais
	Service *remote.Service
}

const (
	shellKey     = "$shell"
	closedPrompt = "[closed] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	simulate   int

	commands = []*ishell.Cmd{
		&OpenCmd,
		&CloseCmd,
		&InfoCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.IntVar(&simulate, "simulate", simulate, "Simulate a chain of N boards instead of opening the port.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *relais.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Simulate:    simulate,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpen wraps command func requires an opened chain.
func MustBeOpen(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Service == nil {
			c.Err(fmt.Errorf("not opened"))
			return
		}
		fn(c)
	}
}

// Open opens the relay chain and runs setup. An opened chain is closed
// first so that only one reader is on the port, it stays closed if the
// new one fails to open.
func (s *Shell) Open() error {
	s.Close()
	r, err := s.open()
	if err != nil {
		return err
	}
	s.Relais, s.Service = r, remote.NewService(r)
	s.setPrompt(fmt.Sprintf("%s > ", r.DevicePort()))
	return nil
}

func (s *Shell) open() (*relais.Relais, error) {
	switch {
	case s.Opener != nil:
		return s.Opener()
	case s.Simulate > 0:
		return relais.New(relaistest.NewChain(s.Simulate),
			relais.WithDelay(0),
			relais.WithDevicePort("simulated")), nil
	}
	return s.Config.Open()
}

// Close closes the relay chain if opened.
func (s *Shell) Close() {
	if s.Relais != nil {
		s.Relais.Close()
		s.Relais, s.Service = nil, nil
		s.setPrompt(closedPrompt)
	}
}

func (s *Shell) setPrompt(prompt string) {
	if s.Shell != nil {
		s.Shell.SetPrompt(prompt)
	}
}

// Raw exchanges a frame as is, the command code is not checked.
func (s *Shell) Raw(f relais.Frame) (relais.Session, error) {
	if s.Service == nil {
		return relais.Session{}, fmt.Errorf("not opened")
	}
	return s.Service.Do(f.Command(), false, f.Address(), f.Data())
}

// Execute runs a command message against the chain.
func (s *Shell) Execute(msg fx.Message) (fx.Message, error) {
	if s.Service == nil {
		return nil, fmt.Errorf("not opened")
	}
	reply := s.Service.Execute(msg)
	if err, ok := reply.(*msgs.CommandErr); ok {
		return nil, err
	}
	return reply, nil
}

// DoCommand executes a command and prints the result.
func DoCommand(c *ishell.Context, msg fx.Message) error {
	s := ShellFrom(c)
	reply, err := s.Execute(msg)
	if err != nil {
		c.Err(err)
		return err
	}
	out, err := FormatReply(reply, s.OutputJSON)
	if err != nil {
		c.Err(err)
		return err
	}
	c.Println(out)
	return nil
}

// FormatReply formats a reply for display.
func FormatReply(msg fx.Message, asJSON bool) (string, error) {
	if _, ok := msg.(*msgs.CommandOK); ok && !asJSON {
		return "OK", nil
	}
	serializable, ok := msg.(msgs.SerializableMessage)
	if !ok {
		return "", msgs.ErrNotSerializable
	}
	if asJSON {
		out, err := json.Marshal(serializable.Serializable())
		return string(out), err
	}
	if reply, ok := msg.(*msgs.RelaysReply); ok {
		return fmt.Sprintf("%d: %08b", reply.Address, reply.Data), nil
	}
	return fmt.Sprintf("%s %s",
		reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
		serializable.Serializable().String()), nil
}

// FormatInfo formats device information, one field per line.
func FormatInfo(info *msgs.DeviceInfo) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "Port:         %s\n", info.DevicePort)
	fmt.Fprintf(&w, "Manufacturer: %s\n", info.Manufacturer)
	fmt.Fprintf(&w, "Model:        %s\n", info.Model)
	fmt.Fprintf(&w, "Firmware:     %s\n", info.FirmwareVersion)
	fmt.Fprintf(&w, "Boards:       %d\n", info.Boards)
	fmt.Fprintf(&w, "Initialized:  %v\n", info.Initialized)
	fmt.Fprintf(&w, "First:        %d\n", info.FirstAddress)
	return w.String()
}

// ParseByte parses a byte in decimal, hex (0x), octal (0) or binary (0b).
func ParseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", s)
	}
	return byte(v), nil
}

// ParseAddrData parses "[ADDR] DATA". When ADDR is absent, firstBoard
// is true and the command targets the first board.
func ParseAddrData(args []string) (addr, data byte, firstBoard bool, err error) {
	switch len(args) {
	case 1:
		data, err = ParseByte(args[0])
		return 0, data, true, err
	case 2:
		if addr, err = ParseByte(args[0]); err != nil {
			return
		}
		data, err = ParseByte(args[1])
		return
	}
	return 0, 0, false, fmt.Errorf("expect [ADDR] DATA")
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if err := s.Open(); err != nil {
		if !s.Interactive {
			log.Fatalln(err)
		}
		s.Shell.Printf("Open failed: %v\n", err)
	}
	defer s.Close()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// OpenCmd opens the relay chain.
	OpenCmd = ishell.Cmd{
		Name: "open",
		Help: "[PORT]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				s.Config.Port = c.Args[0]
			}
			if err := s.Open(); err != nil {
				c.Err(err)
				return
			}
			if !s.Relais.Initialized() {
				c.Println("Setup failed, chain not initialized")
			}
		},
	}

	// CloseCmd closes the relay chain.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Help: "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}

	// InfoCmd shows device information.
	InfoCmd = ishell.Cmd{
		Name:    "info",
		Aliases: []string{"i"},
		Help:    "",
		Func: MustBeOpen(func(c *ishell.Context) {
			s := ShellFrom(c)
			if s.OutputJSON {
				DoCommand(c, &msgs.DeviceInfoQuery{})
				return
			}
			c.Print(FormatInfo(s.Service.Info()))
		}),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(relais.Default()).Run(flag.Args()...)
}
