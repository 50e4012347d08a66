package relais

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/robotalks/relais.go/pkg/serial"
)

// Serial parameters of the relay cards.
const (
	BaudRate       = 19200
	DefaultTimeout = 3000 * time.Millisecond
)

// Config defines how to open the relay chain.
type Config struct {
	// Port is the serial device, e.g. /dev/ttyUSB0 or COM1.
	Port string
	// Delay is the quiescence interval between request and response.
	Delay time.Duration
	// Timeout applies to both reads and writes on the port.
	Timeout time.Duration
}

var defaultConfig = Config{
	Port:    "/dev/ttyUSB0",
	Delay:   DefaultDelay,
	Timeout: DefaultTimeout,
}

func init() {
	if val := os.Getenv("RELAIS_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("RELAIS_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			defaultConfig.Delay = d
		}
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port of the first relay card.")
	flag.DurationVar(&defaultConfig.Delay, "delay", defaultConfig.Delay, "Delay between request and response.")
	flag.DurationVar(&defaultConfig.Timeout, "timeout", defaultConfig.Timeout, "Serial read/write timeout.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// SerialConfig returns the serial port settings.
func (c *Config) SerialConfig() *serial.Config {
	return &serial.Config{
		Name:         strings.TrimSpace(c.Port),
		Baud:         BaudRate,
		ReadTimeout:  c.Timeout,
		WriteTimeout: c.Timeout,
	}
}

// Open opens the port and sets up the chain. Only a failure to open the
// port is returned, a failed setup leaves the Relais uninitialized.
func (c *Config) Open() (*Relais, error) {
	sc := c.SerialConfig()
	port, err := serial.Open(sc)
	if err != nil {
		return nil, err
	}
	return New(port, WithDelay(c.Delay), WithDevicePort(sc.Name)), nil
}

// MustOpen opens the Relais and fails on error.
func (c *Config) MustOpen() *Relais {
	r, err := c.Open()
	if err != nil {
		log.Fatalln(err)
	}
	return r
}
