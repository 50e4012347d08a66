// Package serial provides a Transport over a serial port.
package serial

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"
)

// ReadRetryInterval is the pause before reading again after a read error.
const ReadRetryInterval = 100 * time.Millisecond

var (
	// ErrWriteTimeout indicates a write didn't complete within WriteTimeout.
	ErrWriteTimeout = errors.New("write timeout")
	// ErrClosed indicates the port is closed.
	ErrClosed = errors.New("port closed")
)

// Config defines serial port settings. Data bits, parity and
// stop bits are fixed to 8-N-1.
type Config struct {
	Name         string
	Baud         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Port receives bytes in the background so that whatever has
// arrived can be taken without waiting.
type Port struct {
	WriteTimeout time.Duration

	rwc    io.ReadWriteCloser
	lock   sync.Mutex
	buf    bytes.Buffer
	err    error
	closed bool

	writeLock sync.Mutex
	// abandoned is closed when a write which timed out completes.
	abandoned chan struct{}

	closeCh   chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// Open opens the serial port.
func Open(c *Config) (*Port, error) {
	sp, err := serial.OpenPort(&serial.Config{
		Name:        c.Name,
		Baud:        c.Baud,
		ReadTimeout: c.ReadTimeout,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("opened %s at %d baud", c.Name, c.Baud)
	p := NewPort(sp)
	p.WriteTimeout = c.WriteTimeout
	return p, nil
}

// NewPort wraps an opened port and starts receiving.
func NewPort(rwc io.ReadWriteCloser) *Port {
	p := &Port{
		rwc:     rwc,
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go p.readLoop()
	return p
}

// Write implements io.Writer. Writes are serialized: after a write
// timed out, the next write waits for it to complete and discards the
// bytes received meanwhile, as they answer the abandoned frame.
func (p *Port) Write(b []byte) (int, error) {
	p.writeLock.Lock()
	defer p.writeLock.Unlock()
	p.lock.Lock()
	closed := p.closed
	p.lock.Unlock()
	if closed {
		return 0, ErrClosed
	}
	if p.abandoned != nil {
		select {
		case <-p.abandoned:
		case <-time.After(p.WriteTimeout):
			return 0, ErrWriteTimeout
		}
		p.abandoned = nil
		p.lock.Lock()
		glog.V(1).Infof("discard %d bytes after write timeout", p.buf.Len())
		p.buf.Reset()
		p.lock.Unlock()
	}
	if p.WriteTimeout <= 0 {
		return p.rwc.Write(b)
	}
	type result struct {
		n   int
		err error
	}
	resCh := make(chan result, 1)
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		n, err := p.rwc.Write(b)
		resCh <- result{n: n, err: err}
	}()
	select {
	case res := <-resCh:
		return res.n, res.err
	case <-time.After(p.WriteTimeout):
		p.abandoned = doneCh
		return 0, ErrWriteTimeout
	}
}

// ReadAvailable drains the received bytes. A read error since the last
// call is reported once, receiving continues.
func (p *Port) ReadAvailable() ([]byte, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	var data []byte
	if p.buf.Len() > 0 {
		data = make([]byte, p.buf.Len())
		copy(data, p.buf.Bytes())
		p.buf.Reset()
	}
	err := p.err
	p.err = nil
	return data, err
}

// Close implements io.Closer.
func (p *Port) Close() (err error) {
	p.closeOnce.Do(func() {
		p.lock.Lock()
		p.closed = true
		p.lock.Unlock()
		close(p.closeCh)
		err = p.rwc.Close()
		<-p.doneCh
	})
	return
}

func (p *Port) readLoop() {
	defer close(p.doneCh)
	buf := make([]byte, 64)
	var failing bool
	for {
		n, err := p.rwc.Read(buf)
		if n > 0 {
			p.lock.Lock()
			p.buf.Write(buf[:n])
			p.lock.Unlock()
		}
		select {
		case <-p.closeCh:
			return
		default:
		}
		// the port reports EOF when the read timeout expires with no data.
		if err == nil || err == io.EOF || os.IsTimeout(err) {
			failing = false
			continue
		}
		if !failing {
			glog.Warningf("serial read error: %v", err)
		} else {
			glog.V(2).Infof("serial read error: %v", err)
		}
		failing = true
		p.lock.Lock()
		p.err = err
		p.lock.Unlock()
		select {
		case <-p.closeCh:
			return
		case <-time.After(ReadRetryInterval):
		}
	}
}
