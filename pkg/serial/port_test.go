package serial

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeLine struct {
	readCh    chan []byte
	errCh     chan error
	closeCh   chan struct{}
	writeGate chan struct{}

	lock    sync.Mutex
	written bytes.Buffer
}

func newFakeLine() *fakeLine {
	return &fakeLine{
		readCh:  make(chan []byte),
		errCh:   make(chan error),
		closeCh: make(chan struct{}),
	}
}

func (l *fakeLine) Read(p []byte) (int, error) {
	select {
	case b := <-l.readCh:
		return copy(p, b), nil
	case err := <-l.errCh:
		return 0, err
	case <-l.closeCh:
		return 0, io.EOF
	}
}

func (l *fakeLine) Write(p []byte) (int, error) {
	if l.writeGate != nil {
		<-l.writeGate
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.written.Write(p)
}

func (l *fakeLine) Close() error {
	close(l.closeCh)
	return nil
}

func (l *fakeLine) Written() []byte {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append([]byte(nil), l.written.Bytes()...)
}

func waitAvailable(t *testing.T, p *Port, size int) []byte {
	var data []byte
	deadline := time.After(time.Second)
	for len(data) < size {
		b, err := p.ReadAvailable()
		require.NoError(t, err)
		data = append(data, b...)
		select {
		case <-deadline:
			t.Fatalf("timeout, got % x", data)
		case <-time.After(time.Millisecond):
		}
	}
	return data
}

func TestPortReadAvailable(t *testing.T) {
	line := newFakeLine()
	p := NewPort(line)
	defer p.Close()

	data, err := p.ReadAvailable()
	require.NoError(t, err)
	require.Empty(t, data)

	line.readCh <- []byte{0xfe, 0x01}
	line.readCh <- []byte{0x00, 0xff}
	require.Equal(t, []byte{0xfe, 0x01, 0x00, 0xff}, waitAvailable(t, p, 4))

	data, err = p.ReadAvailable()
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestPortWrite(t *testing.T) {
	line := newFakeLine()
	p := NewPort(line)
	defer p.Close()

	n, err := p.Write([]byte{1, 1, 0, 0})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{1, 1, 0, 0}, line.Written())
}

func TestPortWriteTimeout(t *testing.T) {
	line := newFakeLine()
	line.writeGate = make(chan struct{})
	defer close(line.writeGate)
	p := NewPort(line)
	defer p.Close()
	p.WriteTimeout = 10 * time.Millisecond

	_, err := p.Write([]byte{3, 1, 0xff, 0xfd})
	require.Equal(t, ErrWriteTimeout, err)
}

func waitBuffered(t *testing.T, check func() bool) {
	for i := 0; !check(); i++ {
		require.True(t, i < 100, "timeout")
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPortReadError(t *testing.T) {
	line := newFakeLine()
	p := NewPort(line)
	defer p.Close()

	line.readCh <- []byte{0xfd}
	readErr := errors.New("transient glitch")
	line.errCh <- readErr
	waitBuffered(t, func() bool {
		p.lock.Lock()
		defer p.lock.Unlock()
		return p.err != nil
	})

	data, err := p.ReadAvailable()
	require.Equal(t, readErr, err)
	require.Equal(t, []byte{0xfd}, data)

	// reported once, receiving goes on.
	data, err = p.ReadAvailable()
	require.NoError(t, err)
	require.Empty(t, data)
	line.readCh <- []byte{0xfc, 0x01, 0x00, 0xfd}
	require.Equal(t, []byte{0xfc, 0x01, 0x00, 0xfd}, waitAvailable(t, p, 4))

	line.errCh <- readErr
	waitBuffered(t, func() bool {
		p.lock.Lock()
		defer p.lock.Unlock()
		return p.err != nil
	})
	_, err = p.ReadAvailable()
	require.Equal(t, readErr, err)
}

func TestPortWriteAfterTimeout(t *testing.T) {
	line := newFakeLine()
	line.writeGate = make(chan struct{})
	p := NewPort(line)
	defer p.Close()
	p.WriteTimeout = 20 * time.Millisecond

	_, err := p.Write([]byte{3, 1, 0xff, 0xfd})
	require.Equal(t, ErrWriteTimeout, err)
	// the abandoned write still blocks the line.
	_, err = p.Write([]byte{2, 1, 0, 3})
	require.Equal(t, ErrWriteTimeout, err)
	require.Empty(t, line.Written())

	// reply to the abandoned frame.
	line.readCh <- []byte{0xfc, 0x01, 0xff, 0x02}
	waitBuffered(t, func() bool {
		p.lock.Lock()
		defer p.lock.Unlock()
		return p.buf.Len() == 4
	})
	close(line.writeGate)

	n, err := p.Write([]byte{2, 1, 0, 3})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{3, 1, 0xff, 0xfd, 2, 1, 0, 3}, line.Written())
	data, err := p.ReadAvailable()
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestPortClose(t *testing.T) {
	line := newFakeLine()
	p := NewPort(line)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err := p.Write([]byte{2, 1, 0, 3})
	require.Equal(t, ErrClosed, err)
}
