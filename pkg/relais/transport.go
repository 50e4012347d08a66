package relais

import (
	"io"
	"time"
)

// DefaultDelay is the quiescence interval between writing a frame and
// reading the response. It depends on the length of the chain and was
// found experimentally.
const DefaultDelay = 100 * time.Millisecond

// Transport is the byte channel to the first board of the chain.
// The implementation is expected to apply its own read/write timeouts.
type Transport interface {
	io.Writer
	// ReadAvailable returns the bytes received so far without waiting.
	ReadAvailable() ([]byte, error)
}
