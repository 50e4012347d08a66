package relais

import (
	"errors"
	"fmt"
)

var (
	// ErrTooShort indicates the response is shorter than one block.
	ErrTooShort = errors.New("response too short")
	// ErrMisaligned indicates the response length is not a multiple of the block size.
	ErrMisaligned = errors.New("response misaligned")
	// ErrChecksum indicates the XOR checksum of the first block mismatches.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrCommandMismatch indicates the response doesn't answer the request command.
	ErrCommandMismatch = errors.New("command mismatch")
	// ErrNotInitialized indicates the setup exchange never succeeded.
	ErrNotInitialized = errors.New("not initialized")
)

// FrameError wraps a validation error with the offending response.
type FrameError struct {
	Err      error
	Response []byte
}

// Error implements error.
func (e *FrameError) Error() string {
	return fmt.Sprintf("%v: % x", e.Err, e.Response)
}

// Unwrap returns the underlying validation error.
func (e *FrameError) Unwrap() error {
	return e.Err
}

// TransportError wraps an error from the transport.
type TransportError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *TransportError) Unwrap() error {
	return e.Err
}
