// Package msgs provides the remote control protocol and all message schemas.
package msgs

// Remote peers exchange Typed envelopes. A command carries a sequence
// number which is echoed in its reply. Events have sequence 0 and are
// broadcast to all peers.
