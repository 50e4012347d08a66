// Package relais controls Conrad 197720 relay cards.
package relais

// The cards are daisy-chained on a half-duplex serial link (19200-8-N-1,
// no handshake). Every request is a single 4-byte frame:
//
//	command | address | data | command^address^data
//
// Each board in the chain answers with a 4-byte block of the same layout,
// where the command byte is 255-command of the request. The host has no
// end-of-response marker, so after writing a frame it waits a fixed
// quiescence delay and then takes whatever bytes have arrived.
//
// Only the first block of a response is interpreted. Additional blocks are
// counted to derive the number of boards after a setup command, but never
// parsed. Failed exchanges are not retried and do not change the session.
