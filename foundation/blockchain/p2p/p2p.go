// Package p2p implements the point-to-point transport nodes use to push
// blocks to each other. Each connection carries exactly one length
// prefixed frame holding a JSON message.
package p2p

import "errors"

// Set of errors the transport can report.
var (
	ErrPeerUnreachable  = errors.New("peer unreachable")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrListenerClosed   = errors.New("listener closed")
)

// EventHandler defines a function that is called when events
// occur in the processing of connections.
type EventHandler func(v string, args ...any)
