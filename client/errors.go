package client

import (
	"errors"
	"fmt"
)

var (
	ErrNotConnected     = errors.New("session is not connected")
	ErrAwaitingAck      = errors.New("a schedule is already awaiting acknowledgement")
	ErrConnectionClosed = errors.New("connection closed")
)

// TransportError reports a connection that failed to open, dropped, or
// could not carry a message.
type TransportError struct {
	Op  string // "connect", "send", "read"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError is returned by Submit when a time is missing. It never
// reaches the transport.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid schedule: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ProtocolError is an inbound message that did not parse as an ack.
type ProtocolError struct {
	Raw []byte
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed ack %q: %v", truncate(e.Raw, 64), e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// IllegalStateError is returned by Submit when the session cannot send.
type IllegalStateError struct {
	State State
	Err   error
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("cannot submit in state %s: %v", e.State, e.Err)
}

func (e *IllegalStateError) Unwrap() error { return e.Err }

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
