package imap

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind classifies session errors by how the poll loop should react to them.
type Kind int

const (
	// KindOther covers errors that end the current cycle without touching the
	// connection.
	KindOther Kind = iota
	// KindConnection covers transport failures; the session is assumed dead
	// and must be rebuilt before the next cycle.
	KindConnection
	// KindProtocol covers well-formed server responses the client cannot use,
	// such as a fetch returning no message for a known UID.
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindProtocol:
		return "protocol"
	default:
		return "other"
	}
}

// SessionError wraps a failed session operation together with its
// classification.
type SessionError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("imap %s: %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// Classify reports the Kind of err. Typed session errors carry their own
// kind. For everything else, a net.Error anywhere in the chain or
// transport-sounding error text counts as a connection failure.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}

	var sessionErr *SessionError
	if errors.As(err, &sessionErr) {
		return sessionErr.Kind
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnection
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection") || strings.Contains(msg, "timeout") {
		return KindConnection
	}

	return KindOther
}

// IsConnection reports whether err should trigger a session rebuild.
func IsConnection(err error) bool {
	return Classify(err) == KindConnection
}
