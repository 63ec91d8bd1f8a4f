// Package common defines shared constants and sentinel errors used across
// the client and server of the incident keeper. Callers should use errors.Is
// to match these values.
package common

import "errors"

// Fault kinds. Every concrete error below unwraps to exactly one of them.
var (
	// ErrStorage: a collection file exists but cannot be read, decoded or
	// written.
	ErrStorage = errors.New("storage fault")

	// ErrProtocol: the request line or envelope cannot be parsed.
	ErrProtocol = errors.New("protocol fault")

	// ErrValidation: the request is well formed but cannot be accepted.
	ErrValidation = errors.New("validation fault")
)

var (
	ErrMalformedMessage = newFault(ErrProtocol, "malformed message")
	ErrMalformedPayload = newFault(ErrProtocol, "malformed payload")
	ErrLineTooLong      = newFault(ErrProtocol, "message line too long")

	ErrWrongPassword      = newFault(ErrValidation, "wrong password")
	ErrUnknownMessageType = newFault(ErrValidation, "unknown message type")
	ErrMalformedID        = newFault(ErrValidation, "malformed identifier")
	ErrEmptyUsername      = newFault(ErrValidation, "empty username")

	// ErrRejected is matched by client-side errors carrying a "fail" reply.
	ErrRejected = errors.New("rejected by server")
)

// fault is an error that prints only its own message but still matches its
// kind with errors.Is.
type fault struct {
	kind error
	msg  string
}

func newFault(kind error, msg string) error {
	return &fault{kind: kind, msg: msg}
}

func (f *fault) Error() string { return f.msg }

func (f *fault) Unwrap() error { return f.kind }
