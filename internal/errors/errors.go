// Package errors provides the error kinds and wrapping helpers shared
// across the framing core, following the sentinel + wrap pattern used
// throughout the rest of the agent.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a RecordError per the error handling design: each kind
// has its own recovery expectation (see the Kind constants below).
type Kind int

const (
	// KindEOF means the transport reported end-of-stream. Upstream
	// decides whether to exit or reopen.
	KindEOF Kind = iota
	// KindAgain means a non-blocking read/write would block; the
	// scheduler reschedules automatically.
	KindAgain
	// KindIO means an OS-level I/O error occurred; the caller logs,
	// closes, and reopens per its own policy.
	KindIO
	// KindProtocol means a framed parser saw a non-digit where a length
	// was expected, or an oversize frame; the connection is closed.
	KindProtocol
	// KindConfig means a configuration error (bad regex, missing smart
	// rules file, pad_size combined with multi-line); returned at init
	// time only.
	KindConfig
	// KindTruncated means an oversize record was emitted intact but
	// clipped to MaxMsgSize; non-fatal.
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "eof"
	case KindAgain:
		return "again"
	case KindIO:
		return "io"
	case KindProtocol:
		return "protocol"
	case KindConfig:
		return "config"
	case KindTruncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// RecordError wraps a Kind, an optional byte offset (used by protocol
// errors to report where in the stream the violation occurred), and an
// optional underlying cause.
type RecordError struct {
	Kind   Kind
	Offset int64
	Cause  error
	Msg    string
}

func (e *RecordError) Error() string {
	if e.Cause != nil {
		if e.Offset != 0 {
			return fmt.Sprintf("%s at offset %d: %s: %v", e.Kind, e.Offset, e.Msg, e.Cause)
		}
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	if e.Offset != 0 {
		return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *RecordError) Unwrap() error {
	return e.Cause
}

// New builds a RecordError of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *RecordError {
	return &RecordError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NewAt builds a protocol-style RecordError carrying a byte offset.
func NewAt(kind Kind, offset int64, format string, args ...interface{}) *RecordError {
	return &RecordError{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a Kind and message to an existing error.
func Wrap(kind Kind, err error, msg string) *RecordError {
	if err == nil {
		return nil
	}
	return &RecordError{Kind: kind, Cause: err, Msg: msg}
}

// Wrapf attaches a Kind and formatted message to an existing error.
func Wrapf(kind Kind, err error, format string, args ...interface{}) *RecordError {
	if err == nil {
		return nil
	}
	return &RecordError{Kind: kind, Cause: err, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is a RecordError of the given kind.
func Is(err error, kind Kind) bool {
	var re *RecordError
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}

// As delegates to errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Sentinel instances for the no-argument cases, so transports can return
// them without constructing a RecordError; callers test them with
// Is(err, KindAgain) or Is(err, KindEOF).
var (
	ErrAgain = &RecordError{Kind: KindAgain, Msg: "operation would block"}
	ErrEOF   = &RecordError{Kind: KindEOF, Msg: "end of stream"}
)
