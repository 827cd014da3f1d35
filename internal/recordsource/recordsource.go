// Package recordsource wires a Transport, a Buffer, and a protocol (text
// with multi-line aggregation, RFC6587 octet-counted framing, or
// auto-detection between the two) into the RecordSource the rest of the
// agent consumes: prepare/fetch/restore/close, with bookmarks for
// crash-safe resumption.
package recordsource

import (
	"github.com/axleware/logframe/internal/bookmark"
	"github.com/axleware/logframe/internal/errors"
)

// PrepareAction tells the scheduler what to do before the next Fetch.
type PrepareAction int

const (
	// ActionPollIO means wait for the transport's readiness condition.
	ActionPollIO PrepareAction = iota
	// ActionForceScheduleFetch means a cached EOL or buffered bytes are
	// already enough to extract a record without any I/O.
	ActionForceScheduleFetch
	// ActionSuspend means nothing to do until externally resumed.
	ActionSuspend
)

// FetchStatus classifies a Fetch result when no record is returned.
type FetchStatus int

const (
	FetchOK FetchStatus = iota
	FetchWouldBlock
	FetchEOF
	FetchError
)

// FetchResult is what Fetch returns: either a record plus the bookmark
// that would resume exactly after it, or a status explaining why there
// isn't one yet.
type FetchResult struct {
	Status   FetchStatus
	Record   []byte
	Bookmark bookmark.Bookmark
	Err      error
}

// RecordSource is what the rest of the agent drives: ask it to prepare
// (decide whether to poll I/O or fetch immediately), fetch a record, and
// restore it from a bookmark after a restart.
type RecordSource interface {
	PollPrepare() PrepareAction
	Fetch() FetchResult
	Restore(b bookmark.Bookmark) error
	Close() error
}

// errProtocolAt builds a KindProtocol RecordError carrying the stream
// offset at which the violation occurred.
func errProtocolAt(offset int64, format string, args ...interface{}) error {
	return errors.NewAt(errors.KindProtocol, offset, format, args...)
}
