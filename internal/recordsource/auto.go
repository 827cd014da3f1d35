package recordsource

import (
	"github.com/crewjam/rfc5424"

	"github.com/axleware/logframe/internal/bookmark"
	"github.com/axleware/logframe/internal/constants"
	"github.com/axleware/logframe/internal/errors"
	"github.com/axleware/logframe/internal/multiline"
	"github.com/axleware/logframe/internal/transport"
)

// AutoServer peeks a handful of bytes via Transport.ReadAhead to decide
// between FramedServer and TextServer, then dissolves: once it has
// handed the transport to a concrete protocol, AutoServer no longer
// appears in the RecordSource chain.
type AutoServer struct {
	tr         transport.Transport
	capacity   int
	maxMsgSize int
	maxFrame   int
	logic      multiline.Logic
	key        string

	resolved RecordSource
}

// NewAutoServer builds an AutoServer that will construct either a
// FramedServer or a TextServer (configured with logic) on first use.
func NewAutoServer(tr transport.Transport, capacity, maxMsgSize, maxFrameLen int, logic multiline.Logic, key string) *AutoServer {
	return &AutoServer{tr: tr, capacity: capacity, maxMsgSize: maxMsgSize, maxFrame: maxFrameLen, logic: logic, key: key}
}

// detect peeks the stream and installs the concrete protocol, returning
// it. It is idempotent: later calls return the already-resolved source.
func (a *AutoServer) detect() (RecordSource, error) {
	if a.resolved != nil {
		return a.resolved, nil
	}

	peek := make([]byte, constants.AutoDetectPeekSize)
	n, err := a.tr.ReadAhead(peek)
	if err != nil {
		if errors.Is(err, errors.KindAgain) {
			return nil, nil // not resolved yet; caller retries
		}
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	switch {
	case peek[0] >= '0' && peek[0] <= '9':
		a.resolved = NewFramedServer(a.tr, a.capacity, a.maxFrame, a.key)
	case peek[0] == '<' && looksLikeSyslogPriority(peek[:n]):
		a.resolved = NewTextServer(a.tr, a.capacity, a.maxMsgSize, a.logic, a.key)
	default:
		a.resolved = NewTextServer(a.tr, a.capacity, a.maxMsgSize, a.logic, a.key)
	}
	return a.resolved, nil
}

// looksLikeSyslogPriority tries to parse the peeked prefix as an
// RFC 5424 priority header. The peek window is too short to ever contain
// a full message, so a parse error falls back to a digit scan: true if
// only digits follow '<' up to a '>' or the end of the peek, false at the
// first other byte. Detect installs a TextServer for a '<' prefix either
// way.
func looksLikeSyslogPriority(peek []byte) bool {
	_, err := rfc5424.Parse(peek)
	if err == nil {
		return true
	}
	for _, b := range peek[1:] {
		if b == '>' {
			return true
		}
		if b < '0' || b > '9' {
			return false
		}
	}
	return true
}

func (a *AutoServer) PollPrepare() PrepareAction {
	if a.resolved == nil {
		return ActionPollIO
	}
	return a.resolved.PollPrepare()
}

func (a *AutoServer) Fetch() FetchResult {
	src, err := a.detect()
	if err != nil {
		return FetchResult{Status: FetchError, Err: err}
	}
	if src == nil {
		return FetchResult{Status: FetchWouldBlock}
	}
	return src.Fetch()
}

func (a *AutoServer) Restore(b bookmark.Bookmark) error {
	src, err := a.detect()
	if err != nil {
		return err
	}
	if src == nil {
		return errors.New(errors.KindConfig, "cannot restore an AutoServer bookmark before protocol detection")
	}
	return src.Restore(b)
}

func (a *AutoServer) Close() error {
	if a.resolved != nil {
		return a.resolved.Close()
	}
	return a.tr.Close()
}
