package recordsource

import (
	"bytes"

	"github.com/axleware/logframe/internal/buffer"
	"github.com/axleware/logframe/internal/errors"
	"github.com/axleware/logframe/internal/multiline"
	"github.com/axleware/logframe/internal/transport"
)

// FindEOM locates the next end-of-message marker in data, returning its
// offset, or -1 if none is present. The stock implementation is
// memchr('\n'); NewTextServerWithNULs installs a variant that also
// accepts an embedded NUL as a line terminator, for sources where a
// truncated write can leave a stray zero byte mid-stream.
type FindEOM func(data []byte) int

// FindNewline is the default FindEOM: locate a bare '\n'.
func FindNewline(data []byte) int {
	return bytes.IndexByte(data, '\n')
}

// FindNewlineOrNUL treats an embedded NUL the same as a newline, so a
// stream that was corrupted mid-record doesn't wedge the extractor
// forever waiting for a '\n' that will never come.
func FindNewlineOrNUL(data []byte) int {
	for i, c := range data {
		if c == '\n' || c == 0 {
			return i
		}
	}
	return -1
}

// TextServer locates end-of-line delimited records, applying a
// MultiLineLogic policy to decide when consecutive lines belong to the
// same record.
type TextServer struct {
	*bufferedServer

	findEOM             FindEOM
	logic               multiline.Logic
	maxMsgSize          int
	keepTrailingNewline bool

	// rewound marks that the current pending segment was re-presented
	// after a REWIND verdict and must not be re-matched against a new
	// EOL search (it already has one, at consumedLen).
	rewound bool
}

// NewTextServer builds a TextServer over tr with the given buffer
// capacity and multi-line policy. A nil logic defaults to
// multiline.None{}.
func NewTextServer(tr transport.Transport, capacity, maxMsgSize int, logic multiline.Logic, key string) *TextServer {
	if logic == nil {
		logic = multiline.None{}
	}
	ts := &TextServer{
		findEOM:             FindNewline,
		logic:               logic,
		maxMsgSize:          maxMsgSize,
		keepTrailingNewline: logic.KeepTrailingNewline(),
	}
	ts.bufferedServer = newBufferedServer(tr, capacity, ts, key)
	return ts
}

// NewTextServerWithNULs is like NewTextServer but tolerates embedded
// NULs as alternate line terminators.
func NewTextServerWithNULs(tr transport.Transport, capacity, maxMsgSize int, logic multiline.Logic, key string) *TextServer {
	ts := NewTextServer(tr, capacity, maxMsgSize, logic, key)
	ts.findEOM = FindNewlineOrNUL
	return ts
}

func (ts *TextServer) tryExtract(buf *buffer.Buffer, inputClosed bool) ([]byte, int, bool, error) {
	pending := buf.Pending()
	if len(pending) == 0 {
		return nil, 0, false, nil
	}

	consumedLen := buf.ConsumedLen()
	searchFrom := 0
	if consumedLen >= 0 {
		searchFrom = consumedLen + 1
	}

	var eol int
	if cached := buf.CachedEOLPos(); cached != 0 {
		eol = cached
		buf.SetCachedEOLPos(0)
	} else {
		if searchFrom > len(pending) {
			return nil, 0, false, nil
		}
		rel := ts.findEOM(pending[searchFrom:])
		if rel < 0 {
			if ts.maxMsgSize > 0 && len(pending) >= ts.maxMsgSize {
				// Oversize line: emit the first maxMsgSize bytes as a
				// record and reset any multi-line accumulation.
				record := trimTrailing(pending[:ts.maxMsgSize], ts.keepTrailingNewline)
				buf.ResetConsumedLen()
				return record, ts.maxMsgSize, true, nil
			}
			return nil, 0, false, nil // at EOF, bufferedServer hands the window to onOversizeOrEOF
		}
		eol = searchFrom + rel
	}

	nextLinePos := eol + 1
	if nextLinePos < len(pending) {
		if rel := ts.findEOM(pending[nextLinePos:]); rel >= 0 {
			buf.SetCachedEOLPos(nextLinePos + rel)
		}
	}

	prefixEnd := consumedLen
	if prefixEnd < 0 {
		prefixEnd = 0
	}
	prefix := pending[:prefixEnd]
	segStart := searchFrom
	if consumedLen >= 0 {
		segStart = consumedLen + 1
	}
	segment := pending[segStart:eol]

	verdict := ts.logic.Accumulate(prefix, segment)
	if err := verdict.Validate(); err != nil {
		return nil, 0, false, errors.Wrap(errors.KindProtocol, err, "multi-line verdict")
	}

	switch {
	case verdict.IsExtracted() && verdict.IsConsume():
		record := trimTrailing(pending[:eol-verdict.DropLength()], ts.keepTrailingNewline)
		buf.ResetConsumedLen()
		return record, nextLinePos, true, nil

	case verdict.IsExtracted() && verdict.IsRewind():
		record := trimTrailing(pending[:prefixEnd], ts.keepTrailingNewline)
		buf.ResetConsumedLen()
		buf.SetCachedEOLPos(eol)
		return record, prefixEnd + 1, true, nil

	case verdict.IsWaiting() && verdict.IsConsume():
		buf.SetConsumedLen(eol)
		// Keep going with the next buffered line, if any; only a missing
		// EOL means more bytes are needed.
		return ts.tryExtract(buf, inputClosed)

	default:
		return nil, 0, false, errors.New(errors.KindProtocol, "impossible multi-line verdict: %v", verdict)
	}
}

func (ts *TextServer) onOversizeOrEOF(buf *buffer.Buffer) ([]byte, int) {
	pending := buf.Pending()
	if len(pending) == 0 {
		return nil, 0
	}
	record := trimTrailing(pending, ts.keepTrailingNewline)
	buf.ResetConsumedLen()
	buf.SetCachedEOLPos(0)
	return record, len(pending)
}

func trimTrailing(b []byte, keep bool) []byte {
	if keep {
		return b
	}
	end := len(b)
	for end > 0 && (b[end-1] == '\r' || b[end-1] == '\n' || b[end-1] == 0) {
		end--
	}
	return b[:end]
}
