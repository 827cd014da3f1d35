package recordsource

import (
	"github.com/axleware/logframe/internal/bookmark"
	"github.com/axleware/logframe/internal/buffer"
	"github.com/axleware/logframe/internal/errors"
	"github.com/axleware/logframe/internal/transport"
)

// extractor is implemented by each protocol (TextServer, FramedServer):
// given the buffer's current pending window, try to locate one complete
// record. ok=false with err=nil means "need more bytes".
type extractor interface {
	tryExtract(buf *buffer.Buffer, inputClosed bool) (record []byte, consumedThrough int, ok bool, err error)
	// onOversizeOrEOF is invoked when the buffer is full (or input
	// closed) with no record located: it decides how to flush the
	// whole pending window as a single record and reset any internal
	// state (multi-line prefix, framing state) for what follows.
	onOversizeOrEOF(buf *buffer.Buffer) (record []byte, consumedThrough int)
}

// bufferedServer is the shared BufferedServer base: it owns the Buffer,
// drives the Transport, and asks an extractor to find one record per
// Fetch call.
type bufferedServer struct {
	tr   transport.Transport
	buf  *buffer.Buffer
	ex   extractor
	key  string // bookmark key
	eof  bool
}

func newBufferedServer(tr transport.Transport, capacity int, ex extractor, key string) *bufferedServer {
	return &bufferedServer{
		tr:  tr,
		buf: buffer.New(capacity),
		ex:  ex,
		key: key,
	}
}

func (s *bufferedServer) PollPrepare() PrepareAction {
	if s.buf.CachedEOLPos() != 0 {
		return ActionForceScheduleFetch
	}
	return ActionPollIO
}

func (s *bufferedServer) Fetch() FetchResult {
	if record, consumed, ok, err := s.ex.tryExtract(s.buf, s.eof); err != nil {
		return FetchResult{Status: FetchError, Err: err}
	} else if ok {
		return s.deliver(record, consumed)
	}

	if s.buf.IsFull() || s.eof {
		record, consumed := s.ex.onOversizeOrEOF(s.buf)
		if record != nil {
			return s.deliver(record, consumed)
		}
		if s.eof {
			return FetchResult{Status: FetchEOF}
		}
	}

	s.buf.Compact()
	n, err := s.tr.Read(s.buf.RefillSlice())
	if err != nil {
		if errors.Is(err, errors.KindAgain) {
			return FetchResult{Status: FetchWouldBlock}
		}
		if errors.Is(err, errors.KindEOF) {
			s.eof = true
			return s.Fetch()
		}
		return FetchResult{Status: FetchError, Err: err}
	}
	s.buf.CommitRefill(n)

	if record, consumed, ok, err := s.ex.tryExtract(s.buf, s.eof); err != nil {
		return FetchResult{Status: FetchError, Err: err}
	} else if ok {
		return s.deliver(record, consumed)
	}
	return FetchResult{Status: FetchWouldBlock}
}

func (s *bufferedServer) deliver(record []byte, consumedThrough int) FetchResult {
	s.buf.Advance(consumedThrough)
	rawPos, pos, end, contents := s.buf.Snapshot()
	return FetchResult{
		Status: FetchOK,
		Record: record,
		Bookmark: bookmark.Bookmark{
			RawStreamPos: rawPos,
			PendingPos:   pos,
			PendingEnd:   end,
			Contents:     contents,
		},
	}
}

func (s *bufferedServer) Restore(b bookmark.Bookmark) error {
	s.buf.Restore(b.RawStreamPos, b.PendingPos, b.PendingEnd, b.Contents)
	return nil
}

func (s *bufferedServer) Close() error {
	s.buf.Release()
	return s.tr.Close()
}
