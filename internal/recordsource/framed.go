package recordsource

import (
	"github.com/axleware/logframe/internal/buffer"
	"github.com/axleware/logframe/internal/errors"
	"github.com/axleware/logframe/internal/transport"
)

// FramedServer reads RFC6587 octet-counted frames: a decimal length, a
// single space, then exactly that many bytes.
type FramedServer struct {
	*bufferedServer

	maxFrameLen int

	// state machine
	state       framedState
	frameLen    int
	frameStart  int // offset within the pending window where the message body begins
}

type framedState int

const (
	stateReadFrameLength framedState = iota
	stateReadMessage
)

// NewFramedServer builds a FramedServer over tr with the given buffer
// capacity and a cap on the decimal length field (independent of the
// buffer's own capacity; an oversize frame is a protocol error, not a
// truncation).
func NewFramedServer(tr transport.Transport, capacity, maxFrameLen int, key string) *FramedServer {
	fs := &FramedServer{maxFrameLen: maxFrameLen}
	fs.bufferedServer = newBufferedServer(tr, capacity, fs, key)
	return fs
}

func (fs *FramedServer) tryExtract(buf *buffer.Buffer, inputClosed bool) ([]byte, int, bool, error) {
	pending := buf.Pending()

	if fs.state == stateReadFrameLength {
		i := 0
		length := 0
		sawDigit := false
		for ; i < len(pending); i++ {
			c := pending[i]
			if c >= '0' && c <= '9' {
				sawDigit = true
				length = length*10 + int(c-'0')
				if length > fs.maxFrameLen {
					return nil, 0, false, errors.NewAt(errors.KindProtocol, buf.RawStreamPos()+int64(i),
						"octet-counted frame length exceeds maximum of %d", fs.maxFrameLen)
				}
				continue
			}
			if c == ' ' {
				if !sawDigit {
					return nil, 0, false, errors.NewAt(errors.KindProtocol, buf.RawStreamPos()+int64(i),
						"expected a digit before the frame-length separator")
				}
				fs.frameLen = length
				fs.frameStart = i + 1
				fs.state = stateReadMessage
				break
			}
			return nil, 0, false, errors.NewAt(errors.KindProtocol, buf.RawStreamPos()+int64(i),
				"non-digit, non-space byte in frame length field: %q", c)
		}
		if fs.state == stateReadFrameLength {
			return nil, 0, false, nil // need more bytes to find the length/space
		}
	}

	end := fs.frameStart + fs.frameLen
	if end > len(pending) {
		return nil, 0, false, nil // need more bytes for the message body
	}

	record := pending[fs.frameStart:end]
	consumedThrough := end
	fs.state = stateReadFrameLength
	fs.frameLen = 0
	fs.frameStart = 0
	return record, consumedThrough, true, nil
}

func (fs *FramedServer) onOversizeOrEOF(buf *buffer.Buffer) ([]byte, int) {
	// A framed protocol has no "yield whole buffer" fallback: a frame
	// that never completes is either a protocol error (length exceeded
	// the cap, handled in tryExtract) or trailing garbage at true EOF,
	// which is silently dropped rather than emitted as a bogus record.
	return nil, 0
}
