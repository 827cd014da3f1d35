package recordsource

import (
	"github.com/axleware/logframe/internal/errors"
	"github.com/axleware/logframe/internal/transport"
)

// memTransport is a minimal in-memory Transport for exercising the
// record sources without touching the filesystem or network.
type memTransport struct {
	data   []byte
	pos    int
	closed bool
}

func newMemTransport(data string) *memTransport {
	return &memTransport{data: []byte(data)}
}

func (m *memTransport) Read(buf []byte) (int, error) {
	if m.pos >= len(m.data) {
		return 0, errors.ErrEOF
	}
	n := copy(buf, m.data[m.pos:])
	m.pos += n
	return n, nil
}

func (m *memTransport) ReadAhead(buf []byte) (int, error) {
	if m.pos >= len(m.data) {
		return 0, errors.ErrAgain
	}
	n := copy(buf, m.data[m.pos:])
	return n, nil
}

func (m *memTransport) Write(buf []byte) (int, error) { return len(buf), nil }

func (m *memTransport) Writev(iovs [][]byte) (int, error) {
	total := 0
	for _, iov := range iovs {
		total += len(iov)
	}
	return total, nil
}

func (m *memTransport) FD() int { return -1 }

func (m *memTransport) Cond() transport.Cond { return transport.CondReadable }

func (m *memTransport) Close() error { m.closed = true; return nil }
