package transport

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/axleware/logframe/internal/errors"
)

// PipeTransport wraps a named pipe or anonymous pipe end. Unlike
// FileTransport, EOF on a pipe (writer closed) is always a real EOF,
// never translated to AGAIN, since a pipe has no "file grows later"
// concept the way a followed regular file does.
type PipeTransport struct {
	f *os.File
}

// NewPipeTransport wraps f, a pipe file descriptor.
func NewPipeTransport(f *os.File) *PipeTransport {
	return &PipeTransport{f: f}
}

func (t *PipeTransport) Read(buf []byte) (int, error) {
	n, err := retryEINTR(func() (int, error) { return t.f.Read(buf) })
	if err != nil {
		if n == 0 {
			return 0, errors.ErrEOF
		}
		return n, errors.Wrap(errors.KindIO, err, "reading pipe transport")
	}
	if n == 0 {
		return 0, errors.ErrEOF
	}
	return n, nil
}

// ReadAhead is unsupported on a pipe: bytes consumed from a pipe cannot
// be un-consumed, so AutoServer cannot sniff a pipe's protocol without
// committing. Callers configure the protocol explicitly for pipes.
func (t *PipeTransport) ReadAhead(buf []byte) (int, error) {
	return 0, errors.New(errors.KindIO, "read-ahead is not supported on pipe transports")
}

func (t *PipeTransport) Write(buf []byte) (int, error) {
	n, err := retryEINTR(func() (int, error) { return t.f.Write(buf) })
	if err != nil {
		return n, errors.Wrap(errors.KindIO, err, "writing pipe transport")
	}
	return n, nil
}

func (t *PipeTransport) Writev(iovs [][]byte) (int, error) {
	if len(iovs) == 0 {
		return 0, nil
	}
	n, err := unix.Writev(int(t.f.Fd()), iovs)
	if err != nil {
		return n, errors.Wrap(errors.KindIO, err, "writev pipe transport")
	}
	return n, nil
}

func (t *PipeTransport) FD() int { return int(t.f.Fd()) }

func (t *PipeTransport) Cond() Cond { return CondReadable }

func (t *PipeTransport) Close() error { return t.f.Close() }
