package transport

import (
	"io"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/axleware/logframe/internal/errors"
)

// FileTransport wraps an *os.File. In follow mode, a zero-byte read past
// EOF is reported as AGAIN rather than EOF, so a PollEvents strategy
// keeps watching for new bytes appended to the file instead of the
// caller treating the source as finished.
type FileTransport struct {
	f      *os.File
	follow bool
}

// NewFileTransport wraps f. When follow is true, Read translates EOF
// into AGAIN.
func NewFileTransport(f *os.File, follow bool) *FileTransport {
	return &FileTransport{f: f, follow: follow}
}

func (t *FileTransport) Read(buf []byte) (int, error) {
	n, err := retryEINTR(func() (int, error) { return t.f.Read(buf) })
	if err != nil {
		if isEOFErr(err) || n == 0 {
			if t.follow {
				return 0, errors.ErrAgain
			}
			return 0, errors.ErrEOF
		}
		return n, errors.Wrap(errors.KindIO, err, "reading file transport")
	}
	if n == 0 {
		if t.follow {
			return 0, errors.ErrAgain
		}
		return 0, errors.ErrEOF
	}
	return n, nil
}

// ReadAhead peeks without advancing the file offset, restoring position
// after the read.
func (t *FileTransport) ReadAhead(buf []byte) (int, error) {
	pos, err := t.f.Seek(0, os.SEEK_CUR)
	if err != nil {
		return 0, errors.Wrap(errors.KindIO, err, "seeking for read-ahead")
	}
	n, readErr := t.Read(buf)
	if _, err := t.f.Seek(pos, os.SEEK_SET); err != nil {
		return n, errors.Wrap(errors.KindIO, err, "restoring position after read-ahead")
	}
	return n, readErr
}

func (t *FileTransport) Write(buf []byte) (int, error) {
	n, err := retryEINTR(func() (int, error) { return t.f.Write(buf) })
	if err != nil {
		return n, errors.Wrap(errors.KindIO, err, "writing file transport")
	}
	return n, nil
}

// Writev issues one unix.Writev call for real scatter-gather, retrying
// on EINTR. It has no sequential-write fallback.
func (t *FileTransport) Writev(iovs [][]byte) (int, error) {
	if len(iovs) == 0 {
		return 0, nil
	}
	n, err := unix.Writev(int(t.f.Fd()), iovs)
	if err != nil {
		if err == syscall.EINTR {
			return t.Writev(iovs)
		}
		return n, errors.Wrap(errors.KindIO, err, "writev file transport")
	}
	return n, nil
}

func (t *FileTransport) FD() int { return int(t.f.Fd()) }

func (t *FileTransport) Cond() Cond { return CondReadable }

func (t *FileTransport) Close() error { return t.f.Close() }

// Fsync flushes the file to stable storage, used by FileWriter when
// configured with fsync=true.
func (t *FileTransport) Fsync() error {
	return t.f.Sync()
}

func isEOFErr(err error) bool {
	return err != nil && (err == io.EOF || err == os.ErrClosed)
}
