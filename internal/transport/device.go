package transport

import (
	"os"

	"github.com/axleware/logframe/internal/errors"
)

// DeviceTransport wraps a character device (e.g. a kernel log ring
// buffer) where the driver guarantees a single read() returns at most
// one complete record, never a partial line or several concatenated
// ones, and reports this through OneMessagePerRead. The record sources
// do not consult that flag: bytes read from a DeviceTransport are split
// into records by the protocol's usual EOL or frame scanning.
type DeviceTransport struct {
	f *os.File
}

// NewDeviceTransport wraps f, a character device file descriptor.
func NewDeviceTransport(f *os.File) *DeviceTransport {
	return &DeviceTransport{f: f}
}

func (t *DeviceTransport) Read(buf []byte) (int, error) {
	n, err := retryEINTR(func() (int, error) { return t.f.Read(buf) })
	if err != nil {
		if n == 0 {
			return 0, errors.ErrEOF
		}
		return n, errors.Wrap(errors.KindIO, err, "reading device transport")
	}
	return n, nil
}

func (t *DeviceTransport) ReadAhead(buf []byte) (int, error) {
	return 0, errors.New(errors.KindIO, "read-ahead is not supported on device transports")
}

func (t *DeviceTransport) Write(buf []byte) (int, error) {
	return 0, errors.New(errors.KindIO, "device transports are read-only")
}

func (t *DeviceTransport) Writev(iovs [][]byte) (int, error) {
	return 0, errors.New(errors.KindIO, "device transports are read-only")
}

func (t *DeviceTransport) FD() int { return int(t.f.Fd()) }

func (t *DeviceTransport) Cond() Cond { return CondReadable }

func (t *DeviceTransport) Close() error { return t.f.Close() }

// OneMessagePerRead satisfies transport.OneMessagePerRead.
func (t *DeviceTransport) OneMessagePerRead() bool { return true }
