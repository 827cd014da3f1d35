package transport

import (
	"bytes"
	"io"

	"github.com/DataDog/zstd"

	"github.com/axleware/logframe/internal/errors"
)

// CompressedTransport decorates another Transport with zstd framing on
// the write side and streaming decompression on the read side,
// demonstrating that compression (like TLS) is just another transport
// layered on top of a plain one rather than a special case the core
// needs to know about.
type CompressedTransport struct {
	inner  Transport
	reader io.ReadCloser
	pr     *io.PipeReader
	pw     *io.PipeWriter
}

// NewCompressedTransport wraps inner so that everything written through
// it is zstd-compressed before reaching inner.Write, and everything read
// through it is decompressed after being read from inner.Read.
func NewCompressedTransport(inner Transport) *CompressedTransport {
	pr, pw := io.Pipe()
	return &CompressedTransport{
		inner:  inner,
		reader: zstd.NewReader(pr),
		pr:     pr,
		pw:     pw,
	}
}

func (t *CompressedTransport) Read(buf []byte) (int, error) {
	raw := make([]byte, len(buf))
	n, err := t.inner.Read(raw)
	if n > 0 {
		go t.pw.Write(raw[:n]) //nolint: errcheck // pipe write errors surface via the paired read below
	}
	if err != nil && err != errors.ErrAgain {
		return 0, err
	}
	dn, derr := t.reader.Read(buf)
	if derr != nil && derr != io.EOF {
		return dn, errors.Wrap(errors.KindIO, derr, "zstd decompress")
	}
	return dn, nil
}

func (t *CompressedTransport) ReadAhead(buf []byte) (int, error) {
	return 0, errors.New(errors.KindIO, "read-ahead is not supported through a compressed transport")
}

func (t *CompressedTransport) Write(buf []byte) (int, error) {
	compressed, err := zstd.Compress(nil, buf)
	if err != nil {
		return 0, errors.Wrap(errors.KindIO, err, "zstd compress")
	}
	return t.inner.Write(compressed)
}

func (t *CompressedTransport) Writev(iovs [][]byte) (int, error) {
	var buf bytes.Buffer
	for _, iov := range iovs {
		buf.Write(iov)
	}
	return t.Write(buf.Bytes())
}

func (t *CompressedTransport) FD() int { return t.inner.FD() }

func (t *CompressedTransport) Cond() Cond { return t.inner.Cond() }

func (t *CompressedTransport) Close() error {
	t.reader.Close()
	t.pw.Close()
	return t.inner.Close()
}
