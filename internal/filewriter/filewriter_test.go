package filewriter

import (
	"testing"
	"time"

	"github.com/axleware/logframe/internal/errors"
	"github.com/axleware/logframe/internal/transport"
)

// fakeTransport records every Writev/Write call and can be told to
// truncate the next N calls to a short write, or fail outright.
type fakeTransport struct {
	written     [][]byte
	shortN      int
	failNext    bool
	failWithErr error
	writevCalls int
	writeCalls  int
	fsyncCalls  int
}

func (f *fakeTransport) Read(buf []byte) (int, error)     { return 0, errors.ErrEOF }
func (f *fakeTransport) ReadAhead(buf []byte) (int, error) { return 0, errors.ErrAgain }
func (f *fakeTransport) FD() int                           { return -1 }
func (f *fakeTransport) Cond() transport.Cond              { return transport.CondWritable }
func (f *fakeTransport) Close() error                      { return nil }
func (f *fakeTransport) Fsync() error                      { f.fsyncCalls++; return nil }

func (f *fakeTransport) Write(buf []byte) (int, error) {
	f.writeCalls++
	if f.failNext {
		f.failNext = false
		return 0, f.failWithErr
	}
	n := len(buf)
	if f.shortN > 0 && f.shortN < n {
		n = f.shortN
		f.shortN = 0
	}
	f.written = append(f.written, append([]byte(nil), buf[:n]...))
	return n, nil
}

func (f *fakeTransport) Writev(iovs [][]byte) (int, error) {
	f.writevCalls++
	total := 0
	for _, iov := range iovs {
		total += len(iov)
	}
	if f.failNext {
		f.failNext = false
		return 0, f.failWithErr
	}
	n := total
	if f.shortN > 0 && f.shortN < n {
		n = f.shortN
		f.shortN = 0
	}
	var flat []byte
	for _, iov := range iovs {
		flat = append(flat, iov...)
	}
	f.written = append(f.written, flat[:n])
	return n, nil
}

func TestPostBelowBatchCapDoesNotFlush(t *testing.T) {
	tr := &fakeTransport{}
	w := New(tr, 4, false, 0)

	if status := w.Post([]byte("one")); status != PostSuccess {
		t.Fatalf("expected success, got %v", status)
	}
	if tr.writevCalls != 0 {
		t.Fatalf("expected no writev before batch is full, got %d calls", tr.writevCalls)
	}
}

func TestPostFlushesWhenBatchFull(t *testing.T) {
	tr := &fakeTransport{}
	var acked int
	w := New(tr, 2, false, 0)
	w.Ack = func(n int) { acked += n }

	w.Post([]byte("one"))
	w.Post([]byte("two"))

	if tr.writevCalls != 1 {
		t.Fatalf("expected one writev on batch full, got %d", tr.writevCalls)
	}
	if acked != 2 {
		t.Fatalf("expected 2 acked records, got %d", acked)
	}
}

func TestShortWritevProducesPartialAndAcksPrefix(t *testing.T) {
	tr := &fakeTransport{shortN: 3} // "one" fully written, "two" not
	var acked int
	w := New(tr, 2, false, 0)
	w.Ack = func(n int) { acked += n }

	w.Post([]byte("one"))
	status := w.Post([]byte("two"))
	if status != PostSuccess {
		t.Fatalf("expected success from Post (partial recorded internally), got %v", status)
	}
	if acked != 1 {
		t.Fatalf("expected 1 record acked for the fully-written prefix, got %d", acked)
	}
	if !w.PendingWrite() {
		t.Fatal("expected a pending partial write after short writev")
	}

	// Complete the partial on the next flush.
	status = w.Flush()
	if status != PostSuccess {
		t.Fatalf("expected flush to complete the partial write, got %v", status)
	}
	if acked != 2 {
		t.Fatalf("expected second record acked after partial completes, got %d", acked)
	}
	if w.PendingWrite() {
		t.Fatal("expected no pending write after partial completes")
	}
}

func TestWriteErrorTriggersRewind(t *testing.T) {
	tr := &fakeTransport{failNext: true, failWithErr: errors.Wrap(errors.KindIO, errRawIO, "disk full")}
	var rewound bool
	w := New(tr, 1, false, 0)
	w.Rewind = func() { rewound = true }

	status := w.Post([]byte("one"))
	if status != PostError {
		t.Fatalf("expected PostError, got %v", status)
	}
	if !rewound {
		t.Fatal("expected Rewind callback to fire on hard write error")
	}
	if w.PendingWrite() {
		t.Fatal("expected no pending write after rewind")
	}
}

func TestAgainIsNotAnError(t *testing.T) {
	tr := &fakeTransport{failNext: true, failWithErr: errors.ErrAgain}
	w := New(tr, 1, false, 0)

	status := w.Post([]byte("one"))
	if status != PostSuccess {
		t.Fatalf("expected AGAIN to be treated as success-defer, got %v", status)
	}
	if !w.PendingWrite() {
		t.Fatal("expected the batch to remain pending after AGAIN")
	}
}

func TestFlushLinesDefaultsAndCaps(t *testing.T) {
	tr := &fakeTransport{}
	w := New(tr, 0, false, 0)
	if w.batchCap != 1 {
		t.Fatalf("expected default batchCap 1, got %d", w.batchCap)
	}

	w2 := New(tr, 1<<20, false, 0)
	if w2.batchCap != 1024 {
		t.Fatalf("expected batchCap capped at MaxIovecs, got %d", w2.batchCap)
	}
}

func TestTimeoutIsExposed(t *testing.T) {
	tr := &fakeTransport{}
	w := New(tr, 1, false, 5*time.Second)
	if w.Timeout() != 5*time.Second {
		t.Fatalf("expected configured timeout, got %v", w.Timeout())
	}
}

var errRawIO = &rawIOErr{}

type rawIOErr struct{}

func (*rawIOErr) Error() string { return "disk full" }
