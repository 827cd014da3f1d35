// Package filewriter implements the FileWriter destination: it batches
// outgoing records into a single writev, flushes on batch size or
// timeout, and tracks partial writes byte-for-byte so a short write
// never loses or duplicates a message.
package filewriter

import (
	"bytes"
	"sync"
	"time"

	"github.com/axleware/logframe/internal/constants"
	"github.com/axleware/logframe/internal/errors"
	"github.com/axleware/logframe/internal/io/pool"
	"github.com/axleware/logframe/internal/transport"
)

// PostStatus is the result of posting one record.
type PostStatus int

const (
	PostSuccess PostStatus = iota
	PostPartial
	PostError
)

// Writer batches records into a transport.Writev call, retrying partial
// writes byte-accurately and acking/rewinding batches through the
// caller-supplied callbacks.
type Writer struct {
	tr transport.Transport

	// Ack is called with the number of records that have been safely
	// handed to the OS (and fsync'd, if enabled), so the upstream queue
	// knows it may release them.
	Ack func(n int)
	// Rewind is called when a write fails non-recoverably mid-batch;
	// every currently batched (and any still-partial) message must be
	// reposted by the caller.
	Rewind func()

	fsync       bool
	timeout     time.Duration
	lastWriteAt time.Time

	mu sync.Mutex

	batch    [][]byte
	batchCap int
	sumLen   int

	partial         []byte
	partialPos      int
	partialMessages int
}

// New builds a Writer over tr, batching up to flushLines records before
// writing, fsyncing after every successful write when fsync is true.
func New(tr transport.Transport, flushLines int, fsync bool, timeout time.Duration) *Writer {
	if flushLines <= 0 {
		flushLines = constants.DefaultFlushLines
	}
	if flushLines > constants.MaxIovecs {
		flushLines = constants.MaxIovecs
	}
	return &Writer{
		tr:          tr,
		fsync:       fsync,
		timeout:     timeout,
		batchCap:    flushLines,
		lastWriteAt: time.Now(),
	}
}

// Post adds a record to the pending batch, flushing first if the batch
// is already full or a previous partial write is still outstanding.
// PostPartial means the caller must stop posting until Flush succeeds.
func (w *Writer) Post(record []byte) PostStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.batch) >= w.batchCap || w.partial != nil {
		status := w.flushLocked()
		if status != PostSuccess || len(w.batch) >= w.batchCap || w.partial != nil {
			return status
		}
	}

	w.batch = append(w.batch, record)
	w.sumLen += len(record)

	if len(w.batch) == w.batchCap {
		return w.flushLocked()
	}
	return PostSuccess
}

// Flush tries to complete any pending partial write, then attempts to
// write the whole batch.
func (w *Writer) Flush() PostStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

func (w *Writer) flushLocked() PostStatus {
	if w.partial != nil {
		status := w.flushPartialLocked()
		if status != PostSuccess {
			return status
		}
	}

	if len(w.batch) == 0 {
		return PostSuccess
	}

	n, err := w.tr.Writev(w.batch)
	w.lastWriteAt = time.Now()
	if n > 0 && w.fsync {
		if f, ok := w.tr.(interface{ Fsync() error }); ok {
			f.Fsync()
		}
	}
	if err != nil {
		if errors.Is(err, errors.KindAgain) {
			return PostSuccess
		}
		w.rewindLocked()
		return PostError
	}

	if n != w.sumLen {
		w.processPartialWriteLocked(n)
	} else if w.Ack != nil {
		w.Ack(len(w.batch))
	}

	w.batch = nil
	w.sumLen = 0
	return PostSuccess
}

func (w *Writer) flushPartialLocked() PostStatus {
	remaining := w.partial[w.partialPos:]
	n, err := w.tr.Write(remaining)
	if n > 0 && w.fsync {
		if f, ok := w.tr.(interface{ Fsync() error }); ok {
			f.Fsync()
		}
	}
	if err != nil {
		if errors.Is(err, errors.KindAgain) {
			return PostSuccess
		}
		w.rewindLocked()
		return PostError
	}
	if n != len(remaining) {
		w.partialPos += n
		return PostPartial
	}

	if w.Ack != nil {
		w.Ack(w.partialMessages)
	}
	w.partial = nil
	w.partialMessages = 0
	w.partialPos = 0
	return PostSuccess
}

// processPartialWriteLocked splits a short writev into an acked prefix
// and a re-packed contiguous tail buffer, byte-accurate down to a
// message that was cut mid-way through.
func (w *Writer) processPartialWriteLocked(written int) {
	sum := len(w.batch[0])
	i := 0
	for written > sum {
		i++
		sum += len(w.batch[i])
	}

	firstNonWrittenChunkLen := sum - written
	firstNonWrittenIndex := i
	if firstNonWrittenChunkLen == 0 {
		// The cut fell exactly after batch[i]: that record is fully
		// written, and the next one is the first not written at all.
		firstNonWrittenIndex++
		firstNonWrittenChunkLen = len(w.batch[firstNonWrittenIndex])
	}

	staging := pool.BytesBuffer.Get().(*bytes.Buffer)
	staging.Reset()
	chunk := w.batch[firstNonWrittenIndex]
	offset := len(chunk) - firstNonWrittenChunkLen
	staging.Write(chunk[offset:])
	for j := firstNonWrittenIndex + 1; j < len(w.batch); j++ {
		staging.Write(w.batch[j])
	}

	w.partial = append([]byte(nil), staging.Bytes()...)
	pool.RecycleBytesBuffer(staging)
	w.partialPos = 0
	w.partialMessages = len(w.batch) - firstNonWrittenIndex

	if w.Ack != nil {
		w.Ack(len(w.batch) - w.partialMessages)
	}
}

func (w *Writer) rewindLocked() {
	if w.Rewind != nil {
		w.Rewind()
	}
	w.batch = nil
	w.sumLen = 0
	w.partial = nil
	w.partialPos = 0
	w.partialMessages = 0
}

// PendingWrite reports whether there is buffered or partial data
// waiting to be written, which the scheduler uses (together with
// Timeout) to decide whether to reassert writability.
func (w *Writer) PendingWrite() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.batch) > 0 || w.partial != nil
}

// Timeout returns the writer's idle reassertion interval; zero means
// none configured.
func (w *Writer) Timeout() time.Duration { return w.timeout }
