// Package buffer implements the bounded byte ring that BufferedServer
// drives: it owns the positions a protocol needs to locate a record,
// cache the next end-of-line, and track a partial multi-line
// accumulation, and it is the unit a Bookmark snapshots for crash-safe
// resumption.
package buffer

import (
	"github.com/axleware/logframe/internal/constants"
	"github.com/axleware/logframe/internal/io/pool"
)

const (
	smallTier  = constants.SmallBufferSize
	mediumTier = constants.MediumBufferSize
	largeTier  = constants.LargeBufferSize
)

// Buffer is a contiguous byte region of bounded capacity. It is NOT
// safe for concurrent use; it is exclusively owned by one
// BufferedServer, same as a Transport is exclusively owned by one
// protocol instance.
type Buffer struct {
	data []byte

	// pooled is the pool slot data was drawn from, if its size matched
	// one of the pool's tiers; nil means data was allocated directly
	// (e.g. a test-only odd-sized capacity) and Release is a no-op.
	pooled *[]byte
	putFn  func(*[]byte)

	// pendingPos is the first unconsumed byte.
	pendingPos int
	// pendingEnd is one past the last valid byte.
	pendingEnd int

	// rawStreamPos is the position of pendingPos in the original,
	// pre-decoding stream; used for bookmarks.
	rawStreamPos int64

	// cachedEOLPos, if non-zero, is the offset of the next known
	// end-of-line after the last extracted record. Zero means "no
	// cached peek"; it is always > pendingPos when set.
	cachedEOLPos int

	// consumedLen is how much of the in-progress candidate record
	// multi-line logic has already agreed to consume. -1 means "no
	// partial extraction is in progress".
	consumedLen int
}

// New allocates a Buffer with the given capacity. Capacities matching
// one of the pool's size tiers are drawn from it instead of allocated
// fresh, and returned on Release.
func New(capacity int) *Buffer {
	var data []byte
	var pooled *[]byte
	var putFn func(*[]byte)

	switch capacity {
	case smallTier:
		pooled, putFn = pool.GetSmallBuffer(), pool.PutSmallBuffer
	case mediumTier:
		pooled, putFn = pool.GetMediumBuffer(), pool.PutMediumBuffer
	case largeTier:
		pooled, putFn = pool.GetLargeBuffer(), pool.PutLargeBuffer
	}
	if pooled != nil {
		data = (*pooled)[:capacity]
	} else {
		data = make([]byte, capacity)
	}

	return &Buffer{
		data:        data,
		pooled:      pooled,
		putFn:       putFn,
		consumedLen: -1,
	}
}

// Release returns a pool-backed Buffer's storage to its pool. Safe to
// call on a Buffer that wasn't pool-backed; it is then a no-op.
func (b *Buffer) Release() {
	if b.pooled == nil {
		return
	}
	*b.pooled = b.data
	b.putFn(b.pooled)
	b.pooled = nil
	b.putFn = nil
	b.data = nil
}

// Capacity returns the buffer's fixed allocation size.
func (b *Buffer) Capacity() int { return len(b.data) }

// Pending returns the unconsumed byte window [pendingPos, pendingEnd).
func (b *Buffer) Pending() []byte { return b.data[b.pendingPos:b.pendingEnd] }

// Available reports how many unconsumed bytes remain.
func (b *Buffer) Available() int { return b.pendingEnd - b.pendingPos }

// Free reports how much room is left to refill from the transport.
func (b *Buffer) Free() int { return len(b.data) - b.pendingEnd }

// IsFull reports whether the buffer has no room left to refill without
// first compacting (sliding unconsumed bytes to the front).
func (b *Buffer) IsFull() bool { return b.pendingEnd >= len(b.data) }

// Compact slides any unconsumed bytes to the front of the buffer,
// adjusting positions (including any cached EOL) to match, and
// resetting consumedLen's reference frame since it is always relative
// to pendingPos's start-of-record.
func (b *Buffer) Compact() {
	if b.pendingPos == 0 {
		return
	}
	n := copy(b.data, b.data[b.pendingPos:b.pendingEnd])
	if b.cachedEOLPos != 0 {
		b.cachedEOLPos -= b.pendingPos
	}
	b.rawStreamPos += int64(b.pendingPos)
	b.pendingPos = 0
	b.pendingEnd = n
}

// RefillSlice returns the writable tail the caller should Read into; it
// starts at PendingEnd.
func (b *Buffer) RefillSlice() []byte {
	return b.data[b.pendingEnd:]
}

// CommitRefill records that n freshly-read bytes now occupy the tail
// returned by RefillSlice.
func (b *Buffer) CommitRefill(n int) {
	b.pendingEnd += n
}

// CachedEOLPos returns the cached next-EOL offset, or 0 if none.
func (b *Buffer) CachedEOLPos() int { return b.cachedEOLPos }

// SetCachedEOLPos records a pre-located next end-of-line, or clears it
// when pos is 0.
func (b *Buffer) SetCachedEOLPos(pos int) { b.cachedEOLPos = pos }

// ConsumedLen returns the in-progress record's accumulated length, or -1
// if no partial extraction is in progress.
func (b *Buffer) ConsumedLen() int { return b.consumedLen }

// SetConsumedLen records how much of the in-progress candidate record
// has been agreed to so far.
func (b *Buffer) SetConsumedLen(n int) { b.consumedLen = n }

// ResetConsumedLen clears partial-extraction state after a full record
// has been extracted.
func (b *Buffer) ResetConsumedLen() { b.consumedLen = -1 }

// PendingPos returns the first unconsumed byte's offset.
func (b *Buffer) PendingPos() int { return b.pendingPos }

// PendingEnd returns one past the last valid byte's offset.
func (b *Buffer) PendingEnd() int { return b.pendingEnd }

// Advance moves pendingPos forward by n bytes, past an extracted
// record's terminator, rebasing any cached EOL offset along with it
// (mirroring Compact).
func (b *Buffer) Advance(n int) {
	b.pendingPos += n
	if b.cachedEOLPos != 0 {
		b.cachedEOLPos -= n
	}
}

// RawStreamPos returns the position of pendingPos in the original,
// pre-decoding stream.
func (b *Buffer) RawStreamPos() int64 { return b.rawStreamPos }

// Snapshot captures the (raw_stream_pos, pending_buffer_pos,
// pending_buffer_end) triple plus the buffer's live contents, ready to
// be handed to a Bookmark for persistence.
func (b *Buffer) Snapshot() (rawStreamPos int64, pos, end int, contents []byte) {
	contents = make([]byte, b.pendingEnd)
	copy(contents, b.data[:b.pendingEnd])
	return b.rawStreamPos, b.pendingPos, b.pendingEnd, contents
}

// Restore re-primes the buffer from a previously captured snapshot.
func (b *Buffer) Restore(rawStreamPos int64, pos, end int, contents []byte) {
	if cap(b.data) < len(contents) {
		b.data = make([]byte, len(contents))
		b.pooled = nil
		b.putFn = nil
	} else {
		b.data = b.data[:cap(b.data)]
	}
	copy(b.data, contents)
	b.rawStreamPos = rawStreamPos
	b.pendingPos = pos
	b.pendingEnd = end
	b.cachedEOLPos = 0
	b.consumedLen = -1
}
