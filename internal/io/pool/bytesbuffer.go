package pool

import (
	"bytes"
	"sync"

	"github.com/axleware/logframe/internal/constants"
)

// BytesBuffer pools *bytes.Buffer instances to cut allocations on the
// record-assembly hot path (filewriter's partial-write staging).
var BytesBuffer = sync.Pool{
	New: func() interface{} {
		b := bytes.Buffer{}
		// Most records fall well under the small buffer size; growing
		// up front avoids repeated reallocation during accumulation.
		b.Grow(constants.SmallBufferSize)
		return &b
	},
}

// RecycleBytesBuffer resets and returns a buffer to the pool.
func RecycleBytesBuffer(b *bytes.Buffer) {
	b.Reset()
	BytesBuffer.Put(b)
}
