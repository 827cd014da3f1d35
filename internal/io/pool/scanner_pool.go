package pool

import (
	"sync"

	"github.com/axleware/logframe/internal/constants"
)

// LargeBufferPool provides pooled buffers sized for framed protocols and
// writev staging.
var LargeBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, constants.LargeBufferSize)
		return &buf
	},
}

// MediumBufferPool provides pooled buffers sized for a BufferedServer ring.
var MediumBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, constants.MediumBufferSize)
		return &buf
	},
}

// SmallBufferPool provides pooled buffers for small scratch operations.
var SmallBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, constants.SmallBufferSize)
		return &buf
	},
}

// GetLargeBuffer gets a large buffer from the pool.
func GetLargeBuffer() *[]byte {
	return LargeBufferPool.Get().(*[]byte)
}

// PutLargeBuffer zeroes and returns a large buffer to the pool.
func PutLargeBuffer(buf *[]byte) {
	putBuffer(&LargeBufferPool, buf)
}

// GetMediumBuffer gets a medium buffer from the pool.
func GetMediumBuffer() *[]byte {
	return MediumBufferPool.Get().(*[]byte)
}

// PutMediumBuffer zeroes and returns a medium buffer to the pool.
func PutMediumBuffer(buf *[]byte) {
	putBuffer(&MediumBufferPool, buf)
}

// GetSmallBuffer gets a small buffer from the pool.
func GetSmallBuffer() *[]byte {
	return SmallBufferPool.Get().(*[]byte)
}

// PutSmallBuffer zeroes and returns a small buffer to the pool.
func PutSmallBuffer(buf *[]byte) {
	putBuffer(&SmallBufferPool, buf)
}

func putBuffer(p *sync.Pool, buf *[]byte) {
	if buf != nil && len(*buf) > 0 {
		*buf = (*buf)[:cap(*buf)]
		for i := range *buf {
			(*buf)[i] = 0
		}
	}
	p.Put(buf)
}
