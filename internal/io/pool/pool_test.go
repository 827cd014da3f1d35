package pool

import (
	"bytes"
	"testing"

	"github.com/axleware/logframe/internal/constants"
)

func TestBytesBufferRecycle(t *testing.T) {
	b := BytesBuffer.Get().(*bytes.Buffer)
	b.WriteString("hello")
	RecycleBytesBuffer(b)

	b2 := BytesBuffer.Get().(*bytes.Buffer)
	if b2.Len() != 0 {
		t.Fatal("expected recycled buffer to be reset")
	}
	if b2.Cap() < constants.SmallBufferSize {
		t.Fatalf("expected buffer grown to at least %d, got cap %d", constants.SmallBufferSize, b2.Cap())
	}
}

func TestGetPutSmallBuffer(t *testing.T) {
	buf := GetSmallBuffer()
	if len(*buf) != constants.SmallBufferSize {
		t.Fatalf("expected small buffer of size %d, got %d", constants.SmallBufferSize, len(*buf))
	}
	(*buf)[0] = 0xAB
	PutSmallBuffer(buf)

	buf2 := GetSmallBuffer()
	if (*buf2)[0] != 0 {
		t.Fatal("expected recycled buffer to be zeroed")
	}
	PutSmallBuffer(buf2)
}

func TestGetPutMediumBuffer(t *testing.T) {
	buf := GetMediumBuffer()
	if len(*buf) != constants.MediumBufferSize {
		t.Fatalf("expected medium buffer of size %d, got %d", constants.MediumBufferSize, len(*buf))
	}
	PutMediumBuffer(buf)
}

func TestGetPutLargeBuffer(t *testing.T) {
	buf := GetLargeBuffer()
	if len(*buf) != constants.LargeBufferSize {
		t.Fatalf("expected large buffer of size %d, got %d", constants.LargeBufferSize, len(*buf))
	}
	PutLargeBuffer(buf)
}
