package constants

// Buffer size constants in bytes.
const (
	// DefaultMaxMsgSize is the default hard cap on a single record for
	// text-based protocols, default 64KB.
	DefaultMaxMsgSize = 64 * 1024

	// DefaultFramedMaxMsgSize is the default cap for octet-counted framing,
	// which tends to carry larger structured payloads than plain text lines.
	DefaultFramedMaxMsgSize = 10 * 1024 * 1024

	// SmallBufferSize is the size of the small pooled scratch buffer.
	SmallBufferSize = 4 * 1024

	// MediumBufferSize is the size of the medium pooled scratch buffer,
	// also the default initial capacity of a BufferedServer ring.
	MediumBufferSize = 64 * 1024

	// LargeBufferSize is the size of the large pooled scratch buffer, used
	// for framed protocols and writev staging.
	LargeBufferSize = 1024 * 1024

	// AutoDetectPeekSize is how many bytes AutoServer peeks to decide
	// between framed and text protocols.
	AutoDetectPeekSize = 8
)