package constants

// Numeric limits used throughout the core.
const (
	// RFC6587MaxFrameLenDigits bounds the decimal length field accepted by
	// FramedServer before parsing: 10^RFC6587MaxFrameLenDigits - 1.
	RFC6587MaxFrameLenDigits = 7

	// RFC6587MaxFrameLen is the largest frame length FramedServer accepts
	// unless a smaller MaxMsgSize is configured.
	RFC6587MaxFrameLen = 9999999

	// DefaultFlushLines is the writer batch size if unconfigured.
	DefaultFlushLines = 1

	// MaxIovecs caps how many records FileWriter batches into one writev,
	// independent of any platform IOV_MAX, to keep staging allocations
	// bounded.
	MaxIovecs = 1024

	// MaxSmartStates is the nominal bound on distinct FSM states for the
	// Smart multi-line policy; smartrules.Load does not check it.
	MaxSmartStates = 64
)
