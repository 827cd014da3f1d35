package constants

import "time"

// Timeout constants used throughout the core.
const (
	// DefaultFollowFreqMS is the default poll interval for the
	// stat-on-a-timer PollEvents strategy.
	DefaultFollowFreqMS = 1000

	// DefaultWriterTimeout is the default idle reassertion timeout for
	// FileWriter when the caller didn't configure one explicitly.
	DefaultWriterTimeout = 10 * time.Second

	// EOFRetryDelay is how long a follow-mode reader backs off after
	// observing AGAIN with nothing new to read.
	EOFRetryDelay = 100 * time.Millisecond

	// DayDuration represents 24 hours, used by dlog for log file rotation.
	DayDuration = 24 * time.Hour
)
