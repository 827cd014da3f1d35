// Package pollevents tells the scheduler when to call a RecordSource
// back: on fd readiness, on a stat-timer tick, or never (for a one-shot
// read that doesn't need rescheduling).
package pollevents

// Notification is what a PollEvents strategy reports back after a tick
// or a readiness event.
type Notification int

const (
	// NotificationNone means nothing interesting happened.
	NotificationNone Notification = iota
	// NotificationDataAvailable means new bytes are ready to read.
	NotificationDataAvailable
	// NotificationEOF means the source reached a stable end (size ==
	// read position, no growth since the last check).
	NotificationEOF
	// NotificationMoved means the file was truncated, renamed, or
	// replaced under the same path; the caller should reopen.
	NotificationMoved
)

// PollEvents is the scheduling strategy attached to a Transport.
type PollEvents interface {
	// Start begins watching, invoking callback on every notification
	// until Stop is called.
	Start(callback func(Notification)) error
	// Stop releases any OS resources (poller registration, timer) held
	// by this strategy.
	Stop()
}
