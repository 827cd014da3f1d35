package pollevents

// None is the strategy for one-shot reads that never need rescheduling:
// Start and Stop are both no-ops.
type None struct{}

func (None) Start(callback func(Notification)) error { return nil }

func (None) Stop() {}
