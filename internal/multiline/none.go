package multiline

// None is the default policy: every located segment is already a
// complete record.
type None struct{}

func (None) Accumulate(prefix, segment []byte) Verdict {
	return Extracted | ConsumeSegment
}

func (None) KeepTrailingNewline() bool { return false }
