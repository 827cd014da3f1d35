package multiline

// EmptyLineSeparated accumulates every non-empty segment into the
// in-progress record, closing it as soon as a blank line (or a line
// containing only a lone CR) is seen.
type EmptyLineSeparated struct{}

func (EmptyLineSeparated) Accumulate(prefix, segment []byte) Verdict {
	if len(segment) == 0 || (len(segment) == 1 && segment[0] == '\r') {
		return Extracted | ConsumeSegment
	}
	return Waiting | ConsumeSegment
}

// KeepTrailingNewline is true: the separator itself must stay visible in
// the accumulated record so callers can tell blocks apart downstream.
func (EmptyLineSeparated) KeepTrailingNewline() bool { return true }
