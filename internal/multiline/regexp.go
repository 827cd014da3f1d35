package multiline

import "github.com/axleware/logframe/internal/regex"

// garbageOffset is satisfied by both prefix-garbage matching (the start
// of the whole match marks the garbage boundary) and prefix-suffix
// matching (the end of the whole match marks it).
type garbageOffset func(segment []byte) (offset int, found bool)

// PrefixGarbage marks records by a prefix regex and drops trailing
// garbage found by a separate garbage regex, measured from the start of
// the garbage match.
type PrefixGarbage struct {
	Prefix  regex.Regex
	Garbage regex.Regex
}

func (p PrefixGarbage) Accumulate(prefix, segment []byte) Verdict {
	return accumulateRegexp(prefix, segment, p.Prefix, p.garbageOffset)
}

func (p PrefixGarbage) garbageOffset(segment []byte) (int, bool) {
	loc := p.Garbage.FindIndex(segment)
	if loc == nil {
		return 0, false
	}
	return loc[0], true
}

func (PrefixGarbage) KeepTrailingNewline() bool { return false }

// PrefixSuffix is like PrefixGarbage, but the garbage boundary is the
// end of the whole garbage match rather than its start, so the matched
// suffix text itself stays in the record.
type PrefixSuffix struct {
	Prefix  regex.Regex
	Garbage regex.Regex
}

func (p PrefixSuffix) Accumulate(prefix, segment []byte) Verdict {
	return accumulateRegexp(prefix, segment, p.Prefix, p.garbageOffset)
}

func (p PrefixSuffix) garbageOffset(segment []byte) (int, bool) {
	loc := p.Garbage.FindIndex(segment)
	if loc == nil {
		return 0, false
	}
	return loc[1], true
}

func (PrefixSuffix) KeepTrailingNewline() bool { return false }

func accumulateRegexp(prefix, segment []byte, prefixRe regex.Regex, garbageOffsetOf garbageOffset) Verdict {
	if offset, found := garbageOffsetOf(segment); found {
		return ConsumePartially(len(segment) - offset)
	}
	if len(prefix) == 0 {
		return Waiting | ConsumeSegment
	}
	if prefixRe.Match(segment) {
		return Extracted | RewindSegment
	}
	return Waiting | ConsumeSegment
}
