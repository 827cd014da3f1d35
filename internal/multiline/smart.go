package multiline

import (
	"sync"

	"github.com/axleware/logframe/internal/multiline/smartrules"
)

// Smart aggregates multi-line stack traces using a table-driven finite
// state machine. Each segment is matched against the rules for the
// current state; a match advances the state, and the decision to extract
// or keep waiting comes from whether the FSM is inside or outside a
// trace, and whether this segment starts a fresh one.
//
// Concurrency note: state is mutated under a per-instance lock, since a
// single Smart instance may be driven by a BufferedServer's fetch calls
// from more than one goroutine over its lifetime (e.g. across a rebind).
type Smart struct {
	Rules *smartrules.Table

	mu sync.Mutex

	currentState int

	// lastSegmentRewound records that the previous Accumulate call
	// issued a Rewind verdict, so this call must re-emit the buffered
	// prefix without re-running the FSM against the re-presented
	// segment (it has already been classified).
	lastSegmentRewound     bool
	rewoundSegmentIsTrace  bool
	consumedMessageIsTrace bool
}

// NewSmart creates a Smart policy starting in the rule table's start
// state.
func NewSmart(rules *smartrules.Table) *Smart {
	return &Smart{Rules: rules, currentState: rules.StartState}
}

func (s *Smart) Accumulate(prefix, segment []byte) Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastSegmentRewound {
		// Always re-presented as EXTRACTED|CONSUME, even when
		// rewoundSegmentIsTrace is true and the segment itself starts a
		// new trace.
		s.lastSegmentRewound = false
		s.consumedMessageIsTrace = s.rewoundSegmentIsTrace
		return Extracted | ConsumeSegment
	}

	segmentIsTrace, endsTrace := s.fsmTransition(segment)

	prefixEmpty := len(prefix) == 0
	consumedIsTrace := s.consumedMessageIsTrace

	if prefixEmpty {
		if !segmentIsTrace {
			return Extracted | ConsumeSegment
		}
		s.consumedMessageIsTrace = true
		return Waiting | ConsumeSegment
	}

	if consumedIsTrace {
		if segmentIsTrace {
			if s.segmentStartsNewTrace(segment) {
				s.lastSegmentRewound = true
				s.rewoundSegmentIsTrace = true
				return Extracted | RewindSegment
			}
			if endsTrace {
				return Extracted | ConsumeSegment
			}
			return Waiting | ConsumeSegment
		}
		s.lastSegmentRewound = true
		s.rewoundSegmentIsTrace = false
		s.consumedMessageIsTrace = false
		return Extracted | RewindSegment
	}

	// prefix is non-empty but not flagged as trace: treat as a
	// single-line record boundary, same as the prefix-empty case.
	if !segmentIsTrace {
		return Extracted | ConsumeSegment
	}
	s.consumedMessageIsTrace = true
	return Waiting | ConsumeSegment
}

func (Smart) KeepTrailingNewline() bool { return false }

// fsmTransition runs one FSM step from currentState. It returns whether
// the segment advanced the machine (segment_is_part_of_trace) and
// whether that transition returned the machine to the start state
// (segment_ends_trace).
func (s *Smart) fsmTransition(segment []byte) (segmentIsTrace, endsTrace bool) {
	next, matched := s.Rules.Step(s.currentState, segment)
	if !matched {
		s.currentState = s.Rules.StartState
		return false, false
	}
	s.currentState = next
	return true, next == s.Rules.StartState
}

// segmentStartsNewTrace retries the FSM from the start state, without
// disturbing currentState, to see whether this segment would also begin
// a brand new trace rather than merely continuing the current one.
func (s *Smart) segmentStartsNewTrace(segment []byte) bool {
	_, matched := s.Rules.Step(s.Rules.StartState, segment)
	return matched
}
