package multiline

import (
	"strings"
	"testing"

	"github.com/axleware/logframe/internal/multiline/smartrules"
	"github.com/axleware/logframe/internal/regex"
)

func TestVerdictValidate(t *testing.T) {
	if err := (Waiting | RewindSegment).Validate(); err == nil {
		t.Fatal("expected waiting+rewind to be invalid")
	}
	if err := (Waiting | ConsumeSegment | Verdict(5<<dropLengthShift)).Validate(); err == nil {
		t.Fatal("expected waiting with drop length to be invalid")
	}
	if err := (Extracted | ConsumeSegment).Validate(); err != nil {
		t.Fatalf("expected valid verdict, got %v", err)
	}
}

func TestConsumePartiallyRoundTrip(t *testing.T) {
	v := ConsumePartially(42)
	if !v.IsExtracted() || !v.IsConsume() {
		t.Fatal("expected extracted|consume")
	}
	if v.DropLength() != 42 {
		t.Fatalf("expected drop length 42, got %d", v.DropLength())
	}
}

func TestNonePolicy(t *testing.T) {
	v := None{}.Accumulate(nil, []byte("hello"))
	if v != Extracted|ConsumeSegment {
		t.Fatalf("expected EXTRACTED|CONSUME, got %v", v)
	}
}

func TestIndentedPolicy(t *testing.T) {
	p := Indented{}

	v := p.Accumulate(nil, []byte("first line"))
	if !v.IsWaiting() {
		t.Fatalf("expected waiting on first segment, got %v", v)
	}

	v = p.Accumulate([]byte("first line"), []byte("  continuation"))
	if v != Waiting|ConsumeSegment {
		t.Fatalf("expected waiting|consume for indented continuation, got %v", v)
	}

	v = p.Accumulate([]byte("first line\n  continuation"), []byte("new record"))
	if v != Extracted|RewindSegment {
		t.Fatalf("expected extracted|rewind on non-indented segment, got %v", v)
	}
}

func TestEmptyLineSeparated(t *testing.T) {
	p := EmptyLineSeparated{}
	if v := p.Accumulate([]byte("body"), []byte("more text")); v != Waiting|ConsumeSegment {
		t.Fatalf("expected waiting|consume, got %v", v)
	}
	if v := p.Accumulate([]byte("body"), []byte("")); !v.IsExtracted() {
		t.Fatalf("expected extracted on blank line, got %v", v)
	}
	if !p.KeepTrailingNewline() {
		t.Fatal("expected KeepTrailingNewline true")
	}
}

func TestPrefixGarbage(t *testing.T) {
	prefix, err := regex.New(`^\d+:`, regex.Default)
	if err != nil {
		t.Fatal(err)
	}
	garbage, err := regex.New(`--END--`, regex.Default)
	if err != nil {
		t.Fatal(err)
	}
	p := PrefixGarbage{Prefix: prefix, Garbage: garbage}

	v := p.Accumulate(nil, []byte("1: hello"))
	if v != Waiting|ConsumeSegment {
		t.Fatalf("expected waiting|consume on initial non-garbage segment, got %v", v)
	}

	v = p.Accumulate([]byte("1: hello"), []byte("2: world"))
	if !v.IsExtracted() || !v.IsRewind() {
		t.Fatalf("expected extracted|rewind on new-prefix continuation, got %v", v)
	}

	v = p.Accumulate([]byte("1: hello"), []byte("trailing--END--junk"))
	if !v.IsExtracted() || v.DropLength() == 0 {
		t.Fatalf("expected extracted with drop length on garbage match, got %v", v)
	}
}

func TestPrefixSuffix(t *testing.T) {
	prefix, err := regex.New(`^\d+:`, regex.Default)
	if err != nil {
		t.Fatal(err)
	}
	// Deliberately no capturing group: the garbage boundary must come
	// from the whole match's end, not a submatch.
	garbage, err := regex.New(`;;;`, regex.Default)
	if err != nil {
		t.Fatal(err)
	}
	p := PrefixSuffix{Prefix: prefix, Garbage: garbage}

	v := p.Accumulate(nil, []byte("1: hello"))
	if v != Waiting|ConsumeSegment {
		t.Fatalf("expected waiting|consume on initial non-garbage segment, got %v", v)
	}

	v = p.Accumulate([]byte("1: hello"), []byte("2: world"))
	if !v.IsExtracted() || !v.IsRewind() {
		t.Fatalf("expected extracted|rewind on new-prefix continuation, got %v", v)
	}

	segment := []byte("1: hello;;;trailing")
	v = p.Accumulate([]byte("1: hello"), segment)
	if !v.IsExtracted() || v.DropLength() == 0 {
		t.Fatalf("expected extracted with drop length on garbage match, got %v", v)
	}
	if got, want := v.DropLength(), len("trailing"); got != want {
		t.Fatalf("expected drop length %d (suffix text kept, only trailing garbage dropped), got %d", want, got)
	}
}

func TestSmartRulesLoadAndStep(t *testing.T) {
	tsv := strings.Join([]string{
		"# comment",
		"start\t/^Traceback/\ttrace",
		"trace\t/^\\s+at /\ttrace",
	}, "\n")

	table, err := smartrules.Load(strings.NewReader(tsv))
	if err != nil {
		t.Fatal(err)
	}
	if table.StartState != 1 {
		t.Fatalf("expected start state 1, got %d", table.StartState)
	}

	next, matched := table.Step(table.StartState, []byte("Traceback (most recent call last):"))
	if !matched {
		t.Fatal("expected start state rule to match")
	}
	if next == table.StartState {
		t.Fatal("expected transition away from start state")
	}

	next2, matched2 := table.Step(next, []byte("  at foo.bar()"))
	if !matched2 || next2 != next {
		t.Fatalf("expected trace state to loop on itself, got next=%d matched=%v", next2, matched2)
	}
}

func TestSmartAccumulateSingleLine(t *testing.T) {
	tsv := "start\t/^Traceback/\ttrace\ntrace\t/^\\s+at /\ttrace\n"
	table, err := smartrules.Load(strings.NewReader(tsv))
	if err != nil {
		t.Fatal(err)
	}
	s := NewSmart(table)

	v := s.Accumulate(nil, []byte("plain log line"))
	if v != Extracted|ConsumeSegment {
		t.Fatalf("expected extracted|consume for a non-trace single line, got %v", v)
	}
}

func TestSmartAccumulateTraceSequence(t *testing.T) {
	tsv := "start\t/^Traceback/\ttrace\ntrace\t/^\\s+at /\ttrace\n"
	table, err := smartrules.Load(strings.NewReader(tsv))
	if err != nil {
		t.Fatal(err)
	}
	s := NewSmart(table)

	v := s.Accumulate(nil, []byte("Traceback (most recent call last):"))
	if !v.IsWaiting() {
		t.Fatalf("expected waiting on first trace line, got %v", v)
	}

	v = s.Accumulate([]byte("Traceback (most recent call last):"), []byte("  at foo.bar()"))
	if !v.IsWaiting() {
		t.Fatalf("expected waiting while still inside trace, got %v", v)
	}

	v = s.Accumulate([]byte("Traceback...\n  at foo.bar()"), []byte("next plain line"))
	if !v.IsExtracted() || !v.IsRewind() {
		t.Fatalf("expected extracted|rewind when trace ends with a non-trace line, got %v", v)
	}

	v = s.Accumulate([]byte("Traceback...\n  at foo.bar()"), []byte("next plain line"))
	if !v.IsExtracted() || !v.IsConsume() {
		t.Fatalf("expected extracted|consume re-presenting the rewound segment, got %v", v)
	}
}
