// Package smartrules loads the TSV rule table that drives the Smart
// multi-line policy's finite state machine.
package smartrules

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Rule is one transition: from any of FromStates, if Regexp matches the
// segment, advance to ToState.
type Rule struct {
	FromStates []string
	Regexp     *regexp.Regexp
	ToState    string
}

// Table is a loaded, state-indexed rule set ready to drive an FSM.
type Table struct {
	// StateIDs maps a state name to its dense integer ID. StartState is
	// always assigned ID 1.
	StateIDs map[string]int
	// ByState holds, for each state ID, the rules to try in order.
	ByState map[int][]compiledRule
	// StartState is the ID used to initialize a fresh FSM instance and
	// the ID an FSM falls back to when no rule matches.
	StartState int
}

type compiledRule struct {
	re      *regexp.Regexp
	toState int
}

// Load parses a TSV rule table: lines beginning with # or blank lines
// are ignored; every other line must have exactly three tab-separated
// fields: a comma-separated list of source states, a /regex/ delimited
// by matching outer characters, and a destination state name.
func Load(r io.Reader) (*Table, error) {
	t := &Table{
		StateIDs: map[string]int{},
		ByState:  map[int][]compiledRule{},
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			continue // malformed row: a warning belongs at the call site, which has a logger
		}

		fromStates := strings.Split(fields[0], ",")
		for i := range fromStates {
			fromStates[i] = strings.TrimSpace(fromStates[i])
		}

		pattern, err := extractRegexp(fields[1])
		if err != nil {
			return nil, fmt.Errorf("smartrules: line %d: %w", lineNo, err)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("smartrules: line %d: bad regexp %q: %w", lineNo, pattern, err)
		}

		fromIDs := make([]int, len(fromStates))
		for i, from := range fromStates {
			fromIDs[i] = t.idFor(from)
		}

		toState := strings.TrimSpace(fields[2])
		toID := t.idFor(toState)

		for _, fromID := range fromIDs {
			t.ByState[fromID] = append(t.ByState[fromID], compiledRule{re: re, toState: toID})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if t.StartState == 0 {
		t.StartState = 1
	}
	return t, nil
}

// Step tries every rule registered for state against segment, in
// registration order, and returns the destination state of the first
// match. If nothing matches, it returns StartState and matched=false.
func (t *Table) Step(state int, segment []byte) (nextState int, matched bool) {
	for _, rule := range t.ByState[state] {
		if rule.re.Match(segment) {
			return rule.toState, true
		}
	}
	return t.StartState, false
}

// idFor assigns (or returns the existing) dense ID for a state name. The
// first state ever seen, by convention "start" unless otherwise named,
// becomes StartState 1.
func (t *Table) idFor(name string) int {
	if id, ok := t.StateIDs[name]; ok {
		return id
	}
	id := len(t.StateIDs) + 1
	t.StateIDs[name] = id
	if id == 1 {
		t.StartState = id
	}
	return id
}

// extractRegexp strips a pair of matching outer delimiters, typically
// "/regex/", from a rule's middle field.
func extractRegexp(field string) (string, error) {
	field = strings.TrimSpace(field)
	if len(field) < 2 {
		return "", fmt.Errorf("regexp field %q too short to carry delimiters", field)
	}
	if field[0] != field[len(field)-1] {
		return "", fmt.Errorf("regexp field %q has mismatched delimiters", field)
	}
	return field[1 : len(field)-1], nil
}
