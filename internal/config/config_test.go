package config

import (
	"testing"

	"github.com/axleware/logframe/internal/errors"
	"github.com/axleware/logframe/internal/multiline"
)

func TestDefaultSourceIsValid(t *testing.T) {
	if err := DefaultSource().Validate(); err != nil {
		t.Fatalf("expected default source to validate, got %v", err)
	}
}

func TestPadSizeRejectsMultiLine(t *testing.T) {
	s := DefaultSource()
	s.PadSize = 128
	s.MultiLine.Mode = multiline.ModeIndented

	err := s.Validate()
	if !errors.Is(err, errors.KindConfig) {
		t.Fatalf("expected KindConfig error, got %v", err)
	}
}

func TestPrefixGarbageRequiresBothRegexes(t *testing.T) {
	s := DefaultSource()
	s.MultiLine.Mode = multiline.ModePrefixGarbage
	s.MultiLine.PrefixRegex = "^\\d"

	if err := s.Validate(); !errors.Is(err, errors.KindConfig) {
		t.Fatalf("expected KindConfig error for missing garbage regex, got %v", err)
	}

	s.MultiLine.GarbageRegex = "^\\d"
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid config once both regexes set, got %v", err)
	}
}

func TestSmartModeRequiresRulesFile(t *testing.T) {
	s := DefaultSource()
	s.MultiLine.Mode = multiline.ModeSmart

	if err := s.Validate(); !errors.Is(err, errors.KindConfig) {
		t.Fatalf("expected KindConfig error for missing rules file, got %v", err)
	}

	s.MultiLine.RulesFile = "/etc/logframe/rules.tsv"
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid config once rules file set, got %v", err)
	}
}

func TestEncodingCharWidth(t *testing.T) {
	cases := map[Encoding]int{
		EncodingNone:    0,
		EncodingASCII:   1,
		EncodingISO8859: 1,
		EncodingUCS2:    2,
		EncodingUTF16:   2,
		EncodingUCS4:    4,
		EncodingUTF32:   4,
		EncodingWcharT:  4,
	}
	for enc, want := range cases {
		if got := enc.CharWidth(); got != want {
			t.Errorf("%s.CharWidth() = %d, want %d", enc, got, want)
		}
	}
}

func TestDefaultWriterDefaults(t *testing.T) {
	w := DefaultWriter()
	if w.FlushLines != 1 {
		t.Fatalf("expected default FlushLines 1, got %d", w.FlushLines)
	}
	if w.Timeout <= 0 {
		t.Fatalf("expected positive default timeout, got %d", w.Timeout)
	}
}
