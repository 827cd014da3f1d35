// Package config describes the options a record source or destination
// recognises. Unlike the rest of the agent, which keeps package-level
// Client/Server/Common singletons, Config here is constructor-injected:
// the framing core is a library embedded by many callers in one process,
// so global config state would make them step on each other.
package config

import (
	"github.com/axleware/logframe/internal/constants"
	"github.com/axleware/logframe/internal/errors"
	"github.com/axleware/logframe/internal/multiline"
)

// Encoding names a fixed-width character encoding, enabling fast
// byte-count <-> char-count conversion for bookmark math. Anything not
// listed here falls back to the slow (byte-count only) path.
type Encoding string

const (
	EncodingNone    Encoding = ""
	EncodingASCII   Encoding = "ascii"
	EncodingISO8859 Encoding = "iso-8859"
	EncodingUCS2    Encoding = "ucs-2"
	EncodingUCS4    Encoding = "ucs-4"
	EncodingUTF16   Encoding = "utf-16"
	EncodingUTF32   Encoding = "utf-32"
	EncodingWcharT  Encoding = "wchar_t"
)

// CharWidth returns the fixed byte width of a character in this encoding,
// or 0 if the encoding is variable-width or unrecognised.
func (e Encoding) CharWidth() int {
	switch e {
	case EncodingASCII, EncodingISO8859:
		return 1
	case EncodingUCS2, EncodingUTF16:
		return 2
	case EncodingUCS4, EncodingUTF32, EncodingWcharT:
		return 4
	default:
		return 0
	}
}

// MultiLine configures the multi-line aggregation policy used by a
// TextServer.
type MultiLine struct {
	Mode         multiline.Mode
	PrefixRegex  string
	GarbageRegex string
	// RulesFile is the TSV rule table path, required when Mode is Smart.
	RulesFile string
	// GarbageIsSuffix records whether the garbage regex marks a suffix
	// that stays in the record (prefix-suffix mode: the end of the whole
	// match is the boundary) rather than garbage that is dropped
	// (prefix-garbage mode: the start of the whole match is). The policy
	// itself is selected by Mode; nothing in this package reads this field.
	GarbageIsSuffix bool
}

// Source configures a record source (BufferedServer + protocol +
// multi-line logic).
type Source struct {
	// MaxMsgSize is the hard buffer cap; oversize records are truncated
	// to this size.
	MaxMsgSize int
	// Encoding enables fast bookmark math for fixed-width character sets.
	Encoding Encoding
	// FollowFreqMS is the poll interval for the file-changes PollEvents
	// strategy.
	FollowFreqMS int
	// MultiLine configures line aggregation; zero value means Mode none.
	MultiLine MultiLine
	// PadSize, if non-zero, switches to a fixed-record-size reader with
	// no framing and no multi-line logic. Mutually exclusive with
	// MultiLine.Mode != none.
	PadSize int
	// ExitOnEOF makes the reader exit its process loop on EOF, used for
	// stdin-like sources.
	ExitOnEOF bool
	// KeepTrailingNewline suppresses the default CR/LF/NUL trim. Some
	// multi-line policies (empty-line-separated) force this on.
	KeepTrailingNewline bool
}

// Validate returns a KindConfig error if the source configuration is
// self-contradictory or otherwise impossible to start.
func (s Source) Validate() error {
	if s.PadSize > 0 && s.MultiLine.Mode != multiline.ModeNone && s.MultiLine.Mode != "" {
		return errors.New(errors.KindConfig, "pad_size is mutually exclusive with multi_line.mode != none")
	}
	if s.MultiLine.Mode == multiline.ModePrefixGarbage || s.MultiLine.Mode == multiline.ModePrefixSuffix {
		if s.MultiLine.PrefixRegex == "" || s.MultiLine.GarbageRegex == "" {
			return errors.New(errors.KindConfig, "multi_line.prefix_regex and multi_line.garbage_regex are required for mode %s", s.MultiLine.Mode)
		}
	}
	if s.MultiLine.Mode == multiline.ModeSmart && s.MultiLine.RulesFile == "" {
		return errors.New(errors.KindConfig, "multi_line.mode smart requires a rules file")
	}
	return nil
}

// DefaultSource returns a Source with the core's documented defaults.
func DefaultSource() Source {
	return Source{
		MaxMsgSize:   constants.DefaultMaxMsgSize,
		FollowFreqMS: constants.DefaultFollowFreqMS,
	}
}

// Writer configures a FileWriter destination.
type Writer struct {
	// FlushLines is the batch size; 1 if unspecified (flush every record).
	FlushLines int
	// Fsync makes the writer fsync after each flushed batch.
	Fsync bool
	// Timeout is the writer's idle reassertion interval.
	Timeout int
}

// DefaultWriter returns a Writer with the core's documented defaults.
func DefaultWriter() Writer {
	return Writer{
		FlushLines: constants.DefaultFlushLines,
		Timeout:    int(constants.DefaultWriterTimeout.Milliseconds()),
	}
}
