package multiline

// Mode names a multi-line aggregation policy, matching the
// multi_line.mode configuration option.
type Mode string

const (
	ModeNone               Mode = "none"
	ModeIndented           Mode = "indented"
	ModePrefixGarbage      Mode = "prefix-garbage"
	ModePrefixSuffix       Mode = "prefix-suffix"
	ModeSmart              Mode = "smart"
	ModeEmptyLineSeparated Mode = "empty-line-separated"
)

// Logic is a pluggable line-aggregation policy. Accumulate is called
// once per candidate segment located by TextServer; prefix is the bytes
// already accumulated for the in-progress record (zero length means a
// fresh record is starting with segment).
type Logic interface {
	// Accumulate decides whether the record formed by prefix+segment is
	// complete, and how much of segment belongs to it.
	Accumulate(prefix, segment []byte) Verdict

	// KeepTrailingNewline reports whether this policy disables the
	// default CR/LF/NUL trailing-byte strip on extraction.
	KeepTrailingNewline() bool
}
