package heap

import (
	"fmt"
	"regexp"

	"github.com/cwbudde/tinyjs/internal/value"
)

// Regex wraps a compiled pattern (spec.md §4.C). tinyjs compiles through
// Go's stdlib regexp (RE2 syntax), which is the closest available engine
// in the pack: no example repo ships an ECMAScript-syntax regex engine,
// so lookaround/backreferences are not supported — a known, documented
// semantic gap rather than a silent one.
type Regex struct {
	meta value.RefMeta

	Pattern string
	Flags   string
	re      *regexp.Regexp
	Proto   value.Value
}

// NewRegex compiles pattern/flags. Flags recognizes "g" (global, kept in
// Flags only; no lastIndex state is tracked), "i" (case-insensitive,
// translated to RE2's inline (?i)), "m" (multiline, (?m)), and "s"
// (dotAll, (?s)); unrecognized flags are accepted but ignored, matching
// the teacher's general tolerance for unsupported features logged rather
// than fatal.
func NewRegex(pattern, flags string, proto value.Value) (*Regex, error) {
	inline := ""
	for _, f := range flags {
		switch f {
		case 'i':
			inline += "i"
		case 'm':
			inline += "m"
		case 's':
			inline += "s"
		}
	}
	p := pattern
	if inline != "" {
		p = "(?" + inline + ")" + pattern
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression: %w", err)
	}
	return &Regex{Pattern: pattern, Flags: flags, re: re, Proto: proto}, nil
}

func (r *Regex) Kind() value.Kind        { return value.KindObject }
func (r *Regex) TypeTag() string         { return "RegExp" }
func (r *Regex) RefMeta() *value.RefMeta { return &r.meta }
func (r *Regex) String() string          { return "/" + r.Pattern + "/" + r.Flags }

// Global reports whether the "g" flag was supplied.
func (r *Regex) Global() bool {
	for _, f := range r.Flags {
		if f == 'g' {
			return true
		}
	}
	return false
}

// FindStringSubmatchIndex delegates to the compiled RE2 pattern.
func (r *Regex) FindStringSubmatchIndex(s string) []int { return r.re.FindStringSubmatchIndex(s) }

func (r *Regex) Trace(yield func(value.Value)) {
	if r.Proto != nil {
		yield(r.Proto)
	}
}
