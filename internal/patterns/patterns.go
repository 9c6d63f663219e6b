// Package patterns provides compiled, named regex patterns and the
// first-match scanner shared by every rule set.
package patterns

import (
	"regexp"
)

// Flags control how a pattern source is compiled.
type Flags uint8

const (
	// CaseInsensitive prefixes the pattern with (?i).
	CaseInsensitive Flags = 1 << iota
	// MultiLine prefixes the pattern with (?m) so ^ and $ match at line boundaries.
	MultiLine
)

// Pattern holds a compiled regex and its description.
type Pattern struct {
	Regex  *regexp.Regexp
	Name   string
	Source string // pattern as written, without flag prefix
}

// BuildFlagPrefix returns the inline flag group for flags.
// CaseInsensitive|MultiLine becomes "(?im)"; no flags becomes "".
func BuildFlagPrefix(flags Flags) string {
	var f string
	if flags&CaseInsensitive != 0 {
		f += "i"
	}
	if flags&MultiLine != 0 {
		f += "m"
	}
	if f == "" {
		return ""
	}
	return "(?" + f + ")"
}

// Compile compiles a pattern string into a Pattern with the given name.
// Returns an error if the pattern is invalid.
func Compile(source, name string, flags Flags) (Pattern, error) {
	re, err := regexp.Compile(BuildFlagPrefix(flags) + source)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{Regex: re, Name: name, Source: source}, nil
}

// MustCompile is like Compile but panics if the pattern is invalid.
func MustCompile(source, name string, flags Flags) Pattern {
	p, err := Compile(source, name, flags)
	if err != nil {
		panic(err)
	}
	return p
}

// FirstMatch returns the first pattern in set that matches subject.
// Order matters: callers report the name of the returned pattern.
func FirstMatch(subject string, set []Pattern) (Pattern, bool) {
	for _, p := range set {
		if p.Regex != nil && p.Regex.MatchString(subject) {
			return p, true
		}
	}
	return Pattern{}, false
}
