// Package regexmatch wraps pattern compilation and matching so the rest
// of the engine never needs to know whether a pattern is backed by Go's
// linear-time RE2 engine or a backtracking engine.
//
// The shipped pack patterns are all plain RE2: no lookahead, no
// backreferences, matched with the stdlib regexp package in linear time.
// A pattern that uses negative lookahead ("this command, but not when
// followed by that dangerous flag") or a backreference, which RE2 cannot
// express, falls back to github.com/dlclark/regexp2, a backtracking
// engine. Compile inspects the pattern text once and picks the cheaper
// engine whenever it can.
package regexmatch

import (
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/dlclark/regexp2"
)

// FailureCount counts runtime match failures (panics recovered, or
// pathological regexp2 timeouts) across the process. Exposed for
// telemetry; not reset between invocations within one process.
var FailureCount atomic.Int64

// Matcher is the uniform contract every compiled pattern exposes,
// regardless of which engine backs it.
type Matcher interface {
	// IsMatch reports whether text contains a match anywhere.
	IsMatch(text string) bool
	// FindSpan returns the start/end byte offsets of the first match, or
	// ok=false if there is no match.
	FindSpan(text string) (start, end int, ok bool)
	// Engine identifies which engine is backing this matcher ("re2" or
	// "backtracking"), for diagnostics and tests.
	Engine() string
}

// needsBacktracking reports whether a pattern uses a feature RE2 cannot
// express: negative/positive lookahead, lookbehind, or a backreference.
func needsBacktracking(pattern string) bool {
	if strings.Contains(pattern, "(?!") || strings.Contains(pattern, "(?=") ||
		strings.Contains(pattern, "(?<!") || strings.Contains(pattern, "(?<=") {
		return true
	}
	// Backreferences look like \1 .. \9 outside of a character class; a
	// cheap heuristic is enough here since it only chooses an engine, it
	// never changes match semantics.
	for i := 0; i < len(pattern)-1; i++ {
		if pattern[i] == '\\' && pattern[i+1] >= '1' && pattern[i+1] <= '9' {
			return true
		}
	}
	return false
}

// Compile picks an engine for pattern and compiles it. Compile failure
// is returned to the caller; the convention in this codebase is
// that callers treat a compile error as permanent non-match rather than
// propagating it further.
func Compile(pattern string) (Matcher, error) {
	if needsBacktracking(pattern) {
		re, err := regexp2.Compile(pattern, regexp2.RE2)
		if err != nil {
			return nil, err
		}
		re.MatchTimeout = backtrackTimeout
		return &backtrackMatcher{re: re}, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &linearMatcher{re: re}, nil
}

type linearMatcher struct {
	re *regexp.Regexp
}

func (m *linearMatcher) Engine() string { return "re2" }

func (m *linearMatcher) IsMatch(text string) bool {
	defer recoverMatch()
	return m.re.MatchString(text)
}

func (m *linearMatcher) FindSpan(text string) (int, int, bool) {
	defer recoverMatch()
	loc := m.re.FindStringIndex(text)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}

type backtrackMatcher struct {
	re *regexp2.Regexp
}

func (m *backtrackMatcher) Engine() string { return "backtracking" }

func (m *backtrackMatcher) IsMatch(text string) (matched bool) {
	defer recoverMatch()
	match, err := m.re.MatchString(text)
	if err != nil {
		FailureCount.Add(1)
		return false
	}
	return match
}

func (m *backtrackMatcher) FindSpan(text string) (start, end int, ok bool) {
	defer recoverMatch()
	match, err := m.re.FindStringMatch(text)
	if err != nil || match == nil {
		if err != nil {
			FailureCount.Add(1)
		}
		return 0, 0, false
	}
	return match.Index, match.Index + match.Length, true
}

// recoverMatch converts a panic inside the matching engines (pathological
// input, internal engine bug) into a non-match counted in FailureCount,
// per the fail-open policy.
func recoverMatch() {
	if r := recover(); r != nil {
		FailureCount.Add(1)
	}
}
