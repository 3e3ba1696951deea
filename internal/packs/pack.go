// Package packs implements the immutable pack/pattern data model:
// packs are pure metadata at construction time, and every pattern inside
// a pack carries a one-shot lazy cell that compiles its matcher only the
// first time it is actually evaluated.
package packs

import (
	"fmt"
	"regexp"

	"github.com/dgerlanc/dcg/internal/constants"
	"github.com/dgerlanc/dcg/internal/logger"
	"github.com/dgerlanc/dcg/internal/regexmatch"
)

// Severity ranks a destructive pattern's blast radius.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String renders the severity the way it appears in the hook JSON
// output: lowercase.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// idPattern validates pack ids: "[a-z0-9_]+(\.[a-z0-9_]+)*".
var idPattern = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)*$`)

// SafePatternSpec is a pattern whose match short-circuits evaluation to
// Allow.
type SafePatternSpec struct {
	Name    string
	Pattern string

	cell lazyCell
}

// DestructivePatternSpec is a pattern whose match produces a candidate
// denial. Reason and Severity are required invariants.
type DestructivePatternSpec struct {
	Name        string
	Pattern     string
	Reason      string
	Severity    Severity
	Remediation string

	cell lazyCell
}

// lazyCell is a one-shot memoized compile of a pattern's matcher.
// Publish-on-success semantics: concurrent first-use by multiple
// invocations is safe and idempotent, and wasted compile work on a race
// is acceptable.
type lazyCell struct {
	matcher    regexmatch.Matcher
	compiled   bool
	compileErr error
	warned     bool
}

func (c *lazyCell) ensure(pattern, name string) {
	if c.compiled {
		return
	}
	m, err := regexmatch.Compile(pattern)
	if err != nil {
		c.compileErr = err
		c.matcher = nil
		if !c.warned {
			logger.Warn("pattern compile failed, treating as permanent non-match", "pattern", name, "error", err)
			c.warned = true
		}
	} else {
		c.matcher = m
	}
	c.compiled = true
}

// IsMatch compiles the pattern on first use (if not already compiled)
// and reports whether text matches. A compile error is treated as
// permanent non-match.
func (p *SafePatternSpec) IsMatch(text string) bool {
	p.cell.ensure(p.Pattern, p.Name)
	if p.cell.compileErr != nil {
		return false
	}
	return p.cell.matcher.IsMatch(text)
}

// FindSpan is as IsMatch but returns the matched span.
func (p *SafePatternSpec) FindSpan(text string) (start, end int, ok bool) {
	p.cell.ensure(p.Pattern, p.Name)
	if p.cell.compileErr != nil {
		return 0, 0, false
	}
	return p.cell.matcher.FindSpan(text)
}

// CompileError forces compilation (if not already done) and returns any
// compile error, for `packs --validate`.
func (p *SafePatternSpec) CompileError() error {
	p.cell.ensure(p.Pattern, p.Name)
	return p.cell.compileErr
}

// IsMatch compiles the pattern on first use and reports whether text
// matches. A compile error is treated as permanent non-match.
func (p *DestructivePatternSpec) IsMatch(text string) bool {
	p.cell.ensure(p.Pattern, p.Name)
	if p.cell.compileErr != nil {
		return false
	}
	return p.cell.matcher.IsMatch(text)
}

// FindSpan is as IsMatch but returns the matched span. Required on
// every destructive match.
func (p *DestructivePatternSpec) FindSpan(text string) (start, end int, ok bool) {
	p.cell.ensure(p.Pattern, p.Name)
	if p.cell.compileErr != nil {
		return 0, 0, false
	}
	return p.cell.matcher.FindSpan(text)
}

// CompileError forces compilation and returns any compile error.
func (p *DestructivePatternSpec) CompileError() error {
	p.cell.ensure(p.Pattern, p.Name)
	return p.cell.compileErr
}

// Pack is an immutable, named group of patterns protecting a specific
// tool or domain. Packs are constructed once at startup and never
// mutated.
type Pack struct {
	ID          string
	DisplayName string
	Description string
	Tier        constants.Tier
	Keywords    []string
	Safe        []*SafePatternSpec
	Destructive []*DestructivePatternSpec
}

// RuleID returns the stable "pack_id:pattern_name" identifier for a
// destructive pattern in this pack.
func (p *Pack) RuleID(patternName string) string {
	return p.ID + ":" + patternName
}

// Validate checks the pack invariants: id shape, at least one
// keyword, unique pattern names, every destructive pattern has a reason
// and severity. It does not force pattern compilation.
func (p *Pack) Validate() error {
	if !idPattern.MatchString(p.ID) {
		return fmt.Errorf("pack %q: id does not match [a-z0-9_]+(\\.[a-z0-9_]+)*", p.ID)
	}
	if len(p.Keywords) == 0 {
		return fmt.Errorf("pack %q: must declare at least one keyword", p.ID)
	}
	seen := make(map[string]bool, len(p.Safe)+len(p.Destructive))
	for _, s := range p.Safe {
		if seen[s.Name] {
			return fmt.Errorf("pack %q: duplicate pattern name %q", p.ID, s.Name)
		}
		seen[s.Name] = true
	}
	for _, d := range p.Destructive {
		if seen[d.Name] {
			return fmt.Errorf("pack %q: duplicate pattern name %q", p.ID, d.Name)
		}
		seen[d.Name] = true
		if d.Reason == "" {
			return fmt.Errorf("pack %q: destructive pattern %q has no reason", p.ID, d.Name)
		}
	}
	return nil
}

// CompileErrors forces eager compilation of every pattern in the pack
// and returns the list of compile errors found, keyed by rule id. Used
// by `dcg packs --validate` and by tests; listing/counting/inspecting a
// pack must never call this.
func (p *Pack) CompileErrors() map[string]error {
	errs := make(map[string]error)
	for _, s := range p.Safe {
		if err := s.CompileError(); err != nil {
			errs[p.ID+":"+s.Name] = err
		}
	}
	for _, d := range p.Destructive {
		if err := d.CompileError(); err != nil {
			errs[p.ID+":"+d.Name] = err
		}
	}
	return errs
}
