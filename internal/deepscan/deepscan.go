// Package deepscan implements the inline-script deep scanner: for each
// heredoc body or inline-script argument that internal/heredoc
// resolved to a language, run that language's destructive pattern set
// and report findings with the same stable-rule-id/severity/reason
// contract as the top-level packs ("deep scanners per language are
// independent modules behind a common scan(body, budget) contract").
//
// No AST-parsing library exists for every language this package
// covers, so its "AST-shaped" pattern kind is implemented as a
// structural template matcher over text rather than a real parse tree:
// a template like "FileUtils.rm_rf($ARG)" compiles to a regex where
// each $NAME placeholder becomes a non-greedy wildcard bounded by the
// template's literal characters. This satisfies the contract (stable
// rule ids, composite regex-gated evaluation) without reaching for a
// dependency that does not actually exist for this purpose.
package deepscan

import (
	"regexp"
	"strings"

	"github.com/dgerlanc/dcg/internal/budget"
	"github.com/dgerlanc/dcg/internal/cmdcontext"
	"github.com/dgerlanc/dcg/internal/packs"
)

// Finding is one destructive match inside a heredoc/inline-script body.
type Finding struct {
	RuleID      string
	Severity    packs.Severity
	Reason      string
	Remediation string
	// Start, End are byte offsets into the *body*, not the enclosing
	// command; callers add the body's own offset to locate it in the
	// original command.
	Start, End int
}

// Kind distinguishes the two matcher flavors.
type Kind int

const (
	KindRegex Kind = iota
	KindASTShaped
	KindComposite // regex trigger gates an AST-shaped check
)

// Pattern is one language-specific destructive signature.
type Pattern struct {
	Name        string
	Kind        Kind
	Regex       string // used directly for KindRegex/KindComposite trigger
	Template    string // AST-shaped template for KindASTShaped/KindComposite
	Severity    packs.Severity
	Reason      string
	Remediation string

	compiled         *regexp.Regexp
	templateCompiled *regexp.Regexp
	compileErr       error
}

func (p *Pattern) compile() {
	if p.compiled != nil || p.templateCompiled != nil || p.compileErr != nil {
		return
	}
	if p.Regex != "" {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			p.compileErr = err
			return
		}
		p.compiled = re
	}
	if p.Template != "" {
		re, err := regexp.Compile(compileTemplate(p.Template))
		if err != nil {
			p.compileErr = err
			return
		}
		p.templateCompiled = re
	}
}

// compileTemplate turns an AST-shaped template such as "$EXPR.run($CMD)"
// into a regex: each $NAME placeholder matches one or more characters of
// any kind (non-greedy `.+?`), literal characters are escaped.
func compileTemplate(template string) string {
	var sb strings.Builder
	i := 0
	for i < len(template) {
		if template[i] == '$' {
			j := i + 1
			for j < len(template) && (isIdentByte(template[j])) {
				j++
			}
			if j > i+1 {
				sb.WriteString(`.+?`)
				i = j
				continue
			}
		}
		sb.WriteString(regexp.QuoteMeta(string(template[i])))
		i++
	}
	return sb.String()
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// Pack is a language-specific pattern set; every language pack
// exposes the same contract as the top-level packs.
type Pack struct {
	Language   cmdcontext.Language
	Patterns   []*Pattern
	PackPrefix string // rule ids render as "heredoc.<lang>.<name>"
}

// RuleID returns the stable "heredoc.<lang>.<pattern>" rule id.
func (lp *Pack) RuleID(patternName string) string {
	return "heredoc." + lp.PackPrefix + "." + patternName
}

// Registry is an immutable set of language packs, keyed by language.
type Registry struct {
	packs map[cmdcontext.Language]*Pack
}

// NewRegistry builds a Registry from the given language packs.
func NewRegistry(packList []*Pack) *Registry {
	r := &Registry{packs: make(map[cmdcontext.Language]*Pack, len(packList))}
	for _, lp := range packList {
		r.packs[lp.Language] = lp
	}
	return r
}

// Scan runs the destructive pattern set for lang against body under
// the given budget, returning every finding in pattern-declaration
// order up to the first one (deep scan is first-match-wins per
// language pack, mirroring the top-level destructive pass's protocol).
// If lang is Unknown, Scan falls back to the shell pack at lower
// confidence; callers
// that want the confidence penalty applied should consult
// internal/confidence separately.
func (r *Registry) Scan(lang cmdcontext.Language, body string, tracker *budget.Tracker) (Finding, bool, error) {
	lp, ok := r.packs[lang]
	if !ok {
		if lang == cmdcontext.LangUnknown {
			lp, ok = r.packs[cmdcontext.LangShell]
		}
		if !ok {
			return Finding{}, false, nil
		}
	}
	for _, p := range lp.Patterns {
		if tracker != nil && tracker.Exceeded() {
			return Finding{}, false, errBudgetExhausted
		}
		p.compile()
		if p.compileErr != nil {
			continue
		}
		switch p.Kind {
		case KindRegex:
			if loc := p.compiled.FindStringIndex(body); loc != nil {
				return finding(lp, p, loc), true, nil
			}
		case KindASTShaped:
			if loc := p.templateCompiled.FindStringIndex(body); loc != nil {
				return finding(lp, p, loc), true, nil
			}
		case KindComposite:
			if p.compiled == nil || !p.compiled.MatchString(body) {
				continue
			}
			if loc := p.templateCompiled.FindStringIndex(body); loc != nil {
				return finding(lp, p, loc), true, nil
			}
		}
	}
	return Finding{}, false, nil
}

func finding(lp *Pack, p *Pattern, loc []int) Finding {
	return Finding{
		RuleID:      lp.RuleID(p.Name),
		Severity:    p.Severity,
		Reason:      p.Reason,
		Remediation: p.Remediation,
		Start:       loc[0],
		End:         loc[1],
	}
}

// errBudgetExhausted is returned by Scan when the tracker's deadline
// passed mid-scan; callers map this to reason BudgetExhausted rather
// than treating it as a real error.
var errBudgetExhausted = &budgetExhaustedError{}

type budgetExhaustedError struct{}

func (*budgetExhaustedError) Error() string { return "deep scan budget exhausted" }

// IsBudgetExhausted reports whether err is the deep-scan budget
// exhaustion sentinel.
func IsBudgetExhausted(err error) bool {
	_, ok := err.(*budgetExhaustedError)
	return ok
}
