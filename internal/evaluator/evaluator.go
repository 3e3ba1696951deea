// Package evaluator implements the safe-pass and destructive-pass
// evaluators: given the enabled packs from internal/packs and the
// context labeling from internal/cmdcontext, iterate patterns in
// (pack-order, declaration-order) and stop on first match.
package evaluator

import (
	"github.com/dgerlanc/dcg/internal/cmdcontext"
	"github.com/dgerlanc/dcg/internal/packs"
)

// SafeMatch is the result of a safe-pass hit.
type SafeMatch struct {
	PackID      string
	PatternName string
}

// DestructiveMatch is a candidate denial produced by the destructive
// pass: pack, rule, severity, span, reason, ready for the
// allowlist/ledger/decision layers to act on.
type DestructiveMatch struct {
	PackID      string
	PatternName string
	RuleID      string
	Severity    packs.Severity
	Reason      string
	Remediation string
	Start, End  int
}

// RunSafePass iterates safe patterns of the given packs, in the order
// given, against the full command text (safe patterns assert
// structural facts about the whole line, not a single region).
// The first match short-circuits evaluation.
func RunSafePass(enabledPacks []*packs.Pack, candidateIDs map[string]bool, command string) (SafeMatch, bool) {
	for _, p := range enabledPacks {
		if candidateIDs != nil && !candidateIDs[p.ID] {
			continue
		}
		for _, pattern := range p.Safe {
			if pattern.IsMatch(command) {
				return SafeMatch{PackID: p.ID, PatternName: pattern.Name}, true
			}
		}
	}
	return SafeMatch{}, false
}

// executableLabels are the context labels a destructive pattern is
// permitted to match against unconditionally. LabelHeredoc is handled
// separately by labelIsExecutable: a heredoc body only runs as shell
// once its body is fed back to a shell, so the top-level pass may only
// match inside one whose resolved language is LangShell. A heredoc
// whose language is unresolved or belongs to another interpreter is
// opaque text at this stage — internal/deepscan is what understands it.
var executableLabels = map[cmdcontext.Label]bool{
	cmdcontext.LabelExecutable: true,
	cmdcontext.LabelPipeTarget: true,
}

// RunDestructivePass iterates destructive patterns of the given packs
// against command, but only accepts a match whose span lies entirely
// within an Executable or PipeTarget region of analysis, or within a
// Heredoc region whose resolved language is shell. The first accepted
// match wins.
func RunDestructivePass(enabledPacks []*packs.Pack, candidateIDs map[string]bool, command string, analysis *cmdcontext.Analysis) (DestructiveMatch, bool) {
	for _, p := range enabledPacks {
		if candidateIDs != nil && !candidateIDs[p.ID] {
			continue
		}
		for _, pattern := range p.Destructive {
			start, end, ok := pattern.FindSpan(command)
			if !ok {
				continue
			}
			if analysis != nil && !spanIsExecutable(analysis, start, end) {
				continue
			}
			return DestructiveMatch{
				PackID:      p.ID,
				PatternName: pattern.Name,
				RuleID:      p.RuleID(pattern.Name),
				Severity:    pattern.Severity,
				Reason:      pattern.Reason,
				Remediation: pattern.Remediation,
				Start:       start,
				End:         end,
			}, true
		}
	}
	return DestructiveMatch{}, false
}

// spanIsExecutable reports whether every byte of [start,end) is
// labeled with a context that destructive patterns are allowed to
// match against. A match straddling multiple spans is accepted only if
// every span it straddles is itself executable.
func spanIsExecutable(a *cmdcontext.Analysis, start, end int) bool {
	if start >= end {
		return labelIsExecutable(a, start)
	}
	for pos := start; pos < end; pos++ {
		if !labelIsExecutable(a, pos) {
			return false
		}
	}
	return true
}

// labelIsExecutable reports whether pos's label permits a destructive
// pattern to match there. LabelHeredoc gets special treatment: it's
// only executable at the top level when its body has resolved to shell,
// since that's the only language the top-level pass itself understands.
func labelIsExecutable(a *cmdcontext.Analysis, pos int) bool {
	label := a.LabelAt(pos)
	if label == cmdcontext.LabelHeredoc {
		lang, ok := a.HeredocLanguageAt(pos)
		return ok && lang == cmdcontext.LangShell
	}
	return executableLabels[label]
}
