// Package hook wires the decision-engine packages together into the
// hook adapter: it builds the evaluation pipeline once per
// process (pack registry, quick-reject filter, deep-scan registry,
// allowlist, ledger stores), runs it against one command, and formats
// the result as the PreToolUse hook protocol expects.
package hook

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgerlanc/dcg/internal/allowlist"
	"github.com/dgerlanc/dcg/internal/budget"
	"github.com/dgerlanc/dcg/internal/cmdcontext"
	"github.com/dgerlanc/dcg/internal/confidence"
	"github.com/dgerlanc/dcg/internal/config"
	"github.com/dgerlanc/dcg/internal/constants"
	"github.com/dgerlanc/dcg/internal/decision"
	"github.com/dgerlanc/dcg/internal/deepscan"
	deepscancatalog "github.com/dgerlanc/dcg/internal/deepscan/catalog"
	"github.com/dgerlanc/dcg/internal/evaluator"
	"github.com/dgerlanc/dcg/internal/heredoc"
	"github.com/dgerlanc/dcg/internal/ledger"
	"github.com/dgerlanc/dcg/internal/packs"
	"github.com/dgerlanc/dcg/internal/packs/catalog"
	"github.com/dgerlanc/dcg/internal/quickreject"
)

// Engine owns the pipeline's immutable, startup-built state:
// the pack registry, its derived keyword filter, the deep-scan registry,
// and the allowlist/ledger state a single process shares across every
// command it evaluates. An Engine is safe for concurrent use once built,
// per the lazy-cell and advisory-lock guarantees its components carry.
type Engine struct {
	Registry  *packs.Registry
	Quick     *quickreject.Filter
	DeepScan  *deepscan.Registry
	Config    *config.Config
	Allowlist *allowlist.LayeredAllowlist
	Pending   *ledger.PendingStore
	Active    *ledger.ActiveStore
}

// NewEngine builds an Engine from the given configuration and ledger
// stores. DCG_PACKS, when set, overrides the config's enabled-pack
// prefixes for this one invocation.
func NewEngine(cfg *config.Config, la *allowlist.LayeredAllowlist, pending *ledger.PendingStore, active *ledger.ActiveStore) *Engine {
	all := catalog.All()
	reg := packs.NewRegistry(all, effectivePackPrefixes(cfg))
	return &Engine{
		Registry:  reg,
		Quick:     quickreject.Build(reg.Keywords()),
		DeepScan:  deepscancatalog.All(),
		Config:    cfg,
		Allowlist: la,
		Pending:   pending,
		Active:    active,
	}
}

func effectivePackPrefixes(cfg *config.Config) []string {
	if v := os.Getenv(constants.EnvPacks); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	if cfg != nil {
		return cfg.EnabledPackPrefixes
	}
	return nil
}

// Step is one stage of the evaluation trace, used by `dcg explain`.
type Step struct {
	Name   string
	Detail string
}

// EvalResult is the full outcome of evaluating one command: the verdict
// itself plus enough of the intermediate state for tracing and
// auditing.
type EvalResult struct {
	Command    string
	Verdict    decision.Verdict
	Analysis   *cmdcontext.Analysis
	Steps      []Step
	DurationMs float64
	Suspicious bool
}

func (r *EvalResult) step(name, detail string) {
	r.Steps = append(r.Steps, Step{Name: name, Detail: detail})
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// Evaluate runs the full evaluation pipeline against one command,
// invoked from invokingDir (used for allowlist path scoping and
// allow-once scope resolution).
func (e *Engine) Evaluate(command, invokingDir string) EvalResult {
	start := time.Now()
	now := time.Now()
	result := EvalResult{Command: command}

	if strings.TrimSpace(command) == "" {
		result.step("empty command", "nothing to execute")
		result.Verdict = decision.Verdict{Outcome: decision.Allow, AllowReason: decision.ReasonNoMatch}
		result.DurationMs = elapsedMs(start)
		return result
	}

	fastBudget := budget.New(constants.FastPathBudgetMs * time.Millisecond)

	if !e.Quick.AnyMatch(command) {
		result.step("quick-reject", "no enabled-pack keyword present")
		result.Verdict = decision.Verdict{Outcome: decision.Allow, AllowReason: decision.ReasonNoMatch}
		result.DurationMs = elapsedMs(start)
		return result
	}
	result.step("quick-reject", "keyword hit, continuing")

	candidateList := e.Registry.PacksForKeywordHit(command)
	candidateIDs := toSet(candidateList)
	result.step("keyword gate", fmt.Sprintf("%d candidate pack(s): %s", len(candidateList), strings.Join(candidateList, ", ")))

	analysis := cmdcontext.Analyze(command)
	result.Analysis = analysis
	result.Suspicious = analysis.Suspicious
	if analysis.Suspicious {
		result.step("context analysis", "parse failed, whole command labeled Unknown")
	} else {
		result.step("context analysis", fmt.Sprintf("%d labeled span(s)", len(analysis.Spans)))
	}

	enabledPacks := e.Registry.EnabledPacksInOrder()

	resolveHeredocLanguages(analysis)

	var safePtr *evaluator.SafeMatch
	if safeHit, ok := evaluator.RunSafePass(enabledPacks, candidateIDs, command); ok {
		safePtr = &safeHit
		result.step("safe pass", fmt.Sprintf("matched %s:%s", safeHit.PackID, safeHit.PatternName))
	} else {
		result.step("safe pass", "no match")
	}

	var destructivePtr *evaluator.DestructiveMatch
	lowConfidence := false

	if safePtr == nil && !fastBudget.Exceeded() {
		if destructiveHit, ok := evaluator.RunDestructivePass(enabledPacks, candidateIDs, command, analysis); ok {
			destructivePtr = &destructiveHit
			result.step("destructive pass", fmt.Sprintf("matched %s", destructiveHit.RuleID))
		} else {
			result.step("destructive pass", "no match")
		}
	}

	budgetExhausted := fastBudget.Exceeded()

	if safePtr == nil && destructivePtr == nil && !budgetExhausted && e.Config != nil && e.Config.Heredoc.Enabled {
		deepBudget := fastBudget.Sub(time.Duration(e.Config.Heredoc.TimeoutMs) * time.Millisecond)
		if hit, unknownLang, ok := e.runDeepScan(analysis, deepBudget); ok {
			destructivePtr = &hit
			lowConfidence = unknownLang
			result.step("deep scan", fmt.Sprintf("matched %s", hit.RuleID))
		} else {
			result.step("deep scan", "no match")
		}
		if deepBudget.Exceeded() {
			budgetExhausted = true
		}
	}

	if destructivePtr != nil {
		score := confidence.Compute(confidence.Context{
			Command:    command,
			Analysis:   analysis,
			MatchStart: destructivePtr.Start,
			MatchEnd:   destructivePtr.End,
		})
		if score.ShouldWarn() {
			lowConfidence = true
			result.step("confidence score", fmt.Sprintf("%.2f (below threshold, downgrading)", score.Value))
		} else if !lowConfidence {
			result.step("confidence score", fmt.Sprintf("%.2f", score.Value))
		}
	}

	req := decision.Request{
		RawCommand:       command,
		InvokingDir:      invokingDir,
		EnabledPacks:     enabledPacks,
		CandidateIDs:     candidateIDs,
		Allowlist:        e.Allowlist,
		Pending:          e.Pending,
		Active:           e.Active,
		Now:              now,
		BudgetExhausted:  budgetExhausted,
		LowConfidenceHit: lowConfidence,
	}

	result.Verdict = decision.Assemble(req, safePtr, destructivePtr)
	result.DurationMs = elapsedMs(start)
	return result
}

// resolveHeredocLanguages runs the same language detection runDeepScan
// will eventually use and writes each result back onto the heredoc spans
// analysis already located, before the top-level destructive pass runs.
// The destructive pass needs to know a heredoc's language to decide
// whether its body is shell-executable text or an opaque script only the
// deep scanner understands.
func resolveHeredocLanguages(a *cmdcontext.Analysis) {
	for _, body := range heredoc.FromHeredocs(a) {
		a.SetHeredocLanguage(body.Start, body.End, body.Language)
	}
}

// runDeepScan extracts every heredoc body and inline-script argument
// from analysis and runs the language-specific destructive pattern set
// against each, returning the first finding across bodies
// in extraction order. The second return value reports whether the
// matched body's language was never resolved (Unknown falling back to
// the shell pack), which the caller treats as a confidence-lowering
// signal.
func (e *Engine) runDeepScan(a *cmdcontext.Analysis, tracker *budget.Tracker) (evaluator.DestructiveMatch, bool, bool) {
	bodies := heredoc.FromHeredocs(a)
	bodies = append(bodies, heredoc.FromInlineScripts(a)...)

	for _, body := range bodies {
		if tracker.Exceeded() {
			return evaluator.DestructiveMatch{}, false, false
		}
		finding, ok, err := e.DeepScan.Scan(body.Language, body.Text, tracker)
		if err != nil {
			continue
		}
		if !ok {
			continue
		}
		packID, patternName := splitHeredocRuleID(finding.RuleID)
		match := evaluator.DestructiveMatch{
			PackID:      packID,
			PatternName: patternName,
			RuleID:      finding.RuleID,
			Severity:    finding.Severity,
			Reason:      finding.Reason,
			Remediation: finding.Remediation,
			Start:       body.Start + finding.Start,
			End:         body.Start + finding.End,
		}
		return match, !body.Detected, true
	}
	return evaluator.DestructiveMatch{}, false, false
}

// splitHeredocRuleID splits a "heredoc.<lang>.<name>" rule id into the
// pack id ("heredoc.<lang>") and pattern name at the last dot, mirroring
// the top-level pack:pattern split the allowlist and audit layers
// expect.
func splitHeredocRuleID(ruleID string) (packID, patternName string) {
	idx := strings.LastIndexByte(ruleID, '.')
	if idx < 0 {
		return ruleID, ""
	}
	return ruleID[:idx], ruleID[idx+1:]
}

func toSet(ids []string) map[string]bool {
	if ids == nil {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
