// Package decision implements the decision assembler: it merges
// the allow-once ledger, the config allowlist, and the evaluator's
// safe/destructive pass results into a single Verdict, in the fixed
// precedence order allow-once hit > config allowlist hit > safe-pattern
// hit > destructive-pattern hit > no-match-allow. On Deny it also
// creates and persists a pending-code record.
package decision

import (
	"time"

	"github.com/dgerlanc/dcg/internal/allowlist"
	"github.com/dgerlanc/dcg/internal/evaluator"
	"github.com/dgerlanc/dcg/internal/ledger"
	"github.com/dgerlanc/dcg/internal/packs"
	"github.com/dgerlanc/dcg/internal/redact"
)

// Outcome is the high-level decision category.
type Outcome int

const (
	Allow Outcome = iota
	Deny
	AllowOnceHit
)

// AllowReason explains an Allow verdict beyond "no match".
type AllowReason int

const (
	ReasonNoMatch AllowReason = iota
	ReasonAllowlistHit
	ReasonAllowOnceHit
	ReasonBudgetExhausted
	ReasonLowConfidence
)

func (r AllowReason) String() string {
	switch r {
	case ReasonAllowlistHit:
		return "AllowlistHit"
	case ReasonAllowOnceHit:
		return "AllowOnceHit"
	case ReasonBudgetExhausted:
		return "BudgetExhausted"
	case ReasonLowConfidence:
		return "LowConfidence"
	default:
		return "NoPatternMatch"
	}
}

func (o Outcome) String() string {
	switch o {
	case Deny:
		return "deny"
	case AllowOnceHit:
		return "allow_once_hit"
	default:
		return "allow"
	}
}

// Span is a byte range into the original command text.
type Span struct {
	Start, End int
}

// Verdict is the decision assembler's output, serialized as the hook
// response.
type Verdict struct {
	Outcome Outcome

	// Populated when Outcome == Deny.
	RuleID      string
	PackID      string
	PatternName string
	Severity    packs.Severity
	MatchedSpan Span
	Reason      string
	Remediation string
	AllowOnceCode string

	// Populated when Outcome == Allow.
	AllowReason    AllowReason
	AllowlistHit   *allowlist.Hit
	AllowOnceEntry *ledger.AllowOnceEntry
}

// Request bundles everything the assembler needs for one command.
type Request struct {
	RawCommand string
	InvokingDir string
	EnabledPacks []*packs.Pack
	CandidateIDs map[string]bool
	Allowlist   *allowlist.LayeredAllowlist
	Pending     *ledger.PendingStore
	Active      *ledger.ActiveStore
	Now         time.Time
	BudgetExhausted bool

	// LowConfidenceHit is set by the caller when internal/confidence
	// scored the destructive candidate below its warn threshold: the
	// candidate is downgraded to Allow(LowConfidence) instead of Deny,
	// ahead of pending-code creation.
	LowConfidenceHit bool
}

// Assemble runs the fixed-precedence merge. The evaluator passes
// (safe/destructive) have already been run by the caller and are passed
// in as optional hits, since they require the context analysis the
// assembler itself does not own.
func Assemble(req Request, safeHit *evaluator.SafeMatch, destructiveHit *evaluator.DestructiveMatch) Verdict {
	hash := ledger.Hash(req.RawCommand)

	if req.Active != nil {
		if entry, ok := req.Active.Lookup(hash, req.InvokingDir, req.Now); ok {
			if entry.SingleUse {
				req.Active.Consume(hash, req.Now)
			}
			return Verdict{
				Outcome:        AllowOnceHit,
				AllowReason:    ReasonAllowOnceHit,
				AllowOnceEntry: &entry,
			}
		}
	}

	if destructiveHit != nil && req.Allowlist != nil {
		if hit, ok := req.Allowlist.Match(destructiveHit.PackID, destructiveHit.PatternName, req.InvokingDir); ok {
			return Verdict{
				Outcome:      Allow,
				AllowReason:  ReasonAllowlistHit,
				AllowlistHit: &hit,
			}
		}
	}

	if safeHit != nil {
		return Verdict{Outcome: Allow, AllowReason: ReasonNoMatch}
	}

	if destructiveHit != nil && req.LowConfidenceHit {
		return Verdict{Outcome: Allow, AllowReason: ReasonLowConfidence}
	}

	if destructiveHit != nil {
		v := Verdict{
			Outcome:       Deny,
			RuleID:        destructiveHit.RuleID,
			PackID:        destructiveHit.PackID,
			PatternName:   destructiveHit.PatternName,
			Severity:      destructiveHit.Severity,
			MatchedSpan:   Span{Start: destructiveHit.Start, End: destructiveHit.End},
			Reason:        destructiveHit.Reason,
			Remediation:   destructiveHit.Remediation,
		}
		scope := ledger.ResolveScope(req.InvokingDir)
		pending := ledger.NewPendingCode(
			req.RawCommand,
			redact.Command(req.RawCommand),
			destructiveHit.PackID,
			destructiveHit.RuleID,
			scope,
			req.Now,
		)
		v.AllowOnceCode = pending.Code
		if req.Pending != nil {
			if err := req.Pending.Append(pending); err != nil {
				v.AllowOnceCode = ""
			}
		}
		return v
	}

	if req.BudgetExhausted {
		return Verdict{Outcome: Allow, AllowReason: ReasonBudgetExhausted}
	}

	return Verdict{Outcome: Allow, AllowReason: ReasonNoMatch}
}
