package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgerlanc/dcg/internal/decision"
)

// verdictView is the CLI-facing rendering of a decision.Verdict, shared
// by `dcg test` and `dcg explain`.
type verdictView struct {
	Command       string `json:"command"`
	Outcome       string `json:"outcome"`
	AllowReason   string `json:"allow_reason,omitempty"`
	RuleID        string `json:"rule_id,omitempty"`
	PackID        string `json:"pack_id,omitempty"`
	PatternName   string `json:"pattern_name,omitempty"`
	Severity      string `json:"severity,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Remediation   string `json:"remediation,omitempty"`
	AllowOnceCode string `json:"allow_once_code,omitempty"`
	DurationMs    float64 `json:"duration_ms"`
}

func newVerdictView(command string, v decision.Verdict, durationMs float64) verdictView {
	view := verdictView{
		Command:    command,
		Outcome:    v.Outcome.String(),
		DurationMs: durationMs,
	}
	switch v.Outcome {
	case decision.Deny:
		view.RuleID = v.RuleID
		view.PackID = v.PackID
		view.PatternName = v.PatternName
		view.Severity = v.Severity.String()
		view.Reason = v.Reason
		view.Remediation = v.Remediation
		view.AllowOnceCode = v.AllowOnceCode
	default:
		view.AllowReason = v.AllowReason.String()
		if v.AllowlistHit != nil {
			view.RuleID = v.AllowlistHit.Entry.Rule
		}
	}
	return view
}

func writeVerdict(w io.Writer, view verdictView) error {
	if outputFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	fmt.Fprintf(w, "command:  %s\n", view.Command)
	fmt.Fprintf(w, "outcome:  %s\n", view.Outcome)
	if view.AllowReason != "" {
		fmt.Fprintf(w, "reason:   %s\n", view.AllowReason)
	}
	if view.RuleID != "" {
		fmt.Fprintf(w, "rule:     %s\n", view.RuleID)
	}
	if view.Severity != "" {
		fmt.Fprintf(w, "severity: %s\n", view.Severity)
	}
	if view.Reason != "" {
		fmt.Fprintf(w, "why:      %s\n", view.Reason)
	}
	if view.Remediation != "" {
		fmt.Fprintf(w, "fix:      %s\n", view.Remediation)
	}
	if view.AllowOnceCode != "" {
		fmt.Fprintf(w, "allow:    dcg allow-once %s\n", view.AllowOnceCode)
	}
	fmt.Fprintf(w, "took:     %.3fms\n", view.DurationMs)
	return nil
}
