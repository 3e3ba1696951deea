package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dgerlanc/dcg/internal/audit"
	"github.com/dgerlanc/dcg/internal/config"
	"github.com/dgerlanc/dcg/internal/decision"
	"github.com/dgerlanc/dcg/internal/ledger"
	"github.com/dgerlanc/dcg/internal/logger"
	"github.com/dgerlanc/dcg/internal/panel"
	"github.com/dgerlanc/dcg/internal/redact"
)

// ToolNameBash is the only tool_name the guard acts on.
const ToolNameBash = "Bash"

// EventPreToolUse is the hookEventName stamped on every response.
const EventPreToolUse = "PreToolUse"

// Input is the hook request read from standard input.
type Input struct {
	ToolName  string        `json:"tool_name"`
	ToolInput ToolInputData `json:"tool_input"`
}

// ToolInputData carries the Bash tool's arguments; other fields the
// host may send (description, timeout, ...) are not needed here.
type ToolInputData struct {
	Command string `json:"command"`
}

// Output is the hook response written to standard output on Deny. An
// Allow response is empty stdout, so there
// is no corresponding struct for it.
type Output struct {
	HookSpecificOutput SpecificOutput `json:"hookSpecificOutput"`
}

// SpecificOutput is the hookSpecificOutput object.
type SpecificOutput struct {
	HookEventName            string        `json:"hookEventName"`
	PermissionDecision       string        `json:"permissionDecision"`
	PermissionDecisionReason string        `json:"permissionDecisionReason"`
	RuleID                   string        `json:"ruleId"`
	PackID                   string        `json:"packId"`
	PatternName               string       `json:"patternName"`
	Severity                 string        `json:"severity"`
	MatchedSpan               SpanJSON     `json:"matchedSpan"`
	Remediation               Remediation  `json:"remediation"`
	AllowOnceCode             string       `json:"allowOnceCode"`
}

// SpanJSON is the matchedSpan object.
type SpanJSON struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Remediation is the remediation object.
type Remediation struct {
	Explanation      string `json:"explanation"`
	AllowOnceCommand string `json:"allowOnceCommand"`
}

// RunOptions configures one invocation of Run.
type RunOptions struct {
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	Engine      *Engine
	InvokingDir string
}

// Run implements the hook adapter: read the request, evaluate it,
// write the verdict, and return the process exit code (0 on success
// whether allow or deny, 2 for malformed input).
func Run(opts RunOptions) int {
	data, err := io.ReadAll(opts.Stdin)
	if err != nil {
		logger.Error("failed to read hook input", "error", err)
		return 2
	}

	var input Input
	if err := json.Unmarshal(data, &input); err != nil {
		logger.Warn("malformed hook input, denying nothing and exiting", "error", err)
		return 2
	}

	if input.ToolName != ToolNameBash {
		return 0
	}

	invokingDir := opts.InvokingDir
	if invokingDir == "" {
		invokingDir, _ = os.Getwd()
	}

	result := opts.Engine.Evaluate(input.ToolInput.Command, invokingDir)
	logAudit(result, invokingDir)

	if result.Verdict.Outcome != decision.Deny {
		return 0
	}

	writeDenyOutput(opts.Stdout, result.Verdict)
	fmt.Fprint(opts.Stderr, panel.Render(panel.Denial{
		RuleID:        result.Verdict.RuleID,
		PackID:        result.Verdict.PackID,
		PatternName:   result.Verdict.PatternName,
		Severity:      result.Verdict.Severity,
		Reason:        result.Verdict.Reason,
		Remediation:   result.Verdict.Remediation,
		Command:       result.Command,
		AllowOnceCode: result.Verdict.AllowOnceCode,
	}))
	return 0
}

func writeDenyOutput(w io.Writer, v decision.Verdict) {
	out := Output{HookSpecificOutput: SpecificOutput{
		HookEventName:             EventPreToolUse,
		PermissionDecision:        "deny",
		PermissionDecisionReason:  v.Reason,
		RuleID:                    v.RuleID,
		PackID:                    v.PackID,
		PatternName:               v.PatternName,
		Severity:                  v.Severity.String(),
		MatchedSpan:               SpanJSON{Start: v.MatchedSpan.Start, End: v.MatchedSpan.End},
		Remediation: Remediation{
			Explanation:      v.Remediation,
			AllowOnceCommand: "dcg allow-once " + v.AllowOnceCode,
		},
		AllowOnceCode: v.AllowOnceCode,
	}}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		logger.Error("failed to write hook output", "error", err)
	}
}

// logAudit writes one audit record for every decision regardless
// of outcome.
func logAudit(result EvalResult, invokingDir string) {
	v := result.Verdict
	entry := audit.Entry{
		Command:    redact.Command(result.Command),
		Decision:   v.Outcome.String(),
		Cwd:        invokingDir,
		DurationMs: result.DurationMs,
	}

	cfg := config.Get()
	if cfg != nil {
		if path, err := config.Path(); err == nil {
			entry.ConfigPath = path
		}
	}
	if err := config.InitError(); err != nil {
		entry.ConfigError = err.Error()
	}

	switch v.Outcome {
	case decision.Deny:
		entry.RuleID = v.RuleID
		entry.PackID = v.PackID
		entry.Severity = v.Severity.String()
		entry.PendingCode = v.AllowOnceCode
		entry.Scope = ledger.ResolveScope(invokingDir).String()
	case decision.AllowOnceHit:
		if v.AllowOnceEntry != nil {
			entry.Scope = v.AllowOnceEntry.Scope
			if v.AllowOnceEntry.SingleUse {
				entry.ConsumedCode = v.AllowOnceEntry.Code
			}
		}
		entry.AllowReason = v.AllowReason.String()
	default:
		entry.AllowReason = v.AllowReason.String()
		if v.AllowlistHit != nil {
			entry.RuleID = v.AllowlistHit.Entry.Rule
		}
	}

	if err := audit.Log(entry); err != nil {
		logger.Debug("failed to write audit entry", "error", err)
	}
}
