package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dgerlanc/dcg/internal/hook"
	"github.com/spf13/cobra"
)

// runHook is the default command: it reads a PreToolUse hook request
// from stdin and writes the verdict.
func runHook(cmd *cobra.Command, args []string) {
	engine, err := buildEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dcg: failed to initialize: %v\n", err)
		os.Exit(1)
	}

	if dryRun {
		runDryRun(engine)
		return
	}

	code := hook.Run(hook.RunOptions{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Engine:      engine,
		InvokingDir: invokingDir(),
	})
	if code != 0 {
		os.Exit(code)
	}
}

// runDryRun reads the same hook JSON but prints a human-readable
// APPROVED/REJECTED line to stderr instead of the protocol JSON. It
// writes no audit record, but the evaluation still records a pending
// allow-once code on a deny and consumes a matching single-use
// allow-once entry.
func runDryRun(engine *hook.Engine) {
	var input hook.Input
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dcg: failed to read stdin: %v\n", err)
		return
	}
	if err := json.Unmarshal(data, &input); err != nil {
		fmt.Fprintf(os.Stderr, "REJECTED: (malformed input: %v)\n", err)
		return
	}
	if input.ToolName != hook.ToolNameBash {
		fmt.Fprintf(os.Stderr, "APPROVED: (non-Bash tool %q)\n", input.ToolName)
		return
	}

	result := engine.Evaluate(input.ToolInput.Command, invokingDir())
	if result.Verdict.Outcome.String() == "deny" {
		fmt.Fprintf(os.Stderr, "REJECTED: %s (rule: %s)\n", input.ToolInput.Command, result.Verdict.RuleID)
		return
	}
	fmt.Fprintf(os.Stderr, "APPROVED: %s (reason: %s)\n", input.ToolInput.Command, result.Verdict.AllowReason.String())
}
