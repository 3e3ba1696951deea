package hook

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dgerlanc/dcg/internal/allowlist"
	"github.com/dgerlanc/dcg/internal/config"
	"github.com/dgerlanc/dcg/internal/decision"
)

func runOpts(t *testing.T, input string) (string, string, int) {
	t.Helper()
	engine := NewEngine(config.Default(), allowlist.LoadLayered("", ""), nil, nil)
	var stdout, stderr strings.Builder
	code := Run(RunOptions{
		Stdin:       strings.NewReader(input),
		Stdout:      &stdout,
		Stderr:      &stderr,
		Engine:      engine,
		InvokingDir: t.TempDir(),
	})
	return stdout.String(), stderr.String(), code
}

func TestRun_AllowedCommandProducesNoOutput(t *testing.T) {
	stdout, _, code := runOpts(t, `{"tool_name":"Bash","tool_input":{"command":"git status"}}`)
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout on allow, got: %s", stdout)
	}
}

func TestRun_DeniedCommandWritesVerdict(t *testing.T) {
	stdout, stderr, code := runOpts(t, `{"tool_name":"Bash","tool_input":{"command":"rm -rf /"}}`)
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	var out Output
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("failed to parse stdout as JSON: %v\nstdout: %s", err, stdout)
	}
	so := out.HookSpecificOutput
	if so.HookEventName != EventPreToolUse {
		t.Errorf("hookEventName = %q, want %q", so.HookEventName, EventPreToolUse)
	}
	if so.PermissionDecision != "deny" {
		t.Errorf("permissionDecision = %q, want deny", so.PermissionDecision)
	}
	if so.PackID != "core.filesystem" {
		t.Errorf("packId = %q, want core.filesystem", so.PackID)
	}
	if so.Remediation.AllowOnceCommand == "" || !strings.Contains(so.Remediation.AllowOnceCommand, "dcg allow-once") {
		t.Errorf("expected an allow-once remediation command, got %q", so.Remediation.AllowOnceCommand)
	}
	if stderr == "" {
		t.Error("expected a rendered denial panel on stderr")
	}
}

func TestRun_NonBashToolIsIgnored(t *testing.T) {
	stdout, stderr, code := runOpts(t, `{"tool_name":"Write","tool_input":{"path":"/tmp/x"}}`)
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if stdout != "" || stderr != "" {
		t.Errorf("expected no output for a non-Bash tool, got stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestRun_MalformedJSONExitsTwo(t *testing.T) {
	stdout, _, code := runOpts(t, `{not valid`)
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout for malformed input, got: %s", stdout)
	}
}

func TestWriteDenyOutput_EncodesRemediationCommand(t *testing.T) {
	v := decision.Verdict{
		Outcome:       decision.Deny,
		RuleID:        "core.filesystem:rm-rf-general",
		PackID:        "core.filesystem",
		PatternName:   "rm-rf-general",
		AllowOnceCode: "ab12",
	}

	var buf strings.Builder
	writeDenyOutput(&buf, v)

	var out Output
	if err := json.Unmarshal([]byte(buf.String()), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.HookSpecificOutput.Remediation.AllowOnceCommand != "dcg allow-once ab12" {
		t.Errorf("got %q", out.HookSpecificOutput.Remediation.AllowOnceCommand)
	}
}
