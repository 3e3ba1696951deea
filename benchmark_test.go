package main

import (
	"io"
	"strings"
	"testing"

	"github.com/dgerlanc/dcg/internal/allowlist"
	"github.com/dgerlanc/dcg/internal/config"
	"github.com/dgerlanc/dcg/internal/hook"
)

// BenchmarkEvaluate exercises the full evaluation pipeline end to end,
// the same path the hook adapter drives on every invocation.
func BenchmarkEvaluate(b *testing.B) {
	engine := hook.NewEngine(config.Default(), allowlist.LoadLayered("", ""), nil, nil)
	cwd := b.TempDir()

	benchmarks := []struct {
		name string
		cmd  string
	}{
		{"quick_reject_no_keyword", "echo hello world"},
		{"safe_git_status", "git status"},
		{"safe_npm_install", "npm install"},
		{"destructive_rm_rf", "rm -rf /"},
		{"destructive_git_reset_hard", "git reset --hard HEAD~1"},
		{"chained_safe_then_destructive", "echo hello; rm -rf /"},
		{"heredoc_python", "python3 <<'EOF'\nimport os\nos.system('rm -rf /')\nEOF"},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = engine.Evaluate(bm.cmd, cwd)
			}
		})
	}
}

// BenchmarkRun exercises the JSON-in, JSON-out hook adapter, capturing
// the marshal/unmarshal and audit-logging overhead around Evaluate.
func BenchmarkRun(b *testing.B) {
	engine := hook.NewEngine(config.Default(), allowlist.LoadLayered("", ""), nil, nil)
	cwd := b.TempDir()

	inputs := []struct {
		name  string
		input string
	}{
		{"allowed", `{"tool_name":"Bash","tool_input":{"command":"git status"}}`},
		{"denied", `{"tool_name":"Bash","tool_input":{"command":"rm -rf /"}}`},
		{"non_bash", `{"tool_name":"Read","tool_input":{"file_path":"/tmp/test"}}`},
	}

	for _, in := range inputs {
		b.Run(in.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				hook.Run(hook.RunOptions{
					Stdin:       strings.NewReader(in.input),
					Stdout:      io.Discard,
					Stderr:      io.Discard,
					Engine:      engine,
					InvokingDir: cwd,
				})
			}
		})
	}
}
