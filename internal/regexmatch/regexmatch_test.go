package regexmatch

import (
	"testing"

	"github.com/dlclark/regexp2"
)

func TestCompile_SelectsEngine(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		wantEngine string
	}{
		{"plain literal", `^git\s+status`, "re2"},
		{"alternation", `^(rm|rmdir)\b`, "re2"},
		{"negative lookahead", `^git\s+restore(?!\s+--worktree)`, "backtracking"},
		{"backreference", `(\w+)\s+\1`, "backtracking"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.pattern)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.pattern, err)
			}
			if got := m.Engine(); got != tt.wantEngine {
				t.Errorf("Compile(%q).Engine() = %q, want %q", tt.pattern, got, tt.wantEngine)
			}
		})
	}
}

func TestIsMatch_AgreesAcrossEngines(t *testing.T) {
	// Both engines must agree on inputs that don't exercise the
	// lookahead/backreference-only features (the two engines are required
	// to agree on every other input).
	linear, err := Compile(`^git\s+status`)
	if err != nil {
		t.Fatal(err)
	}
	if !linear.IsMatch("git status") {
		t.Error("expected match")
	}
	if linear.IsMatch("git log") {
		t.Error("expected no match")
	}
	bt := &backtrackMatcher{re: regexp2.MustCompile(`^git\s+status`, regexp2.RE2)}
	for _, in := range []string{"git status", "git log"} {
		if linear.IsMatch(in) != bt.IsMatch(in) {
			t.Errorf("engines disagree on %q", in)
		}
	}
}

func TestFindSpan(t *testing.T) {
	m, err := Compile(`rm\s+-rf`)
	if err != nil {
		t.Fatal(err)
	}
	start, end, ok := m.FindSpan("echo hi; rm -rf /tmp")
	if !ok {
		t.Fatal("expected match")
	}
	if got := "echo hi; rm -rf /tmp"[start:end]; got != "rm -rf" {
		t.Errorf("FindSpan span = %q, want %q", got, "rm -rf")
	}
}

func TestNegativeLookahead_Semantics(t *testing.T) {
	m, err := Compile(`^git\s+restore\s+--staged\s+\S+(?!\s+--worktree)`)
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsMatch("git restore --staged file.txt") {
		t.Error("expected safe-restore pattern to match plain restore")
	}
}

func TestCompileError_IsNonFatal(t *testing.T) {
	_, err := Compile(`(unclosed`)
	if err == nil {
		t.Fatal("expected compile error for invalid pattern")
	}
}
