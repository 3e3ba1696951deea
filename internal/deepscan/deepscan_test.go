package deepscan

import (
	"testing"
	"time"

	"github.com/dgerlanc/dcg/internal/budget"
	"github.com/dgerlanc/dcg/internal/cmdcontext"
	"github.com/dgerlanc/dcg/internal/packs"
)

func pythonPack() *Pack {
	return &Pack{
		Language:   cmdcontext.LangPython,
		PackPrefix: "python",
		Patterns: []*Pattern{
			{
				Name:     "os_system_rm",
				Kind:     KindRegex,
				Regex:    `os\.system\(\s*["'].*rm\s+-rf`,
				Severity: packs.SeverityCritical,
				Reason:   "shells out to rm -rf via os.system",
			},
		},
	}
}

func rubyPack() *Pack {
	return &Pack{
		Language:   cmdcontext.LangRuby,
		PackPrefix: "ruby",
		Patterns: []*Pattern{
			{
				Name:     "fileutils_rm_rf",
				Kind:     KindComposite,
				Regex:    `FileUtils`,
				Template: `FileUtils.rm_rf($ARG)`,
				Severity: packs.SeverityHigh,
				Reason:   "recursive delete via FileUtils.rm_rf",
			},
		},
	}
}

func TestScan_RegexFinding(t *testing.T) {
	r := NewRegistry([]*Pack{pythonPack()})
	body := `import os; os.system("rm -rf /")`
	f, ok, err := r.Scan(cmdcontext.LangPython, body, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a finding")
	}
	if f.RuleID != "heredoc.python.os_system_rm" {
		t.Errorf("RuleID = %q, want heredoc.python.os_system_rm", f.RuleID)
	}
	if f.Severity != packs.SeverityCritical {
		t.Errorf("Severity = %v, want Critical", f.Severity)
	}
}

func TestScan_NoFindingOnBenignBody(t *testing.T) {
	r := NewRegistry([]*Pack{pythonPack()})
	f, ok, err := r.Scan(cmdcontext.LangPython, `print("hello")`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected no finding, got %+v", f)
	}
}

func TestScan_CompositeRequiresBothTriggerAndTemplate(t *testing.T) {
	r := NewRegistry([]*Pack{rubyPack()})
	// Trigger present, but no call shaped like the template.
	_, ok, _ := r.Scan(cmdcontext.LangRuby, `FileUtils.mkdir_p("x")`, nil)
	if ok {
		t.Error("expected no finding: template shape absent")
	}
	f, ok, _ := r.Scan(cmdcontext.LangRuby, `FileUtils.rm_rf("/tmp/build")`, nil)
	if !ok {
		t.Fatal("expected a finding: trigger and template both present")
	}
	if f.RuleID != "heredoc.ruby.fileutils_rm_rf" {
		t.Errorf("RuleID = %q, want heredoc.ruby.fileutils_rm_rf", f.RuleID)
	}
}

func TestScan_UnknownLanguageFallsBackToShell(t *testing.T) {
	shellPack := &Pack{
		Language:   cmdcontext.LangShell,
		PackPrefix: "shell",
		Patterns: []*Pattern{
			{Name: "rm-rf", Kind: KindRegex, Regex: `rm\s+-rf`, Severity: packs.SeverityHigh, Reason: "recursive delete"},
		},
	}
	r := NewRegistry([]*Pack{shellPack})
	f, ok, err := r.Scan(cmdcontext.LangUnknown, `rm -rf /`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected fallback finding via shell pack")
	}
	if f.RuleID != "heredoc.shell.rm-rf" {
		t.Errorf("RuleID = %q, want heredoc.shell.rm-rf", f.RuleID)
	}
}

func TestScan_BudgetExhaustedReturnsError(t *testing.T) {
	r := NewRegistry([]*Pack{pythonPack()})
	tr := budget.New(1 * time.Nanosecond)
	time.Sleep(time.Millisecond)
	_, _, err := r.Scan(cmdcontext.LangPython, `os.system("rm -rf /")`, tr)
	if err == nil || !IsBudgetExhausted(err) {
		t.Errorf("expected budget-exhausted error, got %v", err)
	}
}

func TestScan_UnregisteredLanguage(t *testing.T) {
	r := NewRegistry([]*Pack{pythonPack()})
	_, ok, err := r.Scan(cmdcontext.LangRuby, `puts "hi"`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no finding for a language with no registered pack")
	}
}
