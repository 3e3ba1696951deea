package panel

import (
	"strings"
	"testing"

	"github.com/dgerlanc/dcg/internal/packs"
)

func sampleDenial() Denial {
	return Denial{
		RuleID:        "core.git:reset-hard",
		PackID:        "core.git",
		PatternName:   "reset-hard",
		Severity:      packs.SeverityCritical,
		Reason:        "discards uncommitted working-tree and index changes irrecoverably",
		Remediation:   "use `git reset` without --hard",
		Command:       "git reset --hard HEAD",
		AllowOnceCode: "ab12",
	}
}

func TestRenderPlain_ContainsCoreFields(t *testing.T) {
	t.Setenv("DCG_NO_RICH", "1")
	out := Render(sampleDenial())
	for _, want := range []string{"core.git:reset-hard", "git reset --hard HEAD", "ab12"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected plain output to contain %q, got %q", want, out)
		}
	}
}

func TestUsePlain_RespectsEnv(t *testing.T) {
	t.Setenv("DCG_NO_RICH", "")
	t.Setenv("NO_COLOR", "")
	t.Setenv("CI", "")
	if UsePlain() {
		t.Error("expected UsePlain to be false with no env vars set")
	}
	t.Setenv("NO_COLOR", "1")
	if !UsePlain() {
		t.Error("expected UsePlain to be true with NO_COLOR set")
	}
}

func TestRenderRich_ContainsCoreFields(t *testing.T) {
	t.Setenv("DCG_NO_RICH", "")
	t.Setenv("NO_COLOR", "")
	t.Setenv("CI", "")
	out := Render(sampleDenial())
	for _, want := range []string{"core.git:reset-hard", "git reset --hard HEAD", "ab12"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected rich output to contain %q, got %q", want, out)
		}
	}
}
