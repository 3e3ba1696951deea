package confidence

import (
	"testing"

	"github.com/dgerlanc/dcg/internal/cmdcontext"
)

func TestCompute_DirectCommandIsHighConfidence(t *testing.T) {
	cmd := "rm -rf /"
	ctx := Context{
		Command:    cmd,
		Analysis:   cmdcontext.Analyze(cmd),
		MatchStart: 0,
		MatchEnd:   8,
	}
	score := Compute(ctx)
	if score.Value <= 0.5 {
		t.Errorf("value = %v, want > 0.5 for a direct command", score.Value)
	}
}

func TestCompute_QuotedCommitMessageIsLowConfidence(t *testing.T) {
	cmd := `git commit -m "Fix rm -rf detection"`
	a := cmdcontext.Analyze(cmd)
	start := indexOf(cmd, "rm -rf")
	ctx := Context{
		Command:    cmd,
		Analysis:   a,
		MatchStart: start,
		MatchEnd:   start + len("rm -rf"),
	}
	score := Compute(ctx)
	if score.Value >= 0.5 {
		t.Errorf("value = %v, want < 0.5 for a quoted commit message", score.Value)
	}
	if !score.ShouldWarn() {
		t.Error("expected ShouldWarn true")
	}
}

func TestCompute_PipeOperatorNearbyIsDetected(t *testing.T) {
	cmd := "echo foo | rm -rf /"
	a := cmdcontext.Analyze(cmd)
	start := indexOf(cmd, "rm -rf")
	ctx := Context{
		Command:    cmd,
		Analysis:   a,
		MatchStart: start,
		MatchEnd:   start + len("rm -rf /"),
	}
	score := Compute(ctx)
	found := false
	for _, sig := range score.Signals {
		if sig == SignalExecutionOperatorsNearby {
			found = true
		}
	}
	if !found {
		t.Error("expected ExecutionOperatorsNearby signal")
	}
}

func TestIsCommandPosition(t *testing.T) {
	tests := []struct {
		cmd   string
		start int
		want  bool
	}{
		{"rm -rf /", 0, true},
		{"echo foo | rm -rf /", 11, true},
		{"foo && rm -rf /", 7, true},
		{`git commit -m "rm"`, 15, false},
	}
	for _, tt := range tests {
		if got := isCommandPosition(tt.cmd, tt.start); got != tt.want {
			t.Errorf("isCommandPosition(%q, %d) = %v, want %v", tt.cmd, tt.start, got, tt.want)
		}
	}
}

func TestSignalWeights(t *testing.T) {
	if SignalExecuted.weight() < 1.0 {
		t.Error("ExecutedSpan should not reduce confidence")
	}
	if SignalQuotedString.weight() >= 0.5 {
		t.Error("QuotedString should reduce confidence below 0.5")
	}
}

func TestScore_ShouldWarnThreshold(t *testing.T) {
	score := High()
	if score.ShouldWarn() {
		t.Error("high confidence should not warn")
	}
	score.add(SignalQuotedString)
	if !score.ShouldWarn() {
		t.Error("low confidence should warn")
	}
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
