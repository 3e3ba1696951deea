package quickreject

import "testing"

func TestAnyMatch(t *testing.T) {
	f := Build([]string{"rm", "git", "DROP TABLE"})

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"no keyword", "echo hello world", false},
		{"simple keyword", "rm -rf /tmp", true},
		{"keyword as substring", "warmth", true}, // "rm" is a substring; quick-reject is intentionally loose
		{"multi-word keyword", "DROP TABLE users", true},
		{"git keyword", "git status", true},
		{"empty text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.AnyMatch(tt.text); got != tt.want {
				t.Errorf("AnyMatch(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnyMatch_NilFilter(t *testing.T) {
	var f *Filter
	if f.AnyMatch("anything") {
		t.Error("nil filter should never match")
	}
}

func TestBuild_EmptyKeywords(t *testing.T) {
	f := Build(nil)
	if f.AnyMatch("rm -rf /") {
		t.Error("filter with no keywords should never match")
	}
}
