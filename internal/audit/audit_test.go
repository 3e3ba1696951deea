package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgerlanc/dcg/internal/constants"
)

func TestDefaultLogPath(t *testing.T) {
	path, err := DefaultLogPath()
	if err != nil {
		t.Fatalf("DefaultLogPath() error = %v", err)
	}
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, constants.XDGConfigSubdir, constants.AppName, constants.AuditLogFileName)
	if path != expected {
		t.Errorf("DefaultLogPath() = %q, want %q", path, expected)
	}
}

func TestInit(t *testing.T) {
	defer Reset()

	logPath := filepath.Join(t.TempDir(), "subdir", "dcg.log")
	if err := Init(logPath, false); err != nil {
		t.Errorf("Init() error = %v", err)
	}
	if !IsEnabled() {
		t.Error("expected audit logging to be enabled")
	}
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("audit log file was not created")
	}
	if RunID() == "" {
		t.Error("expected Init to assign a run id")
	}
}

func TestInitDisabled(t *testing.T) {
	defer Reset()
	if err := Init("", true); err != nil {
		t.Errorf("Init(disable=true) error = %v", err)
	}
	if IsEnabled() {
		t.Error("expected audit logging to be disabled")
	}
}

func TestLog(t *testing.T) {
	defer Reset()
	logPath := filepath.Join(t.TempDir(), "dcg.log")
	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if err := Log(Entry{Command: "git status", Decision: "allow", AllowReason: "no-pattern-match"}); err != nil {
		t.Errorf("Log() error = %v", err)
	}
	if err := Log(Entry{Command: "rm -rf /", Decision: "deny", RuleID: "core.filesystem:rm-rf-root"}); err != nil {
		t.Errorf("Log() error = %v", err)
	}
	Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}

	var first Entry
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("failed to parse first entry: %v", err)
	}
	if first.Command != "git status" || first.Decision != "allow" {
		t.Errorf("first entry = %+v, want command=git status decision=allow", first)
	}
	if first.Timestamp == "" {
		t.Error("expected a non-empty timestamp")
	}

	var second Entry
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("failed to parse second entry: %v", err)
	}
	if second.Command != "rm -rf /" || second.Decision != "deny" || second.RuleID != "core.filesystem:rm-rf-root" {
		t.Errorf("second entry = %+v, unexpected fields", second)
	}
}

func TestLogWhenDisabled(t *testing.T) {
	defer Reset()
	if err := Log(Entry{Command: "git status", Decision: "allow"}); err != nil {
		t.Errorf("Log() when disabled error = %v", err)
	}
}

func TestClose(t *testing.T) {
	defer Reset()
	logPath := filepath.Join(t.TempDir(), "dcg.log")
	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if IsEnabled() {
		t.Error("expected audit logging to be disabled after Close")
	}
	if err := Close(); err != nil {
		t.Errorf("Close() second call error = %v", err)
	}
}

func TestRotateIfNeeded_RotatesLargeFile(t *testing.T) {
	defer Reset()
	logPath := filepath.Join(t.TempDir(), "dcg.log")
	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	// Pad the file past the rotation threshold directly, then log one
	// more entry to trigger rotation.
	if err := auditFile.Truncate(constants.AuditRotateBytes + 1); err != nil {
		t.Fatal(err)
	}
	if err := Log(Entry{Command: "git status", Decision: "allow"}); err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	Close()

	matches, err := filepath.Glob(logPath + ".*.gz")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 rotated gzip file, got %d: %v", len(matches), matches)
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("expected the active log to contain the post-rotation entry")
	}
}
