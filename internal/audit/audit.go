// Package audit implements the audit log: a newline-delimited
// JSON file recording every decision, rotated to a gzip-compressed file
// once it crosses constants.AuditRotateBytes.
package audit

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/dgerlanc/dcg/internal/constants"
	"github.com/dgerlanc/dcg/internal/logger"
)

// TimestampFormat is the audit log's timestamp precision.
const TimestampFormat = "2006-01-02T15:04:05.0Z07:00"

// Entry is one audit log line.
type Entry struct {
	Version      int     `json:"version"`
	RunID        string  `json:"run_id"`
	Timestamp    string  `json:"timestamp"`
	Command      string  `json:"command"`
	Decision     string  `json:"decision"` // "allow", "deny", "allow_once_hit"
	AllowReason  string  `json:"allow_reason,omitempty"`
	RuleID       string  `json:"rule_id,omitempty"`
	PackID       string  `json:"pack_id,omitempty"`
	Severity     string  `json:"severity,omitempty"`
	Scope        string  `json:"scope,omitempty"`
	PendingCode  string  `json:"pending_code,omitempty"`
	ConsumedCode string  `json:"consumed_code,omitempty"`
	Cwd          string  `json:"cwd"`
	DurationMs   float64 `json:"duration_ms"`
	ConfigPath   string  `json:"config_path,omitempty"`
	ConfigError  string  `json:"config_error,omitempty"`
}

const entryVersion = 1

var (
	auditFile *os.File
	auditPath string
	mu        sync.Mutex
	enabled   bool
	runID     string
)

// DefaultLogPath returns ~/.config/dcg/dcg.log.
func DefaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, constants.XDGConfigSubdir, constants.AppName, constants.AuditLogFileName), nil
}

// Init opens the audit log for appending. If path is empty, the default
// path is used. Passing disable=true turns Log into a no-op; the root
// command passes its --no-audit-log flag here.
func Init(path string, disable bool) error {
	mu.Lock()
	defer mu.Unlock()

	if disable {
		enabled = false
		return nil
	}

	if path == "" {
		var err error
		path, err = DefaultLogPath()
		if err != nil {
			logger.Debug("failed to resolve default audit log path", "error", err)
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		logger.Debug("failed to create audit log directory", "error", err)
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		logger.Debug("failed to open audit log file", "error", err)
		return err
	}

	auditFile = f
	auditPath = path
	enabled = true
	runID = uuid.NewString()
	logger.Debug("audit logging initialized", "path", path, "run_id", runID)
	return nil
}

// Close closes the audit log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if auditFile != nil {
		err := auditFile.Close()
		auditFile = nil
		enabled = false
		return err
	}
	return nil
}

// Log writes entry, stamping its timestamp and run id, and rotates the
// file first if it has crossed the configured size threshold.
func Log(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || auditFile == nil {
		return nil
	}

	if err := rotateIfNeeded(); err != nil {
		logger.Debug("audit log rotation failed, continuing without rotating", "error", err)
	}

	entry.Version = entryVersion
	entry.RunID = runID
	entry.Timestamp = time.Now().UTC().Format(TimestampFormat)

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Debug("failed to marshal audit entry", "error", err)
		return err
	}
	_, err = auditFile.Write(append(data, '\n'))
	if err != nil {
		logger.Debug("failed to write audit entry", "error", err)
	}
	return err
}

// rotateIfNeeded gzip-compresses the current log to a timestamped
// sibling file and starts a fresh one once the active file exceeds
// constants.AuditRotateBytes.
func rotateIfNeeded() error {
	info, err := auditFile.Stat()
	if err != nil {
		return err
	}
	if info.Size() < constants.AuditRotateBytes {
		return nil
	}

	if err := auditFile.Close(); err != nil {
		return err
	}

	rotatedPath := auditPath + "." + time.Now().UTC().Format("20060102T150405") + ".gz"
	if err := gzipFile(auditPath, rotatedPath); err != nil {
		// Reopen the original file regardless, so logging keeps working
		// even if compression failed.
		f, openErr := os.OpenFile(auditPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
		if openErr == nil {
			auditFile = f
		}
		return err
	}

	if err := os.Truncate(auditPath, 0); err != nil {
		return err
	}
	f, err := os.OpenFile(auditPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		return err
	}
	auditFile = f
	return nil
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		return err
	}
	return gw.Close()
}

// IsEnabled reports whether audit logging is active.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// RunID returns the current process's run id, empty if Init has not
// been called.
func RunID() string {
	mu.Lock()
	defer mu.Unlock()
	return runID
}

// Reset closes and clears the audit state. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if auditFile != nil {
		auditFile.Close()
	}
	auditFile = nil
	auditPath = ""
	enabled = false
	runID = ""
}
