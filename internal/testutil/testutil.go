// Package testutil provides shared test utilities for dcg tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgerlanc/dcg/internal/config"
	"github.com/dgerlanc/dcg/internal/constants"
)

// SetupTestConfig creates a temporary config directory with test configuration.
// Returns a cleanup function that should be deferred.
func SetupTestConfig(t *testing.T, configContent string) func() {
	t.Helper()

	tmpDir := t.TempDir()
	os.Setenv(constants.EnvConfigDir, tmpDir)

	if configContent != "" {
		configPath := filepath.Join(tmpDir, constants.ConfigFileName)
		if err := os.WriteFile(configPath, []byte(configContent), constants.FileMode); err != nil {
			t.Fatal(err)
		}
	}

	config.Reset()
	config.Init()

	return func() {
		os.Unsetenv(constants.EnvConfigDir)
		config.Reset()
	}
}

// MinimalTestConfig enables every shipped pack with heredoc scanning
// on, the same posture as config.Default().
const MinimalTestConfig = `
[packs]
enabled = []

[heredoc]
enabled = true
timeout_ms = 40
fallback_on_error = true
languages = ["shell", "python", "ruby", "js", "perl"]
`
