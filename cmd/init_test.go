package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRunInitCreatesConfigFile(t *testing.T) {
	resetGlobalState()

	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "dcg")
	os.Setenv("DCG_CONFIG", configDir)
	defer os.Unsetenv("DCG_CONFIG")

	cmd := &cobra.Command{}
	initForce = false

	if err := runInit(cmd, []string{}); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	configPath := filepath.Join(configDir, "config.toml")
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	if string(content) != defaultConfigTemplate {
		t.Error("config file content does not match the default template")
	}
}

func TestRunInitRefusesExistingWithoutForce(t *testing.T) {
	resetGlobalState()

	tmpDir := t.TempDir()
	os.Setenv("DCG_CONFIG", tmpDir)
	defer os.Unsetenv("DCG_CONFIG")

	configPath := filepath.Join(tmpDir, "config.toml")
	existing := []byte("# existing config\n")
	if err := os.WriteFile(configPath, existing, 0644); err != nil {
		t.Fatal(err)
	}

	cmd := &cobra.Command{}
	initForce = false

	err := runInit(cmd, []string{})
	if err == nil {
		t.Fatal("expected an error when config already exists and --force is not set")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected 'already exists' in error, got: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if !bytes.Equal(content, existing) {
		t.Error("existing config.toml was modified despite missing --force")
	}
}

func TestRunInitForceOverwrites(t *testing.T) {
	resetGlobalState()

	tmpDir := t.TempDir()
	os.Setenv("DCG_CONFIG", tmpDir)
	defer os.Unsetenv("DCG_CONFIG")

	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte("# old config"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := &cobra.Command{}
	initForce = true
	defer func() { initForce = false }()

	if err := runInit(cmd, []string{}); err != nil {
		t.Fatalf("runInit() with --force error = %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != defaultConfigTemplate {
		t.Error("config file was not overwritten with the default template")
	}
}

func TestRunInitCreatesNestedDirectory(t *testing.T) {
	resetGlobalState()

	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "nested", "path", "dcg")
	os.Setenv("DCG_CONFIG", configDir)
	defer os.Unsetenv("DCG_CONFIG")

	cmd := &cobra.Command{}
	initForce = false

	if err := runInit(cmd, []string{}); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(configDir, "config.toml")); os.IsNotExist(err) {
		t.Error("config file was not created under the nested directory")
	}
}

func TestInitCmdHasForceFlag(t *testing.T) {
	flag := initCmd.Flags().Lookup("force")
	if flag == nil {
		t.Fatal("init command should have --force flag")
	}
	if flag.Shorthand != "f" {
		t.Errorf("--force flag shorthand = %q, want 'f'", flag.Shorthand)
	}
	if flag.DefValue != "false" {
		t.Errorf("--force flag default = %q, want 'false'", flag.DefValue)
	}
}

func TestInitCmdUsage(t *testing.T) {
	if initCmd.Use != "init" {
		t.Errorf("initCmd.Use = %q, want 'init'", initCmd.Use)
	}
	if initCmd.Short == "" {
		t.Error("initCmd.Short should not be empty")
	}
	if initCmd.Long == "" {
		t.Error("initCmd.Long should not be empty")
	}
}
