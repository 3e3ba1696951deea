package cmd

import (
	"bytes"
	"testing"

	"github.com/dgerlanc/dcg/internal/config"
	"github.com/spf13/cobra"
)

// resetGlobalState resets all global flags to their default values.
func resetGlobalState() {
	verbose = false
	dryRun = false
	outputFormat = "pretty"
	noAuditLog = false
	config.Reset()
}

func TestIsVerbose(t *testing.T) {
	tests := []struct {
		name     string
		value    bool
		expected bool
	}{
		{"verbose false", false, false},
		{"verbose true", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobalState()
			verbose = tt.value
			if got := IsVerbose(); got != tt.expected {
				t.Errorf("IsVerbose() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsDryRun(t *testing.T) {
	tests := []struct {
		name     string
		value    bool
		expected bool
	}{
		{"dry-run false", false, false},
		{"dry-run true", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobalState()
			dryRun = tt.value
			if got := IsDryRun(); got != tt.expected {
				t.Errorf("IsDryRun() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"default pretty", "pretty", "pretty"},
		{"json", "json", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobalState()
			outputFormat = tt.value
			if got := OutputFormat(); got != tt.expected {
				t.Errorf("OutputFormat() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRootCmdFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Evaluate without writing output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "pretty", "Output format")
	cmd.PersistentFlags().BoolVar(&noAuditLog, "no-audit-log", false, "Disable audit logging")

	tests := []struct {
		name         string
		args         []string
		wantVerbose  bool
		wantDryRun   bool
		wantFormat   string
		wantNoAudit  bool
	}{
		{"no flags", []string{}, false, false, "pretty", false},
		{"verbose short flag", []string{"-v"}, true, false, "pretty", false},
		{"verbose long flag", []string{"--verbose"}, true, false, "pretty", false},
		{"dry-run flag", []string{"--dry-run"}, false, true, "pretty", false},
		{"format flag", []string{"--format", "json"}, false, false, "json", false},
		{"no-audit-log flag", []string{"--no-audit-log"}, false, false, "pretty", true},
		{"multiple flags", []string{"-v", "--dry-run", "--format", "json"}, true, true, "json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbose = false
			dryRun = false
			outputFormat = "pretty"
			noAuditLog = false

			cmd.SetArgs(tt.args)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.Run = func(cmd *cobra.Command, args []string) {}

			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			if verbose != tt.wantVerbose {
				t.Errorf("verbose = %v, want %v", verbose, tt.wantVerbose)
			}
			if dryRun != tt.wantDryRun {
				t.Errorf("dryRun = %v, want %v", dryRun, tt.wantDryRun)
			}
			if outputFormat != tt.wantFormat {
				t.Errorf("outputFormat = %q, want %q", outputFormat, tt.wantFormat)
			}
			if noAuditLog != tt.wantNoAudit {
				t.Errorf("noAuditLog = %v, want %v", noAuditLog, tt.wantNoAudit)
			}
		})
	}
}

func TestRootCmdHasExpectedSubcommands(t *testing.T) {
	expected := []string{"init", "validate", "completion", "test", "explain", "packs", "allow-once", "doctor"}

	for _, name := range expected {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCmdUsageContainsDescription(t *testing.T) {
	if rootCmd.Short == "" {
		t.Error("rootCmd.Short should not be empty")
	}
	if rootCmd.Long == "" {
		t.Error("rootCmd.Long should not be empty")
	}
	if rootCmd.Use != "dcg" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "dcg")
	}
}
