// Package cmd implements the dcg CLI commands.
package cmd

import (
	"github.com/dgerlanc/dcg/internal/audit"
	"github.com/dgerlanc/dcg/internal/config"
	"github.com/dgerlanc/dcg/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose      bool
	dryRun       bool
	outputFormat string
	noAuditLog   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dcg",
	Short: "dcg - destructive command guard, a PreToolUse hook for AI coding agents",
	Long: `dcg is a pre-execution guard an AI coding agent's hook invokes before
every shell command, deciding Allow, Deny, or AllowOnce.

When called without arguments, it reads a JSON hook request from stdin
and writes a verdict to stdout per the PreToolUse protocol.

Usage in ~/.claude/settings.json:
  "hooks": {
    "PreToolUse": [{
      "matcher": "Bash",
      "hooks": [{"type": "command", "command": "dcg"}]
    }]
  }`,
	// Run the hook by default when no subcommand is given
	Run: runHook,
	// Silence usage on errors
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize before running any command
	cobra.OnInitialize(initApp)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Evaluate without writing the hook JSON response")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "pretty", "Output format: json or pretty")
	rootCmd.PersistentFlags().BoolVar(&noAuditLog, "no-audit-log", false, "Disable audit logging")
}

// initApp initializes the application (logger, config, audit).
func initApp() {
	logger.Init(logger.Options{Verbose: verbose})
	config.Init()
	audit.Init("", noAuditLog)
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// IsDryRun returns whether dry-run mode is enabled.
func IsDryRun() bool {
	return dryRun
}

// OutputFormat returns the requested output format ("json" or "pretty").
func OutputFormat() string {
	return outputFormat
}
