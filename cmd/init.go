package cmd

import (
	"fmt"
	"os"

	"github.com/dgerlanc/dcg/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default dcg configuration file",
	Long: `Init writes a default config.toml with every pack enabled and heredoc
scanning on, to ~/.config/dcg/config.toml (or DCG_CONFIG, if set).

Use --force to overwrite an existing configuration file.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
}

const defaultConfigTemplate = `# dcg configuration (see "dcg doctor" and "dcg packs" to inspect the
# effective settings).

[packs]
# Pack ids or dotted category prefixes to enable. Empty/omitted enables
# every shipped pack.
enabled = []

[heredoc]
enabled = true
timeout_ms = 40
fallback_on_error = true
languages = ["shell", "python", "ruby", "js", "perl"]
`

func runInit(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if _, err := config.EnsureDir(); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	fmt.Printf("Configuration written to: %s\n", path)
	fmt.Println("Run 'dcg validate' to verify it, or 'dcg packs' to see what's enabled.")
	return nil
}
