package cmd

import (
	"fmt"

	"github.com/dgerlanc/dcg/internal/config"
	"github.com/dgerlanc/dcg/internal/packs"
	"github.com/dgerlanc/dcg/internal/packs/catalog"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate config.toml and force-compile every shipped pattern",
	Long: `Validate checks that config.toml parses, then eagerly compiles every
pattern in the shipped pack catalog, reporting any that fail.

This is useful for:
- Checking that your config.toml syntax is correct
- Catching a broken pattern before it silently fails open at runtime`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("failed to load configuration")
	}
	if err := config.InitError(); err != nil {
		return fmt.Errorf("config.toml failed to parse: %w", err)
	}
	fmt.Println("config.toml is valid.")

	all := catalog.All()
	reg := packs.NewRegistry(all, effectivePackPrefixesForCLI(cfg))
	fmt.Printf("%d pack(s) enabled of %d shipped.\n\n", len(reg.EnabledPacksInOrder()), len(all))

	failed := 0
	for _, p := range all {
		if err := p.Validate(); err != nil {
			failed++
			fmt.Printf("  FAIL %s: %v\n", p.ID, err)
			continue
		}
		for ruleID, err := range p.CompileErrors() {
			failed++
			fmt.Printf("  FAIL %s: %v\n", ruleID, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d validation failure(s)", failed)
	}
	fmt.Println("all patterns compiled successfully.")
	return nil
}
