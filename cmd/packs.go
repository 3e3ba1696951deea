package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dgerlanc/dcg/internal/config"
	"github.com/dgerlanc/dcg/internal/constants"
	"github.com/dgerlanc/dcg/internal/packs"
	"github.com/dgerlanc/dcg/internal/packs/catalog"
	"github.com/spf13/cobra"
)

var (
	packsEnabledOnly bool
	packsValidate    bool
)

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "List packs, or force-compile every pattern with --validate",
	RunE:  runPacks,
}

func init() {
	rootCmd.AddCommand(packsCmd)
	packsCmd.Flags().BoolVar(&packsEnabledOnly, "enabled", false, "List only enabled packs")
	packsCmd.Flags().BoolVar(&packsValidate, "validate", false, "Force-compile every pattern and report errors")
}

type packView struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Enabled     bool   `json:"enabled"`
	Safe        int    `json:"safe_patterns"`
	Destructive int    `json:"destructive_patterns"`
}

func runPacks(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	all := catalog.All()
	reg := packs.NewRegistry(all, effectivePackPrefixesForCLI(cfg))

	if packsValidate {
		return runPacksValidate(all)
	}

	enabled := make(map[string]bool)
	for _, p := range reg.EnabledPacksInOrder() {
		enabled[p.ID] = true
	}

	views := make([]packView, 0, len(all))
	for _, p := range reg.All() {
		if packsEnabledOnly && !enabled[p.ID] {
			continue
		}
		views = append(views, packView{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Enabled:     enabled[p.ID],
			Safe:        len(p.Safe),
			Destructive: len(p.Destructive),
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })

	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}
	for _, v := range views {
		status := "disabled"
		if v.Enabled {
			status = "enabled"
		}
		fmt.Printf("%-28s %-9s safe=%-3d destructive=%-3d %s\n", v.ID, status, v.Safe, v.Destructive, v.DisplayName)
	}
	return nil
}

func runPacksValidate(all []*packs.Pack) error {
	failed := false
	for _, p := range all {
		if err := p.Validate(); err != nil {
			failed = true
			fmt.Fprintf(os.Stderr, "%s: %v\n", p.ID, err)
			continue
		}
		for ruleID, err := range p.CompileErrors() {
			failed = true
			fmt.Fprintf(os.Stderr, "%s: compile error: %v\n", ruleID, err)
		}
	}
	if failed {
		return fmt.Errorf("validation failed")
	}
	fmt.Println("all packs valid")
	return nil
}

func effectivePackPrefixesForCLI(cfg *config.Config) []string {
	if v := os.Getenv(constants.EnvPacks); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	if cfg == nil {
		return nil
	}
	return cfg.EnabledPackPrefixes
}
