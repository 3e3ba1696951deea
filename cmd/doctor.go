package cmd

import (
	"fmt"
	"os"

	"github.com/dgerlanc/dcg/internal/config"
	"github.com/dgerlanc/dcg/internal/packs/catalog"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run an environment self-check",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ok := true
	check := func(name string, passed bool, detail string) {
		status := "ok"
		if !passed {
			status = "FAIL"
			ok = false
		}
		fmt.Printf("[%s] %-22s %s\n", status, name, detail)
	}

	path, err := config.Path()
	check("config path", err == nil, path)

	cfg := config.Get()
	check("config loaded", cfg != nil, fmt.Sprintf("heredoc=%v", cfg != nil && cfg.Heredoc.Enabled))
	if initErr := config.InitError(); initErr != nil {
		check("config parse", false, initErr.Error())
	} else {
		check("config parse", true, "no errors")
	}

	failed := 0
	for _, p := range catalog.All() {
		if err := p.Validate(); err != nil {
			failed++
			continue
		}
		if len(p.CompileErrors()) > 0 {
			failed++
		}
	}
	check("pack catalog", failed == 0, fmt.Sprintf("%d pack(s) failing validation/compile", failed))

	pendingPath, err := pendingStorePath()
	check("pending store path", err == nil, pendingPath)
	activePath, err := activeStorePath()
	check("allow-once store path", err == nil, activePath)

	if !ok {
		os.Exit(1)
	}
	return nil
}
