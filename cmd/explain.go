package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dgerlanc/dcg/internal/hook"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain CMD",
	Short: "Print the step-by-step decision trace for CMD",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

type explainView struct {
	Command string      `json:"command"`
	Steps   []hook.Step `json:"steps"`
	Verdict verdictView `json:"verdict"`
}

func runExplain(cmd *cobra.Command, args []string) error {
	command := strings.Join(args, " ")

	engine, err := buildEngine()
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	result := engine.Evaluate(command, invokingDir())
	view := explainView{
		Command: command,
		Steps:   result.Steps,
		Verdict: newVerdictView(command, result.Verdict, result.DurationMs),
	}

	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	for i, step := range view.Steps {
		fmt.Printf("%2d. %-18s %s\n", i+1, step.Name, step.Detail)
	}
	fmt.Println()
	return writeVerdict(os.Stdout, view.Verdict)
}
