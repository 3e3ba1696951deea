package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test CMD",
	Short: "Run the engine on CMD and print the verdict",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	command := strings.Join(args, " ")

	engine, err := buildEngine()
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	result := engine.Evaluate(command, invokingDir())
	view := newVerdictView(command, result.Verdict, result.DurationMs)
	return writeVerdict(os.Stdout, view)
}
