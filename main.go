// dcg (destructive command guard) is a PreToolUse hook that decides
// whether to allow, deny, or single-shot-allow a Bash command before an
// AI coding agent runs it.
//
// Usage in ~/.claude/settings.json:
//
//	"hooks": {
//	  "PreToolUse": [{
//	    "matcher": "Bash",
//	    "hooks": [{"type": "command", "command": "dcg"}]
//	  }]
//	}
//
// Test:
//
//	echo '{"tool_name": "Bash", "tool_input": {"command": "rm -rf /"}}' | dcg
package main

import (
	"os"

	"github.com/dgerlanc/dcg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
