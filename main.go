// writeguard - PreToolUse hook that blocks writes of secret-like material
//
// The hook denies a file write when the target path is protected (.env,
// secrets/, *.pem, *.key, credentials.json) or the content contains
// secret-shaped text. Allowed writes produce no output.
//
// Usage in ~/.claude/settings.json:
//
//	"hooks": {
//	  "PreToolUse": [{
//	    "matcher": "Write|Edit|MultiEdit",
//	    "hooks": [{"type": "command", "command": "writeguard"}]
//	  }]
//	}
//
// Test:
//
//	echo '{"tool_name": "Write", "tool_input": {"file_path": ".env"}}' | writeguard
package main

import (
	"os"

	"github.com/dgerlanc/writeguard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
