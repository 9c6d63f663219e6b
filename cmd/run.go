package cmd

import (
	"fmt"

	"github.com/dgerlanc/writeguard/internal/hook"
	"github.com/spf13/cobra"
)

// runHook is the default command: read the invocation from stdin and write
// the deny payload, if any, to stdout. It never returns an error so the host
// always sees a successful exit.
func runHook(cmd *cobra.Command, args []string) {
	result := hook.Process(cmd.InOrStdin())

	if dryRun {
		target := result.FilePath
		if target == "" {
			target = "(no path)"
		}
		switch {
		case result.FailedOpen:
			fmt.Fprintf(cmd.ErrOrStderr(), "ALLOWED: %s (unparseable input)\n", target)
		case result.Decision.Denied:
			fmt.Fprintf(cmd.ErrOrStderr(), "DENIED: %s (reason: %s)\n", target, result.Decision.Reason)
		default:
			fmt.Fprintf(cmd.ErrOrStderr(), "ALLOWED: %s\n", target)
		}
		return
	}

	// Allowed writes produce no output
	if result.Output != "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.Output)
	}
}
