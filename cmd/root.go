// Package cmd implements the CLI commands for writeguard.
package cmd

import (
	"github.com/dgerlanc/writeguard/internal/audit"
	"github.com/dgerlanc/writeguard/internal/config"
	"github.com/dgerlanc/writeguard/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	dryRun     bool
	auditLog   string
	noAuditLog bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "writeguard",
	Short: "Pre-write hook that blocks secrets from being written to disk",
	Long: `writeguard is a PreToolUse hook that inspects a pending file write and denies
it when the target is a protected file (.env, secrets/, *.pem, *.key,
credentials.json) or the content looks like a secret (API keys, passwords,
private keys, AWS credentials).

When called without arguments, it reads the hook JSON from stdin. A denied
write prints {"decision":"deny","reason":"..."} to stdout; an allowed write
prints nothing. The exit status is always 0.

Usage in ~/.claude/settings.json:
  "hooks": {
    "PreToolUse": [{
      "matcher": "Write|Edit|MultiEdit",
      "hooks": [{"type": "command", "command": "writeguard"}]
    }]
  }`,
	// Run the hook by default when no subcommand is given
	Run:          runHook,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initApp)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging to stderr)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print the decision to stderr instead of JSON to stdout")
	rootCmd.PersistentFlags().StringVar(&auditLog, "audit-log", "", "Append decisions to this audit log file")
	rootCmd.PersistentFlags().BoolVar(&noAuditLog, "no-audit-log", false, "Disable audit logging even if enabled in config")
}

// initApp initializes the application (logger, config, audit)
func initApp() {
	logger.Init(logger.Options{Verbose: verbose})

	// Config errors fall back to the built-in rules; validate reports them.
	config.Init()

	initAudit(config.Get())
}

// initAudit enables the audit log when requested by flag or config.
func initAudit(cfg *config.Config) {
	path := auditLog
	enabled := auditLog != "" || cfg.Audit.Enabled
	if path == "" {
		path = cfg.Audit.Path
	}

	err := audit.Init(audit.Options{
		Path:     path,
		MaxBytes: int64(cfg.Audit.MaxSizeMB) * 1024 * 1024,
		Disable:  noAuditLog || !enabled,
	})
	if err != nil {
		logger.Debug("audit log unavailable", "error", err)
	}
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// IsDryRun returns whether dry-run mode is enabled
func IsDryRun() bool {
	return dryRun
}
