package cmd

import (
	"fmt"

	"github.com/dgerlanc/writeguard/internal/audit"
	"github.com/dgerlanc/writeguard/internal/config"
	"github.com/dgerlanc/writeguard/internal/patterns"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and show rules in evaluation order",
	Long: `Validate loads the writeguard configuration file and lists every rule in the
order it is evaluated: protected-path rules first, then sensitive-content rules.
The first matching rule decides.

This is useful for:
- Checking that your config.toml syntax and regexes are correct
- Seeing where your extra rules sit relative to the built-ins`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := config.InitError(); err != nil {
		return fmt.Errorf("invalid configuration at %s: %w", config.GetConfigPath(), err)
	}
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("failed to load configuration")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration valid!")
	if path := config.GetConfigPath(); path != "" {
		fmt.Fprintf(out, "Config file: %s\n", path)
	}
	fmt.Fprintln(out)

	printRules(cmd, "Protected path rules", cfg.PathRules)
	fmt.Fprintln(out)
	printRules(cmd, "Sensitive content rules", cfg.ContentRules)
	fmt.Fprintln(out)

	if !cfg.Audit.Enabled {
		fmt.Fprintln(out, "Audit log: disabled")
		return nil
	}
	fmt.Fprintf(out, "Audit log: enabled (max %d MB)\n", cfg.Audit.MaxSizeMB)
	path, err := audit.ResolvePath(cfg.Audit.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve audit log path: %w", err)
	}
	fmt.Fprintf(out, "  Path: %s\n", path)
	archives, err := audit.Archives(path)
	if err != nil {
		return fmt.Errorf("failed to list audit archives: %w", err)
	}
	fmt.Fprintf(out, "  Rotated archives: %d\n", len(archives))
	for _, a := range archives {
		fmt.Fprintf(out, "    %s\n", a)
	}
	return nil
}

func printRules(cmd *cobra.Command, title string, rules []patterns.Pattern) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", title, len(rules))
	for i, p := range rules {
		fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s: %s\n", i+1, p.Name, p.Source)
	}
}
