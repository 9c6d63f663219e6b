package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgerlanc/writeguard/internal/config"
	"github.com/dgerlanc/writeguard/internal/constants"
	"github.com/dgerlanc/writeguard/internal/settings"
	"github.com/spf13/cobra"
)

var (
	initForce          bool
	initConfigOnly     bool
	initClaudeSettings string
	initBash           bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config and register the hook",
	Long: `Init writes a commented config file to ~/.config/writeguard/config.toml (or
the directory in WRITEGUARD_CONFIG) and registers writeguard as a PreToolUse
hook in ~/.claude/settings.json.

An existing config file is left alone unless --force is given. Use
--config-only to skip the settings.json change, and --bash to also guard
shell redirections.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
	initCmd.Flags().BoolVar(&initConfigOnly, "config-only", false, "Only write the config file")
	initCmd.Flags().StringVar(&initClaudeSettings, "claude-settings", "", "Path to settings.json (default ~/.claude/settings.json)")
	initCmd.Flags().BoolVar(&initBash, "bash", false, "Also run on Bash commands")
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, constants.ConfigFileName)
	out := cmd.OutOrStdout()

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(out, "Config file already exists at %s (use --force to overwrite)\n", configPath)
	} else {
		if err := os.MkdirAll(configDir, constants.DirMode); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(configPath, config.GetDefaultConfig(), constants.FileMode); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		fmt.Fprintf(out, "Configuration written to: %s\n", configPath)
	}

	if initConfigOnly {
		return nil
	}

	settingsPath := initClaudeSettings
	if settingsPath == "" {
		settingsPath, err = settings.DefaultPath()
		if err != nil {
			return err
		}
	}

	matcher := settings.Matcher
	if initBash {
		matcher = settings.MatcherWithBash
	}
	change, err := settings.Install(settingsPath, matcher, constants.AppName)
	if err != nil {
		return fmt.Errorf("failed to configure %s: %w", settingsPath, err)
	}
	switch change {
	case settings.Added:
		fmt.Fprintf(out, "Registered PreToolUse hook in: %s\n", settingsPath)
	case settings.Widened:
		fmt.Fprintf(out, "Updated hook matcher to include %s in: %s\n", matcher, settingsPath)
	default:
		fmt.Fprintf(out, "Hook already registered in: %s\n", settingsPath)
	}

	fmt.Fprintf(out, "Run '%s validate' to verify your configuration.\n", constants.AppName)
	return nil
}
