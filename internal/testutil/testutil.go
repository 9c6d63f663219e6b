// Package testutil provides shared test utilities for writeguard tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgerlanc/writeguard/internal/audit"
	"github.com/dgerlanc/writeguard/internal/config"
	"github.com/dgerlanc/writeguard/internal/constants"
)

// SetupTestConfig points WRITEGUARD_CONFIG at a temporary directory, writes
// configContent there (nothing if empty) and loads it. Global config and
// audit state are reset when the test ends. Returns the config directory.
func SetupTestConfig(t testing.TB, configContent string) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv(constants.EnvConfigDir, tmpDir)

	if configContent != "" {
		configPath := filepath.Join(tmpDir, constants.ConfigFileName)
		if err := os.WriteFile(configPath, []byte(configContent), constants.FileMode); err != nil {
			t.Fatal(err)
		}
	}

	config.Reset()
	audit.Reset()
	config.Init()

	t.Cleanup(func() {
		config.Reset()
		audit.Reset()
	})
	return tmpDir
}

// ExtraRulesConfig adds one rule to each set.
const ExtraRulesConfig = `
[[paths]]
name = "terraform variables"
pattern = '\.tfvars$'

[[content]]
name = "GitHub token"
pattern = 'ghp_[A-Za-z0-9]{36}'
`
