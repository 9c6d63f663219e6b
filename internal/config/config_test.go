package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgerlanc/writeguard/internal/constants"
	"github.com/dgerlanc/writeguard/internal/logger"
	"github.com/dgerlanc/writeguard/internal/patterns"
	"github.com/dgerlanc/writeguard/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Len(t, cfg.PathRules, len(rules.ProtectedPaths()))
	assert.Len(t, cfg.ContentRules, len(rules.SensitiveContent()))
	assert.False(t, cfg.Audit.Enabled)
	assert.Equal(t, constants.DefaultAuditMaxSizeMB, cfg.Audit.MaxSizeMB)
}

func TestLoadConfigAppendsAfterBuiltins(t *testing.T) {
	data := []byte(`
[[paths]]
name = "ssh key"
pattern = 'id_rsa$'

[[content]]
name = "GitHub token"
pattern = 'ghp_[a-z0-9]{36}'
`)
	cfg, err := LoadConfig(data)
	require.NoError(t, err)

	builtinPaths := len(rules.ProtectedPaths())
	require.Len(t, cfg.PathRules, builtinPaths+1)
	assert.Equal(t, ".env file", cfg.PathRules[0].Name)
	assert.Equal(t, "ssh key", cfg.PathRules[builtinPaths].Name)

	builtinContent := len(rules.SensitiveContent())
	require.Len(t, cfg.ContentRules, builtinContent+1)
	assert.Equal(t, "GitHub token", cfg.ContentRules[builtinContent].Name)
}

func TestLoadConfigExtraRulesUseSetFlags(t *testing.T) {
	data := []byte(`
[[paths]]
name = "ssh key"
pattern = 'id_rsa$'

[[content]]
name = "token line"
pattern = '^token:'
`)
	cfg, err := LoadConfig(data)
	require.NoError(t, err)

	p, ok := patterns.FirstMatch("/home/me/.ssh/ID_RSA", cfg.PathRules)
	require.True(t, ok)
	assert.Equal(t, "ssh key", p.Name)

	p, ok = patterns.FirstMatch("first line\nTOKEN: abc", cfg.ContentRules)
	require.True(t, ok)
	assert.Equal(t, "token line", p.Name)
}

func TestLoadConfigUnnamedRule(t *testing.T) {
	cfg, err := LoadConfig([]byte("[[paths]]\npattern = 'foo'\n"))
	require.NoError(t, err)
	assert.Equal(t, "path rule 1", cfg.PathRules[len(cfg.PathRules)-1].Name)
}

func TestLoadConfigSkipsEmptyPattern(t *testing.T) {
	cfg, err := LoadConfig([]byte("[[content]]\nname = \"empty\"\n"))
	require.NoError(t, err)
	assert.Len(t, cfg.ContentRules, len(rules.SensitiveContent()))
}

func TestInitWarnsOnFallback(t *testing.T) {
	Reset()
	defer Reset()
	logger.Reset()
	defer logger.Reset()

	var buf bytes.Buffer
	logger.Init(logger.Options{Output: &buf})

	dir := t.TempDir()
	t.Setenv(constants.EnvConfigDir, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.ConfigFileName),
		[]byte("[[content]]\npattern = '(unclosed'\n"), constants.FileMode))

	assert.Error(t, Init())
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "using built-in rules")
}

func TestLoadConfigInvalidRegex(t *testing.T) {
	_, err := LoadConfig([]byte("[[paths]]\nname = \"bad\"\npattern = '(unclosed'\n"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	_, err := LoadConfig([]byte("[[paths"))
	assert.Error(t, err)
}

func TestLoadConfigAudit(t *testing.T) {
	cfg, err := LoadConfig([]byte("[audit]\nenabled = true\npath = \"/tmp/a.log\"\nmax_size_mb = 3\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, "/tmp/a.log", cfg.Audit.Path)
	assert.Equal(t, 3, cfg.Audit.MaxSizeMB)
}

func TestDefaultConfigParses(t *testing.T) {
	cfg, err := LoadConfig(GetDefaultConfig())
	require.NoError(t, err)
	assert.False(t, cfg.Audit.Enabled)
	assert.Len(t, cfg.PathRules, len(rules.ProtectedPaths()))
}

func TestInitWithoutConfigFile(t *testing.T) {
	Reset()
	defer Reset()

	dir := t.TempDir()
	t.Setenv(constants.EnvConfigDir, dir)

	require.NoError(t, Init())
	assert.NoError(t, InitError())
	assert.Len(t, Get().PathRules, len(rules.ProtectedPaths()))

	// Init must not create anything
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInitWithConfigFile(t *testing.T) {
	Reset()
	defer Reset()

	dir := t.TempDir()
	t.Setenv(constants.EnvConfigDir, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.ConfigFileName),
		[]byte("[[paths]]\nname = \"x\"\npattern = 'x'\n"), constants.FileMode))

	require.NoError(t, Init())
	assert.Equal(t, filepath.Join(dir, constants.ConfigFileName), GetConfigPath())
	assert.Len(t, Get().PathRules, len(rules.ProtectedPaths())+1)
}

func TestInitFallsBackOnInvalidConfig(t *testing.T) {
	Reset()
	defer Reset()

	dir := t.TempDir()
	t.Setenv(constants.EnvConfigDir, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.ConfigFileName),
		[]byte("not = [valid"), constants.FileMode))

	assert.Error(t, Init())
	assert.Error(t, InitError())

	cfg := Get()
	require.NotNil(t, cfg)
	assert.Len(t, cfg.PathRules, len(rules.ProtectedPaths()))
	assert.Len(t, cfg.ContentRules, len(rules.SensitiveContent()))
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv(constants.EnvConfigDir, "/custom/dir")
	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/dir", dir)

	t.Setenv(constants.EnvConfigDir, "")
	dir, err = GetConfigDir()
	require.NoError(t, err)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "writeguard"), dir)
}
