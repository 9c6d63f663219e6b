// Package config handles configuration loading and parsing for writeguard.
//
// The config file is optional. Without it the hook runs with the built-in
// rule sets only and never touches the filesystem.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/dgerlanc/writeguard/internal/constants"
	"github.com/dgerlanc/writeguard/internal/logger"
	"github.com/dgerlanc/writeguard/internal/patterns"
	"github.com/dgerlanc/writeguard/internal/rules"
)

//go:embed config.toml
var defaultConfig []byte

// Config holds the compiled rule sets and audit settings.
type Config struct {
	// PathRules are protected-path rules: built-ins first, then extras from the file
	PathRules []patterns.Pattern
	// ContentRules are sensitive-content rules: built-ins first, then extras from the file
	ContentRules []patterns.Pattern
	Audit        AuditConfig
}

// AuditConfig controls the optional audit log.
type AuditConfig struct {
	Enabled   bool
	Path      string
	MaxSizeMB int
}

// fileConfig mirrors the TOML layout.
type fileConfig struct {
	Audit struct {
		Enabled   bool   `toml:"enabled"`
		Path      string `toml:"path"`
		MaxSizeMB int    `toml:"max_size_mb"`
	} `toml:"audit"`
	Paths   []ruleEntry `toml:"paths"`
	Content []ruleEntry `toml:"content"`
}

type ruleEntry struct {
	Name    string `toml:"name"`
	Pattern string `toml:"pattern"`
}

var (
	// globalConfig is the loaded configuration
	globalConfig *Config
	// configInitialized tracks whether config has been loaded
	configInitialized bool
	// initErr is the error from the last Init, if any
	initErr error
	// configPath is the file Init looked at
	configPath string
)

// GetConfigDir returns the config directory path.
// Uses WRITEGUARD_CONFIG env var if set, otherwise ~/.config/writeguard
func GetConfigDir() (string, error) {
	if dir := os.Getenv(constants.EnvConfigDir); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, constants.XDGConfigSubdir, constants.AppName), nil
}

// Defaults returns a Config holding only the built-in rules.
func Defaults() *Config {
	return &Config{
		PathRules:    rules.ProtectedPaths(),
		ContentRules: rules.SensitiveContent(),
		Audit:        AuditConfig{MaxSizeMB: constants.DefaultAuditMaxSizeMB},
	}
}

// LoadConfig parses TOML data and returns a Config with the extra rules
// appended after the built-in ones.
func LoadConfig(data []byte) (*Config, error) {
	var raw fileConfig
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg := Defaults()

	extraPaths, err := compileEntries(raw.Paths, rules.KindPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse paths: %w", err)
	}
	cfg.PathRules = append(cfg.PathRules, extraPaths...)

	extraContent, err := compileEntries(raw.Content, rules.KindContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	cfg.ContentRules = append(cfg.ContentRules, extraContent...)

	cfg.Audit.Enabled = raw.Audit.Enabled
	cfg.Audit.Path = raw.Audit.Path
	if raw.Audit.MaxSizeMB > 0 {
		cfg.Audit.MaxSizeMB = raw.Audit.MaxSizeMB
	}

	return cfg, nil
}

// compileEntries compiles extra rules with the flags of their rule set.
func compileEntries(entries []ruleEntry, kind rules.Kind) ([]patterns.Pattern, error) {
	var result []patterns.Pattern
	for i, e := range entries {
		if e.Pattern == "" {
			continue
		}
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("%s rule %d", kind, i+1)
		}
		p, err := patterns.Compile(e.Pattern, name, rules.Flags(kind))
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", e.Pattern, err)
		}
		result = append(result, p)
	}
	return result, nil
}

// Init loads configuration from the config file if one exists.
// If loading fails, it falls back to the built-in rules and records the error.
func Init() error {
	if configInitialized {
		return initErr
	}
	configInitialized = true

	configDir, err := GetConfigDir()
	if err != nil {
		logger.Warn("failed to get config dir, using built-in rules", "error", err)
		globalConfig = Defaults()
		initErr = err
		return err
	}

	configPath = filepath.Join(configDir, constants.ConfigFileName)
	configData, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("no config file, using built-in rules", "path", configPath)
		globalConfig = Defaults()
		return nil
	}
	if err != nil {
		logger.Warn("failed to read config file, using built-in rules", "path", configPath, "error", err)
		globalConfig = Defaults()
		initErr = fmt.Errorf("failed to read %s: %w", constants.ConfigFileName, err)
		return initErr
	}

	globalConfig, err = LoadConfig(configData)
	if err != nil {
		logger.Warn("failed to parse config, using built-in rules", "path", configPath, "error", err)
		globalConfig = Defaults()
		initErr = fmt.Errorf("failed to load config: %w", err)
		return initErr
	}

	logger.Debug("config loaded successfully",
		"path", configPath,
		"path_rules", len(globalConfig.PathRules),
		"content_rules", len(globalConfig.ContentRules))
	return nil
}

// Get returns the current configuration.
// If Init has not been called, it initializes first.
func Get() *Config {
	if !configInitialized {
		Init()
	}
	return globalConfig
}

// InitError returns the error recorded by the last Init, if any.
func InitError() error {
	return initErr
}

// GetConfigPath returns the config file path Init looked at.
func GetConfigPath() string {
	return configPath
}

// Reset resets the configuration state. Used for testing.
func Reset() {
	configInitialized = false
	globalConfig = nil
	initErr = nil
	configPath = ""
}

// GetDefaultConfig returns the embedded default configuration file.
func GetDefaultConfig() []byte {
	return defaultConfig
}
