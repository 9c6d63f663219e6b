// Package constants defines shared constants used across the writeguard codebase.
package constants

import "os"

// File permissions
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Environment variables
const EnvConfigDir = "WRITEGUARD_CONFIG"

// Application paths
const (
	AppName            = "writeguard"
	XDGConfigSubdir    = ".config"
	XDGDataSubdir      = ".local/share"
	ClaudeConfigDir    = ".claude"
	ClaudeSettingsFile = "settings.json"
	ConfigFileName     = "config.toml"
	AuditLogFileName   = "audit.log"
)

// DefaultAuditMaxSizeMB is the size above which the audit log is rotated.
const DefaultAuditMaxSizeMB = 10
