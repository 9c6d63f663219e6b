// Package audit provides the optional audit log of write decisions.
//
// The host may run several hook processes at once, so every write takes an
// exclusive file lock. When the log grows past its size limit it is
// compressed with zstd next to the original and truncated.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgerlanc/writeguard/internal/constants"
	"github.com/dgerlanc/writeguard/internal/logger"
	"github.com/gofrs/flock"
	"github.com/klauspost/compress/zstd"
)

// Decisions
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// Decision codes
const (
	CodeProtectedPath    = "PROTECTED_PATH"
	CodeSensitiveContent = "SENSITIVE_CONTENT"
	CodeUnparseable      = "UNPARSEABLE"
	CodeNoMatch          = "NO_MATCH"
)

// Version is the audit entry format version.
const Version = 1

// TimestampFormat is the format used for audit log timestamps.
const TimestampFormat = "2006-01-02T15:04:05.0Z07:00"

// rotatedSuffixFormat names compressed logs: audit.log.20260102T150405.000000000Z.zst
const rotatedSuffixFormat = "20060102T150405.000000000Z"

// Entry is one audit log line. File content is never recorded.
type Entry struct {
	Version    int     `json:"version"`
	ToolUseID  string  `json:"tool_use_id"`
	SessionID  string  `json:"session_id"`
	Timestamp  string  `json:"timestamp"`
	DurationMs float64 `json:"duration_ms"`
	ToolName   string  `json:"tool_name"`
	FilePath   string  `json:"file_path"`
	Decision   string  `json:"decision"`
	Code       string  `json:"code"`
	Rule       string  `json:"rule,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	Cwd        string  `json:"cwd"`
}

// Options configures Init.
type Options struct {
	// Path is the log file; empty means DefaultLogPath
	Path string
	// MaxBytes triggers rotation once the file reaches this size; 0 disables rotation
	MaxBytes int64
	// Disable turns audit logging off
	Disable bool
}

var (
	mu       sync.Mutex
	enabled  bool
	logPath  string
	maxBytes int64
)

// DefaultLogPath returns the default audit log path (~/.local/share/writeguard/audit.log)
func DefaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, constants.XDGDataSubdir, constants.AppName, constants.AuditLogFileName), nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// ResolvePath expands a leading "~/" in path; an empty path resolves to
// DefaultLogPath.
func ResolvePath(path string) (string, error) {
	if path == "" {
		return DefaultLogPath()
	}
	return expandHome(path), nil
}

// Init initializes the audit log.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	if opts.Disable {
		enabled = false
		return nil
	}

	path, err := ResolvePath(opts.Path)
	if err != nil {
		logger.Debug("failed to get default audit log path", "error", err)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		logger.Debug("failed to create audit log directory", "error", err)
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	// Fail here rather than on the first Log call if the file is not writable.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		logger.Debug("failed to open audit log file", "error", err)
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	f.Close()

	logPath = path
	maxBytes = opts.MaxBytes
	enabled = true
	logger.Debug("audit logging initialized", "path", path, "max_bytes", maxBytes)
	return nil
}

// Log writes an entry to the audit log.
// If audit logging is not initialized or disabled, this is a no-op.
func Log(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return nil
	}

	entry.Version = Version
	entry.Timestamp = time.Now().UTC().Format(TimestampFormat)

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Debug("failed to marshal audit entry", "error", err)
		return err
	}

	lock := flock.New(logPath + ".lock")
	if err := lock.Lock(); err != nil {
		logger.Debug("failed to lock audit log", "error", err)
		return fmt.Errorf("failed to lock audit log: %w", err)
	}
	defer lock.Unlock()

	if maxBytes > 0 {
		if info, err := os.Stat(logPath); err == nil && info.Size() >= maxBytes {
			if err := rotate(logPath, time.Now().UTC()); err != nil {
				logger.Debug("failed to rotate audit log", "error", err)
			}
		}
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		logger.Debug("failed to open audit log file", "error", err)
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		logger.Debug("failed to write audit entry", "error", err)
		return err
	}
	return nil
}

// rotate compresses path into a timestamped .zst file and truncates path.
// The caller must hold the file lock.
func rotate(path string, now time.Time) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dstPath := path + "." + now.Format(rotatedSuffixFormat) + ".zst"
	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, constants.FileMode)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(dst)
	if err != nil {
		dst.Close()
		return err
	}
	if _, err := io.Copy(enc, src); err != nil {
		enc.Close()
		dst.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}

	logger.Info("rotated audit log", "archive", dstPath)
	return os.Truncate(path, 0)
}

// Archives lists the rotated logs for path, oldest first.
func Archives(path string) ([]string, error) {
	return filepath.Glob(path + ".*.zst")
}

// Path returns the active audit log path, or "" when disabled.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return ""
	}
	return logPath
}

// IsEnabled returns whether audit logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Reset resets the audit state. Used for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
	logPath = ""
	maxBytes = 0
}

// Logger writes entries through the package-level audit log.
type Logger struct{}

// Log implements the hook's auditor interface.
func (Logger) Log(entry Entry) error {
	return Log(entry)
}
