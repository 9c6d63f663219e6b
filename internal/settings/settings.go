// Package settings registers writeguard as a PreToolUse hook in the host's
// settings.json.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgerlanc/writeguard/internal/constants"
)

// EventPreToolUse is the hook event writeguard runs on.
const EventPreToolUse = "PreToolUse"

// Matcher selects the file-writing tools. Bash is added with --bash.
const (
	Matcher         = "Write|Edit|MultiEdit"
	MatcherWithBash = "Write|Edit|MultiEdit|Bash"
)

// DefaultPath returns ~/.claude/settings.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, constants.ClaudeConfigDir, constants.ClaudeSettingsFile), nil
}

// Load reads settings from path. A missing file yields empty settings.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	settings := map[string]any{}
	if len(data) == 0 {
		return settings, nil
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return settings, nil
}

// Save writes settings to path with two-space indentation.
func Save(path string, settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), constants.FileMode); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Change describes what AddHook did to the settings.
type Change int

const (
	// Unchanged means the hook was already registered for every requested tool.
	Unchanged Change = iota
	// Added means a new PreToolUse entry was appended.
	Added
	// Widened means tools were added to the matcher of the existing entry.
	Widened
)

// IsHookPresent reports whether any PreToolUse hook runs command.
func IsHookPresent(settings map[string]any, command string) bool {
	return findEntry(settings, command) != nil
}

// findEntry returns the PreToolUse entry that runs command, or nil.
func findEntry(settings map[string]any, command string) map[string]any {
	hooks, _ := settings["hooks"].(map[string]any)
	entries, _ := hooks[EventPreToolUse].([]any)
	for _, e := range entries {
		entry, _ := e.(map[string]any)
		inner, _ := entry["hooks"].([]any)
		for _, h := range inner {
			hook, _ := h.(map[string]any)
			if cmd, _ := hook["command"].(string); cmd == command {
				return entry
			}
		}
	}
	return nil
}

// mergeMatcher adds the tools of want missing from have, keeping the order
// of have. Both are "|"-separated tool lists; an empty or "*" matcher
// already matches every tool.
func mergeMatcher(have, want string) (string, bool) {
	if have == "" || have == "*" {
		return have, false
	}
	tools := strings.Split(have, "|")
	seen := make(map[string]bool, len(tools))
	for _, t := range tools {
		seen[t] = true
	}
	changed := false
	for _, t := range strings.Split(want, "|") {
		if t != "" && !seen[t] {
			tools = append(tools, t)
			seen[t] = true
			changed = true
		}
	}
	return strings.Join(tools, "|"), changed
}

// AddHook registers command for matcher. If command is already registered,
// missing tools are merged into its matcher; tools are never removed.
func AddHook(settings map[string]any, matcher, command string) (Change, error) {
	if entry := findEntry(settings, command); entry != nil {
		have, _ := entry["matcher"].(string)
		merged, changed := mergeMatcher(have, matcher)
		if !changed {
			return Unchanged, nil
		}
		entry["matcher"] = merged
		return Widened, nil
	}

	hooks, ok := settings["hooks"].(map[string]any)
	if !ok {
		if settings["hooks"] != nil {
			return Unchanged, errors.New(`settings "hooks" is not an object`)
		}
		hooks = map[string]any{}
		settings["hooks"] = hooks
	}

	entries, ok := hooks[EventPreToolUse].([]any)
	if !ok && hooks[EventPreToolUse] != nil {
		return Unchanged, fmt.Errorf("settings hooks.%s is not a list", EventPreToolUse)
	}

	hooks[EventPreToolUse] = append(entries, map[string]any{
		"matcher": matcher,
		"hooks": []any{
			map[string]any{"type": "command", "command": command},
		},
	})
	return Added, nil
}

// Install loads path, registers command and saves. Nothing is written when
// the result is Unchanged.
func Install(path, matcher, command string) (Change, error) {
	s, err := Load(path)
	if err != nil {
		return Unchanged, err
	}
	change, err := AddHook(s, matcher, command)
	if err != nil || change == Unchanged {
		return Unchanged, err
	}
	return change, Save(path, s)
}
