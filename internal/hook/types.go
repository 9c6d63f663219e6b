package hook

/*
Type Relationships in the hook package:

Data Flow:
  stdin (JSON from the host)
    → parseInput() → Input
      → Input.Requests() → []Request (one per write target)
        → Evaluate() → Decision (path rules, then content rules)
    → Result (returned to caller)
    → FormatDeny() → stdout, only when denied

Related packages:
  - config.Config: the ordered PathRules and ContentRules
  - patterns.FirstMatch: the first-match scan shared by both rule sets
  - audit.Entry: logged for each decision when the audit log is enabled
*/

import (
	"strings"

	"github.com/dgerlanc/writeguard/internal/rules"
)

// Tool names that get special handling. Every other tool name, including
// none at all, is treated as a direct file write.
const ToolNameBash = "Bash"

// DecisionDeny is the only decision ever written to stdout.
const DecisionDeny = "deny"

// Input is the hook invocation read from stdin. Every field is optional;
// values of the wrong JSON type read as empty.
type Input struct {
	SessionID     string
	Cwd           string
	HookEventName string
	ToolName      string
	ToolUseID     string
	ToolInput     ToolInputData
}

// ToolInputData is the tool_input object of the invocation.
type ToolInputData map[string]any

// String returns the named field if it holds a string.
func (t ToolInputData) String(name string) string {
	if t == nil {
		return ""
	}
	s, _ := t[name].(string)
	return s
}

// FilePath returns tool_input.file_path.
func (t ToolInputData) FilePath() string {
	return t.String("file_path")
}

// Content merges the possible content sources into the single text that is
// scanned: content if non-empty, else new_string, else the new_string of
// every entry in edits joined by newlines.
func (t ToolInputData) Content() string {
	if c := t.String("content"); c != "" {
		return c
	}
	if c := t.String("new_string"); c != "" {
		return c
	}

	edits, _ := t["edits"].([]any)
	var parts []string
	for _, e := range edits {
		edit, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := edit["new_string"].(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// Command returns tool_input.command (Bash tool only).
func (t ToolInputData) Command() string {
	return t.String("command")
}

// Request is one pending write: where it goes and what it contains.
type Request struct {
	FilePath string
	Content  string
}

// Decision is the outcome for a request. The zero value allows the write.
type Decision struct {
	Denied bool
	Kind   rules.Kind // which rule set matched
	Rule   string     // label of the matching rule
	Reason string
}

// Output is the deny payload written to stdout.
type Output struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// Result contains the outcome of processing one invocation.
type Result struct {
	ToolName   string
	FilePath   string // the path that was denied, or the first path examined
	Decision   Decision
	Output     string // deny JSON; empty means allow
	FailedOpen bool   // input could not be read or parsed
}
