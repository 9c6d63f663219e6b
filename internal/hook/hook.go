// Package hook implements the pre-write guard: it reads a pending write from
// the host, checks it against the protected-path and sensitive-content rules,
// and produces a deny payload or nothing.
package hook

import (
	"io"
	"time"

	"github.com/dgerlanc/writeguard/internal/audit"
	"github.com/dgerlanc/writeguard/internal/config"
	"github.com/dgerlanc/writeguard/internal/logger"
	"github.com/dgerlanc/writeguard/internal/rules"
)

// Auditor records decisions. audit.Logger is the production implementation.
type Auditor interface {
	Log(entry audit.Entry) error
}

// Processor evaluates invocations against one configuration.
type Processor struct {
	cfg     *config.Config
	auditor Auditor
}

// New returns a Processor. A nil auditor disables audit logging.
func New(cfg *config.Config, auditor Auditor) *Processor {
	if cfg == nil {
		cfg = config.Defaults()
	}
	return &Processor{cfg: cfg, auditor: auditor}
}

// Process reads an invocation using the global config and audit log and
// returns the decision.
func Process(r io.Reader) Result {
	return New(config.Get(), audit.Logger{}).Process(r)
}

// Process reads an invocation and returns the decision.
//
// The guard fails open: if the input cannot be read or parsed, or if
// evaluation panics, the write is allowed and no output is produced.
func (p *Processor) Process(r io.Reader) (result Result) {
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("recovered from panic, allowing write", "panic", rec)
			result = Result{FailedOpen: true}
		}
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		logger.Debug("failed to read input, allowing write", "error", err)
		result = Result{FailedOpen: true}
		p.logAudit(Input{}, result, start)
		return result
	}

	input, err := parseInput(data)
	if err != nil {
		logger.Debug("failed to decode input, allowing write", "error", err)
		result = Result{FailedOpen: true}
		p.logAudit(Input{}, result, start)
		return result
	}

	log := logger.With("tool", input.ToolName, "session", input.SessionID)

	reqs, parseErr := input.Requests()
	if parseErr != nil {
		log.Debug("failed to parse command", "command", input.ToolInput.Command(), "error", parseErr)
	}
	log.Debug("processing write", "requests", len(reqs))

	result = Result{ToolName: input.ToolName}
	if len(reqs) > 0 {
		result.FilePath = reqs[0].FilePath
	}

	decision, idx := EvaluateAll(reqs, p.cfg)
	switch {
	case decision.Denied:
		result.FilePath = reqs[idx].FilePath
		result.Decision = decision
		result.Output = FormatDeny(decision.Reason)
		log.Debug("denied", "path", result.FilePath, "kind", decision.Kind, "rule", decision.Rule)
	case parseErr != nil:
		result.FailedOpen = true
		log.Debug("allowing write with unparseable command", "path", result.FilePath)
	default:
		log.Debug("allowed", "path", result.FilePath)
	}

	p.logAudit(input, result, start)
	return result
}

// logAudit records a decision. Audit failures never change the decision.
func (p *Processor) logAudit(input Input, result Result, start time.Time) {
	if p.auditor == nil {
		return
	}

	entry := audit.Entry{
		SessionID:  input.SessionID,
		ToolUseID:  input.ToolUseID,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		ToolName:   input.ToolName,
		FilePath:   result.FilePath,
		Decision:   audit.DecisionAllow,
		Code:       audit.CodeNoMatch,
		Cwd:        input.Cwd,
	}
	switch {
	case result.FailedOpen:
		entry.Code = audit.CodeUnparseable
	case result.Decision.Denied:
		entry.Decision = audit.DecisionDeny
		entry.Rule = result.Decision.Rule
		entry.Reason = result.Decision.Reason
		entry.Code = audit.CodeSensitiveContent
		if result.Decision.Kind == rules.KindPath {
			entry.Code = audit.CodeProtectedPath
		}
	}

	if err := p.auditor.Log(entry); err != nil {
		logger.Debug("failed to write audit entry", "error", err)
	}
}
