package hook

import (
	"encoding/json"
	"errors"
	"path"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrUnparseable is returned when a shell command cannot be parsed.
var ErrUnparseable = errors.New("unparseable command")

// parseInput decodes the hook invocation. Anything other than a JSON object
// is an error; missing or mistyped fields are not.
func parseInput(data []byte) (Input, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Input{}, err
	}
	if raw == nil {
		return Input{}, errors.New("input is not an object")
	}

	str := func(name string) string {
		s, _ := raw[name].(string)
		return s
	}
	toolInput, _ := raw["tool_input"].(map[string]any)

	return Input{
		SessionID:     str("session_id"),
		Cwd:           str("cwd"),
		HookEventName: str("hook_event_name"),
		ToolName:      str("tool_name"),
		ToolUseID:     str("tool_use_id"),
		ToolInput:     ToolInputData(toolInput),
	}, nil
}

// Requests returns the writes described by the input. The file_path and
// content fields always form the first request. For Bash, one more request
// follows per output redirection or tee target, each carrying the whole
// command as content. If the command cannot be parsed, the direct request is
// still returned along with ErrUnparseable.
func (in Input) Requests() ([]Request, error) {
	direct := Request{
		FilePath: in.ToolInput.FilePath(),
		Content:  in.ToolInput.Content(),
	}
	if in.ToolName != ToolNameBash {
		return []Request{direct}, nil
	}

	var reqs []Request
	if direct.FilePath != "" || direct.Content != "" {
		reqs = append(reqs, direct)
	}

	cmd := in.ToolInput.Command()
	targets, err := WriteTargets(cmd)
	if err != nil {
		return reqs, err
	}
	for _, t := range targets {
		reqs = append(reqs, Request{FilePath: t, Content: cmd})
	}
	return reqs, nil
}

// WriteTargets returns the files a shell command writes to through output
// redirections (>, >>, >|, &>, &>>, >&file) or tee arguments, in source order.
// Returns ErrUnparseable if the command cannot be parsed.
func WriteTargets(cmd string) ([]string, error) {
	if strings.TrimSpace(cmd) == "" {
		return nil, nil
	}

	parser := syntax.NewParser()
	prog, err := parser.Parse(strings.NewReader(cmd), "")
	if err != nil {
		return nil, ErrUnparseable
	}

	printer := syntax.NewPrinter()
	var targets []string
	syntax.Walk(prog, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.Redirect:
			if n.Word == nil || !isWriteRedirect(n) {
				return true
			}
			if t := wordText(n.Word, printer); t != "" {
				targets = append(targets, t)
			}
		case *syntax.CallExpr:
			targets = append(targets, teeTargets(n, printer)...)
		}
		return true
	})

	return targets, nil
}

// isWriteRedirect reports whether r sends output to a file.
func isWriteRedirect(r *syntax.Redirect) bool {
	switch r.Op {
	case syntax.RdrOut, syntax.AppOut, syntax.ClbOut, syntax.RdrAll, syntax.AppAll:
		return true
	case syntax.DplOut:
		// >&2 and >&- duplicate or close descriptors; >&file writes a file
		lit := r.Word.Lit()
		return lit != "" && lit != "-" && strings.Trim(lit, "0123456789") != ""
	}
	return false
}

// teeTargets returns the file arguments of a tee invocation.
func teeTargets(call *syntax.CallExpr, printer *syntax.Printer) []string {
	if len(call.Args) < 2 || path.Base(call.Args[0].Lit()) != "tee" {
		return nil
	}
	var targets []string
	for _, arg := range call.Args[1:] {
		t := wordText(arg, printer)
		if t == "" || strings.HasPrefix(t, "-") {
			continue
		}
		targets = append(targets, t)
	}
	return targets
}

// wordText flattens a shell word. Quotes are removed; expansions such as
// $HOME are kept verbatim so path rules still see the literal parts.
func wordText(w *syntax.Word, printer *syntax.Printer) string {
	var sb strings.Builder
	for _, part := range w.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, dp := range p.Parts {
				if lit, ok := dp.(*syntax.Lit); ok {
					sb.WriteString(lit.Value)
					continue
				}
				printer.Print(&sb, dp)
			}
		default:
			printer.Print(&sb, part)
		}
	}
	return sb.String()
}
