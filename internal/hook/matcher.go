package hook

import (
	"github.com/dgerlanc/writeguard/internal/config"
	"github.com/dgerlanc/writeguard/internal/patterns"
	"github.com/dgerlanc/writeguard/internal/rules"
)

// Evaluate decides a single request. Path rules are checked before content
// rules and the first match wins, so content is never scanned for a
// protected path.
func Evaluate(req Request, cfg *config.Config) Decision {
	if d := CheckPath(req.FilePath, cfg.PathRules); d.Denied {
		return d
	}
	return CheckContent(req.Content, cfg.ContentRules)
}

// CheckPath matches a file path against protected-path rules in order.
func CheckPath(filePath string, pathRules []patterns.Pattern) Decision {
	return check(filePath, pathRules, rules.KindPath)
}

// CheckContent matches content against sensitive-content rules in order.
func CheckContent(content string, contentRules []patterns.Pattern) Decision {
	return check(content, contentRules, rules.KindContent)
}

func check(subject string, set []patterns.Pattern, kind rules.Kind) Decision {
	p, ok := patterns.FirstMatch(subject, set)
	if !ok {
		return Decision{}
	}
	return Decision{
		Denied: true,
		Kind:   kind,
		Rule:   p.Name,
		Reason: rules.Reason(kind, p.Name),
	}
}

// EvaluateAll decides a list of requests; the first denial wins.
// It returns the index of the denied request, or -1.
func EvaluateAll(reqs []Request, cfg *config.Config) (Decision, int) {
	for i, req := range reqs {
		if d := Evaluate(req, cfg); d.Denied {
			return d, i
		}
	}
	return Decision{}, -1
}
