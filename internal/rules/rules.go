// Package rules holds the built-in protected-path and sensitive-content rule
// sets. Both lists are ordered; the first matching rule names the denial.
package rules

import (
	"fmt"

	"github.com/dgerlanc/writeguard/internal/patterns"
)

// Kind identifies which rule set produced a match.
type Kind string

const (
	KindPath    Kind = "path"
	KindContent Kind = "content"
)

// Compile flags per rule set.
const (
	PathFlags    = patterns.CaseInsensitive
	ContentFlags = patterns.CaseInsensitive | patterns.MultiLine
)

const advice = "use environment variables or secret manager instead"

// assign matches an assignment operator: ":", "=" or ":=".
const assign = `(?::=|[:=])`

// word and space are the Unicode word and whitespace classes. RE2's \w and
// \s are ASCII only, which would let non-Latin keys through.
const (
	word  = `[\p{L}\p{N}_]`
	space = `[\s\v\p{Z}\x{85}\x{1c}-\x{1f}]`
)

// end matches the end of the path, optionally after one trailing newline.
const end = `\n?\z`

var protectedPaths = []patterns.Pattern{
	patterns.MustCompile(`\.env`, ".env file", PathFlags),
	patterns.MustCompile(`secrets/`, "secrets directory", PathFlags),
	patterns.MustCompile(`\.pem`+end, ".pem file (private key)", PathFlags),
	patterns.MustCompile(`\.key`+end, ".key file (private key)", PathFlags),
	patterns.MustCompile(`credentials\.json`, "credentials.json", PathFlags),
}

var sensitiveContent = []patterns.Pattern{
	patterns.MustCompile(`api[_-]?key`+space+`*`+assign+space+`*["']?`+word+`{20,}`, "API key", ContentFlags),
	patterns.MustCompile(`password`+space+`*`+assign+space+`*["'][^"']{3,}`, "Password", ContentFlags),
	patterns.MustCompile(`secret[_-]?key`+space+`*`+assign+space+`*["']?`+word+`{20,}`, "Secret key", ContentFlags),
	patterns.MustCompile(`-----BEGIN.*PRIVATE KEY`, "Private key (PEM format)", ContentFlags),
	patterns.MustCompile(`aws[_-]?access[_-]?key[_-]?id`+space+`*`+assign, "AWS access key", ContentFlags),
	patterns.MustCompile(`aws[_-]?secret[_-]?access[_-]?key`+space+`*`+assign, "AWS secret key", ContentFlags),
}

// ProtectedPaths returns a copy of the built-in protected-path rules in evaluation order.
func ProtectedPaths() []patterns.Pattern {
	return append([]patterns.Pattern(nil), protectedPaths...)
}

// SensitiveContent returns a copy of the built-in sensitive-content rules in evaluation order.
func SensitiveContent() []patterns.Pattern {
	return append([]patterns.Pattern(nil), sensitiveContent...)
}

// Flags returns the compile flags used for rules of the given kind.
func Flags(kind Kind) patterns.Flags {
	if kind == KindPath {
		return PathFlags
	}
	return ContentFlags
}

// Reason formats the human-readable denial reason for a rule label.
func Reason(kind Kind, label string) string {
	switch kind {
	case KindPath:
		return fmt.Sprintf("Protected file: %s - %s", label, advice)
	default:
		return fmt.Sprintf("Sensitive data detected: %s - %s", label, advice)
	}
}
