package hook

import (
	"encoding/json"

	"github.com/dgerlanc/writeguard/internal/logger"
)

// fallbackDeny is used if marshalling ever fails; a deny must still reach the host.
const fallbackDeny = `{"decision":"deny","reason":"Protected write blocked"}`

// FormatDeny returns the JSON deny output
func FormatDeny(reason string) string {
	data, err := json.Marshal(Output{Decision: DecisionDeny, Reason: reason})
	if err != nil {
		logger.Debug("failed to marshal deny output", "error", err)
		return fallbackDeny
	}
	return string(data)
}
