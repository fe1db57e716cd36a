package policy

import (
	"fmt"
	"strings"
)

// Strategy is the routing decision for a copied file reference.
// It determines what, if anything, happens after the reference token
// has been written to the clipboard.
type Strategy string

const (
	// StrategyCopyOnlyMultipleTerminals leaves the reference on the
	// clipboard because several managed sessions are open and the
	// target is ambiguous. The tool never guesses between sessions.
	StrategyCopyOnlyMultipleTerminals Strategy = "copy-only-multiple-terminals"

	// StrategyCopyOnlyMixedProcesses leaves the reference on the
	// clipboard because a companion process exists outside the single
	// visible session. Auto-pasting into the visible one could send
	// the reference to the wrong place.
	StrategyCopyOnlyMixedProcesses Strategy = "copy-only-mixed-processes"

	// StrategyReuseExistingTerminal focuses the single managed session
	// and, when auto-paste is enabled, sends the reference after the
	// configured delay.
	StrategyReuseExistingTerminal Strategy = "reuse-existing-terminal"

	// StrategyCreateNewTerminal creates a fresh session, launches the
	// companion CLI inside it, then pastes the reference.
	StrategyCreateNewTerminal Strategy = "create-new-terminal"

	// StrategyPromptForInternalLaunch asks the user whether to launch a
	// managed session even though the companion CLI already runs
	// externally. The clipboard holds the reference either way.
	StrategyPromptForInternalLaunch Strategy = "prompt-for-internal-launch"
)

// String returns the string representation of Strategy.
func (s Strategy) String() string {
	return string(s)
}

// IsValid checks whether the Strategy value is one of the
// predefined valid strategies.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyCopyOnlyMultipleTerminals,
		StrategyCopyOnlyMixedProcesses,
		StrategyReuseExistingTerminal,
		StrategyCreateNewTerminal,
		StrategyPromptForInternalLaunch:
		return true
	default:
		return false
	}
}

// IsCopyOnly reports whether the strategy takes no terminal action at
// all. Copy-only strategies end with a "paste manually" status message.
func (s Strategy) IsCopyOnly() bool {
	return s == StrategyCopyOnlyMultipleTerminals || s == StrategyCopyOnlyMixedProcesses
}

// ParseStrategy converts a string to a Strategy.
// Returns an error if the string does not match any valid strategy.
func ParseStrategy(str string) (Strategy, error) {
	s := Strategy(strings.ToLower(str))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid routing strategy: %q", str)
	}
	return s, nil
}

// Decide maps the observed session/process counts to a routing strategy.
//
// terminalCount is the number of currently open managed sessions;
// processCount is the number of companion CLI processes running outside
// any managed session. Negative inputs cannot be produced by the
// capability layers (failed queries degrade to zero), so the table is
// evaluated over non-negative integers only.
//
// The rules are checked in priority order; the first match wins:
//
//	terminalCount > 1                      → copy-only (ambiguous target)
//	terminalCount == 1 && processCount > 0 → copy-only (mixed processes)
//	terminalCount == 1                     → reuse the existing session
//	terminalCount == 0 && processCount == 0 → create a new session
//	terminalCount == 0 && processCount > 0  → prompt for internal launch
func Decide(terminalCount, processCount int) Strategy {
	switch {
	case terminalCount > 1:
		return StrategyCopyOnlyMultipleTerminals
	case terminalCount == 1 && processCount > 0:
		return StrategyCopyOnlyMixedProcesses
	case terminalCount == 1:
		return StrategyReuseExistingTerminal
	case processCount == 0:
		return StrategyCreateNewTerminal
	default:
		return StrategyPromptForInternalLaunch
	}
}
