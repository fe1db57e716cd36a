package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStrategy_String verifies string representation of all strategies.
func TestStrategy_String(t *testing.T) {
	tests := []struct {
		strategy Strategy
		expected string
	}{
		{StrategyCopyOnlyMultipleTerminals, "copy-only-multiple-terminals"},
		{StrategyCopyOnlyMixedProcesses, "copy-only-mixed-processes"},
		{StrategyReuseExistingTerminal, "reuse-existing-terminal"},
		{StrategyCreateNewTerminal, "create-new-terminal"},
		{StrategyPromptForInternalLaunch, "prompt-for-internal-launch"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.strategy.String())
		})
	}
}

// TestStrategy_IsValid checks that only defined strategies pass validation.
func TestStrategy_IsValid(t *testing.T) {
	assert.True(t, StrategyCopyOnlyMultipleTerminals.IsValid())
	assert.True(t, StrategyCopyOnlyMixedProcesses.IsValid())
	assert.True(t, StrategyReuseExistingTerminal.IsValid())
	assert.True(t, StrategyCreateNewTerminal.IsValid())
	assert.True(t, StrategyPromptForInternalLaunch.IsValid())
	assert.False(t, Strategy("invalid").IsValid())
	assert.False(t, Strategy("").IsValid())
}

// TestStrategy_IsCopyOnly verifies that exactly the two clipboard-only
// strategies report true, which controls the "paste manually" status path.
func TestStrategy_IsCopyOnly(t *testing.T) {
	assert.True(t, StrategyCopyOnlyMultipleTerminals.IsCopyOnly())
	assert.True(t, StrategyCopyOnlyMixedProcesses.IsCopyOnly())
	assert.False(t, StrategyReuseExistingTerminal.IsCopyOnly())
	assert.False(t, StrategyCreateNewTerminal.IsCopyOnly())
	assert.False(t, StrategyPromptForInternalLaunch.IsCopyOnly())
}

// TestParseStrategy verifies string-to-strategy conversion.
func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("reuse-existing-terminal")
	require.NoError(t, err)
	assert.Equal(t, StrategyReuseExistingTerminal, s)

	s, err = ParseStrategy("Create-New-Terminal") // case insensitive
	require.NoError(t, err)
	assert.Equal(t, StrategyCreateNewTerminal, s)

	_, err = ParseStrategy("guess")
	assert.Error(t, err)
}

// TestDecide_Scenarios pins the concrete decision-table rows.
func TestDecide_Scenarios(t *testing.T) {
	tests := []struct {
		name          string
		terminalCount int
		processCount  int
		expected      Strategy
	}{
		{"two terminals no processes", 2, 0, StrategyCopyOnlyMultipleTerminals},
		{"two terminals with processes", 2, 5, StrategyCopyOnlyMultipleTerminals},
		{"many terminals", 7, 1, StrategyCopyOnlyMultipleTerminals},
		{"one terminal one process", 1, 1, StrategyCopyOnlyMixedProcesses},
		{"one terminal many processes", 1, 4, StrategyCopyOnlyMixedProcesses},
		{"one terminal only", 1, 0, StrategyReuseExistingTerminal},
		{"nothing anywhere", 0, 0, StrategyCreateNewTerminal},
		{"external only", 0, 3, StrategyPromptForInternalLaunch},
		{"single external", 0, 1, StrategyPromptForInternalLaunch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Decide(tt.terminalCount, tt.processCount))
		})
	}
}

// TestDecide_TotalAndDeterministic sweeps a grid of inputs and checks
// that every pair yields exactly one valid strategy, that repeated calls
// agree, and that the priority ordering holds: a terminal count above
// one always wins regardless of the process count.
func TestDecide_TotalAndDeterministic(t *testing.T) {
	for terminals := 0; terminals <= 6; terminals++ {
		for processes := 0; processes <= 6; processes++ {
			first := Decide(terminals, processes)
			assert.True(t, first.IsValid(),
				"Decide(%d, %d) returned invalid strategy %q", terminals, processes, first)
			assert.Equal(t, first, Decide(terminals, processes),
				"Decide(%d, %d) is not deterministic", terminals, processes)

			if terminals > 1 {
				assert.Equal(t, StrategyCopyOnlyMultipleTerminals, first,
					"multiple terminals must dominate at (%d, %d)", terminals, processes)
			}
		}
	}
}
