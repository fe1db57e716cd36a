package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/atref/internal/model"
)

// TestDefault verifies the built-in settings layer.
func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, model.PathRelative, s.ReferenceFormat)
	assert.Equal(t, OpenTerminalOnce, s.OpenTerminal)
	assert.True(t, s.AutoPaste)
	assert.Equal(t, 5000, s.PasteDelayMs)
	assert.Equal(t, "claude", s.CompanionCommand)
	assert.Equal(t, "atref_", s.SessionPrefix)
	assert.NoError(t, s.Validate())
}

// TestParseOpenTerminalMode verifies string-to-mode conversion.
func TestParseOpenTerminalMode(t *testing.T) {
	tests := []struct {
		input    string
		expected OpenTerminalMode
		hasError bool
	}{
		{"once", OpenTerminalOnce, false},
		{"never", OpenTerminalNever, false},
		{"Once", OpenTerminalOnce, false}, // case insensitive
		{"always", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseOpenTerminalMode(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, mode)
			}
		})
	}
}

// TestNotifications_Enabled checks the explicit default-true fallback:
// unset levels are enabled, silencing is opt-out per level.
func TestNotifications_Enabled(t *testing.T) {
	t.Run("all unset defaults to enabled", func(t *testing.T) {
		var n Notifications
		assert.True(t, n.Enabled(NotifyInfo))
		assert.True(t, n.Enabled(NotifyWarning))
		assert.True(t, n.Enabled(NotifyError))
	})

	t.Run("explicit false silences one level only", func(t *testing.T) {
		off := false
		n := Notifications{Info: &off}
		assert.False(t, n.Enabled(NotifyInfo))
		assert.True(t, n.Enabled(NotifyWarning))
		assert.True(t, n.Enabled(NotifyError))
	})

	t.Run("unknown level is enabled", func(t *testing.T) {
		var n Notifications
		assert.True(t, n.Enabled(NotificationLevel("debug")))
	})
}

// TestSettings_Validate exercises the consistency checks applied after
// all layers are merged.
func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Settings)
		hasError bool
	}{
		{"defaults are valid", func(s *Settings) {}, false},
		{"negative paste delay", func(s *Settings) { s.PasteDelayMs = -1 }, true},
		{"zero paste delay allowed", func(s *Settings) { s.PasteDelayMs = 0 }, false},
		{"bad format", func(s *Settings) { s.ReferenceFormat = "sideways" }, true},
		{"bad mode", func(s *Settings) { s.OpenTerminal = "sometimes" }, true},
		{"empty companion command", func(s *Settings) { s.CompanionCommand = " " }, true},
		{"empty session prefix", func(s *Settings) { s.SessionPrefix = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestLoad_JSONCFile verifies the JSONC settings file layer, including
// comment stripping.
func TestLoad_JSONCFile(t *testing.T) {
	dir := t.TempDir()
	content := `{
	// silence info chatter, keep warnings and errors
	"referenceFormat": "absolute",
	"autoPaste": false,
	"pasteDelayMs": 1200,
	"notifications": {
		"info": false
	},
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".atref.jsonc"), []byte(content), 0o644))

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, model.PathAbsolute, s.ReferenceFormat)
	assert.False(t, s.AutoPaste)
	assert.Equal(t, 1200, s.PasteDelayMs)
	assert.False(t, s.Notifications.Enabled(NotifyInfo))
	assert.True(t, s.Notifications.Enabled(NotifyWarning))

	// Untouched keys keep their defaults.
	assert.Equal(t, OpenTerminalOnce, s.OpenTerminal)
	assert.Equal(t, "claude", s.CompanionCommand)
}

// TestLoad_YAMLFile verifies the YAML flavor of the settings file.
func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	content := `referenceFormat: relative
openTerminal: never
companionCommand: aider
sessionPrefix: deck_
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".atref.yaml"), []byte(content), 0o644))

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, OpenTerminalNever, s.OpenTerminal)
	assert.Equal(t, "aider", s.CompanionCommand)
	assert.Equal(t, "deck_", s.SessionPrefix)
}

// TestLoad_EnvOverridesFile checks layer precedence: environment
// variables beat the settings file.
func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := `{"pasteDelayMs": 1000, "autoPaste": true}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".atref.json"), []byte(content), 0o644))

	t.Setenv("ATREF_PASTE_DELAY_MS", "250")
	t.Setenv("ATREF_AUTO_PASTE", "false")
	t.Setenv("ATREF_NOTIFY_ERROR", "false")

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 250, s.PasteDelayMs)
	assert.False(t, s.AutoPaste)
	assert.False(t, s.Notifications.Enabled(NotifyError))
}

// TestLoad_MissingFileUsesDefaults confirms a missing settings file is
// not an error.
func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default().PasteDelayMs, s.PasteDelayMs)
}

// TestLoad_MalformedFile confirms an unparsable settings file surfaces
// as a config error instead of being silently skipped.
func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".atref.json"), []byte("{nope"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}

// TestLoad_InvalidValueInFile confirms that recognized keys with
// unrecognized values are rejected.
func TestLoad_InvalidValueInFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".atref.json"),
		[]byte(`{"openTerminal": "maybe"}`), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
