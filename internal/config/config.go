package config

import (
	"fmt"
	"strings"

	"github.com/mmr-tortoise/atref/internal/model"
)

// DefaultPasteDelayMs is the delay between launching or focusing a
// session and pasting the reference into it. The companion CLI needs a
// moment to finish starting before it can accept input.
const DefaultPasteDelayMs = 5000

// DefaultCompanionCommand is the command launched inside new managed
// sessions and counted by the process scanner.
const DefaultCompanionCommand = "claude"

// DefaultSessionPrefix is the tmux session name prefix that marks a
// session as managed by atref.
const DefaultSessionPrefix = "atref_"

// OpenTerminalMode controls whether the copy command is allowed to
// touch terminal sessions at all.
type OpenTerminalMode string

const (
	// OpenTerminalOnce applies the routing policy after the clipboard
	// write (the default).
	OpenTerminalOnce OpenTerminalMode = "once"

	// OpenTerminalNever stops after the clipboard write; no session is
	// ever focused, created, or pasted into.
	OpenTerminalNever OpenTerminalMode = "never"
)

// String returns the string representation of OpenTerminalMode.
func (m OpenTerminalMode) String() string {
	return string(m)
}

// IsValid checks whether the OpenTerminalMode value is one of the
// predefined valid modes.
func (m OpenTerminalMode) IsValid() bool {
	switch m {
	case OpenTerminalOnce, OpenTerminalNever:
		return true
	default:
		return false
	}
}

// ParseOpenTerminalMode converts a string to an OpenTerminalMode.
func ParseOpenTerminalMode(s string) (OpenTerminalMode, error) {
	mode := OpenTerminalMode(strings.ToLower(s))
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid open terminal mode: %q (valid: once, never)", s)
	}
	return mode, nil
}

// NotificationLevel keys the per-level notification toggles.
type NotificationLevel string

const (
	NotifyInfo    NotificationLevel = "info"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)

// Notifications holds the per-level enablement toggles. Pointers
// distinguish "unset" from "explicitly false": an unset level defaults
// to enabled, so a settings file only has to name the levels it wants
// to silence.
type Notifications struct {
	Info    *bool `json:"info,omitempty" yaml:"info,omitempty"`
	Warning *bool `json:"warning,omitempty" yaml:"warning,omitempty"`
	Error   *bool `json:"error,omitempty" yaml:"error,omitempty"`
}

// Enabled reports whether notifications of the given level should be
// shown. Unset levels and unknown levels are enabled — silencing is
// always an explicit opt-out.
func (n Notifications) Enabled(level NotificationLevel) bool {
	var v *bool
	switch level {
	case NotifyInfo:
		v = n.Info
	case NotifyWarning:
		v = n.Warning
	case NotifyError:
		v = n.Error
	}
	if v == nil {
		return true
	}
	return *v
}

// Settings is the resolved atref configuration after all layers have
// been applied. All fields are guaranteed valid once Load returns.
type Settings struct {
	// ReferenceFormat selects absolute or relative paths inside the
	// reference token for the plain copy command. The forced-format
	// commands ignore it.
	ReferenceFormat model.PathKind

	// OpenTerminal controls whether the routing policy runs at all.
	OpenTerminal OpenTerminalMode

	// AutoPaste sends the reference into the target session after the
	// paste delay. When false the tool only focuses/creates sessions
	// and notifies that the clipboard holds the reference.
	AutoPaste bool

	// PasteDelayMs is the delay before an auto-paste fires, in
	// milliseconds. Must be non-negative.
	PasteDelayMs int

	// Notifications gates the info/warning/error output per level.
	Notifications Notifications

	// CompanionCommand is the CLI launched in new sessions and matched
	// by the process scanner.
	CompanionCommand string

	// SessionPrefix marks tmux sessions as managed by this tool.
	SessionPrefix string
}

// Default returns the built-in settings, used as the base layer and by
// tests that need a known-good configuration.
func Default() Settings {
	return Settings{
		ReferenceFormat:  model.PathRelative,
		OpenTerminal:     OpenTerminalOnce,
		AutoPaste:        true,
		PasteDelayMs:     DefaultPasteDelayMs,
		CompanionCommand: DefaultCompanionCommand,
		SessionPrefix:    DefaultSessionPrefix,
	}
}

// Validate checks the resolved settings for internal consistency.
func (s Settings) Validate() error {
	if !s.ReferenceFormat.IsValid() {
		return fmt.Errorf("invalid referenceFormat: %q (valid: absolute, relative)", s.ReferenceFormat)
	}
	if !s.OpenTerminal.IsValid() {
		return fmt.Errorf("invalid openTerminal: %q (valid: once, never)", s.OpenTerminal)
	}
	if s.PasteDelayMs < 0 {
		return fmt.Errorf("pasteDelayMs must not be negative, got %d", s.PasteDelayMs)
	}
	if strings.TrimSpace(s.CompanionCommand) == "" {
		return fmt.Errorf("companionCommand must not be empty")
	}
	if strings.TrimSpace(s.SessionPrefix) == "" {
		return fmt.Errorf("sessionPrefix must not be empty")
	}
	return nil
}
