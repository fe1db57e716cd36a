// Package clipboard wraps system clipboard access behind a small
// interface so the router can be tested without touching the real
// clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Clipboard reads and writes the system clipboard.
type Clipboard interface {
	// Write places text on the clipboard, replacing its content.
	Write(text string) error

	// Read returns the current clipboard content.
	Read() (string, error)
}

// System is the real clipboard backed by github.com/atotto/clipboard,
// which talks to xclip/xsel/wl-copy on Linux, pbcopy/pbpaste on macOS,
// and the native API on Windows.
type System struct{}

// NewSystem returns the system clipboard.
func NewSystem() *System {
	return &System{}
}

// Write places text on the system clipboard.
func (s *System) Write(text string) error {
	return clipboard.WriteAll(text)
}

// Read returns the current system clipboard content.
func (s *System) Read() (string, error) {
	return clipboard.ReadAll()
}
