// Package terminal manages tmux sessions hosting the companion CLI.
//
// Sessions created by atref follow a naming convention (a configurable
// prefix, "atref_" by default); any tmux session matching the prefix is
// treated as managed, whether or not a client is currently attached.
// tmux has no Go SDK, so every operation shells out to the tmux binary,
// the same way the rest of the ecosystem drives it.
//
// Two tmux quirks shape the send path: literal text must go through
// `send-keys -l -- <text>` so tmux never interprets key names, and a
// submitting Enter must be a separate send-keys call after a short
// settle delay, because tmux 3.2+ wraps literal sends in bracketed
// paste markers and an Enter in the same buffer gets swallowed by
// TUI frameworks.
package terminal
