// Package notify renders user-facing notifications.
//
// Info, warning, and error output each pass through a per-level gate
// from the settings (unset levels default to enabled). Status lines are
// the CLI stand-in for a transient status bar: dim, unprefixed, and
// never gated — they carry the "paste manually" outcome the user asked
// for. Confirm is the single-affirmative-action prompt used before
// launching a session next to an external companion process.
package notify
