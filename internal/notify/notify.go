package notify

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"

	"github.com/mmr-tortoise/atref/internal/config"
)

// Notifier writes gated notifications and prompts to the terminal.
type Notifier struct {
	levels config.Notifications

	info    pterm.PrefixPrinter
	warning pterm.PrefixPrinter
	errOut  pterm.PrefixPrinter
	status  *pterm.BasicTextPrinter

	// assumeYes answers every Confirm affirmatively without prompting,
	// for scripted use (--yes).
	assumeYes bool

	// confirm shows the interactive prompt. Swappable in tests, where
	// no TTY exists.
	confirm func(message, action string) bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAssumeYes makes Confirm return true without prompting.
func WithAssumeYes(yes bool) Option {
	return func(n *Notifier) { n.assumeYes = yes }
}

// WithWriter redirects all output, for tests.
func WithWriter(w io.Writer) Option {
	return func(n *Notifier) {
		n.info = *n.info.WithWriter(w)
		n.warning = *n.warning.WithWriter(w)
		n.errOut = *n.errOut.WithWriter(w)
		n.status = n.status.WithWriter(w)
	}
}

// New creates a Notifier honoring the given per-level toggles.
func New(levels config.Notifications, opts ...Option) *Notifier {
	n := &Notifier{
		levels: levels,
		info: *pterm.Info.WithPrefix(pterm.Prefix{
			Text:  "INFO",
			Style: pterm.NewStyle(pterm.FgBlue),
		}),
		warning: *pterm.Warning.WithPrefix(pterm.Prefix{
			Text:  "WARN",
			Style: pterm.NewStyle(pterm.FgYellow),
		}),
		errOut: *pterm.Error.WithPrefix(pterm.Prefix{
			Text:  "ERROR",
			Style: pterm.NewStyle(pterm.FgRed),
		}).WithWriter(os.Stderr),
		status: pterm.DefaultBasicText.WithStyle(pterm.NewStyle(pterm.FgGray)),
	}
	n.confirm = n.promptConfirm

	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Info shows an informational notification unless the info level is
// silenced.
func (n *Notifier) Info(format string, args ...interface{}) {
	if !n.levels.Enabled(config.NotifyInfo) {
		return
	}
	n.info.Println(fmt.Sprintf(format, args...))
}

// Warning shows a warning unless the warning level is silenced.
func (n *Notifier) Warning(format string, args ...interface{}) {
	if !n.levels.Enabled(config.NotifyWarning) {
		return
	}
	n.warning.Println(fmt.Sprintf(format, args...))
}

// Error shows an error unless the error level is silenced. Errors go
// to stderr so stdout stays clean for command output.
func (n *Notifier) Error(format string, args ...interface{}) {
	if !n.levels.Enabled(config.NotifyError) {
		return
	}
	n.errOut.Println(fmt.Sprintf(format, args...))
}

// Status shows a transient, ungated status line.
func (n *Notifier) Status(format string, args ...interface{}) {
	n.status.Println(fmt.Sprintf(format, args...))
}

// Confirm asks the user a yes/no question with a single affirmative
// action label. Dismissal and decline are the same answer: false.
func (n *Notifier) Confirm(message, action string) bool {
	if n.assumeYes {
		return true
	}
	return n.confirm(message, action)
}

// promptConfirm shows the interactive prompt. A prompt failure (no
// TTY, interrupted) counts as declined — the clipboard already holds
// the reference, so doing nothing is always safe.
func (n *Notifier) promptConfirm(message, action string) bool {
	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		WithConfirmText(action).
		Show(message)
	if err != nil {
		return false
	}
	return ok
}
