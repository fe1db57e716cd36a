package router

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmr-tortoise/atref/internal/config"
	"github.com/mmr-tortoise/atref/internal/editor"
	"github.com/mmr-tortoise/atref/internal/model"
	"github.com/mmr-tortoise/atref/internal/policy"
	"github.com/mmr-tortoise/atref/internal/reference"
	"github.com/mmr-tortoise/atref/internal/terminal"
)

// Terminal is the session capability the router consumes.
// *terminal.Manager satisfies it; tests use fakes.
type Terminal interface {
	Available() bool
	InsideTmux() bool
	ListManaged(ctx context.Context) []terminal.Session
	Create(ctx context.Context, dir string) (terminal.Session, error)
	Focus(ctx context.Context, s terminal.Session) error
	AttachHint(s terminal.Session) string
	SendText(ctx context.Context, s terminal.Session, text string, submit bool) error
	PanePIDs(ctx context.Context, s terminal.Session) []int
}

// ProcessScanner counts companion processes outside managed sessions.
// *procscan.Scanner satisfies it.
type ProcessScanner interface {
	CountExternal(ctx context.Context, managedRoots []int) int
}

// Clipboard writes the reference token.
type Clipboard interface {
	Write(text string) error
}

// Notifier shows gated notifications, status lines, and the launch
// confirmation prompt. *notify.Notifier satisfies it.
type Notifier interface {
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	Status(format string, args ...interface{})
	Confirm(message, action string) bool
}

// Result describes what a command did, for text and JSON output.
type Result struct {
	// Token is the reference token placed on the clipboard.
	Token string `json:"token,omitempty"`

	// Routed reports whether the routing policy ran. Forced-format
	// copies and openTerminal=never stop after the clipboard write.
	Routed bool `json:"routed"`

	// Strategy is the routing decision, when Routed is true.
	Strategy policy.Strategy `json:"strategy,omitempty"`

	// TerminalCount and ProcessCount are the policy inputs, when
	// Routed is true.
	TerminalCount int `json:"terminalCount,omitempty"`
	ProcessCount  int `json:"processCount,omitempty"`

	// Session is the managed session acted on or created, if any.
	Session string `json:"session,omitempty"`

	// PasteScheduled reports whether an auto-paste timer was armed.
	PasteScheduled bool `json:"pasteScheduled,omitempty"`
}

// Router sequences the capability calls for the copy and new-session
// commands.
type Router struct {
	settings config.Settings
	source   editor.Source
	clip     Clipboard
	term     Terminal
	procs    ProcessScanner
	notify   Notifier
	log      *zap.SugaredLogger

	// workDir anchors relative path resolution and new sessions.
	workDir string

	// pending tracks armed auto-paste timers so the one-shot process
	// can outlive them. There is deliberately no cancellation.
	pending sync.WaitGroup
}

// New wires a Router from its capabilities.
func New(settings config.Settings, source editor.Source, clip Clipboard,
	term Terminal, procs ProcessScanner, notify Notifier,
	workDir string, log *zap.SugaredLogger) *Router {
	return &Router{
		settings: settings,
		source:   source,
		clip:     clip,
		term:     term,
		procs:    procs,
		notify:   notify,
		workDir:  workDir,
		log:      log,
	}
}

// Copy implements the main copy command. formatOverride forces the
// path format and skips routing entirely (the forced-format sibling
// commands); nil uses the configured format and applies the policy.
//
// A nil, nil return means "no active file": a warning was shown and
// the command is over, successfully.
func (r *Router) Copy(ctx context.Context, formatOverride *model.PathKind) (*Result, error) {
	// Step 1: read the active selection.
	file, ok := r.source.ActiveFile()
	if !ok {
		r.notify.Warning("No active file to reference")
		return nil, nil
	}

	// Step 2: build and format the reference.
	kind := r.settings.ReferenceFormat
	if formatOverride != nil {
		kind = *formatOverride
	}

	var rng *model.LineRange
	if sel, ok := r.source.Selection(); ok {
		rng = &sel
	}

	ref, err := reference.Build(file, rng, kind, r.workDir)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidReference,
			"failed to build file reference", err)
	}
	token := reference.Token(ref)

	// Step 3: clipboard, unconditionally. This is the one capability
	// failure the command cannot degrade around — without the token on
	// the clipboard there is nothing to route.
	if err := r.clip.Write(token); err != nil {
		return nil, model.WrapCLIError(model.ExitClipboardError,
			"failed to copy reference to clipboard", err)
	}
	r.log.Debugw("reference copied", "token", token)

	result := &Result{Token: token}

	// Step 4: stop here for forced-format copies and openTerminal=never.
	if formatOverride != nil || r.settings.OpenTerminal == config.OpenTerminalNever {
		r.notify.Info("Copied %s to clipboard", token)
		return result, nil
	}

	// Steps 5-7: observe, decide, execute.
	r.route(ctx, token, result)
	return result, nil
}

// route queries the session/process state, applies the policy, and
// executes the strategy. Capability failures inside the queries have
// already degraded to zero by the time the counts arrive here.
func (r *Router) route(ctx context.Context, token string, result *Result) {
	if !r.term.Available() {
		// No tmux means no sessions and no way to create one; the
		// safest default is the copy-only message.
		r.notify.Status("Reference copied — no terminal multiplexer available, paste manually")
		return
	}

	sessions := r.term.ListManaged(ctx)

	var roots []int
	for _, s := range sessions {
		roots = append(roots, r.term.PanePIDs(ctx, s)...)
	}
	processCount := r.procs.CountExternal(ctx, roots)

	result.Routed = true
	result.TerminalCount = len(sessions)
	result.ProcessCount = processCount
	result.Strategy = policy.Decide(len(sessions), processCount)

	r.log.Debugw("routing decision",
		"terminals", result.TerminalCount,
		"processes", result.ProcessCount,
		"strategy", result.Strategy)

	switch result.Strategy {
	case policy.StrategyCopyOnlyMultipleTerminals:
		r.notify.Status("Reference copied — several %s sessions are open, paste manually",
			r.settings.CompanionCommand)

	case policy.StrategyCopyOnlyMixedProcesses:
		r.notify.Status("Reference copied — %s is also running outside the visible session, paste manually",
			r.settings.CompanionCommand)

	case policy.StrategyReuseExistingTerminal:
		r.reuseSession(ctx, sessions, token, result)

	case policy.StrategyCreateNewTerminal:
		r.createSession(ctx, token, result)

	case policy.StrategyPromptForInternalLaunch:
		message := "The " + r.settings.CompanionCommand +
			" CLI is already running outside any managed session. Launch one here too?"
		if !r.notify.Confirm(message, "Launch") {
			// Declined or dismissed: the clipboard reference is the
			// only artifact, which is exactly what the user asked for.
			r.notify.Status("Reference copied to clipboard")
			return
		}
		r.createSession(ctx, token, result)
	}
}

// reuseSession focuses the single known session and arms the paste.
func (r *Router) reuseSession(ctx context.Context, sessions []terminal.Session, token string, result *Result) {
	target, ok := terminal.LastFocused(sessions)
	if !ok {
		return
	}
	result.Session = target.Name

	if err := r.term.Focus(ctx, target); err != nil {
		r.log.Debugw("focus failed", "session", target.Name, "error", err)
	}
	if !r.term.InsideTmux() {
		r.notify.Info("Session %s is running — %s", target.Name, r.term.AttachHint(target))
	}

	if r.settings.AutoPaste {
		r.schedulePaste(target, token)
		result.PasteScheduled = true
	} else {
		r.notify.Info("Reference copied — paste it into %s when ready", target.Name)
	}
}

// createSession starts a managed session, launches the companion CLI
// in it, and arms the paste.
func (r *Router) createSession(ctx context.Context, token string, result *Result) {
	session, err := r.term.Create(ctx, r.workDir)
	if err != nil {
		// Degrade to copy-only rather than failing the command; the
		// clipboard already holds the reference.
		r.log.Debugw("session create failed", "error", err)
		r.notify.Status("Reference copied — could not create a session, paste manually")
		return
	}
	result.Session = session.Name

	// The launch command is submitted (trailing Enter); the reference
	// paste later is not.
	if err := r.term.SendText(ctx, session, r.settings.CompanionCommand, true); err != nil {
		r.log.Debugw("companion launch failed", "session", session.Name, "error", err)
	}

	if err := r.term.Focus(ctx, session); err != nil {
		r.log.Debugw("focus failed", "session", session.Name, "error", err)
	}
	if !r.term.InsideTmux() {
		r.notify.Info("Started %s in %s — %s",
			r.settings.CompanionCommand, session.Name, r.term.AttachHint(session))
	}

	if r.settings.AutoPaste {
		r.schedulePaste(session, token)
		result.PasteScheduled = true
	}
}

// schedulePaste arms a fire-and-forget timer that sends the token as
// literal text (no submitting Enter) after the configured delay. The
// timer cannot be cancelled once armed; see the package comment for
// the race this accepts.
func (r *Router) schedulePaste(s terminal.Session, token string) {
	delay := time.Duration(r.settings.PasteDelayMs) * time.Millisecond
	r.pending.Add(1)

	time.AfterFunc(delay, func() {
		defer r.pending.Done()
		// The command's own context is long gone by the time the timer
		// fires; the paste runs against a fresh background context.
		if err := r.term.SendText(context.Background(), s, token, false); err != nil {
			r.log.Debugw("auto-paste failed", "session", s.Name, "error", err)
		}
	})
	r.log.Debugw("auto-paste scheduled", "session", s.Name, "delayMs", r.settings.PasteDelayMs)
}

// Wait blocks until every armed auto-paste has fired. The CLI calls
// this before exiting so the one-shot process outlives its timers.
func (r *Router) Wait() {
	r.pending.Wait()
}

// NewSession implements the new-session command: always create a fresh
// managed session and launch the companion CLI, regardless of what is
// already running. When a file is active its reference is copied and
// auto-pasted exactly like the create strategy; without one the
// session launch is the whole job.
func (r *Router) NewSession(ctx context.Context) (*Result, error) {
	result := &Result{}

	token := ""
	if file, ok := r.source.ActiveFile(); ok {
		var rng *model.LineRange
		if sel, ok := r.source.Selection(); ok {
			rng = &sel
		}

		ref, err := reference.Build(file, rng, r.settings.ReferenceFormat, r.workDir)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitInvalidReference,
				"failed to build file reference", err)
		}
		token = reference.Token(ref)

		if err := r.clip.Write(token); err != nil {
			return nil, model.WrapCLIError(model.ExitClipboardError,
				"failed to copy reference to clipboard", err)
		}
		result.Token = token
	}

	session, err := r.term.Create(ctx, r.workDir)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitTerminalError,
			"failed to create terminal session", err)
	}
	result.Session = session.Name

	if err := r.term.SendText(ctx, session, r.settings.CompanionCommand, true); err != nil {
		r.log.Debugw("companion launch failed", "session", session.Name, "error", err)
	}
	if err := r.term.Focus(ctx, session); err != nil {
		r.log.Debugw("focus failed", "session", session.Name, "error", err)
	}
	if !r.term.InsideTmux() {
		r.notify.Info("Started %s in %s — %s",
			r.settings.CompanionCommand, session.Name, r.term.AttachHint(session))
	}

	if token != "" && r.settings.AutoPaste {
		r.schedulePaste(session, token)
		result.PasteScheduled = true
	}
	return result, nil
}
