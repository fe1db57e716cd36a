// Package cli — copy.go implements the "atref copy" command family.
//
// The plain copy command is the primary user-facing operation: it builds
// the reference token, copies it to the clipboard, and applies the
// terminal routing policy. The copy-absolute and copy-relative variants
// force the path format and deliberately skip routing, so an editor can
// bind them to "give me the token, touch nothing" keys.
//
// Orchestration steps:
//  1. Load settings (file, .env, ATREF_* environment)
//  2. Resolve the active file and selection (argument/flag or environment)
//  3. Build the router from the live capabilities (clipboard, tmux, pgrep)
//  4. Run the copy, wait for any armed auto-paste, print the result
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/atref/internal/clipboard"
	"github.com/mmr-tortoise/atref/internal/config"
	"github.com/mmr-tortoise/atref/internal/editor"
	"github.com/mmr-tortoise/atref/internal/model"
	"github.com/mmr-tortoise/atref/internal/notify"
	"github.com/mmr-tortoise/atref/internal/procscan"
	"github.com/mmr-tortoise/atref/internal/router"
	"github.com/mmr-tortoise/atref/internal/terminal"
)

// copyFlags holds the flag values for the copy commands.
// These are bound to cobra flags in the command constructors.
type copyFlags struct {
	lines     string // --lines: line span as "start" or "start:end"
	zeroBased bool   // --zero-based: treat --lines endpoints as 0-based
}

// NewCopyCommand creates the "copy" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCopyCommand() *cobra.Command {
	flags := &copyFlags{}

	cmd := &cobra.Command{
		Use:   "copy [file]",
		Short: "Copy a file reference and route it to the companion CLI",
		Long: `Copy a reference to a file (and optionally a line span) to the
clipboard, then route it into a companion CLI session.

The file comes from the positional argument, or from ATREF_ACTIVE_FILE
when an editor integration invokes atref without one. The line span
comes from --lines, or from ATREF_SELECTION (0-based, editor-native).

Examples:
  atref copy internal/cli/root.go
  atref copy internal/cli/root.go --lines 10:24
  atref copy main.go --lines 9:23 --zero-based
  ATREF_ACTIVE_FILE=main.go ATREF_SELECTION=9:23 atref copy`,

		// Args: at most one positional file; zero means "use the
		// environment", which editor integrations rely on.
		Args: cobra.MaximumNArgs(1),

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(cmd.Context(), args, flags, nil)
		},
	}

	addCopyFlags(cmd, flags)
	return cmd
}

// NewCopyAbsoluteCommand creates the "copy-absolute" cobra command: the
// forced-absolute variant that never touches terminal sessions.
func NewCopyAbsoluteCommand() *cobra.Command {
	flags := &copyFlags{}

	cmd := &cobra.Command{
		Use:   "copy-absolute [file]",
		Short: "Copy a reference with an absolute path (clipboard only)",
		Long: `Copy a file reference using the absolute path form, regardless of the
configured referenceFormat. The reference only goes to the clipboard;
no terminal session is focused, created, or pasted into.`,

		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := model.PathAbsolute
			return runCopy(cmd.Context(), args, flags, &kind)
		},
	}

	addCopyFlags(cmd, flags)
	return cmd
}

// NewCopyRelativeCommand creates the "copy-relative" cobra command: the
// forced-relative variant that never touches terminal sessions.
func NewCopyRelativeCommand() *cobra.Command {
	flags := &copyFlags{}

	cmd := &cobra.Command{
		Use:   "copy-relative [file]",
		Short: "Copy a reference with a relative path (clipboard only)",
		Long: `Copy a file reference using the path relative to the working
directory, regardless of the configured referenceFormat. The reference
only goes to the clipboard; no terminal session is focused, created,
or pasted into.`,

		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := model.PathRelative
			return runCopy(cmd.Context(), args, flags, &kind)
		},
	}

	addCopyFlags(cmd, flags)
	return cmd
}

// addCopyFlags registers the flags shared by all copy variants. Each
// command gets its own copyFlags instance, so the bindings never
// interfere across commands.
func addCopyFlags(cmd *cobra.Command, flags *copyFlags) {
	cmd.Flags().StringVarP(&flags.lines, "lines", "l", "", `Line span as "start" or "start:end" (1-based unless --zero-based)`)
	cmd.Flags().BoolVar(&flags.zeroBased, "zero-based", false, "Treat --lines endpoints as 0-based editor values")
}

// runCopy is the orchestration function shared by all copy variants.
// formatOverride is nil for the plain copy command and set for the
// forced-format variants.
func runCopy(ctx context.Context, args []string, flags *copyFlags, formatOverride *model.PathKind) error {
	// Step 1: resolve the working directory and settings.
	workDir, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	settings, err := config.Load(workDir)
	if err != nil {
		return err // Load already returns CLIError
	}

	// Step 2: resolve the active file and selection.
	source, err := resolveSource(args, flags)
	if err != nil {
		return err
	}

	// Step 3: wire the router from the live capabilities.
	r := buildRouter(settings, source, workDir)

	// Step 4: run the copy and wait out any armed auto-paste before the
	// process exits — the timer dies with the process otherwise.
	result, err := r.Copy(ctx, formatOverride)
	if err != nil {
		return err
	}
	r.Wait()

	printResult(result)
	return nil
}

// resolveSource builds the selection source for one invocation. An
// explicit positional argument or --lines flag wins over the ATREF_*
// environment variables, so scripts can override what the editor set.
func resolveSource(args []string, flags *copyFlags) (editor.Source, error) {
	env := editor.NewEnv()

	file := ""
	if len(args) > 0 {
		file = args[0]
	} else if envFile, ok := env.ActiveFile(); ok {
		file = envFile
	}

	var rng *model.LineRange
	if flags.lines != "" {
		parsed, err := editor.ParseLineSpec(flags.lines, flags.zeroBased)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitInvalidReference, "invalid --lines value", err)
		}
		rng = &parsed
	} else if sel, ok := env.Selection(); ok {
		rng = &sel
	}

	return editor.NewStatic(file, rng), nil
}

// buildRouter assembles the router from the real capability
// implementations. Shared by the copy and new-session commands.
func buildRouter(settings config.Settings, source editor.Source, workDir string) *router.Router {
	return router.New(
		settings,
		source,
		clipboard.NewSystem(),
		terminal.NewManager(settings.SessionPrefix, logger),
		procscan.NewScanner(settings.CompanionCommand, logger),
		notify.New(settings.Notifications, notify.WithAssumeYes(assumeYes)),
		workDir,
		logger,
	)
}

// printResult outputs the command result. In text mode the notifier has
// already narrated the outcome, so only JSON mode prints anything here.
// A nil result (no active file) prints nothing in either mode.
func printResult(result *router.Result) {
	if result == nil || !IsJSONOutput() {
		return
	}
	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}
