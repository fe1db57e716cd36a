// Package cli — session.go implements the "atref new-session" command.
//
// new-session is the explicit escape hatch from the routing policy: it
// always creates a fresh managed tmux session and launches the companion
// CLI in it, no matter how many sessions or external processes exist.
// When a file is given or active, its reference is copied and
// auto-pasted exactly like the copy command's create strategy.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/atref/internal/config"
	"github.com/mmr-tortoise/atref/internal/model"
)

// NewSessionCommand creates the "new-session" cobra command.
func NewSessionCommand() *cobra.Command {
	flags := &copyFlags{}

	cmd := &cobra.Command{
		Use:   "new-session [file]",
		Short: "Start a new companion CLI session unconditionally",
		Long: `Create a fresh managed tmux session and launch the companion CLI in
it, bypassing the routing policy entirely. Existing sessions and
external companion processes are left alone.

When a file is given (or ATREF_ACTIVE_FILE is set), its reference is
copied to the clipboard and auto-pasted into the new session once the
companion CLI has had time to start.`,

		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNewSession(cmd.Context(), args, flags)
		},
	}

	addCopyFlags(cmd, flags)
	return cmd
}

// runNewSession wires the router and delegates to its NewSession
// operation. Unlike the copy command, a session creation failure here
// is fatal — creating the session is the command's whole purpose.
func runNewSession(ctx context.Context, args []string, flags *copyFlags) error {
	workDir, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	settings, err := config.Load(workDir)
	if err != nil {
		return err
	}

	source, err := resolveSource(args, flags)
	if err != nil {
		return err
	}

	r := buildRouter(settings, source, workDir)

	result, err := r.NewSession(ctx)
	if err != nil {
		return err
	}
	r.Wait()

	printResult(result)
	return nil
}
