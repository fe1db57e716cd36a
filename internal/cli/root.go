// Package cli implements the cobra-based CLI commands for atref.
//
// Each subcommand (copy, copy-absolute, copy-relative, new-session) is
// defined in its own file within this package. This file defines the
// root command that serves as the parent for all subcommands and
// handles global flags.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mmr-tortoise/atref/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, all output uses structured JSON format for machine consumption.
	// When false (default), output uses human-readable text format.
	jsonOutput bool

	// verbose enables debug-level logging to stderr.
	verbose bool

	// assumeYes answers every confirmation prompt affirmatively,
	// for editor keybindings and scripts that cannot interact.
	assumeYes bool
)

// logger is the process-wide structured logger, built in the root
// command's PersistentPreRunE once the --verbose flag is known. It
// starts as a no-op so code paths running before cobra (or in tests)
// never hit a nil logger.
var logger = zap.NewNop().Sugar()

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action — it only provides
// help text and global flags. Actual functionality is provided by
// subcommands (copy, copy-absolute, copy-relative, new-session).
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		// Use is the one-line usage pattern shown in help output.
		Use:   "atref",
		Short: "Copy file references and route them into a companion CLI session",
		Long: `atref formats the active file (and selection) into a reference token
like @[internal/cli/root.go:10:24], copies it to the clipboard, and
routes it into a tmux session running the companion CLI.

When exactly one managed session exists the reference is pasted there;
when none exists a session is created and the companion CLI launched.
Ambiguous situations (several sessions, external companion processes)
fall back to clipboard-only so the reference never lands in the wrong
conversation.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// The logger depends on --verbose, so it is built here rather
		// than in main. Subcommands read the package-level logger.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "failed to initialize logger", err)
			}
			logger = l.Sugar()
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			// Sync flushes buffered log entries. Syncing stderr fails on
			// some platforms; that is harmless for a one-shot CLI.
			_ = logger.Sync()
		},
	}

	// PersistentFlags are inherited by all subcommands. This is the cobra
	// mechanism for global flags — any flag defined here is automatically
	// available in every subcommand without re-declaration.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer confirmation prompts with yes")

	// Register subcommands. Each subcommand is defined in its own file
	// (copy.go, session.go) and returns a *cobra.Command.
	rootCmd.AddCommand(NewCopyCommand())
	rootCmd.AddCommand(NewCopyAbsoluteCommand())
	rootCmd.AddCommand(NewCopyRelativeCommand())
	rootCmd.AddCommand(NewSessionCommand())

	return rootCmd
}

// newLogger builds the zap logger for one invocation. Everything goes
// to stderr; stdout is reserved for command output so --json consumers
// can pipe it.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. CLIError types carry their own
// exit codes; other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		// Check if the error is a CLIError with a specific exit code.
		// errors.As would also work here, but a type assertion is simpler
		// for this single-level check.
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// Generic error — exit with code 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// json.MarshalIndent produces human-readable JSON with indentation.
		// We write to stderr for errors, even in JSON mode, because stdout
		// is reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		// Text format: "Error: <message>" on stderr.
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
