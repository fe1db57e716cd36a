// Package model defines the domain types and value objects for the
// atref CLI.
//
// This package contains pure data structures with no external dependencies.
// The value objects (FilePath, LineRange, FileReference) are immutable:
// they are constructed fresh for every command invocation from live
// selection input, validated at construction, and discarded once the
// reference token has been produced. Nothing in this package is ever
// persisted.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
