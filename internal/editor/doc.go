// Package editor provides the active file/selection input for a
// command invocation.
//
// In an editor-hosted deployment the selection comes from the editor
// itself; as a standalone CLI the same information arrives through a
// positional argument and --lines flag, or — when an editor integration
// invokes atref — through the ATREF_ACTIVE_FILE and ATREF_SELECTION
// environment variables. This package normalizes both into one Source
// interface so the router never cares where the selection came from.
package editor
