package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathKind tags a FilePath as absolute or relative. The kind is part of
// the value's identity: two FilePaths with the same string but different
// kinds are not equal.
type PathKind string

const (
	// PathAbsolute marks a filesystem-absolute path (e.g. "/home/me/a.go").
	PathAbsolute PathKind = "absolute"

	// PathRelative marks a path relative to the working directory
	// (e.g. "internal/cli/root.go").
	PathRelative PathKind = "relative"
)

// String returns the string representation of PathKind.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI commands and logging.
func (k PathKind) String() string {
	return string(k)
}

// IsValid checks whether the PathKind value is one of the
// predefined valid kinds.
func (k PathKind) IsValid() bool {
	switch k {
	case PathAbsolute, PathRelative:
		return true
	default:
		return false
	}
}

// ParsePathKind converts a string to a PathKind.
// Returns an error if the string does not match any valid kind.
func ParsePathKind(s string) (PathKind, error) {
	kind := PathKind(strings.ToLower(s))
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid path kind: %q (valid: absolute, relative)", s)
	}
	return kind, nil
}

// FilePath is a validated file path paired with its PathKind tag.
//
// Invariant: the value is never empty or whitespace-only. Construction
// fails otherwise, so downstream consumers (the formatter in particular)
// never need to re-validate.
type FilePath struct {
	value string
	kind  PathKind
}

// NewFilePath constructs a FilePath with an explicit kind.
// The value must be non-empty and contain at least one
// non-whitespace character.
func NewFilePath(value string, kind PathKind) (FilePath, error) {
	if strings.TrimSpace(value) == "" {
		return FilePath{}, fmt.Errorf("file path must not be empty or whitespace-only")
	}
	if !kind.IsValid() {
		return FilePath{}, fmt.Errorf("invalid path kind: %q", kind)
	}
	return FilePath{value: value, kind: kind}, nil
}

// DetectFilePath constructs a FilePath, inferring the kind from the
// value itself via filepath.IsAbs. Used when the caller has a raw path
// string and no format preference.
func DetectFilePath(value string) (FilePath, error) {
	kind := PathRelative
	if filepath.IsAbs(value) {
		kind = PathAbsolute
	}
	return NewFilePath(value, kind)
}

// Value returns the path string.
func (p FilePath) Value() string {
	return p.value
}

// Kind returns the absolute/relative tag.
func (p FilePath) Kind() PathKind {
	return p.kind
}

// Equal reports whether two FilePaths are identical. Both the string
// value and the kind tag must match.
func (p FilePath) Equal(other FilePath) bool {
	return p.value == other.value && p.kind == other.kind
}

// String returns the path string, satisfying fmt.Stringer.
func (p FilePath) String() string {
	return p.value
}

// LineRange is an inclusive 1-based line span within a file.
//
// Invariants: start ≥ 1, end ≥ 1, start ≤ end. A single selected line
// is represented with start == end, never by omitting the range.
type LineRange struct {
	start int
	end   int
}

// NewLineRange constructs a LineRange from 1-based inclusive endpoints.
// Returns an error when either endpoint is below 1 or start exceeds end.
func NewLineRange(start, end int) (LineRange, error) {
	if start < 1 {
		return LineRange{}, fmt.Errorf("line range start %d is below 1", start)
	}
	if end < 1 {
		return LineRange{}, fmt.Errorf("line range end %d is below 1", end)
	}
	if start > end {
		return LineRange{}, fmt.Errorf("line range start %d exceeds end %d", start, end)
	}
	return LineRange{start: start, end: end}, nil
}

// LineRangeFromZeroBased constructs a LineRange from 0-based endpoints
// as reported by editor selections, shifting each endpoint by +1.
// LineRangeFromZeroBased(a, b) is identical to NewLineRange(a+1, b+1).
func LineRangeFromZeroBased(start, end int) (LineRange, error) {
	return NewLineRange(start+1, end+1)
}

// Start returns the 1-based first line of the range.
func (r LineRange) Start() int {
	return r.start
}

// End returns the 1-based last line of the range (inclusive).
func (r LineRange) End() int {
	return r.end
}

// IsSingleLine reports whether the range spans exactly one line.
func (r LineRange) IsSingleLine() bool {
	return r.start == r.end
}

// Lines returns the number of lines covered by the range.
func (r LineRange) Lines() int {
	return r.end - r.start + 1
}

// Equal reports whether two LineRanges cover the same span.
func (r LineRange) Equal(other LineRange) bool {
	return r.start == other.start && r.end == other.end
}

// String returns a human-readable "start:end" form for logging.
func (r LineRange) String() string {
	return fmt.Sprintf("%d:%d", r.start, r.end)
}

// FileReference pairs a FilePath with an optional LineRange. It is the
// input to the token formatter and the only aggregate this tool builds.
//
// Lifecycle: constructed fresh for every command from the live
// selection, never mutated, never persisted, discarded after the token
// string is produced.
type FileReference struct {
	path      FilePath
	lineRange *LineRange
}

// NewFileReference constructs a reference without a line range.
func NewFileReference(path FilePath) FileReference {
	return FileReference{path: path}
}

// NewFileReferenceWithRange constructs a reference covering a line span.
func NewFileReferenceWithRange(path FilePath, r LineRange) FileReference {
	return FileReference{path: path, lineRange: &r}
}

// Path returns the referenced file path.
func (f FileReference) Path() FilePath {
	return f.path
}

// Range returns the line range and whether one is present.
func (f FileReference) Range() (LineRange, bool) {
	if f.lineRange == nil {
		return LineRange{}, false
	}
	return *f.lineRange, true
}

// HasRange reports whether the reference carries a line range.
func (f FileReference) HasRange() bool {
	return f.lineRange != nil
}

// ExitCode defines standard CLI exit codes. These codes allow editor
// integrations and scripts to programmatically determine the outcome
// of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully. This
	// includes the "no active file" outcome, which is a warning rather
	// than a failure.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidReference indicates the reference value objects could
	// not be constructed (empty path, inverted line range).
	ExitInvalidReference ExitCode = 2

	// ExitClipboardError indicates the reference token could not be
	// written to the system clipboard. The clipboard write is the one
	// capability call the command cannot degrade around.
	ExitClipboardError ExitCode = 3

	// ExitConfigError indicates the settings file could not be parsed.
	ExitConfigError ExitCode = 4

	// ExitTerminalError indicates a terminal session could not be
	// created when the command's whole purpose was to create one
	// (the new-session command).
	ExitTerminalError ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
