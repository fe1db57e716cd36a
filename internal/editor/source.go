package editor

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mmr-tortoise/atref/internal/model"
)

// Environment variables set by editor integrations when they invoke
// atref without explicit arguments.
const (
	// EnvActiveFile carries the path of the file open in the editor.
	EnvActiveFile = "ATREF_ACTIVE_FILE"

	// EnvSelection carries the selected line span as "start:end" with
	// 0-based endpoints (editor-native numbering), or "start" for a
	// cursor without a selection.
	EnvSelection = "ATREF_SELECTION"
)

// Source yields the active file and selection for one invocation.
// Absence of an active file is a normal outcome, not an error.
type Source interface {
	// ActiveFile returns the file path and whether one is active.
	ActiveFile() (string, bool)

	// Selection returns the selected line range and whether the
	// selection is non-empty. A cursor with no selection reports false.
	Selection() (model.LineRange, bool)
}

// Static is a Source with fixed values, built by the CLI layer from the
// positional argument and --lines flag.
type Static struct {
	file      string
	selection *model.LineRange
}

// NewStatic builds a Source from explicit values. An empty file means
// "no active file"; a nil selection means "whole file".
func NewStatic(file string, selection *model.LineRange) *Static {
	return &Static{file: file, selection: selection}
}

// ActiveFile returns the fixed file path, if any.
func (s *Static) ActiveFile() (string, bool) {
	if strings.TrimSpace(s.file) == "" {
		return "", false
	}
	return s.file, true
}

// Selection returns the fixed line range, if any.
func (s *Static) Selection() (model.LineRange, bool) {
	if s.selection == nil {
		return model.LineRange{}, false
	}
	return *s.selection, true
}

// Env reads the active file and selection from the ATREF_ACTIVE_FILE /
// ATREF_SELECTION environment variables.
type Env struct{}

// NewEnv returns the environment-backed Source.
func NewEnv() *Env {
	return &Env{}
}

// ActiveFile returns the path from ATREF_ACTIVE_FILE, if set.
func (e *Env) ActiveFile() (string, bool) {
	file := strings.TrimSpace(os.Getenv(EnvActiveFile))
	if file == "" {
		return "", false
	}
	return file, true
}

// Selection parses ATREF_SELECTION as 0-based endpoints. A missing or
// malformed value reports "no selection" rather than failing — a bad
// integration variable must not break the whole-file copy.
func (e *Env) Selection() (model.LineRange, bool) {
	spec := strings.TrimSpace(os.Getenv(EnvSelection))
	if spec == "" {
		return model.LineRange{}, false
	}
	rng, err := ParseLineSpec(spec, true)
	if err != nil {
		return model.LineRange{}, false
	}
	return rng, true
}

// ParseLineSpec parses a "start:end" or bare "start" line specification
// into a LineRange. With zeroBased the endpoints are editor-native
// 0-based values and get shifted by +1; otherwise they are taken as
// 1-based directly. A bare "start" spans that single line.
func ParseLineSpec(spec string, zeroBased bool) (model.LineRange, error) {
	parts := strings.SplitN(spec, ":", 2)

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return model.LineRange{}, fmt.Errorf("invalid line spec %q: %w", spec, err)
	}

	end := start
	if len(parts) == 2 {
		end, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return model.LineRange{}, fmt.Errorf("invalid line spec %q: %w", spec, err)
		}
	}

	if zeroBased {
		return model.LineRangeFromZeroBased(start, end)
	}
	return model.NewLineRange(start, end)
}
