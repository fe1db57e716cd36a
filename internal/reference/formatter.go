package reference

import (
	"fmt"
	"path/filepath"

	"github.com/mmr-tortoise/atref/internal/model"
)

// Token formats a FileReference into its wire form.
//
// Without a line range the token is "@[<path>]". With one it is
// "@[<path>:<start>:<end>]" where start and end are the 1-based
// inclusive endpoints — a single selected line yields identical start
// and end, never a bare path. The output must stay bit-exact: the
// companion CLI parses these tokens.
func Token(ref model.FileReference) string {
	if rng, ok := ref.Range(); ok {
		return fmt.Sprintf("@[%s:%d:%d]", ref.Path().Value(), rng.Start(), rng.End())
	}
	return fmt.Sprintf("@[%s]", ref.Path().Value())
}

// Resolve converts a raw path argument into a FilePath of the requested
// kind. Relative resolution is anchored at baseDir (the working
// directory in practice); absolute resolution goes through filepath.Abs
// against the same base.
//
// A raw path outside baseDir still resolves in relative mode — the
// result just contains ".." segments, which the companion CLI accepts.
func Resolve(raw string, kind model.PathKind, baseDir string) (model.FilePath, error) {
	if raw == "" {
		return model.FilePath{}, fmt.Errorf("file path must not be empty")
	}

	// Normalize to absolute first so both output kinds start from the
	// same canonical form regardless of how the argument was spelled.
	abs := raw
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(baseDir, raw)
	}
	abs = filepath.Clean(abs)

	switch kind {
	case model.PathAbsolute:
		return model.NewFilePath(abs, model.PathAbsolute)

	case model.PathRelative:
		rel, err := filepath.Rel(baseDir, abs)
		if err != nil {
			// Different volume roots (Windows) make Rel fail; fall back
			// to the absolute form rather than losing the reference.
			return model.NewFilePath(abs, model.PathAbsolute)
		}
		return model.NewFilePath(rel, model.PathRelative)

	default:
		return model.FilePath{}, fmt.Errorf("invalid path kind: %q", kind)
	}
}

// Build assembles a FileReference from a raw path, an optional 1-based
// line range, and the requested path format. It is the single
// construction point used by every command.
func Build(raw string, rng *model.LineRange, kind model.PathKind, baseDir string) (model.FileReference, error) {
	path, err := Resolve(raw, kind, baseDir)
	if err != nil {
		return model.FileReference{}, err
	}
	if rng != nil {
		return model.NewFileReferenceWithRange(path, *rng), nil
	}
	return model.NewFileReference(path), nil
}
