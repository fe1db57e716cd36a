// Package reference builds the file reference token.
//
// The token is the only externally observed artifact of the tool and its
// format is fixed: "@[<path>]" for a whole file, "@[<path>:<start>:<end>]"
// for a 1-based inclusive line span. Inputs are not re-validated here —
// the model package's constructors already guarantee non-empty paths and
// ordered ranges, so formatting has no error path.
//
// The package also resolves raw path arguments into the absolute or
// working-directory-relative form the configuration asks for.
package reference
