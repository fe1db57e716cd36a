// Package config loads the atref settings.
//
// Settings come from four layers, lowest to highest precedence:
//
//  1. built-in defaults
//  2. a settings file — .atref.jsonc/.atref.json (JSONC, comments
//     allowed) or .atref.yaml/.atref.yml — searched in the working
//     directory and then in ~/.config/atref/
//  3. an optional .env file in the working directory
//  4. ATREF_-prefixed environment variables
//
// JSONC support uses github.com/tidwall/jsonc to strip comments before
// parsing with the standard encoding/json library, the same pipeline
// editors use for their own settings files.
package config
