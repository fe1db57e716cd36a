package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/atref/internal/model"
)

// envPrefix is the prefix for environment variable overrides
// (ATREF_AUTO_PASTE, ATREF_PASTE_DELAY_MS, ...).
const envPrefix = "atref"

// fileSettings is the raw shape of a settings file. Every field is a
// pointer so that absent keys leave the corresponding default (or a
// lower layer's value) untouched.
type fileSettings struct {
	ReferenceFormat  *string        `json:"referenceFormat,omitempty" yaml:"referenceFormat,omitempty"`
	OpenTerminal     *string        `json:"openTerminal,omitempty" yaml:"openTerminal,omitempty"`
	AutoPaste        *bool          `json:"autoPaste,omitempty" yaml:"autoPaste,omitempty"`
	PasteDelayMs     *int           `json:"pasteDelayMs,omitempty" yaml:"pasteDelayMs,omitempty"`
	Notifications    *Notifications `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	CompanionCommand *string        `json:"companionCommand,omitempty" yaml:"companionCommand,omitempty"`
	SessionPrefix    *string        `json:"sessionPrefix,omitempty" yaml:"sessionPrefix,omitempty"`
}

// envSettings maps ATREF_* environment variables onto the settings.
// Pointer fields distinguish "not set" from explicit zero values.
type envSettings struct {
	ReferenceFormat  *string `envconfig:"REFERENCE_FORMAT"`
	OpenTerminal     *string `envconfig:"OPEN_TERMINAL"`
	AutoPaste        *bool   `envconfig:"AUTO_PASTE"`
	PasteDelayMs     *int    `envconfig:"PASTE_DELAY_MS"`
	NotifyInfo       *bool   `envconfig:"NOTIFY_INFO"`
	NotifyWarning    *bool   `envconfig:"NOTIFY_WARNING"`
	NotifyError      *bool   `envconfig:"NOTIFY_ERROR"`
	CompanionCommand *string `envconfig:"COMPANION_COMMAND"`
	SessionPrefix    *string `envconfig:"SESSION_PREFIX"`
}

// fileNames are the settings file names probed in each search
// directory, in priority order.
var fileNames = []string{
	".atref.jsonc",
	".atref.json",
	".atref.yaml",
	".atref.yml",
}

// Load resolves the settings for the current invocation.
//
// workDir is the directory the command runs in; it anchors both the
// settings file search and the optional .env file. Missing files are
// not errors — only unreadable or malformed ones are.
func Load(workDir string) (Settings, error) {
	settings := Default()

	// Layer 2: settings file. First match wins across the working
	// directory and the user config directory.
	path, found := findSettingsFile(workDir)
	if found {
		if err := applyFile(&settings, path); err != nil {
			return Settings{}, model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("failed to load settings file %s", path), err)
		}
	}

	// Layer 3: .env in the working directory, if present. godotenv does
	// not overwrite variables already set in the environment, so real
	// environment variables still win in the next layer.
	envFile := filepath.Join(workDir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	// Layer 4: ATREF_* environment variables.
	var env envSettings
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return Settings{}, model.WrapCLIError(model.ExitConfigError,
			"failed to read ATREF_* environment variables", err)
	}
	if err := applyEnv(&settings, env); err != nil {
		return Settings{}, model.WrapCLIError(model.ExitConfigError,
			"invalid ATREF_* environment variable", err)
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, model.WrapCLIError(model.ExitConfigError,
			"invalid settings", err)
	}
	return settings, nil
}

// findSettingsFile probes the known settings file names in the working
// directory first and the user config directory second.
func findSettingsFile(workDir string) (string, bool) {
	dirs := []string{workDir}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "atref"))
	}

	for _, dir := range dirs {
		for _, name := range fileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
	}
	return "", false
}

// applyFile parses a settings file and overlays its values. The format
// is chosen by extension: .yaml/.yml via yaml.v3, everything else via
// the JSONC pipeline (comment stripping, then encoding/json).
func applyFile(settings *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw fileSettings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		// jsonc.ToJSON strips comments and trailing commas, producing
		// plain JSON the standard decoder accepts.
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if raw.ReferenceFormat != nil {
		kind, err := model.ParsePathKind(*raw.ReferenceFormat)
		if err != nil {
			return err
		}
		settings.ReferenceFormat = kind
	}
	if raw.OpenTerminal != nil {
		mode, err := ParseOpenTerminalMode(*raw.OpenTerminal)
		if err != nil {
			return err
		}
		settings.OpenTerminal = mode
	}
	if raw.AutoPaste != nil {
		settings.AutoPaste = *raw.AutoPaste
	}
	if raw.PasteDelayMs != nil {
		settings.PasteDelayMs = *raw.PasteDelayMs
	}
	if raw.Notifications != nil {
		settings.Notifications = *raw.Notifications
	}
	if raw.CompanionCommand != nil {
		settings.CompanionCommand = *raw.CompanionCommand
	}
	if raw.SessionPrefix != nil {
		settings.SessionPrefix = *raw.SessionPrefix
	}
	return nil
}

// applyEnv overlays ATREF_* environment values on top of whatever the
// file layer produced.
func applyEnv(settings *Settings, env envSettings) error {
	if env.ReferenceFormat != nil {
		kind, err := model.ParsePathKind(*env.ReferenceFormat)
		if err != nil {
			return err
		}
		settings.ReferenceFormat = kind
	}
	if env.OpenTerminal != nil {
		mode, err := ParseOpenTerminalMode(*env.OpenTerminal)
		if err != nil {
			return err
		}
		settings.OpenTerminal = mode
	}
	if env.AutoPaste != nil {
		settings.AutoPaste = *env.AutoPaste
	}
	if env.PasteDelayMs != nil {
		settings.PasteDelayMs = *env.PasteDelayMs
	}
	if env.NotifyInfo != nil {
		settings.Notifications.Info = env.NotifyInfo
	}
	if env.NotifyWarning != nil {
		settings.Notifications.Warning = env.NotifyWarning
	}
	if env.NotifyError != nil {
		settings.Notifications.Error = env.NotifyError
	}
	if env.CompanionCommand != nil {
		settings.CompanionCommand = *env.CompanionCommand
	}
	if env.SessionPrefix != nil {
		settings.SessionPrefix = *env.SessionPrefix
	}
	return nil
}
