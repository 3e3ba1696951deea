// Package config loads dcg's main configuration file: which packs are
// enabled and how the heredoc/inline-script scanner behaves. Allowlist
// entries live in their own file and
// are handled by internal/allowlist.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/dgerlanc/dcg/internal/constants"
	"github.com/dgerlanc/dcg/internal/logger"
)

// Heredoc holds the [heredoc] table.
type Heredoc struct {
	Enabled         bool     `toml:"enabled"`
	TimeoutMs       int      `toml:"timeout_ms"`
	FallbackOnError bool     `toml:"fallback_on_error"`
	Languages       []string `toml:"languages"`
}

// packsTable holds the [packs] table.
type packsTable struct {
	Enabled []string `toml:"enabled"`
}

// fileModel is the raw TOML shape of config.toml.
type fileModel struct {
	Packs   packsTable `toml:"packs"`
	Heredoc Heredoc    `toml:"heredoc"`
}

// Config is the parsed, defaulted configuration.
type Config struct {
	// EnabledPackPrefixes feeds packs.NewRegistry directly: pack ids or
	// dotted category prefixes. Empty means "enable everything".
	EnabledPackPrefixes []string
	Heredoc             Heredoc
}

// Default returns the configuration used when no config file exists or
// it fails to parse: every pack enabled, heredoc scanning on with a
// budget-respecting timeout.
func Default() *Config {
	return &Config{
		EnabledPackPrefixes: nil,
		Heredoc: Heredoc{
			Enabled:         true,
			TimeoutMs:       constants.HeredocBudgetMs,
			FallbackOnError: true,
			Languages:       []string{"shell", "python", "ruby", "js", "perl"},
		},
	}
}

var (
	global     *Config
	initDone   bool
	initErr    error
)

// Dir resolves the config directory: DCG_CONFIG if set, otherwise
// ~/.config/dcg (XDG layout).
func Dir() (string, error) {
	if dir := os.Getenv(constants.EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, constants.XDGConfigSubdir, constants.AppName), nil
}

// Path returns the resolved path to config.toml.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// Load parses config.toml at path, applying Default() for any table the
// file omits. A missing file is not an error; it yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var model fileModel
	md, err := toml.Decode(string(data), &model)
	if err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if len(model.Packs.Enabled) > 0 {
		cfg.EnabledPackPrefixes = model.Packs.Enabled
	}
	if md.IsDefined("heredoc") {
		// The [heredoc] table was present in some form; take it as a
		// whole rather than merging field-by-field, so an explicit
		// `enabled = false` is honored instead of being masked by the
		// zero-value default of true.
		cfg.Heredoc = model.Heredoc
		if cfg.Heredoc.TimeoutMs == 0 {
			cfg.Heredoc.TimeoutMs = constants.HeredocBudgetMs
		}
	}

	return cfg, nil
}

// Init loads the global configuration once, falling back to Default()
// on any error and remembering that error for `dcg doctor` to report.
func Init() error {
	if initDone {
		return initErr
	}
	path, err := Path()
	if err != nil {
		logger.Warn("failed to resolve config path, using defaults", "error", err)
		global = Default()
		initErr = err
		initDone = true
		return err
	}
	cfg, err := Load(path)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", path, "error", err)
	}
	global = cfg
	initErr = err
	initDone = true
	return err
}

// Get returns the global configuration, initializing it from disk on
// first use.
func Get() *Config {
	if !initDone {
		Init()
	}
	return global
}

// InitError returns the error (if any) encountered the last time Init
// ran, used by the audit log's config_error field.
func InitError() error {
	return initErr
}

// Reset clears the global configuration state. Used by tests.
func Reset() {
	initDone = false
	initErr = nil
	global = nil
}

// EnsureDir creates the config directory if it does not already exist.
func EnsureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, constants.DirMode); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}
