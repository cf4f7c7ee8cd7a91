// Package config loads leadbook settings from JSON files: the global
// ~/.leadbook/config.json and the nearest .leadbook/config.json above the
// working directory.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DirName is the name of the leadbook data directory, under $HOME and in repos.
const DirName = ".leadbook"

// ExportsDirName is the default spreadsheet directory inside DirName.
const ExportsDirName = "exports"

// FileName is the config file inside DirName.
const FileName = "config.json"

// HomeEnv names the environment variable that relocates the data directory.
const HomeEnv = "LEADBOOK_HOME"

var (
	exportFormats = []string{"xlsx", "csv"}
	logLevels     = []string{"debug", "info", "warn", "error"}
)

// Config holds application configuration.
type Config struct {
	// AllowedPaths lists extra directories spreadsheets may be imported from
	// or exported to, besides ~/.leadbook/exports. Relative entries are ignored.
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths lifts the directory restriction. Extension and symlink
	// checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns and DBMaxIdleConns tune the SQLite pool; 0 keeps the
	// database/sql default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// WhatsAppCountryCode is prefixed to numbers without one in wa.me links.
	WhatsAppCountryCode string `json:"whatsapp_country_code,omitempty"`

	// ExportFormat is the spreadsheet format used when export gets no path
	// or --format: "xlsx" or "csv".
	ExportFormat string `json:"export_format,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:            "info",
		WhatsAppCountryCode: "55",
		ExportFormat:        "xlsx",
	}
}

// BaseDir returns $LEADBOOK_HOME, or ~/.leadbook when it is unset.
func BaseDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, DirName), nil
}

// Load reads baseDir/config.json over the defaults. A missing file is not an error.
func Load(baseDir string) (*Config, error) {
	return LoadWithRepo(baseDir, "")
}

// LoadWithRepo layers defaults, the global config in globalDir, and the repo
// config found by walking up from startDir (skipped when startDir is "").
// Later layers win for scalars; allowed_paths accumulate.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	cfg := DefaultConfig()
	for _, path := range []string{filepath.Join(globalDir, FileName), FindRepoConfig(startDir)} {
		layer, err := readFile(path)
		if err != nil {
			return nil, err
		}
		cfg = Merge(cfg, layer)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindRepoConfig walks upward from startDir to the nearest .leadbook/config.json.
// Returns "" if there is none.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	for dir := startDir; ; {
		candidate := filepath.Join(dir, DirName, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// readFile decodes one config file. A missing file yields an empty layer.
func readFile(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot use.
func (c *Config) Validate() error {
	if c.ExportFormat != "" && !slices.Contains(exportFormats, c.ExportFormat) {
		return fmt.Errorf("export_format %q: want one of %v", c.ExportFormat, exportFormats)
	}
	if c.LogLevel != "" && !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("log_level %q: want one of %v", c.LogLevel, logLevels)
	}
	if strings.ContainsFunc(c.WhatsAppCountryCode, func(r rune) bool { return r < '0' || r > '9' }) {
		return fmt.Errorf("whatsapp_country_code %q: digits only", c.WhatsAppCountryCode)
	}
	if c.DBMaxOpenConns < 0 || c.DBMaxIdleConns < 0 {
		return errors.New("db_max_open_conns and db_max_idle_conns must not be negative")
	}
	return nil
}

// Merge returns base overlaid with overlay. Non-empty overlay scalars win,
// booleans are OR-ed, and allowed_paths are concatenated without duplicates.
func Merge(base, overlay *Config) *Config {
	return &Config{
		AllowedPaths:        mergePaths(base.AllowedPaths, overlay.AllowedPaths),
		AllowUnsafePaths:    base.AllowUnsafePaths || overlay.AllowUnsafePaths,
		DBMaxOpenConns:      pick(base.DBMaxOpenConns, overlay.DBMaxOpenConns),
		DBMaxIdleConns:      pick(base.DBMaxIdleConns, overlay.DBMaxIdleConns),
		LogLevel:            pick(strings.TrimSpace(base.LogLevel), strings.TrimSpace(overlay.LogLevel)),
		WhatsAppCountryCode: pick(strings.TrimSpace(base.WhatsAppCountryCode), strings.TrimSpace(overlay.WhatsAppCountryCode)),
		ExportFormat:        strings.ToLower(pick(strings.TrimSpace(base.ExportFormat), strings.TrimSpace(overlay.ExportFormat))),
	}
}

// pick returns overlay unless it is the zero value.
func pick[T comparable](base, overlay T) T {
	var zero T
	if overlay != zero {
		return overlay
	}
	return base
}

func mergePaths(a, b []string) []string {
	var out []string
	for _, p := range slices.Concat(a, b) {
		p = strings.TrimSpace(p)
		if p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}
