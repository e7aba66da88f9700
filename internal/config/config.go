// Package config loads amanels settings from defaults, YAML or TOML files
// and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/amanels/internal/sequence"
)

// ProjectFileNames are the per-directory config files, in lookup order.
var ProjectFileNames = []string{".amanels.yaml", ".amanels.yml", ".amanels.toml"}

// Config represents the complete amanels configuration.
type Config struct {
	Version int           `yaml:"version" toml:"version" json:"version"`
	Search  SearchConfig  `yaml:"search" toml:"search" json:"search"`
	Output  OutputConfig  `yaml:"output" toml:"output" json:"output"`
	History HistoryConfig `yaml:"history" toml:"history" json:"history"`
	Cache   CacheConfig   `yaml:"cache" toml:"cache" json:"cache"`
	Server  ServerConfig  `yaml:"server" toml:"server" json:"server"`
}

// SearchConfig holds the default search parameters. Flags override them per run.
type SearchConfig struct {
	// Language is a language name, an alias, or "auto".
	Language string `yaml:"language" toml:"language" json:"language"`

	// FromSkip is the smallest skip searched.
	FromSkip int `yaml:"from_skip" toml:"from_skip" json:"from_skip"`

	// ToSkip is the exclusive largest skip. -1 means the whole range.
	ToSkip int `yaml:"to_skip" toml:"to_skip" json:"to_skip"`

	// Proximity clusters hits when >= 0. -1 disables it.
	Proximity int `yaml:"proximity" toml:"proximity" json:"proximity"`

	// Workers caps parallel skip workers per position. 0 means one per skip.
	Workers int `yaml:"workers" toml:"workers" json:"workers"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	// Format is text, rtf or json.
	Format string `yaml:"format" toml:"format" json:"format"`

	// Width is the grid row width. 0 uses the first hit's skip.
	Width int `yaml:"width" toml:"width" json:"width"`

	// Color is auto, always or never.
	Color string `yaml:"color" toml:"color" json:"color"`
}

// HistoryConfig controls the saved-search store.
type HistoryConfig struct {
	Enabled    bool   `yaml:"enabled" toml:"enabled" json:"enabled"`
	Path       string `yaml:"path" toml:"path" json:"path"`
	MaxEntries int    `yaml:"max_entries" toml:"max_entries" json:"max_entries"`
}

// CacheConfig bounds in-memory corpus caching.
type CacheConfig struct {
	// CorpusSize is the number of normalized corpora kept in memory.
	CorpusSize int `yaml:"corpus_size" toml:"corpus_size" json:"corpus_size"`

	// MaxCorpusMB rejects corpus files larger than this.
	MaxCorpusMB int `yaml:"max_corpus_mb" toml:"max_corpus_mb" json:"max_corpus_mb"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Transport string `yaml:"transport" toml:"transport" json:"transport"`
	LogLevel  string `yaml:"log_level" toml:"log_level" json:"log_level"`
}

// NewConfig creates a new Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Search: SearchConfig{
			Language:  "auto",
			FromSkip:  sequence.DefaultFromSkip,
			ToSkip:    sequence.Unset,
			Proximity: sequence.Unset,
			Workers:   0,
		},
		Output: OutputConfig{
			Format: "text",
			Width:  0,
			Color:  "auto",
		},
		History: HistoryConfig{
			Enabled:    true,
			Path:       filepath.Join(DataDir(), "history.db"),
			MaxEntries: 500,
		},
		Cache: CacheConfig{
			CorpusSize:  8,
			MaxCorpusMB: 64,
		},
		Server: ServerConfig{
			Transport: "stdio",
			LogLevel:  "info",
		},
	}
}

// SearchOptions converts the search section into engine options over the
// whole text.
func (c *Config) SearchOptions() sequence.Options {
	return sequence.Options{
		Start:     0,
		Stop:      sequence.Unset,
		FromSkip:  c.Search.FromSkip,
		ToSkip:    c.Search.ToSkip,
		Proximity: c.Search.Proximity,
		Workers:   c.Search.Workers,
	}
}

// DataDir returns the amanels data directory: $AMANELS_HOME or ~/.amanels.
func DataDir() string {
	if dir := os.Getenv("AMANELS_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".amanels")
	}
	return filepath.Join(home, ".amanels")
}

// GetUserConfigPath returns the user configuration file, following XDG:
//   - $XDG_CONFIG_HOME/amanels/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/amanels/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "amanels", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "amanels", "config.yaml")
	}
	return filepath.Join(home, ".config", "amanels", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// FindProjectFile returns the project config file in dir, or "" if none.
func FindProjectFile(dir string) string {
	for _, name := range ProjectFileNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// Load loads configuration for the given working directory.
// Sources apply in order of increasing precedence:
//  1. Defaults
//  2. User config (~/.config/amanels/config.yaml)
//  3. Project config (.amanels.yaml in dir)
//  4. Environment variables (AMANELS_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if path := GetUserConfigPath(); fileExists(path) {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	if path := FindProjectFile(dir); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFile overlays a single config file onto the defaults, without env
// overrides or validation.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays a YAML or TOML file onto c. Keys absent from the file
// keep their current values, so an explicit 0 (a valid proximity) still applies.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	parsed := *c
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &parsed)
	} else {
		err = yaml.Unmarshal(data, &parsed)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	*c = parsed
	return nil
}

// applyEnvOverrides applies AMANELS_* environment variable overrides.
// Malformed numbers are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AMANELS_LANGUAGE"); v != "" {
		c.Search.Language = v
	}
	envInt("AMANELS_FROM_SKIP", &c.Search.FromSkip)
	envInt("AMANELS_TO_SKIP", &c.Search.ToSkip)
	envInt("AMANELS_PROXIMITY", &c.Search.Proximity)
	envInt("AMANELS_WORKERS", &c.Search.Workers)

	if v := os.Getenv("AMANELS_FORMAT"); v != "" {
		c.Output.Format = v
	}
	envInt("AMANELS_WIDTH", &c.Output.Width)
	if v := os.Getenv("AMANELS_COLOR"); v != "" {
		c.Output.Color = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.Output.Color = "never"
	}

	if v := os.Getenv("AMANELS_HISTORY"); v != "" {
		c.History.Enabled = parseBool(v)
	}
	if v := os.Getenv("AMANELS_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}

	if v := os.Getenv("AMANELS_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("AMANELS_TRANSPORT"); v != "" {
		c.Server.Transport = v
	}
}

func envInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		*dst = n
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Search.FromSkip < 1 {
		return fmt.Errorf("search.from_skip must be at least 1, got %d", c.Search.FromSkip)
	}
	if c.Search.ToSkip < sequence.Unset {
		return fmt.Errorf("search.to_skip must be -1 or a skip, got %d", c.Search.ToSkip)
	}
	if c.Search.Proximity < sequence.Unset {
		return fmt.Errorf("search.proximity must be -1 (off) or non-negative, got %d", c.Search.Proximity)
	}
	if c.Search.Workers < 0 {
		return fmt.Errorf("search.workers must be non-negative, got %d", c.Search.Workers)
	}

	validFormats := map[string]bool{"text": true, "rtf": true, "json": true}
	if !validFormats[strings.ToLower(c.Output.Format)] {
		return fmt.Errorf("output.format must be 'text', 'rtf' or 'json', got %s", c.Output.Format)
	}
	if c.Output.Width < 0 {
		return fmt.Errorf("output.width must be non-negative, got %d", c.Output.Width)
	}
	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[strings.ToLower(c.Output.Color)] {
		return fmt.Errorf("output.color must be 'auto', 'always' or 'never', got %s", c.Output.Color)
	}

	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must be non-negative, got %d", c.History.MaxEntries)
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}

	if c.Cache.CorpusSize < 0 || c.Cache.MaxCorpusMB < 0 {
		return fmt.Errorf("cache sizes must be non-negative")
	}

	if strings.ToLower(c.Server.Transport) != "stdio" {
		return fmt.Errorf("server.transport must be 'stdio', got %s", c.Server.Transport)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
