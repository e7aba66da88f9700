package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanels/internal/sequence"
)

// isolate points every config source at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "xdg"))
	t.Setenv("AMANELS_HOME", filepath.Join(tmp, "home"))
	for _, k := range []string{
		"AMANELS_LANGUAGE", "AMANELS_FROM_SKIP", "AMANELS_TO_SKIP", "AMANELS_PROXIMITY",
		"AMANELS_WORKERS", "AMANELS_FORMAT", "AMANELS_WIDTH", "AMANELS_COLOR",
		"AMANELS_HISTORY", "AMANELS_HISTORY_PATH", "AMANELS_LOG_LEVEL", "AMANELS_TRANSPORT",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
	return tmp
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	// Given: an isolated data directory
	tmp := isolate(t)

	// When: creating defaults
	cfg := NewConfig()

	// Then: search spans the whole text from skip 2 with proximity off
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "auto", cfg.Search.Language)
	assert.Equal(t, 2, cfg.Search.FromSkip)
	assert.Equal(t, sequence.Unset, cfg.Search.ToSkip)
	assert.Equal(t, sequence.Unset, cfg.Search.Proximity)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(tmp, "home", "history.db"), cfg.History.Path)
	assert.Equal(t, "stdio", cfg.Server.Transport)
	require.NoError(t, cfg.Validate())
}

func TestConfig_SearchOptions(t *testing.T) {
	cfg := NewConfig()
	cfg.Search.FromSkip = 3
	cfg.Search.ToSkip = 50
	cfg.Search.Proximity = 0
	cfg.Search.Workers = 4

	opts := cfg.SearchOptions()

	assert.Equal(t, sequence.Options{Start: 0, Stop: sequence.Unset, FromSkip: 3, ToSkip: 50, Proximity: 0, Workers: 4}, opts)
}

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	tmp := isolate(t)

	cfg, err := Load(tmp)

	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_ProjectFileOverridesUserFile(t *testing.T) {
	// Given: a user config and a project config
	tmp := isolate(t)
	user := GetUserConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(user), 0o755))
	require.NoError(t, os.WriteFile(user, []byte("search:\n  from_skip: 5\n  to_skip: 100\noutput:\n  format: rtf\n"), 0o644))

	project := filepath.Join(tmp, "project")
	require.NoError(t, os.MkdirAll(project, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(project, ".amanels.yaml"),
		[]byte("search:\n  to_skip: 40\n  proximity: 0\n"), 0o644))

	// When: loading
	cfg, err := Load(project)
	require.NoError(t, err)

	// Then: project values win, user values fill the rest, zero is honored
	assert.Equal(t, 5, cfg.Search.FromSkip)
	assert.Equal(t, 40, cfg.Search.ToSkip)
	assert.Equal(t, 0, cfg.Search.Proximity)
	assert.Equal(t, "rtf", cfg.Output.Format)
	assert.Equal(t, "auto", cfg.Search.Language)
}

func TestLoad_YmlFallback(t *testing.T) {
	tmp := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".amanels.yml"), []byte("search:\n  language: hebrew\n"), 0o644))

	cfg, err := Load(tmp)

	require.NoError(t, err)
	assert.Equal(t, "hebrew", cfg.Search.Language)
	assert.Equal(t, filepath.Join(tmp, ".amanels.yml"), FindProjectFile(tmp))
}

func TestLoad_TOMLProjectFile(t *testing.T) {
	// Given: a TOML project file that sets proximity to an explicit 0
	tmp := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".amanels.toml"),
		[]byte("[search]\nlanguage = \"greek\"\nproximity = 0\n\n[output]\nwidth = 30\n"), 0o644))

	// When: loading
	cfg, err := Load(tmp)

	// Then: the TOML values overlay the defaults
	require.NoError(t, err)
	assert.Equal(t, "greek", cfg.Search.Language)
	assert.Equal(t, 0, cfg.Search.Proximity)
	assert.Equal(t, 30, cfg.Output.Width)
	assert.Equal(t, sequence.DefaultFromSkip, cfg.Search.FromSkip)
}

func TestLoad_YAMLWinsOverTOML(t *testing.T) {
	tmp := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".amanels.toml"), []byte("[search]\nfrom_skip = 4\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".amanels.yaml"), []byte("search:\n  from_skip: 3\n"), 0o644))

	assert.Equal(t, filepath.Join(tmp, ".amanels.yaml"), FindProjectFile(tmp))
}

func TestLoadFile_InvalidTOML(t *testing.T) {
	tmp := isolate(t)
	path := filepath.Join(tmp, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[search\n"), 0o644))

	_, err := LoadFile(path)

	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	// Given: a project file and env overrides
	tmp := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".amanels.yaml"), []byte("search:\n  from_skip: 5\n"), 0o644))
	t.Setenv("AMANELS_FROM_SKIP", "7")
	t.Setenv("AMANELS_PROXIMITY", "3")
	t.Setenv("AMANELS_LANGUAGE", "greek")
	t.Setenv("AMANELS_HISTORY", "off")
	t.Setenv("AMANELS_WORKERS", "not-a-number")
	t.Setenv("NO_COLOR", "1")

	// When: loading
	cfg, err := Load(tmp)
	require.NoError(t, err)

	// Then: env wins and malformed values are ignored
	assert.Equal(t, 7, cfg.Search.FromSkip)
	assert.Equal(t, 3, cfg.Search.Proximity)
	assert.Equal(t, "greek", cfg.Search.Language)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 0, cfg.Search.Workers)
	assert.Equal(t, "never", cfg.Output.Color)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmp := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".amanels.yaml"), []byte("search: [unclosed"), 0o644))

	_, err := Load(tmp)

	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tmp := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".amanels.yaml"), []byte("search:\n  from_skip: 0\n"), 0o644))

	_, err := Load(tmp)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "from_skip")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"to_skip below unset", func(c *Config) { c.Search.ToSkip = -2 }, "to_skip"},
		{"proximity below unset", func(c *Config) { c.Search.Proximity = -5 }, "proximity"},
		{"negative workers", func(c *Config) { c.Search.Workers = -1 }, "workers"},
		{"bad format", func(c *Config) { c.Output.Format = "pdf" }, "output.format"},
		{"bad color", func(c *Config) { c.Output.Color = "rainbow" }, "output.color"},
		{"negative width", func(c *Config) { c.Output.Width = -1 }, "output.width"},
		{"history without path", func(c *Config) { c.History.Path = "" }, "history.path"},
		{"history disabled without path", func(c *Config) { c.History.Enabled = false; c.History.Path = "" }, ""},
		{"bad transport", func(c *Config) { c.Server.Transport = "sse" }, "transport"},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "loud" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	// Given: a modified config written to disk
	tmp := isolate(t)
	cfg := NewConfig()
	cfg.Search.Proximity = 0
	cfg.Output.Width = 12
	path := filepath.Join(tmp, "nested", ".amanels.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	// When: loading it back as a project file
	loaded, err := Load(filepath.Dir(path))
	require.NoError(t, err)

	// Then: values survive
	assert.Equal(t, 0, loaded.Search.Proximity)
	assert.Equal(t, 12, loaded.Output.Width)
}
