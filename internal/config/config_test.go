package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Output:   DefaultOutput,
		LogLevel: DefaultLogLevel,
		Color:    DefaultColor,
		Format:   FormatConfig{Comments: true},
		Check:    CheckConfig{Extensions: DefaultExtensions},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "json output", mutate: func(c *Config) { c.Output = "json" }},
		{name: "short join", mutate: func(c *Config) { c.Format.Join = "j" }},
		{name: "bad output", mutate: func(c *Config) { c.Output = "html" }, wantErr: "invalid output"},
		{name: "bad level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "invalid log_level"},
		{name: "bad color", mutate: func(c *Config) { c.Color = "yes" }, wantErr: "invalid color"},
		{name: "bad join", mutate: func(c *Config) { c.Format.Join = "Join" }, wantErr: "format.join"},
		{name: "negative workers", mutate: func(c *Config) { c.Check.Workers = -2 }, wantErr: "check.workers"},
		{name: "negative debounce", mutate: func(c *Config) { c.Check.Debounce = -time.Second }, wantErr: "check.debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
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

func TestConfig_SlogLevel(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())

	cfg.LogLevel = "ERROR"
	assert.Equal(t, slog.LevelError, cfg.SlogLevel())

	cfg.Verbose = true
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("")
	assert.Error(t, err)
}

func TestCheckConfig_Matches(t *testing.T) {
	c := CheckConfig{Extensions: []string{".slq", ".q"}}
	assert.True(t, c.Matches("a/b.slq"))
	assert.True(t, c.Matches("x.q"))
	assert.False(t, c.Matches("x.sql"))
	assert.False(t, CheckConfig{}.Matches("x.slq"))
}

func TestFormatConfig_Options(t *testing.T) {
	opts := FormatConfig{Join: "JOIN"}.Options()
	assert.Equal(t, "JOIN", opts.JoinSpelling)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindConfigFile(dir))

	alt := filepath.Join(dir, ConfigFileNameAlt)
	require.NoError(t, os.WriteFile(alt, []byte("output: text\n"), 0o600))
	assert.Equal(t, alt, FindConfigFile(dir))

	// The .yaml spelling wins when both exist.
	primary := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(primary, []byte("output: text\n"), 0o600))
	assert.Equal(t, primary, FindConfigFile(dir))
}

func TestFindConfigFileUpward(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	assert.Equal(t, path, FindConfigFileUpward(nested))
	assert.Equal(t, path, FindConfigFileUpward(root))
}
