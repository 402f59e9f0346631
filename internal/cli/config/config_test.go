package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".slq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	flags.StringP("output", "o", "", "output format")
	flags.String("log-level", "", "log level")
	flags.BoolP("verbose", "v", false, "verbose")
	flags.String("join", "", "join spelling")
	flags.Bool("comments", true, "keep comments")
	flags.Int("workers", 0, "workers")
	flags.StringSlice("ext", nil, "extensions")
	flags.Duration("debounce", 0, "debounce")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Output)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.Color)
	assert.Equal(t, "", cfg.Format.Join)
	assert.True(t, cfg.Format.Comments)
	assert.Equal(t, []string{".slq"}, cfg.Check.Extensions)
	assert.Equal(t, 100*time.Millisecond, cfg.Check.Debounce)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, `output: yaml
log_level: debug
format:
  join: JOIN
  comments: false
check:
  workers: 3
  extensions: [".slq", ".q"]
  debounce: 250ms
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "JOIN", cfg.Format.Join)
	assert.False(t, cfg.Format.Comments)
	assert.Equal(t, 3, cfg.Check.Workers)
	assert.Equal(t, []string{".slq", ".q"}, cfg.Check.Extensions)
	assert.Equal(t, 250*time.Millisecond, cfg.Check.Debounce)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
}

func TestLoadConfig_FindsFileUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".slq.yml"), []byte("output: text\n"), 0o600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, ".slq.yml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output: yaml\nformat:\n  join: j\n")
	t.Setenv("SLQ_OUTPUT", "json")
	t.Setenv("SLQ_FORMAT_JOIN", "join")
	t.Setenv("SLQ_CHECK_WORKERS", "7")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "join", cfg.Format.Join)
	assert.Equal(t, 7, cfg.Check.Workers)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output: yaml\ncheck:\n  workers: 2\n")
	t.Setenv("SLQ_OUTPUT", "json")
	t.Setenv("SLQ_CHECK_WORKERS", "4")

	flags := testFlags()
	require.NoError(t, flags.Set("output", "text"))
	require.NoError(t, flags.Set("workers", "8"))
	require.NoError(t, flags.Set("join", "JOIN"))
	require.NoError(t, flags.Set("log-level", "error"))
	require.NoError(t, flags.Set("debounce", "1s"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, 8, cfg.Check.Workers)
	assert.Equal(t, "JOIN", cfg.Format.Join)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.Check.Debounce)
}

func TestLoadConfig_UnsetFlagFallsBack(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output: yaml\n")
	t.Setenv("SLQ_LOG_LEVEL", "info")

	// Flags registered but never set must not clobber lower layers.
	cfg, err := LoadConfig(cfgPath, testFlags())
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Format.Comments)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "output", content: "output: xml\n", errMsg: "invalid output"},
		{name: "log level", content: "log_level: loud\n", errMsg: "invalid log_level"},
		{name: "color", content: "color: sometimes\n", errMsg: "invalid color"},
		{name: "join spelling", content: "format:\n  join: inner\n", errMsg: "format.join"},
		{name: "workers", content: "check:\n  workers: -1\n", errMsg: "check.workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			cfgPath := writeConfig(t, tt.content)

			_, err := LoadConfig(cfgPath, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfig_UnknownKeys(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "outptu: text\nformat:\n  jion: j\n")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.Output)
	assert.Equal(t, []string{"format.jion", "outptu"}, GetUnusedKeys())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SLQ_OUTPUT":           "output",
		"SLQ_LOG_LEVEL":        "log_level",
		"SLQ_FORMAT_JOIN":      "format.join",
		"SLQ_FORMAT_COMMENTS":  "format.comments",
		"SLQ_CHECK_EXTENSIONS": "check.extensions",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestLoadConfig_IgnoresNonSettingFlags(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	flags := testFlags()
	flags.Bool("write", false, "write files")
	require.NoError(t, flags.Set("write", "true"))
	require.NoError(t, flags.Set("config", "ignored.yaml"))
	require.NoError(t, flags.Set("ext", ".q,.slq"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, []string{".q", ".slq"}, cfg.Check.Extensions)
	assert.Empty(t, GetUnusedKeys())
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
