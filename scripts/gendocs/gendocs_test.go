package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownWriter_Table(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"Op", "Meaning"}, [][]string{{"||", "concat"}})
	w.Table([]string{"Empty"}, nil)

	assert.Equal(t, "| Op | Meaning |\n| --- | --- |\n| \\|\\| | concat |\n\n", string(w.Bytes()))
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "SLQ_FORMAT_JOIN", envVar("format.join"))
	assert.Equal(t, "SLQ_LOG_LEVEL", envVar("log_level"))
}

func TestDefaultValue(t *testing.T) {
	assert.Equal(t, "`auto`", defaultValue("output"))
	assert.Equal(t, "-", defaultValue("format.join"))
	assert.Equal(t, "`.slq`", defaultValue("check.extensions"))
	assert.Equal(t, "`true`", defaultValue("format.comments"))
}

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), generatedHeader)
	assert.Contains(t, string(index), "SLQ_CHECK_WORKERS")
	assert.Contains(t, string(index), "| `yaml` | The JSON document as YAML |")
	assert.Contains(t, string(index), "| lex | A character or string the lexer rejects |")

	for _, name := range []string{"tokens", "parse", "fmt", "check"} {
		page, err := os.ReadFile(filepath.Join(dir, name+".md"))
		require.NoError(t, err, name)
		assert.Contains(t, string(page), "slq "+name, name)
	}
}

func TestDedent(t *testing.T) {
	in := "\n  # Check\n  slq check\n\n    indented\n"
	assert.Equal(t, "# Check\nslq check\n\n  indented", dedent(in))
}

func TestWriteFlagsTable(t *testing.T) {
	flags := pflag.NewFlagSet("t", pflag.ContinueOnError)
	flags.StringP("expr", "e", "", "Source text.")
	flags.Bool("comments", true, "Keep line comments")
	flags.Int("workers", 0, "Concurrent parses")

	w := NewMarkdownWriter()
	writeFlagsTable(w, flags)

	out := string(w.Bytes())
	assert.Contains(t, out, "| `--comments` | bool | `true` | Keep line comments |")
	assert.Contains(t, out, "| `-e`, `--expr` | string | - | Source text |")
	assert.Contains(t, out, "| `--workers` | int | - | Concurrent parses |")
}

func TestGenerateSchemaDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateSchemaDocs(dir))

	page, err := os.ReadFile(filepath.Join(dir, "configuration.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "`check.debounce`")
	assert.Contains(t, string(page), "`100ms`")
}
