package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/slq/internal/cli/config"
	intconfig "github.com/leapstack-labs/slq/internal/config"
)

// generateSchemaDocs generates the configuration reference.
func generateSchemaDocs(outDir string) error {
	log.Printf("Generating schema docs to %s", outDir)

	// Create output directory
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration key.
type ConfigField struct {
	Name        string
	Type        string
	Description string
	Category    string // "global", "format", "check"
}

// getConfigSchema returns the configuration keys.
// This mirrors internal/config/types.go Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "output", Type: "string", Description: "Output format: auto, text, json or yaml. auto picks text on a terminal and json otherwise", Category: "global"},
		{Name: "log_level", Type: "string", Description: "Log level: debug, info, warn or error", Category: "global"},
		{Name: "verbose", Type: "bool", Description: "Force debug logging", Category: "global"},
		{Name: "color", Type: "string", Description: "Color output: auto, always or never. auto honors NO_COLOR", Category: "global"},

		{Name: "format.join", Type: "string", Description: "Join keyword spelling written by `slq fmt`: join, JOIN or j. Empty keeps the input spelling", Category: "format"},
		{Name: "format.comments", Type: "bool", Description: "Keep line comments in formatted output", Category: "format"},

		{Name: "check.workers", Type: "int", Description: "Files parsed concurrently by `slq check`. 0 means one per CPU", Category: "check"},
		{Name: "check.extensions", Type: "[]string", Description: "File extensions picked up when a directory is checked", Category: "check"},
		{Name: "check.debounce", Type: "duration", Description: "Delay before re-checking in watch mode", Category: "check"},
	}
}

// envVar returns the environment variable for a config key.
func envVar(key string) string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// defaultValue renders the built-in default of key.
func defaultValue(key string) string {
	v, ok := intconfig.Defaults()[key]
	if !ok {
		return "-"
	}
	switch val := v.(type) {
	case []string:
		return InlineCode(strings.Join(val, ","))
	case string:
		if val == "" {
			return "-"
		}
		return InlineCode(val)
	default:
		return InlineCode(fmt.Sprint(val))
	}
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	// Frontmatter
	w.Frontmatter("Configuration", "slq configuration reference")
	w.GeneratedMarker()

	// Title and intro
	w.Header(1, "Configuration")
	w.Paragraph("slq reads `.slq.yaml` or `.slq.yml` from the working directory or the nearest parent that has one. " +
		"Pass `--config` to use another file. Unknown keys are reported as warnings.")

	sections := []struct {
		category string
		title    string
		intro    string
	}{
		{"global", "Global Settings", "Settings shared by every command:"},
		{"format", "Formatting", "Settings for `slq fmt`:"},
		{"check", "Checking", "Settings for `slq check`:"},
	}

	headers := []string{"Key", "Type", "Default", "Environment", "Description"}
	fields := getConfigSchema()
	for _, sec := range sections {
		w.Header(2, sec.title)
		w.Paragraph(sec.intro)

		var rows [][]string
		for _, f := range fields {
			if f.Category != sec.category {
				continue
			}
			rows = append(rows, []string{
				InlineCode(f.Name),
				f.Type,
				defaultValue(f.Name),
				InlineCode(envVar(f.Name)),
				f.Description,
			})
		}
		w.Table(headers, rows)
	}

	// Complete example
	w.Header(2, "Complete Example")
	w.CodeBlock("yaml", `# .slq.yaml
output: text
log_level: info
color: auto

format:
  join: join
  comments: true

check:
  workers: 4
  extensions: [".slq"]
  debounce: 200ms`)

	w.Header(2, "Precedence")
	w.Paragraph("Flags override environment variables, environment variables override the config file, and the file overrides the defaults above.")

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
