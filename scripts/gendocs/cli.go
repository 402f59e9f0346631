package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/slq/internal/cli"
	intconfig "github.com/leapstack-labs/slq/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// outputModeDocs describes each value of the output setting.
var outputModeDocs = map[string]string{
	"auto": "Text on a terminal, JSON when piped",
	"text": "Tables, trees and ✓/✗ lines for people",
	"json": "One JSON document per run",
	"yaml": "The JSON document as YAML",
}

// errorKindDocs describes the kind field of machine-readable errors.
var errorKindDocs = [][]string{
	{"lex", "A character or string the lexer rejects"},
	{"syntax", "A token that does not fit the grammar rule being parsed"},
	{"expr", "An operator without an operand, or no expression where one is required"},
	{"io", "A file that could not be read (`check` only)"},
}

// generateCLIDocs writes index.md and one page per slq command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rootCmd := cli.NewRootCmd()

	if err := generateCLIIndex(rootCmd, outDir); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, cmd := range documentedCommands(rootCmd) {
		if err := generateCommandPage(cmd, outDir); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		log.Printf("  Generated %s.md", cmd.Name())
	}

	return nil
}

// documentedCommands returns the visible subcommands of root.
func documentedCommands(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// generateCLIIndex generates the CLI overview page.
func generateCLIIndex(rootCmd *cobra.Command, outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("CLI Reference", "Command-line interface reference for slq")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("slq tokenizes, parses, formats and checks SLQ pipeline queries.")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/slq/cmd/slq@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documentedCommands(rootCmd) {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Input")
	w.Paragraph("`tokens`, `parse` and `fmt` read a file argument, or stdin when the argument is `-` or missing. " +
		"`-e TEXT` passes the source inline; its errors are reported against `<inline>`.")
	w.CodeBlock("bash", `slq parse query.slq
echo '@db.users | .name' | slq tokens
slq fmt -e '@db.users|.name,.age'`)

	w.Header(2, "Output Formats")
	var modeRows [][]string
	for _, mode := range intconfig.OutputModes {
		modeRows = append(modeRows, []string{InlineCode(mode), outputModeDocs[mode]})
	}
	w.Table([]string{"--output", "Result"}, modeRows)

	w.Header(2, "Errors")
	w.Paragraph("Text output reports the first error as `name:line:col: message`. " +
		"JSON and YAML output carry an `error` object with `kind`, `message`, `line`, `column` and `offset`:")
	w.Table([]string{"kind", "Meaning"}, errorKindDocs)
	w.Paragraph("Any error exits with status 1. So do `check` with a failing file and `fmt --check` with an unformatted one.")

	w.Header(2, "Global Options")
	writeFlagsTable(w, rootCmd.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Every configuration key can be set as `SLQ_` followed by the key, upper-cased, with `.` replaced by `_`. " +
		"Flags override the environment, which overrides the config file.")
	var envRows [][]string
	for _, f := range getConfigSchema() {
		envRows = append(envRows, []string{InlineCode(envVar(f.Name)), InlineCode(f.Name)})
	}
	w.Table([]string{"Variable", "Key"}, envRows)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateCommandPage generates documentation for a single command.
func generateCommandPage(cmd *cobra.Command, outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, "slq "+cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}

	w.Paragraph("Global options are listed in the [CLI reference](/cli/).")

	return os.WriteFile(filepath.Join(outDir, cmd.Name()+".md"), w.Bytes(), 0600)
}

// writeFlagsTable writes one row per visible flag.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		def := "-"
		if f.DefValue != "" && f.DefValue != "[]" && f.DefValue != "0" && f.DefValue != "0s" {
			def = InlineCode(f.DefValue)
		}
		rows = append(rows, []string{name, f.Value.Type(), def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Flag", "Type", "Default", "Description"}, rows)
}

// dedent strips the indentation cobra examples share.
func dedent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		}
	}
	return strings.Join(lines, "\n")
}
