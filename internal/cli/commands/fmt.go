package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/leapstack-labs/slq/internal/cli/output"
	"github.com/leapstack-labs/slq/pkg/format"
	"github.com/leapstack-labs/slq/pkg/parser"
	"github.com/spf13/cobra"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Expr  string // inline source instead of files
	Write bool   // rewrite files in place
	Check bool   // only report files that are not formatted
}

// fmtJSON is the machine-readable result for one source.
type fmtJSON struct {
	Source    string     `json:"source" yaml:"source"`
	Formatted string     `json:"formatted,omitempty" yaml:"formatted,omitempty"`
	Changed   bool       `json:"changed" yaml:"changed"`
	Error     *errorJSON `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [file...]",
		Short: "Format SLQ source in canonical layout",
		Long: `Print SLQ source in canonical layout: single spaces around binary
operators and pipes, ", " between elements, lower-case function names and
";\n" between queries. Line comments are kept unless --comments=false.

Reads from stdin when no file (or "-") is given.`,
		Example: `  # Print the formatted query
  slq fmt query.slq

  # Rewrite files in place, spelling every join as JOIN
  slq fmt -w --join JOIN queries/*.slq

  # Fail when a file is not formatted
  slq fmt --check queries/*.slq`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "Format this source text instead of files")
	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write the result back to each file")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Report unformatted files and exit non-zero")
	cmd.Flags().String("join", "", "Force the join keyword spelling: join, JOIN or j")
	cmd.Flags().Bool("comments", true, "Keep line comments")

	return cmd
}

func runFmt(cmd *cobra.Command, args []string, opts *FmtOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	if opts.Write && (opts.Expr != "" || len(args) == 0 || args[0] == "-") {
		return errors.New("--write needs file arguments")
	}

	var sources []source
	if len(args) <= 1 || opts.Expr != "" {
		src, err := readSource(cmd, args, opts.Expr)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	} else {
		for _, path := range args {
			src, err := readSource(cmd, []string{path}, "")
			if err != nil {
				return err
			}
			sources = append(sources, src)
		}
	}

	textMode := r.EffectiveMode() == output.ModeText
	results := make([]fmtJSON, 0, len(sources))
	failed, unformatted := 0, 0

	for _, src := range sources {
		formatted, err := formatSource(src.Text, cmdCtx.Cfg.Format.Options(), cmdCtx.Cfg.Format.Comments)
		res := fmtJSON{Source: src.Name, Error: newErrorJSON(err)}
		if err != nil {
			failed++
			cmdCtx.Logger.Debug("format failed", "source", src.Name, "error", err)
			if textMode {
				r.Error(errorLocation(src.Name, err))
			}
			results = append(results, res)
			continue
		}

		res.Formatted = formatted
		res.Changed = formatted != src.Text
		results = append(results, res)

		switch {
		case opts.Check:
			if res.Changed {
				unformatted++
				if textMode {
					r.Println(src.Name)
				}
			}
		case opts.Write:
			if !res.Changed {
				continue
			}
			if err := os.WriteFile(src.Name, []byte(formatted), 0o644); err != nil { //nolint:gosec // source files are world-readable
				return fmt.Errorf("failed to write %s: %w", src.Name, err)
			}
			cmdCtx.Logger.Info("formatted", "file", src.Name)
		case textMode:
			r.Printf("%s", formatted)
		}
	}

	if !textMode {
		var payload any = results
		if len(results) == 1 {
			payload = results[0]
		}
		if err := r.Data(payload); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d source(s) failed to parse", failed)
	}
	if unformatted > 0 {
		return fmt.Errorf("%d file(s) need formatting", unformatted)
	}
	return nil
}

// formatSource parses text and renders it canonically. The result ends
// with a newline unless it is empty.
func formatSource(text string, opts format.Options, keepComments bool) (string, error) {
	p := parser.NewParser(text)
	stmts, err := p.ParseStmtList()
	if err != nil {
		return "", err
	}

	var out string
	if keepComments {
		out, err = opts.WithComments(stmts, p.Comments())
	} else {
		out, err = opts.Format(stmts)
	}
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}
