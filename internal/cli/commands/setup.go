package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/slq/internal/cli/config"
	"github.com/leapstack-labs/slq/internal/cli/output"
	"github.com/leapstack-labs/slq/pkg/parser"
	"github.com/spf13/cobra"
)

// stdinName labels source read from standard input.
const stdinName = "<stdin>"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer the root
// command stored in cmd's context. A command run on its own loads its
// config and builds a renderer instead.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()

	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}

	r := output.GetRenderer(ctx)
	if r == nil {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))
		r.SetColor(cfg.Color)
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: r,
	}, nil
}

// getConfig returns the config from cmd's context. Without one, defaults,
// the environment and cmd's flags are loaded.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.GetConfig(cmd.Context()); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", cmd.Flags())
}

// source is SLQ text together with a name for messages.
type source struct {
	Name string
	Text string
}

// readSource resolves the input of a single-source command: inline text
// from --expr style flags, a file argument, or stdin for "-" or no
// argument.
func readSource(cmd *cobra.Command, args []string, inline string) (source, error) {
	if inline != "" {
		if len(args) > 0 {
			return source{}, errors.New("cannot combine inline source with a file argument")
		}
		return source{Name: "<inline>", Text: inline}, nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return source{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return source{Name: stdinName, Text: string(data)}, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return source{}, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return source{Name: args[0], Text: string(data)}, nil
}

// errorLocation formats a parse error as "name:line:col: message" when
// it carries a position.
func errorLocation(name string, err error) string {
	var perr parser.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		return fmt.Sprintf("%s:%d:%d: %v", name, pos.Line, pos.Column, err)
	}
	return fmt.Sprintf("%s: %v", name, err)
}

// errorJSON describes a parse error for machine-readable output.
type errorJSON struct {
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column  int    `json:"column,omitempty" yaml:"column,omitempty"`
	Offset  int    `json:"offset,omitempty" yaml:"offset,omitempty"`
}

func newErrorJSON(err error) *errorJSON {
	if err == nil {
		return nil
	}
	e := &errorJSON{Kind: "error", Message: err.Error()}

	var (
		lexErr  *parser.LexError
		synErr  *parser.SyntaxError
		exprErr *parser.ExprSyntaxError
	)
	switch {
	case errors.As(err, &lexErr):
		e.Kind = "lex"
	case errors.As(err, &synErr):
		e.Kind = "syntax"
	case errors.As(err, &exprErr):
		e.Kind = "expr"
	}

	var perr parser.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		e.Line, e.Column, e.Offset = pos.Line, pos.Column, pos.Offset
	}
	return e
}
