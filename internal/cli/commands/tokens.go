package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/slq/internal/cli/output"
	"github.com/leapstack-labs/slq/pkg/parser"
	"github.com/leapstack-labs/slq/pkg/token"
	"github.com/spf13/cobra"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	Expr string // inline source instead of a file
}

// tokenJSON is the machine-readable form of a token.
type tokenJSON struct {
	Kind    string `json:"kind" yaml:"kind"`
	Literal string `json:"literal" yaml:"literal"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Offset  int    `json:"offset" yaml:"offset"`
}

// tokensJSON is the machine-readable result of the tokens command.
type tokensJSON struct {
	Source string      `json:"source" yaml:"source"`
	Tokens []tokenJSON `json:"tokens" yaml:"tokens"`
	Error  *errorJSON  `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of SLQ source",
		Long: `Run the lexer over SLQ source and print every token with its
position. Tokens scanned before a lexical error are still shown.

Reads from stdin when no file (or "-") is given.`,
		Example: `  # Tokenize a file
  slq tokens query.slq

  # Tokenize inline source as JSON
  slq tokens -e '@db.users | .name' -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "Tokenize this source text instead of a file")

	return cmd
}

func runTokens(cmd *cobra.Command, args []string, opts *TokensOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	src, err := readSource(cmd, args, opts.Expr)
	if err != nil {
		return err
	}

	toks, lexErr := scanTokens(src.Text)
	cmdCtx.Logger.Debug("tokenized", "source", src.Name, "tokens", len(toks), "error", lexErr)

	if r.EffectiveMode() == output.ModeText {
		renderTokensText(r, toks)
		if lexErr != nil {
			r.Error(errorLocation(src.Name, lexErr))
		}
	} else {
		result := tokensJSON{Source: src.Name, Tokens: make([]tokenJSON, 0, len(toks)), Error: newErrorJSON(lexErr)}
		for _, tok := range toks {
			result.Tokens = append(result.Tokens, tokenJSON{
				Kind:    tok.Type.String(),
				Literal: tok.Literal,
				Line:    tok.Pos.Line,
				Column:  tok.Pos.Column,
				Offset:  tok.Pos.Offset,
			})
		}
		if err := r.Data(result); err != nil {
			return err
		}
	}

	if lexErr != nil {
		return fmt.Errorf("tokenizing %s failed", src.Name)
	}
	return nil
}

// scanTokens lexes input up to and including EOF, keeping the tokens read
// before a lexical error.
func scanTokens(input string) ([]token.Token, error) {
	l := parser.NewLexer(input)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

func renderTokensText(r *output.Renderer, toks []token.Token) {
	styles := r.Styles()
	rows := make([][]string, 0, len(toks))
	for i, tok := range toks {
		rows = append(rows, []string{
			strconv.Itoa(i),
			tokenStyle(styles, tok.Type).Render(tok.Type.String()),
			strconv.Quote(tok.Literal),
			tok.Pos.String(),
		})
	}
	r.Table([]string{"#", "kind", "literal", "pos"}, rows)
}

func tokenStyle(styles *output.Styles, t token.TokenType) lipgloss.Style {
	switch {
	case t == token.SEL || t == token.DATASOURCE:
		return styles.Selector
	case token.IsLiteral(t):
		return styles.Literal
	case token.IsJoin(t) || token.IsFnName(t):
		return styles.Keyword
	case t == token.EOF:
		return styles.Muted
	default:
		return styles.Operator
	}
}
