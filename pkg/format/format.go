package format

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/slq/pkg/parser"
	"github.com/leapstack-labs/slq/pkg/token"
)

// ErrNotRepresentable is returned for trees that no input text parses
// to, such as a right-nested chain of same-tier operators. The grammar
// has no grouping parentheses, so such trees cannot be printed.
var ErrNotRepresentable = errors.New("tree is not representable as query text")

// Options controls formatting.
type Options struct {
	// JoinSpelling forces every join keyword to one of "join", "JOIN" or
	// "j". Empty keeps each join's own spelling.
	JoinSpelling string
}

// Validate checks the option values.
func (o Options) Validate() error {
	switch parser.JoinKind(o.JoinSpelling) {
	case "", parser.JoinLower, parser.JoinUpper, parser.JoinShort:
		return nil
	}
	return fmt.Errorf("invalid join spelling %q: must be one of join, JOIN, j", o.JoinSpelling)
}

// Format renders a statement list with default options.
func Format(stmts *parser.StmtList) (string, error) {
	return Options{}.Format(stmts)
}

// Format renders a statement list. Queries are separated by ";\n".
func (o Options) Format(stmts *parser.StmtList) (string, error) {
	return o.WithComments(stmts, nil)
}

// WithComments renders a statement list and re-emits comments. Each
// comment is printed on its own line before the first query that starts
// after it; comments after the last query are printed at the end.
func (o Options) WithComments(stmts *parser.StmtList, comments []*token.Comment) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}
	p := newPrinter(o)
	p.formatStmtList(stmts, decorate(stmts, comments))
	if err := p.Err(); err != nil {
		return "", err
	}
	return p.String(), nil
}

// Query renders a single query.
func (o Options) Query(q *parser.Query) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}
	p := newPrinter(o)
	p.formatQuery(q)
	if err := p.Err(); err != nil {
		return "", err
	}
	return p.String(), nil
}

// Expr renders a single expression.
func Expr(e parser.Expr) (string, error) {
	p := newPrinter(Options{})
	p.formatExpr(e)
	if err := p.Err(); err != nil {
		return "", err
	}
	return p.String(), nil
}
