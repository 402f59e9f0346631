// Package walk provides traversal utilities for SLQ parse trees.
//
// A Listener is notified on entry to and exit from every node, in source
// order. Listeners that also implement TerminalListener additionally see
// the terminal tokens each node was built from (datasource handles,
// selectors, literals, operators, keywords, row indexes), interleaved with child
// visits in the order they appear in the input.
package walk

import (
	"strconv"

	"github.com/leapstack-labs/slq/pkg/parser"
	"github.com/leapstack-labs/slq/pkg/token"
)

// Listener receives node enter/exit events. If Enter returns false the
// node's children and terminals are skipped and Exit is not called for
// that node.
type Listener interface {
	Enter(n parser.Node) bool
	Exit(n parser.Node)
}

// TerminalListener is a Listener that also receives terminal tokens.
// Punctuation ('(', ',', '|', ...) is not reported. The Literal of a
// synthesized terminal is its canonical spelling; STRING terminals carry
// the decoded value.
type TerminalListener interface {
	Listener
	Terminal(tok token.Token)
}

// Walk traverses the tree rooted at n depth-first.
func Walk(l Listener, n parser.Node) {
	if n == nil || isNilNode(n) {
		return
	}
	if !l.Enter(n) {
		return
	}
	tl, _ := l.(TerminalListener)
	walkChildren(l, tl, n)
	l.Exit(n)
}

func walkChildren(l Listener, tl TerminalListener, node parser.Node) {
	terminal := func(t token.TokenType, lit string, span token.Span) {
		if tl != nil {
			tl.Terminal(token.Token{Type: t, Literal: lit, Pos: span.Start, Len: span.End.Offset - span.Start.Offset})
		}
	}
	at := func(t token.TokenType, pos token.Position) {
		if tl != nil {
			lit := t.Glyph()
			tl.Terminal(token.Token{Type: t, Literal: lit, Pos: pos, Len: len(lit)})
		}
	}
	index := func(n int, pos token.Position) {
		if tl != nil {
			lit := strconv.Itoa(n)
			tl.Terminal(token.Token{Type: token.NN, Literal: lit, Pos: pos, Len: len(lit)})
		}
	}

	switch n := node.(type) {
	case *parser.StmtList:
		for _, q := range n.Queries {
			Walk(l, q)
		}

	case *parser.Query:
		for _, seg := range n.Segments {
			Walk(l, seg)
		}

	case *parser.Segment:
		for _, el := range n.Elements {
			Walk(l, el)
		}

	case *parser.DsTblElement:
		Walk(l, n.Datasource)
		Walk(l, n.Selector)

	case *parser.DsElement:
		Walk(l, n.Datasource)

	case *parser.SelElement:
		Walk(l, n.Selector)

	case *parser.ExprElement:
		Walk(l, n.Expr)

	case *parser.Join:
		at(n.Kind.Token(), n.Span.Start)
		Walk(l, n.Constraint)

	case *parser.JoinPredicate:
		Walk(l, n.Left)
		at(n.Op.Token(), n.OpPos)
		Walk(l, n.Right)

	case *parser.JoinSingle:
		Walk(l, n.Selector)

	case *parser.BinaryExpr:
		Walk(l, n.Left)
		at(n.Op.Token(), n.OpPos)
		Walk(l, n.Right)

	case *parser.UnaryExpr:
		at(n.Op.Token(), n.Span.Start)
		Walk(l, n.Expr)

	case *parser.FuncCall:
		name := n.NameTok
		if !token.IsFnName(name) {
			name = n.Name.Token()
		}
		at(name, n.Span.Start)
		if n.Wildcard {
			at(token.STAR, n.WildcardPos)
		}
		for _, arg := range n.Args {
			Walk(l, arg)
		}

	case *parser.Datasource:
		terminal(token.DATASOURCE, n.Text, n.Span)

	case *parser.Selector:
		terminal(token.SEL, n.Text, n.Span)

	case *parser.Literal:
		terminal(literalToken(n.Type), n.Value, n.Span)

	case *parser.RowRangeBounded:
		at(token.ROWRANGE, n.Span.Start)
		index(n.From, n.FromPos)
		index(n.To, n.ToPos)

	case *parser.RowRangeFromOnly:
		at(token.ROWRANGE, n.Span.Start)
		index(n.From, n.FromPos)

	case *parser.RowRangeToOnly:
		at(token.ROWRANGE, n.Span.Start)
		index(n.To, n.ToPos)

	case *parser.RowRangeSingle:
		at(token.ROWRANGE, n.Span.Start)
		index(n.N, n.NPos)

	case *parser.RowRangeUnbounded:
		at(token.ROWRANGE, n.Span.Start)
	}
}

func literalToken(t parser.LiteralType) token.TokenType {
	switch t {
	case parser.LiteralNull:
		return token.NULL
	case parser.LiteralInt:
		return token.NN
	case parser.LiteralNumber:
		return token.NUMBER
	}
	return token.STRING
}

// isNilNode reports whether n is a typed nil pointer.
func isNilNode(n parser.Node) bool {
	switch v := n.(type) {
	case *parser.StmtList:
		return v == nil
	case *parser.Query:
		return v == nil
	case *parser.Segment:
		return v == nil
	case *parser.DsTblElement:
		return v == nil
	case *parser.DsElement:
		return v == nil
	case *parser.SelElement:
		return v == nil
	case *parser.ExprElement:
		return v == nil
	case *parser.Join:
		return v == nil
	case *parser.JoinPredicate:
		return v == nil
	case *parser.JoinSingle:
		return v == nil
	case *parser.BinaryExpr:
		return v == nil
	case *parser.UnaryExpr:
		return v == nil
	case *parser.FuncCall:
		return v == nil
	case *parser.Datasource:
		return v == nil
	case *parser.Selector:
		return v == nil
	case *parser.Literal:
		return v == nil
	case *parser.RowRangeBounded:
		return v == nil
	case *parser.RowRangeFromOnly:
		return v == nil
	case *parser.RowRangeToOnly:
		return v == nil
	case *parser.RowRangeSingle:
		return v == nil
	case *parser.RowRangeUnbounded:
		return v == nil
	}
	return false
}

type inspector func(parser.Node) bool

func (f inspector) Enter(n parser.Node) bool { return f(n) }
func (f inspector) Exit(parser.Node)         {}

// Inspect traverses the tree rooted at n depth-first and calls fn for each
// node. If fn returns false, the children of that node are skipped.
func Inspect(n parser.Node, fn func(parser.Node) bool) {
	Walk(inspector(fn), n)
}

// FindNodes returns every node of type T in the tree rooted at n, in
// source order.
func FindNodes[T parser.Node](n parser.Node) []T {
	var found []T
	Inspect(n, func(node parser.Node) bool {
		if t, ok := node.(T); ok {
			found = append(found, t)
		}
		return true
	})
	return found
}

// Terminals returns the terminal tokens of the tree rooted at n in source
// order.
func Terminals(n parser.Node) []token.Token {
	c := &terminalCollector{}
	Walk(c, n)
	return c.toks
}

type terminalCollector struct {
	toks []token.Token
}

func (c *terminalCollector) Enter(parser.Node) bool   { return true }
func (c *terminalCollector) Exit(parser.Node)         {}
func (c *terminalCollector) Terminal(tok token.Token) { c.toks = append(c.toks, tok) }
