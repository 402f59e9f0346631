// Package parser turns SLQ query text into a typed parse tree.
//
// # Usage
//
//	stmts, err := parser.Parse("@db.users | .name, .age | where(.age > 18)")
//	if err != nil {
//	    var se *parser.SyntaxError
//	    if errors.As(err, &se) {
//	        // se.Rule, se.Pos, se.Found
//	    }
//	}
//
// # Grammar Overview
//
// The parser is recursive descent over the statement structure and
// precedence climbing for expressions:
//
//	stmtList       → ';'* query ( ';'+ query )* ';'*
//	query          → segment ( '|' segment )*
//	segment        → element ( ',' element )*
//	element        → dsTblElement | dsElement | join | rowRange | selElement | expr
//	dsTblElement   → DATASOURCE SEL
//	dsElement      → DATASOURCE
//	join           → ( 'join' | 'JOIN' | 'j' ) '(' joinConstraint ')'
//	joinConstraint → SEL cmpr SEL | SEL
//	rowRange       → '.[' ( NN ':' NN | NN ':' | ':' NN | NN )? ']'
//	selElement     → SEL
//
// Expression rules live in parser_expr.go and parser_primary.go.
//
// Parsing is synchronous and keeps no shared state: every call owns its
// own lexer and cursor, so separate parses may run concurrently.
package parser

import (
	"github.com/leapstack-labs/slq/pkg/token"
)

// Parser parses SLQ text into a parse tree.
type Parser struct {
	cur *Cursor
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	return &Parser{cur: NewCursor(NewLexer(input))}
}

// Parse parses a complete statement list.
func Parse(input string) (*StmtList, error) {
	return NewParser(input).ParseStmtList()
}

// ParseQuery parses exactly one query; statement separators are not
// accepted.
func ParseQuery(input string) (*Query, error) {
	p := NewParser(input)
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if !p.check(token.EOF) {
		return nil, p.syntaxError("query", expectEndOfInput)
	}
	return q, nil
}

// ParseExpr parses a standalone expression that must span the whole input.
func ParseExpr(input string) (Expr, error) {
	p := NewParser(input)
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.check(token.EOF) {
		return nil, p.syntaxError("expr", expectEndOfInput)
	}
	return expr, nil
}

// Comments returns the line comments seen so far. After a successful
// parse this is every comment in the input.
func (p *Parser) Comments() []*token.Comment {
	return p.cur.Comments()
}

// ---------- Token Helpers ----------

// tok returns the current token.
func (p *Parser) tok() Token {
	return p.cur.Peek(0)
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t TokenType) bool {
	return p.tok().Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t TokenType) bool {
	if p.check(t) {
		p.cur.Advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise it returns a
// SyntaxError for rule.
func (p *Parser) expect(rule string, t TokenType) (Token, error) {
	if p.check(t) {
		return p.cur.Advance(), nil
	}
	return Token{}, p.syntaxError(rule, t.String())
}

// syntaxError builds a SyntaxError at the current token. A pending lexer
// error takes priority: it is the first error in the input.
func (p *Parser) syntaxError(rule, expected string) error {
	if err := p.cur.Err(); err != nil {
		return err
	}
	tok := p.tok()
	return &SyntaxError{Rule: rule, Pos: tok.Pos, Found: tok, Expected: expected}
}

// exprError builds an ExprSyntaxError at the current token.
func (p *Parser) exprError(expected string) error {
	if err := p.cur.Err(); err != nil {
		return err
	}
	tok := p.tok()
	return &ExprSyntaxError{Pos: tok.Pos, Found: tok, Expected: expected}
}

// spanFrom returns the span from start to the end of the last consumed
// token.
func (p *Parser) spanFrom(start Position) token.Span {
	prev := p.cur.Prev()
	if prev.Pos.Offset < start.Offset || !prev.Pos.IsValid() {
		return token.Span{Start: start, End: start}
	}
	return token.Span{Start: start, End: prev.End()}
}

// ---------- Statement Structure ----------

// ParseStmtList parses the whole input as a statement list.
func (p *Parser) ParseStmtList() (*StmtList, error) {
	start := p.tok().Pos
	list := &StmtList{Queries: []*Query{}}

	p.skipSeparators()
	for !p.check(token.EOF) {
		if len(list.Queries) > 0 {
			// Queries must be separated by at least one ';'.
			if !p.check(token.SEMI) {
				return nil, p.syntaxError("stmtList", expectSeparator)
			}
			p.skipSeparators()
			if p.check(token.EOF) {
				break
			}
		}

		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		list.Queries = append(list.Queries, q)
	}

	if err := p.cur.Err(); err != nil {
		return nil, err
	}
	list.Span = p.spanFrom(start)
	return list, nil
}

// skipSeparators consumes zero or more ';'.
func (p *Parser) skipSeparators() {
	for p.match(token.SEMI) {
	}
}

// parseQuery parses segments joined by '|'.
func (p *Parser) parseQuery() (*Query, error) {
	start := p.tok().Pos
	q := &Query{}

	for {
		seg, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		seg.Index = len(q.Segments)
		q.Segments = append(q.Segments, seg)

		if !p.match(token.PIPE) {
			break
		}
	}

	q.Span = p.spanFrom(start)
	return q, nil
}

// parseSegment parses elements joined by ','.
func (p *Parser) parseSegment() (*Segment, error) {
	start := p.tok().Pos
	seg := &Segment{}

	for {
		el, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		seg.Elements = append(seg.Elements, el)

		if !p.match(token.COMMA) {
			break
		}
	}

	seg.Span = p.spanFrom(start)
	return seg, nil
}
