package parser

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/slq/pkg/token"
)

// ---------- Elements ----------

// parseElement parses one segment element. Alternatives are tried in
// grammar order; the first that matches wins.
func (p *Parser) parseElement() (Element, error) {
	tok := p.tok()

	switch {
	case tok.Type == token.DATASOURCE:
		mark := p.cur.Mark()
		if el := p.tryDsTblElement(); el != nil {
			return el, nil
		}
		p.cur.Reset(mark)
		return p.parseDsElement(), nil

	case token.IsJoin(tok.Type):
		return p.parseJoin()

	case tok.Type == token.ROWRANGE:
		return p.parseRowRange()

	case tok.Type == token.SEL && isElementBoundary(p.cur.Peek(1).Type):
		return p.parseSelElement(), nil

	case canStartExpr(tok.Type):
		start := tok.Pos
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ExprElement{NodeInfo: NodeInfo{Span: p.spanFrom(start)}, Expr: expr}, nil
	}

	return nil, p.syntaxError("element", expectElement)
}

// isElementBoundary reports whether t may directly follow a complete
// element. A selector followed by anything else continues as an
// expression.
func isElementBoundary(t TokenType) bool {
	switch t {
	case token.COMMA, token.PIPE, token.SEMI, token.EOF, token.RPAR, token.RBRA:
		return true
	}
	return false
}

// tryDsTblElement parses DATASOURCE SEL. It returns nil without reporting
// an error when the selector is absent; the caller rewinds.
func (p *Parser) tryDsTblElement() *DsTblElement {
	dsTok := p.cur.Advance()
	if !p.check(token.SEL) {
		return nil
	}
	selTok := p.cur.Advance()
	return &DsTblElement{
		NodeInfo:   NodeInfo{Span: dsTok.Span().Cover(selTok.Span())},
		Datasource: &Datasource{NodeInfo: NodeInfo{Span: dsTok.Span()}, Text: dsTok.Literal},
		Selector:   &Selector{NodeInfo: NodeInfo{Span: selTok.Span()}, Text: selTok.Literal},
	}
}

func (p *Parser) parseDsElement() *DsElement {
	dsTok := p.cur.Advance()
	return &DsElement{
		NodeInfo:   NodeInfo{Span: dsTok.Span()},
		Datasource: &Datasource{NodeInfo: NodeInfo{Span: dsTok.Span()}, Text: dsTok.Literal},
	}
}

func (p *Parser) parseSelElement() *SelElement {
	sel := p.parseSelector()
	return &SelElement{NodeInfo: sel.NodeInfo, Selector: sel}
}

// parseSelector consumes the current SEL token.
func (p *Parser) parseSelector() *Selector {
	tok := p.cur.Advance()
	return &Selector{NodeInfo: NodeInfo{Span: tok.Span()}, Text: tok.Literal}
}

// ---------- Join ----------

// parseJoin parses: ( join | JOIN | j ) '(' joinConstraint ')'
func (p *Parser) parseJoin() (*Join, error) {
	start := p.tok().Pos
	kind, ok := lookupJoinKind(p.tok().Type)
	if !ok {
		return nil, p.syntaxError("join", expectJoinKeyword)
	}
	p.cur.Advance()

	if _, err := p.expect("join", token.LPAR); err != nil {
		return nil, err
	}

	constraint, err := p.parseJoinConstraint()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect("join", token.RPAR); err != nil {
		return nil, err
	}

	return &Join{
		NodeInfo:   NodeInfo{Span: p.spanFrom(start)},
		Kind:       kind,
		Constraint: constraint,
	}, nil
}

// parseJoinConstraint parses: SEL cmpr SEL | SEL
func (p *Parser) parseJoinConstraint() (JoinConstraint, error) {
	if !p.check(token.SEL) {
		return nil, p.syntaxError("joinConstraint", expectSelector)
	}
	left := p.parseSelector()

	op, ok := lookupCmpr(p.tok().Type)
	if !ok {
		return &JoinSingle{NodeInfo: left.NodeInfo, Selector: left}, nil
	}
	opPos := p.cur.Advance().Pos

	if !p.check(token.SEL) {
		return nil, p.syntaxError("joinConstraint", expectSelector)
	}
	right := p.parseSelector()

	return &JoinPredicate{
		NodeInfo: NodeInfo{Span: left.Span.Cover(right.Span)},
		Left:     left,
		Op:       op,
		OpPos:    opPos,
		Right:    right,
	}, nil
}

// ---------- Row Range ----------

// parseRowRange parses: '.[' ( NN ':' NN | NN ':' | ':' NN | NN )? ']'
func (p *Parser) parseRowRange() (RowRange, error) {
	start := p.tok().Pos
	p.cur.Advance() // consume '.['

	var rr RowRange
	switch {
	case p.check(token.RBRA):
		rr = &RowRangeUnbounded{}

	case p.check(token.COLON):
		p.cur.Advance()
		to, toPos, err := p.parseRowIndex()
		if err != nil {
			return nil, err
		}
		rr = &RowRangeToOnly{To: to, ToPos: toPos}

	case p.check(token.NN):
		from, fromPos, err := p.parseRowIndex()
		if err != nil {
			return nil, err
		}
		switch {
		case !p.match(token.COLON):
			rr = &RowRangeSingle{N: from, NPos: fromPos}
		case p.check(token.NN):
			to, toPos, err := p.parseRowIndex()
			if err != nil {
				return nil, err
			}
			rr = &RowRangeBounded{From: from, To: to, FromPos: fromPos, ToPos: toPos}
		default:
			rr = &RowRangeFromOnly{From: from, FromPos: fromPos}
		}

	default:
		return nil, p.syntaxError("rowRange", expectRowRange)
	}

	if _, err := p.expect("rowRange", token.RBRA); err != nil {
		return nil, err
	}

	setRowRangeSpan(rr, p.spanFrom(start))
	return rr, nil
}

// parseRowIndex consumes an NN token and returns its value and position.
func (p *Parser) parseRowIndex() (int, Position, error) {
	if !p.check(token.NN) {
		return 0, Position{}, p.syntaxError("rowRange", expectRowIndex)
	}
	tok := p.tok()
	n, err := strconv.Atoi(tok.Literal)
	if err != nil {
		return 0, Position{}, &SyntaxError{
			Rule:     "rowRange",
			Pos:      tok.Pos,
			Found:    tok,
			Expected: fmt.Sprintf("%s that fits in an int", expectRowIndex),
		}
	}
	p.cur.Advance()
	return n, tok.Pos, nil
}

func setRowRangeSpan(rr RowRange, span token.Span) {
	switch r := rr.(type) {
	case *RowRangeBounded:
		r.Span = span
	case *RowRangeFromOnly:
		r.Span = span
	case *RowRangeToOnly:
		r.Span = span
	case *RowRangeSingle:
		r.Span = span
	case *RowRangeUnbounded:
		r.Span = span
	}
}
