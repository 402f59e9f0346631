package parser

import "github.com/leapstack-labs/slq/pkg/token"

// ---------- Expression Parsing (Precedence Climbing) ----------

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseExpressionWithPrecedence(PrecedenceNone + 1)
}

// parseExpressionWithPrecedence parses an expression whose binary
// operators all bind at least as tightly as minPrecedence. The right
// operand is parsed one tier higher, which makes every operator
// left-associative: a - b - c is (a - b) - c.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := LookupBinaryOp(p.tok().Type)
		if !ok || op.Precedence() < minPrecedence {
			break
		}
		opPos := p.cur.Advance().Pos

		right, err := p.parseExpressionWithPrecedence(op.Precedence() + 1)
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{
			NodeInfo: NodeInfo{Span: left.GetSpan().Cover(right.GetSpan())},
			Left:     left,
			Op:       op,
			OpPos:    opPos,
			Right:    right,
		}
	}

	return left, nil
}

// parseUnary parses a prefix operator chain. The operand is parsed at
// unary precedence, so -a * b is (-a) * b.
func (p *Parser) parseUnary() (Expr, error) {
	op, ok := LookupUnaryOp(p.tok().Type)
	if !ok {
		return p.parsePrimary()
	}
	start := p.cur.Advance().Pos

	operand, err := p.parseExpressionWithPrecedence(PrecedenceUnary)
	if err != nil {
		return nil, err
	}

	return &UnaryExpr{
		NodeInfo: NodeInfo{Span: token.Span{Start: start, End: operand.GetSpan().End}},
		Op:       op,
		Expr:     operand,
	}, nil
}

// canStartExpr reports whether t can begin an expression.
func canStartExpr(t TokenType) bool {
	if _, ok := LookupUnaryOp(t); ok {
		return true
	}
	return t == token.SEL || token.IsLiteral(t) || token.IsFnName(t)
}
