package parser

import "github.com/leapstack-labs/slq/pkg/token"

// ---------- Primary Expressions ----------

// parsePrimary parses an expression atom: a selector, a literal, or a
// function call.
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.tok()

	switch {
	case tok.Type == token.SEL:
		return p.parseSelector(), nil
	case token.IsLiteral(tok.Type):
		return p.parseLiteral(), nil
	case token.IsFnName(tok.Type):
		return p.parseFuncCall()
	}

	return nil, p.exprError(expectOperand)
}

func (p *Parser) parseLiteral() *Literal {
	tok := p.cur.Advance()
	lit := &Literal{NodeInfo: NodeInfo{Span: tok.Span()}, Value: tok.Literal}
	switch tok.Type {
	case token.NULL:
		lit.Type = LiteralNull
	case token.NN:
		lit.Type = LiteralInt
	case token.NUMBER:
		lit.Type = LiteralNumber
	case token.STRING:
		lit.Type = LiteralString
	}
	return lit
}

// parseFuncCall parses: fnName '(' ( expr ( ',' expr )* | '*' )? ')'
//
// Inside the parentheses a leading '*' is the wildcard, never
// multiplication.
func (p *Parser) parseFuncCall() (*FuncCall, error) {
	start := p.tok().Pos
	nameTok := p.cur.Advance().Type
	name, _ := lookupFnName(nameTok)
	fn := &FuncCall{Name: name, NameTok: nameTok}

	if _, err := p.expect("fn", token.LPAR); err != nil {
		return nil, err
	}

	switch {
	case p.check(token.STAR):
		fn.Wildcard = true
		fn.WildcardPos = p.cur.Advance().Pos

	case p.check(token.RPAR):
		// no arguments

	case canStartExpr(p.tok().Type):
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			fn.Args = append(fn.Args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
		if !p.check(token.RPAR) {
			return nil, p.syntaxError("fn", expectArgListEnd)
		}

	default:
		return nil, p.syntaxError("fn", expectCallArgs)
	}

	if _, err := p.expect("fn", token.RPAR); err != nil {
		return nil, err
	}

	fn.Span = p.spanFrom(start)
	return fn, nil
}
