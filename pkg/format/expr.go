package format

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/slq/pkg/parser"
	"github.com/leapstack-labs/slq/pkg/token"
)

func (p *Printer) formatExpr(e parser.Expr) {
	switch expr := e.(type) {
	case *parser.Selector:
		p.write(expr.Text)
	case *parser.Literal:
		p.formatLiteral(expr)
	case *parser.UnaryExpr:
		p.formatUnaryExpr(expr)
	case *parser.BinaryExpr:
		p.formatBinaryExpr(expr)
	case *parser.FuncCall:
		p.formatFuncCall(expr)
	default:
		p.fail(fmt.Errorf("%w: unknown expression %T", ErrNotRepresentable, e))
	}
}

func (p *Printer) formatLiteral(lit *parser.Literal) {
	switch lit.Type {
	case parser.LiteralNull:
		if lit.Value == "NULL" {
			p.write("NULL")
		} else {
			p.write("null")
		}
	case parser.LiteralString:
		p.write(quote(lit.Value))
	default:
		if lit.Value == "" {
			p.fail(fmt.Errorf("%w: empty %s literal", ErrNotRepresentable, lit.Type))
			return
		}
		p.write(lit.Value)
	}
}

// formatUnaryExpr prints the operator attached to its operand. The
// operand binds tighter than any binary operator, so it cannot itself be
// a binary expression.
func (p *Printer) formatUnaryExpr(expr *parser.UnaryExpr) {
	if _, ok := expr.Expr.(*parser.BinaryExpr); ok {
		p.fail(fmt.Errorf("%w: binary operand of unary %s", ErrNotRepresentable, expr.Op))
		return
	}
	p.write(expr.Op.String())
	p.formatExpr(expr.Expr)
}

// formatBinaryExpr prints left op right. Operators are left-associative,
// so a left operand may bind as loosely as op, a right operand must bind
// strictly tighter.
func (p *Printer) formatBinaryExpr(expr *parser.BinaryExpr) {
	prec := expr.Op.Precedence()
	if left, ok := expr.Left.(*parser.BinaryExpr); ok && left.Op.Precedence() < prec {
		p.fail(fmt.Errorf("%w: left operand %s of %s", ErrNotRepresentable, left.Op, expr.Op))
		return
	}
	if right, ok := expr.Right.(*parser.BinaryExpr); ok && right.Op.Precedence() <= prec {
		p.fail(fmt.Errorf("%w: right operand %s of %s", ErrNotRepresentable, right.Op, expr.Op))
		return
	}

	p.formatExpr(expr.Left)
	p.space()
	p.write(expr.Op.String())
	p.space()
	p.formatExpr(expr.Right)
}

func (p *Printer) formatFuncCall(fn *parser.FuncCall) {
	if fn.Wildcard && len(fn.Args) > 0 {
		p.fail(fmt.Errorf("%w: %s call has both arguments and wildcard", ErrNotRepresentable, fn.Name))
		return
	}

	p.write(fn.Name.String())
	p.kw(token.LPAR)
	if fn.Wildcard {
		p.kw(token.STAR)
	} else {
		p.formatList(len(fn.Args), func(i int) { p.formatExpr(fn.Args[i]) }, ", ")
	}
	p.kw(token.RPAR)
}

// quote renders s as a double-quoted string literal using only the
// escapes the lexer accepts. s is valid UTF-8 for every parsed tree.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
