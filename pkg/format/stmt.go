package format

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/slq/pkg/parser"
	"github.com/leapstack-labs/slq/pkg/token"
)

func (p *Printer) formatStmtList(stmts *parser.StmtList, d decoration) {
	if stmts != nil {
		for i, q := range stmts.Queries {
			if i > 0 {
				p.kw(token.SEMI)
				p.writeln()
			}
			p.formatComments(d.leading[q])
			p.formatQuery(q)
		}
		if len(stmts.Queries) > 0 && len(d.trailing) > 0 {
			p.writeln()
		}
	}
	p.formatComments(d.trailing)
}

func (p *Printer) formatQuery(q *parser.Query) {
	if q == nil || len(q.Segments) == 0 {
		p.fail(fmt.Errorf("%w: query has no segments", ErrNotRepresentable))
		return
	}
	p.formatList(len(q.Segments), func(i int) { p.formatSegment(q.Segments[i]) }, " | ")
}

func (p *Printer) formatSegment(seg *parser.Segment) {
	if seg == nil || len(seg.Elements) == 0 {
		p.fail(fmt.Errorf("%w: segment has no elements", ErrNotRepresentable))
		return
	}
	p.formatList(len(seg.Elements), func(i int) { p.formatElement(seg.Elements[i]) }, ", ")
}

func (p *Printer) formatElement(el parser.Element) {
	switch e := el.(type) {
	case *parser.DsTblElement:
		p.write(e.Datasource.Text)
		p.write(e.Selector.Text)
	case *parser.DsElement:
		p.write(e.Datasource.Text)
	case *parser.SelElement:
		p.write(e.Selector.Text)
	case *parser.ExprElement:
		p.formatExprElement(e)
	case *parser.Join:
		p.formatJoin(e)
	case parser.RowRange:
		p.formatRowRange(e)
	default:
		p.fail(fmt.Errorf("%w: unknown element %T", ErrNotRepresentable, el))
	}
}

// formatExprElement prints an expression element. A bare selector would
// re-parse as a SelElement, which is the same text, so it is allowed.
func (p *Printer) formatExprElement(e *parser.ExprElement) {
	p.formatExpr(e.Expr)
}

func (p *Printer) formatJoin(j *parser.Join) {
	kind := j.Kind
	if p.opts.JoinSpelling != "" {
		kind = parser.JoinKind(p.opts.JoinSpelling)
	}
	p.write(string(kind))
	p.kw(token.LPAR)

	switch c := j.Constraint.(type) {
	case *parser.JoinPredicate:
		p.write(c.Left.Text)
		p.space()
		p.write(c.Op.String())
		p.space()
		p.write(c.Right.Text)
	case *parser.JoinSingle:
		p.write(c.Selector.Text)
	default:
		p.fail(fmt.Errorf("%w: join without constraint", ErrNotRepresentable))
	}

	p.kw(token.RPAR)
}

func (p *Printer) formatRowRange(rr parser.RowRange) {
	p.kw(token.ROWRANGE)
	switch r := rr.(type) {
	case *parser.RowRangeBounded:
		p.rowIndex(r.From)
		p.kw(token.COLON)
		p.rowIndex(r.To)
	case *parser.RowRangeFromOnly:
		p.rowIndex(r.From)
		p.kw(token.COLON)
	case *parser.RowRangeToOnly:
		p.kw(token.COLON)
		p.rowIndex(r.To)
	case *parser.RowRangeSingle:
		p.rowIndex(r.N)
	case *parser.RowRangeUnbounded:
	}
	p.kw(token.RBRA)
}

func (p *Printer) rowIndex(n int) {
	if n < 0 {
		p.fail(fmt.Errorf("%w: negative row index %d", ErrNotRepresentable, n))
		return
	}
	p.write(strconv.Itoa(n))
}
