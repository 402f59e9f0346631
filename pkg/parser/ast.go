package parser

import (
	"strings"

	"github.com/leapstack-labs/slq/pkg/token"
)

// Node is implemented by every parse tree node.
type Node interface {
	GetSpan() token.Span
}

// Element is one comma-separated item of a segment.
type Element interface {
	Node
	elementNode()
}

// Expr represents an expression.
type Expr interface {
	Node
	exprNode()
}

// JoinConstraint is the parenthesized part of a join.
type JoinConstraint interface {
	Node
	joinConstraintNode()
}

// RowRange is the interior of a ".[...]" row range.
type RowRange interface {
	Element
	rowRangeNode()
}

// NodeInfo provides common fields for all nodes.
type NodeInfo struct {
	Span token.Span
}

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() token.Span {
	return n.Span
}

// ---------- Statement Structure ----------

// StmtList is the root of a parse: queries separated by one or more ';'.
// Queries is empty, never nil, for input holding only separators.
type StmtList struct {
	NodeInfo
	Queries []*Query
}

// Query is a pipeline of segments joined by '|'.
type Query struct {
	NodeInfo
	Segments []*Segment
}

// Segment returns the i-th segment, or nil if i is out of range.
func (q *Query) Segment(i int) *Segment {
	if i < 0 || i >= len(q.Segments) {
		return nil
	}
	return q.Segments[i]
}

// Segment is a non-empty list of elements joined by ','.
type Segment struct {
	NodeInfo
	Index    int // position within the parent query
	Elements []Element
}

// Uniform reports whether every element of the segment is the same
// element variant.
func (s *Segment) Uniform() bool {
	for i := 1; i < len(s.Elements); i++ {
		if elementKind(s.Elements[i]) != elementKind(s.Elements[0]) {
			return false
		}
	}
	return true
}

func elementKind(e Element) string {
	switch e.(type) {
	case *DsTblElement:
		return "dsTbl"
	case *DsElement:
		return "ds"
	case *SelElement:
		return "sel"
	case *Join:
		return "join"
	case RowRange:
		return "rowRange"
	default:
		return "expr"
	}
}

// ---------- Terminal Nodes ----------

// Selector is a dotted selector such as ".name" or ".tbl.col". It is both
// an expression atom and a component of several elements.
type Selector struct {
	NodeInfo
	Text string // includes the leading '.'
}

func (*Selector) exprNode() {}

// Parts splits the selector path: ".tbl.col" yields ["tbl", "col"].
func (s *Selector) Parts() []string {
	return strings.Split(strings.TrimPrefix(s.Text, "."), ".")
}

// Datasource is an '@'-prefixed datasource handle such as "@src".
type Datasource struct {
	NodeInfo
	Text string // includes the leading '@'
}

// Handle returns the datasource name without the '@'.
func (d *Datasource) Handle() string {
	return strings.TrimPrefix(d.Text, "@")
}

// ---------- Element Types ----------

// DsTblElement is a datasource immediately followed by a table selector,
// e.g. "@db.tbl".
type DsTblElement struct {
	NodeInfo
	Datasource *Datasource
	Selector   *Selector
}

func (*DsTblElement) elementNode() {}

// DsElement is a bare datasource, e.g. "@db".
type DsElement struct {
	NodeInfo
	Datasource *Datasource
}

func (*DsElement) elementNode() {}

// SelElement is a bare selector that stands alone in its segment slot.
type SelElement struct {
	NodeInfo
	Selector *Selector
}

func (*SelElement) elementNode() {}

// Parts splits the selector path.
func (e *SelElement) Parts() []string {
	return e.Selector.Parts()
}

// ExprElement is an element holding a general expression, e.g.
// ".price * 2" or "where(.age > 18)".
type ExprElement struct {
	NodeInfo
	Expr Expr
}

func (*ExprElement) elementNode() {}

// JoinKind is the exact join keyword spelling.
type JoinKind string

// JoinKind spellings.
const (
	JoinLower JoinKind = "join"
	JoinUpper JoinKind = "JOIN"
	JoinShort JoinKind = "j"
)

// Join is a join element: a join keyword followed by a parenthesized
// constraint.
type Join struct {
	NodeInfo
	Kind       JoinKind
	Constraint JoinConstraint
}

func (*Join) elementNode() {}

// Cmpr is a comparison operator in a join predicate.
type Cmpr int

// Cmpr values.
const (
	CmprLE Cmpr = iota
	CmprLT
	CmprGE
	CmprGT
	CmprNEQ
	CmprEQ
)

var cmprText = [...]string{"<=", "<", ">=", ">", "!=", "=="}

func (c Cmpr) String() string {
	if c < 0 || int(c) >= len(cmprText) {
		return "?"
	}
	return cmprText[c]
}

// JoinPredicate is an explicit join condition: SEL cmpr SEL.
type JoinPredicate struct {
	NodeInfo
	Left  *Selector
	Op    Cmpr
	OpPos token.Position
	Right *Selector
}

func (*JoinPredicate) joinConstraintNode() {}

// JoinSingle names a single join key column; the comparison is implicit
// equality.
type JoinSingle struct {
	NodeInfo
	Selector *Selector
}

func (*JoinSingle) joinConstraintNode() {}

// RowRangeBounded is ".[from:to]".
type RowRangeBounded struct {
	NodeInfo
	From    int
	To      int
	FromPos token.Position
	ToPos   token.Position
}

func (*RowRangeBounded) elementNode()  {}
func (*RowRangeBounded) rowRangeNode() {}

// RowRangeFromOnly is ".[from:]".
type RowRangeFromOnly struct {
	NodeInfo
	From    int
	FromPos token.Position
}

func (*RowRangeFromOnly) elementNode()  {}
func (*RowRangeFromOnly) rowRangeNode() {}

// RowRangeToOnly is ".[:to]".
type RowRangeToOnly struct {
	NodeInfo
	To    int
	ToPos token.Position
}

func (*RowRangeToOnly) elementNode()  {}
func (*RowRangeToOnly) rowRangeNode() {}

// RowRangeSingle is ".[n]".
type RowRangeSingle struct {
	NodeInfo
	N    int
	NPos token.Position
}

func (*RowRangeSingle) elementNode()  {}
func (*RowRangeSingle) rowRangeNode() {}

// RowRangeUnbounded is ".[]".
type RowRangeUnbounded struct {
	NodeInfo
}

func (*RowRangeUnbounded) elementNode()  {}
func (*RowRangeUnbounded) rowRangeNode() {}

// ---------- Expression Types ----------

// Literal represents a literal value.
type Literal struct {
	NodeInfo
	Type  LiteralType
	Value string // source text; the decoded value for strings
}

func (*Literal) exprNode() {}

// LiteralType represents the type of a literal.
type LiteralType int

// LiteralType constants.
const (
	LiteralNull LiteralType = iota
	LiteralInt
	LiteralNumber
	LiteralString
)

func (t LiteralType) String() string {
	switch t {
	case LiteralNull:
		return "null"
	case LiteralInt:
		return "int"
	case LiteralNumber:
		return "number"
	case LiteralString:
		return "string"
	}
	return "unknown"
}

// UnaryExpr represents a prefix operator applied to an operand.
type UnaryExpr struct {
	NodeInfo
	Op   UnaryOp
	Expr Expr
}

func (*UnaryExpr) exprNode() {}

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	NodeInfo
	Left  Expr
	Op    BinaryOp
	OpPos token.Position
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// FnName identifies one of the built-in functions. Upper and lower case
// spellings fold to the same value.
type FnName int

// FnName values.
const (
	FnSum FnName = iota
	FnAvg
	FnCount
	FnWhere
)

var fnNames = [...]string{"sum", "avg", "count", "where"}

// String returns the canonical lower-case spelling.
func (f FnName) String() string {
	if f < 0 || int(f) >= len(fnNames) {
		return "?"
	}
	return fnNames[f]
}

// FuncCall represents a function call. A call has explicit arguments, the
// wildcard, or nothing; never both arguments and the wildcard.
type FuncCall struct {
	NodeInfo
	Name        FnName
	NameTok     TokenType // spelling as written, e.g. SUM_UPPER
	Args        []Expr
	Wildcard    bool // count(*)
	WildcardPos token.Position
}

func (*FuncCall) exprNode() {}
