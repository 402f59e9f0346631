package parser

import "github.com/leapstack-labs/slq/pkg/token"

// Operator precedence tiers, loosest to tightest. All binary operators
// are left-associative. PrecedenceUnary binds tighter than every binary
// tier, so a prefix operator applies to a single atom.
const (
	PrecedenceNone     = 0
	PrecedenceAnd      = 2 // &&
	PrecedenceEquality = 3 // == !=
	PrecedenceCompare  = 4 // <= < >= >
	PrecedenceBitwise  = 5 // << >> &
	PrecedenceAdd      = 6 // + -
	PrecedenceMultiply = 7 // * / %
	PrecedenceConcat   = 8 // ||
	PrecedenceUnary    = 9
)

// BinaryOp is a binary operator.
type BinaryOp int

// BinaryOp values.
const (
	OpConcat BinaryOp = iota
	OpMul
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpShl
	OpShr
	OpBitAnd
	OpLe
	OpLt
	OpGe
	OpGt
	OpEq
	OpNeq
	OpAnd
)

type binaryOpInfo struct {
	text string
	prec int
	tok  TokenType
}

var binaryOps = [...]binaryOpInfo{
	OpConcat: {"||", PrecedenceConcat, token.DPIPE},
	OpMul:    {"*", PrecedenceMultiply, token.STAR},
	OpDiv:    {"/", PrecedenceMultiply, token.SLASH},
	OpMod:    {"%", PrecedenceMultiply, token.PERCENT},
	OpAdd:    {"+", PrecedenceAdd, token.PLUS},
	OpSub:    {"-", PrecedenceAdd, token.MINUS},
	OpShl:    {"<<", PrecedenceBitwise, token.SHL},
	OpShr:    {">>", PrecedenceBitwise, token.SHR},
	OpBitAnd: {"&", PrecedenceBitwise, token.AMP},
	OpLe:     {"<=", PrecedenceCompare, token.LT_EQ},
	OpLt:     {"<", PrecedenceCompare, token.LT},
	OpGe:     {">=", PrecedenceCompare, token.GT_EQ},
	OpGt:     {">", PrecedenceCompare, token.GT},
	OpEq:     {"==", PrecedenceEquality, token.EQ},
	OpNeq:    {"!=", PrecedenceEquality, token.NEQ},
	OpAnd:    {"&&", PrecedenceAnd, token.AND},
}

// binaryByToken is the infix dispatch table: token kind to operator.
var binaryByToken = func() map[TokenType]BinaryOp {
	m := make(map[TokenType]BinaryOp, len(binaryOps))
	for op, info := range binaryOps {
		m[info.tok] = BinaryOp(op)
	}
	return m
}()

func (op BinaryOp) String() string {
	if op < 0 || int(op) >= len(binaryOps) {
		return "?"
	}
	return binaryOps[op].text
}

// Precedence returns the operator's tier.
func (op BinaryOp) Precedence() int {
	if op < 0 || int(op) >= len(binaryOps) {
		return PrecedenceNone
	}
	return binaryOps[op].prec
}

// Token returns the token kind that spells the operator.
func (op BinaryOp) Token() TokenType {
	return binaryOps[op].tok
}

// LookupBinaryOp returns the binary operator spelled by t.
func LookupBinaryOp(t TokenType) (BinaryOp, bool) {
	op, ok := binaryByToken[t]
	return op, ok
}

// UnaryOp is a prefix operator.
type UnaryOp int

// UnaryOp values.
const (
	OpPlus UnaryOp = iota
	OpMinus
	OpBitNot
	OpNot
)

var unaryText = [...]string{"+", "-", "~", "!"}

func (op UnaryOp) String() string {
	if op < 0 || int(op) >= len(unaryText) {
		return "?"
	}
	return unaryText[op]
}

var unaryTokens = [...]TokenType{token.PLUS, token.MINUS, token.TILDE, token.BANG}

// Token returns the token kind that spells the operator.
func (op UnaryOp) Token() TokenType {
	return unaryTokens[op]
}

// LookupUnaryOp returns the prefix operator spelled by t.
func LookupUnaryOp(t TokenType) (UnaryOp, bool) {
	switch t {
	case token.PLUS:
		return OpPlus, true
	case token.MINUS:
		return OpMinus, true
	case token.TILDE:
		return OpBitNot, true
	case token.BANG:
		return OpNot, true
	}
	return 0, false
}

var cmprTokens = [...]TokenType{token.LT_EQ, token.LT, token.GT_EQ, token.GT, token.NEQ, token.EQ}

// Token returns the token kind that spells the comparison.
func (c Cmpr) Token() TokenType {
	return cmprTokens[c]
}

var fnTokens = [...]TokenType{token.SUM_LOWER, token.AVG_LOWER, token.COUNT_LOWER, token.WHERE_LOWER}

// Token returns the token kind of the canonical lower-case spelling.
func (f FnName) Token() TokenType {
	return fnTokens[f]
}

// Token returns the token kind of the join keyword.
func (k JoinKind) Token() TokenType {
	return token.LookupIdent(string(k))
}

// lookupCmpr returns the join comparison spelled by t.
func lookupCmpr(t TokenType) (Cmpr, bool) {
	switch t {
	case token.LT_EQ:
		return CmprLE, true
	case token.LT:
		return CmprLT, true
	case token.GT_EQ:
		return CmprGE, true
	case token.GT:
		return CmprGT, true
	case token.NEQ:
		return CmprNEQ, true
	case token.EQ:
		return CmprEQ, true
	}
	return 0, false
}

// lookupFnName folds the eight function spellings onto FnName.
func lookupFnName(t TokenType) (FnName, bool) {
	switch t {
	case token.SUM_LOWER, token.SUM_UPPER:
		return FnSum, true
	case token.AVG_LOWER, token.AVG_UPPER:
		return FnAvg, true
	case token.COUNT_LOWER, token.COUNT_UPPER:
		return FnCount, true
	case token.WHERE_LOWER, token.WHERE_UPPER:
		return FnWhere, true
	}
	return 0, false
}

// lookupJoinKind maps a join keyword to its spelling.
func lookupJoinKind(t TokenType) (JoinKind, bool) {
	switch t {
	case token.JOIN_LOWER:
		return JoinLower, true
	case token.JOIN_UPPER:
		return JoinUpper, true
	case token.JOIN_SHORT:
		return JoinShort, true
	}
	return "", false
}
