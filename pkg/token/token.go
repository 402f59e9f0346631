// Package token defines the token kinds produced by the SLQ lexer.
//
// Every literal glyph and reserved word of the grammar has its own kind.
// Several glyphs carry different meanings depending on where they appear
// (for example '*' is both multiplication and the call wildcard), so the
// parser always dispatches on the kind, never on a generic operator class.
package token

import "fmt"

// TokenType represents the kind of a lexical token.
//
//nolint:revive // token.TokenType reads clearly at call sites
type TokenType int32

//nolint:revive // ALL_CAPS names follow the grammar's token vocabulary
const (
	EOF TokenType = iota
	ILLEGAL

	// Literal tokens, one kind per spelling.
	SEMI        // ;
	STAR        // *
	JOIN_LOWER  // join
	JOIN_UPPER  // JOIN
	JOIN_SHORT  // j
	ROWRANGE    // .[
	SUM_LOWER   // sum
	SUM_UPPER   // SUM
	AVG_LOWER   // avg
	AVG_UPPER   // AVG
	COUNT_LOWER // count
	COUNT_UPPER // COUNT
	WHERE_LOWER // where
	WHERE_UPPER // WHERE
	DPIPE       // ||
	SLASH       // /
	PERCENT     // %
	PLUS        // +
	MINUS       // -
	SHL         // <<
	SHR         // >>
	AMP         // &
	AND         // &&
	TILDE       // ~
	BANG        // !

	// Symbolic tokens.
	ID
	WS
	LPAR  // (
	RPAR  // )
	LBRA  // [
	RBRA  // ]
	COMMA // ,
	PIPE  // |
	COLON // :
	NULL
	NN
	NUMBER
	LT_EQ // <=
	LT    // <
	GT_EQ // >=
	GT    // >
	NEQ   // !=
	EQ    // ==
	SEL
	DATASOURCE
	STRING
	LINECOMMENT
)

// String returns the quoted glyph for literal kinds and the symbolic
// name for everything else.
func (t TokenType) String() string {
	if lit, ok := literals[t]; ok {
		return "'" + lit + "'"
	}
	if name, ok := symbols[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// Glyph returns the exact source spelling of a literal kind, or "" for
// symbolic kinds whose text varies.
func (t TokenType) Glyph() string {
	return literals[t]
}

var literals = map[TokenType]string{
	SEMI:        ";",
	STAR:        "*",
	JOIN_LOWER:  "join",
	JOIN_UPPER:  "JOIN",
	JOIN_SHORT:  "j",
	ROWRANGE:    ".[",
	SUM_LOWER:   "sum",
	SUM_UPPER:   "SUM",
	AVG_LOWER:   "avg",
	AVG_UPPER:   "AVG",
	COUNT_LOWER: "count",
	COUNT_UPPER: "COUNT",
	WHERE_LOWER: "where",
	WHERE_UPPER: "WHERE",
	DPIPE:       "||",
	SLASH:       "/",
	PERCENT:     "%",
	PLUS:        "+",
	MINUS:       "-",
	SHL:         "<<",
	SHR:         ">>",
	AMP:         "&",
	AND:         "&&",
	TILDE:       "~",
	BANG:        "!",
	LPAR:        "(",
	RPAR:        ")",
	LBRA:        "[",
	RBRA:        "]",
	COMMA:       ",",
	PIPE:        "|",
	COLON:       ":",
	LT_EQ:       "<=",
	LT:          "<",
	GT_EQ:       ">=",
	GT:          ">",
	NEQ:         "!=",
	EQ:          "==",
}

var symbols = map[TokenType]string{
	EOF:         "EOF",
	ILLEGAL:     "ILLEGAL",
	ID:          "ID",
	WS:          "WS",
	NULL:        "NULL",
	NN:          "NN",
	NUMBER:      "NUMBER",
	SEL:         "SEL",
	DATASOURCE:  "DATASOURCE",
	STRING:      "STRING",
	LINECOMMENT: "LINECOMMENT",
}

// reserved maps reserved spellings to their kinds. Matching is
// case-exact: only the listed spellings are reserved.
var reserved = map[string]TokenType{
	"join":  JOIN_LOWER,
	"JOIN":  JOIN_UPPER,
	"j":     JOIN_SHORT,
	"sum":   SUM_LOWER,
	"SUM":   SUM_UPPER,
	"avg":   AVG_LOWER,
	"AVG":   AVG_UPPER,
	"count": COUNT_LOWER,
	"COUNT": COUNT_UPPER,
	"where": WHERE_LOWER,
	"WHERE": WHERE_UPPER,
	"null":  NULL,
	"NULL":  NULL,
}

// LookupIdent returns the reserved kind for ident, or ID if ident is not
// a reserved word.
func LookupIdent(ident string) TokenType {
	if tok, ok := reserved[ident]; ok {
		return tok
	}
	return ID
}

// IsJoin reports whether t is one of the three join spellings.
func IsJoin(t TokenType) bool {
	return t == JOIN_LOWER || t == JOIN_UPPER || t == JOIN_SHORT
}

// IsFnName reports whether t is one of the eight function name spellings.
func IsFnName(t TokenType) bool {
	return t >= SUM_LOWER && t <= WHERE_UPPER
}

// IsComparison reports whether t is a comparison operator usable in a
// join predicate.
func IsComparison(t TokenType) bool {
	return t >= LT_EQ && t <= EQ
}

// IsLiteral reports whether t starts a literal value.
func IsLiteral(t TokenType) bool {
	switch t {
	case NULL, NN, NUMBER, STRING:
		return true
	}
	return false
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string // decoded value for STRING, source text otherwise
	Pos     Position
	Len     int // length in bytes of the source text
}

// End returns the position just past the token's source text. Tokens
// never span lines except STRING, whose end column is approximate.
func (t Token) End() Position {
	return Position{
		Line:   t.Pos.Line,
		Column: t.Pos.Column + t.Len,
		Offset: t.Pos.Offset + t.Len,
	}
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: t.End()}
}

// Describe returns a short human-readable description used in error
// messages, e.g. `SEL ".name"` or `end of input`.
func (t Token) Describe() string {
	switch {
	case t.Type == EOF:
		return "end of input"
	case t.Type.Glyph() != "":
		return t.Type.String()
	default:
		return fmt.Sprintf("%s %q", t.Type, t.Literal)
	}
}
