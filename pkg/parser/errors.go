package parser

import "fmt"

// Error is implemented by every error the lexer and parser return. A
// parse either yields a complete tree or exactly one Error; partial trees
// are never returned.
type Error interface {
	error
	Position() Position
}

// LexError reports a character at which no token pattern matches.
type LexError struct {
	Pos     Position
	Char    rune
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Position implements Error.
func (e *LexError) Position() Position { return e.Pos }

// SyntaxError reports an expected-token mismatch in a grammar rule.
type SyntaxError struct {
	Rule     string // grammar rule that failed, e.g. "rowRange"
	Pos      Position
	Found    Token
	Expected string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: in %s: "+ErrUnexpectedToken,
		e.Pos.Line, e.Pos.Column, e.Rule, e.Found.Describe(), e.Expected)
}

// Position implements Error.
func (e *SyntaxError) Position() Position { return e.Pos }

// ExprSyntaxError reports an expression with no valid atom where one is
// required, including an operator that is missing its right operand.
type ExprSyntaxError struct {
	Pos      Position
	Found    Token
	Expected string
}

func (e *ExprSyntaxError) Error() string {
	return fmt.Sprintf("expression error at line %d, column %d: "+ErrUnexpectedToken,
		e.Pos.Line, e.Pos.Column, e.Found.Describe(), e.Expected)
}

// Position implements Error.
func (e *ExprSyntaxError) Position() Position { return e.Pos }

// Common error messages
const (
	ErrUnexpectedToken    = "unexpected %s, expected %s"
	ErrUnexpectedChar     = "unexpected character %q"
	ErrUnterminatedString = "unterminated string literal"
	ErrInvalidEscape      = "invalid escape sequence %q in string literal"
	ErrInvalidUTF8        = "invalid UTF-8 byte %#x in string literal"
	ErrLoneSurrogate      = "unpaired surrogate %q in string literal"
	ErrInvalidNumber      = "invalid number literal %q"
)

// Expected-construct descriptions used in syntax errors.
const (
	expectOperand     = "expression"
	expectElement     = "datasource, selector, join, row range or expression"
	expectSeparator   = "';' or end of input"
	expectSelector    = "selector"
	expectRowRange    = "row index, ':' or ']'"
	expectRowIndex    = "row index"
	expectCallArgs    = "expression, '*' or ')'"
	expectArgListEnd  = "',' or ')'"
	expectEndOfInput  = "end of input"
	expectJoinKeyword = "'join', 'JOIN' or 'j'"
)
