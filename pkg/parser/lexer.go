package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/leapstack-labs/slq/pkg/token"
)

// Lexer tokenizes SLQ input. Whitespace and line comments are skipped;
// comments are collected on Comments instead of being emitted.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	// Comments collected during lexing.
	Comments []*token.Comment
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token. At end of input it returns an EOF
// token; every further call returns EOF again.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	if l.atEOF() {
		return Token{Type: token.EOF, Pos: pos}, nil
	}

	switch l.ch {
	case ';':
		return l.single(token.SEMI, pos), nil
	case '*':
		return l.single(token.STAR, pos), nil
	case '/':
		return l.single(token.SLASH, pos), nil
	case '%':
		return l.single(token.PERCENT, pos), nil
	case '+':
		return l.single(token.PLUS, pos), nil
	case '-':
		return l.single(token.MINUS, pos), nil
	case '~':
		return l.single(token.TILDE, pos), nil
	case '(':
		return l.single(token.LPAR, pos), nil
	case ')':
		return l.single(token.RPAR, pos), nil
	case '[':
		return l.single(token.LBRA, pos), nil
	case ']':
		return l.single(token.RBRA, pos), nil
	case ',':
		return l.single(token.COMMA, pos), nil
	case ':':
		return l.single(token.COLON, pos), nil
	case '|':
		if l.peekChar() == '|' {
			return l.double(token.DPIPE, pos), nil
		}
		return l.single(token.PIPE, pos), nil
	case '&':
		if l.peekChar() == '&' {
			return l.double(token.AND, pos), nil
		}
		return l.single(token.AMP, pos), nil
	case '<':
		switch l.peekChar() {
		case '=':
			return l.double(token.LT_EQ, pos), nil
		case '<':
			return l.double(token.SHL, pos), nil
		}
		return l.single(token.LT, pos), nil
	case '>':
		switch l.peekChar() {
		case '=':
			return l.double(token.GT_EQ, pos), nil
		case '>':
			return l.double(token.SHR, pos), nil
		}
		return l.single(token.GT, pos), nil
	case '!':
		if l.peekChar() == '=' {
			return l.double(token.NEQ, pos), nil
		}
		return l.single(token.BANG, pos), nil
	case '=':
		if l.peekChar() == '=' {
			return l.double(token.EQ, pos), nil
		}
		return Token{}, l.illegal(pos)
	case '.':
		switch next := l.peekChar(); {
		case next == '[':
			return l.double(token.ROWRANGE, pos), nil
		case isIdentStart(next):
			return l.readSelector(pos), nil
		}
		return Token{}, l.illegal(pos)
	case '@':
		if !isIdentStart(l.peekChar()) {
			return Token{}, l.illegal(pos)
		}
		l.readChar() // skip '@'
		l.readIdentifier()
		return l.since(token.DATASOURCE, pos), nil
	case '"':
		return l.readString(pos)
	}

	switch {
	case isIdentStart(l.ch):
		ident := l.readIdentifier()
		tok := l.since(LookupIdent(ident), pos)
		return tok, nil
	case isDigit(l.ch):
		return l.readNumber(pos)
	}
	return Token{}, l.illegal(pos)
}

// single consumes one character and returns a token of type t.
func (l *Lexer) single(t TokenType, pos Position) Token {
	lit := l.input[l.pos : l.pos+1]
	l.readChar()
	return Token{Type: t, Literal: lit, Pos: pos, Len: 1}
}

// double consumes two characters and returns a token of type t.
func (l *Lexer) double(t TokenType, pos Position) Token {
	lit := l.input[l.pos : l.pos+2]
	l.readChar()
	l.readChar()
	return Token{Type: t, Literal: lit, Pos: pos, Len: 2}
}

// since returns a token of type t whose text runs from pos to the
// current position.
func (l *Lexer) since(t TokenType, pos Position) Token {
	return Token{Type: t, Literal: l.input[pos.Offset:l.pos], Pos: pos, Len: l.pos - pos.Offset}
}

// illegal returns a LexError for the character at the current position.
func (l *Lexer) illegal(pos Position) error {
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return &LexError{Pos: pos, Char: r, Message: fmt.Sprintf(ErrUnexpectedChar, r)}
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEOF() {
		switch l.ch {
		case ' ', '\t', '\n', '\r':
			l.readChar()
		case '#':
			l.collectLineComment()
		default:
			return
		}
	}
}

// collectLineComment collects a '#' comment up to the end of the line.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	for !l.atEOF() && l.ch != '\n' {
		l.readChar()
	}
	l.Comments = append(l.Comments, &token.Comment{
		Text: strings.TrimRight(l.input[startPos.Offset:l.pos], "\r"),
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// readSelector reads a dotted selector path such as ".tbl.col".
func (l *Lexer) readSelector(pos Position) Token {
	for l.ch == '.' && isIdentStart(l.peekChar()) {
		l.readChar() // skip '.'
		l.readIdentifier()
	}
	return l.since(token.SEL, pos)
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for !l.atEOF() && (isIdentStart(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads an NN (unsigned integer) or a NUMBER (decimal and/or
// exponent form). Signs are never part of a numeric token.
func (l *Lexer) readNumber(pos Position) (Token, error) {
	typ := token.NN

	for !l.atEOF() && isDigit(l.ch) {
		l.readChar()
	}
	if intPart := l.input[pos.Offset:l.pos]; len(intPart) > 1 && intPart[0] == '0' {
		return Token{}, &LexError{Pos: pos, Char: '0', Message: fmt.Sprintf(ErrInvalidNumber, intPart)}
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		typ = token.NUMBER
		l.readChar() // skip '.'
		for !l.atEOF() && isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		signed := next == '+' || next == '-'
		if isDigit(next) || (signed && l.readPos+1 < len(l.input) && isDigit(l.input[l.readPos+1])) {
			typ = token.NUMBER
			l.readChar() // skip 'e'
			if signed {
				l.readChar()
			}
			for !l.atEOF() && isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return l.since(typ, pos), nil
}

// readString reads a double-quoted string literal and decodes its
// escape sequences.
func (l *Lexer) readString(pos Position) (Token, error) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for {
		if l.atEOF() || l.ch == '\n' {
			return Token{}, &LexError{Pos: pos, Char: '"', Message: ErrUnterminatedString}
		}
		switch l.ch {
		case '"':
			l.readChar() // skip closing quote
			return Token{Type: token.STRING, Literal: result.String(), Pos: pos, Len: l.pos - pos.Offset}, nil
		case '\\':
			escPos := l.currentPos()
			r, err := l.readEscape()
			if err != nil {
				return Token{}, &LexError{Pos: escPos, Char: '\\', Message: err.Error()}
			}
			result.WriteRune(r)
		default:
			if l.ch < utf8.RuneSelf {
				result.WriteByte(l.ch)
				l.readChar()
				continue
			}
			r, size := utf8.DecodeRuneInString(l.input[l.pos:])
			if r == utf8.RuneError && size == 1 {
				return Token{}, &LexError{Pos: l.currentPos(), Char: r, Message: fmt.Sprintf(ErrInvalidUTF8, l.ch)}
			}
			result.WriteString(l.input[l.pos : l.pos+size])
			for range size {
				l.readChar()
			}
		}
	}
}

// readEscape decodes the escape sequence starting at the current '\'.
func (l *Lexer) readEscape() (rune, error) {
	start := l.pos
	l.readChar() // skip '\'
	if l.atEOF() {
		return 0, errors.New(ErrUnterminatedString)
	}
	c := l.ch
	l.readChar()
	switch c {
	case '"', '\\', '/':
		return rune(c), nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		r, err := l.readHex4(start)
		if err != nil {
			return 0, err
		}
		if !utf16.IsSurrogate(r) {
			return r, nil
		}
		// A high surrogate must be followed by an escaped low surrogate.
		if r < 0xdc00 && l.ch == '\\' && l.peekChar() == 'u' {
			next := l.pos
			l.readChar()
			l.readChar()
			lo, err := l.readHex4(next)
			if err != nil {
				return 0, err
			}
			if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
				return pair, nil
			}
		}
		return 0, fmt.Errorf(ErrLoneSurrogate, l.input[start:l.pos])
	}
	return 0, fmt.Errorf(ErrInvalidEscape, l.input[start:l.pos])
}

// readHex4 reads the four hex digits of a \u escape that began at start.
func (l *Lexer) readHex4(start int) (rune, error) {
	end := l.pos + 4
	if end > len(l.input) {
		return 0, fmt.Errorf(ErrInvalidEscape, l.input[start:])
	}
	v, err := strconv.ParseUint(l.input[l.pos:end], 16, 32)
	if err != nil {
		return 0, fmt.Errorf(ErrInvalidEscape, l.input[start:end])
	}
	for l.pos < end {
		l.readChar()
	}
	return rune(v), nil
}

// isIdentStart returns true if ch can start an identifier.
func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input, terminated by a single EOF
// token. It stops at the first LexError.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}
