package parser

import "github.com/leapstack-labs/slq/pkg/token"

// Cursor buffers tokens pulled from a Lexer and provides the lookahead
// and bounded backtracking the grammar needs. Tokens are pulled on demand,
// so a LexError surfaces only when the parser reaches it.
type Cursor struct {
	lexer *Lexer
	buf   []Token
	i     int   // index of the current token in buf
	err   error // first lexer error, sticky
}

// NewCursor creates a cursor reading from l.
func NewCursor(l *Lexer) *Cursor {
	return &Cursor{lexer: l}
}

// fill makes sure buf holds at least n tokens, or ends with EOF, or the
// lexer has failed.
func (c *Cursor) fill(n int) {
	for len(c.buf) < n {
		if len(c.buf) > 0 && c.buf[len(c.buf)-1].Type == token.EOF {
			return
		}
		if c.err != nil {
			return
		}
		tok, err := c.lexer.NextToken()
		if err != nil {
			c.err = err
			return
		}
		c.buf = append(c.buf, tok)
	}
}

// Peek returns the token k positions ahead of the current one (k=0 is the
// current token) without consuming anything. Past the end of input it
// returns the EOF token. After a lexer failure it returns an ILLEGAL
// token positioned at the failure; Err reports the cause.
func (c *Cursor) Peek(k int) Token {
	c.fill(c.i + k + 1)
	if j := c.i + k; j < len(c.buf) {
		return c.buf[j]
	}
	if c.err != nil {
		var pos Position
		if le, ok := c.err.(Error); ok {
			pos = le.Position()
		}
		return Token{Type: token.ILLEGAL, Pos: pos}
	}
	return c.buf[len(c.buf)-1]
}

// Advance consumes and returns the current token. Advancing past EOF or
// past a lexer failure is a no-op.
func (c *Cursor) Advance() Token {
	tok := c.Peek(0)
	if c.i < len(c.buf) && tok.Type != token.EOF {
		c.i++
	}
	return tok
}

// Prev returns the most recently consumed token, or the zero Token if
// nothing has been consumed.
func (c *Cursor) Prev() Token {
	if c.i == 0 {
		return Token{}
	}
	return c.buf[c.i-1]
}

// Mark returns a position that Reset can later rewind to.
func (c *Cursor) Mark() int {
	return c.i
}

// Reset rewinds the cursor to a mark returned by Mark.
func (c *Cursor) Reset(mark int) {
	c.i = mark
}

// Err returns the first lexer error encountered, if any.
func (c *Cursor) Err() error {
	return c.err
}

// Comments returns the comments the lexer has collected so far.
func (c *Cursor) Comments() []*token.Comment {
	return c.lexer.Comments
}
