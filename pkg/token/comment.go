package token

import "strings"

// Comment is a line comment ("# ...") collected by the lexer. Comments
// never appear in the token stream.
type Comment struct {
	Text string // includes the leading '#'
	Span Span
}

// Body returns the comment text without the '#' marker and surrounding
// whitespace.
func (c *Comment) Body() string {
	return strings.TrimSpace(strings.TrimPrefix(c.Text, "#"))
}
