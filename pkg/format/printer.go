// Package format renders SLQ parse trees back to canonical query text.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/slq/pkg/token"
)

// Printer accumulates canonical output. The first error encountered is
// kept and every later write becomes a no-op.
type Printer struct {
	opts   Options
	output *bytes.Buffer
	err    error
}

func newPrinter(opts Options) *Printer {
	return &Printer{
		opts:   opts,
		output: &bytes.Buffer{},
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), "\n")
}

// Err returns the first error encountered while printing.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	p.output.WriteString(s)
}

func (p *Printer) writeln() {
	p.write("\n")
}

func (p *Printer) space() {
	p.write(" ")
}

// kw prints the glyph of a literal token kind.
func (p *Printer) kw(t token.TokenType) {
	p.write(t.Glyph())
}

func (p *Printer) formatComments(comments []*token.Comment) {
	for _, c := range comments {
		p.write(c.Text)
		p.writeln()
	}
}

// formatList prints count items separated by sep.
func (p *Printer) formatList(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
		}
	}
}
