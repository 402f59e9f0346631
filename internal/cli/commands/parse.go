package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/slq/internal/cli/output"
	"github.com/leapstack-labs/slq/pkg/parser"
	"github.com/leapstack-labs/slq/pkg/token"
	"github.com/leapstack-labs/slq/pkg/walk"
	"github.com/spf13/cobra"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Expr     string // inline source instead of a file
	ExprOnly bool   // parse a single expression instead of a statement list
	Spans    bool   // include source spans in text output
}

// parseJSON is the machine-readable result of the parse command.
type parseJSON struct {
	Source string     `json:"source" yaml:"source"`
	Tree   *nodeJSON  `json:"tree,omitempty" yaml:"tree,omitempty"`
	Error  *errorJSON `json:"error,omitempty" yaml:"error,omitempty"`
}

// nodeJSON is the machine-readable form of a parse tree node.
type nodeJSON struct {
	Type     string            `json:"type" yaml:"type"`
	Span     string            `json:"span" yaml:"span"`
	Attrs    map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children []*nodeJSON       `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the parse tree of SLQ source",
		Long: `Parse SLQ source and print its tree.

Terminal output is an indented tree. JSON and YAML output nest each node's
children under "children" and describe the node's data in "attrs".

Reads from stdin when no file (or "-") is given.`,
		Example: `  # Parse a file
  slq parse query.slq

  # Parse an inline expression as YAML
  slq parse --expr-only -e '.a + .b * 2' -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "Parse this source text instead of a file")
	cmd.Flags().BoolVar(&opts.ExprOnly, "expr-only", false, "Parse a single expression")
	cmd.Flags().BoolVar(&opts.Spans, "spans", false, "Show source spans in text output")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	src, err := readSource(cmd, args, opts.Expr)
	if err != nil {
		return err
	}

	var tree parser.Node
	var parseErr error
	if opts.ExprOnly {
		tree, parseErr = parser.ParseExpr(src.Text)
	} else {
		tree, parseErr = parser.Parse(src.Text)
	}
	cmdCtx.Logger.Debug("parsed", "source", src.Name, "expr_only", opts.ExprOnly, "error", parseErr)

	if r.EffectiveMode() == output.ModeText {
		if parseErr != nil {
			r.Error(errorLocation(src.Name, parseErr))
		} else {
			renderTreeText(r, tree, opts.Spans)
		}
	} else {
		result := parseJSON{Source: src.Name, Error: newErrorJSON(parseErr)}
		if parseErr == nil {
			result.Tree = buildNodeJSON(tree)
		}
		if err := r.Data(result); err != nil {
			return err
		}
	}

	if parseErr != nil {
		return fmt.Errorf("parsing %s failed", src.Name)
	}
	return nil
}

// treePrinter writes one indented line per node.
type treePrinter struct {
	r     *output.Renderer
	spans bool
	depth int
}

func (p *treePrinter) Enter(n parser.Node) bool {
	styles := p.r.Styles()
	kind, attrs := describeNode(n)

	var b strings.Builder
	b.WriteString(strings.Repeat("  ", p.depth))
	b.WriteString(styles.Bold.Render(kind))
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.value)
	}
	if p.spans {
		b.WriteString(" ")
		b.WriteString(styles.Muted.Render(formatSpan(n.GetSpan())))
	}
	p.r.Println(b.String())

	p.depth++
	return true
}

func (p *treePrinter) Exit(parser.Node) {
	p.depth--
}

func renderTreeText(r *output.Renderer, tree parser.Node, spans bool) {
	walk.Walk(&treePrinter{r: r, spans: spans}, tree)
}

// nodeBuilder assembles nodeJSON values while walking the tree.
type nodeBuilder struct {
	stack []*nodeJSON
	root  *nodeJSON
}

func (b *nodeBuilder) Enter(n parser.Node) bool {
	kind, attrs := describeNode(n)
	node := &nodeJSON{Type: kind, Span: formatSpan(n.GetSpan())}
	if len(attrs) > 0 {
		node.Attrs = make(map[string]string, len(attrs))
		for _, a := range attrs {
			node.Attrs[a.key] = a.value
		}
	}

	if len(b.stack) == 0 {
		b.root = node
	} else {
		parent := b.stack[len(b.stack)-1]
		parent.Children = append(parent.Children, node)
	}
	b.stack = append(b.stack, node)
	return true
}

func (b *nodeBuilder) Exit(parser.Node) {
	b.stack = b.stack[:len(b.stack)-1]
}

func buildNodeJSON(tree parser.Node) *nodeJSON {
	b := &nodeBuilder{}
	walk.Walk(b, tree)
	return b.root
}

type nodeAttr struct {
	key   string
	value string
}

// describeNode returns a node's type name and the data it carries beyond
// its children.
func describeNode(n parser.Node) (string, []nodeAttr) {
	switch v := n.(type) {
	case *parser.StmtList:
		return "StmtList", []nodeAttr{{"queries", strconv.Itoa(len(v.Queries))}}
	case *parser.Query:
		return "Query", nil
	case *parser.Segment:
		return "Segment", []nodeAttr{{"index", strconv.Itoa(v.Index)}}
	case *parser.DsTblElement:
		return "DsTblElement", nil
	case *parser.DsElement:
		return "DsElement", nil
	case *parser.SelElement:
		return "SelElement", nil
	case *parser.ExprElement:
		return "ExprElement", nil
	case *parser.Join:
		return "Join", []nodeAttr{{"kind", string(v.Kind)}}
	case *parser.JoinPredicate:
		return "JoinPredicate", []nodeAttr{{"op", v.Op.String()}}
	case *parser.JoinSingle:
		return "JoinSingle", nil
	case *parser.RowRangeBounded:
		return "RowRange", []nodeAttr{{"range", fmt.Sprintf("[%d:%d]", v.From, v.To)}}
	case *parser.RowRangeFromOnly:
		return "RowRange", []nodeAttr{{"range", fmt.Sprintf("[%d:]", v.From)}}
	case *parser.RowRangeToOnly:
		return "RowRange", []nodeAttr{{"range", fmt.Sprintf("[:%d]", v.To)}}
	case *parser.RowRangeSingle:
		return "RowRange", []nodeAttr{{"range", fmt.Sprintf("[%d]", v.N)}}
	case *parser.RowRangeUnbounded:
		return "RowRange", []nodeAttr{{"range", "[]"}}
	case *parser.Datasource:
		return "Datasource", []nodeAttr{{"text", v.Text}}
	case *parser.Selector:
		return "Selector", []nodeAttr{{"text", v.Text}}
	case *parser.Literal:
		attrs := []nodeAttr{{"type", v.Type.String()}}
		if v.Type == parser.LiteralString {
			return "Literal", append(attrs, nodeAttr{"value", strconv.Quote(v.Value)})
		}
		return "Literal", append(attrs, nodeAttr{"value", v.Value})
	case *parser.UnaryExpr:
		return "UnaryExpr", []nodeAttr{{"op", v.Op.String()}}
	case *parser.BinaryExpr:
		return "BinaryExpr", []nodeAttr{{"op", v.Op.String()}}
	case *parser.FuncCall:
		attrs := []nodeAttr{{"name", v.Name.String()}}
		if v.Wildcard {
			attrs = append(attrs, nodeAttr{"wildcard", "true"})
		}
		return "FuncCall", attrs
	}
	return fmt.Sprintf("%T", n), nil
}

func formatSpan(s token.Span) string {
	return s.Start.String() + "-" + s.End.String()
}
