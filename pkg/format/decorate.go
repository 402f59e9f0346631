package format

import (
	"github.com/leapstack-labs/slq/pkg/parser"
	"github.com/leapstack-labs/slq/pkg/token"
)

// decoration assigns comments to the query they precede.
type decoration struct {
	leading  map[*parser.Query][]*token.Comment
	trailing []*token.Comment
}

// decorate attaches comments to queries based on position. Comments
// inside a query move to the front of the next query.
func decorate(stmts *parser.StmtList, comments []*token.Comment) decoration {
	d := decoration{leading: make(map[*parser.Query][]*token.Comment)}
	if stmts == nil {
		d.trailing = comments
		return d
	}

	next := 0
	for _, c := range comments {
		for next < len(stmts.Queries) && stmts.Queries[next].Span.Start.Offset < c.Span.Start.Offset {
			next++
		}
		if next == len(stmts.Queries) {
			d.trailing = append(d.trailing, c)
			continue
		}
		q := stmts.Queries[next]
		d.leading[q] = append(d.leading[q], c)
	}
	return d
}
