package parser_test

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/slq/pkg/parser"
	"github.com/leapstack-labs/slq/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(toks []parser.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.TokenType
	}{
		{
			name:  "empty",
			input: "",
			want:  []token.TokenType{token.EOF},
		},
		{
			name:  "whitespace only",
			input: " \t\r\n ",
			want:  []token.TokenType{token.EOF},
		},
		{
			name:  "pipeline",
			input: "@db.tbl | .name, .age",
			want: []token.TokenType{
				token.DATASOURCE, token.SEL, token.PIPE, token.SEL, token.COMMA, token.SEL, token.EOF,
			},
		},
		{
			name:  "row range",
			input: ".[1:3]",
			want:  []token.TokenType{token.ROWRANGE, token.NN, token.COLON, token.NN, token.RBRA, token.EOF},
		},
		{
			name:  "two char operators",
			input: "|| && <= << >= >> != ==",
			want: []token.TokenType{
				token.DPIPE, token.AND, token.LT_EQ, token.SHL, token.GT_EQ, token.SHR, token.NEQ, token.EQ, token.EOF,
			},
		},
		{
			name:  "one char operators",
			input: "| & < > ! ~ + - * / %",
			want: []token.TokenType{
				token.PIPE, token.AMP, token.LT, token.GT, token.BANG, token.TILDE,
				token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.EOF,
			},
		},
		{
			name:  "brackets and separators",
			input: "( ) [ ] , : ;",
			want: []token.TokenType{
				token.LPAR, token.RPAR, token.LBRA, token.RBRA, token.COMMA, token.COLON, token.SEMI, token.EOF,
			},
		},
		{
			name:  "reserved words are case exact",
			input: "join JOIN j Join sum SUM Sum count where WHERE null NULL",
			want: []token.TokenType{
				token.JOIN_LOWER, token.JOIN_UPPER, token.JOIN_SHORT, token.ID,
				token.SUM_LOWER, token.SUM_UPPER, token.ID,
				token.COUNT_LOWER, token.WHERE_LOWER, token.WHERE_UPPER,
				token.NULL, token.NULL, token.EOF,
			},
		},
		{
			name:  "numbers",
			input: "0 42 3.14 1e10 2.5E-3",
			want:  []token.TokenType{token.NN, token.NN, token.NUMBER, token.NUMBER, token.NUMBER, token.EOF},
		},
		{
			name:  "minus is never part of a number",
			input: "-1",
			want:  []token.TokenType{token.MINUS, token.NN, token.EOF},
		},
		{
			name:  "bare exponent marker is an identifier",
			input: "1e",
			want:  []token.TokenType{token.NN, token.ID, token.EOF},
		},
		{
			name:  "comments are skipped",
			input: "# leading\n.a # trailing\n",
			want:  []token.TokenType{token.SEL, token.EOF},
		},
		{
			name:  "call",
			input: "count(*)",
			want:  []token.TokenType{token.COUNT_LOWER, token.LPAR, token.STAR, token.RPAR, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := parser.Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tokenTypes(toks))
		})
	}
}

func TestTokenizeLiterals(t *testing.T) {
	toks, err := parser.Tokenize(`@src.tbl.col .a.b "x\"yA\n"`)
	require.NoError(t, err)
	require.Len(t, toks, 5)

	assert.Equal(t, "@src", toks[0].Literal)
	assert.Equal(t, ".tbl.col", toks[1].Literal)
	assert.Equal(t, ".a.b", toks[2].Literal)
	assert.Equal(t, token.STRING, toks[3].Type)
	assert.Equal(t, "x\"yA\n", toks[3].Literal)
	assert.Equal(t, len(`"x\"yA\n"`), toks[3].Len)
}

func TestTokenizePositions(t *testing.T) {
	toks, err := parser.Tokenize("@db\n  | .name")
	require.NoError(t, err)
	require.Len(t, toks, 4)

	assert.Equal(t, parser.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, parser.Position{Line: 2, Column: 3, Offset: 6}, toks[1].Pos)
	assert.Equal(t, parser.Position{Line: 2, Column: 5, Offset: 8}, toks[2].Pos)
	assert.Equal(t, 5, toks[2].Len)
	assert.Equal(t, parser.Position{Line: 2, Column: 10, Offset: 13}, toks[3].Pos)
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantPos parser.Position
		wantMsg string
	}{
		{
			name:    "single equals",
			input:   ".a = .b",
			wantPos: parser.Position{Line: 1, Column: 4, Offset: 3},
			wantMsg: "unexpected character '='",
		},
		{
			name:    "unknown character",
			input:   "$",
			wantPos: parser.Position{Line: 1, Column: 1, Offset: 0},
			wantMsg: "unexpected character '$'",
		},
		{
			name:    "non ascii character",
			input:   ".a, é",
			wantPos: parser.Position{Line: 1, Column: 5, Offset: 4},
			wantMsg: "unexpected character 'é'",
		},
		{
			name:    "lone dot",
			input:   ". ",
			wantPos: parser.Position{Line: 1, Column: 1, Offset: 0},
			wantMsg: "unexpected character '.'",
		},
		{
			name:    "bare at sign",
			input:   "@ db",
			wantPos: parser.Position{Line: 1, Column: 1, Offset: 0},
			wantMsg: "unexpected character '@'",
		},
		{
			name:    "leading zero",
			input:   "007",
			wantPos: parser.Position{Line: 1, Column: 1, Offset: 0},
			wantMsg: "invalid number literal",
		},
		{
			name:    "unterminated string",
			input:   `.a == "abc`,
			wantPos: parser.Position{Line: 1, Column: 7, Offset: 6},
			wantMsg: "unterminated string literal",
		},
		{
			name:    "bad escape",
			input:   `"a\qb"`,
			wantPos: parser.Position{Line: 1, Column: 3, Offset: 2},
			wantMsg: "invalid escape sequence",
		},
		{
			name:    "invalid utf8 in string",
			input:   "\"a\xffb\"",
			wantPos: parser.Position{Line: 1, Column: 3, Offset: 2},
			wantMsg: "invalid UTF-8 byte 0xff",
		},
		{
			name:    "lone high surrogate",
			input:   `"\ud800"`,
			wantPos: parser.Position{Line: 1, Column: 2, Offset: 1},
			wantMsg: "unpaired surrogate",
		},
		{
			name:    "lone low surrogate",
			input:   `"\udc00x"`,
			wantPos: parser.Position{Line: 1, Column: 2, Offset: 1},
			wantMsg: "unpaired surrogate",
		},
		{
			name:    "high surrogate before plain escape",
			input:   `"\ud83d\u0041"`,
			wantPos: parser.Position{Line: 1, Column: 2, Offset: 1},
			wantMsg: "unpaired surrogate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Tokenize(tt.input)
			require.Error(t, err)

			var le *parser.LexError
			require.True(t, errors.As(err, &le), "expected LexError, got %T", err)
			assert.Equal(t, tt.wantPos, le.Position())
			assert.Contains(t, le.Error(), tt.wantMsg)
		})
	}
}

func TestTokenizeStringValues(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: `"\ud83d\ude00"`, want: "\U0001F600"},
		{input: `"caf\u00e9"`, want: "café"},
		{input: `"café ☕"`, want: "café ☕"},
		{input: `"a\/b\tc"`, want: "a/b\tc"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := parser.Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, toks, 2)
			assert.Equal(t, token.STRING, toks[0].Type)
			assert.Equal(t, tt.want, toks[0].Literal)
			assert.Equal(t, len(tt.input), toks[0].Len)
		})
	}
}

func TestLexerCollectsComments(t *testing.T) {
	l := parser.NewLexer("# first\n.a # second")
	for {
		tok, err := l.NextToken()
		require.NoError(t, err)
		if tok.Type == token.EOF {
			break
		}
	}

	require.Len(t, l.Comments, 2)
	assert.Equal(t, "# first", l.Comments[0].Text)
	assert.Equal(t, "second", l.Comments[1].Body())
	assert.Equal(t, 2, l.Comments[1].Span.Start.Line)
}

func TestLexerEOFIsSticky(t *testing.T) {
	l := parser.NewLexer(".a")
	_, err := l.NextToken()
	require.NoError(t, err)

	for range 3 {
		tok, err := l.NextToken()
		require.NoError(t, err)
		assert.Equal(t, token.EOF, tok.Type)
	}
}
