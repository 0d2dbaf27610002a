package lexer

import (
	"testing"

	verr "github.com/michelematteini/dslmanager/error"
	"github.com/michelematteini/dslmanager/grammar"
	"github.com/michelematteini/dslmanager/grammar/lexical"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func tok(kind grammar.TokenKind, text string) grammar.Token {
	return grammar.Token{
		Kind: kind,
		Text: text,
	}
}

var newLine = grammar.NewAnnotation(grammar.AnnotationNewLine)

func TestTokenize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dslmanager.lexer")
	defer teardown()

	tests := []struct {
		caption  string
		literals []string
		src      string
		tokens   []grammar.Token
	}{
		{
			caption:  "a literal between names is not swallowed by them",
			literals: []string{"++"},
			src:      "a++b",
			tokens: []grammar.Token{
				tok(grammar.KindName, "a"),
				grammar.NewLiteral("++"),
				tok(grammar.KindName, "b"),
				grammar.EndOfStream,
			},
		},
		{
			caption:  "identifiers contain digits and underscores",
			literals: []string{"++"},
			src:      "x_1++y2",
			tokens: []grammar.Token{
				tok(grammar.KindID, "x_1"),
				grammar.NewLiteral("++"),
				tok(grammar.KindID, "y2"),
				grammar.EndOfStream,
			},
		},
		{
			caption:  "a keyword prefix falls back to a name",
			literals: []string{"if"},
			src:      `if iffy 12 3.5 1e-3 "a b"`,
			tokens: []grammar.Token{
				grammar.NewLiteral("if"),
				tok(grammar.KindName, "iffy"),
				tok(grammar.KindInt, "12"),
				tok(grammar.KindReal, "3.5"),
				tok(grammar.KindReal, "1e-3"),
				tok(grammar.KindString, `"a b"`),
				grammar.EndOfStream,
			},
		},
		{
			caption:  "the lexer backtracks to the longest accepted token",
			literals: []string{"."},
			src:      "12.x",
			tokens: []grammar.Token{
				tok(grammar.KindInt, "12"),
				grammar.NewLiteral("."),
				tok(grammar.KindName, "x"),
				grammar.EndOfStream,
			},
		},
		{
			caption: "line feeds yield annotations",
			src:     "a\n\tb\r\n",
			tokens: []grammar.Token{
				tok(grammar.KindName, "a"),
				newLine,
				tok(grammar.KindName, "b"),
				newLine,
				grammar.EndOfStream,
			},
		},
		{
			caption: "an empty text has only the end of stream",
			src:     "  ",
			tokens: []grammar.Token{
				grammar.EndOfStream,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			toks, err := Tokenize(lexical.Build(tt.literals), tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if len(toks) != len(tt.tokens) {
				t.Fatalf("unexpected tokens; want: %v, got: %v", tt.tokens, toks)
			}
			for i, expected := range tt.tokens {
				if toks[i] != expected {
					t.Fatalf("unexpected token #%v; want: %+v, got: %+v", i, expected, toks[i])
				}
			}
		})
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		code    string
		line    int
		text    string
	}{
		{
			caption: "a character no token starts with",
			src:     "a ? b",
			code:    verr.CodeInvalidCharacter,
			line:    1,
			text:    "?",
		},
		{
			caption: "the line of an invalid character counts line feeds",
			src:     "a\n\nb $",
			code:    verr.CodeInvalidCharacter,
			line:    3,
			text:    "$",
		},
		{
			caption: "a number is emitted before failing on the dot that follows it",
			src:     "1.x",
			code:    verr.CodeInvalidCharacter,
			line:    1,
			text:    ".",
		},
		{
			caption: "a string left open at the end of the text",
			src:     `a "bc`,
			code:    verr.CodeUnfinishedToken,
			line:    1,
			text:    `"bc`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := Tokenize(lexical.Build(nil), tt.src)
			if err == nil {
				t.Fatal("an error must occur")
			}
			synErr, ok := err.(*verr.SyntaxError)
			if !ok {
				t.Fatalf("unexpected error: %v", err)
			}
			if synErr.Code != tt.code {
				t.Fatalf("unexpected code; want: %v, got: %v", tt.code, synErr.Code)
			}
			if synErr.Line != tt.line {
				t.Fatalf("unexpected line; want: %v, got: %v", tt.line, synErr.Line)
			}
			if synErr.Text != tt.text {
				t.Fatalf("unexpected text; want: %q, got: %q", tt.text, synErr.Text)
			}
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	l := NewLexer(NewLexSpec(lexical.Build(nil)), "ab\n  cd")
	var toks []*Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatal(err)
		}
		toks = append(toks, tok)
		if tok.EOF {
			break
		}
	}
	expected := []struct {
		row int
		col int
	}{
		{row: 1, col: 0},
		{row: 1, col: 2},
		{row: 2, col: 2},
		{row: 2, col: 4},
	}
	if len(toks) != len(expected) {
		t.Fatalf("unexpected token count: %v", len(toks))
	}
	for i, pos := range expected {
		if toks[i].Row != pos.row || toks[i].Col != pos.col {
			t.Fatalf("unexpected position of token #%v; want: %v:%v, got: %v:%v", i, pos.row, pos.col, toks[i].Row, toks[i].Col)
		}
	}
}
