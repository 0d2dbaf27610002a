package ebnf

import (
	"fmt"
	"strings"
	"sync"

	verr "github.com/michelematteini/dslmanager/error"
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

func tracer() tracing.Trace {
	return tracing.Select("dslmanager.grammar")
}

type TokenKind string

const (
	TokenKindID         = TokenKind("id")
	TokenKindLiteral    = TokenKind("literal")
	TokenKindClass      = TokenKind("class")
	TokenKindAnnotation = TokenKind("annotation")
	TokenKindDefine     = TokenKind("::=")
	TokenKindOr         = TokenKind("|")
	TokenKindComma      = TokenKind(",")
	TokenKindSemicolon  = TokenKind(";")
	TokenKindGroupOpen  = TokenKind("(")
	TokenKindGroupClose = TokenKind(")")
	TokenKindOptOpen    = TokenKind("[")
	TokenKindOptClose   = TokenKind("]")
	TokenKindRepOpen    = TokenKind("{")
	TokenKindRepPlus    = TokenKind("}+")
	TokenKindRepStar    = TokenKind("}*")
	TokenKindEOF        = TokenKind("eof")
)

// Token is a lexical unit of grammar source text.
type Token struct {
	Kind TokenKind

	// Text holds the name of an identifier, the unescaped text of a literal, the class name
	// of a terminal class (without `#`) and the tag of an annotation (without `@`).
	Text string

	// Line is the 1-based line the token starts on.
	Line int

	// Offset is the byte offset of the token in the source text.
	Offset int

	// End is the byte offset just past the token.
	End int
}

func (t *Token) String() string {
	switch t.Kind {
	case TokenKindID:
		return t.Text
	case TokenKindLiteral:
		return fmt.Sprintf("'%v'", strings.ReplaceAll(t.Text, "'", "''"))
	case TokenKindClass:
		return "#" + t.Text
	case TokenKindAnnotation:
		return "@" + t.Text
	case TokenKindEOF:
		return "end of input"
	}
	return string(t.Kind)
}

type lexEntry struct {
	kind    TokenKind
	pattern string
}

var lexEntries = []lexEntry{
	{TokenKindID, `[a-zA-Z_][a-zA-Z0-9_]*`},
	{TokenKindLiteral, `'([^']|'')*'`},
	{TokenKindLiteral, `"([^"]|"")*"`},
	{TokenKindClass, `#[a-zA-Z]+`},
	{TokenKindClass, `#?\$`},
	{TokenKindAnnotation, `@[a-zA-Z]+`},
	{TokenKindDefine, `\:\:\=`},
	{TokenKindOr, `\|`},
	{TokenKindComma, `\,`},
	{TokenKindSemicolon, `\;`},
	{TokenKindGroupOpen, `\(`},
	{TokenKindGroupClose, `\)`},
	{TokenKindOptOpen, `\[`},
	{TokenKindOptClose, `\]`},
	{TokenKindRepOpen, `\{`},
	{TokenKindRepPlus, `\}\+`},
	{TokenKindRepStar, `\}\*`},
}

var (
	lexOnce    sync.Once
	lexMachine *lexmachine.Lexer
	lexErr     error
)

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// grammarLexer returns the DFA tokenizing grammar source text. It is compiled once and
// shared, since scanners keep their state apart from the lexer.
func grammarLexer() (*lexmachine.Lexer, error) {
	lexOnce.Do(func() {
		lex := lexmachine.NewLexer()
		lex.Add([]byte(`( |\t|\n|\r)+`), skip)
		lex.Add([]byte(`\(\*([^*]|\r|\n|(\*+([^*)]|\r|\n)))*\*+\)`), skip)
		for id, e := range lexEntries {
			lex.Add([]byte(e.pattern), makeToken(id))
		}
		if err := lex.Compile(); err != nil {
			tracer().Errorf("Error compiling the grammar lexer: %v", err)
			lexErr = err
			return
		}
		lexMachine = lex
	})
	return lexMachine, lexErr
}

// Tokenize splits grammar source text into tokens. The last token is always TokenKindEOF.
func Tokenize(text string) ([]*Token, error) {
	lex, err := grammarLexer()
	if err != nil {
		return nil, err
	}
	s, err := lex.Scanner([]byte(text))
	if err != nil {
		return nil, err
	}

	var toks []*Token
	for {
		tok, err, eof := s.Next()
		if eof {
			break
		}
		if _, is := err.(*machines.UnconsumedInput); is {
			return nil, unconsumedInputError(text, s.TC)
		}
		if err != nil {
			return nil, err
		}
		lt := tok.(*lexmachine.Token)
		t, err := newToken(lexEntries[lt.Type].kind, string(lt.Lexeme), lt.TC, text)
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
	}
	toks = append(toks, &Token{
		Kind:   TokenKindEOF,
		Line:   lineOf(text, len(text)),
		Offset: len(text),
		End:    len(text),
	})
	return toks, nil
}

func newToken(kind TokenKind, lexeme string, offset int, src string) (*Token, error) {
	t := &Token{
		Kind:   kind,
		Text:   lexeme,
		Line:   lineOf(src, offset),
		Offset: offset,
		End:    offset + len(lexeme),
	}
	switch kind {
	case TokenKindLiteral:
		delim := lexeme[:1]
		t.Text = strings.ReplaceAll(lexeme[1:len(lexeme)-1], delim+delim, delim)
		if t.Text == "" {
			return nil, verr.NewGrammarSyntaxError(verr.CodeEBNFEmptyExpression, t.Line, lexeme, "", "a literal must not be empty")
		}
	case TokenKindClass:
		t.Text = strings.TrimPrefix(lexeme, "#")
	case TokenKindAnnotation:
		t.Text = strings.TrimPrefix(lexeme, "@")
	}
	return t, nil
}

func unconsumedInputError(src string, offset int) error {
	line := lineOf(src, offset)
	rest := src[offset:]
	if strings.HasPrefix(rest, "'") || strings.HasPrefix(rest, `"`) {
		if i := strings.IndexAny(rest, "\r\n"); i >= 0 {
			rest = rest[:i]
		}
		return verr.NewGrammarSyntaxError(verr.CodeEBNFUnknownCharacter, line, rest, "", "unterminated literal %v", rest)
	}
	if strings.HasPrefix(rest, "(*") {
		return verr.NewGrammarSyntaxError(verr.CodeEBNFUnknownCharacter, line, "(*", "", "unterminated comment")
	}
	r := []rune(rest)
	c := ""
	if len(r) > 0 {
		c = string(r[0])
	}
	return verr.NewGrammarSyntaxError(verr.CodeEBNFUnknownCharacter, line, c, "", "unexpected character %q", c)
}

func lineOf(src string, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return strings.Count(src[:offset], "\n") + 1
}
