package lexer

import (
	"unicode"

	verr "github.com/michelematteini/dslmanager/error"
	"github.com/michelematteini/dslmanager/grammar"
	"github.com/michelematteini/dslmanager/grammar/lexical"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("dslmanager.lexer")
}

type StateID int

func (id StateID) Int() int {
	return int(id)
}

type LexSpec interface {
	InitialState() StateID
	NextState(state StateID, c rune) (StateID, bool)
	Accept(state StateID) (grammar.TokenKind, bool)
}

// Token representes a token.
type Token struct {
	// Kind is the classification of the lexeme. KindLiteral means the lexeme is a literal of
	// the grammar.
	Kind grammar.TokenKind

	// Lexeme is the source text matched by the token.
	Lexeme string

	// Row is a 1-based row number where a lexeme appears.
	Row int

	// Col is a 0-based column number where a lexeme appears, counted in code points.
	Col int

	// When this field is true, the token marks a line break between tokens.
	NewLine bool

	// When this field is true, it means the token is the EOF token.
	EOF bool
}

// GrammarToken converts the token into the terminal the parser reads.
func (t *Token) GrammarToken() grammar.Token {
	switch {
	case t.EOF:
		return grammar.EndOfStream
	case t.NewLine:
		return grammar.NewAnnotation(grammar.AnnotationNewLine)
	case t.Kind == grammar.KindLiteral:
		return grammar.NewLiteral(t.Lexeme)
	}
	return grammar.Token{
		Kind: t.Kind,
		Text: t.Lexeme,
	}
}

type lexerState struct {
	srcPtr int
	row    int
	col    int
}

// Lexer splits a text into the longest tokens its specification accepts.
type Lexer struct {
	spec              LexSpec
	src               []rune
	state             lexerState
	lastAcceptedState lexerState
}

// NewLexer returns a new lexer.
func NewLexer(spec LexSpec, src string) *Lexer {
	return &Lexer{
		spec: spec,
		src:  []rune(src),
		state: lexerState{
			srcPtr: 0,
			row:    1,
			col:    0,
		},
		lastAcceptedState: lexerState{
			srcPtr: 0,
			row:    1,
			col:    0,
		},
	}
}

// Next returns a next token. Whitespace between tokens is skipped, except for line feeds,
// which are returned as NewLine tokens.
func (l *Lexer) Next() (*Token, error) {
	for {
		c, eof := l.peek()
		if eof {
			return &Token{
				Row: l.state.row,
				Col: l.state.col,
				EOF: true,
			}, nil
		}
		if !unicode.IsSpace(c) {
			break
		}
		row, col := l.state.row, l.state.col
		l.read()
		if c == '\n' {
			return &Token{
				Row:     row,
				Col:     col,
				NewLine: true,
			}, nil
		}
	}
	return l.next()
}

func (l *Lexer) next() (*Token, error) {
	state := l.spec.InitialState()
	buf := []rune{}
	row := l.state.row
	col := l.state.col
	var tok *Token
	for {
		c, eof := l.read()
		if eof {
			if tok != nil {
				l.revert()
				return tok, nil
			}
			// When `buf` has unaccepted data and reads the EOF, the token never completes.
			tracer().Debugf("unfinished token %q at row %v", string(buf), row)
			return nil, verr.NewLexicalError(verr.CodeUnfinishedToken, row, string(buf))
		}
		buf = append(buf, c)
		nextState, ok := l.spec.NextState(state, c)
		if !ok {
			if tok != nil {
				l.revert()
				return tok, nil
			}
			tracer().Debugf("invalid token %q at row %v", string(buf), row)
			return nil, verr.NewLexicalError(verr.CodeInvalidCharacter, row, string(buf))
		}
		state = nextState
		if kind, ok := l.spec.Accept(state); ok {
			tok = &Token{
				Kind:   kind,
				Lexeme: string(buf),
				Row:    row,
				Col:    col,
			}
			l.accept()
		}
	}
}

func (l *Lexer) peek() (rune, bool) {
	if l.state.srcPtr >= len(l.src) {
		return 0, true
	}
	return l.src[l.state.srcPtr], false
}

func (l *Lexer) read() (rune, bool) {
	if l.state.srcPtr >= len(l.src) {
		return 0, true
	}

	c := l.src[l.state.srcPtr]
	l.state.srcPtr++

	if c == '\n' {
		l.state.row++
		l.state.col = 0
	} else {
		l.state.col++
	}

	return c, false
}

// accept saves the current state.
func (l *Lexer) accept() {
	l.lastAcceptedState = l.state
}

// revert reverts the lexer state to the last accepted state.
//
// We must not call this function consecutively.
func (l *Lexer) revert() {
	l.state = l.lastAcceptedState
}

// Tokenize splits a text into the tokens of a lexer table. Every line feed between tokens
// yields a NewLine annotation, and the end of stream is always appended.
func Tokenize(table *lexical.LexerTable, text string) ([]grammar.Token, error) {
	l := NewLexer(NewLexSpec(table), text)
	var toks []grammar.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok.GrammarToken())
		if tok.EOF {
			return toks, nil
		}
	}
}
