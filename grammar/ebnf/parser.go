package ebnf

import (
	"fmt"
	"strings"

	verr "github.com/michelematteini/dslmanager/error"
	"github.com/michelematteini/dslmanager/grammar"
)

// exprContext tags the innermost expression the parser is reading. The bracket contexts
// decide which closing token ends the expression.
type exprContext int

const (
	ctxRule exprContext = iota
	ctxGroup
	ctxOptional
	ctxRepetition
)

func (c exprContext) String() string {
	switch c {
	case ctxGroup:
		return "group"
	case ctxOptional:
		return "optional"
	case ctxRepetition:
		return "repetition"
	}
	return "rule"
}

type raisedError struct {
	err error
}

// ParseGrammar reads a sequence of rules. The terminator of the last rule may be omitted.
func ParseGrammar(text string) ([]*grammar.DerivationRule, error) {
	p, err := newParser(text)
	if err != nil {
		return nil, err
	}
	return p.parse(func() []*grammar.DerivationRule {
		var rules []*grammar.DerivationRule
		for !p.atEOF() {
			rules = append(rules, p.parseRule())
		}
		if len(rules) == 0 {
			p.raise(synErrNoRule, p.peek())
		}
		tracer().Debugf("read %v grammar rules", len(rules))
		return rules
	})
}

// ParseRule reads exactly one rule.
func ParseRule(text string) (*grammar.DerivationRule, error) {
	p, err := newParser(text)
	if err != nil {
		return nil, err
	}
	rules, err := p.parse(func() []*grammar.DerivationRule {
		r := p.parseRule()
		if !p.atEOF() {
			p.raise(synErrTrailingInput, p.peek())
		}
		return []*grammar.DerivationRule{r}
	})
	if err != nil {
		return nil, err
	}
	return rules[0], nil
}

type parser struct {
	src  string
	toks []*Token
	pos  int

	// ruleStart is the offset where the rule being read begins.
	ruleStart int
	ruleName  string

	// stack holds the operands read so far, shared by all nested expressions.
	stack []grammar.Expression
}

func newParser(text string) (*parser, error) {
	toks, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	return &parser{
		src:  text,
		toks: toks,
	}, nil
}

func (p *parser) parse(read func() []*grammar.DerivationRule) (rules []*grammar.DerivationRule, retErr error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		raised, ok := r.(*raisedError)
		if !ok {
			panic(r)
		}
		rules = nil
		retErr = raised.err
	}()
	return read(), nil
}

func (p *parser) raise(synErr *syntaxError, tok *Token, a ...interface{}) {
	msg := synErr.message
	if len(a) > 0 {
		msg = fmt.Sprintf("%v: %v", msg, fmt.Sprint(a...))
	}
	text := tok.String()
	panic(&raisedError{
		err: verr.NewGrammarSyntaxError(synErr.code, tok.Line, text, p.ruleText(tok), "%v; found %v", msg, text),
	})
}

// ruleText returns the source of the current rule up to and including tok.
func (p *parser) ruleText(tok *Token) string {
	if p.ruleName == "" {
		return ""
	}
	end := tok.End
	if end < p.ruleStart {
		end = p.ruleStart
	}
	return strings.Join(strings.Fields(p.src[p.ruleStart:end]), " ")
}

func (p *parser) peek() *Token {
	return p.toks[p.pos]
}

func (p *parser) next() *Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokenKindEOF {
		p.pos++
	}
	return tok
}

func (p *parser) atEOF() bool {
	return p.peek().Kind == TokenKindEOF
}

func (p *parser) parseRule() *grammar.DerivationRule {
	p.ruleName = ""
	p.ruleStart = p.peek().Offset

	name := p.next()
	if name.Kind != TokenKindID {
		p.raise(synErrNoRuleName, name)
	}
	p.ruleName = name.Text
	if def := p.next(); def.Kind != TokenKindDefine {
		p.raise(synErrNoDefine, def)
	}

	body, _ := p.parseExpression(ctxRule)
	return grammar.NewRule(grammar.NewVariable(name.Text), body)
}

// parseExpression reads operands onto the shared stack until the token closing ctx. `,`
// binds tighter than `|`: each alternative is reduced to a concatenation of the operands
// read since the previous `|`, and the closing token reduces the alternatives. The closing
// token is returned so that repetitions can tell `}+` from `}*`.
func (p *parser) parseExpression(ctx exprContext) (grammar.Expression, *Token) {
	base := len(p.stack)
	seqBase := base
	expectOperand := true
	for {
		tok := p.next()
		switch tok.Kind {
		case TokenKindID, TokenKindLiteral, TokenKindClass, TokenKindAnnotation:
			if !expectOperand {
				p.raiseMissingSeparator(ctx, tok)
			}
			p.stack = append(p.stack, p.symbol(tok))
			expectOperand = false
		case TokenKindGroupOpen, TokenKindOptOpen, TokenKindRepOpen:
			if !expectOperand {
				p.raise(synErrUnexpectedToken, tok)
			}
			p.stack = append(p.stack, p.parseBracket(tok))
			expectOperand = false
		case TokenKindComma:
			if expectOperand {
				p.raise(synErrMissingOperand, tok)
			}
			expectOperand = true
		case TokenKindOr:
			if expectOperand {
				p.raise(synErrMissingOperand, tok)
			}
			p.reduceSequence(seqBase)
			seqBase = len(p.stack)
			expectOperand = true
		default:
			p.checkClose(ctx, tok)
			if expectOperand {
				if seqBase == base {
					p.raise(synErrEmptyExpression, tok)
				}
				p.raise(synErrMissingOperand, tok)
			}
			p.reduceSequence(seqBase)
			alts := make([]grammar.Expression, len(p.stack)-base)
			copy(alts, p.stack[base:])
			p.stack = p.stack[:base]
			return grammar.NewAlternation(alts...), tok
		}
	}
}

func (p *parser) parseBracket(open *Token) grammar.Expression {
	switch open.Kind {
	case TokenKindGroupOpen:
		e, _ := p.parseExpression(ctxGroup)
		return grammar.NewGroup(e)
	case TokenKindOptOpen:
		e, _ := p.parseExpression(ctxOptional)
		return grammar.NewOptional(e)
	}
	e, closeTok := p.parseExpression(ctxRepetition)
	return grammar.NewRepetition(e, closeTok.Kind == TokenKindRepStar)
}

func (p *parser) reduceSequence(seqBase int) {
	seq := make([]grammar.Expression, len(p.stack)-seqBase)
	copy(seq, p.stack[seqBase:])
	p.stack = append(p.stack[:seqBase], grammar.NewConcatenation(seq...))
}

func (p *parser) checkClose(ctx exprContext, tok *Token) {
	var ok bool
	switch ctx {
	case ctxRule:
		ok = tok.Kind == TokenKindSemicolon || tok.Kind == TokenKindEOF
	case ctxGroup:
		ok = tok.Kind == TokenKindGroupClose
	case ctxOptional:
		ok = tok.Kind == TokenKindOptClose
	case ctxRepetition:
		ok = tok.Kind == TokenKindRepPlus || tok.Kind == TokenKindRepStar
	}
	if ok {
		return
	}
	switch tok.Kind {
	case TokenKindGroupClose, TokenKindOptClose, TokenKindRepPlus, TokenKindRepStar:
		p.raise(synErrWrongClose, tok, ctx)
	case TokenKindSemicolon, TokenKindEOF:
		p.raise(synErrUnclosed, tok, ctx)
	}
	p.raise(synErrUnexpectedToken, tok)
}

// raiseMissingSeparator reports two adjacent operands. An identifier followed by `::=`
// starts the next rule, so the current one lacks its terminator.
func (p *parser) raiseMissingSeparator(ctx exprContext, tok *Token) {
	if ctx == ctxRule && tok.Kind == TokenKindID && p.peek().Kind == TokenKindDefine {
		p.raise(synErrNoTerminator, tok)
	}
	p.raise(synErrUnexpectedToken, tok)
}

func (p *parser) symbol(tok *Token) grammar.Expression {
	switch tok.Kind {
	case TokenKindID:
		return grammar.NewVariable(tok.Text)
	case TokenKindLiteral:
		return grammar.NewLiteral(tok.Text)
	case TokenKindAnnotation:
		return grammar.NewAnnotation(tok.Text)
	}
	kind, ok := grammar.KindByClassName(tok.Text)
	if !ok {
		p.raise(synErrUnknownClass, tok)
	}
	return grammar.NewClassToken(kind)
}
