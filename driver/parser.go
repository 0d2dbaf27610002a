package driver

import (
	"fmt"
	"strings"

	verr "github.com/michelematteini/dslmanager/error"
	"github.com/michelematteini/dslmanager/grammar"
	"github.com/michelematteini/dslmanager/lr"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("dslmanager.driver")
}

// The accumulator of a frame of the symbol stack. A token waits for the authored rule that
// binds it. A leaf is the result of an authored rule. A pending entry holds the children of a
// synthetic rule until an authored rule flattens them.
type entry interface {
	code() string
}

type tokenEntry struct {
	tok  grammar.Token
	line int
}

func (e *tokenEntry) code() string {
	return e.tok.Text
}

type leafEntry struct {
	name  string
	value interface{}
	src   string
	line  int
}

func (e *leafEntry) code() string {
	return e.src
}

type pendingEntry struct {
	children []entry
}

func (e *pendingEntry) code() string {
	return joinCode(e.children)
}

func joinCode(entries []entry) string {
	var b strings.Builder
	for _, e := range entries {
		c := e.code()
		if c == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(c)
	}
	return b.String()
}

// ParsedCoder is implemented by translated values that render their own source text in the
// ParsedCode of the enclosing rule.
type ParsedCoder interface {
	ParsedCode() string
}

type frame struct {
	state int
	sym   grammar.Expression

	// first is the index of the first token the symbol spans.
	first int
	entry entry
}

type ParserOption func(p *Parser) error

// WithTranslators sets the semantic actions of the authored rules.
func WithTranslators(ts Translators) ParserOption {
	return func(p *Parser) error {
		p.translators = ts
		return nil
	}
}

// MakeTree makes the parser return the syntax tree of the input, built by TreeTranslators.
func MakeTree() ParserOption {
	return func(p *Parser) error {
		p.translators = TreeTranslators(p.gram.Source)
		return nil
	}
}

// PanicOnError makes the parser panic on a corrupt parse table instead of returning an
// error. The `panic-on-error` configuration key has the same effect.
func PanicOnError() ParserOption {
	return func(p *Parser) error {
		p.panicOnError = true
		return nil
	}
}

// Parser runs the semantic actions of the authored rules over a token stream parsed with the
// table of the normalized grammar. Synthetic rules run no action: their tokens and values are
// handed on to the authored rule that encloses them. A Parser holds no state across calls and
// may be shared.
type Parser struct {
	tab          *lr.ParseTable
	gram         *grammar.Normalized
	translators  Translators
	panicOnError bool
}

func NewParser(tab *lr.ParseTable, gram *grammar.Normalized, opts ...ParserOption) (*Parser, error) {
	if len(tab.Rules()) != len(gram.Rules) {
		return nil, fmt.Errorf("the parse table does not belong to the grammar; table rules: %v, grammar rules: %v", len(tab.Rules()), len(gram.Rules))
	}
	p := &Parser{
		tab:         tab,
		gram:        gram,
		translators: Translators{},
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Parse parses a token stream and returns the value of the outermost authored rule.
func (p *Parser) Parse(toks []grammar.Token) (interface{}, error) {
	return p.run(toks, false)
}

// Check parses a token stream without running any semantic action.
func (p *Parser) Check(toks []grammar.Token) error {
	_, err := p.run(toks, true)
	return err
}

type parseRun struct {
	*Parser
	toks      []grammar.Token
	lines     []int
	checkOnly bool
	stack     []*frame
}

func (p *Parser) run(toks []grammar.Token, checkOnly bool) (interface{}, error) {
	r := &parseRun{
		Parser:    p,
		checkOnly: checkOnly,
	}
	r.filter(toks)
	r.stack = []*frame{
		{
			state: 0,
		},
	}

	pos := 0
	for {
		tok := r.toks[pos]
		state := r.top().state
		act, ok := r.tab.Action(state, tok)
		if !ok {
			return nil, r.unexpectedToken(state, pos)
		}
		switch act.Type {
		case lr.ActionTypeShift:
			tracer().Debugf("shift %v; state: %v -> %v", tok, state, act.Target)
			f := &frame{
				state: act.Target,
				sym:   tok,
				first: pos,
			}
			if !checkOnly {
				f.entry = &tokenEntry{
					tok:  tok,
					line: r.lines[pos],
				}
			}
			r.stack = append(r.stack, f)
			pos++
		case lr.ActionTypeReduce:
			if err := r.reduce(act.Target, pos); err != nil {
				return nil, err
			}
		case lr.ActionTypeAccept:
			return r.accept(pos)
		default:
			return nil, r.invariant(verr.NewCompileError(verr.CodeInvalidCommand, verr.NoLine, "Invalid parsing command: %v", act))
		}
	}
}

// filter removes the annotations of a token stream and records the line of every remaining
// token.
func (r *parseRun) filter(toks []grammar.Token) {
	line := 1
	for _, tok := range toks {
		if tok.Kind == grammar.KindAnnotation {
			if tok.Text == grammar.AnnotationNewLine {
				line++
			}
			continue
		}
		r.toks = append(r.toks, tok)
		r.lines = append(r.lines, line)
	}
	if len(r.toks) == 0 || r.toks[len(r.toks)-1].Kind != grammar.KindEndOfStream {
		r.toks = append(r.toks, grammar.EndOfStream)
		r.lines = append(r.lines, line)
	}
}

func (r *parseRun) top() *frame {
	return r.stack[len(r.stack)-1]
}

func (r *parseRun) reduce(ruleNum int, pos int) error {
	rule := r.tab.Rule(ruleNum)
	n := len(rule.Symbols())
	// The goto frame reuses the stack's backing array.
	handle := append([]*frame(nil), r.stack[len(r.stack)-n:]...)
	r.stack = r.stack[:len(r.stack)-n]

	first := pos
	if n > 0 {
		first = handle[0].first
	}

	next, ok := r.tab.GoTo(r.top().state, rule.LHS)
	if !ok {
		if rule.LHS.Name != grammar.StartName {
			return r.invariant(verr.NewCompileError(verr.CodeInvalidCommand, r.lines[pos], "Invalid parsing command: no goto on %v from state %v", rule.LHS, r.top().state))
		}
		// Nothing shifts the start symbol, and state 0 accepts it on the end of stream.
		next = 0
	}
	tracer().Debugf("reduce %v; goto %v", rule, next)

	f := &frame{
		state: next,
		sym:   rule.LHS,
		first: first,
	}
	r.stack = append(r.stack, f)
	if r.checkOnly {
		return nil
	}

	children := make([]entry, n)
	for i, h := range handle {
		children[i] = h.entry
	}
	if r.gram.IsSynthetic(ruleNum) {
		f.entry = &pendingEntry{
			children: children,
		}
		return nil
	}

	line := r.lines[first]
	leaf, err := r.translate(ruleNum, children, line)
	if err != nil {
		return err
	}
	f.entry = leaf
	return nil
}

func (r *parseRun) translate(ruleNum int, children []entry, line int) (*leafEntry, error) {
	rule := r.tab.Rule(ruleNum)
	args := newArgs()
	args.Line = line
	args.ParsedCode = joinCode(children)
	for _, c := range children {
		bind(args, c)
	}

	ref, _ := r.gram.Origin(ruleNum)
	fn, ok := r.translators.Lookup(ref)
	if !ok {
		tracer().Debugf("no semantic action for %v", rule)
		return &leafEntry{
			name: rule.LHS.Name,
			src:  args.ParsedCode,
			line: line,
		}, nil
	}

	v, err := invoke(fn, args)
	if err != nil {
		if cerr, ok := verr.AsCompileError(err); ok {
			cerr.SetLine(line)
			return nil, err
		}
		return nil, verr.NewSDTError(line, rule.LHS.Name, err)
	}

	src := args.ParsedCode
	if pc, ok := v.(ParsedCoder); ok {
		src = pc.ParsedCode()
	}
	return &leafEntry{
		name:  rule.LHS.Name,
		value: v,
		src:   src,
		line:  line,
	}, nil
}

func invoke(fn Translator, args *Args) (v interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%v", p)
		}
	}()
	return fn(args)
}

// bind adds an entry to the arguments of an action. The children of a pending entry are
// bound in place of it.
func bind(args *Args, e entry) {
	switch e := e.(type) {
	case *tokenEntry:
		name := e.tok.BindingName()
		args.Tokens.push(name, e.tok)
		args.Symbols = append(args.Symbols, Symbol{
			Name:  name,
			Value: e.tok,
			Line:  e.line,
		})
	case *leafEntry:
		args.Values.push(e.name, e.value)
		args.Symbols = append(args.Symbols, Symbol{
			Name:  e.name,
			Value: e.value,
			Line:  e.line,
		})
	case *pendingEntry:
		for _, c := range e.children {
			bind(args, c)
		}
	}
}

func (r *parseRun) accept(pos int) (interface{}, error) {
	syms := r.stack[1:]
	line := r.lines[pos]
	if len(syms) != 1 {
		return nil, verr.NewCompileError(verr.CodeUnreducedInput, line, "End of file reached more than one time (your file is probably corrupted or has an invalid start)")
	}
	v, ok := syms[0].sym.(*grammar.Variable)
	if !ok || v.Name != grammar.StartName {
		return nil, verr.NewCompileError(verr.CodeInvalidAccept, line, "Invalid language.")
	}
	if r.checkOnly {
		return nil, nil
	}
	return resultOf(syms[0].entry), nil
}

// resultOf returns the value of the last authored rule an entry holds.
func resultOf(e entry) interface{} {
	switch e := e.(type) {
	case *leafEntry:
		return e.value
	case *pendingEntry:
		for i := len(e.children) - 1; i >= 0; i-- {
			if _, ok := e.children[i].(*tokenEntry); ok {
				continue
			}
			return resultOf(e.children[i])
		}
	}
	return nil
}

func (r *parseRun) unexpectedToken(state int, pos int) error {
	tok := r.toks[pos]
	var expected []string
	for _, e := range r.tab.Expected(state) {
		expected = append(expected, e.String())
	}
	text := tok.Text
	if text == "" {
		text = tok.String()
	}
	return verr.NewUnexpectedTokenError(r.lines[pos], text, tok.Class().String(), expected)
}

func (r *parseRun) invariant(err error) error {
	if r.panicOnError || gconf.GetBool("panic-on-error") {
		panic(err)
	}
	return err
}
