// Package compiler turns a grammar and the semantic actions of its rules into a compiler of
// programs written in the language the grammar defines.
package compiler

import (
	"fmt"
	"sync"

	"github.com/michelematteini/dslmanager/diagnostic"
	"github.com/michelematteini/dslmanager/driver"
	"github.com/michelematteini/dslmanager/driver/lexer"
	verr "github.com/michelematteini/dslmanager/error"
	"github.com/michelematteini/dslmanager/grammar"
	"github.com/michelematteini/dslmanager/grammar/ebnf"
	"github.com/michelematteini/dslmanager/grammar/lexical"
	"github.com/michelematteini/dslmanager/lr"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("dslmanager.compiler")
}

// Compiler checks and compiles programs. Every operation initializes the compiler first when
// Initialize has not been called yet.
type Compiler interface {
	// Initialize builds the tables of the language. Calling it again does nothing until the
	// language changes.
	Initialize() error

	// CheckProgram checks the syntax of a program without translating it.
	CheckProgram(text string) error

	// CompileProgram translates a program. A multipass compiler accumulates the results of
	// successive calls; any other compiler keeps only the last one.
	CompileProgram(text string) error

	// CompiledResult returns the result of the compilation, or nil when nothing was compiled.
	CompiledResult() (interface{}, error)

	// Reset discards every compiled result.
	Reset()

	FileExtension() string
	DebugName() string
	IsMultipass() bool
}

// Pass shapes the results of a compiler. ProcessIntermediate runs on the value of every
// compiled program and BuildFinal merges the processed values into the result.
type Pass interface {
	ProcessIntermediate(v interface{}) (interface{}, error)
	BuildFinal(vs []interface{}) (interface{}, error)
}

type singlePass struct{}

func (singlePass) ProcessIntermediate(v interface{}) (interface{}, error) {
	return v, nil
}

func (singlePass) BuildFinal(vs []interface{}) (interface{}, error) {
	return vs[len(vs)-1], nil
}

type Option func(c *BasicCompiler) error

// WithSink sets the sink of the messages emitted while building the tables.
func WithSink(sink diagnostic.Sink) Option {
	return func(c *BasicCompiler) error {
		c.sink = sink
		return nil
	}
}

// WithPriority sets the priority of every alternative of an authored rule.
func WithPriority(rule int, p grammar.RulePriority) Option {
	return func(c *BasicCompiler) error {
		if err := c.checkRule(rule); err != nil {
			return err
		}
		c.prios.Set(rule, p)
		return nil
	}
}

// WithAlternativePriority sets the priority of one top-level alternative of an authored rule.
func WithAlternativePriority(rule, alt int, p grammar.RulePriority) Option {
	return func(c *BasicCompiler) error {
		if err := c.checkRule(rule); err != nil {
			return err
		}
		c.prios.SetAlternative(rule, alt, p)
		return nil
	}
}

// WithCommentMarkers enables the removal of comments before tokenizing.
func WithCommentMarkers(inline, multilineStart, multilineEnd string) Option {
	return func(c *BasicCompiler) error {
		c.comments = CommentMarkers{
			Inline:         inline,
			MultilineStart: multilineStart,
			MultilineEnd:   multilineEnd,
		}
		return nil
	}
}

// WithTranslation sets the semantic action of every alternative of an authored rule.
func WithTranslation(rule int, fn driver.Translator) Option {
	return func(c *BasicCompiler) error {
		return c.setTranslation(rule, grammar.AnyAlternative, fn)
	}
}

// WithMultipass makes CompileProgram accumulate its results, which p merges when the result
// is requested.
func WithMultipass(p Pass) Option {
	return func(c *BasicCompiler) error {
		c.pass = p
		c.multipass = true
		return nil
	}
}

// WithPanicOnError makes the parser panic on a corrupt parse table.
func WithPanicOnError() Option {
	return func(c *BasicCompiler) error {
		c.parserOpts = append(c.parserOpts, driver.PanicOnError())
		return nil
	}
}

// WithPass makes p shape the result of every compiled program.
func WithPass(p Pass) Option {
	return func(c *BasicCompiler) error {
		c.pass = p
		return nil
	}
}

type language struct {
	gram   *grammar.Normalized
	tab    *lr.ParseTable
	lexTab *lexical.LexerTable
}

// BasicCompiler is a Compiler of the language defined by an EBNF grammar.
type BasicCompiler struct {
	name string
	ext  string

	rules       []*grammar.DerivationRule
	prios       grammar.PriorityMap
	translators driver.Translators
	comments    CommentMarkers
	sink        diagnostic.Sink
	pass        Pass
	multipass   bool
	parserOpts  []driver.ParserOption

	mu            sync.Mutex
	lang          *language
	outputs       []interface{}
	final         interface{}
	finalComputed bool
}

// New reads the grammar of a language. The name identifies the compiler in error messages.
func New(name string, ext string, grammarText string, opts ...Option) (*BasicCompiler, error) {
	rules, err := ebnf.ParseGrammar(grammarText)
	if err != nil {
		if cerr, ok := verr.AsCompileError(err); ok {
			cerr.SetSource(name)
		}
		return nil, err
	}
	c := &BasicCompiler{
		name:        name,
		ext:         ext,
		rules:       rules,
		prios:       grammar.PriorityMap{},
		translators: driver.Translators{},
		sink:        diagnostic.TraceSink{},
		pass:        singlePass{},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *BasicCompiler) checkRule(rule int) error {
	if rule < 0 || rule >= len(c.rules) {
		return fmt.Errorf("rule index out of range; rules: %v, index: %v", len(c.rules), rule)
	}
	return nil
}

func (c *BasicCompiler) setTranslation(rule, alt int, fn driver.Translator) error {
	if err := c.checkRule(rule); err != nil {
		return err
	}
	if alt == grammar.AnyAlternative {
		c.translators.Set(rule, fn)
	} else {
		c.translators.SetAlternative(rule, alt, fn)
	}
	return nil
}

// Rules returns the authored rules of the language.
func (c *BasicCompiler) Rules() []*grammar.DerivationRule {
	return c.rules
}

// SetTranslation sets the semantic action of every alternative of an authored rule.
func (c *BasicCompiler) SetTranslation(rule int, fn driver.Translator) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.setTranslation(rule, grammar.AnyAlternative, fn)
}

// SetAlternativeTranslation sets the semantic action of one top-level alternative of an
// authored rule.
func (c *BasicCompiler) SetAlternativeTranslation(rule, alt int, fn driver.Translator) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.setTranslation(rule, alt, fn)
}

// SetTranslationFor sets the semantic action of every authored rule defining lhs.
func (c *BasicCompiler) SetTranslationFor(lhs string, fn driver.Translator) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	found := false
	for i, r := range c.rules {
		if r.LHS.Name != lhs {
			continue
		}
		c.translators.Set(i, fn)
		found = true
	}
	if !found {
		return fmt.Errorf("no rule defines %v", lhs)
	}
	return nil
}

// SetPriority changes the priority of an authored rule. The tables are rebuilt on the next
// use of the compiler.
func (c *BasicCompiler) SetPriority(rule int, p grammar.RulePriority) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkRule(rule); err != nil {
		return err
	}
	c.prios.Set(rule, p)
	c.lang = nil
	return nil
}

// CanCompile reports whether every authored rule has a semantic action.
func (c *BasicCompiler) CanCompile() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.missingTranslations()) == 0
}

func (c *BasicCompiler) missingTranslations() []int {
	var missing []int
	for i := range c.rules {
		if _, ok := c.translators.Lookup(grammar.RuleRef{Rule: i, Alternative: grammar.AnyAlternative}); ok {
			continue
		}
		alts := 0
		for ref := range c.translators {
			if ref.Rule == i {
				alts++
			}
		}
		if alts < alternativeCount(c.rules[i]) {
			missing = append(missing, i)
		}
	}
	return missing
}

func alternativeCount(r *grammar.DerivationRule) int {
	if alt, ok := r.Body.(*grammar.Alternation); ok {
		return len(alt.Children)
	}
	return 1
}

func (c *BasicCompiler) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.initialize()
}

func (c *BasicCompiler) initialize() error {
	if c.lang != nil {
		return nil
	}

	gram, err := grammar.Normalize(c.rules)
	if err != nil {
		return c.withSource(err)
	}
	d, err := lr.NewDiagram(gram.Rules)
	if err != nil {
		return c.withSource(err)
	}
	tab, err := lr.NewParseTable(d, gram.Priorities(c.prios), c.sink)
	if err != nil {
		return c.withSource(err)
	}
	c.lang = &language{
		gram:   gram,
		tab:    tab,
		lexTab: lexical.Build(gram.Literals()),
	}
	tracer().Infof("%v: %v rules, %v states, %v conflicts", c.name, len(gram.Rules), tab.StateCount(), len(tab.Conflicts()))
	c.reset()
	return nil
}

func (c *BasicCompiler) withSource(err error) error {
	if cerr, ok := verr.AsCompileError(err); ok {
		cerr.SetSource(c.name)
	}
	return err
}

// beforeCompile initializes the compiler and drops the results a new compilation replaces.
func (c *BasicCompiler) beforeCompile() error {
	if err := c.initialize(); err != nil {
		return err
	}
	if !c.multipass || c.finalComputed {
		c.reset()
	}
	return nil
}

func (c *BasicCompiler) tokenize(text string) ([]grammar.Token, error) {
	return lexer.Tokenize(c.lang.lexTab, RemoveComments(text, c.comments))
}

func (c *BasicCompiler) CheckProgram(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.beforeCompile(); err != nil {
		return err
	}
	toks, err := c.tokenize(text)
	if err != nil {
		return c.withSource(err)
	}
	p, err := driver.NewParser(c.lang.tab, c.lang.gram, c.parserOpts...)
	if err != nil {
		return err
	}
	return c.withSource(p.Check(toks))
}

func (c *BasicCompiler) CompileProgram(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if missing := c.missingTranslations(); len(missing) > 0 {
		err := verr.NewCompileError(verr.CodeMissingTranslation, verr.NoLine,
			"The program cannot be compiled because the language is incomplete (rules without translation: %v). Use CheckProgram to check the syntax of a program.", missing)
		err.SetSource(c.name)
		return err
	}
	if err := c.beforeCompile(); err != nil {
		return err
	}

	toks, err := c.tokenize(text)
	if err != nil {
		return c.withSource(err)
	}
	opts := append([]driver.ParserOption{driver.WithTranslators(c.translators)}, c.parserOpts...)
	p, err := driver.NewParser(c.lang.tab, c.lang.gram, opts...)
	if err != nil {
		return err
	}
	v, err := p.Parse(toks)
	if err != nil {
		return c.withSource(err)
	}
	v, err = c.pass.ProcessIntermediate(v)
	if err != nil {
		return c.withSource(err)
	}
	c.outputs = append(c.outputs, v)
	return nil
}

func (c *BasicCompiler) CompiledResult() (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.outputs) == 0 {
		return nil, nil
	}
	if !c.finalComputed {
		v, err := c.pass.BuildFinal(c.outputs)
		if err != nil {
			return nil, c.withSource(err)
		}
		c.final = v
		c.finalComputed = true
	}
	return c.final, nil
}

func (c *BasicCompiler) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reset()
}

func (c *BasicCompiler) reset() {
	c.outputs = nil
	c.final = nil
	c.finalComputed = false
}

func (c *BasicCompiler) FileExtension() string {
	return c.ext
}

func (c *BasicCompiler) DebugName() string {
	return c.name
}

func (c *BasicCompiler) IsMultipass() bool {
	return c.multipass
}

// Language returns the normalized grammar and the tables of the language.
func (c *BasicCompiler) Language() (*grammar.Normalized, *lr.ParseTable, *lexical.LexerTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.initialize(); err != nil {
		return nil, nil, nil, err
	}
	return c.lang.gram, c.lang.tab, c.lang.lexTab, nil
}
