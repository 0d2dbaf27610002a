package compiler

import (
	"fmt"
	"strings"
	"sync"

	verr "github.com/michelematteini/dslmanager/error"
)

// DirectiveFunc rewrites a compiled directive and the plain text preceding it before both
// are appended to the processed program. After the last directive it is called once more
// with the trailing text and an empty directive.
type DirectiveFunc func(before, directive string) (string, string, error)

// BuildFunc turns a processed program into the compiled result.
type BuildFunc func(processed string) (interface{}, error)

type PreprocessorOption func(p *Preprocessor) error

func WithDirectiveFunc(fn DirectiveFunc) PreprocessorOption {
	return func(p *Preprocessor) error {
		p.onDirective = fn
		return nil
	}
}

func WithBuildFunc(fn BuildFunc) PreprocessorOption {
	return func(p *Preprocessor) error {
		p.build = fn
		return nil
	}
}

// WithAppendedPrograms makes CompileProgram append every processed program to the previous
// ones instead of replacing them.
func WithAppendedPrograms() PreprocessorOption {
	return func(p *Preprocessor) error {
		p.multipass = true
		return nil
	}
}

// Preprocessor compiles the directives embedded in a program, the text between a start and an
// end delimiter, with a single-pass compiler and passes the rest of the text through. The
// value of a directive replaces it in the processed program.
type Preprocessor struct {
	name        string
	ext         string
	start       string
	end         string
	directives  *BasicCompiler
	onDirective DirectiveFunc
	build       BuildFunc
	multipass   bool

	mu            sync.Mutex
	processed     strings.Builder
	available     bool
	final         interface{}
	finalComputed bool
}

var _ Compiler = &Preprocessor{}

func NewPreprocessor(name, ext, start, end string, directives *BasicCompiler, opts ...PreprocessorOption) (*Preprocessor, error) {
	if start == "" || end == "" {
		return nil, fmt.Errorf("%v: directive delimiters cannot be empty", name)
	}
	if directives == nil || directives.IsMultipass() {
		return nil, fmt.Errorf("%v: directives need a single-pass compiler", name)
	}
	p := &Preprocessor{
		name:       name,
		ext:        ext,
		start:      start,
		end:        end,
		directives: directives,
		onDirective: func(before, directive string) (string, string, error) {
			return before, directive, nil
		},
		build: func(processed string) (interface{}, error) {
			return processed, nil
		},
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Directives returns the compiler of the directives.
func (p *Preprocessor) Directives() *BasicCompiler {
	return p.directives
}

func (p *Preprocessor) Initialize() error {
	return p.withSource(p.directives.Initialize())
}

func (p *Preprocessor) CheckProgram(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reset()
	_, err := p.scan(text, true)
	return err
}

func (p *Preprocessor) CompileProgram(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.multipass {
		p.reset()
	}
	out, err := p.scan(text, false)
	if err != nil {
		return err
	}
	p.processed.WriteString(out)
	p.available = true
	p.final = nil
	p.finalComputed = false
	return nil
}

// scan walks the directives of text in order. When checkOnly is set it only checks their
// syntax and returns no text.
func (p *Preprocessor) scan(text string, checkOnly bool) (string, error) {
	var b strings.Builder
	pos := 0
	for {
		i := strings.Index(text[pos:], p.start)
		if i < 0 {
			break
		}
		startIdx := pos + i
		codeIdx := startIdx + len(p.start)
		j := strings.Index(text[codeIdx:], p.end)
		if j < 0 {
			err := verr.NewCompileError(verr.CodeOpenDirective, lineAt(text, startIdx),
				"End of file reached while parsing code, are you missing a %q?", p.end)
			err.SetSource(p.name)
			return "", err
		}
		code := text[codeIdx : codeIdx+j]

		directive, err := p.directive(code, checkOnly)
		if err != nil {
			return "", p.shiftLine(err, strings.Count(text[:codeIdx], "\n"))
		}
		if !checkOnly {
			if err := p.appendBlock(&b, text[pos:startIdx], directive); err != nil {
				return "", err
			}
		}
		pos = codeIdx + j + len(p.end)
	}
	if checkOnly {
		return "", nil
	}
	if err := p.appendBlock(&b, text[pos:], ""); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (p *Preprocessor) directive(code string, checkOnly bool) (string, error) {
	if checkOnly {
		return "", p.directives.CheckProgram(code)
	}
	if err := p.directives.CompileProgram(code); err != nil {
		return "", err
	}
	v, err := p.directives.CompiledResult()
	if err != nil || v == nil {
		return "", err
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

func (p *Preprocessor) appendBlock(b *strings.Builder, before, directive string) error {
	before, directive, err := p.onDirective(before, directive)
	if err != nil {
		return p.withSource(err)
	}
	b.WriteString(before)
	b.WriteString(directive)
	return nil
}

// shiftLine turns the line of an error inside a directive into a line of the program.
func (p *Preprocessor) shiftLine(err error, lines int) error {
	if cerr, ok := verr.AsCompileError(err); ok {
		if cerr.Line != verr.NoLine {
			cerr.Line += lines
		}
		cerr.SetSource(p.name)
	}
	return err
}

func lineAt(text string, idx int) int {
	return strings.Count(text[:idx], "\n") + 1
}

func (p *Preprocessor) withSource(err error) error {
	if cerr, ok := verr.AsCompileError(err); ok {
		cerr.SetSource(p.name)
	}
	return err
}

func (p *Preprocessor) CompiledResult() (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.available {
		return nil, nil
	}
	if !p.finalComputed {
		v, err := p.build(p.processed.String())
		if err != nil {
			return nil, p.withSource(err)
		}
		p.final = v
		p.finalComputed = true
	}
	return p.final, nil
}

func (p *Preprocessor) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reset()
}

func (p *Preprocessor) reset() {
	p.processed.Reset()
	p.available = false
	p.final = nil
	p.finalComputed = false
	p.directives.Reset()
}

func (p *Preprocessor) FileExtension() string {
	return p.ext
}

func (p *Preprocessor) DebugName() string {
	return p.name
}

func (p *Preprocessor) IsMultipass() bool {
	return p.multipass
}
