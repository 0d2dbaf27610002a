package compiler

import (
	"strconv"
	"strings"
	"testing"

	"github.com/michelematteini/dslmanager/driver"
	verr "github.com/michelematteini/dslmanager/error"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const sumGrammar = `Sum ::= #int, { '+', #int }*;`

func newSumDirectives(t *testing.T, opts ...Option) *BasicCompiler {
	t.Helper()

	opts = append([]Option{
		WithTranslation(0, func(args *driver.Args) (interface{}, error) {
			sum := 0
			for _, tok := range args.Tokens.List("#int") {
				n, err := strconv.Atoi(tok.Text)
				if err != nil {
					return nil, err
				}
				sum += n
			}
			return strconv.Itoa(sum), nil
		}),
	}, opts...)
	c, err := New("sum", "sum", sumGrammar, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestPreprocessor_CompileProgram(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dslmanager.compiler")
	defer teardown()

	p, err := NewPreprocessor("page", "page", "{{", "}}", newSumDirectives(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Initialize(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		caption  string
		src      string
		expected string
	}{
		{
			caption:  "directives are replaced by their values",
			src:      "a {{1+2}} b {{ 4 }}\nc",
			expected: "a 3 b 4\nc",
		},
		{
			caption:  "a directive spanning lines",
			src:      "{{1\n+\n2}}!",
			expected: "3!",
		},
		{
			caption:  "a text without directives passes through",
			src:      "plain } text {",
			expected: "plain } text {",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			if err := p.CompileProgram(tt.src); err != nil {
				t.Fatal(err)
			}
			v, err := p.CompiledResult()
			if err != nil {
				t.Fatal(err)
			}
			if v != tt.expected {
				t.Fatalf("unexpected result; want: %q, got: %q", tt.expected, v)
			}
		})
	}
}

func TestPreprocessor_Errors(t *testing.T) {
	p, err := NewPreprocessor("page", "page", "{{", "}}", newSumDirectives(t))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		caption string
		src     string
		code    string
		line    int
	}{
		{
			caption: "the line of an error counts the text before the directive",
			src:     "x\n{{1+\n+2}}",
			code:    verr.CodeUnexpectedToken,
			line:    3,
		},
		{
			caption: "an error on the first line of a directive",
			src:     "x\ny {{ 1 ? }}",
			code:    verr.CodeInvalidCharacter,
			line:    2,
		},
		{
			caption: "a directive without its end",
			src:     "a\n{{ 1 + 2",
			code:    verr.CodeOpenDirective,
			line:    2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			err := p.CompileProgram(tt.src)
			if err == nil {
				t.Fatal("an error must occur")
			}
			cerr, ok := verr.AsCompileError(err)
			if !ok {
				t.Fatalf("unexpected error: %v", err)
			}
			if cerr.Code != tt.code || cerr.Line != tt.line || cerr.Source != "page" {
				t.Fatalf("unexpected error: %v", err)
			}
			if v, err := p.CompiledResult(); v != nil || err != nil {
				t.Fatalf("a failed compilation has no result; got: %v, %v", v, err)
			}
			if err := p.CheckProgram(tt.src); err == nil {
				t.Fatal("a check must fail too")
			}
		})
	}
}

func TestPreprocessor_CheckProgram(t *testing.T) {
	translated := false
	p, err := NewPreprocessor("page", "page", "<%", "%>", newSumDirectives(t, WithTranslation(0, func(args *driver.Args) (interface{}, error) {
		translated = true
		return "", nil
	})))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.CheckProgram("a <% 1 + 2 %> b <% 3 %>"); err != nil {
		t.Fatal(err)
	}
	if translated {
		t.Fatal("a check must not compile the directives")
	}
	if v, _ := p.CompiledResult(); v != nil {
		t.Fatalf("a check has no result; got: %v", v)
	}
}

func TestPreprocessor_Options(t *testing.T) {
	var blocks []string
	p, err := NewPreprocessor("page", "page", "{{", "}}", newSumDirectives(t),
		WithAppendedPrograms(),
		WithDirectiveFunc(func(before, directive string) (string, string, error) {
			blocks = append(blocks, before+"|"+directive)
			return strings.ToUpper(before), "<" + directive + ">", nil
		}),
		WithBuildFunc(func(processed string) (interface{}, error) {
			return strings.Split(processed, ";"), nil
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsMultipass() || p.FileExtension() != "page" || p.DebugName() != "page" {
		t.Fatal("unexpected preprocessor properties")
	}
	for _, src := range []string{"a{{1}}b;", "c{{2+3}}"} {
		if err := p.CompileProgram(src); err != nil {
			t.Fatal(err)
		}
	}
	v, err := p.CompiledResult()
	if err != nil {
		t.Fatal(err)
	}
	parts := v.([]string)
	if len(parts) != 2 || parts[0] != "A<1>B" || parts[1] != "<>C<5><>" {
		t.Fatalf("unexpected result: %q", parts)
	}
	expected := []string{"a|1", "b;|", "c|5", "|"}
	if strings.Join(blocks, " ") != strings.Join(expected, " ") {
		t.Fatalf("unexpected blocks; want: %q, got: %q", expected, blocks)
	}

	p.Reset()
	if v, _ := p.CompiledResult(); v != nil {
		t.Fatalf("a reset preprocessor has no result; got: %v", v)
	}

	if _, err := NewPreprocessor("page", "page", "", "}}", newSumDirectives(t)); err == nil {
		t.Fatal("an empty delimiter must fail")
	}
	if _, err := NewPreprocessor("page", "page", "{{", "}}", newSumDirectives(t, WithMultipass(sumPass{}))); err == nil {
		t.Fatal("directives need a single-pass compiler")
	}
}
