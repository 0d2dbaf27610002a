package error

import (
	"errors"
	"fmt"
	"strings"
)

// NoLine marks an error whose source line is unknown.
const NoLine = -1

// Error codes. The prefix names the stage that raises the error.
const (
	CodeEBNFUnexpectedToken  = "EBNFP0001"
	CodeEBNFUnknownCharacter = "EBNFP0002"
	CodeEBNFMissingDefine    = "EBNFP0003"
	CodeEBNFMissingEnd       = "EBNFP0004"
	CodeEBNFWrongClose       = "EBNFP0005"
	CodeEBNFEmptyExpression  = "EBNFP0006"
	CodeEBNFUnknownClass     = "EBNFP0007"
	CodeEBNFEmptyGrammar     = "EBNFP0008"

	CodeInvalidCommand   = "LRPAR0001"
	CodeUnexpectedToken  = "LRPAR0002"
	CodeInvalidAccept    = "LRPAR0003"
	CodeUnreducedInput   = "LRPAR0004"
	CodeInvalidCharacter = "LRPAR0005"
	CodeUnfinishedToken  = "LRPAR0006"
	CodeTranslation      = "LRPAR0007"

	CodeMissingTranslation = "BCOMP0001"
	CodeNormalization      = "BCOMP0002"

	CodeOpenDirective = "PPLEX0001"
)

// CompileError is the base kind of every error reported while reading a grammar
// or compiling a program. Its text follows the `<source>(<line>): error <code>: <message>` format.
type CompileError struct {
	Source  string
	Line    int
	Code    string
	Message string

	// Warning renders the error as a warning. Warnings never abort a compilation.
	Warning bool
}

func NewCompileError(code string, line int, format string, a ...interface{}) *CompileError {
	return &CompileError{
		Line:    line,
		Code:    code,
		Message: fmt.Sprintf(format, a...),
	}
}

func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString(e.Source)
	if e.Line != NoLine {
		fmt.Fprintf(&b, "(%v)", e.Line)
	}
	if b.Len() > 0 {
		b.WriteString(": ")
	}
	if e.Warning {
		b.WriteString("warning ")
	} else {
		b.WriteString("error ")
	}
	fmt.Fprintf(&b, "%v: %v", e.Code, e.Message)
	return b.String()
}

func (e *CompileError) base() *CompileError {
	return e
}

// SetLine sets the line unless the error already knows it.
func (e *CompileError) SetLine(line int) {
	if e.Line == NoLine || e.Line == 0 {
		e.Line = line
	}
}

func (e *CompileError) SetSource(src string) {
	e.Source = src
}

type compileError interface {
	error
	base() *CompileError
}

var (
	_ compileError = &CompileError{}
	_ compileError = &SyntaxError{}
	_ compileError = &SemanticError{}
	_ compileError = &SDTError{}
)

// AsCompileError returns the CompileError at the root of any error kind of this package.
func AsCompileError(err error) (*CompileError, bool) {
	var ce compileError
	if !errors.As(err, &ce) {
		return nil, false
	}
	return ce.base(), true
}

// SyntaxError reports input that neither the lexer nor the parser can accept.
type SyntaxError struct {
	CompileError

	// Text is the offending source text.
	Text string

	// Expected lists the symbols that would have been accepted instead.
	Expected []string
}

// NewUnexpectedTokenError builds the parser's syntax error for a token that has no action.
func NewUnexpectedTokenError(line int, text string, kind string, expected []string) *SyntaxError {
	var b strings.Builder
	fmt.Fprintf(&b, "Syntax Error: %q (as %v) found", text, kind)
	if len(expected) > 0 {
		fmt.Fprintf(&b, ", expected: %v", strings.Join(expected, " or "))
	}
	return &SyntaxError{
		CompileError: CompileError{
			Line:    line,
			Code:    CodeUnexpectedToken,
			Message: b.String(),
		},
		Text:     text,
		Expected: expected,
	}
}

// NewLexicalError builds the tokenizer's syntax error for text that matches no token.
func NewLexicalError(code string, line int, text string) *SyntaxError {
	return &SyntaxError{
		CompileError: CompileError{
			Line:    line,
			Code:    code,
			Message: fmt.Sprintf("Syntax Error: invalid token %q", text),
		},
		Text: text,
	}
}

// NewGrammarSyntaxError builds the error of a malformed grammar rule.
func NewGrammarSyntaxError(code string, line int, text string, rule string, format string, a ...interface{}) *SyntaxError {
	msg := fmt.Sprintf(format, a...)
	if rule != "" {
		msg = fmt.Sprintf("%v (in rule '%v')", msg, rule)
	}
	return &SyntaxError{
		CompileError: CompileError{
			Line:    line,
			Code:    code,
			Message: msg,
		},
		Text: text,
	}
}

// SemanticError is raised deliberately by a semantic action.
type SemanticError struct {
	CompileError
}

func NewSemanticError(code string, format string, a ...interface{}) *SemanticError {
	return &SemanticError{
		CompileError: CompileError{
			Line:    NoLine,
			Code:    code,
			Message: fmt.Sprintf(format, a...),
		},
	}
}

// SDTError wraps an unexpected failure of a semantic action.
type SDTError struct {
	CompileError
	Rule  string
	Cause error
}

func NewSDTError(line int, rule string, cause error) *SDTError {
	return &SDTError{
		CompileError: CompileError{
			Line:    line,
			Code:    CodeTranslation,
			Message: fmt.Sprintf("Translation error: %v ( While parsing '%v')", cause, rule),
		},
		Rule:  rule,
		Cause: cause,
	}
}

func (e *SDTError) Unwrap() error {
	return e.Cause
}
