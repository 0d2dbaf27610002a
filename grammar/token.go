package grammar

import (
	"fmt"
	"strings"
)

type TokenKind int

const (
	KindInvalid TokenKind = iota
	KindName
	KindID
	KindInt
	KindReal
	KindString
	KindEpsilon
	KindEndOfStream
	KindLiteral
	KindAnnotation
)

var kindNames = [...]string{
	KindInvalid:     "invalid",
	KindName:        "name",
	KindID:          "id",
	KindInt:         "int",
	KindReal:        "real",
	KindString:      "string",
	KindEpsilon:     "e",
	KindEndOfStream: "$",
	KindLiteral:     "literal",
	KindAnnotation:  "annotation",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsClass reports whether tokens of the kind are matched by their kind alone. Literals and
// annotations are matched by their text as well.
func (k TokenKind) IsClass() bool {
	return k != KindLiteral && k != KindAnnotation
}

// KindByClassName resolves the name following `#` in a grammar.
func KindByClassName(name string) (TokenKind, bool) {
	switch name {
	case "int":
		return KindInt, true
	case "real":
		return KindReal, true
	case "string":
		return KindString, true
	case "name":
		return KindName, true
	case "id":
		return KindID, true
	case "e", "epsilon":
		return KindEpsilon, true
	case "$":
		return KindEndOfStream, true
	}
	return KindInvalid, false
}

// AnnotationNewLine tags the annotation the tokenizer emits for each line break.
const AnnotationNewLine = "NewLine"

// Token is a terminal symbol. A class token, used in grammars, carries only its kind
// (plus the text of a literal or the tag of an annotation). An instance token, produced
// by the tokenizer, carries the matched source text as well.
type Token struct {
	Kind TokenKind
	Text string
}

func NewClassToken(kind TokenKind) Token {
	return Token{Kind: kind}
}

func NewLiteral(text string) Token {
	return Token{Kind: KindLiteral, Text: text}
}

func NewAnnotation(tag string) Token {
	return Token{Kind: KindAnnotation, Text: tag}
}

var (
	Epsilon     = NewClassToken(KindEpsilon)
	EndOfStream = NewClassToken(KindEndOfStream)
)

// Class returns the grammar symbol the token is an instance of.
func (t Token) Class() Token {
	if t.Kind.IsClass() {
		return Token{Kind: t.Kind}
	}
	return t
}

// Matches reports whether an instance token is matched by the class token c.
func (t Token) Matches(c Token) bool {
	return t.Class() == c
}

func (t Token) IsEpsilon() bool {
	return t.Kind == KindEpsilon
}

// String renders the canonical form of the grammar symbol the token belongs to.
func (t Token) String() string {
	switch t.Kind {
	case KindLiteral:
		return `"` + strings.ReplaceAll(t.Text, `"`, `""`) + `"`
	case KindAnnotation:
		return "@" + t.Text
	}
	return "#" + t.Kind.String()
}

// BindingName is the name under which a semantic action finds the token: the literal text
// for literals, the canonical class name otherwise.
func (t Token) BindingName() string {
	if t.Kind == KindLiteral {
		return t.Text
	}
	return t.Class().String()
}

func (t Token) Key() Key {
	c := t.Class()
	return hashNode(tagToken, int(c.Kind), c.Text, false)
}

func (t Token) isExpression() {}
