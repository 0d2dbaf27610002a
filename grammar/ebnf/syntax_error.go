package ebnf

import verr "github.com/michelematteini/dslmanager/error"

type syntaxError struct {
	code    string
	message string
}

func newSyntaxError(code, message string) *syntaxError {
	return &syntaxError{
		code:    code,
		message: message,
	}
}

var (
	synErrUnexpectedToken = newSyntaxError(verr.CodeEBNFUnexpectedToken, "unexpected token")
	synErrNoRuleName      = newSyntaxError(verr.CodeEBNFUnexpectedToken, "a rule must start with the name of its left-hand symbol")
	synErrNoDefine        = newSyntaxError(verr.CodeEBNFMissingDefine, "'::=' must follow the left-hand symbol")
	synErrNoTerminator    = newSyntaxError(verr.CodeEBNFMissingEnd, "';' is missing at the end of the rule")
	synErrUnclosed        = newSyntaxError(verr.CodeEBNFMissingEnd, "the rule ends before the bracket is closed")
	synErrWrongClose      = newSyntaxError(verr.CodeEBNFWrongClose, "the closing bracket does not match the opening one")
	synErrMissingOperand  = newSyntaxError(verr.CodeEBNFEmptyExpression, "an operator is missing one of its operands")
	synErrEmptyExpression = newSyntaxError(verr.CodeEBNFEmptyExpression, "an expression must not be empty")
	synErrUnknownClass    = newSyntaxError(verr.CodeEBNFUnknownClass, "unknown terminal class")
	synErrNoRule          = newSyntaxError(verr.CodeEBNFEmptyGrammar, "a grammar must have at least one rule")
	synErrTrailingInput   = newSyntaxError(verr.CodeEBNFUnexpectedToken, "only a single rule is expected")
)
