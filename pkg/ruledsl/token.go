// Package ruledsl implements the textual rule language: a scanner, a
// recursive-descent parser, and a tree-walking interpreter with total
// null-propagating semantics. Rules written in this language are loaded
// from rule-pack directories and adapted onto the common rule contract.
package ruledsl

import "fmt"

// TokenType identifies a lexical class.
type TokenType uint

const (
	tokenInvalid TokenType = iota
	tokenError
	tokenEOF

	// Literals and identifiers.
	tokenIdent
	tokenString
	tokenInt

	// Keywords.
	tokenRule
	tokenOn
	tokenAnd
	tokenOr
	tokenNot
	tokenTrue
	tokenFalse
	tokenNull

	// Operators and delimiters.
	tokenEq
	tokenNotEq
	tokenLess
	tokenLessEq
	tokenGreater
	tokenGreaterEq
	tokenColon
	tokenDot
	tokenComma
	tokenParenL
	tokenParenR
	tokenBraceL
	tokenBraceR

	numTokenTypes
)

// String returns a human-readable name for the token type.
func (typ TokenType) String() string {
	names := [numTokenTypes]string{
		tokenInvalid:   "invalid",
		tokenError:     "error",
		tokenEOF:       "EOF",
		tokenIdent:     "identifier",
		tokenString:    "string",
		tokenInt:       "int",
		tokenRule:      "rule",
		tokenOn:        "on",
		tokenAnd:       "and",
		tokenOr:        "or",
		tokenNot:       "not",
		tokenTrue:      "true",
		tokenFalse:     "false",
		tokenNull:      "null",
		tokenEq:        "==",
		tokenNotEq:     "!=",
		tokenLess:      "<",
		tokenLessEq:    "<=",
		tokenGreater:   ">",
		tokenGreaterEq: ">=",
		tokenColon:     ":",
		tokenDot:       ".",
		tokenComma:     ",",
		tokenParenL:    "(",
		tokenParenR:    ")",
		tokenBraceL:    "{",
		tokenBraceR:    "}",
	}

	if typ >= numTokenTypes {
		return "unknown"
	}

	return names[typ]
}

var keywords = map[string]TokenType{
	"rule":  tokenRule,
	"on":    tokenOn,
	"and":   tokenAnd,
	"or":    tokenOr,
	"not":   tokenNot,
	"true":  tokenTrue,
	"false": tokenFalse,
	"null":  tokenNull,
}

// Token is one lexeme with its position in the rule file.
type Token struct {
	Type TokenType
	Text string
	Line int
	Col  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %d:%d", t.Type, t.Text, t.Line, t.Col)
}
