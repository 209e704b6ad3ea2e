package ruledsl

import (
	"fmt"
	"strings"
	"unicode"
)

// Lexer turns rule text into a token stream with one token lookahead.
type Lexer struct {
	src    []rune
	pos    int
	line   int
	col    int
	peeked *Token
}

// NewLexer returns a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, col: 1}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() Token {
	if lx.peeked == nil {
		tok := lx.scan()
		lx.peeked = &tok
	}

	return *lx.peeked
}

// Next consumes and returns the next token.
func (lx *Lexer) Next() Token {
	if lx.peeked != nil {
		tok := *lx.peeked
		lx.peeked = nil

		return tok
	}

	return lx.scan()
}

func (lx *Lexer) scan() Token {
	lx.skipSpaceAndComments()

	line, col := lx.line, lx.col
	if lx.eof() {
		return Token{Type: tokenEOF, Line: line, Col: col}
	}

	c := lx.src[lx.pos]
	switch {
	case c == '"':
		return lx.scanString(line, col)
	case unicode.IsDigit(c):
		return lx.scanInt(line, col)
	case unicode.IsLetter(c) || c == '_':
		return lx.scanWord(line, col)
	}

	lx.advance()
	switch c {
	case ':':
		return Token{Type: tokenColon, Text: ":", Line: line, Col: col}
	case '.':
		return Token{Type: tokenDot, Text: ".", Line: line, Col: col}
	case ',':
		return Token{Type: tokenComma, Text: ",", Line: line, Col: col}
	case '(':
		return Token{Type: tokenParenL, Text: "(", Line: line, Col: col}
	case ')':
		return Token{Type: tokenParenR, Text: ")", Line: line, Col: col}
	case '{':
		return Token{Type: tokenBraceL, Text: "{", Line: line, Col: col}
	case '}':
		return Token{Type: tokenBraceR, Text: "}", Line: line, Col: col}
	case '=':
		if lx.accept('=') {
			return Token{Type: tokenEq, Text: "==", Line: line, Col: col}
		}
	case '!':
		if lx.accept('=') {
			return Token{Type: tokenNotEq, Text: "!=", Line: line, Col: col}
		}
	case '<':
		if lx.accept('=') {
			return Token{Type: tokenLessEq, Text: "<=", Line: line, Col: col}
		}

		return Token{Type: tokenLess, Text: "<", Line: line, Col: col}
	case '>':
		if lx.accept('=') {
			return Token{Type: tokenGreaterEq, Text: ">=", Line: line, Col: col}
		}

		return Token{Type: tokenGreater, Text: ">", Line: line, Col: col}
	}

	return Token{
		Type: tokenError,
		Text: fmt.Sprintf("unexpected character %q", c),
		Line: line,
		Col:  col,
	}
}

func (lx *Lexer) scanString(line, col int) Token {
	lx.advance() // opening quote

	var sb strings.Builder

	for !lx.eof() {
		c := lx.src[lx.pos]
		switch c {
		case '"':
			lx.advance()

			return Token{Type: tokenString, Text: sb.String(), Line: line, Col: col}
		case '\n':
			return Token{Type: tokenError, Text: "unterminated string literal", Line: line, Col: col}
		case '\\':
			lx.advance()
			if lx.eof() {
				return Token{Type: tokenError, Text: "unterminated string literal", Line: line, Col: col}
			}

			switch lx.src[lx.pos] {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '"', '\\':
				sb.WriteRune(lx.src[lx.pos])
			default:
				return Token{
					Type: tokenError,
					Text: fmt.Sprintf("invalid escape %q", lx.src[lx.pos]),
					Line: line,
					Col:  col,
				}
			}

			lx.advance()
		default:
			sb.WriteRune(c)
			lx.advance()
		}
	}

	return Token{Type: tokenError, Text: "unterminated string literal", Line: line, Col: col}
}

func (lx *Lexer) scanInt(line, col int) Token {
	start := lx.pos
	for !lx.eof() && unicode.IsDigit(lx.src[lx.pos]) {
		lx.advance()
	}

	return Token{Type: tokenInt, Text: string(lx.src[start:lx.pos]), Line: line, Col: col}
}

func (lx *Lexer) scanWord(line, col int) Token {
	start := lx.pos
	for !lx.eof() && (unicode.IsLetter(lx.src[lx.pos]) || unicode.IsDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
		lx.advance()
	}

	word := string(lx.src[start:lx.pos])
	if typ, ok := keywords[word]; ok {
		return Token{Type: typ, Text: word, Line: line, Col: col}
	}

	return Token{Type: tokenIdent, Text: word, Line: line, Col: col}
}

func (lx *Lexer) skipSpaceAndComments() {
	for !lx.eof() {
		c := lx.src[lx.pos]
		switch {
		case unicode.IsSpace(c):
			lx.advance()
		case c == '#':
			for !lx.eof() && lx.src[lx.pos] != '\n' {
				lx.advance()
			}
		default:
			return
		}
	}
}

func (lx *Lexer) accept(c rune) bool {
	if lx.eof() || lx.src[lx.pos] != c {
		return false
	}

	lx.advance()

	return true
}

func (lx *Lexer) advance() {
	if lx.src[lx.pos] == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}

	lx.pos++
}

func (lx *Lexer) eof() bool {
	return lx.pos >= len(lx.src)
}
