package ruledsl

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrParse wraps every syntax error reported by Parse.
var ErrParse = errors.New("rule syntax error")

type parser struct {
	lx *Lexer
}

// Parse reads one rule declaration from src. Rule files hold exactly one
// rule each.
func Parse(src string) (*RuleDecl, error) {
	p := &parser{lx: NewLexer(src)}

	decl, err := p.parseRule()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokenEOF); err != nil {
		return nil, err
	}

	return decl, nil
}

func (p *parser) parseRule() (*RuleDecl, error) {
	opening, err := p.expect(tokenRule)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(tokenString)
	if err != nil {
		return nil, err
	}

	if name.Text == "" {
		return nil, p.errorf(name, "rule name must not be empty")
	}

	if _, err := p.expect(tokenOn); err != nil {
		return nil, err
	}

	selector, err := p.parseSelector()
	if err != nil {
		return nil, err
	}

	decl := &RuleDecl{Name: name.Text, Selector: selector, Line: opening.Line}
	if err := p.parseBody(decl); err != nil {
		return nil, err
	}

	if decl.Ensure == nil {
		return nil, p.errorf(opening, "rule %q has no ensure clause", decl.Name)
	}

	if decl.Report == "" {
		return nil, p.errorf(opening, "rule %q has no report clause", decl.Name)
	}

	return decl, nil
}

func (p *parser) parseSelector() (Selector, error) {
	tok, err := p.expect(tokenIdent)
	if err != nil {
		return Selector{}, err
	}

	switch SelectorKind(tok.Text) {
	case SelectAny, SelectInteractive, SelectMerging:
		return Selector{Kind: SelectorKind(tok.Text)}, nil
	case SelectRole, SelectWidget:
		if _, err := p.expect(tokenParenL); err != nil {
			return Selector{}, err
		}

		arg, err := p.expect(tokenString)
		if err != nil {
			return Selector{}, err
		}

		if _, err := p.expect(tokenParenR); err != nil {
			return Selector{}, err
		}

		return Selector{Kind: SelectorKind(tok.Text), Arg: arg.Text}, nil
	}

	return Selector{}, p.errorf(tok, "unknown selector %q", tok.Text)
}

func (p *parser) parseBody(decl *RuleDecl) error {
	if _, err := p.expect(tokenBraceL); err != nil {
		return err
	}

	for p.lx.Peek().Type != tokenBraceR {
		clause, err := p.expect(tokenIdent)
		if err != nil {
			return err
		}

		if _, err := p.expect(tokenColon); err != nil {
			return err
		}

		switch clause.Text {
		case "when":
			if decl.When != nil {
				return p.errorf(clause, "duplicate when clause")
			}

			expr, err := p.parseExpr()
			if err != nil {
				return err
			}

			decl.When = expr
		case "ensure":
			if decl.Ensure != nil {
				return p.errorf(clause, "duplicate ensure clause")
			}

			expr, err := p.parseExpr()
			if err != nil {
				return err
			}

			decl.Ensure = expr
		case "report":
			msg, err := p.expect(tokenString)
			if err != nil {
				return err
			}

			decl.Report = msg.Text
		case "severity":
			sev, err := p.expect(tokenIdent)
			if err != nil {
				return err
			}

			decl.Severity = sev.Text
		default:
			return p.errorf(clause, "unknown clause %q", clause.Text)
		}
	}

	_, err := p.expect(tokenBraceR)

	return err
}

// parseExpr parses the or-level, the loosest binding.
func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.lx.Peek().Type == tokenOr {
		p.lx.Next()

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: tokenOr, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.lx.Peek().Type == tokenAnd {
		p.lx.Next()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: tokenAnd, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.lx.Peek().Type == tokenNot {
		p.lx.Next()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Op: tokenNot, Operand: operand}, nil
	}

	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	switch op := p.lx.Peek().Type; op {
	case tokenEq, tokenNotEq, tokenLess, tokenLessEq, tokenGreater, tokenGreaterEq:
		p.lx.Next()

		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		return &BinaryExpr{Op: op, Left: left, Right: right}, nil
	}

	return left, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.lx.Next()
	switch tok.Type {
	case tokenString:
		return &StringLit{Value: tok.Text}, nil
	case tokenInt:
		n, err := strconv.Atoi(tok.Text)
		if err != nil {
			return nil, p.errorf(tok, "invalid integer literal %q", tok.Text)
		}

		return &IntLit{Value: n}, nil
	case tokenTrue:
		return &BoolLit{Value: true}, nil
	case tokenFalse:
		return &BoolLit{Value: false}, nil
	case tokenNull:
		return &NullLit{}, nil
	case tokenParenL:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokenParenR); err != nil {
			return nil, err
		}

		return expr, nil
	case tokenIdent:
		parts := []string{tok.Text}
		for p.lx.Peek().Type == tokenDot {
			p.lx.Next()

			part, err := p.expect(tokenIdent)
			if err != nil {
				return nil, err
			}

			parts = append(parts, part.Text)
		}

		return &PathExpr{Parts: parts}, nil
	}

	return nil, p.errorf(tok, "unexpected %s", tok.Type)
}

func (p *parser) expect(typ TokenType) (Token, error) {
	tok := p.lx.Next()
	if tok.Type == tokenError {
		return tok, p.errorf(tok, "%s", tok.Text)
	}

	if tok.Type != typ {
		return tok, p.errorf(tok, "expected %s, found %s %q", typ, tok.Type, tok.Text)
	}

	return tok, nil
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)

	return fmt.Errorf("%w: %d:%d: %s", ErrParse, tok.Line, tok.Col, msg)
}
