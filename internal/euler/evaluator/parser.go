package evaluator

import (
	"fmt"
	"strconv"
)

// parser is a recursive descent parser over the closed grammar
//
//	expr    := term (('+' | '-') term)*
//	term    := unary (('*' | '/') unary)*
//	unary   := ('+' | '-') unary | primary
//	primary := number | call | '(' expr ')'
//	call    := ident '(' [expr (',' expr)*] ')'
//
// A parser is used for a single input.
type parser struct {
	lexer    *Lexer
	current  Token
	previous Token
	maxDepth int
	depth    int
}

// parseError carries the reason and offset of a syntax failure
type parseError struct {
	Message  string
	Position int
	Token    Token
}

func (pe *parseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s (near '%s')", pe.Position, pe.Message, pe.Token.Value)
}

func newParser(input string, maxDepth int) *parser {
	p := &parser{lexer: NewLexer(input), maxDepth: maxDepth}
	p.advance()
	return p
}

func (p *parser) parse() (node, error) {
	n, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenEOF {
		return nil, p.parseError("unexpected token after expression")
	}
	return n, nil
}

func (p *parser) parseExpression() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenPlus || p.current.Type == TokenMinus {
		op := p.current.Type
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenStar || p.current.Type == TokenSlash {
		op := p.current.Type
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.current.Type != TokenPlus && p.current.Type != TokenMinus {
		return p.parsePrimary()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	op := p.current.Type
	p.advance()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &unaryNode{op: op, operand: operand}, nil
}

func (p *parser) parsePrimary() (node, error) {
	switch p.current.Type {
	case TokenNumber:
		value, err := strconv.ParseFloat(p.current.Value, 64)
		if err != nil {
			return nil, p.parseError(fmt.Sprintf("invalid number: %s", p.current.Value))
		}
		p.advance()
		return &numberNode{value: value}, nil

	case TokenIdentifier:
		ident := p.current
		p.advance()
		if p.current.Type != TokenLeftParen {
			return nil, p.errorAt(ident, fmt.Sprintf("unknown identifier: %s", ident.Value))
		}
		return p.parseCall(ident)

	case TokenLeftParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.current.Type != TokenRightParen {
			return nil, p.parseError("expected ')' after expression")
		}
		p.advance()
		return expr, nil

	case TokenEOF:
		return nil, p.parseError("unexpected end of expression")

	default:
		return nil, p.parseError(fmt.Sprintf("unexpected token in expression: %s", p.current.Value))
	}
}

func (p *parser) parseCall(ident Token) (node, error) {
	name := ident.Value
	fn, ok := functions[name]
	if !ok {
		return nil, p.errorAt(ident, fmt.Sprintf("unknown function: %s", name))
	}
	p.advance() // '('

	var args []node
	if p.current.Type != TokenRightParen {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		for p.current.Type == TokenComma {
			p.advance()
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}

	if p.current.Type != TokenRightParen {
		return nil, p.parseError("expected ')' after function arguments")
	}
	p.advance()

	if len(args) != fn.arity {
		return nil, p.errorAt(ident, fmt.Sprintf("%s expects %d argument(s), got %d", name, fn.arity, len(args)))
	}
	return &callNode{name: name, fn: fn, args: args}, nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.parseError(fmt.Sprintf("expression nested deeper than %d", p.maxDepth))
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) advance() {
	p.previous = p.current
	p.current = p.lexer.NextToken()
}

func (p *parser) parseError(message string) error {
	return p.errorAt(p.current, message)
}

func (p *parser) errorAt(tok Token, message string) error {
	return &parseError{Message: message, Position: tok.Position, Token: tok}
}
