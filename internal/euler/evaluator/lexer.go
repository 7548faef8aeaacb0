package evaluator

import "fmt"

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenNumber     // 12, 1.5, .5, 2e10
	TokenIdentifier // math.sin, calc.factorial

	TokenPlus       // +
	TokenMinus      // -
	TokenStar       // *
	TokenSlash      // /
	TokenLeftParen  // (
	TokenRightParen // )
	TokenComma      // ,
)

// Token is a lexical token with its byte offset in the input
type Token struct {
	Type     TokenType
	Value    string
	Position int
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return fmt.Sprintf("ILLEGAL(%s)", t.Value)
	default:
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	}
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "ILLEGAL"
	case TokenNumber:
		return "NUMBER"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenPlus:
		return "PLUS"
	case TokenMinus:
		return "MINUS"
	case TokenStar:
		return "STAR"
	case TokenSlash:
		return "SLASH"
	case TokenLeftParen:
		return "LEFT_PAREN"
	case TokenRightParen:
		return "RIGHT_PAREN"
	case TokenComma:
		return "COMMA"
	default:
		return "UNKNOWN"
	}
}

// Lexer splits a rewritten expression into tokens
type Lexer struct {
	input    string
	position int  // current char
	readPos  int  // next char
	ch       byte // 0 at end of input
}

// NewLexer creates a lexer positioned on the first character
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	pos := l.position

	var tok Token
	switch l.ch {
	case '+':
		tok = newToken(TokenPlus, l.ch, pos)
	case '-':
		tok = newToken(TokenMinus, l.ch, pos)
	case '*':
		tok = newToken(TokenStar, l.ch, pos)
	case '/':
		tok = newToken(TokenSlash, l.ch, pos)
	case '(':
		tok = newToken(TokenLeftParen, l.ch, pos)
	case ')':
		tok = newToken(TokenRightParen, l.ch, pos)
	case ',':
		tok = newToken(TokenComma, l.ch, pos)
	case 0:
		return Token{Type: TokenEOF, Position: pos}
	default:
		switch {
		case isLetter(l.ch):
			return Token{Type: TokenIdentifier, Value: l.readIdentifier(), Position: pos}
		case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
			return Token{Type: TokenNumber, Value: l.readNumber(), Position: pos}
		default:
			tok = newToken(TokenIllegal, l.ch, pos)
		}
	}

	l.readChar()
	return tok
}

// Tokenize returns all tokens up to and including EOF
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		switch tok.Type {
		case TokenEOF:
			return tokens, nil
		case TokenIllegal:
			return tokens, fmt.Errorf("illegal character '%s' at position %d", tok.Value, tok.Position)
		}
	}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.position = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(offset int) byte {
	if l.readPos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.readPos+offset]
}

// readIdentifier reads a dotted name such as math.log10
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads an integer, decimal or exponent literal
func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(1))) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.input[start:l.position]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func newToken(tokenType TokenType, ch byte, pos int) Token {
	return Token{Type: tokenType, Value: string(ch), Position: pos}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
