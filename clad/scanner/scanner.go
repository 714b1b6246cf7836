// Package scanner tokenizes CLAD schema text.
package scanner

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// TokenType classifies a token
type TokenType int

const (
	UNDEFINED TokenType = iota
	EOF
	SYMBOL
	NUMBER
	STRING
	HASH
	COMMA
	COLON
	SCOPE // ::
	EQUALS
	PLUS
	MINUS
	STAR
	SLASH
	OPEN_BRACE
	CLOSE_BRACE
	OPEN_BRACKET
	CLOSE_BRACKET
	OPEN_PAREN
	CLOSE_PAREN
	SEMICOLON
)

var tokenNames = map[TokenType]string{
	UNDEFINED:     "UNDEFINED",
	EOF:           "EOF",
	SYMBOL:        "SYMBOL",
	NUMBER:        "NUMBER",
	STRING:        "STRING",
	HASH:          "HASH",
	COMMA:         "COMMA",
	COLON:         "COLON",
	SCOPE:         "SCOPE",
	EQUALS:        "EQUALS",
	PLUS:          "PLUS",
	MINUS:         "MINUS",
	STAR:          "STAR",
	SLASH:         "SLASH",
	OPEN_BRACE:    "OPEN_BRACE",
	CLOSE_BRACE:   "CLOSE_BRACE",
	OPEN_BRACKET:  "OPEN_BRACKET",
	CLOSE_BRACKET: "CLOSE_BRACKET",
	OPEN_PAREN:    "OPEN_PAREN",
	CLOSE_PAREN:   "CLOSE_PAREN",
	SEMICOLON:     "SEMICOLON",
}

func (tokenType TokenType) String() string {
	if name, ok := tokenNames[tokenType]; ok {
		return name
	}
	return "?"
}

// Token is one lexeme with its 1-based position
type Token struct {
	Type   TokenType
	Text   string
	Line   int
	Column int
}

func (tok Token) String() string {
	return fmt.Sprintf("<%v %q %d:%d>", tok.Type, tok.Text, tok.Line, tok.Column)
}

// Is reports whether tok is the symbol text
func (tok Token) Is(text string) bool {
	return tok.Type == SYMBOL && tok.Text == text
}

var eof = rune(0)

// Scanner reads tokens from a schema, skipping whitespace and comments
type Scanner struct {
	r          *bufio.Reader
	line       int
	column     int
	prevColumn int
}

// New creates a scanner positioned at line 1
func New(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r), line: 1, column: 0}
}

func (s *Scanner) read() rune {
	ch, _, err := s.r.ReadRune()
	if err != nil {
		return eof
	}
	if ch == '\n' {
		s.line++
		s.prevColumn = s.column + 1
		s.column = 0
	} else {
		s.column++
	}
	return ch
}

func (s *Scanner) unread(ch rune) {
	if ch == eof {
		return
	}
	if ch == '\n' {
		s.column = s.prevColumn - 1
		s.line--
	} else {
		s.column--
	}
	_ = s.r.UnreadRune()
}

func (s *Scanner) peek() rune {
	ch := s.read()
	s.unread(ch)
	return ch
}

func (s *Scanner) startToken(tokenType TokenType) Token {
	return Token{Type: tokenType, Line: s.line, Column: s.column}
}

func (tok Token) finish(text string) Token {
	tok.Text = text
	return tok
}

func (tok Token) undefined(text string) Token {
	tok.Type = UNDEFINED
	return tok.finish(text)
}

// Scan returns the next token. Errors are UNDEFINED tokens whose text describes the problem.
func (s *Scanner) Scan() Token {
	for {
		ch := s.read()
		switch {
		case ch == eof:
			return Token{Type: EOF, Line: s.line, Column: s.column + 1}
		case isWhitespace(ch):
			continue
		case isLetter(ch):
			return s.scanSymbol(ch)
		case isDigit(ch):
			return s.scanNumber(ch)
		case ch == '"':
			return s.scanString()
		case ch == '/':
			next := s.peek()
			if next == '/' || next == '*' {
				if tok, ok := s.skipComment(); !ok {
					return tok
				}
				continue
			}
			return s.startToken(SLASH).finish("/")
		default:
			return s.scanPunct(ch)
		}
	}
}

// All scans until EOF, returning the first UNDEFINED token as an error token
func (s *Scanner) All() ([]Token, *Token) {
	var toks []Token
	for {
		tok := s.Scan()
		if tok.Type == UNDEFINED {
			return toks, &tok
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

func (s *Scanner) scanSymbol(firstChar rune) Token {
	var buf bytes.Buffer
	buf.WriteRune(firstChar)
	tok := s.startToken(SYMBOL)
	for {
		ch := s.read()
		if !isSymbolChar(ch) {
			s.unread(ch)
			break
		}
		buf.WriteRune(ch)
	}
	return tok.finish(buf.String())
}

// scanNumber accepts decimal integers, 0x hex integers and decimals with one point
func (s *Scanner) scanNumber(firstDigit rune) Token {
	var buf bytes.Buffer
	buf.WriteRune(firstDigit)
	tok := s.startToken(NUMBER)

	if firstDigit == '0' {
		if next := s.peek(); next == 'x' || next == 'X' {
			buf.WriteRune(s.read())
			digits := 0
			for {
				ch := s.read()
				if !isHexDigit(ch) {
					s.unread(ch)
					break
				}
				buf.WriteRune(ch)
				digits++
			}
			if digits == 0 {
				return tok.undefined("Hex literal needs at least one digit")
			}
			return tok.finish(buf.String())
		}
	}

	gotDecimal := false
	for {
		ch := s.read()
		if isDigit(ch) {
			buf.WriteRune(ch)
			continue
		}
		if ch == '.' {
			if gotDecimal {
				return tok.undefined("Malformed number: " + buf.String() + ".")
			}
			gotDecimal = true
			buf.WriteRune(ch)
			continue
		}
		if ch == 'f' && gotDecimal {
			// 1.5f is accepted and kept verbatim for float_32 initializers
			buf.WriteRune(ch)
			break
		}
		s.unread(ch)
		break
	}
	return tok.finish(buf.String())
}

func (s *Scanner) scanString() Token {
	var buf bytes.Buffer
	tok := s.startToken(STRING)
	escape := false
	for {
		ch := s.read()
		if ch == eof || ch == '\n' {
			return tok.undefined("Unterminated string")
		}
		if escape {
			switch ch {
			case '"', '\\':
				buf.WriteRune(ch)
			case 'n':
				buf.WriteRune('\n')
			case 't':
				buf.WriteRune('\t')
			default:
				return tok.undefined("Bad escape char in string: \\" + string(ch))
			}
			escape = false
			continue
		}
		switch ch {
		case '\\':
			escape = true
		case '"':
			return tok.finish(buf.String())
		default:
			buf.WriteRune(ch)
		}
	}
}

// skipComment consumes a // or /* */ comment; the leading slash is already read
func (s *Scanner) skipComment() (Token, bool) {
	tok := s.startToken(UNDEFINED)
	if s.read() == '/' {
		for {
			ch := s.read()
			if ch == eof || ch == '\n' {
				return tok, true
			}
		}
	}
	nextToLast := false
	for {
		ch := s.read()
		if ch == eof {
			return tok.undefined("Unterminated block comment"), false
		}
		if nextToLast && ch == '/' {
			return tok, true
		}
		nextToLast = ch == '*'
	}
}

func (s *Scanner) scanPunct(ch rune) Token {
	tok := s.startToken(UNDEFINED)
	tok.Text = string(ch)
	switch ch {
	case '#':
		tok.Type = HASH
	case ',':
		tok.Type = COMMA
	case ';':
		tok.Type = SEMICOLON
	case ':':
		if s.peek() == ':' {
			s.read()
			tok.Type = SCOPE
			tok.Text = "::"
		} else {
			tok.Type = COLON
		}
	case '=':
		tok.Type = EQUALS
	case '+':
		tok.Type = PLUS
	case '-':
		tok.Type = MINUS
	case '*':
		tok.Type = STAR
	case '{':
		tok.Type = OPEN_BRACE
	case '}':
		tok.Type = CLOSE_BRACE
	case '[':
		tok.Type = OPEN_BRACKET
	case ']':
		tok.Type = CLOSE_BRACKET
	case '(':
		tok.Type = OPEN_PAREN
	case ')':
		tok.Type = CLOSE_PAREN
	default:
		tok.Text = "Unexpected character '" + string(ch) + "'"
	}
	return tok
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isSymbolChar(ch rune) bool {
	return isLetter(ch) || isDigit(ch)
}
