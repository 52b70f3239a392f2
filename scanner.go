// scanner.go — hand-written scanner producing the token stream for parser.go.
//
// The scanner is a single forward pass over the source bytes. It tracks the
// 1-based line/column of the current token start so every token (and every
// diagnostic downstream) can point back into the source. Comments run from
// "//" to end of line. String literals are double-quoted, may span lines, and
// have no escape sequences. Numbers are decimal with an optional fractional
// part; a trailing '.' is not consumed ("1." scans as NUMBER DOT).
//
// Errors are *LexError values carrying the offending position; scanning stops
// at the first one.
package mica

import "strconv"

// Scanner scans a mica source string into tokens.
type Scanner struct {
	src    string
	start  int // start index of current lexeme
	cur    int // current index
	line   int // 1-based
	col    int // 1-based column of s.cur within line
	tokens []Token

	// position of the current token start
	tokLine int
	tokCol  int
}

// NewScanner creates a scanner for the given source.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src, line: 1, col: 1}
}

// Scan tokenizes the whole source. The returned slice always ends in an EOF
// sentinel token, even for empty input.
func (s *Scanner) Scan() ([]Token, error) {
	for !s.atEnd() {
		s.skipBlanks()
		if s.atEnd() {
			break
		}
		s.start = s.cur
		s.tokLine, s.tokCol = s.line, s.col
		if err := s.scanToken(); err != nil {
			return nil, err
		}
	}
	s.tokens = append(s.tokens, Token{Type: EOF, Line: s.line, Col: s.col})
	return s.tokens, nil
}

func (s *Scanner) atEnd() bool { return s.cur >= len(s.src) }

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.cur]
}

func (s *Scanner) peekNext() byte {
	if s.cur+1 >= len(s.src) {
		return 0
	}
	return s.src[s.cur+1]
}

func (s *Scanner) advance() byte {
	ch := s.src[s.cur]
	s.cur++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.src[s.cur] != expected {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) add(tt TokenType, lit interface{}) {
	s.tokens = append(s.tokens, Token{
		Type:    tt,
		Lexeme:  s.src[s.start:s.cur],
		Literal: lit,
		Line:    s.tokLine,
		Col:     s.tokCol,
	})
}

func (s *Scanner) skipBlanks() {
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()
		case '/':
			if s.peekNext() != '/' {
				return
			}
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *Scanner) scanToken() error {
	ch := s.advance()
	switch ch {
	case '(':
		s.add(LEFT_PAREN, nil)
	case ')':
		s.add(RIGHT_PAREN, nil)
	case '{':
		s.add(LEFT_BRACE, nil)
	case '}':
		s.add(RIGHT_BRACE, nil)
	case ',':
		s.add(COMMA, nil)
	case '.':
		s.add(DOT, nil)
	case '-':
		s.add(MINUS, nil)
	case '+':
		s.add(PLUS, nil)
	case ';':
		s.add(SEMICOLON, nil)
	case '*':
		s.add(STAR, nil)
	case '/':
		s.add(SLASH, nil)
	case '!':
		if s.match('=') {
			s.add(BANG_EQUAL, nil)
		} else {
			s.add(BANG, nil)
		}
	case '=':
		if s.match('=') {
			s.add(EQUAL_EQUAL, nil)
		} else {
			s.add(EQUAL, nil)
		}
	case '<':
		if s.match('=') {
			s.add(LESS_EQUAL, nil)
		} else {
			s.add(LESS, nil)
		}
	case '>':
		if s.match('=') {
			s.add(GREATER_EQUAL, nil)
		} else {
			s.add(GREATER, nil)
		}
	case '"':
		return s.scanString()
	default:
		switch {
		case isDigit(ch):
			s.scanNumber()
		case isAlpha(ch):
			s.scanIdentifier()
		default:
			return &LexError{Line: s.tokLine, Col: s.tokCol, Msg: "unexpected character " + strconv.QuoteRune(rune(ch))}
		}
	}
	return nil
}

func (s *Scanner) scanString() error {
	for !s.atEnd() && s.peek() != '"' {
		s.advance()
	}
	if s.atEnd() {
		return &LexError{Line: s.tokLine, Col: s.tokCol, Msg: "unterminated string"}
	}
	s.advance() // closing quote
	s.add(STRING, s.src[s.start+1:s.cur-1])
	return nil
}

func (s *Scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	// The lexeme is digits with at most one interior dot; ParseFloat cannot fail.
	n, _ := strconv.ParseFloat(s.src[s.start:s.cur], 64)
	s.add(NUMBER, n)
}

func (s *Scanner) scanIdentifier() {
	for isAlphaNum(s.peek()) {
		s.advance()
	}
	word := s.src[s.start:s.cur]
	if kw, ok := keywords[word]; ok {
		s.add(kw, nil)
		return
	}
	s.add(IDENTIFIER, nil)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}
