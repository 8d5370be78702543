package aidl

import "fmt"

type lexer struct {
	data      []rune
	len       int
	pos       int
	startPos  int
	startLine int
	startCol  int

	line   int
	column int

	onError func(error)
	tokens  []token
}

func lexFile(filename string, data []byte, onError func(error)) ([]token, []error) {
	var errors []error
	runes := []rune(string(data))
	s := &lexer{
		data:   runes,
		len:    len(runes),
		line:   1,
		column: 1,
		onError: func(err error) {
			if filename != "" {
				err = fmt.Errorf("%s: %w", filename, err)
			}
			errors = append(errors, err)
			if onError != nil {
				onError(err)
			}
		},
	}

	s.scan()

	return s.tokens, errors
}

func (s *lexer) eof() bool {
	return s.pos >= s.len
}

func (s *lexer) peek() rune {
	if s.eof() {
		return 0
	}
	return s.data[s.pos]
}

func (s *lexer) peek1() rune {
	if s.pos+1 >= s.len {
		return 0
	}
	return s.data[s.pos+1]
}

func (s *lexer) mark() {
	s.startPos = s.pos
	s.startLine = s.line
	s.startCol = s.column
}

func (s *lexer) marked() string {
	return string(s.data[s.startPos:s.pos])
}

func (s *lexer) advance() rune {
	v := s.data[s.pos]
	s.pos++
	s.column++
	if v == '\n' {
		s.line++
		s.column = 1
	}
	return v
}

func (s *lexer) errorf(msg string, args ...interface{}) {
	s.onError(fmt.Errorf("%s at %d:%d", fmt.Sprintf(msg, args...), s.startLine, s.startCol))
}

func (s *lexer) pushToken(t tokenType) {
	s.tokens = append(s.tokens, token{
		Type:   t,
		Value:  s.marked(),
		Pos:    s.startPos,
		Line:   s.startLine,
		Column: s.startCol,
	})
}

func (s *lexer) pushSimple(t tokenType) {
	s.mark()
	s.advance()
	s.pushToken(t)
}

func isAscii(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return isAscii(r) || isDigit(r)
}

var simpleTokens = map[rune]tokenType{
	'=': tokenTypeEqual,
	';': tokenTypeSemi,
	'(': tokenTypeLeftParen,
	')': tokenTypeRightParen,
	'{': tokenTypeLeftCurly,
	'}': tokenTypeRightCurly,
	'<': tokenTypeLeftAngled,
	'>': tokenTypeRightAngled,
	'[': tokenTypeLeftBracket,
	']': tokenTypeRightBracket,
	',': tokenTypeComma,
	'.': tokenTypePeriod,
}

func (s *lexer) scan() {
	for !s.eof() {
		p := s.peek()
		switch {
		case p == ' ' || p == '\n' || p == '\t' || p == '\r':
			s.advance()
		case p == '/' && s.peek1() == '/':
			s.parseLineComment()
		case p == '/' && s.peek1() == '*':
			s.parseBlockComment()
		case p == '-' && isDigit(s.peek1()):
			s.parseNumber()
		default:
			if simple, ok := simpleTokens[p]; ok {
				s.pushSimple(simple)
			} else if isDigit(p) {
				s.parseNumber()
			} else if isAscii(p) {
				s.parseIdentifier()
			} else {
				s.mark()
				s.errorf("Unexpected '%c'", p)
				s.advance()
			}
		}
	}
	s.mark()
	s.tokens = append(s.tokens, token{Type: tokenTypeEOF, Pos: s.startPos, Line: s.line, Column: s.column})
}

func (s *lexer) parseLineComment() {
	s.advance() // consume /
	s.advance() // consume /
	s.mark()
	for !s.eof() && s.peek() != '\n' {
		s.advance()
	}
	s.pushToken(tokenTypeComment)
}

func (s *lexer) parseBlockComment() {
	s.mark()
	s.advance() // consume /
	s.advance() // consume *
	for !s.eof() {
		if s.peek() == '*' && s.peek1() == '/' {
			s.advance()
			s.advance()
			s.tokens = append(s.tokens, token{
				Type:   tokenTypeComment,
				Value:  string(s.data[s.startPos+2 : s.pos-2]),
				Pos:    s.startPos,
				Line:   s.startLine,
				Column: s.startCol,
			})
			return
		}
		s.advance()
	}
	s.errorf("Unterminated block comment")
}

func (s *lexer) parseNumber() {
	s.mark()
	if s.peek() == '-' {
		s.advance()
	}
	for isDigit(s.peek()) {
		s.advance()
	}
	s.pushToken(tokenTypeNumber)
}

func (s *lexer) parseIdentifier() {
	s.mark()
	for isAlpha(s.peek()) {
		s.advance()
	}
	s.pushToken(tokenTypeIdentifier)
}
