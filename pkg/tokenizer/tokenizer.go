// Package tokenizer turns source text into a flat stream of lexical tokens
// shared by the LOC, complexity, and clone analyzers.
//
// The lexer is language-aware only for comment syntax; keywords, literals,
// and operators follow one C-like rule set for every supported language.
package tokenizer

import (
	"errors"
	"strings"
	"unicode"
)

// ErrUnexpectedEOF is returned when the scanner reads past the end of input.
var ErrUnexpectedEOF = errors.New("tokenization error: unexpected end of input")

const operatorChars = "+-*/%=<>!&|^~"

// Scanner produces tokens one at a time from a source string.
type Scanner struct {
	src    []rune
	pos    int
	line   int
	column int
	lang   Language
}

// NewScanner creates a scanner positioned at line 1, column 1.
func NewScanner(source string, lang Language) *Scanner {
	return &Scanner{
		src:    []rune(source),
		line:   1,
		column: 1,
		lang:   lang,
	}
}

// Tokenize scans the whole source and returns its tokens in order.
func Tokenize(source string, lang Language) ([]Token, error) {
	s := NewScanner(source, lang)
	tokens := make([]Token, 0, len(source)/3+1)
	for {
		tok, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token. ok is false once the input is exhausted.
func (s *Scanner) Next() (tok Token, ok bool, err error) {
	if s.atEnd() {
		return Token{}, false, nil
	}

	start := s.pos
	tok.Line = s.line
	tok.Column = s.column

	ch, err := s.current()
	if err != nil {
		return Token{}, false, err
	}

	switch {
	case ch == '\n':
		s.advance()
		tok.Kind, tok.Text = Newline, "\n"
		return tok, true, nil

	case unicode.IsSpace(ch):
		for !s.atEnd() && unicode.IsSpace(s.src[s.pos]) && s.src[s.pos] != '\n' {
			s.advance()
		}
		tok.Kind, tok.Text = Whitespace, " "
		return tok, true, nil

	case s.hasPrefix(s.lang.LineComment()):
		for !s.atEnd() && s.src[s.pos] != '\n' {
			s.advance()
		}
		tok.Kind, tok.Text = Comment, "//"
		return tok, true, nil

	case s.hasPrefix(blockOpen(s.lang)):
		s.scanBlockComment()
		tok.Kind, tok.Text = Comment, "/**/"
		return tok, true, nil

	case ch == '"' || ch == '\'':
		s.scanQuoted(ch)
		tok.Kind, tok.Text = Literal, string(s.src[start:s.pos])
		return tok, true, nil

	case isASCIIDigit(ch):
		for !s.atEnd() && isNumberRune(s.src[s.pos]) {
			s.advance()
		}
		tok.Kind, tok.Text = Literal, string(s.src[start:s.pos])
		return tok, true, nil

	case unicode.IsLetter(ch) || ch == '_':
		for !s.atEnd() && isIdentRune(s.src[s.pos]) {
			s.advance()
		}
		tok.Text = string(s.src[start:s.pos])
		tok.Kind = LookupIdent(tok.Text)
		return tok, true, nil
	}

	tok.Kind = s.scanPunct(ch)
	tok.Text = string(s.src[start:s.pos])
	return tok, true, nil
}

func (s *Scanner) scanPunct(ch rune) Kind {
	if k, ok := punctuation[ch]; ok {
		s.advance()
		return k
	}
	if ch == '&' && s.peek() == '&' {
		s.advance()
		s.advance()
		return LogicalAnd
	}
	if ch == '|' && s.peek() == '|' {
		s.advance()
		s.advance()
		return LogicalOr
	}
	if strings.ContainsRune(operatorChars, ch) {
		for !s.atEnd() && strings.ContainsRune(operatorChars, s.src[s.pos]) {
			s.advance()
		}
		return Operator
	}
	s.advance()
	return Unknown
}

var punctuation = map[rune]Kind{
	'{': LeftBrace,
	'}': RightBrace,
	'(': LeftParen,
	')': RightParen,
	'[': LeftBracket,
	']': RightBracket,
	';': Semicolon,
	',': Comma,
	'?': Ternary,
}

// scanBlockComment consumes a block comment. An unterminated comment runs to end of input.
func (s *Scanner) scanBlockComment() {
	open, closing := s.lang.BlockComment()
	for range []rune(open) {
		s.advance()
	}
	for !s.atEnd() {
		if s.hasPrefix(closing) {
			for range []rune(closing) {
				s.advance()
			}
			return
		}
		s.advance()
	}
}

// scanQuoted consumes a string or char literal. A backslash escapes the
// following character unconditionally; an unterminated literal runs to end of input.
func (s *Scanner) scanQuoted(quote rune) {
	s.advance()
	for !s.atEnd() && s.src[s.pos] != quote {
		if s.src[s.pos] == '\\' {
			s.advance()
		}
		if !s.atEnd() {
			s.advance()
		}
	}
	if !s.atEnd() {
		s.advance()
	}
}

func (s *Scanner) current() (rune, error) {
	if s.pos >= len(s.src) {
		return 0, ErrUnexpectedEOF
	}
	return s.src[s.pos], nil
}

func (s *Scanner) peek() rune {
	if s.pos+1 >= len(s.src) {
		return 0
	}
	return s.src[s.pos+1]
}

func (s *Scanner) advance() {
	if s.pos >= len(s.src) {
		return
	}
	if s.src[s.pos] == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	s.pos++
}

func (s *Scanner) atEnd() bool {
	return s.pos >= len(s.src)
}

func (s *Scanner) hasPrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	i := s.pos
	for _, r := range prefix {
		if i >= len(s.src) || s.src[i] != r {
			return false
		}
		i++
	}
	return true
}

func blockOpen(lang Language) string {
	open, _ := lang.BlockComment()
	return open
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNumberRune(r rune) bool {
	return (r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) || r == '.' || r == '_'
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}
