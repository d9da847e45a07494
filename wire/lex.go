package wire

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type tokenType int

const (
	typeUnknown tokenType = iota
	typeInt
	typeWord
	typeComma
	typeEOF
)

const eof = -1

type token struct {
	typ  tokenType
	pos  int
	text string
}

// lex splits a protocol line into comma separated fields. A field made of
// an optional sign and digits is an int, anything else up to the next comma
// is a word.
func lex(input string) ([]token, error) {
	l := &lexer{input: input}
	return l.lex()
}

type lexer struct {
	input string

	width int
	start int
	pos   int

	tokens []token
	err    error
}

func (l *lexer) lex() ([]token, error) {
	for {
		switch r := l.next(); {
		case r == eof:
			l.yieldToken(typeEOF)
			return l.tokens, l.err
		case r == ',':
			l.yieldToken(typeComma)
		default:
			l.backup()
			l.lexField()
		}
		if l.err != nil {
			return l.tokens, l.err
		}
	}
}

func (l *lexer) next() rune {
	if len(l.input) == l.pos {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += l.width
	return r
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *lexer) backup() {
	l.pos -= l.width
}

func (l *lexer) yieldToken(t tokenType) {
	s := strings.TrimSpace(l.input[l.start:l.pos])
	l.tokens = append(l.tokens, token{t, l.start, s})
	l.start = l.pos
	l.width = 0
}

func (l *lexer) errorf(format string, args ...interface{}) {
	l.err = fmt.Errorf(format, args...)
}

func (l *lexer) take(set string) int {
	var n int
	for strings.IndexRune(set, l.next()) >= 0 {
		n++
	}
	l.backup()
	return n
}

func (l *lexer) accept(set string) bool {
	if strings.IndexRune(set, l.next()) >= 0 {
		return true
	}
	l.backup()
	return false
}

const digits = "0123456789"

func (l *lexer) lexField() {
	l.take(" ")
	l.accept("+-")
	n := l.take(digits)
	l.take(" ")
	if n > 0 {
		if r := l.peek(); r == ',' || r == eof {
			l.yieldToken(typeInt)
			return
		}
	}
	for r := l.peek(); r != ',' && r != eof; r = l.peek() {
		l.next()
		if r == utf8.RuneError && l.width == 1 {
			l.errorf("invalid utf-8 at position %d", l.pos-1)
			return
		}
	}
	l.yieldToken(typeWord)
}
