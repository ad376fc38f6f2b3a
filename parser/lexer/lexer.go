// Package lexer produces tokens from a source stream.
package lexer

import (
	"fmt"
	"io"
	"unicode"

	"github.com/aripiprazole/soft/parser/token"
)

// Lexer scans a token stream from source text.
type Lexer struct {
	scanner *token.Scanner
	readErr error
}

// New returns a Lexer reading tokens from s.
func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// NextToken scans and returns the next token.  At the end of input
// NextToken returns EOF tokens forever.
func (lex *Lexer) NextToken() *token.Token {
	if lex.readErr != nil {
		return lex.emitError(lex.readErr)
	}
	if err := lex.skipWhitespace(); err != nil {
		return lex.emitError(err)
	}
	c, err := lex.scanner.ReadRune()
	if err != nil {
		return lex.emitError(err)
	}
	switch c {
	case '(':
		return lex.scanner.EmitToken(token.PAREN_L)
	case ')':
		return lex.scanner.EmitToken(token.PAREN_R)
	case '\'':
		return lex.scanner.EmitToken(token.QUOTE)
	case '`', '~':
		return lex.scanner.EmitToken(token.QUASIQUOTE)
	case ',':
		return lex.scanner.EmitToken(token.UNQUOTE)
	case ';':
		return lex.lexComment()
	case '"':
		return lex.lexString()
	default:
		if unicode.IsDigit(c) {
			return lex.lexInt()
		}
		return lex.lexSymbol()
	}
}

func (lex *Lexer) skipWhitespace() error {
	for isSpace(lex.scanner.Peek()) {
		_, err := lex.scanner.ReadRune()
		if err != nil {
			return err
		}
		lex.scanner.Ignore()
	}
	return nil
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// isDelimiter reports whether c terminates a symbol or number.
func isDelimiter(c rune) bool {
	return c == 0 || c == '(' || c == ')' || c == '\'' || c == '"' || isSpace(c)
}

func (lex *Lexer) lexComment() *token.Token {
	for {
		c := lex.scanner.Peek()
		if c == 0 || c == '\n' {
			return lex.scanner.EmitToken(token.COMMENT)
		}
		if _, err := lex.scanner.ReadRune(); err != nil {
			return lex.emitError(err)
		}
	}
}

func (lex *Lexer) lexInt() *token.Token {
	for !isDelimiter(lex.scanner.Peek()) {
		c, err := lex.scanner.ReadRune()
		if err != nil {
			return lex.emitError(err)
		}
		if !unicode.IsDigit(c) {
			return lex.errorf("unexpected rune %q in numeric literal", c)
		}
	}
	return lex.scanner.EmitToken(token.INT)
}

func (lex *Lexer) lexSymbol() *token.Token {
	for !isDelimiter(lex.scanner.Peek()) {
		if _, err := lex.scanner.ReadRune(); err != nil {
			return lex.emitError(err)
		}
	}
	return lex.scanner.EmitToken(token.SYMBOL)
}

// lexString scans a double-quoted string literal.  Escape sequences are
// validated during parsing; the lexer only tracks the closing quote.
func (lex *Lexer) lexString() *token.Token {
	for {
		c, err := lex.scanner.ReadRune()
		if err == io.EOF {
			return lex.errorf("unterminated string literal")
		}
		if err != nil {
			return lex.emitError(err)
		}
		switch c {
		case '"':
			return lex.scanner.EmitToken(token.STRING)
		case '\\':
			if _, err := lex.scanner.ReadRune(); err != nil {
				return lex.errorf("unterminated string literal")
			}
		}
	}
}

func (lex *Lexer) emitError(err error) *token.Token {
	if err == io.EOF {
		return lex.scanner.EmitText(token.EOF, "")
	}
	lex.readErr = err
	return lex.scanner.EmitText(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.scanner.EmitText(token.ERROR, fmt.Sprintf(format, v...))
}
