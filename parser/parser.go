/*
Package parser provides the reader for the language.

	term   := atom | number | string | "'" term | "~" term | "," term | "(" term* ")"
	number := [0-9]+
	atom   := any run not starting with '(', ')', quote, whitespace, or a
	          digit, continuing until a delimiter
*/
package parser

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aripiprazole/soft/lisp"
	"github.com/aripiprazole/soft/parser/lexer"
	"github.com/aripiprazole/soft/parser/token"
)

// ErrIncomplete is returned when the source ends in the middle of a form.
// Interactive drivers use it to read continuation lines.
var ErrIncomplete = errors.New("unexpected end of input")

// ParseError is a reader-level error carrying a source position.
type ParseError struct {
	Loc *token.Location
	Msg string
}

func (e *ParseError) Error() string {
	if e.Loc == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Loc, e.Msg)
}

// Reader implements lisp.Reader on the token/lexer pipeline.
type Reader struct{}

// NewReader returns a Reader for configuring a lisp environment.
func NewReader() *Reader {
	return &Reader{}
}

// Read implements lisp.Reader.
func (*Reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	return ParseLVal(name, r)
}

// ParseLVal parses the top-level forms in r.
func ParseLVal(name string, r io.Reader) ([]*lisp.LVal, error) {
	p := newParser(name, r)
	var forms []*lisp.LVal
	for {
		v, err := p.parseTerm()
		if err == io.EOF {
			return forms, nil
		}
		if err != nil {
			return nil, err
		}
		forms = append(forms, v)
	}
}

// ParseString parses source held in a string.
func ParseString(name, source string) ([]*lisp.LVal, error) {
	return ParseLVal(name, strings.NewReader(source))
}

type parser struct {
	lex  *lexer.Lexer
	peek *token.Token
}

func newParser(name string, r io.Reader) *parser {
	return &parser{
		lex: lexer.New(token.NewScanner(name, r)),
	}
}

func (p *parser) next() *token.Token {
	if p.peek != nil {
		tok := p.peek
		p.peek = nil
		return tok
	}
	for {
		tok := p.lex.NextToken()
		if tok.Type != token.COMMENT {
			return tok
		}
	}
}

// parseTerm parses one term.  io.EOF signals clean end of input; an EOF
// inside a form produces ErrIncomplete.
func (p *parser) parseTerm() (*lisp.LVal, error) {
	tok := p.next()
	switch tok.Type {
	case token.EOF:
		return nil, io.EOF
	case token.ERROR:
		return nil, &ParseError{Loc: tok.Source, Msg: tok.Text}
	case token.INT:
		x, err := strconv.ParseUint(tok.Text, 10, 64)
		if err != nil {
			return nil, &ParseError{Loc: tok.Source, Msg: fmt.Sprintf("invalid numeric literal %q", tok.Text)}
		}
		return lisp.Int(x), nil
	case token.STRING:
		s, err := unquoteString(tok.Text)
		if err != nil {
			return nil, &ParseError{Loc: tok.Source, Msg: err.Error()}
		}
		return lisp.String(s), nil
	case token.SYMBOL:
		return lisp.Symbol(tok.Text), nil
	case token.QUOTE:
		return p.parsePrefix(tok, func(v *lisp.LVal) *lisp.LVal {
			return lisp.Quote(v)
		})
	case token.QUASIQUOTE:
		return p.parsePrefix(tok, func(v *lisp.LVal) *lisp.LVal {
			return lisp.List(lisp.Symbol("quasi-quote"), v)
		})
	case token.UNQUOTE:
		return p.parsePrefix(tok, func(v *lisp.LVal) *lisp.LVal {
			return lisp.List(lisp.Symbol("unquote"), v)
		})
	case token.PAREN_L:
		return p.parseList(tok)
	case token.PAREN_R:
		return nil, &ParseError{Loc: tok.Source, Msg: "unmatched closing parenthesis"}
	default:
		return nil, &ParseError{Loc: tok.Source, Msg: fmt.Sprintf("unexpected token %q", tok.Text)}
	}
}

func (p *parser) parsePrefix(tok *token.Token, wrap func(*lisp.LVal) *lisp.LVal) (*lisp.LVal, error) {
	v, err := p.parseTerm()
	if err == io.EOF {
		return nil, ErrIncomplete
	}
	if err != nil {
		return nil, err
	}
	return wrap(v), nil
}

func (p *parser) parseList(open *token.Token) (*lisp.LVal, error) {
	var cells []*lisp.LVal
	for {
		tok := p.next()
		switch tok.Type {
		case token.PAREN_R:
			return lisp.List(cells...), nil
		case token.EOF:
			return nil, ErrIncomplete
		case token.ERROR:
			return nil, &ParseError{Loc: tok.Source, Msg: tok.Text}
		}
		p.peek = tok
		v, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		cells = append(cells, v)
	}
}

// unquoteString decodes the escape sequences in a string literal's text,
// which includes the surrounding double quotes.
func unquoteString(text string) (string, error) {
	body := text[1 : len(text)-1]
	buf := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			buf = append(buf, c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("invalid escape at end of string literal")
		}
		switch body[i] {
		case 'n':
			buf = append(buf, '\n')
		case 't':
			buf = append(buf, '\t')
		case '"':
			buf = append(buf, '"')
		case '\\':
			buf = append(buf, '\\')
		default:
			return "", fmt.Errorf("invalid escape sequence \\%c", body[i])
		}
	}
	return string(buf), nil
}
