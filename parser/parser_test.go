package parser

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aripiprazole/soft/lisp"
)

func parseOne(t *testing.T, src string) *lisp.LVal {
	t.Helper()
	vs, err := ParseString("test", src)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	return vs[0]
}

func TestParseAtoms(t *testing.T) {
	v := parseOne(t, "42")
	assert.Equal(t, lisp.LInt, v.Type)
	assert.Equal(t, uint64(42), v.Int)

	v = parseOne(t, "foo")
	assert.Equal(t, lisp.LSymbol, v.Type)
	assert.Equal(t, "foo", v.Str)

	v = parseOne(t, ":kw")
	assert.Equal(t, lisp.LSymbol, v.Type)
	assert.True(t, v.IsKeyword())

	v = parseOne(t, "+")
	assert.Equal(t, lisp.LSymbol, v.Type)

	v = parseOne(t, "list/map")
	assert.Equal(t, "list/map", v.Str)

	v = parseOne(t, `"a\nb\t\"c\"\\"`)
	assert.Equal(t, lisp.LString, v.Type)
	assert.Equal(t, "a\nb\t\"c\"\\", v.Str)
}

func TestParseLists(t *testing.T) {
	v := parseOne(t, "()")
	assert.True(t, v.IsNil())

	v = parseOne(t, "(1 2 3)")
	cells, improper := lisp.ListCells(v)
	assert.Nil(t, improper)
	require.Len(t, cells, 3)
	assert.Equal(t, uint64(1), cells[0].Int)

	v = parseOne(t, "(a (b (c)) d)")
	cells, _ = lisp.ListCells(v)
	require.Len(t, cells, 3)
	assert.Equal(t, lisp.LCons, cells[1].Type)
}

func TestParsePrefixes(t *testing.T) {
	v := parseOne(t, "'x")
	require.Equal(t, lisp.LQuote, v.Type)
	assert.Equal(t, "x", v.Head.Str)

	v = parseOne(t, "~(a ,b)")
	cells, _ := lisp.ListCells(v)
	require.Len(t, cells, 2)
	assert.Equal(t, "quasi-quote", cells[0].Str)
	inner, _ := lisp.ListCells(cells[1])
	require.Len(t, inner, 2)
	unq, _ := lisp.ListCells(inner[1])
	require.Len(t, unq, 2)
	assert.Equal(t, "unquote", unq[0].Str)
	assert.Equal(t, "b", unq[1].Str)

	// backtick is the alternate quasiquote spelling
	v = parseOne(t, "`x")
	cells, _ = lisp.ListCells(v)
	require.Len(t, cells, 2)
	assert.Equal(t, "quasi-quote", cells[0].Str)
}

func TestParseComments(t *testing.T) {
	vs, err := ParseString("test", "; a comment\n42 ; trailing\n")
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, uint64(42), vs[0].Int)
}

func TestParseMultiple(t *testing.T) {
	vs, err := ParseString("test", "1 2 (3 4)")
	require.NoError(t, err)
	assert.Len(t, vs, 3)
}

func TestParseErrors(t *testing.T) {
	_, err := ParseString("test", "(1 2")
	assert.ErrorIs(t, err, ErrIncomplete)

	_, err = ParseString("test", "'")
	assert.ErrorIs(t, err, ErrIncomplete)

	_, err = ParseString("test", ")")
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 1, perr.Loc.Line)

	_, err = ParseString("test", `"unterminated`)
	require.Error(t, err)

	_, err = ParseString("test", "12ab")
	require.Error(t, err)
}

func TestParseLocations(t *testing.T) {
	_, err := ParseString("file.soft", "(ok)\n   )")
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "file.soft", perr.Loc.File)
	assert.Equal(t, 2, perr.Loc.Line)
	assert.Equal(t, 4, perr.Loc.Col)
}

// Printing any reader-produced value and re-parsing it yields a
// structurally equal value.
func TestPrintParseRoundTrip(t *testing.T) {
	for _, src := range []string{
		"42",
		"foo",
		":kw",
		`"a\nb"`,
		"()",
		"(1 2 3)",
		"'x",
		"''x",
		"'(1 (2 3) ())",
		"(a (b (c (d))) e)",
	} {
		v := parseOne(t, src)
		again := parseOne(t, v.String())
		assert.True(t, lisp.Equal(v, again), "round trip of %s changed: %s", src, again)
	}
}

// randomTree generates a bounded well-formed value in the reader's range.
func randomTree(rng *rand.Rand, depth int) *lisp.LVal {
	symbols := []string{"foo", "bar", "x", "y", ":kw", "list/map", "+", "-"}
	if depth <= 0 || rng.Intn(4) == 0 {
		switch rng.Intn(3) {
		case 0:
			return lisp.Int(uint64(rng.Intn(1000)))
		case 1:
			return lisp.Symbol(symbols[rng.Intn(len(symbols))])
		default:
			return lisp.String(fmt.Sprintf("s%d\n\"q\"", rng.Intn(100)))
		}
	}
	if rng.Intn(5) == 0 {
		return lisp.Quote(randomTree(rng, depth-1))
	}
	n := rng.Intn(4)
	cells := make([]*lisp.LVal, n)
	for i := range cells {
		cells[i] = randomTree(rng, depth-1)
	}
	return lisp.List(cells...)
}

func TestPrintParseRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		v := randomTree(rng, 4)
		src := v.String()
		vs, err := ParseString("random", src)
		require.NoError(t, err, "parse of printed form %q", src)
		require.Len(t, vs, 1, "printed form %q", src)
		assert.True(t, lisp.Equal(v, vs[0]), "round trip of %q changed", src)
	}
}

func TestReaderInterface(t *testing.T) {
	var r lisp.Reader = NewReader()
	vs, err := r.Read("test", strings.NewReader("(+ 1 2)"))
	require.NoError(t, err)
	require.Len(t, vs, 1)
}
