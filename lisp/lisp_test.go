package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListCells(t *testing.T) {
	cells, improper := ListCells(Nil())
	assert.Len(t, cells, 0)
	assert.Nil(t, improper)

	lis := List(Int(1), Int(2), Int(3))
	cells, improper = ListCells(lis)
	assert.Len(t, cells, 3)
	assert.Nil(t, improper)
	assert.Equal(t, uint64(2), cells[1].Int)

	dotted := Cons(Int(1), Int(2))
	cells, improper = ListCells(dotted)
	assert.Len(t, cells, 1)
	if assert.NotNil(t, improper) {
		assert.Equal(t, uint64(2), improper.Int)
	}

	_, lerr := GetList(dotted)
	if assert.NotNil(t, lerr) {
		assert.Equal(t, ErrType, lerr.Condition)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Nil(), Nil()))
	assert.True(t, Equal(Int(7), Int(7)))
	assert.False(t, Equal(Int(7), Int(8)))
	assert.True(t, Equal(Symbol("x"), Symbol("x")))
	assert.False(t, Equal(Symbol("x"), String("x")))
	assert.True(t, Equal(
		List(Int(1), List(Int(2)), Int(3)),
		List(Int(1), List(Int(2)), Int(3)),
	))
	assert.False(t, Equal(
		List(Int(1), Int(2)),
		List(Int(1), Int(3)),
	))
	assert.True(t, Equal(Quote(Symbol("x")), Quote(Symbol("x"))))

	// functions compare by identity
	f := Fun("f", Formals("x"), func(env *LEnv, args []*LVal) *LVal { return args[0] })
	g := Fun("f", Formals("x"), func(env *LEnv, args []*LVal) *LVal { return args[0] })
	assert.True(t, Equal(f, f))
	assert.False(t, Equal(f, g))
}

func TestPrinter(t *testing.T) {
	for _, tc := range []struct {
		v    *LVal
		want string
	}{
		{Nil(), "()"},
		{Int(42), "42"},
		{Symbol("foo"), "foo"},
		{Symbol(":kw"), ":kw"},
		{String("a\nb"), `"a\nb"`},
		{List(Int(1), Int(2)), "(1 2)"},
		{Cons(Int(1), Int(2)), "(1 . 2)"},
		{Quote(Symbol("x")), "'x"},
		{List(Symbol("quote"), Symbol("x")), "'x"},
		{Quote(List(Int(1), Int(2))), "'(1 2)"},
		{Vector(Int(1), Int(2)), "(vec 1 2)"},
		{List(Symbol("a"), Cons(Int(1), Int(2))), "(a (1 . 2))"},
	} {
		assert.Equal(t, tc.want, tc.v.String())
	}
}

func TestFormals(t *testing.T) {
	f := Formals("a", "b")
	assert.Equal(t, []string{"a", "b"}, f.Named)
	assert.Equal(t, "", f.Rest)

	f = Formals("a", VarArgSymbol, "rest")
	assert.Equal(t, []string{"a"}, f.Named)
	assert.Equal(t, "rest", f.Rest)
	assert.Equal(t, "(a &rest rest)", f.String())
}

func TestKeyword(t *testing.T) {
	assert.True(t, Symbol(":boom").IsKeyword())
	assert.False(t, Symbol("boom").IsKeyword())
	assert.False(t, String(":boom").IsKeyword())
}
