package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandQuote(t *testing.T) {
	env := NewEnv(nil)

	// 'x is rewritten to (quote x)
	got := env.Expand(Quote(Symbol("x")))
	assert.True(t, Equal(List(Symbol("quote"), Symbol("x")), got))

	// (quote ...) is returned verbatim, with no recursion into the term
	form := List(Symbol("quote"), List(Symbol("unexpanded"), Quote(Symbol("y"))))
	got = env.Expand(form)
	assert.True(t, Equal(form, got))
}

func TestExpandSelf(t *testing.T) {
	env := NewEnv(nil)
	for _, v := range []*LVal{Nil(), Int(3), String("s"), Symbol("x"), Symbol(":kw")} {
		assert.True(t, Equal(v, env.Expand(v)))
	}
}

func TestQuasiquote(t *testing.T) {
	env := NewEnv(nil)

	// ~x with no unquote is (quote x)
	got := env.Expand(List(Symbol("quasi-quote"), Symbol("x")))
	assert.True(t, Equal(List(Symbol("quote"), Symbol("x")), got))

	// ~(a ,b) constructs (cons 'a (cons b '()))
	got = env.Expand(List(Symbol("quasi-quote"),
		List(Symbol("a"), List(Symbol("unquote"), Symbol("b")))))
	want := List(Symbol("cons"),
		List(Symbol("quote"), Symbol("a")),
		List(Symbol("cons"),
			Symbol("b"),
			List(Symbol("quote"), Nil())))
	assert.True(t, Equal(want, got), "got %s", got)

	// the unquoted expression is inserted verbatim
	got = env.Expand(List(Symbol("quasi-quote"),
		List(Symbol("unquote"), List(Symbol("+"), Int(1), Int(2)))))
	assert.True(t, Equal(List(Symbol("+"), Int(1), Int(2)), got))
}

func TestExpandMacro(t *testing.T) {
	env := NewEnv(nil)
	env.AddBuiltins()

	// (m x) => (+ x x), going through the macro namespace
	body := List(Symbol("cons"), List(Symbol("quote"), Symbol("+")),
		List(Symbol("cons"), Symbol("x"),
			List(Symbol("cons"), Symbol("x"), List(Symbol("quote"), Nil()))))
	mac := Lambda("m", Formals("x"), body, env)
	mac.FunType = LFunMacro
	env.PutMacro(Symbol("m"), mac)

	got := env.Expand(List(Symbol("m"), Symbol("y")))
	require.NotEqual(t, LError, got.Type, "expand error: %s", got)
	assert.True(t, Equal(List(Symbol("+"), Symbol("y"), Symbol("y")), got), "got %s", got)

	// idempotent once the head is no longer a macro
	again := env.Expand(got)
	assert.True(t, Equal(got, again))
}

func TestExpandSpecialShapes(t *testing.T) {
	env := NewEnv(nil)

	// fn* leaves its name and formals alone
	form := List(Symbol("fn*"), Symbol("f"), List(Symbol("x")), Quote(Symbol("x")))
	got := env.Expand(form)
	want := List(Symbol("fn*"), Symbol("f"), List(Symbol("x")),
		List(Symbol("quote"), Symbol("x")))
	assert.True(t, Equal(want, got), "got %s", got)

	// let leaves its binding name alone
	form = List(Symbol("let"), Symbol("x"), Quote(Symbol("y")))
	got = env.Expand(form)
	want = List(Symbol("let"), Symbol("x"), List(Symbol("quote"), Symbol("y")))
	assert.True(t, Equal(want, got), "got %s", got)
}
