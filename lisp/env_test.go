package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLookup(t *testing.T) {
	root := NewEnv(nil)
	root.Put(Symbol("x"), Int(1))

	v := root.Get(Symbol("x"))
	assert.Equal(t, uint64(1), v.Int)

	v = root.Get(Symbol("missing"))
	require.Equal(t, LError, v.Type)
	assert.Equal(t, ErrUnbound, v.Condition)

	child := NewEnv(root)
	v = child.Get(Symbol("x"))
	assert.Equal(t, uint64(1), v.Int)

	// a child definition shadows without touching the parent
	child.Put(Symbol("x"), Int(2))
	assert.Equal(t, uint64(2), child.Get(Symbol("x")).Int)
	assert.Equal(t, uint64(1), root.Get(Symbol("x")).Int)
}

func TestEnvUpdate(t *testing.T) {
	root := NewEnv(nil)
	child := NewEnv(root)
	root.Put(Symbol("x"), Int(1))

	lerr := child.Update(Symbol("x"), Int(5))
	require.NotEqual(t, LError, lerr.Type)
	assert.Equal(t, uint64(5), root.Get(Symbol("x")).Int)

	lerr = child.Update(Symbol("missing"), Int(5))
	require.Equal(t, LError, lerr.Type)
	assert.Equal(t, ErrUnbound, lerr.Condition)
}

func TestEnvGlobal(t *testing.T) {
	root := NewEnv(nil)
	mid := NewEnv(root)
	leaf := NewEnv(mid)

	leaf.PutGlobal(Symbol("g"), Int(9))
	assert.Equal(t, uint64(9), root.Get(Symbol("g")).Int)
	assert.Equal(t, uint64(9), leaf.Get(Symbol("g")).Int)
}

// The value and macro namespaces are disjoint; one name can inhabit both.
func TestEnvNamespaces(t *testing.T) {
	root := NewEnv(nil)
	fn := Lambda("m", Formals("x"), Symbol("x"), root)

	root.Put(Symbol("m"), Int(7))
	root.PutMacro(Symbol("m"), fn)

	v := root.Get(Symbol("m"))
	assert.Equal(t, LInt, v.Type)

	m := root.GetMacro("m")
	require.NotNil(t, m)
	assert.Equal(t, LFun, m.Type)

	assert.Nil(t, root.GetMacro("other"))
}

func TestRuntimeIsolation(t *testing.T) {
	a := NewEnv(nil)
	b := NewEnv(nil)
	a.Put(Symbol("x"), Int(1))

	v := b.Get(Symbol("x"))
	assert.Equal(t, LError, v.Type)
	assert.NotSame(t, a.Runtime, b.Runtime)
}

func TestGenSym(t *testing.T) {
	rt := StandardRuntime()
	assert.NotEqual(t, rt.GenSym(), rt.GenSym())
}
