package lisp

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

var envCount uint64

func getEnvID() uint {
	return uint(atomic.AddUint64(&envCount, 1))
}

// Runtime holds state shared by every environment frame in one interpreter
// instance.  Multiple runtimes may coexist without sharing state.
type Runtime struct {
	Stack    *CallStack
	Reader   Reader
	Stderr   io.Writer
	Stdout   io.Writer
	Imported map[string]bool
	Gensym   uint64
}

// StandardRuntime returns a Runtime with default configuration.  The Reader
// must be assigned before source text can be loaded.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stack:    &CallStack{MaxHeight: DefaultMaxStackHeight},
		Stderr:   os.Stderr,
		Stdout:   os.Stdout,
		Imported: make(map[string]bool),
	}
}

// GenSym returns a symbol name of the form gensym$N that differs from every
// name this runtime generated before.  The reader also accepts such names.
func (rt *Runtime) GenSym() string {
	rt.Gensym++
	return fmt.Sprintf("gensym$%d", rt.Gensym)
}

// LEnv is a lexical environment frame.  A frame holds two disjoint
// namespaces, value bindings and macro bindings, and chains to a parent for
// lookup fallback.  The root frame holds all primitives and global
// definitions.
type LEnv struct {
	ID      uint
	Scope   map[string]*LVal
	Macros  map[string]*LVal
	Parent  *LEnv
	Runtime *Runtime
}

// NewEnv initializes and returns a new LEnv.  The returned environment
// shares the parent's runtime, or receives a StandardRuntime when parent is
// nil.
func NewEnv(parent *LEnv) *LEnv {
	var rt *Runtime
	if parent != nil {
		rt = parent.Runtime
	} else {
		rt = StandardRuntime()
	}
	return &LEnv{
		ID:      getEnvID(),
		Scope:   make(map[string]*LVal),
		Macros:  make(map[string]*LVal),
		Parent:  parent,
		Runtime: rt,
	}
}

func (env *LEnv) getFID() string {
	return fmt.Sprintf("anon%d", env.ID)
}

func (env *LEnv) root() *LEnv {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// Get resolves the symbol k through the value namespace, walking parent
// frames.  Unbound symbols produce an unbound-symbol error.
func (env *LEnv) Get(k *LVal) *LVal {
	if k.Type != LSymbol {
		return Errorf(ErrType, "not a symbol: %s", k.Type)
	}
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[k.Str]; ok {
			return v
		}
	}
	return Errorf(ErrUnbound, "unbound symbol: %v", k)
}

// GetMacro resolves the symbol name through the macro namespace.  It returns
// nil when no macro is bound, unlike Get the absence of a macro binding is
// not an error.
func (env *LEnv) GetMacro(name string) *LVal {
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Macros[name]; ok {
			return v
		}
	}
	return nil
}

// Put binds k to v in the value namespace of the current frame, shadowing
// any outer binding.
func (env *LEnv) Put(k, v *LVal) *LVal {
	if k.Type != LSymbol {
		return Errorf(ErrType, "not a symbol: %s", k.Type)
	}
	if v == nil {
		panic("nil value")
	}
	env.Scope[k.Str] = v
	return Nil()
}

// PutMacro binds k to the macro m in the current frame's macro namespace.
func (env *LEnv) PutMacro(k, m *LVal) *LVal {
	if k.Type != LSymbol {
		return Errorf(ErrType, "not a symbol: %s", k.Type)
	}
	env.Macros[k.Str] = m
	return Nil()
}

// PutGlobal binds k in the root frame's value namespace.
func (env *LEnv) PutGlobal(k, v *LVal) *LVal {
	return env.root().Put(k, v)
}

// PutGlobalMacro binds k in the root frame's macro namespace.
func (env *LEnv) PutGlobalMacro(k, m *LVal) *LVal {
	return env.root().PutMacro(k, m)
}

// Update locates the nearest existing binding of k and replaces its value.
// It fails with an unbound-symbol error when no binding exists.
func (env *LEnv) Update(k, v *LVal) *LVal {
	if k.Type != LSymbol {
		return Errorf(ErrType, "not a symbol: %s", k.Type)
	}
	for e := env; e != nil; e = e.Parent {
		if _, ok := e.Scope[k.Str]; ok {
			e.Scope[k.Str] = v
			return Nil()
		}
	}
	return Errorf(ErrUnbound, "unbound symbol: %v", k)
}

// AddBuiltins binds the given funs in env.  When called with no arguments
// AddBuiltins adds the DefaultBuiltins.
func (env *LEnv) AddBuiltins(funs ...LBuiltinDef) {
	if len(funs) == 0 {
		funs = DefaultBuiltins()
	}
	for _, f := range funs {
		k := Symbol(f.Name())
		if _, ok := env.Scope[k.Str]; ok {
			panic("symbol already defined: " + f.Name())
		}
		env.Put(k, Fun(f.Name(), f.Formals(), f.Eval))
	}
}

// InitializeUserEnv seeds env with the primitives and applies the given
// configuration.  The environment must be a root frame.
func InitializeUserEnv(env *LEnv, config ...Config) *LVal {
	if env.Parent != nil {
		return Errorf(ErrType, "cannot initialize non-root environment")
	}
	env.AddBuiltins()
	for _, fn := range config {
		lerr := fn(env)
		if lerr.Type == LError {
			return lerr
		}
	}
	return Nil()
}

// Load reads top-level forms from r using the environment's Reader and
// evaluates them in order in env.  The result is the value of the
// last form, or the first error encountered.
func (env *LEnv) Load(name string, r io.Reader) *LVal {
	if env.Runtime.Reader == nil {
		return Errorf(ErrParse, "no reader configured to load %q", name)
	}
	forms, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return Errorf(ErrParse, "%s", err)
	}
	ret := Nil()
	for _, form := range forms {
		ret = env.Eval(form)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

// LoadString evaluates the source text like Load.
func (env *LEnv) LoadString(name, source string) *LVal {
	return env.Load(name, newStringReader(source))
}

// LoadFile reads and evaluates the file at path.
func (env *LEnv) LoadFile(path string) *LVal {
	f, err := os.Open(path)
	if err != nil {
		return Errorf(ErrUser, "%s", err)
	}
	defer f.Close()
	return env.Load(path, f)
}
