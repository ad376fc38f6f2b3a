package lisp

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// LType is the type of an LVal
type LType uint

// Possible LType values
const (
	LInvalid LType = iota
	LNil
	LInt
	LSymbol
	LString
	LCons
	LQuote
	LFun
	LVector
	LMap
	LForeign
	LError
)

var ltypeStrings = []string{
	LInvalid: "INVALID",
	LNil:     "nil",
	LInt:     "int",
	LSymbol:  "symbol",
	LString:  "string",
	LCons:    "cons",
	LQuote:   "quote",
	LFun:     "function",
	LVector:  "vector",
	LMap:     "map",
	LForeign: "foreign",
	LError:   "error",
}

func (t LType) String() string {
	if int(t) >= len(ltypeStrings) {
		return ltypeStrings[LInvalid]
	}
	return ltypeStrings[t]
}

// LFunType distinguishes how a function value participates in evaluation.
type LFunType uint

// Possible LFunType values
const (
	LFunNone LFunType = iota
	LFunMacro
)

// LBuiltin is a Go function that implements a lisp primitive.  Arguments
// arrive fully evaluated.
type LBuiltin func(env *LEnv, args []*LVal) *LVal

// LBuiltinDef is a named built-in function with declared formal arguments.
type LBuiltinDef interface {
	Name() string
	Formals() *LFormals
	Eval(env *LEnv, args []*LVal) *LVal
}

// LFormals describes the formal arguments of a function, a fixed list of
// names optionally followed by a variadic tail.
type LFormals struct {
	Named []string
	Rest  string
}

// Formals constructs an LFormals from names.  The VarArgSymbol marks the
// following name as the variadic tail.
func Formals(names ...string) *LFormals {
	f := &LFormals{}
	for i := 0; i < len(names); i++ {
		if names[i] == VarArgSymbol {
			if i != len(names)-2 {
				panic("misplaced variadic marker in formals")
			}
			f.Rest = names[i+1]
			return f
		}
		f.Named = append(f.Named, names[i])
	}
	return f
}

func (f *LFormals) String() string {
	var buf bytes.Buffer
	buf.WriteString("(")
	for i, name := range f.Named {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(name)
	}
	if f.Rest != "" {
		if len(f.Named) > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(VarArgSymbol)
		buf.WriteString(" ")
		buf.WriteString(f.Rest)
	}
	buf.WriteString(")")
	return buf.String()
}

// LVal is a lisp value.  The Type tag determines which fields are
// meaningful.  Values are freely aliased and, with the exception of vectors,
// maps, and environment scopes, never mutated after construction.
type LVal struct {
	Type LType
	Int  uint64
	Str  string

	// Cons cells and quote payloads.  A quote stores its term in Head.
	Head *LVal
	Tail *LVal

	// Mutable aggregates.
	Cells []*LVal
	Map   map[string]*LVal

	// Function values.  Builtin is set for primitives; Formals, Body and
	// Env for closures.  FID identifies the function for the call stack.
	FunType LFunType
	Builtin LBuiltin
	FID     string
	Formals *LFormals
	Body    *LVal
	Env     *LEnv

	// Foreign handles.
	Foreign *Foreign

	// Error transport.
	Condition string
	Stack     *CallStack
}

// Nil returns an LVal representing nil, the empty list, and logical false.
func Nil() *LVal {
	return &LVal{Type: LNil}
}

// Int returns an LVal representing the non-negative integer x.
func Int(x uint64) *LVal {
	return &LVal{Type: LInt, Int: x}
}

// Symbol returns an LVal representing the symbol s.
func Symbol(s string) *LVal {
	return &LVal{Type: LSymbol, Str: s}
}

// String returns an LVal representing the string s.
func String(s string) *LVal {
	return &LVal{Type: LString, Str: s}
}

// Cons returns the pair (h . t).
func Cons(h, t *LVal) *LVal {
	return &LVal{Type: LCons, Head: h, Tail: t}
}

// Quote returns the surface form 'v produced by the reader.
func Quote(v *LVal) *LVal {
	return &LVal{Type: LQuote, Head: v}
}

// List returns the right-nested cons chain holding vs, terminated by nil.
func List(vs ...*LVal) *LVal {
	lis := Nil()
	for i := len(vs) - 1; i >= 0; i-- {
		lis = Cons(vs[i], lis)
	}
	return lis
}

// Vector returns a mutable vector holding vs.
func Vector(vs ...*LVal) *LVal {
	return &LVal{Type: LVector, Cells: vs}
}

// SortedMap returns an empty mutable map.
func SortedMap() *LVal {
	return &LVal{Type: LMap, Map: make(map[string]*LVal)}
}

// Fun returns an LVal representing the primitive fn.
func Fun(fid string, formals *LFormals, fn LBuiltin) *LVal {
	return &LVal{Type: LFun, FID: fid, Formals: formals, Builtin: fn}
}

// Lambda returns a closure with the given formals and body capturing env.
// The name is used for self-reference and stack traces only.
func Lambda(name string, formals *LFormals, body *LVal, env *LEnv) *LVal {
	fid := name
	if fid == "" {
		fid = env.getFID()
	}
	return &LVal{
		Type:    LFun,
		FID:     fid,
		Str:     name,
		Formals: formals,
		Body:    body,
		Env:     env,
	}
}

// IsNil returns true if v is the nil value.
func (v *LVal) IsNil() bool {
	return v.Type == LNil
}

// IsCons returns true if v is a cons pair.
func (v *LVal) IsCons() bool {
	return v.Type == LCons
}

// IsKeyword returns true if v is a self-evaluating keyword symbol.
func (v *LVal) IsKeyword() bool {
	return v.Type == LSymbol && strings.HasPrefix(v.Str, KeywordPrefix)
}

// IsMacro returns true if v is a function flagged as a macro.
func (v *LVal) IsMacro() bool {
	return v.Type == LFun && v.FunType == LFunMacro
}

// ListCells flattens the list v into a slice.  The second return holds the
// tail of an improper list and is nil for a proper list.  ListCells returns
// (nil, nil) for the empty list and a nil slice with v itself when v is not
// a list at all.
func ListCells(v *LVal) ([]*LVal, *LVal) {
	if v.IsNil() {
		return nil, nil
	}
	if !v.IsCons() {
		return nil, v
	}
	var cells []*LVal
	for v.IsCons() {
		cells = append(cells, v.Head)
		v = v.Tail
	}
	if v.IsNil() {
		return cells, nil
	}
	return cells, v
}

// GetList returns the elements of the proper list v or a type error.
func GetList(v *LVal) ([]*LVal, *LVal) {
	cells, improper := ListCells(v)
	if improper != nil {
		return nil, Errorf(ErrType, "not a proper list: %s", v)
	}
	return cells, nil
}

// Equal computes deep structural equality.  Functions and foreign handles
// compare by identity.
func Equal(a, b *LVal) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case LNil:
		return true
	case LInt:
		return a.Int == b.Int
	case LSymbol, LString:
		return a.Str == b.Str
	case LCons:
		return Equal(a.Head, b.Head) && Equal(a.Tail, b.Tail)
	case LQuote:
		return Equal(a.Head, b.Head)
	case LVector:
		if len(a.Cells) != len(b.Cells) {
			return false
		}
		for i := range a.Cells {
			if !Equal(a.Cells[i], b.Cells[i]) {
				return false
			}
		}
		return true
	case LMap:
		if len(a.Map) != len(b.Map) {
			return false
		}
		for k, av := range a.Map {
			bv, ok := b.Map[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func (v *LVal) String() string {
	switch v.Type {
	case LNil:
		return "()"
	case LInt:
		return strconv.FormatUint(v.Int, 10)
	case LSymbol:
		return v.Str
	case LString:
		return strconv.Quote(v.Str)
	case LQuote:
		return "'" + v.Head.String()
	case LCons:
		return consString(v)
	case LFun:
		if v.Builtin != nil {
			return fmt.Sprintf("#<builtin %s>", v.FID)
		}
		if v.FunType == LFunMacro {
			return fmt.Sprintf("#<macro %s>", v.FID)
		}
		return fmt.Sprintf("#<function %s>", v.FID)
	case LVector:
		return vectorString(v)
	case LMap:
		return sortedMapString(v)
	case LForeign:
		return v.Foreign.String()
	case LError:
		return (*ErrorVal)(v).Error()
	default:
		return fmt.Sprintf("%#v", v)
	}
}

func consString(v *LVal) string {
	var buf bytes.Buffer
	cells, improper := ListCells(v)
	// The reader shorthand is also the printer shorthand.
	if improper == nil && len(cells) == 2 && cells[0].Type == LSymbol && cells[0].Str == symQuote {
		return "'" + cells[1].String()
	}
	buf.WriteString("(")
	for i, c := range cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(c.String())
	}
	if improper != nil {
		buf.WriteString(" . ")
		buf.WriteString(improper.String())
	}
	buf.WriteString(")")
	return buf.String()
}

func vectorString(v *LVal) string {
	var buf bytes.Buffer
	buf.WriteString("(vec")
	for _, c := range v.Cells {
		buf.WriteString(" ")
		buf.WriteString(c.String())
	}
	buf.WriteString(")")
	return buf.String()
}

func sortedMapString(v *LVal) string {
	keys := make([]string, 0, len(v.Map))
	for k := range v.Map {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf bytes.Buffer
	buf.WriteString("(hash-map")
	for _, k := range keys {
		buf.WriteString(" ")
		buf.WriteString(k)
		buf.WriteString(" ")
		buf.WriteString(v.Map[k].String())
	}
	buf.WriteString(")")
	return buf.String()
}

// mapKey serializes a value used as a hash-map key.  Symbols, strings, and
// ints are hashable.
func mapKey(v *LVal) (string, bool) {
	switch v.Type {
	case LSymbol, LInt:
		return v.String(), true
	case LString:
		// Quoted so that the string "1" and the int 1 do not collide.
		return v.String(), true
	}
	return "", false
}
