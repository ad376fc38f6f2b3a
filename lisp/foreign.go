package lisp

import (
	"bytes"
	"fmt"
)

// ForeignKind discriminates foreign handle values.
type ForeignKind uint

// Possible ForeignKind values
const (
	ForeignLibrary ForeignKind = iota
	ForeignFunction
)

// FType is an element type in a foreign function signature.
type FType uint

// Supported foreign element types.  FNil is only meaningful as a return
// type.
const (
	FInt FType = iota
	FString
	FNil
)

func (t FType) String() string {
	switch t {
	case FInt:
		return "int"
	case FString:
		return "string"
	case FNil:
		return "nil"
	}
	return "INVALID"
}

// Foreign is an opaque handle wrapping a native library or function
// pointer.  The Types signature of a function handle lists the argument
// types followed by the return type.
type Foreign struct {
	Kind   ForeignKind
	Path   string
	Name   string
	Types  []FType
	lib    uintptr
	fn     uintptr
	closed bool
}

func (f *Foreign) String() string {
	if f.Kind == ForeignLibrary {
		return fmt.Sprintf("#<foreign:library %q>", f.Path)
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "#<foreign:function %s (", f.Name)
	for i, t := range f.Types {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(t.String())
	}
	buf.WriteString(")>")
	return buf.String()
}

func foreignValue(f *Foreign) *LVal {
	return &LVal{Type: LForeign, Foreign: f}
}

func builtinFfiOpen(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LString {
		return Errorf(ErrType, "ffi/open: argument is not a string: %s", args[0].Type)
	}
	lib, err := dlOpen(args[0].Str)
	if err != nil {
		return Errorf(ErrFfi, "ffi/open: %s", err)
	}
	return foreignValue(&Foreign{
		Kind: ForeignLibrary,
		Path: args[0].Str,
		lib:  lib,
	})
}

func builtinFfiGet(env *LEnv, args []*LVal) *LVal {
	lib := args[0]
	if lib.Type != LForeign || lib.Foreign.Kind != ForeignLibrary {
		return Errorf(ErrType, "ffi/get: first argument is not a library handle: %s", lib)
	}
	if lib.Foreign.closed {
		return Errorf(ErrFfi, "ffi/get: library is closed: %s", lib)
	}
	if args[1].Type != LString && args[1].Type != LSymbol {
		return Errorf(ErrType, "ffi/get: second argument is not a name: %s", args[1].Type)
	}
	name := args[1].Str
	cells, lerr := GetList(args[2])
	if lerr != nil {
		return lerr
	}
	if len(cells) == 0 {
		return Errorf(ErrType, "ffi/get: signature must name at least a return type")
	}
	types := make([]FType, len(cells))
	for i, c := range cells {
		if c.Type != LSymbol {
			return Errorf(ErrType, "ffi/get: signature element is not a symbol: %s", c.Type)
		}
		switch c.Str {
		case "int":
			types[i] = FInt
		case "string":
			types[i] = FString
		case "nil":
			types[i] = FNil
		default:
			return Errorf(ErrFfi, "ffi/get: unsupported type: %s", c.Str)
		}
		if types[i] == FNil && i != len(cells)-1 {
			return Errorf(ErrFfi, "ffi/get: nil is only valid as the return type")
		}
	}
	fn, err := dlSym(lib.Foreign.lib, name)
	if err != nil {
		return Errorf(ErrFfi, "ffi/get: %s", err)
	}
	return foreignValue(&Foreign{
		Kind:  ForeignFunction,
		Path:  lib.Foreign.Path,
		Name:  name,
		Types: types,
		fn:    fn,
	})
}

func builtinFfiApply(env *LEnv, args []*LVal) *LVal {
	fn := args[0]
	if fn.Type != LForeign || fn.Foreign.Kind != ForeignFunction {
		return Errorf(ErrType, "ffi/apply: first argument is not a function handle: %s", fn)
	}
	cells, lerr := GetList(args[1])
	if lerr != nil {
		return lerr
	}
	argTypes := fn.Foreign.Types[:len(fn.Foreign.Types)-1]
	retType := fn.Foreign.Types[len(fn.Foreign.Types)-1]
	if len(cells) != len(argTypes) {
		return Errorf(ErrFfi, "ffi/apply: %s expects %d arguments (got %d)",
			fn.Foreign.Name, len(argTypes), len(cells))
	}
	for i, c := range cells {
		switch argTypes[i] {
		case FInt:
			if c.Type != LInt {
				return Errorf(ErrFfi, "ffi/apply: argument %d is not an int: %s", i+1, c.Type)
			}
		case FString:
			if c.Type != LString {
				return Errorf(ErrFfi, "ffi/apply: argument %d is not a string: %s", i+1, c.Type)
			}
		}
	}
	ret, err := dlCall(fn.Foreign.fn, argTypes, retType, cells)
	if err != nil {
		return Errorf(ErrFfi, "ffi/apply: %s", err)
	}
	return ret
}

func builtinFfiClose(env *LEnv, args []*LVal) *LVal {
	lib := args[0]
	if lib.Type != LForeign || lib.Foreign.Kind != ForeignLibrary {
		return Errorf(ErrType, "ffi/close: argument is not a library handle: %s", lib)
	}
	if lib.Foreign.closed {
		return Nil()
	}
	lib.Foreign.closed = true
	if err := dlClose(lib.Foreign.lib); err != nil {
		return Errorf(ErrFfi, "ffi/close: %s", err)
	}
	return Nil()
}
