package lisp

import (
	"bytes"
	"os"
	"path/filepath"
)

type langBuiltin struct {
	name    string
	formals *LFormals
	fun     LBuiltin
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Formals() *LFormals {
	return fun.formals
}

func (fun *langBuiltin) Eval(env *LEnv, args []*LVal) *LVal {
	return fun.fun(env, args)
}

var userBuiltins []*langBuiltin
var langBuiltins = []*langBuiltin{
	{"cons", Formals("head", "tail"), builtinCons},
	{"head", Formals("pair"), builtinHead},
	{"tail", Formals("pair"), builtinTail},
	{"list", Formals(VarArgSymbol, "args"), builtinList},
	{"length", Formals("lis"), builtinLength},
	{"reverse", Formals("lis"), builtinReverse},
	{"concat", Formals(VarArgSymbol, "lists"), builtinConcat},
	{"nth", Formals("lis", "n"), builtinNth},
	{"cons?", Formals("v"), builtinIsCons},
	{"nil?", Formals("v"), builtinIsNil},
	{"sym?", Formals("v"), builtinIsSym},
	{"str?", Formals("v"), builtinIsStr},
	{"int?", Formals("v"), builtinIsInt},
	{"fn?", Formals("v"), builtinIsFun},
	{"type-of", Formals("v"), builtinTypeOf},
	{"eq", Formals("a", "b"), builtinEq},
	{"=", Formals("a", "b"), builtinEqNum},
	{"<", Formals("a", "b"), builtinLT},
	{">", Formals("a", "b"), builtinGT},
	{"<=", Formals("a", "b"), builtinLEq},
	{">=", Formals("a", "b"), builtinGEq},
	{"+", Formals(VarArgSymbol, "x"), builtinAdd},
	{"-", Formals("x", VarArgSymbol, "rest"), builtinSub},
	{"*", Formals(VarArgSymbol, "x"), builtinMul},
	{"/", Formals("x", VarArgSymbol, "rest"), builtinDiv},
	{"mod", Formals("a", "b"), builtinMod},
	{"print", Formals(VarArgSymbol, "args"), builtinPrint},
	{"error", Formals("condition", VarArgSymbol, "args"), builtinError},
	{"gensym", Formals(), builtinGensym},
	{"eval", Formals("expr"), builtinEval},
	{"expand", Formals("expr"), builtinExpand},
	{"apply", Formals("fn", "args"), builtinApply},
	{"str/concat", Formals(VarArgSymbol, "strs"), builtinStringConcat},
	{"str/len", Formals("s"), builtinStringLen},
	{"str/sub", Formals("s", "start", "end"), builtinStringSub},
	{"str", Formals("v"), builtinStr},
	{"read-file", Formals("path"), builtinReadFile},
	{"load-string", Formals("source"), builtinLoadString},
	{"import", Formals("path"), builtinImport},
	{"vec", Formals(VarArgSymbol, "args"), builtinVec},
	{"vec?", Formals("v"), builtinIsVec},
	{"vec/push!", Formals("vec", "v"), builtinVecPush},
	{"vec/pop!", Formals("vec"), builtinVecPop},
	{"vec/len", Formals("vec"), builtinVecLen},
	{"vec/get", Formals("vec", "n"), builtinVecGet},
	{"vec/set!", Formals("vec", "n", "v"), builtinVecSet},
	{"hash-map", Formals(VarArgSymbol, "pairs"), builtinHashMap},
	{"map/get", Formals("map", "key"), builtinMapGet},
	{"map/set!", Formals("map", "key", "v"), builtinMapSet},
	{"map/del!", Formals("map", "key"), builtinMapDel},
	{"map/keys", Formals("map"), builtinMapKeys},
	{"map/len", Formals("map"), builtinMapLen},
	{"ffi/open", Formals("path"), builtinFfiOpen},
	{"ffi/get", Formals("lib", "name", "types"), builtinFfiGet},
	{"ffi/apply", Formals("fn", "args"), builtinFfiApply},
	{"ffi/close", Formals("lib"), builtinFfiClose},
}

// RegisterDefaultBuiltin adds the given function to the list returned by
// DefaultBuiltins.
func RegisterDefaultBuiltin(name string, formals *LFormals, fn LBuiltin) {
	userBuiltins = append(userBuiltins, &langBuiltin{name, formals, fn})
}

// DefaultBuiltins returns the default set of LBuiltinDefs added to LEnv
// objects when LEnv.AddBuiltins is called without arguments.
func DefaultBuiltins() []LBuiltinDef {
	funs := make([]LBuiltinDef, len(langBuiltins)+len(userBuiltins))
	for i := range langBuiltins {
		funs[i] = langBuiltins[i]
	}
	offset := len(langBuiltins)
	for i := range userBuiltins {
		funs[offset+i] = userBuiltins[i]
	}
	return funs
}

func builtinCons(env *LEnv, args []*LVal) *LVal {
	return Cons(args[0], args[1])
}

func builtinHead(env *LEnv, args []*LVal) *LVal {
	if !args[0].IsCons() {
		return Errorf(ErrType, "head: argument is not a pair: %s", args[0].Type)
	}
	return args[0].Head
}

func builtinTail(env *LEnv, args []*LVal) *LVal {
	if !args[0].IsCons() {
		return Errorf(ErrType, "tail: argument is not a pair: %s", args[0].Type)
	}
	return args[0].Tail
}

func builtinList(env *LEnv, args []*LVal) *LVal {
	return List(args...)
}

func builtinLength(env *LEnv, args []*LVal) *LVal {
	cells, lerr := GetList(args[0])
	if lerr != nil {
		return lerr
	}
	return Int(uint64(len(cells)))
}

func builtinReverse(env *LEnv, args []*LVal) *LVal {
	cells, lerr := GetList(args[0])
	if lerr != nil {
		return lerr
	}
	lis := Nil()
	for _, c := range cells {
		lis = Cons(c, lis)
	}
	return lis
}

func builtinConcat(env *LEnv, args []*LVal) *LVal {
	var all []*LVal
	for _, arg := range args {
		cells, lerr := GetList(arg)
		if lerr != nil {
			return lerr
		}
		all = append(all, cells...)
	}
	return List(all...)
}

func builtinNth(env *LEnv, args []*LVal) *LVal {
	cells, lerr := GetList(args[0])
	if lerr != nil {
		return lerr
	}
	if args[1].Type != LInt {
		return Errorf(ErrType, "nth: index is not an int: %s", args[1].Type)
	}
	n := args[1].Int
	if n >= uint64(len(cells)) {
		return Errorf(ErrType, "nth: index out of range: %d", n)
	}
	return cells[n]
}

func typePredicate(ok bool) *LVal {
	if ok {
		return Symbol("true")
	}
	return Nil()
}

func builtinIsCons(env *LEnv, args []*LVal) *LVal {
	return typePredicate(args[0].IsCons())
}

func builtinIsNil(env *LEnv, args []*LVal) *LVal {
	return typePredicate(args[0].IsNil())
}

func builtinIsSym(env *LEnv, args []*LVal) *LVal {
	return typePredicate(args[0].Type == LSymbol)
}

func builtinIsStr(env *LEnv, args []*LVal) *LVal {
	return typePredicate(args[0].Type == LString)
}

func builtinIsInt(env *LEnv, args []*LVal) *LVal {
	return typePredicate(args[0].Type == LInt)
}

func builtinIsFun(env *LEnv, args []*LVal) *LVal {
	return typePredicate(args[0].Type == LFun)
}

func builtinIsVec(env *LEnv, args []*LVal) *LVal {
	return typePredicate(args[0].Type == LVector)
}

func builtinTypeOf(env *LEnv, args []*LVal) *LVal {
	return Symbol(args[0].Type.String())
}

func builtinEq(env *LEnv, args []*LVal) *LVal {
	return typePredicate(Equal(args[0], args[1]))
}

func twoInts(name string, args []*LVal) (uint64, uint64, *LVal) {
	if args[0].Type != LInt {
		return 0, 0, Errorf(ErrType, "%s: first argument is not an int: %s", name, args[0].Type)
	}
	if args[1].Type != LInt {
		return 0, 0, Errorf(ErrType, "%s: second argument is not an int: %s", name, args[1].Type)
	}
	return args[0].Int, args[1].Int, nil
}

func builtinEqNum(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := twoInts("=", args)
	if lerr != nil {
		return lerr
	}
	return typePredicate(a == b)
}

func builtinLT(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := twoInts("<", args)
	if lerr != nil {
		return lerr
	}
	return typePredicate(a < b)
}

func builtinGT(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := twoInts(">", args)
	if lerr != nil {
		return lerr
	}
	return typePredicate(a > b)
}

func builtinLEq(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := twoInts("<=", args)
	if lerr != nil {
		return lerr
	}
	return typePredicate(a <= b)
}

func builtinGEq(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := twoInts(">=", args)
	if lerr != nil {
		return lerr
	}
	return typePredicate(a >= b)
}

func builtinAdd(env *LEnv, args []*LVal) *LVal {
	var sum uint64
	for _, arg := range args {
		if arg.Type != LInt {
			return Errorf(ErrType, "+: argument is not an int: %s", arg.Type)
		}
		sum += arg.Int
	}
	return Int(sum)
}

func builtinSub(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LInt {
		return Errorf(ErrType, "-: argument is not an int: %s", args[0].Type)
	}
	diff := args[0].Int
	for _, arg := range args[1:] {
		if arg.Type != LInt {
			return Errorf(ErrType, "-: argument is not an int: %s", arg.Type)
		}
		if arg.Int > diff {
			return Errorf(ErrType, "-: integer underflow: %d - %d", diff, arg.Int)
		}
		diff -= arg.Int
	}
	return Int(diff)
}

func builtinMul(env *LEnv, args []*LVal) *LVal {
	var prod uint64 = 1
	for _, arg := range args {
		if arg.Type != LInt {
			return Errorf(ErrType, "*: argument is not an int: %s", arg.Type)
		}
		prod *= arg.Int
	}
	return Int(prod)
}

func builtinDiv(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LInt {
		return Errorf(ErrType, "/: argument is not an int: %s", args[0].Type)
	}
	quot := args[0].Int
	for _, arg := range args[1:] {
		if arg.Type != LInt {
			return Errorf(ErrType, "/: argument is not an int: %s", arg.Type)
		}
		if arg.Int == 0 {
			return Errorf(ErrType, "/: division by zero")
		}
		quot /= arg.Int
	}
	return Int(quot)
}

func builtinMod(env *LEnv, args []*LVal) *LVal {
	a, b, lerr := twoInts("mod", args)
	if lerr != nil {
		return lerr
	}
	if b == 0 {
		return Errorf(ErrType, "mod: division by zero")
	}
	return Int(a % b)
}

func builtinPrint(env *LEnv, args []*LVal) *LVal {
	var buf bytes.Buffer
	for i, arg := range args {
		if i > 0 {
			buf.WriteString(" ")
		}
		if arg.Type == LString {
			buf.WriteString(arg.Str)
		} else {
			buf.WriteString(arg.String())
		}
	}
	buf.WriteString("\n")
	_, err := env.Runtime.Stdout.Write(buf.Bytes())
	if err != nil {
		return Errorf(ErrUser, "print: %s", err)
	}
	return Nil()
}

// builtinError raises an error with a keyword condition, e.g.
// (error :no-match "no branch matched").
func builtinError(env *LEnv, args []*LVal) *LVal {
	if !args[0].IsKeyword() {
		return Errorf(ErrType, "error: first argument is not a keyword: %s", args[0])
	}
	condition := args[0].Str[len(KeywordPrefix):]
	var buf bytes.Buffer
	for i, arg := range args[1:] {
		if i > 0 {
			buf.WriteString(" ")
		}
		if arg.Type == LString {
			buf.WriteString(arg.Str)
		} else {
			buf.WriteString(arg.String())
		}
	}
	lerr := Error(condition, buf.String())
	lerr.Head = args[0]
	return lerr
}

func builtinGensym(env *LEnv, args []*LVal) *LVal {
	return Symbol(env.Runtime.GenSym())
}

func builtinEval(env *LEnv, args []*LVal) *LVal {
	return env.Eval(args[0])
}

func builtinExpand(env *LEnv, args []*LVal) *LVal {
	return env.Expand(args[0])
}

func builtinApply(env *LEnv, args []*LVal) *LVal {
	cells, lerr := GetList(args[1])
	if lerr != nil {
		return lerr
	}
	return env.apply(args[0], cells)
}

func builtinStringConcat(env *LEnv, args []*LVal) *LVal {
	var buf bytes.Buffer
	for _, arg := range args {
		if arg.Type != LString {
			return Errorf(ErrType, "str/concat: argument is not a string: %s", arg.Type)
		}
		buf.WriteString(arg.Str)
	}
	return String(buf.String())
}

func builtinStringLen(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LString {
		return Errorf(ErrType, "str/len: argument is not a string: %s", args[0].Type)
	}
	return Int(uint64(len(args[0].Str)))
}

func builtinStringSub(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LString {
		return Errorf(ErrType, "str/sub: argument is not a string: %s", args[0].Type)
	}
	if args[1].Type != LInt || args[2].Type != LInt {
		return Errorf(ErrType, "str/sub: bounds are not ints")
	}
	s := args[0].Str
	start, end := args[1].Int, args[2].Int
	if start > end || end > uint64(len(s)) {
		return Errorf(ErrType, "str/sub: bounds out of range: %d %d", start, end)
	}
	return String(s[start:end])
}

func builtinStr(env *LEnv, args []*LVal) *LVal {
	if args[0].Type == LString {
		return args[0]
	}
	return String(args[0].String())
}

func builtinReadFile(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LString {
		return Errorf(ErrType, "read-file: argument is not a string: %s", args[0].Type)
	}
	b, err := os.ReadFile(args[0].Str)
	if err != nil {
		return Errorf(ErrUser, "read-file: %s", err)
	}
	return String(string(b))
}

func builtinLoadString(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LString {
		return Errorf(ErrType, "load-string: argument is not a string: %s", args[0].Type)
	}
	return env.root().LoadString("load-string", args[0].Str)
}

// builtinImport loads a source file once per runtime, keyed by absolute
// path.
func builtinImport(env *LEnv, args []*LVal) *LVal {
	if args[0].Type != LString {
		return Errorf(ErrType, "import: argument is not a string: %s", args[0].Type)
	}
	path, err := filepath.Abs(args[0].Str)
	if err != nil {
		return Errorf(ErrUser, "import: %s", err)
	}
	if env.Runtime.Imported[path] {
		return Nil()
	}
	env.Runtime.Imported[path] = true
	ret := env.root().LoadFile(path)
	if ret.Type == LError {
		return ret
	}
	return Nil()
}
