package lisp

// Eval evaluates v in the context of env and returns the resulting LVal.
// Errors are returned as LError values and unwind to the caller; the call
// stack is restored to its entry height on return.
func (env *LEnv) Eval(v *LVal) *LVal {
	return env.eval(v)
}

// eval is the inner evaluation loop.  Tail positions of begin/block, if,
// and closure calls iterate here instead of recursing so that deep library
// recursion does not grow the Go stack proportionally.
func (env *LEnv) eval(v *LVal) *LVal {
	height := env.Runtime.Stack.Height()
	for {
		v = env.Expand(v)
		switch v.Type {
		case LSymbol:
			if v.IsKeyword() {
				return env.unwind(v, height)
			}
			return env.unwind(env.Get(v), height)
		case LCons:
			next, nextenv, done := env.evalCons(v)
			if done {
				return env.unwind(next, height)
			}
			v = next
			env = nextenv
		case LError:
			return env.unwind(v, height)
		default:
			// nil, ints, strings, functions, vectors, maps, and foreign
			// handles evaluate to themselves.
			return env.unwind(v, height)
		}
	}
}

// unwind restores the call stack to the height recorded when evaluation
// began, capturing a trace on the first error seen.
func (env *LEnv) unwind(ret *LVal, height int) *LVal {
	stack := env.Runtime.Stack
	if ret.Type == LError && ret.Stack == nil {
		ret.Stack = stack.Copy()
	}
	stack.Truncate(height)
	return ret
}

// evalCons evaluates one combination.  When the result is the tail
// expression of a special form or a closure body, evalCons returns the
// expression and environment to continue with and done=false.
func (env *LEnv) evalCons(v *LVal) (*LVal, *LEnv, bool) {
	cells, improper := ListCells(v)
	if improper != nil {
		return Errorf(ErrType, "not a proper list: %s", v), env, true
	}
	if len(cells) == 0 {
		return Nil(), env, true
	}
	head := cells[0]
	args := cells[1:]
	if head.Type == LSymbol {
		switch head.Str {
		case symQuote:
			return env.evalQuote(args), env, true
		case symIf:
			return env.evalIf(args)
		case symBlock, symBegin:
			return env.evalBlock(args)
		case symLet:
			return env.evalLet(args), env, true
		case symSetGlobal:
			return env.evalSetGlobal(args), env, true
		case symSetMacro:
			return env.evalSetMacro(args), env, true
		case symFn:
			return env.evalFn(args), env, true
		case symSet, symSetBang:
			return env.evalSet(head.Str, args), env, true
		case symWhile:
			return env.evalWhile(args), env, true
		case symThrow:
			return env.evalThrow(args), env, true
		case symTry:
			return env.evalTry(args), env, true
		}
	}
	f := env.eval(head)
	if f.Type == LError {
		return f, env, true
	}
	if f.Type != LFun {
		return Errorf(ErrType, "first element of expression is not a function: %s", f), env, true
	}
	if f.IsMacro() {
		return Errorf(ErrType, "macro used as a function: %s", f), env, true
	}
	vals := make([]*LVal, len(args))
	for i := range args {
		vals[i] = env.eval(args[i])
		if vals[i].Type == LError {
			return vals[i], env, true
		}
	}
	if f.Builtin != nil {
		if lerr := checkArity(f, len(vals)); lerr != nil {
			return lerr, env, true
		}
		if lerr := env.Runtime.Stack.Push(f.FID, f.Str); lerr.Type == LError {
			return lerr, env, true
		}
		ret := f.Builtin(env, vals)
		env.Runtime.Stack.Truncate(env.Runtime.Stack.Height() - 1)
		return ret, env, true
	}
	fenv, lerr := bindFormals(f, vals)
	if lerr != nil {
		return lerr, env, true
	}
	if lerr := env.Runtime.Stack.Push(f.FID, f.Str); lerr.Type == LError {
		return lerr, env, true
	}
	return f.Body, fenv, false
}

// apply invokes the function f on already evaluated arguments.  It is used
// by the apply primitive and by the macro expander.
func (env *LEnv) apply(f *LVal, args []*LVal) *LVal {
	if f.Type != LFun {
		return Errorf(ErrType, "not a function: %s", f)
	}
	if f.Builtin != nil {
		if lerr := checkArity(f, len(args)); lerr != nil {
			return lerr
		}
		return f.Builtin(env, args)
	}
	fenv, lerr := bindFormals(f, args)
	if lerr != nil {
		return lerr
	}
	if lerr := env.Runtime.Stack.Push(f.FID, f.Str); lerr.Type == LError {
		return lerr
	}
	ret := fenv.eval(f.Body)
	env.Runtime.Stack.Truncate(env.Runtime.Stack.Height() - 1)
	return ret
}

func checkArity(f *LVal, n int) *LVal {
	formals := f.Formals
	if formals == nil {
		return nil
	}
	if formals.Rest == "" && n != len(formals.Named) {
		return Errorf(ErrArity, "%s: expected %d arguments (got %d)", f.FID, len(formals.Named), n)
	}
	if formals.Rest != "" && n < len(formals.Named) {
		return Errorf(ErrArity, "%s: expected at least %d arguments (got %d)", f.FID, len(formals.Named), n)
	}
	return nil
}

// bindFormals creates the call frame for a closure invocation, binding the
// formal arguments to vals in a child of the closure's captured
// environment.  The variadic tail is spliced into a list.
func bindFormals(f *LVal, vals []*LVal) (*LEnv, *LVal) {
	if lerr := checkArity(f, len(vals)); lerr != nil {
		return nil, lerr
	}
	fenv := NewEnv(f.Env)
	if f.Str != "" {
		// Self-reference for recursive definitions.  An argument with the
		// same name shadows it.
		fenv.Scope[f.Str] = f
	}
	for i, name := range f.Formals.Named {
		fenv.Scope[name] = vals[i]
	}
	if f.Formals.Rest != "" {
		fenv.Scope[f.Formals.Rest] = List(vals[len(f.Formals.Named):]...)
	}
	return fenv, nil
}

func (env *LEnv) evalQuote(args []*LVal) *LVal {
	if len(args) != 1 {
		return Errorf(ErrArity, "quote: one argument expected (got %d)", len(args))
	}
	return args[0]
}

func (env *LEnv) evalIf(args []*LVal) (*LVal, *LEnv, bool) {
	if len(args) != 2 && len(args) != 3 {
		return Errorf(ErrArity, "if: two or three arguments expected (got %d)", len(args)), env, true
	}
	c := env.eval(args[0])
	if c.Type == LError {
		return c, env, true
	}
	if !c.IsNil() {
		return args[1], env, false
	}
	if len(args) == 3 {
		return args[2], env, false
	}
	return Nil(), env, true
}

func (env *LEnv) evalBlock(args []*LVal) (*LVal, *LEnv, bool) {
	if len(args) == 0 {
		return Nil(), env, true
	}
	for _, c := range args[:len(args)-1] {
		ret := env.eval(c)
		if ret.Type == LError {
			return ret, env, true
		}
	}
	return args[len(args)-1], env, false
}

func (env *LEnv) evalLet(args []*LVal) *LVal {
	if len(args) != 2 {
		return Errorf(ErrArity, "let: two arguments expected (got %d)", len(args))
	}
	if args[0].Type != LSymbol {
		return Errorf(ErrType, "let: first argument is not a symbol: %s", args[0].Type)
	}
	v := env.eval(args[1])
	if v.Type == LError {
		return v
	}
	return env.Put(args[0], v)
}

func (env *LEnv) evalSetGlobal(args []*LVal) *LVal {
	if len(args) != 2 {
		return Errorf(ErrArity, "set*: two arguments expected (got %d)", len(args))
	}
	if args[0].Type != LSymbol {
		return Errorf(ErrType, "set*: first argument is not a symbol: %s", args[0].Type)
	}
	v := env.eval(args[1])
	if v.Type == LError {
		return v
	}
	return env.PutGlobal(args[0], v)
}

func (env *LEnv) evalSetMacro(args []*LVal) *LVal {
	if len(args) != 2 {
		return Errorf(ErrArity, "setm*: two arguments expected (got %d)", len(args))
	}
	if args[0].Type != LSymbol {
		return Errorf(ErrType, "setm*: first argument is not a symbol: %s", args[0].Type)
	}
	v := env.eval(args[1])
	if v.Type == LError {
		return v
	}
	if v.Type != LFun || v.Builtin != nil {
		return Errorf(ErrType, "setm*: second argument is not a closure: %s", v)
	}
	// Flag a copy so a closure also bound as a value keeps working there.
	mac := &LVal{}
	*mac = *v
	mac.FunType = LFunMacro
	return env.PutGlobalMacro(args[0], mac)
}

func (env *LEnv) evalFn(args []*LVal) *LVal {
	if len(args) < 3 {
		return Errorf(ErrArity, "fn*: three arguments expected (got %d)", len(args))
	}
	name := args[0]
	if name.Type != LSymbol {
		return Errorf(ErrType, "fn*: first argument is not a symbol: %s", name.Type)
	}
	formals, lerr := parseFormals(args[1])
	if lerr != nil {
		return lerr
	}
	body := args[2]
	if len(args) > 3 {
		// Multiple body expressions evaluate as an implicit block.
		body = List(append([]*LVal{Symbol(symBlock)}, args[2:]...)...)
	}
	return Lambda(name.Str, formals, body, env)
}

func parseFormals(list *LVal) (*LFormals, *LVal) {
	cells, improper := ListCells(list)
	if improper != nil {
		return nil, Errorf(ErrType, "fn*: formal argument list is improper: %s", list)
	}
	f := &LFormals{}
	for i := 0; i < len(cells); i++ {
		sym := cells[i]
		if sym.Type != LSymbol {
			return nil, Errorf(ErrType, "fn*: formal argument is not a symbol: %s", sym.Type)
		}
		if sym.Str == VarArgSymbol {
			if i != len(cells)-2 {
				return nil, Errorf(ErrType, "fn*: a single symbol must follow %s", VarArgSymbol)
			}
			f.Rest = cells[i+1].Str
			return f, nil
		}
		f.Named = append(f.Named, sym.Str)
	}
	return f, nil
}

// evalSet handles (set! name expr) and (set (id name) expr).
func (env *LEnv) evalSet(form string, args []*LVal) *LVal {
	if len(args) != 2 {
		return Errorf(ErrArity, "%s: two arguments expected (got %d)", form, len(args))
	}
	target := args[0]
	if target.IsCons() {
		cells, improper := ListCells(target)
		if improper != nil || len(cells) != 2 || cells[0].Type != LSymbol || cells[0].Str != symID {
			return Errorf(ErrType, "%s: invalid assignment target: %s", form, target)
		}
		target = cells[1]
	}
	if target.Type != LSymbol {
		return Errorf(ErrType, "%s: assignment target is not a symbol: %s", form, target.Type)
	}
	v := env.eval(args[1])
	if v.Type == LError {
		return v
	}
	return env.Update(target, v)
}

func (env *LEnv) evalWhile(args []*LVal) *LVal {
	if len(args) < 1 {
		return Errorf(ErrArity, "while: at least one argument expected")
	}
	for {
		c := env.eval(args[0])
		if c.Type == LError {
			return c
		}
		if c.IsNil() {
			return Nil()
		}
		for _, b := range args[1:] {
			ret := env.eval(b)
			if ret.Type == LError {
				return ret
			}
		}
	}
}

func (env *LEnv) evalThrow(args []*LVal) *LVal {
	if len(args) != 1 {
		return Errorf(ErrArity, "throw: one argument expected (got %d)", len(args))
	}
	v := env.eval(args[0])
	if v.Type == LError {
		return v
	}
	return ThrownError(v)
}

// evalTry evaluates (try expr (catch err handler)).  Only user errors and
// no-match errors are caught; the frame stack is restored to the catch point before the handler
// runs.
func (env *LEnv) evalTry(args []*LVal) *LVal {
	if len(args) != 2 {
		return Errorf(ErrArity, "try: two arguments expected (got %d)", len(args))
	}
	clause, improper := ListCells(args[1])
	if improper != nil || len(clause) != 3 ||
		clause[0].Type != LSymbol || clause[0].Str != symCatch ||
		clause[1].Type != LSymbol {
		return Errorf(ErrType, "try: second argument is not a catch clause: %s", args[1])
	}
	stack := env.Runtime.Stack
	height := stack.Height()
	ret := env.eval(args[0])
	if ret.Type != LError {
		return ret
	}
	if ret.Condition != ErrUser && ret.Condition != ErrNoMatch {
		return ret
	}
	stack.Truncate(height)
	thrown := ret.Head
	if thrown == nil {
		thrown = String(ret.Str)
	}
	catchenv := NewEnv(env)
	catchenv.Scope[clause[1].Str] = thrown
	return catchenv.eval(clause[2])
}
