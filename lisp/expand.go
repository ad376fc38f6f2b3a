package lisp

// Expand rewrites v until its head is no longer a macro and every reachable
// sub-expression in evaluated position has been expanded.  Expansion is
// idempotent on macro-free forms.  Macro arguments are passed unexpanded and
// unevaluated; the value a macro returns is expanded again before it is
// handed to the evaluator.
func (env *LEnv) Expand(v *LVal) *LVal {
	switch v.Type {
	case LQuote:
		// Rewrite the reader's surface form 'x into (quote x) for uniform
		// downstream handling.
		return List(Symbol(symQuote), v.Head)
	case LCons:
		return env.expandCons(v)
	default:
		return v
	}
}

func (env *LEnv) expandCons(v *LVal) *LVal {
	head := v.Head
	if head.Type != LSymbol {
		return env.expandEach(v)
	}
	switch head.Str {
	case symQuote:
		return v
	case symQuasiquote:
		args, lerr := GetList(v.Tail)
		if lerr != nil {
			return lerr
		}
		if len(args) != 1 {
			return Errorf(ErrArity, "quasi-quote: one argument expected (got %d)", len(args))
		}
		return env.quasiquote(args[0])
	}
	if mac := env.GetMacro(head.Str); mac != nil {
		args, lerr := GetList(v.Tail)
		if lerr != nil {
			return lerr
		}
		next := env.applyMacro(mac, args)
		if next.Type == LError {
			return next
		}
		return env.Expand(next)
	}
	if isSpecialForm(head.Str) {
		return env.expandSpecial(head.Str, v)
	}
	return env.expandEach(v)
}

// expandEach expands the head and every element of a combination and
// returns the reconstructed cons.  Improper tails are preserved.
func (env *LEnv) expandEach(v *LVal) *LVal {
	if !v.IsCons() {
		return env.Expand(v)
	}
	h := env.Expand(v.Head)
	if h.Type == LError {
		return h
	}
	t := env.expandEach(v.Tail)
	if t.Type == LError {
		return t
	}
	return Cons(h, t)
}

// expandSpecial expands only the sub-expressions a special form evaluates.
// Binding names and formal argument lists are left alone.
func (env *LEnv) expandSpecial(name string, v *LVal) *LVal {
	cells, improper := ListCells(v)
	if improper != nil {
		return Errorf(ErrType, "%s: not a proper list: %s", name, v)
	}
	switch name {
	case symFn:
		// (fn* name (formals) body ...) -- expand body only.
		if len(cells) < 3 {
			return v
		}
		out := make([]*LVal, len(cells))
		copy(out, cells[:3])
		for i := 3; i < len(cells); i++ {
			out[i] = env.Expand(cells[i])
			if out[i].Type == LError {
				return out[i]
			}
		}
		return List(out...)
	case symLet, symSetGlobal, symSetMacro, symSet, symSetBang:
		// (let name expr) and friends -- expand expr only.
		if len(cells) < 3 {
			return v
		}
		out := make([]*LVal, len(cells))
		copy(out, cells[:2])
		for i := 2; i < len(cells); i++ {
			out[i] = env.Expand(cells[i])
			if out[i].Type == LError {
				return out[i]
			}
		}
		return List(out...)
	case symTry:
		// (try expr (catch err body)) -- the catch clause introduces a
		// binding; expand the protected expr and the handler body.
		if len(cells) != 3 {
			return v
		}
		expr := env.Expand(cells[1])
		if expr.Type == LError {
			return expr
		}
		clause, improper := ListCells(cells[2])
		if improper != nil || len(clause) != 3 {
			return List(cells[0], expr, cells[2])
		}
		handler := env.Expand(clause[2])
		if handler.Type == LError {
			return handler
		}
		return List(cells[0], expr, List(clause[0], clause[1], handler))
	default:
		// if, while, block, begin, throw -- every argument is evaluated.
		out := make([]*LVal, len(cells))
		out[0] = cells[0]
		for i := 1; i < len(cells); i++ {
			out[i] = env.Expand(cells[i])
			if out[i].Type == LError {
				return out[i]
			}
		}
		return List(out...)
	}
}

// applyMacro invokes the macro closure with the unevaluated argument forms
// and returns the replacement form.
func (env *LEnv) applyMacro(mac *LVal, args []*LVal) *LVal {
	if mac.Builtin != nil {
		return mac.Builtin(env, args)
	}
	return env.apply(mac, args)
}

// quasiquote walks a template and produces code that reconstructs it.
// Positions marked unquote are inserted verbatim so they evaluate in place.
// A nested quasi-quote inside a template is the reader-level shorthand for
// inserting the wrapped expression's value and behaves like unquote.
func (env *LEnv) quasiquote(t *LVal) *LVal {
	if t.Type == LQuote {
		return env.quasiquote(List(Symbol(symQuote), t.Head))
	}
	if !t.IsCons() {
		return List(Symbol(symQuote), t)
	}
	if t.Head.Type == LSymbol {
		switch t.Head.Str {
		case symUnquote, symQuasiquote:
			args, lerr := GetList(t.Tail)
			if lerr != nil {
				return lerr
			}
			if len(args) != 1 {
				return Errorf(ErrArity, "%s: one argument expected (got %d)", t.Head.Str, len(args))
			}
			return args[0]
		}
	}
	h := env.quasiquote(t.Head)
	if h.Type == LError {
		return h
	}
	tl := env.quasiquote(t.Tail)
	if tl.Type == LError {
		return tl
	}
	return List(Symbol("cons"), h, tl)
}
