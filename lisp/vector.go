package lisp

// Vectors are the only indexable mutable sequence.  They are created by the
// vec primitive and mutated in place by the bang-suffixed operations.

func builtinVec(env *LEnv, args []*LVal) *LVal {
	cells := make([]*LVal, len(args))
	copy(cells, args)
	return Vector(cells...)
}

func vecArg(name string, v *LVal) *LVal {
	if v.Type != LVector {
		return Errorf(ErrType, "%s: argument is not a vector: %s", name, v.Type)
	}
	return nil
}

func vecIndex(name string, v *LVal, idx *LVal) (int, *LVal) {
	if idx.Type != LInt {
		return 0, Errorf(ErrType, "%s: index is not an int: %s", name, idx.Type)
	}
	if idx.Int >= uint64(len(v.Cells)) {
		return 0, Errorf(ErrType, "%s: index out of range: %d", name, idx.Int)
	}
	return int(idx.Int), nil
}

func builtinVecPush(env *LEnv, args []*LVal) *LVal {
	if lerr := vecArg("vec/push!", args[0]); lerr != nil {
		return lerr
	}
	args[0].Cells = append(args[0].Cells, args[1])
	return Nil()
}

func builtinVecPop(env *LEnv, args []*LVal) *LVal {
	if lerr := vecArg("vec/pop!", args[0]); lerr != nil {
		return lerr
	}
	cells := args[0].Cells
	if len(cells) == 0 {
		return Nil()
	}
	last := cells[len(cells)-1]
	args[0].Cells = cells[:len(cells)-1]
	return last
}

func builtinVecLen(env *LEnv, args []*LVal) *LVal {
	if lerr := vecArg("vec/len", args[0]); lerr != nil {
		return lerr
	}
	return Int(uint64(len(args[0].Cells)))
}

func builtinVecGet(env *LEnv, args []*LVal) *LVal {
	if lerr := vecArg("vec/get", args[0]); lerr != nil {
		return lerr
	}
	i, lerr := vecIndex("vec/get", args[0], args[1])
	if lerr != nil {
		return lerr
	}
	return args[0].Cells[i]
}

func builtinVecSet(env *LEnv, args []*LVal) *LVal {
	if lerr := vecArg("vec/set!", args[0]); lerr != nil {
		return lerr
	}
	i, lerr := vecIndex("vec/set!", args[0], args[1])
	if lerr != nil {
		return lerr
	}
	args[0].Cells[i] = args[2]
	return Nil()
}
