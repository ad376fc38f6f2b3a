package lisp

import (
	"sort"
	"strconv"
)

// Hash maps key symbols, strings, and ints to arbitrary values.  Keys are
// serialized so that equal keys of different types cannot collide.

// builtinHashMap constructs a map from alternating keys and values:
//
//	(hash-map :a 1 :b 2)
func builtinHashMap(env *LEnv, args []*LVal) *LVal {
	if len(args)%2 != 0 {
		return Errorf(ErrArity, "hash-map: a value is required for every key (got %d arguments)", len(args))
	}
	m := SortedMap()
	for i := 0; i < len(args); i += 2 {
		k, ok := mapKey(args[i])
		if !ok {
			return Errorf(ErrType, "hash-map: unhashable key: %s", args[i].Type)
		}
		m.Map[k] = args[i+1]
	}
	return m
}

func mapArg(name string, v *LVal) *LVal {
	if v.Type != LMap {
		return Errorf(ErrType, "%s: argument is not a map: %s", name, v.Type)
	}
	return nil
}

func builtinMapGet(env *LEnv, args []*LVal) *LVal {
	if lerr := mapArg("map/get", args[0]); lerr != nil {
		return lerr
	}
	k, ok := mapKey(args[1])
	if !ok {
		return Errorf(ErrType, "map/get: unhashable key: %s", args[1].Type)
	}
	if v, ok := args[0].Map[k]; ok {
		return v
	}
	return Nil()
}

func builtinMapSet(env *LEnv, args []*LVal) *LVal {
	if lerr := mapArg("map/set!", args[0]); lerr != nil {
		return lerr
	}
	k, ok := mapKey(args[1])
	if !ok {
		return Errorf(ErrType, "map/set!: unhashable key: %s", args[1].Type)
	}
	args[0].Map[k] = args[2]
	return Nil()
}

func builtinMapDel(env *LEnv, args []*LVal) *LVal {
	if lerr := mapArg("map/del!", args[0]); lerr != nil {
		return lerr
	}
	k, ok := mapKey(args[1])
	if !ok {
		return Errorf(ErrType, "map/del!: unhashable key: %s", args[1].Type)
	}
	delete(args[0].Map, k)
	return Nil()
}

// builtinMapKeys returns the serialized keys in sorted order so that
// iteration is deterministic.
func builtinMapKeys(env *LEnv, args []*LVal) *LVal {
	if lerr := mapArg("map/keys", args[0]); lerr != nil {
		return lerr
	}
	keys := make([]string, 0, len(args[0].Map))
	for k := range args[0].Map {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	cells := make([]*LVal, len(keys))
	for i, k := range keys {
		cells[i] = keyValue(k)
	}
	return List(cells...)
}

// keyValue recovers the original key from its serialized form.  Keys are
// restricted to symbols, strings, and ints, so the first byte decides.
func keyValue(k string) *LVal {
	if k == "" {
		return Symbol(k)
	}
	switch {
	case k[0] == '"':
		s, err := strconv.Unquote(k)
		if err != nil {
			return String(k)
		}
		return String(s)
	case k[0] >= '0' && k[0] <= '9':
		x, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			return Symbol(k)
		}
		return Int(x)
	default:
		return Symbol(k)
	}
}

func builtinMapLen(env *LEnv, args []*LVal) *LVal {
	if lerr := mapArg("map/len", args[0]); lerr != nil {
		return lerr
	}
	return Int(uint64(len(args[0].Map)))
}
