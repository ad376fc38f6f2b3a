//go:build !cgo || (!linux && !darwin)

package lisp

import "errors"

var errNoFfi = errors.New("ffi is not supported on this platform")

func dlOpen(path string) (uintptr, error) {
	return 0, errNoFfi
}

func dlSym(lib uintptr, name string) (uintptr, error) {
	return 0, errNoFfi
}

func dlClose(lib uintptr) error {
	return errNoFfi
}

func dlCall(fn uintptr, argTypes []FType, retType FType, args []*LVal) (*LVal, error) {
	return nil, errNoFfi
}
