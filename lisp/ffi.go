//go:build cgo && (linux || darwin)

package lisp

/*
#cgo linux LDFLAGS: -ldl

#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>

static void *soft_dlopen(const char *path) {
	return dlopen(path, RTLD_LAZY | RTLD_LOCAL);
}

// Clear any stale error before resolving so a NULL result can be
// distinguished from a symbol whose value is NULL.
static void *soft_dlsym(void *handle, const char *name, char **err) {
	dlerror();
	void *sym = dlsym(handle, name);
	char *e = dlerror();
	if (err) {
		*err = e;
	}
	return e ? NULL : sym;
}

typedef uintptr_t (*soft_fn)();

static uintptr_t soft_call(void *fn, int n, uintptr_t *a) {
	soft_fn f = (soft_fn)fn;
	switch (n) {
	case 0:
		return f();
	case 1:
		return f(a[0]);
	case 2:
		return f(a[0], a[1]);
	case 3:
		return f(a[0], a[1], a[2]);
	case 4:
		return f(a[0], a[1], a[2], a[3]);
	case 5:
		return f(a[0], a[1], a[2], a[3], a[4]);
	case 6:
		return f(a[0], a[1], a[2], a[3], a[4], a[5]);
	}
	return 0;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// maxForeignArgs bounds the number of marshalled arguments the call shim
// accepts.
const maxForeignArgs = 6

func dlError() string {
	msg := C.dlerror()
	if msg == nil {
		return "unknown dlerror"
	}
	return C.GoString(msg)
}

func dlOpen(path string) (uintptr, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	h := C.soft_dlopen(cpath)
	if h == nil {
		return 0, errors.New(dlError())
	}
	return uintptr(h), nil
}

func dlSym(lib uintptr, name string) (uintptr, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var cerr *C.char
	sym := C.soft_dlsym(unsafe.Pointer(lib), cname, &cerr)
	if cerr != nil {
		return 0, errors.New(C.GoString(cerr))
	}
	return uintptr(sym), nil
}

func dlClose(lib uintptr) error {
	if C.dlclose(unsafe.Pointer(lib)) != 0 {
		return errors.New(dlError())
	}
	return nil
}

// dlCall marshals args per the declared types, invokes the native entry
// point, and converts the result back into a runtime value.
func dlCall(fn uintptr, argTypes []FType, retType FType, args []*LVal) (*LVal, error) {
	if len(args) > maxForeignArgs {
		return nil, fmt.Errorf("too many arguments: %d (max %d)", len(args), maxForeignArgs)
	}
	words := make([]C.uintptr_t, maxForeignArgs)
	var cstrs []*C.char
	defer func() {
		for _, s := range cstrs {
			C.free(unsafe.Pointer(s))
		}
	}()
	for i, arg := range args {
		switch argTypes[i] {
		case FInt:
			words[i] = C.uintptr_t(arg.Int)
		case FString:
			s := C.CString(arg.Str)
			cstrs = append(cstrs, s)
			words[i] = C.uintptr_t(uintptr(unsafe.Pointer(s)))
		}
	}
	ret := C.soft_call(unsafe.Pointer(fn), C.int(len(args)), &words[0])
	switch retType {
	case FInt:
		return Int(uint64(ret)), nil
	case FString:
		if ret == 0 {
			return nil, errors.New("foreign function returned a null string")
		}
		return String(C.GoString((*C.char)(unsafe.Pointer(uintptr(ret))))), nil
	default:
		return Nil(), nil
	}
}
