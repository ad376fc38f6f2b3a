// Package lisplib loads the standard library for the soft environment.
package lisplib

import (
	_ "embed"

	"github.com/aripiprazole/soft/lisp"
)

//go:embed prelude.soft
var prelude string

// LoadLibrary evaluates the embedded library sources in env's root frame.
// The environment must already have a reader configured.
func LoadLibrary(env *lisp.LEnv) *lisp.LVal {
	return env.LoadString("prelude.soft", prelude)
}
