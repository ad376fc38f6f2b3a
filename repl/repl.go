// Package repl implements the interactive interpreter driver.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/aripiprazole/soft/lisp"
	"github.com/aripiprazole/soft/lisp/lisplib"
	"github.com/aripiprazole/soft/parser"
)

// NewEnv returns a root environment initialized for interactive use.
func NewEnv() (*lisp.LEnv, error) {
	env := lisp.NewEnv(nil)
	lerr := lisp.InitializeUserEnv(env, lisp.WithReader(parser.NewReader()))
	if lerr.Type == lisp.LError {
		return nil, lisp.GoError(lerr)
	}
	lerr = lisplib.LoadLibrary(env)
	if lerr.Type == lisp.LError {
		return nil, lisp.GoError(lerr)
	}
	return env, nil
}

// RunRepl reads expressions line by line, evaluating each completed form in
// a shared root environment.  Incomplete forms accumulate across lines.
func RunRepl(prompt string) error {
	env, err := NewEnv()
	if err != nil {
		return err
	}

	rl, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer rl.Close()
	contPrompt := strings.Repeat(" ", len(prompt))

	var buf []byte
	for {
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			buf = nil
			rl.SetPrompt(prompt)
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(buf) != 0 {
			buf = append(buf, '\n')
			line = append(buf, line...)
			buf = nil
			rl.SetPrompt(prompt)
		}
		if len(line) == 0 {
			continue
		}
		forms, err := parser.ParseString("repl", string(line))
		if errors.Is(err, parser.ErrIncomplete) {
			buf = line
			rl.SetPrompt(contPrompt)
			continue
		}
		if err != nil {
			errln(err)
			continue
		}
		for _, form := range forms {
			ret := env.Eval(form)
			if ret.Type == lisp.LError {
				printError(env, ret)
				break
			}
			fmt.Println(ret)
		}
	}
}

func printError(env *lisp.LEnv, lerr *lisp.LVal) {
	errln(lisp.GoError(lerr))
	if lerr.Stack != nil && lerr.Stack.Height() > 0 {
		lerr.Stack.DebugPrint(env.Runtime.Stderr)
	}
}

func errln(v ...interface{}) {
	fmt.Fprintln(os.Stderr, v...)
}
