// Package softtest provides a table-driven harness for interpreter tests.
package softtest

import (
	"bytes"
	"os"
	"testing"

	"github.com/aripiprazole/soft/lisp"
	"github.com/aripiprazole/soft/lisp/lisplib"
	"github.com/aripiprazole/soft/parser"
)

// Runner constructs interpreter environments for tests.
type Runner struct {
	// Loader initializes the library in new environments.  When Loader is
	// nil lisplib.LoadLibrary is used.
	Loader func(*lisp.LEnv) *lisp.LVal

	// Output captures everything the print primitive writes.
	Output bytes.Buffer
}

// NewEnv returns a fresh root environment with the primitives and the
// library loaded.
func (r *Runner) NewEnv(t *testing.T) *lisp.LEnv {
	t.Helper()
	env := lisp.NewEnv(nil)
	lerr := lisp.InitializeUserEnv(env,
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(&r.Output),
	)
	if lerr.Type == lisp.LError {
		t.Fatalf("failed to initialize environment: %v", lerr)
	}
	loader := r.Loader
	if loader == nil {
		loader = lisplib.LoadLibrary
	}
	lerr = loader(env)
	if lerr.Type == lisp.LError {
		t.Fatalf("failed to load library: %v", lerr)
	}
	return env
}

// TestSequence is a sequence of expressions which are evaluated
// sequentially by a shared environment.
type TestSequence []struct {
	Expr   string // an expression
	Result string // the printed result
}

// TestSuite is a set of named TestSequences.
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence on an isolated environment.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for _, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			r := &Runner{}
			env := r.NewEnv(t)
			for j, expr := range test.TestSequence {
				vs, err := parser.ParseString("test", expr.Expr)
				if err != nil {
					t.Errorf("expr %d: parse error: %v", j, err)
					continue
				}
				if len(vs) != 1 {
					t.Errorf("expr %d: expected one expression (got %d)", j, len(vs))
					continue
				}
				result := env.Eval(vs[0]).String()
				if result != expr.Result {
					t.Errorf("expr %d: %s: expected result %s (got %s)", j, expr.Expr, expr.Result, result)
				}
			}
		})
	}
}

// RunTestFile loads and evaluates a source file in a fresh environment,
// failing the test on any error.
func (r *Runner) RunTestFile(t *testing.T, path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unable to read test file: %v", err)
	}
	env := r.NewEnv(t)
	lerr := env.Load(path, bytes.NewReader(source))
	if lerr.Type == lisp.LError {
		t.Errorf("%s: %v", path, lisp.GoError(lerr))
		if lerr.Stack != nil {
			var buf bytes.Buffer
			lerr.Stack.DebugPrint(&buf)
			t.Error(buf.String())
		}
	}
}
