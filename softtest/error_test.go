package softtest

import "testing"

func TestErrors(t *testing.T) {
	tests := TestSuite{
		{"type mismatch", TestSequence{
			{"(head 3)", "type-mismatch: head: argument is not a pair: int"},
			{"(tail ())", "type-mismatch: tail: argument is not a pair: nil"},
			{"(+ 'x)", "type-mismatch: +: argument is not an int: symbol"},
			{"(3 4)", "type-mismatch: first element of expression is not a function: 3"},
		}},
		{"unbound symbols", TestSequence{
			{"(foo)", "unbound-symbol: unbound symbol: foo"},
			{"foo", "unbound-symbol: unbound symbol: foo"},
			{"(set! undefined 1)", "unbound-symbol: unbound symbol: undefined"},
		}},
		{"arity", TestSequence{
			{"(defun f2 (x y) x)", "()"},
			{"(f2 1)", "arity-mismatch: f2: expected 2 arguments (got 1)"},
			{"(f2 1 2 3)", "arity-mismatch: f2: expected 2 arguments (got 3)"},
			{"(head 1 2)", "arity-mismatch: head: expected 1 arguments (got 2)"},
		}},
		{"user errors", TestSequence{
			{"(throw :boom)", "user-error: :boom"},
			{"(throw '(some data))", "user-error: (some data)"},
		}},
		{"no match", TestSequence{
			{"(cond (() 'never))", "no-match: cond: no branch matched"},
		}},
		{"numeric errors", TestSequence{
			{"(/ 1 0)", "type-mismatch: /: division by zero"},
			{"(- 1 2)", "type-mismatch: -: integer underflow: 1 - 2"},
		}},
		{"try and catch", TestSequence{
			{"(try (throw :boom) (catch e e))", ":boom"},
			{"(try (+ 1 2) (catch e 'caught))", "3"},
			{"(try (cond (() 1)) (catch e 'no-branch))", "no-branch"},
			// Non-user errors pass through uncaught.
			{"(try (head 3) (catch e 'caught))", "type-mismatch: head: argument is not a pair: int"},
			// The environment at the catch point is intact.
			{"(block (let x 1) (try (throw :boom) (catch e x)))", "1"},
		}},
		{"errors unwind evaluation", TestSequence{
			{"(block (throw :stop) (throw :never-reached))", "user-error: :stop"},
			{"(+ 1 (head ()))", "type-mismatch: head: argument is not a pair: nil"},
		}},
	}
	RunTestSuite(t, tests)
}

func TestStackOverflow(t *testing.T) {
	tests := TestSuite{
		{"runaway recursion is an error", TestSequence{
			{"(defun loop-forever (n) (+ 1 (loop-forever n)))", "()"},
			{"(loop-forever 1)", "user-error: maximum stack height reached: 25000"},
		}},
	}
	RunTestSuite(t, tests)
}
