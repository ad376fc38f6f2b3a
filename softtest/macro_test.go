package softtest

import "testing"

func TestMacros(t *testing.T) {
	tests := TestSuite{
		{"defmacro", TestSequence{
			{"(defmacro m0 () ~(+ 1 1))", "()"},
			{"(defmacro m1 (x) ~(+ ,x 1))", "()"},
			{"(defmacro m2 (x y) ~(+ ,x ,y))", "()"},
			{"(m0)", "2"},
			{"(m1 1)", "2"},
			{"(m2 1 2)", "3"},
			{"(expand '(m0))", "(+ 1 1)"},
			{"(expand '(m1 (* 2 3)))", "(+ (* 2 3) 1)"},
		}},
		{"defun through defmacro", TestSequence{
			{"(defun sq (x) (* x x))", "()"},
			{"(sq 9)", "81"},
			{"(expand '(sq 9))", "(sq 9)"},
		}},
		{"unevaluated arguments", TestSequence{
			// The argument form reaches the macro body unevaluated.
			{"(defmacro reverse-call (form) (reverse form))", "()"},
			{"(reverse-call (2 10 -))", "8"},
		}},
		{"quasiquote", TestSequence{
			{"~x", "x"},
			{"~(a b)", "(a b)"},
			{"(block (let x 5) ~(a ,x b))", "(a 5 b)"},
			{"(block (let x '(1 2)) ~(a ,x b))", "(a (1 2) b)"},
			{"~(a ~(+ 1 2) b)", "(a 3 b)"},
			{"(eq ~(a b c) '(a b c))", "true"},
		}},
		{"namespaces are disjoint", TestSequence{
			// A name may be a function and a macro simultaneously; the
			// evaluator picks by syntactic position.
			{"(set* twice (fn* twice (x) (* 3 x)))", "()"},
			{"(setm* twice (fn* twice (x) ~(+ ,x ,x)))", "()"},
			// Head position goes through the macro namespace...
			{"(twice 21)", "42"},
			// ...while value position sees the function binding.
			{"(apply twice '(21))", "63"},
			{"(expand '(twice 3))", "(+ 3 3)"},
		}},
		{"cond", TestSequence{
			{"(cond ((nil? ()) 'first) ('true 'second))", "first"},
			{"(cond ((nil? '(1)) 'first) ('true 'second))", "second"},
			{"(defun classify (n) (cond ((< n 10) 'small) ((< n 100) 'medium) ('true 'large)))", "()"},
			{"(classify 5)", "small"},
			{"(classify 50)", "medium"},
			{"(classify 500)", "large"},
		}},
		{"recursive macro expansion", TestSequence{
			// A macro that expands into another macro call keeps expanding
			// until the head is no longer a macro.
			{"(defmacro add-one (x) ~(+ 1 ,x))", "()"},
			{"(defmacro add-two (x) ~(add-one (add-one ,x)))", "()"},
			{"(add-two 40)", "42"},
			{"(expand '(add-two 1))", "(+ 1 (+ 1 1))"},
		}},
		{"gensym", TestSequence{
			{"(eq (gensym) (gensym))", "()"},
			{"(sym? (gensym))", "true"},
		}},
	}
	RunTestSuite(t, tests)
}

func TestExpandIdempotent(t *testing.T) {
	tests := TestSuite{
		{"expand is idempotent on expanded forms", TestSequence{
			{"(eq (expand '(if a b c)) (expand (expand '(if a b c))))", "true"},
			{"(eq (expand '(+ 1 2)) (expand (expand '(+ 1 2))))", "true"},
			{"(defmacro m1 (x) ~(+ ,x 1))", "()"},
			{"(eq (expand '(m1 2)) (expand (expand '(m1 2))))", "true"},
		}},
	}
	RunTestSuite(t, tests)
}
