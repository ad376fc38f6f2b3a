package lisp

import "fmt"

// Condition codes attached to LError values.  They mirror the error kinds
// surfaced to the user by the top-level driver.
const (
	ErrParse   = "parse-error"
	ErrUnbound = "unbound-symbol"
	ErrType    = "type-mismatch"
	ErrArity   = "arity-mismatch"
	ErrFfi     = "ffi-error"
	ErrUser    = "user-error"
	ErrNoMatch = "no-match"
)

// ErrorVal implements the error interface so that errors can be first class
// lisp objects.  The error message is stored in the Str field, the condition
// code in Condition, and a thrown value (if any) in Head.
type ErrorVal LVal

// Error implements the error interface.
func (e *ErrorVal) Error() string {
	if e.Condition == ErrUser && e.Head != nil {
		return fmt.Sprintf("%s: %s", e.Condition, e.Head)
	}
	if e.Condition != "" {
		return fmt.Sprintf("%s: %s", e.Condition, e.Str)
	}
	return e.Str
}

// GoError converts v into a Go error.  It returns nil when v is not an
// LError.
func GoError(v *LVal) error {
	if v.Type != LError {
		return nil
	}
	return (*ErrorVal)(v)
}

// Error returns an LError value with the given condition code and message.
func Error(condition string, msg string) *LVal {
	return &LVal{
		Type:      LError,
		Condition: condition,
		Str:       msg,
	}
}

// Errorf returns an LError value with a formatted message and the given
// condition code.
func Errorf(condition string, format string, v ...interface{}) *LVal {
	return Error(condition, fmt.Sprintf(format, v...))
}

// ThrownError returns the LError produced by (throw v).  The thrown value is
// carried verbatim in Head.
func ThrownError(v *LVal) *LVal {
	lerr := Errorf(ErrUser, "uncaught value: %s", v)
	lerr.Head = v
	return lerr
}
