package lisp

import (
	"fmt"
	"io"
)

// DefaultMaxStackHeight bounds call-stack growth before evaluation is
// aborted with a runtime error.
const DefaultMaxStackHeight = 25000

// CallStack records the chain of function calls for error reporting and to
// bound runaway recursion.
type CallStack struct {
	Frames    []CallFrame
	MaxHeight int
}

// CallFrame is one frame in the CallStack.
type CallFrame struct {
	FID  string
	Name string
}

// Copy creates a copy of the current stack so that it can be attached to a
// runtime error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{Frames: frames, MaxHeight: s.MaxHeight}
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Height returns the number of frames on the stack.
func (s *CallStack) Height() int {
	return len(s.Frames)
}

// Push pushes a new stack frame.  It fails when the stack has reached its
// maximum height.
func (s *CallStack) Push(fid, name string) *LVal {
	if s.MaxHeight > 0 && len(s.Frames) >= s.MaxHeight {
		return Errorf(ErrUser, "maximum stack height reached: %d", s.MaxHeight)
	}
	s.Frames = append(s.Frames, CallFrame{FID: fid, Name: name})
	return Nil()
}

// Truncate drops frames until the stack height is n.  Evaluation uses
// Truncate to unwind to the height recorded at entry, which also restores
// the frame stack to the catch point when an error is caught.
func (s *CallStack) Truncate(n int) {
	if n < 0 || n > len(s.Frames) {
		return
	}
	s.Frames = s.Frames[:n]
}

// DebugPrint prints s.
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	for i := len(s.Frames) - 1; i >= 0; i-- {
		f := s.Frames[i]
		name := f.FID
		if f.Name != "" {
			name = f.Name
		}
		_n, err := fmt.Fprintf(w, "  height %d: %s\n", i, name)
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
