// Package scheduler implements the one-step driver loop: read the tag
// at the back of the stack, dispatch to the registered task type,
// apply the returned continuation, and pop the task frame if it
// reports itself finished.
package scheduler

import (
	"encoding/binary"

	"github.com/bistack/scheduler/bistack"
	core "github.com/bistack/scheduler/corevm"
	"github.com/bistack/scheduler/registry"
	"github.com/bistack/scheduler/task"
)

// Scheduler is the contract a stack-owning account exposes over its
// bidirectional stack: plain task/data push and pop, plus Step for the
// single-bounded-step continuation bookkeeping.
type Scheduler struct {
	Stack *bistack.Stack
}

// New wraps stack in a Scheduler.
func New(stack *bistack.Stack) *Scheduler {
	return &Scheduler{Stack: stack}
}

// PushTask pushes an already-tagged task frame (typically produced by
// task.EncodeWithTag) onto the back stack.
func (s *Scheduler) PushTask(encoded []byte) error {
	return s.Stack.PushBack(encoded)
}

// PushData pushes a data frame onto the front stack.
func (s *Scheduler) PushData(data []byte) error {
	return s.Stack.PushFront(data)
}

// PopTask discards the topmost task frame without dispatching it.
func (s *Scheduler) PopTask() {
	s.Stack.PopBack()
}

// PopData discards the topmost data frame.
func (s *Scheduler) PopData() {
	s.Stack.PopFront()
}

// IsEmpty reports whether the task stack holds no more work.
func (s *Scheduler) IsEmpty() bool {
	return s.Stack.IsEmptyBack()
}

// Step performs exactly one unit of work: one task Execute call plus
// O(children) pushes. It is a no-op if the task stack is empty.
// UnknownTag is returned, without mutating the stack, if the tag at
// the back of the stack is not present in the process's registry —
// that is a fatal, host-visible condition (version skew between writer
// and reader), not a recoverable engine fault.
func (s *Scheduler) Step() error {
	if s.Stack.IsEmptyBack() {
		return nil
	}

	frame := s.Stack.BorrowBack()
	if len(frame) < core.TypeTagSize {
		return core.ErrInvalidAccountData
	}
	tag := binary.BigEndian.Uint32(frame[:core.TypeTagSize])
	body := frame[core.TypeTagSize:]

	factory, found := registry.Lookup(tag)
	if !found {
		return core.ErrUnknownTag
	}

	t := factory()
	codec, ok := t.(task.Codec)
	if !ok {
		return core.ErrInvalidAccountData
	}
	if err := codec.Decode(body); err != nil {
		return core.ErrInvalidAccountData
	}

	children := t.Execute(s.Stack)
	finished := t.IsFinished()

	if finished {
		s.Stack.PopBack()
	} else {
		// Persist the task's mutated state back into its own frame
		// before any children are pushed below it, since PushBack
		// shifts BackIndex and would otherwise leave a stale frame
		// in place of the live one.
		copy(body, codec.Encode())
	}

	for i := len(children) - 1; i >= 0; i-- {
		if err := s.Stack.PushBack(children[i]); err != nil {
			return err
		}
	}
	return nil
}

// RunToCompletion steps until the task stack is empty. It exists for
// tests and the CLI's demo mode; the engine itself is never driven this
// way in production, since a single host invocation must call Step (or
// the Execute opcode) at most once.
func (s *Scheduler) RunToCompletion(maxSteps int) (int, error) {
	steps := 0
	for !s.IsEmpty() {
		if steps >= maxSteps {
			return steps, core.ConstError("scheduler: exceeded maxSteps without terminating")
		}
		if err := s.Step(); err != nil {
			return steps, err
		}
		steps++
	}
	return steps, nil
}
