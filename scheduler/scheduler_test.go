package scheduler

import (
	"encoding/binary"
	"testing"

	"github.com/bistack/scheduler/bistack"
	"github.com/bistack/scheduler/registry"
	"github.com/bistack/scheduler/task"
)

// countdown is a minimal iterated task used only to exercise the
// scheduler's persist-across-steps and finish-and-pop behavior: it
// decrements remaining each step until it reaches zero, then on the
// next step pushes "done" to the front stack and finishes.
type countdown struct {
	remaining uint32
	// done is set by the step that pushes "done". It is not encoded:
	// that step also finishes the task, so its frame is popped rather
	// than persisted.
	done bool
}

func (c *countdown) Encode() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, c.remaining)
	return b
}

func (c *countdown) Decode(b []byte) error {
	c.remaining = binary.BigEndian.Uint32(b)
	return nil
}

func (c *countdown) Execute(stack *bistack.Stack) [][]byte {
	if c.remaining == 0 {
		_ = stack.PushFront([]byte("done"))
		c.done = true
		return nil
	}
	c.remaining--
	return nil
}

func (c *countdown) IsFinished() bool {
	return c.done
}

var countdownTag = registry.Register("scheduler_test.countdown", func() task.Executable { return &countdown{} })

func TestScheduler_Step_EmptyIsNoop(t *testing.T) {
	s := New(bistack.NewStack(make([]byte, 256)))
	if err := s.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScheduler_Step_IteratesUntilFinished(t *testing.T) {
	s := New(bistack.NewStack(make([]byte, 256)))

	encoded := task.EncodeWithTag(countdownTag, &countdown{remaining: 3})
	if err := s.PushTask(encoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps, err := s.RunToCompletion(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3 steps to decrement to zero, + 1 step where remaining==0 pushes
	// "done" and finishes.
	if want, got := 4, steps; want != got {
		t.Errorf("expected %d steps, got %d", want, got)
	}
	if !s.IsEmpty() {
		t.Errorf("expected task stack to be empty after completion")
	}
	if want, got := "done", string(s.Stack.BorrowFront()); want != got {
		t.Errorf("expected front data %q, got %q", want, got)
	}
}

func TestScheduler_Step_UnknownTag(t *testing.T) {
	s := New(bistack.NewStack(make([]byte, 256)))
	bogus := make([]byte, 4)
	binary.BigEndian.PutUint32(bogus, 0xdeadbeef)
	if err := s.PushTask(bogus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Step(); err == nil {
		t.Errorf("expected UnknownTag error, got nil")
	}
}
