package arithmetic

import (
	"encoding/binary"
	"testing"

	"github.com/bistack/scheduler/bistack"
	"github.com/bistack/scheduler/scheduler"
	"github.com/bistack/scheduler/task"
)

func result128(stack *bistack.Stack) uint64 {
	b := stack.BorrowFront()
	return binary.BigEndian.Uint64(b[8:16])
}

func TestAdd_Scenario(t *testing.T) {
	stack := bistack.NewStack(make([]byte, 4096))
	s := scheduler.New(stack)

	if err := s.PushTask(task.EncodeWithTag(addTag, NewAdd(48, 52))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.RunToCompletion(10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result128(stack); got != 100 {
		t.Errorf("Add(48,52) = %d, want 100", got)
	}
}

func TestMul_Scenario(t *testing.T) {
	stack := bistack.NewStack(make([]byte, 4096))
	s := scheduler.New(stack)

	if err := s.PushTask(task.EncodeWithTag(mulTag, NewMul(5, 7))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.RunToCompletion(100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result128(stack); got != 35 {
		t.Errorf("Mul(5,7) = %d, want 35", got)
	}
}

func TestMul_ZeroScenario(t *testing.T) {
	stack := bistack.NewStack(make([]byte, 4096))
	s := scheduler.New(stack)

	if err := s.PushTask(task.EncodeWithTag(mulTag, NewMul(9, 0))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.RunToCompletion(10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result128(stack); got != 0 {
		t.Errorf("Mul(9,0) = %d, want 0", got)
	}
}

func TestMul_EachStepIsBounded(t *testing.T) {
	stack := bistack.NewStack(make([]byte, 4096))
	s := scheduler.New(stack)

	if err := s.PushTask(task.EncodeWithTag(mulTag, NewMul(3, 1000))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	steps, err := s.RunToCompletion(5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result128(stack); got != 3000 {
		t.Errorf("Mul(3,1000) = %d, want 3000", got)
	}
	if steps < 1000 {
		t.Errorf("expected Mul(3,1000) to take at least 1000 scheduler steps, took %d", steps)
	}
}

func TestExp_Scenario(t *testing.T) {
	stack := bistack.NewStack(make([]byte, 4096))
	s := scheduler.New(stack)

	if err := s.PushTask(task.EncodeWithTag(expTag, NewExp(2, 10))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.RunToCompletion(2000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result128(stack); got != 1024 {
		t.Errorf("Exp(2,10) = %d, want 1024", got)
	}
}

func TestExp_ZeroExponentScenario(t *testing.T) {
	stack := bistack.NewStack(make([]byte, 4096))
	s := scheduler.New(stack)

	if err := s.PushTask(task.EncodeWithTag(expTag, NewExp(9, 0))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.RunToCompletion(10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result128(stack); got != 1 {
		t.Errorf("Exp(9,0) = %d, want 1", got)
	}
}

func TestFibonacci_Scenario(t *testing.T) {
	stack := bistack.NewStack(make([]byte, 8192))
	s := scheduler.New(stack)

	if err := s.PushTask(task.EncodeWithTag(fibonacciTag, &Fibonacci{N: 19})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.RunToCompletion(10000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result128(stack); got != 4181 {
		t.Errorf("Fibonacci(19) = %d, want 4181", got)
	}
}

func TestFibonacci_BaseCases(t *testing.T) {
	for n, want := range map[uint32]uint64{0: 0, 1: 1} {
		stack := bistack.NewStack(make([]byte, 1024))
		s := scheduler.New(stack)
		if err := s.PushTask(task.EncodeWithTag(fibonacciTag, &Fibonacci{N: n})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := s.RunToCompletion(10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := result128(stack); got != want {
			t.Errorf("Fibonacci(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestMulSat128_Overflow(t *testing.T) {
	max := [2]uint64{^uint64(0), ^uint64(0)}
	got := mulSat128(max, [2]uint64{0, 2})
	if got != max {
		t.Errorf("expected saturation on overflow, got %v", got)
	}
}

func TestAddSat128_Overflow(t *testing.T) {
	max := [2]uint64{^uint64(0), ^uint64(0)}
	got := addSat128(max, [2]uint64{0, 1})
	if got != max {
		t.Errorf("expected saturation on overflow, got %v", got)
	}
}
