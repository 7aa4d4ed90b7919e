package bistack

import (
	"bytes"
	"testing"

	"pgregory.net/rand"

	core "github.com/bistack/scheduler/corevm"
)

func newTestStack(size int) *Stack {
	return NewStack(make([]byte, size))
}

func TestStack_ZeroStackIsEmpty(t *testing.T) {
	s := newTestStack(64)
	if !s.IsEmptyFront() {
		t.Errorf("expected front to be empty, but it was not")
	}
	if !s.IsEmptyBack() {
		t.Errorf("expected back to be empty, but it was not")
	}
}

func TestStack_PushPopFront(t *testing.T) {
	s := newTestStack(64)
	if err := s.PushFront([]byte{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := []byte{1, 2, 3}, s.BorrowFront(); !bytes.Equal(want, got) {
		t.Errorf("expected %v, got %v", want, got)
	}
	s.PopFront()
	if !s.IsEmptyFront() {
		t.Errorf("expected front to be empty after pop, but it was not")
	}
}

func TestStack_PushPopBack(t *testing.T) {
	s := newTestStack(64)
	if err := s.PushBack([]byte{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := []byte{1, 2, 3}, s.BorrowBack(); !bytes.Equal(want, got) {
		t.Errorf("expected %v, got %v", want, got)
	}
	s.PopBack()
	if !s.IsEmptyBack() {
		t.Errorf("expected back to be empty after pop, but it was not")
	}
}

func TestStack_Bidirectional(t *testing.T) {
	s := newTestStack(64)
	if err := s.PushFront([]byte{1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.PushBack([]byte{3, 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want, got := []byte{1, 2}, s.BorrowFront(); !bytes.Equal(want, got) {
		t.Errorf("expected front %v, got %v", want, got)
	}
	if want, got := []byte{3, 4}, s.BorrowBack(); !bytes.Equal(want, got) {
		t.Errorf("expected back %v, got %v", want, got)
	}
}

func TestStack_MultiplePushFront_MostRecentOnTop(t *testing.T) {
	s := newTestStack(64)
	_ = s.PushFront([]byte{1, 2, 3})
	_ = s.PushFront([]byte{4, 5, 6, 7})

	if want, got := []byte{4, 5, 6, 7}, s.BorrowFront(); !bytes.Equal(want, got) {
		t.Errorf("expected %v, got %v", want, got)
	}
	s.PopFront()
	if want, got := []byte{1, 2, 3}, s.BorrowFront(); !bytes.Equal(want, got) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestStack_EmptyPayload(t *testing.T) {
	s := newTestStack(16)
	if err := s.PushFront(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.BorrowFront(); len(got) != 0 {
		t.Errorf("expected zero-length borrow, got %v", got)
	}
	if want, got := core.LengthSize, s.FrontIndex; want != got {
		t.Errorf("expected front_index %d, got %d", want, got)
	}
}

func TestStack_PushAtExactRemainingCapacity_Succeeds(t *testing.T) {
	// Leave exactly len(data)+LengthSize bytes of capacity.
	s := newTestStack(8 + core.LengthSize)
	if err := s.PushFront(make([]byte, 8)); err != nil {
		t.Fatalf("expected push to succeed at exact capacity, got %v", err)
	}
}

func TestStack_PushOneByteOverCapacity_Fails(t *testing.T) {
	s := newTestStack(8 + core.LengthSize - 1)
	if err := s.PushFront(make([]byte, 8)); err == nil {
		t.Errorf("expected StackCapacity error, got nil")
	} else if err != core.ErrStackCapacity {
		t.Errorf("expected ErrStackCapacity, got %v", err)
	}
}

func TestStack_PopEmpty_IsNoopAndSaturates(t *testing.T) {
	s := newTestStack(32)
	s.PopFront()
	s.PopBack()
	if want, got := 0, s.FrontIndex; want != got {
		t.Errorf("expected front_index %d, got %d", want, got)
	}
	if want, got := len(s.Buffer), s.BackIndex; want != got {
		t.Errorf("expected back_index %d, got %d", want, got)
	}
}

func TestStack_BorrowDoesNotMutateCursors(t *testing.T) {
	s := newTestStack(32)
	_ = s.PushFront([]byte{9, 9})
	_ = s.PushBack([]byte{1, 1})

	frontBefore, backBefore := s.FrontIndex, s.BackIndex
	_ = s.BorrowFront()
	_ = s.BorrowBack()
	if s.FrontIndex != frontBefore || s.BackIndex != backBefore {
		t.Errorf("borrow mutated cursors: front %d->%d back %d->%d", frontBefore, s.FrontIndex, backBefore, s.BackIndex)
	}
}

// TestStack_BalancedFrontSequence_RestoresCursorAndBytes exercises a
// key invariant: any balanced push/pop sequence on one end restores
// that end's cursor and leaves the region below it untouched.
func TestStack_BalancedFrontSequence_RestoresCursorAndBytes(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	s := newTestStack(4096)
	if err := s.PushFront([]byte{0xde, 0xad, 0xbe, 0xef}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	base := s.FrontIndex
	before := append([]byte(nil), s.Buffer[:base]...)

	for round := 0; round < 200; round++ {
		n := r.Intn(32)
		data := make([]byte, n)
		r.Read(data)
		if err := s.PushFront(data); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(s.BorrowFront(), data) {
			t.Fatalf("round %d: borrow mismatch", round)
		}
		s.PopFront()
	}

	if s.FrontIndex != base {
		t.Errorf("expected front_index to return to %d, got %d", base, s.FrontIndex)
	}
	if !bytes.Equal(before, s.Buffer[:base]) {
		t.Errorf("balanced push/pop sequence mutated the region below the starting front_index")
	}
}

func TestStack_BalancedBackSequence_RestoresCursorAndBytes(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	s := newTestStack(4096)

	for round := 0; round < 200; round++ {
		n := r.Intn(32)
		data := make([]byte, n)
		r.Read(data)
		if err := s.PushBack(data); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(s.BorrowBack(), data) {
			t.Fatalf("round %d: borrow mismatch", round)
		}
		s.PopBack()
	}

	if s.BackIndex != len(s.Buffer) {
		t.Errorf("expected back_index to return to %d, got %d", len(s.Buffer), s.BackIndex)
	}
}

// TestStack_DisjointEnds_DoNotCrossInterfere interleaves operations on
// both ends and checks neither end's region is clobbered by the other.
func TestStack_DisjointEnds_DoNotCrossInterfere(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	s := newTestStack(4096)

	var frontStack, backStack [][]byte
	for round := 0; round < 500; round++ {
		if r.Intn(2) == 0 {
			n := r.Intn(16)
			data := make([]byte, n)
			r.Read(data)
			if err := s.PushFront(data); err != nil {
				continue
			}
			frontStack = append(frontStack, data)
		} else {
			n := r.Intn(16)
			data := make([]byte, n)
			r.Read(data)
			if err := s.PushBack(data); err != nil {
				continue
			}
			backStack = append(backStack, data)
		}

		if len(frontStack) > 0 && r.Intn(3) == 0 {
			want := frontStack[len(frontStack)-1]
			if !bytes.Equal(s.BorrowFront(), want) {
				t.Fatalf("round %d: front top corrupted by back operations", round)
			}
			s.PopFront()
			frontStack = frontStack[:len(frontStack)-1]
		}
		if len(backStack) > 0 && r.Intn(3) == 0 {
			want := backStack[len(backStack)-1]
			if !bytes.Equal(s.BorrowBack(), want) {
				t.Fatalf("round %d: back top corrupted by front operations", round)
			}
			s.PopBack()
			backStack = backStack[:len(backStack)-1]
		}
	}
}
