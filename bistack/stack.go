// Package bistack implements the bidirectional stack: two LIFO regions
// growing toward each other from opposite ends of one fixed-size byte
// buffer. The front holds data frames, the back holds task frames (spec
// §3, §4.1).
package bistack

import (
	"encoding/binary"

	core "github.com/bistack/scheduler/corevm"
)

// Stack is the bidirectional stack over a caller-owned byte slice. It
// does not own the backing array: callers (account.Account and its
// proof-bearing variant) embed it and hand it a slice view of their own
// buffer, so the same logic applies whether or not a proof region
// precedes the stack in memory.
type Stack struct {
	FrontIndex int
	BackIndex  int
	Buffer     []byte
}

// NewStack returns a Stack over buf with cursors reset to the empty
// state: front at 0, back at len(buf).
func NewStack(buf []byte) *Stack {
	return &Stack{FrontIndex: 0, BackIndex: len(buf), Buffer: buf}
}

// Reset restores the cursors to the empty state without touching the
// backing buffer's capacity (the buffer is zeroed by the caller if a
// true wipe is required).
func (s *Stack) Reset() {
	s.FrontIndex = 0
	s.BackIndex = len(s.Buffer)
}

func (s *Stack) availableCapacity() int {
	if s.BackIndex < s.FrontIndex {
		return 0
	}
	return s.BackIndex - s.FrontIndex
}

// PushFront appends data and its LENGTH_SIZE-byte little-endian length
// prefix to the front region.
func (s *Stack) PushFront(data []byte) error {
	if s.availableCapacity() < len(data)+core.LengthSize {
		return core.ErrStackCapacity
	}
	copy(s.Buffer[s.FrontIndex:], data)
	s.FrontIndex += len(data)
	binary.LittleEndian.PutUint16(s.Buffer[s.FrontIndex:], uint16(len(data)))
	s.FrontIndex += core.LengthSize
	return nil
}

// PushBack prepends a LENGTH_SIZE-byte little-endian length and data to
// the back region, writing the length descending and the payload in
// reverse as the cursor decrements, so a forward read starting at the
// new BackIndex yields [len_LE ‖ payload] in natural order.
func (s *Stack) PushBack(data []byte) error {
	if s.availableCapacity() < len(data)+core.LengthSize {
		return core.ErrStackCapacity
	}
	for i := len(data) - 1; i >= 0; i-- {
		s.BackIndex--
		s.Buffer[s.BackIndex] = data[i]
	}
	length := uint16(len(data))
	for i := core.LengthSize - 1; i >= 0; i-- {
		s.BackIndex--
		s.Buffer[s.BackIndex] = byte(length >> (8 * uint(i)))
	}
	return nil
}

// PopFront advances FrontIndex past the topmost frame. A pop on an
// empty stack is a no-op; the cursor saturates at 0.
func (s *Stack) PopFront() {
	if s.IsEmptyFront() {
		return
	}
	length := binary.LittleEndian.Uint16(s.Buffer[s.FrontIndex-core.LengthSize : s.FrontIndex])
	s.FrontIndex -= core.LengthSize + int(length)
}

// PopBack advances BackIndex past the topmost frame. A pop on an empty
// stack is a no-op; the cursor saturates at len(Buffer).
func (s *Stack) PopBack() {
	if s.IsEmptyBack() {
		return
	}
	length := binary.LittleEndian.Uint16(s.Buffer[s.BackIndex : s.BackIndex+core.LengthSize])
	s.BackIndex += core.LengthSize + int(length)
}

// BorrowFront returns a slice aliasing the topmost front payload without
// mutating cursors.
func (s *Stack) BorrowFront() []byte {
	if s.IsEmptyFront() {
		return nil
	}
	length := int(binary.LittleEndian.Uint16(s.Buffer[s.FrontIndex-core.LengthSize : s.FrontIndex]))
	start := s.FrontIndex - core.LengthSize - length
	return s.Buffer[start : start+length]
}

// BorrowBack returns a slice aliasing the topmost back payload without
// mutating cursors.
func (s *Stack) BorrowBack() []byte {
	if s.IsEmptyBack() {
		return nil
	}
	length := int(binary.LittleEndian.Uint16(s.Buffer[s.BackIndex : s.BackIndex+core.LengthSize]))
	start := s.BackIndex + core.LengthSize
	return s.Buffer[start : start+length]
}

// BorrowMutFront is BorrowFront's mutable counterpart.
func (s *Stack) BorrowMutFront() []byte {
	return s.BorrowFront()
}

// BorrowMutBack is BorrowBack's mutable counterpart.
func (s *Stack) BorrowMutBack() []byte {
	return s.BorrowBack()
}

// IsEmptyFront reports whether the front (data) stack holds no frames.
func (s *Stack) IsEmptyFront() bool {
	return s.FrontIndex == 0
}

// IsEmptyBack reports whether the back (task) stack holds no frames.
func (s *Stack) IsEmptyBack() bool {
	return s.BackIndex == len(s.Buffer)
}
