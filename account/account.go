// Package account implements the on-disk account buffer layouts (spec
// §3, §4.6, §6): the plain bidirectional-stack account and the
// proof-bearing variant that additionally carries a deserialized STARK
// proof ahead of the stack region.
package account

import (
	"encoding/binary"

	"github.com/bistack/scheduler/bistack"
	core "github.com/bistack/scheduler/corevm"
)

// Account is the plain account buffer: the two stack cursors and the
// fixed-size stack buffer. Encode and Decode convert it to and from the
// on-disk layout (two 8-byte cursors followed by the buffer) a host
// persists.
type Account struct {
	stack bistack.Stack
	raw   [core.Capacity]byte
}

// New returns a zero-initialized Account with cursors reset to the
// empty state (front=0, back=Capacity).
func New() *Account {
	a := &Account{}
	a.stack.Buffer = a.raw[:]
	a.stack.Reset()
	return a
}

// Stack exposes the account's bidirectional stack to a scheduler.
func (a *Account) Stack() *bistack.Stack {
	return &a.stack
}

// Encode serializes the account to its canonical on-disk layout:
// [front_index:8 LE][back_index:8 LE][buffer:Capacity].
func (a *Account) Encode() []byte {
	out := make([]byte, 8+8+core.Capacity)
	binary.LittleEndian.PutUint64(out[0:8], uint64(a.stack.FrontIndex))
	binary.LittleEndian.PutUint64(out[8:16], uint64(a.stack.BackIndex))
	copy(out[16:], a.raw[:])
	return out
}

// Decode restores an Account from bytes produced by Encode. It returns
// ErrInvalidAccountData if the slice is not exactly the expected size.
func Decode(data []byte) (*Account, error) {
	if len(data) != 16+core.Capacity {
		return nil, core.ErrInvalidAccountData
	}
	a := &Account{}
	a.stack.FrontIndex = int(binary.LittleEndian.Uint64(data[0:8]))
	a.stack.BackIndex = int(binary.LittleEndian.Uint64(data[8:16]))
	copy(a.raw[:], data[16:])
	a.stack.Buffer = a.raw[:]
	return a, nil
}

// SetAccountData copies bytes into the account's raw buffer starting at
// offset, implementing the SetAccountData opcode. It does not touch the
// stack cursors; callers seeding initial state are expected to write
// the cursor bytes themselves through the same mechanism when operating
// on the raw on-disk image, or to use Account.Stack().Reset() when
// operating on a live in-memory Account.
func (a *Account) SetAccountData(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > len(a.raw) {
		return core.ErrInvalidAccountData
	}
	copy(a.raw[offset:], data)
	return nil
}

// ResetAndZero restores the account to its freshly-constructed state:
// stack cursors back to (0, Capacity) and the buffer zeroed, the
// Initialize opcode's documented behavior.
func (a *Account) ResetAndZero() {
	for i := range a.raw {
		a.raw[i] = 0
	}
	a.stack.Reset()
}
