// Package task defines the Executable contract every task type
// satisfies: a bounded step function, a finished predicate, and a
// byte-level codec used to revive the task from its frame on the back
// stack.
package task

import "github.com/bistack/scheduler/bistack"

// Executable is the shape every task type implements. A single Execute
// call must do a bounded amount of work — the per-invocation compute
// budget is a host concern this contract exists to respect.
type Executable interface {
	// Execute performs one step, reading and writing the stack as
	// needed, and returns zero or more encoded child tasks (each
	// already carrying its own type-tag prefix via EncodeWithTag) to be
	// scheduled next, in the order they should execute.
	Execute(stack *bistack.Stack) [][]byte

	// IsFinished reports whether the scheduler must pop this task's
	// frame after the current step. Every task type implements it;
	// iterated tasks return false until their last step, and the
	// scheduler persists their state back into the frame meanwhile.
	IsFinished() bool
}

// Codec is the byte-level view of a task's state: encoding it to the
// exact bytes stored in its back-stack frame (minus the type tag, which
// the registry owns) and restoring it from those bytes. Implemented
// with encoding/binary rather than an unsafe.Pointer cast, so a task's
// in-memory layout never has to match its on-disk layout byte-for-byte.
type Codec interface {
	Encode() []byte
	Decode([]byte) error
}

// TypeTag computes the 32-bit FNV-1a hash of a fully-qualified type
// path, used as the stable, build-time type tag prefixing every task
// frame.
func TypeTag(qualifiedName string) uint32 {
	const fnvOffsetBasis uint32 = 2166136261
	const fnvPrime uint32 = 16777619

	hash := fnvOffsetBasis
	for i := 0; i < len(qualifiedName); i++ {
		hash ^= uint32(qualifiedName[i])
		hash *= fnvPrime
	}
	return hash
}

// EncodeWithTag prepends tag, big-endian, to the task's encoded field
// image, producing the exact bytes a back-stack frame's payload holds.
func EncodeWithTag(tag uint32, t Codec) []byte {
	body := t.Encode()
	out := make([]byte, 4+len(body))
	out[0] = byte(tag >> 24)
	out[1] = byte(tag >> 16)
	out[2] = byte(tag >> 8)
	out[3] = byte(tag)
	copy(out[4:], body)
	return out
}
