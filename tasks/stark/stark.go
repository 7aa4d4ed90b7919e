// Package stark implements the public-input hashing pipeline a
// proof-bearing account runs to verify a STARK proof's program and
// output segments (grounded on tasks/stark/src/stark_proof/mod.rs for
// HashPublicInputs).
//
// VerifyPublicInput's own source file was never available here — only
// its call sites (client/src/main.rs, client/examples/full_flow.rs)
// and its effect on the stack (tests/hash_public_inputs.rs, which pops
// exactly a program hash then an output hash off the front stack)
// were. This package's VerifyPublicInput completes that forward
// reference: given the two segment lengths a proof-bearing account
// already knows (account.ProofAccount.ProgramInputLength/
// OutputInputLength), it does nothing but hand them to HashPublicInputs,
// which is reproduced field-for-field from stark_proof/mod.rs.
package stark

import (
	"encoding/binary"

	"github.com/bistack/scheduler/bistack"
	"github.com/bistack/scheduler/felt"
	"github.com/bistack/scheduler/registry"
	"github.com/bistack/scheduler/task"
	"github.com/bistack/scheduler/tasks/poseidon"
)

// hashPublicInputsStep mirrors stark_proof/mod.rs's
// HashPublicInputsStep enum exactly.
type hashPublicInputsStep uint8

const (
	stepInit hashPublicInputsStep = iota
	stepProgramHash
	stepOutputHash
	stepDone
)

// HashPublicInputs drives the two child PoseidonHashMany runs (program
// segment, then output segment) and leaves both digests on the front
// stack when done, program hash on top — output hash pushed first and
// program hash after it, so a caller's first borrow_front/pop_front
// sees the program hash,
// matching stark_proof/mod.rs's push order.
type HashPublicInputs struct {
	step               hashPublicInputsStep
	programInputLength int
	outputInputLength  int
	programHash        felt.Felt
}

// NewHashPublicInputs constructs the task over the field-element counts
// for each segment (two per AddrValue, per proof.Proof's layout).
func NewHashPublicInputs(programInputLength, outputInputLength int) *HashPublicInputs {
	return &HashPublicInputs{programInputLength: programInputLength, outputInputLength: outputInputLength}
}

func (h *HashPublicInputs) Execute(stack *bistack.Stack) [][]byte {
	switch h.step {
	case stepInit:
		h.step = stepProgramHash
		return [][]byte{task.EncodeWithTag(poseidon.PoseidonHashManyTag(), poseidon.NewPoseidonHashMany(h.programInputLength))}
	case stepProgramHash:
		h.programHash = felt.FromBytesBESlice(stack.BorrowFront())
		stack.PopFront()
		stack.PopFront()
		stack.PopFront()
		h.step = stepOutputHash
		return [][]byte{task.EncodeWithTag(poseidon.PoseidonHashManyTag(), poseidon.NewPoseidonHashMany(h.outputInputLength))}
	case stepOutputHash:
		outputHash := felt.FromBytesBESlice(stack.BorrowFront())
		stack.PopFront()
		stack.PopFront()
		stack.PopFront()

		outputBytes := outputHash.Bytes()
		programBytes := h.programHash.Bytes()
		_ = stack.PushFront(outputBytes[:])
		_ = stack.PushFront(programBytes[:])

		h.step = stepDone
		return nil
	case stepDone:
		return nil
	}
	return nil
}

func (h *HashPublicInputs) IsFinished() bool {
	return h.step == stepDone
}

func (h *HashPublicInputs) Encode() []byte {
	b := make([]byte, 1+8+8+32)
	b[0] = byte(h.step)
	binary.BigEndian.PutUint64(b[1:9], uint64(h.programInputLength))
	binary.BigEndian.PutUint64(b[9:17], uint64(h.outputInputLength))
	hash := h.programHash.Bytes()
	copy(b[17:49], hash[:])
	return b
}

func (h *HashPublicInputs) Decode(b []byte) error {
	h.step = hashPublicInputsStep(b[0])
	h.programInputLength = int(binary.BigEndian.Uint64(b[1:9]))
	h.outputInputLength = int(binary.BigEndian.Uint64(b[9:17]))
	var lane [32]byte
	copy(lane[:], b[17:49])
	h.programHash = felt.FromBytesBE(lane)
	return nil
}

// VerifyPublicInput kicks off verification of a proof-bearing account's
// already-seeded public memory: it spawns HashPublicInputs over the
// segment lengths it was constructed with and finishes immediately,
// leaving the rest of the work to its child.
type VerifyPublicInput struct {
	programInputLength int
	outputInputLength  int
}

// NewVerifyPublicInput constructs the task for a proof whose program
// and output segments contain the given number of field elements.
func NewVerifyPublicInput(programInputLength, outputInputLength int) *VerifyPublicInput {
	return &VerifyPublicInput{programInputLength: programInputLength, outputInputLength: outputInputLength}
}

func (v *VerifyPublicInput) Execute(stack *bistack.Stack) [][]byte {
	return [][]byte{task.EncodeWithTag(hashPublicInputsTag, NewHashPublicInputs(v.programInputLength, v.outputInputLength))}
}

func (v *VerifyPublicInput) IsFinished() bool { return true }

func (v *VerifyPublicInput) Encode() []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[0:8], uint64(v.programInputLength))
	binary.BigEndian.PutUint64(b[8:16], uint64(v.outputInputLength))
	return b
}

func (v *VerifyPublicInput) Decode(b []byte) error {
	v.programInputLength = int(binary.BigEndian.Uint64(b[0:8]))
	v.outputInputLength = int(binary.BigEndian.Uint64(b[8:16]))
	return nil
}

var (
	hashPublicInputsTag  = registry.Register("stark.HashPublicInputs", func() task.Executable { return &HashPublicInputs{} })
	verifyPublicInputTag = registry.Register("stark.VerifyPublicInput", func() task.Executable { return &VerifyPublicInput{} })
)

// HashPublicInputsTag and VerifyPublicInputTag expose the registered
// type tags.
func HashPublicInputsTag() uint32  { return hashPublicInputsTag }
func VerifyPublicInputTag() uint32 { return verifyPublicInputTag }

