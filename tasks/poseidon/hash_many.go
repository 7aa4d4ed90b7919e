package poseidon

import (
	"encoding/binary"

	"github.com/bistack/scheduler/bistack"
	"github.com/bistack/scheduler/felt"
	"github.com/bistack/scheduler/registry"
	"github.com/bistack/scheduler/task"
)

// sponge rate: lanes 0 and 1 absorb input, lane 2 is the capacity and is
// never written to directly by the caller (standard Poseidon sponge
// parameterization, matching hades.rs's 3-lane state with a 2-element
// rate implied by poseidon_hash_many's pairwise absorption).
const rate = 2

// hashManyPhase tracks PoseidonHashMany's position in its
// absorb-then-permute loop, ending in phaseDone once the final digest
// has been pushed.
type hashManyPhase uint8

const (
	phaseAbsorb hashManyPhase = iota
	phasePermute
	phaseDone
)

// PoseidonHashMany hashes a run of field elements already sitting on
// the front stack using the standard Starknet poseidon_hash_many
// padding rule: a run that is not a multiple of the rate is padded with
// a single 1 element and the length is rounded up to the next multiple
// of the rate. mod.rs and hades.rs define the permutation this absorbs
// into; the concrete PoseidonHashMany source (forward-referenced by
// stark_proof/mod.rs's HashPublicInputs) was not part of this retrieval
// pack, so its absorb/squeeze loop here is this package's own
// completion of that forward reference, built from the same mix/round
// machinery hades.rs already grounds.
//
// State is two plain counters, not a buffered slice: realRemaining
// counts real input elements still to pop off the front stack, and
// totalRemaining counts absorptions still owed including the pad
// element, if any. Popping one element of input per lane as it is
// absorbed — rather than draining the whole run into a slice up front
// — keeps the task's persisted state a fixed handful of integers and
// Felts instead of a buffer that shrinks every step.
//
// On construction it expects `length` field elements to already be on
// top of the front stack (most-recently-pushed first); it pops them as
// it absorbs, two lanes per permutation block. When fully squeezed it
// pushes all three final state lanes — lane 0 (the digest) last, so a
// caller's single stack.borrow_front() sees the digest and three total
// stack.pop_front() calls discard the whole result, matching
// HashPublicInputs's pop-three convention.
type PoseidonHashMany struct {
	origLength     int
	realRemaining  int
	totalRemaining int
	initialized    bool
	state          [3]felt.Felt
	phase          hashManyPhase
	perm           permState
}

// NewPoseidonHashMany constructs the task for a hash over `length`
// elements that the caller must have already pushed onto the front
// stack (top-most pushed = first absorbed).
func NewPoseidonHashMany(length int) *PoseidonHashMany {
	return &PoseidonHashMany{origLength: length}
}

func (p *PoseidonHashMany) init() {
	if p.initialized {
		return
	}
	p.realRemaining = p.origLength
	p.totalRemaining = p.origLength
	if p.origLength%rate != 0 {
		p.totalRemaining = p.origLength + 1
	}
	p.initialized = true
}

// nextLane returns the next element to absorb: a real element popped
// off the front stack while any remain, otherwise the pad element.
// Either way it counts against totalRemaining.
func (p *PoseidonHashMany) nextLane(stack *bistack.Stack) felt.Felt {
	p.totalRemaining--
	if p.realRemaining > 0 {
		b := stack.BorrowFront()
		v := felt.FromBytesBESlice(b)
		stack.PopFront()
		p.realRemaining--
		return v
	}
	return felt.One
}

func (p *PoseidonHashMany) Execute(stack *bistack.Stack) [][]byte {
	p.init()

	switch p.phase {
	case phaseAbsorb:
		if p.totalRemaining == 0 {
			l2 := p.state[2].Bytes()
			l1 := p.state[1].Bytes()
			l0 := p.state[0].Bytes()
			_ = stack.PushFront(l2[:])
			_ = stack.PushFront(l1[:])
			_ = stack.PushFront(l0[:])
			p.phase = phaseDone
			return nil
		}
		lane0 := p.nextLane(stack)
		lane1 := p.nextLane(stack)
		p.state[0] = felt.Add(p.state[0], lane0)
		p.state[1] = felt.Add(p.state[1], lane1)
		p.perm = permState{state: p.state}
		p.phase = phasePermute
		return nil
	case phasePermute:
		if p.perm.step() {
			p.state = p.perm.state
			p.phase = phaseAbsorb
		}
		return nil
	}
	return nil
}

func (p *PoseidonHashMany) IsFinished() bool {
	return p.phase == phaseDone
}

// hashManyEncodedSize is the fixed size every Encode call produces,
// regardless of how much of the absorb loop has run — the scheduler
// copies this back into the task's existing frame on every
// not-yet-finished step, which only works if the length never changes.
const hashManyEncodedSize = 8 + 8 + 8 + 1 + 1 + 3*32 + 1 + 8 + 8 + 3*32

func (p *PoseidonHashMany) Encode() []byte {
	out := make([]byte, hashManyEncodedSize)
	off := 0
	binary.BigEndian.PutUint64(out[off:off+8], uint64(p.origLength))
	off += 8
	binary.BigEndian.PutUint64(out[off:off+8], uint64(p.realRemaining))
	off += 8
	binary.BigEndian.PutUint64(out[off:off+8], uint64(p.totalRemaining))
	off += 8
	out[off] = byte(p.phase)
	off++
	out[off] = boolByte(p.initialized)
	off++
	for _, f := range p.state {
		b := f.Bytes()
		copy(out[off:off+32], b[:])
		off += 32
	}
	out[off] = p.perm.phase
	off++
	binary.BigEndian.PutUint64(out[off:off+8], uint64(p.perm.roundIndex))
	off += 8
	binary.BigEndian.PutUint64(out[off:off+8], uint64(p.perm.constantsIndex))
	off += 8
	for _, f := range p.perm.state {
		b := f.Bytes()
		copy(out[off:off+32], b[:])
		off += 32
	}
	return out
}

func (p *PoseidonHashMany) Decode(b []byte) error {
	off := 0
	p.origLength = int(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8
	p.realRemaining = int(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8
	p.totalRemaining = int(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8
	p.phase = hashManyPhase(b[off])
	off++
	p.initialized = b[off] != 0
	off++
	for i := range p.state {
		var lane [32]byte
		copy(lane[:], b[off:off+32])
		p.state[i] = felt.FromBytesBE(lane)
		off += 32
	}
	p.perm.phase = b[off]
	off++
	p.perm.roundIndex = int(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8
	p.perm.constantsIndex = int(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8
	for i := range p.perm.state {
		var lane [32]byte
		copy(lane[:], b[off:off+32])
		p.perm.state[i] = felt.FromBytesBE(lane)
		off += 32
	}
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

var poseidonHashManyTag = registry.Register("poseidon.PoseidonHashMany", func() task.Executable { return &PoseidonHashMany{} })

// PoseidonHashManyTag exposes the registered type tag.
func PoseidonHashManyTag() uint32 { return poseidonHashManyTag }
