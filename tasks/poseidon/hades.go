// Package poseidon implements the Hades permutation and the
// poseidon_hash_many sponge construction built on top of it (grounded
// on tasks/stark/src/poseidon/{hades.rs,mod.rs}).
//
// The round-constants table used here is a deliberately-named
// placeholder, not the real Starknet/Cairo Poseidon constants: those
// numbers live in the lambdaworks_crypto crate's
// hash::poseidon::starknet module, whose source was never available
// here (poseidon.rs imports it, but the crate itself was not part of
// the retrieved reference code). Reproducing the literal round
// constants without that crate would mean inventing 256+ field
// elements with no way to check them against a reference, which is
// worse than naming the gap outright — the hash's mathematical
// internals are treated as inherited, not rederived, here. What this
// package reproduces faithfully is the SHAPE of the computation: the
// 3-phase round schedule, the mix() linear layer, and the
// absorb/permute/squeeze state machine a bounded-step scheduler needs.
// Tests in this package assert against that shape (round counts,
// phase transitions, sponge padding) rather than literal hex digests.
package poseidon

import (
	"github.com/bistack/scheduler/bistack"
	"github.com/bistack/scheduler/felt"
	"github.com/bistack/scheduler/registry"
	"github.com/bistack/scheduler/task"
)

// Round schedule constants, named exactly as hades.rs references them
// (Self::N_FULL_ROUNDS etc.) even though their values here are the
// well-known Starknet Poseidon parameters rather than rederived ones.
const (
	nFullRounds        = 8
	nPartialRounds     = 83
	nRoundConstantsCols = 3
)

// placeholderRoundConstants stands in for the real ROUND_CONSTANTS
// table (see package doc). Its length matches what the round schedule
// below actually indexes: nFullRounds*nRoundConstantsCols full-round
// constants plus nPartialRounds single-lane partial-round constants.
var placeholderRoundConstants = func() []felt.Felt {
	n := nFullRounds*nRoundConstantsCols + nPartialRounds
	out := make([]felt.Felt, n)
	for i := range out {
		out[i] = felt.FromUint64(uint64(i + 1))
	}
	return out
}()

// mix is Hades's linear layer over the 3-lane state, reproduced exactly
// from hades.rs's optimized form:
//
//	t  = s0+s1+s2
//	s0 = t + 2*s0
//	s1 = t - 2*s1
//	s2 = t - 3*s2
func mix(state *[3]felt.Felt) {
	t := felt.Add(felt.Add(state[0], state[1]), state[2])
	s0 := felt.Add(t, felt.Double(state[0]))
	s1 := felt.Sub(t, felt.Double(state[1]))
	s2 := felt.Sub(t, felt.Add(felt.Add(state[2], state[2]), state[2]))
	state[0], state[1], state[2] = s0, s1, s2
}

// sbox cubes a lane: value.square() * value.
func sbox(v felt.Felt) felt.Felt {
	return felt.Mul(felt.Square(v), v)
}

// permState is the Hades permutation's step-able internal state, shared
// by the standalone HadesPermutation task and PoseidonHashMany's
// between-block permutation phase, since both run the identical round
// schedule over a 3-lane state (hades.rs names this one state machine;
// this package's split into a reusable core plus two callers is a Go
// adaptation of that single Rust struct, not a divergent design).
type permState struct {
	state          [3]felt.Felt
	phase          uint8 // 0: first full rounds, 1: partial rounds, 2: second full rounds
	roundIndex     int
	constantsIndex int
}

// step performs exactly one bounded unit of permutation work and
// reports whether the permutation has fully completed.
func (p *permState) step() (finished bool) {
	switch p.phase {
	case 0:
		if p.roundIndex < nFullRounds/2 {
			for i := range p.state {
				p.state[i] = felt.Add(p.state[i], placeholderRoundConstants[p.constantsIndex+i])
				p.state[i] = sbox(p.state[i])
			}
			mix(&p.state)
			p.roundIndex++
			p.constantsIndex += nRoundConstantsCols
		} else {
			p.phase = 1
			p.roundIndex = 0
		}
		return false
	case 1:
		if p.roundIndex < nPartialRounds {
			p.state[2] = felt.Add(p.state[2], placeholderRoundConstants[p.constantsIndex])
			p.state[2] = sbox(p.state[2])
			mix(&p.state)
			p.roundIndex++
			p.constantsIndex++
		} else {
			p.phase = 2
			p.roundIndex = 0
		}
		return false
	case 2:
		if p.roundIndex < nFullRounds/2 {
			for i := range p.state {
				p.state[i] = felt.Add(p.state[i], placeholderRoundConstants[p.constantsIndex+i])
				p.state[i] = sbox(p.state[i])
			}
			mix(&p.state)
			p.roundIndex++
			p.constantsIndex += nRoundConstantsCols
			return false
		}
		return true
	default:
		return true
	}
}

// HadesPermutation runs the 3-phase Hades round schedule over an
// initial 3-lane state, one bounded round per Execute call, and pushes
// the first lane of the final state as the digest when finished.
type HadesPermutation struct {
	perm permState
}

// NewHadesPermutation seeds a permutation from an initial state.
func NewHadesPermutation(state [3]felt.Felt) *HadesPermutation {
	return &HadesPermutation{perm: permState{state: state}}
}

func (h *HadesPermutation) Encode() []byte {
	out := make([]byte, 0, 3*32+1+8+8)
	for _, lane := range h.perm.state {
		b := lane.Bytes()
		out = append(out, b[:]...)
	}
	out = append(out, h.perm.phase)
	out = append(out, encodeUint(uint64(h.perm.roundIndex))...)
	out = append(out, encodeUint(uint64(h.perm.constantsIndex))...)
	return out
}

func (h *HadesPermutation) Decode(b []byte) error {
	for i := 0; i < 3; i++ {
		var lane [32]byte
		copy(lane[:], b[i*32:(i+1)*32])
		h.perm.state[i] = felt.FromBytesBE(lane)
	}
	h.perm.phase = b[96]
	h.perm.roundIndex = int(decodeUint(b[97:105]))
	h.perm.constantsIndex = int(decodeUint(b[105:113]))
	return nil
}

func (h *HadesPermutation) Execute(stack *bistack.Stack) [][]byte {
	if h.perm.step() {
		digest := h.perm.state[0].Bytes()
		_ = stack.PushFront(digest[:])
		// Move past the last round so IsFinished reports true for the
		// step that pushed the digest.
		h.perm.roundIndex = nFullRounds/2 + 1
	}
	return nil
}

func (h *HadesPermutation) IsFinished() bool {
	return h.perm.phase == 2 && h.perm.roundIndex > nFullRounds/2
}

var hadesPermutationTag = registry.Register("poseidon.HadesPermutation", func() task.Executable { return &HadesPermutation{} })

// HadesPermutationTag exposes the registered type tag.
func HadesPermutationTag() uint32 { return hadesPermutationTag }

func encodeUint(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

func decodeUint(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
