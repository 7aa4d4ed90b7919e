// Package proof defines the STARK proof layout carried by a
// proof-bearing account, simplified from upstream's swiftness AIR
// types (tasks/stark/src/swiftness/air/{types.rs,public_memory.rs}).
//
// The upstream PublicInput carries dynamic range-check/layout
// parameters, a variable number of memory segments, and continuous
// page headers alongside the flat address/value pairs that make up the
// program's public memory. This module keeps only the part that feeds
// the public-input hash the scheduler actually computes: a flat,
// fixed-capacity run of address/value pairs split into a program
// section and an output section. Dropping the dynamic parameters and
// page headers is a deliberate simplification, not an oversight — see
// DESIGN.md for the full accounting of what upstream does that this
// engine does not reproduce.
package proof

import (
	"encoding/binary"

	core "github.com/bistack/scheduler/corevm"
)

// MaxEntries bounds how many AddrValue pairs a Proof can carry, fixing
// its on-disk size the same way Capacity fixes the stack buffer's.
const MaxEntries = 256

// AddrValue is one public-memory cell: the Felt address it lives at and
// the Felt value stored there (original_source's AddrValue, stripped to
// the two fields this engine's hash actually consumes).
type AddrValue struct {
	Address [32]byte
	Value   [32]byte
}

// Proof is the simplified public input: a flat run of AddrValue pairs,
// the leading ProgramLength of which belong to the program segment and
// the remainder to the output segment.
type Proof struct {
	Entries       []AddrValue
	ProgramLength int
}

// OutputLength is the number of entries belonging to the output
// segment, derived rather than stored.
func (p *Proof) OutputLength() int {
	return len(p.Entries) - p.ProgramLength
}

// Encode serializes the proof to a fixed MaxEntries*64+8-byte layout:
// [entry_count:4 LE][program_length:4 LE][entries...], padding unused
// entry slots with zero bytes so every encoded proof is the same size
// regardless of how many entries it actually holds.
func (p *Proof) Encode() []byte {
	out := make([]byte, 8+MaxEntries*64)
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(p.Entries)))
	binary.LittleEndian.PutUint32(out[4:8], uint32(p.ProgramLength))
	for i, e := range p.Entries {
		base := 8 + i*64
		copy(out[base:base+32], e.Address[:])
		copy(out[base+32:base+64], e.Value[:])
	}
	return out
}

// Decode restores a Proof from bytes produced by Encode.
func Decode(b []byte) (*Proof, error) {
	if len(b) != 8+MaxEntries*64 {
		return nil, core.ErrInvalidAccountData
	}
	count := int(binary.LittleEndian.Uint32(b[0:4]))
	programLength := int(binary.LittleEndian.Uint32(b[4:8]))
	if count > MaxEntries || programLength > count {
		return nil, core.ErrInvalidAccountData
	}
	p := &Proof{Entries: make([]AddrValue, count), ProgramLength: programLength}
	for i := 0; i < count; i++ {
		base := 8 + i*64
		copy(p.Entries[i].Address[:], b[base:base+32])
		copy(p.Entries[i].Value[:], b[base+32:base+64])
	}
	return p, nil
}
