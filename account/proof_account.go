package account

import (
	"encoding/binary"

	"github.com/bistack/scheduler/bistack"
	core "github.com/bistack/scheduler/corevm"
	"github.com/bistack/scheduler/proof"
)

// proofRegionSize is the fixed size, in bytes, of the serialized Proof
// that precedes the stack cursors and buffer in a ProofAccount's
// on-disk image.
const proofRegionSize = 8 + proof.MaxEntries*64

// ProofAccount is the proof-bearing account variant: a fixed-layout
// STARK proof region ahead of the same two-cursor stack buffer the
// plain Account uses, so SetAccountData, Encode, and Decode all operate
// on one contiguous byte image the host can persist directly. The
// proof is kept as a raw fixed-size byte array rather than a decoded
// proof.Proof, so a host can seed it incrementally through
// SetAccountData the same way it seeds the stack buffer, rather than
// only at Go-level construction time.
type ProofAccount struct {
	stack    bistack.Stack
	proofRaw [proofRegionSize]byte
	raw      [core.Capacity]byte
}

// NewProofAccount returns a ProofAccount carrying p, with its stack
// cursors reset to the empty state. It exists for tests and callers
// that already have a decoded Proof in hand; a host driven purely
// through the opcode surface seeds the proof region with repeated
// SetAccountData calls instead.
func NewProofAccount(p proof.Proof) *ProofAccount {
	a := &ProofAccount{}
	copy(a.proofRaw[:], p.Encode())
	a.stack.Buffer = a.raw[:]
	a.stack.Reset()
	return a
}

// Stack exposes the account's bidirectional stack to a scheduler.
func (a *ProofAccount) Stack() *bistack.Stack {
	return &a.stack
}

// ProofReference returns the account's proof region as a raw mutable
// byte slice, the stack's proof accessor — a task that needs to read
// the proof bytes directly, rather than through entries Seed already
// pushed onto the front stack, reaches them here.
func (a *ProofAccount) ProofReference() []byte {
	return a.proofRaw[:]
}

// Proof decodes the account's proof region. It can fail if the region
// has been partially written (a host mid-way through a chunked
// SetAccountData seed) or never written at all.
func (a *ProofAccount) Proof() (*proof.Proof, error) {
	return proof.Decode(a.proofRaw[:])
}

// Seed decodes the proof region and pushes its public-memory entries
// onto the front stack: the output segment first, then the program
// segment, so that the program segment — the one HashPublicInputs
// hashes first — ends up on top where PoseidonHashMany's collection
// step reads it. Each AddrValue contributes two field elements, value
// then address, in that push order.
func (a *ProofAccount) Seed() error {
	p, err := a.Proof()
	if err != nil {
		return err
	}

	push := func(e proof.AddrValue) error {
		if err := a.stack.PushFront(e.Value[:]); err != nil {
			return err
		}
		return a.stack.PushFront(e.Address[:])
	}

	output := p.Entries[p.ProgramLength:]
	for i := len(output) - 1; i >= 0; i-- {
		if err := push(output[i]); err != nil {
			return err
		}
	}
	program := p.Entries[:p.ProgramLength]
	for i := len(program) - 1; i >= 0; i-- {
		if err := push(program[i]); err != nil {
			return err
		}
	}
	return nil
}

// ProgramInputLength and OutputInputLength are the field-element counts
// (two per AddrValue) HashPublicInputs needs for each segment.
func (a *ProofAccount) ProgramInputLength() (int, error) {
	p, err := a.Proof()
	if err != nil {
		return 0, err
	}
	return p.ProgramLength * 2, nil
}

func (a *ProofAccount) OutputInputLength() (int, error) {
	p, err := a.Proof()
	if err != nil {
		return 0, err
	}
	return p.OutputLength() * 2, nil
}

// Encode serializes the account to its canonical on-disk layout:
// [proof:proofRegionSize][front_index:8 LE][back_index:8 LE][buffer:Capacity].
// The proof region comes first so a host seeding it through
// SetAccountData addresses it at a fixed, cursor-independent offset.
func (a *ProofAccount) Encode() []byte {
	out := make([]byte, proofRegionSize+16+core.Capacity)
	copy(out[0:proofRegionSize], a.proofRaw[:])
	binary.LittleEndian.PutUint64(out[proofRegionSize:proofRegionSize+8], uint64(a.stack.FrontIndex))
	binary.LittleEndian.PutUint64(out[proofRegionSize+8:proofRegionSize+16], uint64(a.stack.BackIndex))
	copy(out[proofRegionSize+16:], a.raw[:])
	return out
}

// DecodeProofAccount restores a ProofAccount from bytes produced by
// Encode.
func DecodeProofAccount(data []byte) (*ProofAccount, error) {
	if len(data) != proofRegionSize+16+core.Capacity {
		return nil, core.ErrInvalidAccountData
	}
	a := &ProofAccount{}
	copy(a.proofRaw[:], data[0:proofRegionSize])
	a.stack.FrontIndex = int(binary.LittleEndian.Uint64(data[proofRegionSize : proofRegionSize+8]))
	a.stack.BackIndex = int(binary.LittleEndian.Uint64(data[proofRegionSize+8 : proofRegionSize+16]))
	copy(a.raw[:], data[proofRegionSize+16:])
	a.stack.Buffer = a.raw[:]
	return a, nil
}

// SetAccountData copies bytes into the account's address space, which
// runs the proof region first and the stack buffer second — the same
// order Encode uses — so a host can seed or overwrite either region, or
// a span crossing both, with one opcode. It never touches the stack
// cursors themselves; those are engine-managed and only move through
// PushTask/PushData/Execute, or reset via Stack().Reset().
func (a *ProofAccount) SetAccountData(offset int, data []byte) error {
	total := proofRegionSize + core.Capacity
	if offset < 0 || offset+len(data) > total {
		return core.ErrInvalidAccountData
	}
	end := offset + len(data)

	if offset < proofRegionSize {
		proofEnd := end
		if proofEnd > proofRegionSize {
			proofEnd = proofRegionSize
		}
		copy(a.proofRaw[offset:proofEnd], data[:proofEnd-offset])
	}
	if end > proofRegionSize {
		bufStart := offset - proofRegionSize
		dataStart := 0
		if bufStart < 0 {
			dataStart = proofRegionSize - offset
			bufStart = 0
		}
		copy(a.raw[bufStart:], data[dataStart:])
	}
	return nil
}

// ResetAndZero restores the account to its freshly-constructed state:
// stack cursors back to (0, Capacity) and the stack buffer zeroed. The
// proof region is left untouched — Initialize resets a run in
// progress, it does not discard a proof a host has already seeded.
func (a *ProofAccount) ResetAndZero() {
	for i := range a.raw {
		a.raw[i] = 0
	}
	a.stack.Reset()
}
