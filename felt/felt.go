// Package felt implements the Stark-252 prime field element type used
// by the Poseidon/Hades tasks and the STARK proof's public-input
// fields.
//
// Felt is a fixed 32-byte big-endian array — packed and fixed-size, the
// shape anything embedded in task state needs so it can be revived from
// a raw stack frame. Arithmetic is done with holiman/uint256's
// fixed-width Int, the same 256-bit word type used elsewhere in this
// codebase for EVM word handling: every operation lifts the operands
// to a *uint256.Int, reduces modulo the field prime via its AddMod/
// MulMod/Mod (subtraction adds the negated operand through AddMod), and
// folds the result back into a Felt array — never
// keeping a live *uint256.Int around between calls. This keeps the
// packed, no-heap-indirection shape the upstream Rust Felt has without
// hand-rolling Montgomery multiplication; the field's own mathematical
// internals are out of scope for rederivation here.
package felt

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Felt is an element of the Stark-252 prime field, stored big-endian.
type Felt [32]byte

// Prime is 2^251 + 17*2^192 + 1, the Stark-252 field modulus.
var Prime = func() *uint256.Int {
	p := new(uint256.Int).Lsh(uint256.NewInt(1), 251)
	term := new(uint256.Int).Lsh(uint256.NewInt(17), 192)
	p.Add(p, term)
	p.Add(p, uint256.NewInt(1))
	return p
}()

// Zero is the additive identity.
var Zero = Felt{}

// One is the multiplicative identity.
var One = fromInt(uint256.NewInt(1))

func (f Felt) toInt() *uint256.Int {
	return new(uint256.Int).SetBytes32(f[:])
}

func fromInt(v *uint256.Int) Felt {
	var reduced uint256.Int
	reduced.Mod(v, Prime)
	return Felt(reduced.Bytes32())
}

// FromUint64 lifts a uint64 into the field.
func FromUint64(v uint64) Felt {
	return fromInt(uint256.NewInt(v))
}

// FromHex parses a "0x..."-prefixed (or bare) hex string into a field
// element reduced modulo Prime.
func FromHex(s string) (Felt, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return Zero, nil
	}
	v, err := uint256.FromHex("0x" + s)
	if err != nil {
		return Felt{}, fmt.Errorf("felt: invalid hex literal %q: %w", s, err)
	}
	return fromInt(v), nil
}

// FromBytesBE interprets exactly 32 big-endian bytes as a field
// element, reducing modulo Prime.
func FromBytesBE(b [32]byte) Felt {
	return fromInt(new(uint256.Int).SetBytes32(b[:]))
}

// FromBytesBESlice interprets an arbitrary-length big-endian byte slice
// as an unsigned integer and reduces it modulo Prime, matching the
// original verifier's Felt::from_bytes_be_slice (which consumes slices
// shorter or longer than 32 bytes the same way a plain big-endian
// integer parse would).
func FromBytesBESlice(b []byte) Felt {
	if len(b) <= 32 {
		return fromInt(new(uint256.Int).SetBytes(b))
	}
	// uint256.SetBytes keeps only the last 32 bytes of a longer slice, so
	// fold the bytes in one at a time, reducing as we go.
	acc := new(uint256.Int)
	base := uint256.NewInt(256)
	for _, c := range b {
		shifted := new(uint256.Int).MulMod(acc, base, Prime)
		acc = new(uint256.Int).AddMod(shifted, uint256.NewInt(uint64(c)), Prime)
	}
	return Felt(acc.Bytes32())
}

// Bytes returns the big-endian 32-byte encoding.
func (f Felt) Bytes() [32]byte {
	return f
}

// Hex renders the field element as a "0x"-prefixed hex string with no
// leading zeros (other than a single "0" for the zero element).
func (f Felt) Hex() string {
	return f.toInt().Hex()
}

func (f Felt) String() string {
	return f.Hex()
}

// Add returns a+b mod Prime.
func Add(a, b Felt) Felt {
	var out uint256.Int
	out.AddMod(a.toInt(), b.toInt(), Prime)
	return Felt(out.Bytes32())
}

// Sub returns a-b mod Prime. uint256 has no SubMod (EVM has no such
// opcode to ground one on), so b is negated mod Prime first and folded
// in through AddMod instead of subtracting directly, which would
// wrap at 2^256 rather than at Prime.
func Sub(a, b Felt) Felt {
	var negB uint256.Int
	negB.Sub(Prime, b.toInt())
	negB.Mod(&negB, Prime)

	var out uint256.Int
	out.AddMod(a.toInt(), &negB, Prime)
	return Felt(out.Bytes32())
}

// Mul returns a*b mod Prime.
func Mul(a, b Felt) Felt {
	var out uint256.Int
	out.MulMod(a.toInt(), b.toInt(), Prime)
	return Felt(out.Bytes32())
}

// Double returns 2*a mod Prime.
func Double(a Felt) Felt {
	return Add(a, a)
}

// Square returns a*a mod Prime.
func Square(a Felt) Felt {
	return Mul(a, a)
}

// Equal reports whether a and b denote the same field element.
func Equal(a, b Felt) bool {
	return a == b
}
