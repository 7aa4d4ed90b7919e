// Package arithmetic provides a small family of composable tasks:
// single-step Add, the decomposed Mul/MulInternal and Exp/ExpInternal
// pairs, and the two-task Fibonacci/FibonacciCombiner pair — all
// grounded on tasks/example/src/{add,mul,exp,fib}.rs. Mul and Exp
// cannot be single-step tasks: a step must do a bounded amount of work,
// and the multiplicand or exponent is caller-controlled, so both are
// spawner tasks that kick off an iterated continuation (MulInternal,
// ExpInternal) doing one Add (respectively one Mul) per step instead of
// looping internally.
//
// Every task here computes in u128 with saturating (not wrapping)
// arithmetic, and always pushes its result as 16 big-endian bytes —
// matching what Add/Exp/Fibonacci did upstream; upstream's Mul pushed
// little-endian instead, which is inconsistent with its siblings and
// with the rest of the corpus, so this package does not reproduce that.
package arithmetic

import (
	"encoding/binary"
	"math/bits"

	"github.com/bistack/scheduler/bistack"
	"github.com/bistack/scheduler/registry"
	"github.com/bistack/scheduler/task"
)

func pushU128BE(stack *bistack.Stack, v [2]uint64) error {
	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], v[0])
	binary.BigEndian.PutUint64(b[8:16], v[1])
	return stack.PushFront(b[:])
}

func popU128BE(stack *bistack.Stack) [2]uint64 {
	b := stack.BorrowFront()
	stack.PopFront()
	var v [2]uint64
	v[0] = binary.BigEndian.Uint64(b[0:8])
	v[1] = binary.BigEndian.Uint64(b[8:16])
	return v
}

// lessU128 orders two u128 values (big limb first) for the running
// counters MulInternal/ExpInternal compare against their bound.
func lessU128(a, b [2]uint64) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// u128 addition/multiplication saturate at the all-ones value instead of
// wrapping, mirroring Rust's saturating_add/saturating_mul.
func addSat128(a, b [2]uint64) [2]uint64 {
	lo, carry := bits.Add64(a[1], b[1], 0)
	hi, carry2 := bits.Add64(a[0], b[0], carry)
	if carry2 != 0 {
		return [2]uint64{^uint64(0), ^uint64(0)}
	}
	return [2]uint64{hi, lo}
}

// mulSat128 computes a*b saturating at the all-ones 128-bit value,
// following the schoolbook 128x128->256 expansion and checking every
// limb beyond bit 127 for a nonzero contribution.
func mulSat128(a, b [2]uint64) [2]uint64 {
	ahi, alo := a[0], a[1]
	bhi, blo := b[0], b[1]

	p0Hi, p0Lo := bits.Mul64(alo, blo)
	p1Hi, p1Lo := bits.Mul64(alo, bhi)
	p2Hi, p2Lo := bits.Mul64(ahi, blo)
	p3Hi, p3Lo := bits.Mul64(ahi, bhi)

	mid, c1 := bits.Add64(p0Hi, p1Lo, 0)
	mid, c2 := bits.Add64(mid, p2Lo, 0)
	carry := c1 + c2

	if p3Hi != 0 || p3Lo != 0 || p1Hi != 0 || p2Hi != 0 || carry != 0 {
		return [2]uint64{^uint64(0), ^uint64(0)}
	}
	return [2]uint64{mid, p0Lo}
}

// Add computes x+y (saturating) and pushes the 16-byte big-endian
// result, finishing in one step.
type Add struct {
	X, Y [2]uint64
}

func (a *Add) Encode() []byte {
	b := make([]byte, 32)
	binary.BigEndian.PutUint64(b[0:8], a.X[0])
	binary.BigEndian.PutUint64(b[8:16], a.X[1])
	binary.BigEndian.PutUint64(b[16:24], a.Y[0])
	binary.BigEndian.PutUint64(b[24:32], a.Y[1])
	return b
}

func (a *Add) Decode(b []byte) error {
	a.X[0] = binary.BigEndian.Uint64(b[0:8])
	a.X[1] = binary.BigEndian.Uint64(b[8:16])
	a.Y[0] = binary.BigEndian.Uint64(b[16:24])
	a.Y[1] = binary.BigEndian.Uint64(b[24:32])
	return nil
}

func (a *Add) Execute(stack *bistack.Stack) [][]byte {
	_ = pushU128BE(stack, addSat128(a.X, a.Y))
	return nil
}

func (a *Add) IsFinished() bool { return true }

// NewAdd builds an Add task over two uint64-range operands (the high
// limb is always zero), the common case exercised by the scenario
// tests and the CLI's demo commands.
func NewAdd(x, y uint64) *Add {
	return &Add{X: [2]uint64{0, x}, Y: [2]uint64{0, y}}
}

// Mul computes x*y by decomposition: if y is zero it pushes 0 and
// finishes outright, otherwise it spawns Add(0, x) — seeding the
// running sum with one copy of x — followed by MulInternal(x, y, 0),
// which accumulates the remaining y-1 copies one bounded Add per step.
// The outer Mul is itself always finished once its children are
// spawned; it does none of the accumulation.
type Mul struct {
	X, Y [2]uint64
}

func (m *Mul) Encode() []byte {
	b := make([]byte, 32)
	binary.BigEndian.PutUint64(b[0:8], m.X[0])
	binary.BigEndian.PutUint64(b[8:16], m.X[1])
	binary.BigEndian.PutUint64(b[16:24], m.Y[0])
	binary.BigEndian.PutUint64(b[24:32], m.Y[1])
	return b
}

func (m *Mul) Decode(b []byte) error {
	m.X[0] = binary.BigEndian.Uint64(b[0:8])
	m.X[1] = binary.BigEndian.Uint64(b[8:16])
	m.Y[0] = binary.BigEndian.Uint64(b[16:24])
	m.Y[1] = binary.BigEndian.Uint64(b[24:32])
	return nil
}

func (m *Mul) Execute(stack *bistack.Stack) [][]byte {
	if m.Y == ([2]uint64{0, 0}) {
		_ = pushU128BE(stack, [2]uint64{0, 0})
		return nil
	}
	return [][]byte{
		task.EncodeWithTag(addTag, &Add{X: [2]uint64{0, 0}, Y: m.X}),
		task.EncodeWithTag(mulInternalTag, &MulInternal{X: m.X, Y: m.Y}),
	}
}

func (m *Mul) IsFinished() bool { return true }

// NewMul builds a Mul task over two uint64-range operands.
func NewMul(x, y uint64) *Mul {
	return &Mul{X: [2]uint64{0, x}, Y: [2]uint64{0, y}}
}

// MulInternal accumulates x*y one Add per step: each step pops the
// running sum its most recently spawned Add left on the front stack,
// advances Counter, and either spawns the next Add(sum, x) and persists
// or — once Counter reaches Y — pushes the finished sum and stops.
type MulInternal struct {
	X, Y, Counter [2]uint64
}

func (m *MulInternal) Encode() []byte {
	b := make([]byte, 48)
	binary.BigEndian.PutUint64(b[0:8], m.X[0])
	binary.BigEndian.PutUint64(b[8:16], m.X[1])
	binary.BigEndian.PutUint64(b[16:24], m.Y[0])
	binary.BigEndian.PutUint64(b[24:32], m.Y[1])
	binary.BigEndian.PutUint64(b[32:40], m.Counter[0])
	binary.BigEndian.PutUint64(b[40:48], m.Counter[1])
	return b
}

func (m *MulInternal) Decode(b []byte) error {
	m.X[0] = binary.BigEndian.Uint64(b[0:8])
	m.X[1] = binary.BigEndian.Uint64(b[8:16])
	m.Y[0] = binary.BigEndian.Uint64(b[16:24])
	m.Y[1] = binary.BigEndian.Uint64(b[24:32])
	m.Counter[0] = binary.BigEndian.Uint64(b[32:40])
	m.Counter[1] = binary.BigEndian.Uint64(b[40:48])
	return nil
}

func (m *MulInternal) Execute(stack *bistack.Stack) [][]byte {
	sum := popU128BE(stack)
	m.Counter = addSat128(m.Counter, [2]uint64{0, 1})
	if lessU128(m.Counter, m.Y) {
		return [][]byte{task.EncodeWithTag(addTag, &Add{X: sum, Y: m.X})}
	}
	_ = pushU128BE(stack, sum)
	return nil
}

func (m *MulInternal) IsFinished() bool { return !lessU128(m.Counter, m.Y) }

// Exp computes base^exponent by the same decomposition Mul uses, one
// level up: if exponent is zero it pushes 1 (the multiplicative
// identity) and finishes, otherwise it spawns Mul(1, base) — seeding
// the running product with one copy of base — followed by
// ExpInternal(base, exponent, 0), which accumulates the remaining
// exponent-1 multiplications one bounded Mul per step.
type Exp struct {
	Base     [2]uint64
	Exponent uint32
}

func (e *Exp) Encode() []byte {
	b := make([]byte, 20)
	binary.BigEndian.PutUint64(b[0:8], e.Base[0])
	binary.BigEndian.PutUint64(b[8:16], e.Base[1])
	binary.BigEndian.PutUint32(b[16:20], e.Exponent)
	return b
}

func (e *Exp) Decode(b []byte) error {
	e.Base[0] = binary.BigEndian.Uint64(b[0:8])
	e.Base[1] = binary.BigEndian.Uint64(b[8:16])
	e.Exponent = binary.BigEndian.Uint32(b[16:20])
	return nil
}

func (e *Exp) Execute(stack *bistack.Stack) [][]byte {
	if e.Exponent == 0 {
		_ = pushU128BE(stack, [2]uint64{0, 1})
		return nil
	}
	return [][]byte{
		task.EncodeWithTag(mulTag, &Mul{X: [2]uint64{0, 1}, Y: e.Base}),
		task.EncodeWithTag(expInternalTag, &ExpInternal{Base: e.Base, Exponent: [2]uint64{0, uint64(e.Exponent)}}),
	}
}

func (e *Exp) IsFinished() bool { return true }

// NewExp builds an Exp task over a uint64-range base.
func NewExp(base uint64, exponent uint32) *Exp {
	return &Exp{Base: [2]uint64{0, base}, Exponent: exponent}
}

// ExpInternal accumulates base^exponent one Mul per step, the same
// pattern MulInternal uses over Add: pop the running product, advance
// Counter, and either spawn the next Mul(product, base) and persist or
// push the finished product and stop.
type ExpInternal struct {
	Base, Exponent, Counter [2]uint64
}

func (e *ExpInternal) Encode() []byte {
	b := make([]byte, 48)
	binary.BigEndian.PutUint64(b[0:8], e.Base[0])
	binary.BigEndian.PutUint64(b[8:16], e.Base[1])
	binary.BigEndian.PutUint64(b[16:24], e.Exponent[0])
	binary.BigEndian.PutUint64(b[24:32], e.Exponent[1])
	binary.BigEndian.PutUint64(b[32:40], e.Counter[0])
	binary.BigEndian.PutUint64(b[40:48], e.Counter[1])
	return b
}

func (e *ExpInternal) Decode(b []byte) error {
	e.Base[0] = binary.BigEndian.Uint64(b[0:8])
	e.Base[1] = binary.BigEndian.Uint64(b[8:16])
	e.Exponent[0] = binary.BigEndian.Uint64(b[16:24])
	e.Exponent[1] = binary.BigEndian.Uint64(b[24:32])
	e.Counter[0] = binary.BigEndian.Uint64(b[32:40])
	e.Counter[1] = binary.BigEndian.Uint64(b[40:48])
	return nil
}

func (e *ExpInternal) Execute(stack *bistack.Stack) [][]byte {
	product := popU128BE(stack)
	e.Counter = addSat128(e.Counter, [2]uint64{0, 1})
	if lessU128(e.Counter, e.Exponent) {
		return [][]byte{task.EncodeWithTag(mulTag, &Mul{X: product, Y: e.Base})}
	}
	_ = pushU128BE(stack, product)
	return nil
}

func (e *ExpInternal) IsFinished() bool { return !lessU128(e.Counter, e.Exponent) }

// Fibonacci computes F(n) by spawning two smaller Fibonacci subtasks
// plus a FibonacciCombiner to add their results, recursing down to the
// n=0/n=1 base cases that push directly.
type Fibonacci struct {
	N uint32
}

func (f *Fibonacci) Encode() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, f.N)
	return b
}

func (f *Fibonacci) Decode(b []byte) error {
	f.N = binary.BigEndian.Uint32(b)
	return nil
}

func (f *Fibonacci) Execute(stack *bistack.Stack) [][]byte {
	switch f.N {
	case 0:
		_ = pushU128BE(stack, [2]uint64{0, 0})
		return nil
	case 1:
		_ = pushU128BE(stack, [2]uint64{0, 1})
		return nil
	default:
		return [][]byte{
			task.EncodeWithTag(fibonacciTag, &Fibonacci{N: f.N - 1}),
			task.EncodeWithTag(fibonacciTag, &Fibonacci{N: f.N - 2}),
			task.EncodeWithTag(fibonacciCombinerTag, &FibonacciCombiner{N: f.N}),
		}
	}
}

// IsFinished is always true: the recursive case's work is done once its
// three children are returned, not once they complete — the combiner
// picks up after them.
func (f *Fibonacci) IsFinished() bool { return true }

// FibonacciCombiner pops F(n-2) then F(n-1) and pushes their sum. Its
// sibling Fibonacci children run in declaration order, so F(n-1) is
// pushed first and F(n-2) ends up on top of the front stack.
type FibonacciCombiner struct {
	N uint32
}

func (c *FibonacciCombiner) Encode() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, c.N)
	return b
}

func (c *FibonacciCombiner) Decode(b []byte) error {
	c.N = binary.BigEndian.Uint32(b)
	return nil
}

func (c *FibonacciCombiner) Execute(stack *bistack.Stack) [][]byte {
	fibN2 := popU128BE(stack)
	fibN1 := popU128BE(stack)
	_ = pushU128BE(stack, addSat128(fibN1, fibN2))
	return nil
}

func (c *FibonacciCombiner) IsFinished() bool { return true }

var (
	addTag               = registry.Register("arithmetic.Add", func() task.Executable { return &Add{} })
	mulTag               = registry.Register("arithmetic.Mul", func() task.Executable { return &Mul{} })
	mulInternalTag       = registry.Register("arithmetic.MulInternal", func() task.Executable { return &MulInternal{} })
	expTag               = registry.Register("arithmetic.Exp", func() task.Executable { return &Exp{} })
	expInternalTag       = registry.Register("arithmetic.ExpInternal", func() task.Executable { return &ExpInternal{} })
	fibonacciTag         = registry.Register("arithmetic.Fibonacci", func() task.Executable { return &Fibonacci{} })
	fibonacciCombinerTag = registry.Register("arithmetic.FibonacciCombiner", func() task.Executable { return &FibonacciCombiner{} })
)

// AddTag, MulTag, ExpTag, and FibonacciTag expose the registered type
// tags so callers building a task frame by hand (the host API, the CLI)
// don't have to recompute task.TypeTag themselves.
func AddTag() uint32         { return addTag }
func MulTag() uint32         { return mulTag }
func MulInternalTag() uint32 { return mulInternalTag }
func ExpTag() uint32         { return expTag }
func ExpInternalTag() uint32 { return expInternalTag }
func FibonacciTag() uint32   { return fibonacciTag }
