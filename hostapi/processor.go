package hostapi

import (
	"github.com/bistack/scheduler/account"
	core "github.com/bistack/scheduler/corevm"
	"github.com/bistack/scheduler/scheduler"
	"github.com/bistack/scheduler/task"
	"github.com/bistack/scheduler/tasks/stark"
)

//go:generate mockgen -source processor.go -destination processor_mock.go -package hostapi

// DataAccount is the subset of account.Account's surface Processor
// needs: a raw buffer to write into and a way to reset it. Both
// account.Account and account.ProofAccount satisfy it, so the same
// Processor drives either (processor.rs's process_instruction dispatch,
// generalized past its single hardcoded account type).
type DataAccount interface {
	SetAccountData(offset int, data []byte) error
	ResetAndZero()
}

// Processor applies decoded host instructions to an account's
// scheduler. It holds no state of its own; every call is a single,
// bounded operation, so a host invocation always moves the computation
// forward by exactly one bounded step.
type Processor struct {
	Account DataAccount
	Sched   *scheduler.Scheduler
}

// New builds a Processor over an account and its stack's scheduler.
func New(acc DataAccount, sched *scheduler.Scheduler) *Processor {
	return &Processor{Account: acc, Sched: sched}
}

// Apply decodes and executes a single host instruction. Execute maps to
// exactly one Scheduler.Step call — the host decides how many times to
// invoke this per transaction, honoring whatever compute budget it
// operates under.
func (p *Processor) Apply(raw []byte) error {
	instr, err := Decode(raw)
	if err != nil {
		return err
	}

	switch instr.Op {
	case OpSetAccountData:
		return p.Account.SetAccountData(instr.Offset, instr.Data)
	case OpPushTask:
		return p.Sched.PushTask(instr.Data)
	case OpPushData:
		return p.Sched.PushData(instr.Data)
	case OpExecute:
		return p.Sched.Step()
	case OpInitialize:
		p.Account.ResetAndZero()
		return nil
	case OpSeedProof:
		proofAcc, ok := p.Account.(*account.ProofAccount)
		if !ok {
			return core.ErrInvalidInstructionData
		}
		if err := proofAcc.Seed(); err != nil {
			return err
		}
		verify := stark.NewVerifyPublicInput(instr.SeedProgramLength, instr.SeedOutputLength)
		return p.Sched.PushTask(task.EncodeWithTag(stark.VerifyPublicInputTag(), verify))
	default:
		return core.ErrInvalidInstructionData
	}
}
