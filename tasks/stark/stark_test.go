package stark

import (
	"testing"

	"github.com/bistack/scheduler/account"
	"github.com/bistack/scheduler/proof"
	"github.com/bistack/scheduler/scheduler"
	"github.com/bistack/scheduler/task"
)

func feltBytes(v uint64) [32]byte {
	var b [32]byte
	b[31] = byte(v)
	return b
}

func TestVerifyPublicInput_ProducesTwoHashes(t *testing.T) {
	p := proof.Proof{
		Entries: []proof.AddrValue{
			{Address: feltBytes(1), Value: feltBytes(10)},
			{Address: feltBytes(2), Value: feltBytes(20)},
			{Address: feltBytes(3), Value: feltBytes(30)},
		},
		ProgramLength: 2,
	}
	acc := account.NewProofAccount(p)
	if err := acc.Seed(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	programLen, err := acc.ProgramInputLength()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outputLen, err := acc.OutputInputLength()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := scheduler.New(acc.Stack())
	encoded := task.EncodeWithTag(verifyPublicInputTag, NewVerifyPublicInput(programLen, outputLen))
	if err := s.PushTask(encoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.RunToCompletion(1_000_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	programHash := acc.Stack().BorrowFront()
	if len(programHash) != 32 {
		t.Fatalf("expected a 32-byte program hash, got %d bytes", len(programHash))
	}
	acc.Stack().PopFront()

	outputHash := acc.Stack().BorrowFront()
	if len(outputHash) != 32 {
		t.Fatalf("expected a 32-byte output hash, got %d bytes", len(outputHash))
	}
	acc.Stack().PopFront()

	if !acc.Stack().IsEmptyFront() {
		t.Errorf("expected the front stack to be empty after consuming both hashes")
	}
}

func TestHashPublicInputs_Phases(t *testing.T) {
	h := NewHashPublicInputs(2, 2)
	if h.IsFinished() {
		t.Fatalf("expected a freshly constructed task to not be finished")
	}
	if h.step != stepInit {
		t.Errorf("expected initial step to be stepInit")
	}
}
