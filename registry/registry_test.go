package registry

import (
	"testing"

	"github.com/bistack/scheduler/bistack"
	"github.com/bistack/scheduler/task"
)

type stubTask struct{}

func (s *stubTask) Execute(*bistack.Stack) [][]byte { return nil }
func (s *stubTask) IsFinished() bool                { return true }

func TestRegister_LookupRoundTrips(t *testing.T) {
	reset()
	defer reset()

	tag := Register("registry_test.stubTask", func() task.Executable { return &stubTask{} })

	factory, found := Lookup(tag)
	if !found {
		t.Fatalf("expected tag %d to be registered", tag)
	}
	if _, ok := factory().(*stubTask); !ok {
		t.Errorf("expected factory to produce a *stubTask")
	}
}

func TestRegister_SameNameTwice_DoesNotPanic(t *testing.T) {
	reset()
	defer reset()

	factory := func() task.Executable { return &stubTask{} }
	Register("registry_test.stubTask", factory)
	Register("registry_test.stubTask", factory) // idempotent re-registration
}

func TestRegister_CollidingTag_Panics(t *testing.T) {
	reset()
	defer reset()

	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic on type tag collision")
		}
	}()

	// Real FNV-1a collisions between plausible module-qualified names
	// are astronomically unlikely, so to exercise Register's guard we
	// plant a conflicting entry under the tag a second, distinct name
	// would hash to, then register that name for real.
	otherTag := task.TypeTag("registry_test.otherTask")
	table[otherTag] = entry{name: "registry_test.stubTask", factory: func() task.Executable { return &stubTask{} }}

	Register("registry_test.otherTask", func() task.Executable { return &stubTask{} })
}

func TestLookup_UnknownTag(t *testing.T) {
	reset()
	defer reset()

	if _, found := Lookup(0xdeadbeef); found {
		t.Errorf("expected unknown tag to not be found")
	}
}
