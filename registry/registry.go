// Package registry provides the closed, build-time type-tag dispatch
// table: a map from a task's 32-bit type tag to the function that
// revives it from raw bytes and steps it once.
//
// The registry is intentionally a single package-level table rather
// than a per-binary generated switch statement — task packages register
// themselves during package initialization (package-level var
// initializers), the same way
// vm/registry.RegisterVirtualMachine lets each VM backend register
// itself without the registry package needing to import them. Go's
// package initialization order guarantees every registration runs before main, the
// closest stand-in this language offers for a build step that
// constructs a dispatch table; a duplicate tag panics immediately,
// which is effectively a build-time halt since it fires before any
// real work starts.
package registry

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/bistack/scheduler/task"
)

// Factory produces a zero-value Executable+Codec for a registered task
// type, ready to have Decode called on it.
type Factory func() task.Executable

// entry pairs a task type's factory with diagnostic metadata.
type entry struct {
	name    string
	factory Factory
}

var table = map[uint32]entry{}

// Register binds qualifiedName's FNV-1a type tag to factory. Each task
// package calls it while initializing, from package-level var
// initializers. Register panics if
// the same tag was already bound to a different name, mirroring
// RegisterVirtualMachine's "multiple VMs registered" panic.
func Register(qualifiedName string, factory Factory) uint32 {
	tag := task.TypeTag(qualifiedName)
	if existing, found := table[tag]; found && existing.name != qualifiedName {
		panic(fmt.Sprintf("registry: type tag collision between %q and %q (tag %d)", existing.name, qualifiedName, tag))
	}
	table[tag] = entry{name: qualifiedName, factory: factory}
	return tag
}

// Lookup returns the factory registered for tag, or (nil, false) if no
// task type in scope owns it — the caller should surface
// core.ErrUnknownTag. "Unknown tag" is a recoverable error kind at the
// Go API boundary rather than a panic, since the host, not the engine,
// decides how to react to version skew.
func Lookup(tag uint32) (Factory, bool) {
	e, found := table[tag]
	if !found {
		return nil, false
	}
	return e.factory, true
}

// Names returns the qualified names of every registered task type,
// sorted, for diagnostics (the CLI's `types` subcommand). Pulling the keys
// out with maps.Keys before sorting, rather than a hand-rolled append
// loop, is the same two-step driver.go/generator_info.go use to list
// their own registered EVM/rule names.
func Names() []string {
	byName := make(map[string]struct{}, len(table))
	for _, e := range table {
		byName[e.name] = struct{}{}
	}
	names := maps.Keys(byName)
	sort.Strings(names)
	return names
}

// reset clears the registry. Only used by tests that need to exercise
// collision handling in isolation.
func reset() {
	table = map[uint32]entry{}
}
