package graph

import (
	"fmt"

	"github.com/tgsim/tgsim/kernel"
)

// A Subject is an observable value producer. Identity is a process-wide
// (per Kernel) monotonic integer starting at 1; id 0 is reserved for a
// moved-from Subject. A Subject is non-copyable — always pass *Subject —
// and movable via Move, which leaves the source at id 0 with no
// observers, matching SPEC_FULL.md's data model.
type Subject struct {
	id        uint64
	name      string
	observers []observerBinding
}

type observerBinding struct {
	obs      Observer
	outputID uint32
}

// NewSubject allocates a fresh Subject identity from alloc and names it.
func NewSubject(alloc *kernel.SubjectIDAllocator, name string) *Subject {
	return &Subject{id: alloc.Next(), name: name}
}

// ID returns the Subject's process-wide identity. 0 means moved-from.
func (s *Subject) ID() uint64 {
	return s.id
}

// Name returns the Subject's name.
func (s *Subject) Name() string {
	return s.name
}

// Register binds obs to be notified whenever outputID changes. Invariant
// 4 (SPEC_FULL.md §3): registering the same (obs, outputID) pair twice is
// a no-op.
func (s *Subject) Register(obs Observer, outputID uint32) {
	for _, b := range s.observers {
		if b.obs == obs && b.outputID == outputID {
			return
		}
	}

	s.observers = append(s.observers, observerBinding{obs: obs, outputID: outputID})
}

// Erase removes the (obs, outputID) registration if present; erasing an
// unregistered pair is a no-op.
func (s *Subject) Erase(obs Observer, outputID uint32) {
	for i, b := range s.observers {
		if b.obs == obs && b.outputID == outputID {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// NumObservers returns how many (Observer, output-id) pairs are
// currently registered, mostly for tests.
func (s *Subject) NumObservers() int {
	return len(s.observers)
}

// NotifyObservers publishes value under outputID, Δt=0, to every Observer
// registered for it. Notifying a moved-from Subject (invariant 5) is a
// programming error and panics immediately.
func (s *Subject) NotifyObservers(k *kernel.Kernel, outputID uint32, value any) {
	if s.id == kernel.UnusedSubjectID {
		panic(fmt.Sprintf("graph: notify on moved-from Subject %q", s.name))
	}

	for _, b := range s.observers {
		if b.outputID == outputID {
			b.obs.Notify(k, 0, value)
		}
	}
}

// Move transfers this Subject's identity, name and observers to a new
// Subject value and resets the receiver to the moved-from state (id 0,
// empty name, no observers).
func (s *Subject) Move() *Subject {
	moved := &Subject{id: s.id, name: s.name, observers: s.observers}

	s.id = kernel.UnusedSubjectID
	s.name = ""
	s.observers = nil

	return moved
}
