package graph

import (
	"fmt"

	"github.com/tgsim/tgsim/kernel"
)

//go:generate mockgen -destination mock_corewaiter_test.go -package graph_test -write_package_comment=false github.com/tgsim/tgsim/graph CoreWaiter

// CoreWaiter is whatever a ProcessingUnit notifies when handing off its
// core: ordinarily a *kernel.Event, expressed as an interface so tests
// can substitute a mock and assert on the Notify call directly instead
// of having to drive a Kernel to observe it.
type CoreWaiter interface {
	Notify(k *kernel.Kernel, delta kernel.VTime)
}

// ProcessingUnit arbitrates mutually exclusive access among the vertices
// it owns: a single core, a used/free flag and a FIFO of waiters,
// modeling single-core sequential execution with a waiting queue
// (SPEC_FULL.md §4.6).
type ProcessingUnit struct {
	name string
	id   int

	coreUsed bool
	waiters  []CoreWaiter

	vertices map[int]*Vertex
}

// NewProcessingUnit creates an empty, idle ProcessingUnit.
func NewProcessingUnit(name string, id int) *ProcessingUnit {
	return &ProcessingUnit{
		name:     name,
		id:       id,
		vertices: make(map[int]*Vertex),
	}
}

// Name returns the unit's name.
func (u *ProcessingUnit) Name() string {
	return u.name
}

// ID returns the unit's id.
func (u *ProcessingUnit) ID() int {
	return u.id
}

// RequestCore asks for exclusive use of the unit's core. If the core is
// free, w fires immediately (Δt=0) and the core becomes used. Otherwise
// w is queued and fires only once every earlier waiter has been served.
func (u *ProcessingUnit) RequestCore(k *kernel.Kernel, w CoreWaiter) {
	if !u.coreUsed {
		u.coreUsed = true
		w.Notify(k, 0)
		return
	}

	u.waiters = append(u.waiters, w)
}

// ReleaseCore hands the core off to the next waiter, if any — which
// starts latency virtual-time units from now, the core staying marked
// used throughout since a new holder is already inbound — or, with no
// waiter, frees the core immediately. Either way the releasing Fiber
// itself absorbs latency via Sleep before returning to its caller: this
// attributes the latency to the releasing holder rather than the next
// one, the resolution SPEC_FULL.md adopts for the "who pays for the
// latency" open question, and the one consistent with property P4 (two
// same-unit vertices publish latency apart, not at the same instant).
func (u *ProcessingUnit) ReleaseCore(f *kernel.Fiber, latency kernel.VTime) {
	if len(u.waiters) > 0 {
		next := u.waiters[0]
		u.waiters = u.waiters[1:]
		next.Notify(f.Kernel(), latency)
	} else {
		u.coreUsed = false
	}

	f.Sleep(latency)
}

// CoreUsed reports whether the core is currently held or about to be
// handed off to a waiter.
func (u *ProcessingUnit) CoreUsed() bool {
	return u.coreUsed
}

// WaiterCount returns how many Fibers are queued for the core.
func (u *ProcessingUnit) WaiterCount() int {
	return len(u.waiters)
}

// addVertex registers v under its vertex number, panicking if the number
// is already taken within this unit (invariant 1, SPEC_FULL.md §3).
func (u *ProcessingUnit) addVertex(v *Vertex) {
	if _, exists := u.vertices[v.number]; exists {
		panic(fmt.Sprintf(
			"graph: unit %q already has a vertex numbered %d", u.name, v.number))
	}

	u.vertices[v.number] = v
}

// Vertex looks up an owned vertex by number.
func (u *ProcessingUnit) Vertex(number int) *Vertex {
	return u.vertices[number]
}

// AddVertex builds and starts a new compute Vertex of the given kind,
// owned by this unit, and spawns its execute Fiber (SPEC_FULL.md §4.4).
func (u *ProcessingUnit) AddVertex(
	k *kernel.Kernel,
	number int,
	name string,
	color int,
	latency kernel.VTime,
	kind VertexKind,
) *Vertex {
	v := newVertex(k, u, number, name, color, latency, kind)
	u.addVertex(v)
	v.start(k)

	return v
}

// Connect registers dst's pre-built input observer (observerID) at src,
// for src's output valueID — the graph-building primitive named
// `unit.connect` in SPEC_FULL.md §8.
func (u *ProcessingUnit) Connect(src *Subject, dst *Vertex, observerID int, valueID uint32) {
	obs := dst.manager.Get(observerID)
	if obs == nil {
		panic(fmt.Sprintf(
			"graph: vertex %q has no input observer id %d", dst.name, observerID))
	}

	src.Register(obs, valueID)
}
