package graph

import (
	"fmt"

	"github.com/tgsim/tgsim/kernel"
)

// Op computes a vertex's outputs from its current inputs. It is the
// generic "one-shot repeating task" body named in SPEC_FULL.md §4.4 — the
// menagerie of concrete arithmetic/logic vertex kinds (Add, Sub, GEqual,
// ...) is just a catalogue of Op values, kept in package vertexops.
type Op func(inputs []any) []any

// VertexKind names an Op together with the input/output arity it expects,
// the unit of data unit.AddVertex's `kind` parameter carries in
// SPEC_FULL.md §8.
type VertexKind struct {
	Name       string
	NumInputs  int
	NumOutputs int
	Op         Op
}

// Vertex is the generic compute vertex described in SPEC_FULL.md §3/§4.4:
// it waits for all of its inputs to arrive, arbitrates for its owning
// unit's core, computes, releases the core, and publishes its outputs.
type Vertex struct {
	name    string
	number  int
	color   int
	latency kernel.VTime
	unit    *ProcessingUnit
	kind    VertexKind

	inputs      []any
	inputEvents []*kernel.Event
	inbound     *kernel.AndList
	manager     *ObserverManager

	outputs []any
	subject *Subject

	fiber *kernel.Fiber
}

func newVertex(
	k *kernel.Kernel,
	unit *ProcessingUnit,
	number int,
	name string,
	color int,
	latency kernel.VTime,
	kind VertexKind,
) *Vertex {
	v := &Vertex{
		name:    name,
		number:  number,
		color:   color,
		latency: latency,
		unit:    unit,
		kind:    kind,

		inputs:  make([]any, kind.NumInputs),
		outputs: make([]any, kind.NumOutputs),
		manager: NewObserverManager(),
		subject: NewSubject(k.SubjectIDAllocator(), name),
	}

	v.inbound = kernel.NewAndList()

	for i := 0; i < kind.NumInputs; i++ {
		ev := kernel.NewEvent(fmt.Sprintf("%s.in%d", name, i))
		v.inputEvents = append(v.inputEvents, ev)
		v.inbound.Add(ev)

		obs := NewValueObserver(ev, &v.inputs[i])
		v.manager.Add(obs)
	}

	return v
}

// Name returns the vertex's name.
func (v *Vertex) Name() string {
	return v.name
}

// Number returns the vertex's unique-within-scope number.
func (v *Vertex) Number() int {
	return v.number
}

// Color returns the vertex's opaque clustering color.
func (v *Vertex) Color() int {
	return v.color
}

// Latency returns the vertex's declared compute latency.
func (v *Vertex) Latency() kernel.VTime {
	return v.latency
}

// Unit returns the processing unit this vertex arbitrates for.
func (v *Vertex) Unit() *ProcessingUnit {
	return v.unit
}

// Subject returns the Subject successors register against to observe
// this vertex's outputs.
func (v *Vertex) Subject() *Subject {
	return v.subject
}

// InputObserverID returns the manager id of the pre-built Observer for
// input index i, for use with ProcessingUnit.Connect.
func (v *Vertex) InputObserverID(i int) int {
	return i
}

// InputObserver returns the pre-built Observer registered under id in
// this vertex's input ObserverManager, or nil if id is unknown.
func (v *Vertex) InputObserver(id int) Observer {
	return v.manager.Get(id)
}

// Output returns the current value published at output index i.
func (v *Vertex) Output(i int) any {
	return v.outputs[i]
}

// DeliverInput sets input index i to value and notifies its arrival event,
// Δt=0. It is the direct-feed counterpart to wiring a producing Subject
// through ProcessingUnit.Connect, useful whenever the source of an input
// is not itself a graph Subject.
func (v *Vertex) DeliverInput(k *kernel.Kernel, i int, value any) {
	v.inputs[i] = value
	v.inputEvents[i].Notify(k, 0)
}

// start spawns the vertex's execute Fiber (SPEC_FULL.md §4.4):
//
//  1. wait for every input to arrive this activation;
//  2. arbitrate for the owning unit's core;
//  3. compute;
//  4. release the core;
//  5. publish every output, Δt=0.
func (v *Vertex) start(k *kernel.Kernel) {
	v.fiber = k.Spawn(v.name, func(f *kernel.Fiber) {
		for {
			f.Wait(v.inbound)

			coreFree := kernel.NewEvent(v.name + ".coreFree")
			v.unit.RequestCore(k, coreFree)
			f.WaitEvent(coreFree)

			v.outputs = v.kind.Op(v.inputs)

			v.unit.ReleaseCore(f, v.latency)

			for id := range v.outputs {
				v.subject.NotifyObservers(k, uint32(id), v.outputs[id])
			}
		}
	})
}
