// Package ifvertex implements the hierarchical if/then/else task-graph
// node: a gate that, on activation, notifies one of two sub-graphs
// (then or else) depending on a runtime condition, and re-joins with
// external successors once the chosen sub-graph's write-backs land.
package ifvertex

import (
	"fmt"

	"github.com/tgsim/tgsim/graph"
	"github.com/tgsim/tgsim/kernel"
)

// Branch tags which of the two sub-graphs a SubPath represents. The
// original representation used two near-identical classes (ThenPath,
// ElsePath) differing only in which member variables of the owning
// if-vertex they read; here a single SubPath type covers both, tagged
// by Branch.
type Branch int

const (
	Then Branch = iota
	Else
)

func (b Branch) String() string {
	if b == Then {
		return "then"
	}

	return "else"
}

// SubPath is one arm of an If: it owns the vertices placed inside it
// and relays inbound values from the parent If to whichever of those
// vertices registered interest in them.
type SubPath struct {
	branch   Branch
	parent   *If
	vertices map[int]*graph.Vertex

	observers []subPathBinding
}

type subPathBinding struct {
	obs   graph.Observer
	valID uint32
}

func newSubPath(parent *If, branch Branch) *SubPath {
	return &SubPath{
		branch:   branch,
		parent:   parent,
		vertices: make(map[int]*graph.Vertex),
	}
}

// addVertex registers v under its vertex number, fatal on collision
// within this path (SPEC_FULL.md §4.7 errors).
func (p *SubPath) addVertex(v *graph.Vertex) {
	if _, exists := p.vertices[v.Number()]; exists {
		panic(fmt.Sprintf(
			"ifvertex: %s path of %q already has a vertex numbered %d",
			p.branch, p.parent.name, v.Number()))
	}

	p.vertices[v.Number()] = v
}

// vertex looks up a vertex owned by this path, panicking if absent —
// every path-scoped lookup in this package goes through here so the
// "no valid identification number" error is raised in one place.
func (p *SubPath) vertex(number int) *graph.Vertex {
	v, ok := p.vertices[number]
	if !ok {
		panic(fmt.Sprintf(
			"ifvertex: no valid identification number %d in %s path of %q",
			number, p.branch, p.parent.name))
	}

	return v
}

// register binds obs to be relayed whenever the parent If forwards
// valID into this path.
func (p *SubPath) register(obs graph.Observer, valID uint32) {
	p.observers = append(p.observers, subPathBinding{obs: obs, valID: valID})
}

// notify forwards value, Δt=0, to every observer bound to valID.
func (p *SubPath) notify(k *kernel.Kernel, valID uint32, value any) {
	for _, b := range p.observers {
		if b.valID == valID {
			b.obs.Notify(k, 0, value)
		}
	}
}
