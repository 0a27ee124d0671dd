package ifvertex

import (
	"fmt"

	"github.com/tgsim/tgsim/graph"
	"github.com/tgsim/tgsim/kernel"
)

// If is the hierarchical branching vertex described in SPEC_FULL.md
// §4.7: it waits for a condition plus N inbound values, forwards those
// values into one of two SubPaths depending on the condition, waits for
// that path's write-backs (if any), then republishes every outbound
// slot to its own external successors.
//
// The source representation split this into three always-running
// SystemC threads (conditionCheck, ifEndFromThenProcess,
// ifEndFromElseProcess) synchronized only by shared AND-lists, because
// SystemC schedules them independently. Under this package's
// single-fiber-at-a-time cooperative model there is no benefit to that
// split — it is collapsed into one activation loop, which also sidesteps
// a livelock the split form has no good story for: an empty join
// AND-list never suspends (SPEC_FULL.md §6), so a *free-running*
// ifEndFromThenProcess fiber with no registered write-backs would spin
// re-publishing the same values without ever yielding. Folding the wait
// into the same loop that guards the next activation on the inbound
// AND-list removes that failure mode entirely.
type If struct {
	name    string
	number  int
	color   int
	latency kernel.VTime
	unit    *graph.ProcessingUnit

	condition      bool
	conditionEvent *kernel.Event

	inbound       []any
	inboundEvents []*kernel.Event
	inboundAnd    *kernel.AndList
	inboundMgr    *graph.ObserverManager

	outbound []any

	thenPath  *SubPath
	elsePath  *SubPath
	thenNodes map[uint32]bool
	elseNodes map[uint32]bool

	thenJoin *kernel.AndList
	elseJoin *kernel.AndList
	joinMgr  *graph.ObserverManager

	subject *graph.Subject
	fiber   *kernel.Fiber
}

// New builds and starts an If vertex. condition is the Subject whose
// output 0 carries the branch's boolean; numInEdges is N, the number of
// plain data inputs besides the condition.
func New(
	k *kernel.Kernel,
	unit *graph.ProcessingUnit,
	number int,
	name string,
	color int,
	latency kernel.VTime,
	numInEdges int,
	condition *graph.Subject,
) *If {
	iv := &If{
		name:      name,
		number:    number,
		color:     color,
		latency:   latency,
		unit:      unit,
		inbound:   make([]any, numInEdges),
		outbound:  make([]any, numInEdges),
		thenNodes: make(map[uint32]bool),
		elseNodes: make(map[uint32]bool),
		subject:   graph.NewSubject(k.SubjectIDAllocator(), name),
		joinMgr:   graph.NewObserverManager(),
		thenJoin:  kernel.NewAndList(),
		elseJoin:  kernel.NewAndList(),
	}

	iv.conditionEvent = kernel.NewEvent(name + ".condition")
	condition.Register(graph.NewValueObserver(iv.conditionEvent, &iv.condition), 0)

	iv.inboundAnd = kernel.NewAndList(iv.conditionEvent)
	iv.inboundMgr = graph.NewObserverManager()

	for i := 0; i < numInEdges; i++ {
		ev := kernel.NewEvent(fmt.Sprintf("%s.in%d", name, i))
		iv.inboundEvents = append(iv.inboundEvents, ev)
		iv.inboundAnd.Add(ev)
		iv.inboundMgr.Add(graph.NewValueObserver(ev, &iv.inbound[i]))
	}

	iv.thenPath = newSubPath(iv, Then)
	iv.elsePath = newSubPath(iv, Else)

	iv.start(k)

	return iv
}

// Name returns the if-vertex's name.
func (iv *If) Name() string {
	return iv.name
}

// Number returns the if-vertex's unique-within-scope number.
func (iv *If) Number() int {
	return iv.number
}

// Subject returns the Subject external successors register against.
func (iv *If) Subject() *graph.Subject {
	return iv.subject
}

// InputObserverID returns the manager id of the pre-built Observer for
// inbound data edge i (the condition is wired separately, at
// construction time, and has no id of its own).
func (iv *If) InputObserverID(i int) int {
	return i
}

// DeliverInput feeds value into inbound data edge i, Δt=0 — the direct
// counterpart to graph.Vertex.DeliverInput, for tests and for sources
// that are not themselves graph Subjects.
func (iv *If) DeliverInput(k *kernel.Kernel, i int, value any) {
	iv.inbound[i] = value
	iv.inboundEvents[i].Notify(k, 0)
}

// DeliverCondition sets the branch condition directly, Δt=0, bypassing
// the Subject/Observer wiring — the counterpart to DeliverInput for the
// condition edge.
func (iv *If) DeliverCondition(k *kernel.Kernel, value bool) {
	iv.condition = value
	iv.conditionEvent.Notify(k, 0)
}

// AddVertexToThen builds a compute vertex of kind inside the then path,
// owned by the same processing unit as the if-vertex itself.
func (iv *If) AddVertexToThen(k *kernel.Kernel, number int, name string, color int, latency kernel.VTime, kind graph.VertexKind) *graph.Vertex {
	v := iv.unit.AddVertex(k, number, name, color, latency, kind)
	iv.thenPath.addVertex(v)

	return v
}

// AddVertexToElse is AddVertexToThen's else-path counterpart.
func (iv *If) AddVertexToElse(k *kernel.Kernel, number int, name string, color int, latency kernel.VTime, kind graph.VertexKind) *graph.Vertex {
	v := iv.unit.AddVertex(k, number, name, color, latency, kind)
	iv.elsePath.addVertex(v)

	return v
}

// ConnectInsideThenPath wires srcID's output valID to dstID's input
// obsID, both srcID and dstID being vertices already placed in the then
// path (SPEC_FULL.md §4.7 errors: both endpoints must exist).
func (iv *If) ConnectInsideThenPath(srcID, dstID, obsID int, valID uint32) {
	connectInsidePath(iv.thenPath, srcID, dstID, obsID, valID)
}

// ConnectInsideElsePath is ConnectInsideThenPath's else-path counterpart.
func (iv *If) ConnectInsideElsePath(srcID, dstID, obsID int, valID uint32) {
	connectInsidePath(iv.elsePath, srcID, dstID, obsID, valID)
}

func connectInsidePath(p *SubPath, srcID, dstID, obsID int, valID uint32) {
	src := p.vertex(srcID)
	dst := p.vertex(dstID)

	obs := dst.InputObserver(obsID)
	if obs == nil {
		panic(fmt.Sprintf("ifvertex: vertex %q has no input observer id %d", dst.Name(), obsID))
	}

	src.Subject().Register(obs, valID)
}

// ConnectToThenDependency registers dstID's input obsID (a vertex
// inside the then path) to receive inbound value valID whenever the
// then path is taken — the "first node of a core code sequence" hook
// named in the source representation.
func (iv *If) ConnectToThenDependency(dstID, obsID int, valID uint32) {
	connectToDependency(iv.thenPath, iv.thenNodes, dstID, obsID, valID)
}

// ConnectToElseDependency is ConnectToThenDependency's else-path
// counterpart.
func (iv *If) ConnectToElseDependency(dstID, obsID int, valID uint32) {
	connectToDependency(iv.elsePath, iv.elseNodes, dstID, obsID, valID)
}

func connectToDependency(p *SubPath, nodes map[uint32]bool, dstID, obsID int, valID uint32) {
	dst := p.vertex(dstID)

	obs := dst.InputObserver(obsID)
	if obs == nil {
		panic(fmt.Sprintf("ifvertex: vertex %q has no input observer id %d", dst.Name(), obsID))
	}

	p.register(obs, valID)
	nodes[valID] = true
}

// RegisterThenOutDependency marks srcID (a then-path vertex) as the
// last writer of outbound slot inEdgeID: a dedicated join event is
// appended to the then join AND-list, and an Observer installed at
// srcID's output valID overwrites outbound[inEdgeID] when srcID
// publishes (SPEC_FULL.md §4.7).
func (iv *If) RegisterThenOutDependency(srcID int, inEdgeID int, valID uint32) {
	registerOutDependency(iv, iv.thenPath, iv.thenJoin, srcID, inEdgeID, valID)
}

// RegisterElseOutDependency is RegisterThenOutDependency's else-path
// counterpart.
func (iv *If) RegisterElseOutDependency(srcID int, inEdgeID int, valID uint32) {
	registerOutDependency(iv, iv.elsePath, iv.elseJoin, srcID, inEdgeID, valID)
}

func registerOutDependency(iv *If, p *SubPath, join *kernel.AndList, srcID int, inEdgeID int, valID uint32) {
	src := p.vertex(srcID)

	ev := kernel.NewEvent(fmt.Sprintf("%s.%sOut%d", iv.name, p.branch, join.Len()))
	join.Add(ev)

	obs := graph.NewValueObserver(ev, &iv.outbound[inEdgeID])
	id := iv.joinMgr.Add(obs)

	src.Subject().Register(iv.joinMgr.Get(id), valID)
}

// start spawns the if-vertex's single activation-loop Fiber, implementing
// the Idle→Dispatching→{Then,Else}Running→JoinPublishing→Idle state
// machine in SPEC_FULL.md §4.7.
func (iv *If) start(k *kernel.Kernel) {
	iv.fiber = k.Spawn(iv.name, func(f *kernel.Fiber) {
		for {
			f.Wait(iv.inboundAnd)

			copy(iv.outbound, iv.inbound)

			if iv.condition {
				for valID := range iv.thenNodes {
					iv.thenPath.notify(k, valID, iv.inbound[valID])
				}

				f.Wait(iv.thenJoin)
			} else {
				for valID := range iv.elseNodes {
					iv.elsePath.notify(k, valID, iv.inbound[valID])
				}

				f.Wait(iv.elseJoin)
			}

			for id := range iv.outbound {
				iv.subject.NotifyObservers(k, uint32(id), iv.outbound[id])
			}
		}
	})
}
