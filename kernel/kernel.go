package kernel

import "container/heap"

// A SimulationEndHandler is notified once after the Kernel's event queue
// drains. It mirrors the teacher's sim.SimulationEndHandler.
type SimulationEndHandler interface {
	Handle(now VTime)
}

// Kernel is the discrete-event scheduling core described in SPEC_FULL.md
// §4.1: a virtual-time notification queue with zero-delay delta cycles,
// driving a set of cooperative Fibers.
//
// All mutation of Kernel state happens from the single goroutine that
// calls Run — the Fibers it drives never run concurrently with it or
// with each other, so no locking is needed here even though individual
// Fibers are backed by their own goroutines.
type Kernel struct {
	*HookableBase

	now     VTime
	heap    *notificationHeap
	pending []func()
	runnable []*Fiber
	yieldCh chan fiberSignal

	idGen      IDGenerator
	subjectIDs *SubjectIDAllocator

	endHandlers []SimulationEndHandler
}

// NewKernel creates a Kernel with its event queue empty and its clock at
// zero.
func NewKernel() *Kernel {
	return &Kernel{
		HookableBase: NewHookableBase(),
		heap:         newNotificationHeap(),
		yieldCh:      make(chan fiberSignal),
		idGen:        NewSequentialIDGenerator(),
		subjectIDs:   NewSubjectIDAllocator(),
	}
}

// Now returns the Kernel's current virtual time.
func (k *Kernel) Now() VTime {
	return k.now
}

// IDGenerator returns the Kernel's shared IDGenerator, used for
// transaction and trace-record identity.
func (k *Kernel) IDGenerator() IDGenerator {
	return k.idGen
}

// UseIDGenerator swaps the Kernel's IDGenerator, e.g. for a
// non-deterministic xid-backed one when writing to a shared trace store.
func (k *Kernel) UseIDGenerator(g IDGenerator) {
	k.idGen = g
}

// SubjectIDAllocator returns the Kernel's Subject identity allocator.
// Every Subject constructed against this Kernel must draw its ID from
// here, so that identity stays unique within one Kernel's lifetime
// without relying on a package-level global (see SPEC_FULL.md's Design
// Notes on process-wide counters).
func (k *Kernel) SubjectIDAllocator() *SubjectIDAllocator {
	return k.subjectIDs
}

// RegisterSimulationEndHandler registers a handler invoked once Run
// finishes draining the event queue.
func (k *Kernel) RegisterSimulationEndHandler(h SimulationEndHandler) {
	k.endHandlers = append(k.endHandlers, h)
}

// Spawn starts a new Fiber running fn. The Fiber becomes runnable
// immediately — i.e. it runs during the current delta cycle, in spawn
// order relative to other Fibers spawned at the same instant. This is
// the adopted resolution for the open question of elaboration-time task
// ordering (SPEC_FULL.md §9): Spawn order is Fiber run order.
func (k *Kernel) Spawn(name string, fn func(f *Fiber)) *Fiber {
	f := &Fiber{name: name, k: k, wake: make(chan struct{})}

	go func() {
		<-f.wake
		fn(f)
		k.yieldCh <- fiberSignal{fiber: f, finished: true}
	}()

	k.runnable = append(k.runnable, f)

	return f
}

// scheduleNotify arranges for fire to run delta virtual-time units from
// now. delta == 0 defers fire to the next delta cycle at the current
// timestamp; delta > 0 schedules it at a future timestamp.
func (k *Kernel) scheduleNotify(delta VTime, fire func()) {
	if delta == 0 {
		k.pending = append(k.pending, fire)
		return
	}

	heap.Push(k.heap, &notification{time: k.now + delta, fire: fire})
}

func (k *Kernel) enqueueRunnable(f *Fiber) {
	k.runnable = append(k.runnable, f)
}

// Run drains the event queue: it alternates firing due notifications and
// running whichever Fibers they made runnable (a delta cycle), and
// advancing the clock to the next pending notification, until the queue
// is empty.
func (k *Kernel) Run() {
	for {
		k.drainDelta()

		if k.heap.Len() == 0 {
			break
		}

		k.advanceTime()
	}

	for _, h := range k.endHandlers {
		h.Handle(k.now)
	}
}

// drainDelta implements SPEC_FULL.md §4.1 step 1: each delta cycle first
// runs every runnable Fiber, then fires the notifications pending at the
// current timestamp, which may make Fibers runnable for the next delta
// cycle. It repeats until no notification and no runnable Fiber remains
// for "now". Event.Notify(k, 0) calls made while Fibers run append to
// k.pending, so they fire only after every Fiber runnable in that delta
// cycle has run (and, for Fibers spawned before Run, has started waiting).
func (k *Kernel) drainDelta() {
	for len(k.pending) > 0 || len(k.runnable) > 0 {
		for len(k.runnable) > 0 {
			f := k.runnable[0]
			k.runnable = k.runnable[1:]
			k.resume(f)
		}

		batch := k.pending
		k.pending = nil

		for _, fire := range batch {
			fire()
		}
	}
}

// advanceTime pops every notification scheduled for the earliest pending
// timestamp and stages them to fire on the next call to drainDelta.
func (k *Kernel) advanceTime() {
	first := heap.Pop(k.heap).(*notification)
	k.now = first.time
	k.pending = append(k.pending, first.fire)

	for k.heap.Len() > 0 && (*k.heap)[0].time == k.now {
		n := heap.Pop(k.heap).(*notification)
		k.pending = append(k.pending, n.fire)
	}
}

// resume hands control to f and blocks until f suspends again or
// finishes.
func (k *Kernel) resume(f *Fiber) {
	if f.done {
		return
	}

	f.wake <- struct{}{}
	sig := <-k.yieldCh

	if sig.finished {
		f.done = true
	}

	if k.NumHooks() > 0 {
		k.InvokeHook(HookCtx{Domain: k, Pos: HookPosTaskResumed, Item: f})
	}
}
