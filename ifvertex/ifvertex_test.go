package ifvertex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgsim/tgsim/graph"
	"github.com/tgsim/tgsim/ifvertex"
	"github.com/tgsim/tgsim/kernel"
)

var postDecKind = graph.VertexKind{
	Name:       "postdec",
	NumInputs:  1,
	NumOutputs: 1,
	Op: func(inputs []any) []any {
		v := inputs[0].(int)
		return []any{v} // PostDec publishes the pre-decrement value.
	},
}

// TestPassthroughWithEmptyPaths is end-to-end scenario 3 (SPEC_FULL.md
// §10): an if-vertex with no vertices and no write-backs in either path
// publishes its inbound values straight through, at the instant the
// condition and inbound data are all ready.
func TestPassthroughWithEmptyPaths(t *testing.T) {
	k := kernel.NewKernel()
	unit := graph.NewProcessingUnit("u", 0)
	cond := graph.NewSubject(k.SubjectIDAllocator(), "cond")

	iv := ifvertex.New(k, unit, 0, "iv", 0, 0, 2, cond)

	var outA, outB any
	var at kernel.VTime
	aEv := kernel.NewEvent("a")
	bEv := kernel.NewEvent("b")
	iv.Subject().Register(graph.NewValueObserver(aEv, &outA), 0)
	iv.Subject().Register(graph.NewValueObserver(bEv, &outB), 1)

	k.Spawn("watcher", func(f *kernel.Fiber) {
		f.Wait(kernel.NewAndList(aEv, bEv))
		at = f.Kernel().Now()
	})

	k.Spawn("driver", func(f *kernel.Fiber) {
		cond.NotifyObservers(f.Kernel(), 0, true)
		iv.DeliverInput(f.Kernel(), 0, 7)
		iv.DeliverInput(f.Kernel(), 1, 11)
	})

	k.Run()

	assert.Equal(t, 7, outA)
	assert.Equal(t, 11, outB)
	assert.Equal(t, kernel.VTime(0), at)
}

// TestThenPathWriteBackOverridesPassthrough is end-to-end scenario 4: a
// PostDec vertex inside the then path writes back slot 0; slot 1 stays
// pass-through.
func TestThenPathWriteBackOverridesPassthrough(t *testing.T) {
	k := kernel.NewKernel()
	unit := graph.NewProcessingUnit("u", 0)
	cond := graph.NewSubject(k.SubjectIDAllocator(), "cond")

	iv := ifvertex.New(k, unit, 0, "iv", 0, 0, 2, cond)
	p := iv.AddVertexToThen(k, 0, "P", 0, 2*kernel.Nanosecond, postDecKind)

	iv.ConnectToThenDependency(0, p.InputObserverID(0), 0)
	iv.RegisterThenOutDependency(0, 0, 0)

	var outA, outB any
	var atA, atB kernel.VTime
	aEv := kernel.NewEvent("a")
	bEv := kernel.NewEvent("b")
	iv.Subject().Register(graph.NewValueObserver(aEv, &outA), 0)
	iv.Subject().Register(graph.NewValueObserver(bEv, &outB), 1)

	k.Spawn("watchA", func(f *kernel.Fiber) {
		f.WaitEvent(aEv)
		atA = f.Kernel().Now()
	})

	k.Spawn("watchB", func(f *kernel.Fiber) {
		f.WaitEvent(bEv)
		atB = f.Kernel().Now()
	})

	k.Spawn("driver", func(f *kernel.Fiber) {
		cond.NotifyObservers(f.Kernel(), 0, true)
		iv.DeliverInput(f.Kernel(), 0, 7)
		iv.DeliverInput(f.Kernel(), 1, 11)
	})

	k.Run()

	assert.Equal(t, 7, outA, "PostDec publishes the pre-decrement value")
	assert.Equal(t, 11, outB, "slot 1 has no write-back, passes through")
	assert.Equal(t, 2*kernel.Nanosecond, atA)
	assert.Equal(t, 2*kernel.Nanosecond, atB, "both slots publish together, at join time")
}

// TestConditionFalseTakesElsePath is end-to-end scenario 5: with
// condition=false, then-path vertices never activate.
func TestConditionFalseTakesElsePath(t *testing.T) {
	k := kernel.NewKernel()
	unit := graph.NewProcessingUnit("u", 0)
	cond := graph.NewSubject(k.SubjectIDAllocator(), "cond")

	iv := ifvertex.New(k, unit, 0, "iv", 0, 0, 1, cond)
	p := iv.AddVertexToThen(k, 0, "P", 0, 1*kernel.Nanosecond, postDecKind)
	iv.ConnectToThenDependency(0, p.InputObserverID(0), 0)
	iv.RegisterThenOutDependency(0, 0, 0)

	var thenRan bool
	p.Subject().Register(observerFunc(func(*kernel.Kernel, kernel.VTime, any) {
		thenRan = true
	}), 0)

	var out any
	outEv := kernel.NewEvent("out")
	iv.Subject().Register(graph.NewValueObserver(outEv, &out), 0)

	k.Spawn("driver", func(f *kernel.Fiber) {
		cond.NotifyObservers(f.Kernel(), 0, false)
		iv.DeliverInput(f.Kernel(), 0, 9)
	})

	var published bool
	k.Spawn("watcher", func(f *kernel.Fiber) {
		f.WaitEvent(outEv)
		published = true
	})

	k.Run()

	require.True(t, published)
	assert.Equal(t, 9, out)
	assert.False(t, thenRan, "then path must not activate when condition is false")
}

// observerFunc adapts a plain function to graph.Observer, for tests
// that only want to detect whether a notification happened.
type observerFunc func(k *kernel.Kernel, delta kernel.VTime, value any)

func (f observerFunc) Notify(k *kernel.Kernel, delta kernel.VTime, value any) {
	f(k, delta, value)
}
