package kernel_test

import (
	"testing"

	"github.com/tgsim/tgsim/kernel"
)

// TestNotifyZeroDeltaDeliversSameTimestamp checks that Δt=0 notifications
// are delivered within the current timestamp, after the notifying call
// returns (property: same-delta delivery, SPEC_FULL.md §4.1).
func TestNotifyZeroDeltaDeliversSameTimestamp(t *testing.T) {
	k := kernel.NewKernel()
	ev := kernel.NewEvent("e")

	var woke bool
	var wokeAt kernel.VTime

	k.Spawn("waiter", func(f *kernel.Fiber) {
		f.WaitEvent(ev)
		woke = true
		wokeAt = f.Kernel().Now()
	})

	ev.Notify(k, 0)
	k.Run()

	if !woke {
		t.Fatal("waiter never woke")
	}

	if wokeAt != 0 {
		t.Fatalf("expected wake at t=0, got %v", wokeAt)
	}
}

// TestNotifyFutureDeltaAdvancesTime checks that Δt>0 notifications are
// delivered strictly after the current timestamp, and the kernel's clock
// advances to match.
func TestNotifyFutureDeltaAdvancesTime(t *testing.T) {
	k := kernel.NewKernel()
	ev := kernel.NewEvent("e")

	var wokeAt kernel.VTime

	k.Spawn("waiter", func(f *kernel.Fiber) {
		f.WaitEvent(ev)
		wokeAt = f.Kernel().Now()
	})

	ev.Notify(k, 5*kernel.Nanosecond)
	k.Run()

	if wokeAt != 5*kernel.Nanosecond {
		t.Fatalf("expected wake at t=5ns, got %v", wokeAt)
	}
}

// TestAndListWaitsForAllConstituents checks that a task waiting on an
// AndList only resumes once every constituent event has fired.
func TestAndListWaitsForAllConstituents(t *testing.T) {
	k := kernel.NewKernel()
	a := kernel.NewEvent("a")
	b := kernel.NewEvent("b")
	list := kernel.NewAndList(a, b)

	var woke bool

	k.Spawn("waiter", func(f *kernel.Fiber) {
		f.Wait(list)
		woke = true
	})

	a.Notify(k, 0)
	k.Run()

	if woke {
		t.Fatal("waiter woke after only one of two events fired")
	}
}

// TestAndListResumesAfterAllConstituentsFire is the positive counterpart
// of the test above, across two separate timestamps.
func TestAndListResumesAfterAllConstituentsFire(t *testing.T) {
	k := kernel.NewKernel()
	a := kernel.NewEvent("a")
	b := kernel.NewEvent("b")
	list := kernel.NewAndList(a, b)

	var wokeAt kernel.VTime
	woke := false

	k.Spawn("waiter", func(f *kernel.Fiber) {
		f.Wait(list)
		woke = true
		wokeAt = f.Kernel().Now()
	})

	a.Notify(k, 0)
	b.Notify(k, 3*kernel.Nanosecond)
	k.Run()

	if !woke {
		t.Fatal("waiter never woke")
	}

	if wokeAt != 3*kernel.Nanosecond {
		t.Fatalf("expected wake at t=3ns, got %v", wokeAt)
	}
}

// TestEmptyAndListNeverSuspends checks the vacuous-conjunction resolution
// adopted for an if-vertex path with no write-backs (SPEC_FULL.md §6).
func TestEmptyAndListNeverSuspends(t *testing.T) {
	k := kernel.NewKernel()
	list := kernel.NewAndList()

	var ran bool

	k.Spawn("waiter", func(f *kernel.Fiber) {
		f.Wait(list)
		ran = true
	})

	k.Run()

	if !ran {
		t.Fatal("waiting on an empty AndList should never suspend")
	}
}

// TestAndListRearmsAfterEachWait checks that a persistent AndList resets
// its bitmap between activations, so a second round needs every
// constituent to fire again.
func TestAndListRearmsAfterEachWait(t *testing.T) {
	k := kernel.NewKernel()
	a := kernel.NewEvent("a")
	list := kernel.NewAndList(a)

	var rounds int

	k.Spawn("waiter", func(f *kernel.Fiber) {
		for i := 0; i < 2; i++ {
			f.Wait(list)
			rounds++
		}
	})

	a.Notify(k, 0)
	a.Notify(k, 1*kernel.Nanosecond)
	k.Run()

	if rounds != 2 {
		t.Fatalf("expected 2 rounds, got %d", rounds)
	}
}

// fakeEndHandler records the time it was invoked at.
type fakeEndHandler struct {
	called bool
	at     kernel.VTime
}

func (h *fakeEndHandler) Handle(now kernel.VTime) {
	h.called = true
	h.at = now
}

func TestSimulationEndHandlerInvokedOnce(t *testing.T) {
	k := kernel.NewKernel()
	ev := kernel.NewEvent("e")
	h := &fakeEndHandler{}
	k.RegisterSimulationEndHandler(h)

	k.Spawn("waiter", func(f *kernel.Fiber) {
		f.WaitEvent(ev)
	})

	ev.Notify(k, 7*kernel.Nanosecond)
	k.Run()

	if !h.called {
		t.Fatal("end handler never invoked")
	}

	if h.at != 7*kernel.Nanosecond {
		t.Fatalf("expected end handler called at t=7ns, got %v", h.at)
	}
}

// TestSleepZeroIsNoOp checks that Sleep(0) does not suspend the caller at
// all, since there is nothing pending for it to wait on.
func TestSleepZeroIsNoOp(t *testing.T) {
	k := kernel.NewKernel()

	var ran bool

	k.Spawn("runner", func(f *kernel.Fiber) {
		f.Sleep(0)
		ran = true
	})

	k.Run()

	if !ran {
		t.Fatal("Sleep(0) should not prevent the fiber from completing")
	}
}

// TestSubjectIDAllocatorStartsAtOne matches property P1 (SPEC_FULL.md §10).
func TestSubjectIDAllocatorStartsAtOne(t *testing.T) {
	alloc := kernel.NewSubjectIDAllocator()

	seen := map[uint64]bool{}
	for i := 0; i < 5; i++ {
		id := alloc.Next()
		if id == kernel.UnusedSubjectID {
			t.Fatalf("allocator returned the reserved unused id")
		}

		if seen[id] {
			t.Fatalf("allocator returned duplicate id %d", id)
		}

		seen[id] = true
	}
}
