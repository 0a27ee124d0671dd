package kernel

// fiberSignal is sent by a fiber goroutine back to the Kernel driver
// either when it suspends in Wait, or when its body returns.
type fiberSignal struct {
	fiber    *Fiber
	finished bool
}

// A Fiber is a cooperative task: a goroutine whose user code the Kernel
// guarantees never runs concurrently with any other Fiber's. The only
// suspension points are Wait, WaitEvent and Sleep; between those calls a
// Fiber's execution is atomic with respect to every other Fiber.
type Fiber struct {
	name string
	k    *Kernel
	wake chan struct{}
	done bool
}

// Name returns the Fiber's name, mostly useful in panics and traces.
func (f *Fiber) Name() string {
	return f.name
}

// Kernel returns the Kernel driving this Fiber.
func (f *Fiber) Kernel() *Kernel {
	return f.k
}

// Wait suspends the Fiber until every Event in list has fired at least
// once since the wait was armed. An empty list never suspends.
func (f *Fiber) Wait(list *AndList) {
	if list.Len() == 0 {
		return
	}

	list.fiber = f
	for i, ev := range list.events {
		ev.addWaiter(list, i)
	}

	f.suspend()
}

// WaitEvent suspends the Fiber until ev fires once.
func (f *Fiber) WaitEvent(ev *Event) {
	f.Wait(NewAndList(ev))
}

// Sleep suspends the Fiber for delta virtual time. delta == 0 is a no-op:
// it does not even cross a delta cycle, since there is nothing to wait
// for that another task could have already scheduled.
func (f *Fiber) Sleep(delta VTime) {
	if delta == 0 {
		return
	}

	ev := NewEvent(f.name + ".sleep")
	ev.Notify(f.k, delta)
	f.WaitEvent(ev)
}

// suspend hands control back to the Kernel driver and blocks until the
// Kernel resumes this Fiber.
func (f *Fiber) suspend() {
	f.k.yieldCh <- fiberSignal{fiber: f}
	<-f.wake
}
