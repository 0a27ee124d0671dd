package kernel

// An Event is a virtual-time notification token. Tasks suspend on an
// Event (directly, or as one member of an AndList) and are made runnable
// again when the Event is notified.
type Event struct {
	name    string
	waiters []andBinding
}

type andBinding struct {
	list *AndList
	idx  int
}

// NewEvent creates a named Event with no waiters.
func NewEvent(name string) *Event {
	return &Event{name: name}
}

// Name returns the Event's name.
func (e *Event) Name() string {
	return e.name
}

func (e *Event) addWaiter(list *AndList, idx int) {
	e.waiters = append(e.waiters, andBinding{list: list, idx: idx})
}

// Notify schedules a wake-up of every task currently waiting on this
// Event, delta ahead of the Kernel's current time. delta == 0 means "in
// a later delta cycle at the current timestamp" (see Kernel.drainDelta);
// delta must not be negative.
func (e *Event) Notify(k *Kernel, delta VTime) {
	if delta < 0 {
		panic("kernel: Event.Notify called with a negative delta")
	}

	k.scheduleNotify(delta, func() { e.fire(k) })
}

// fire runs when the notification scheduled by Notify reaches the front
// of the Kernel's queue. It marks every registered waiter and clears the
// waiter list — a Subject or vertex must re-register on its next Wait.
func (e *Event) fire(k *Kernel) {
	waiters := e.waiters
	e.waiters = nil

	for _, b := range waiters {
		b.list.mark(k, b.idx)
	}

	if k.NumHooks() > 0 {
		k.InvokeHook(HookCtx{Domain: k, Pos: HookPosEventFired, Item: e})
	}
}
