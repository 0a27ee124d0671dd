package kernel

// AndList is a conjunction of Events used as a composite wait condition.
// A task calling Fiber.Wait(list) is made runnable only once every
// constituent Event has fired at least once since the wait was armed;
// the bitmap is then cleared so the next wait re-arms from scratch.
//
// An AndList with zero constituent events is vacuously satisfied: Wait
// never suspends on it. This resolves the ambiguity in the hierarchical
// if-vertex's join AND-list when a path registers no write-backs (see
// SPEC_FULL.md §6).
type AndList struct {
	events []*Event
	fired  []bool
	fiber  *Fiber
}

// NewAndList builds an AndList over the given events. Adding constituents
// is an elaboration-time operation; the list must not be mutated once a
// Fiber starts waiting on it concurrently.
func NewAndList(events ...*Event) *AndList {
	return &AndList{
		events: events,
		fired:  make([]bool, len(events)),
	}
}

// Add appends another constituent Event to the list.
func (a *AndList) Add(ev *Event) {
	a.events = append(a.events, ev)
	a.fired = append(a.fired, false)
}

// Len returns the number of constituent events.
func (a *AndList) Len() int {
	return len(a.events)
}

func (a *AndList) reset() {
	for i := range a.fired {
		a.fired[i] = false
	}
}

func (a *AndList) mark(k *Kernel, idx int) {
	a.fired[idx] = true

	for _, f := range a.fired {
		if !f {
			return
		}
	}

	a.reset()
	k.enqueueRunnable(a.fiber)
}
