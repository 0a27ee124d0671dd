package graph

import "github.com/tgsim/tgsim/kernel"

// An Observer is a one-way sink bound to a single caller-owned destination
// and a trigger Event. A Subject invokes Notify on every Observer
// registered for the output id that just changed.
//
// Rather than a raw memcpy into an untyped buffer (the source program's
// approach), destinations are typed: ValueObserver below binds the
// destination's Go type at construction time, and its Notify panics on a
// value of any other type instead of corrupting memory. The check runs
// when a value is delivered; connecting a producer to a destination of
// the wrong type is not detected at elaboration time.
type Observer interface {
	Notify(k *kernel.Kernel, delta kernel.VTime, value any)
}

// ValueObserver copies the value it observes into *dest and schedules its
// trigger event. It is the default Observer used for connections that
// stay within one processing unit.
type ValueObserver[T any] struct {
	event *kernel.Event
	dest  *T
}

// NewValueObserver creates an Observer that writes into dest and notifies
// event. dest must be non-nil: this is the Go equivalent of the source
// program's "destPtr != null" precondition, enforced here by construction
// rather than at every Notify call.
func NewValueObserver[T any](event *kernel.Event, dest *T) *ValueObserver[T] {
	if event == nil {
		panic("graph: ValueObserver requires a non-nil trigger event")
	}

	if dest == nil {
		panic("graph: ValueObserver requires a non-nil destination")
	}

	return &ValueObserver[T]{event: event, dest: dest}
}

// Notify copies value into the destination and notifies the trigger
// event delta virtual-time units ahead. It panics if value is not
// assignable to the destination's type — the typed equivalent of the
// source program's memSize check.
func (o *ValueObserver[T]) Notify(k *kernel.Kernel, delta kernel.VTime, value any) {
	v, ok := value.(T)
	if !ok {
		panic("graph: observer value type mismatch")
	}

	*o.dest = v
	o.event.Notify(k, delta)
}

// Event returns the Observer's trigger event.
func (o *ValueObserver[T]) Event() *kernel.Event {
	return o.event
}
