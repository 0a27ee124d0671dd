package interconnect

import "github.com/tgsim/tgsim/kernel"

// Descriptor is the (data, length) pair ObserverInterconnect records —
// the Go analogue of the source representation's raw
// (dataPtr_t, numOfBytes) pair that crosses a processing-unit boundary
// without being copied into interconnect-local storage the way
// graph.ValueObserver copies intra-unit values.
type Descriptor struct {
	Data   any
	Length int
}

// ObserverInterconnect is the Observer variant wired between a compute
// vertex's output and an Interconnect's inbound slot: rather than
// copying the value itself, it records a Descriptor and flags that it
// changed, leaving the interconnect free to read it lazily the next
// time it packs a transaction (SPEC_FULL.md §4.8/§4.9).
type ObserverInterconnect struct {
	event   *kernel.Event
	dest    *Descriptor
	changed bool
}

// NewObserverInterconnect creates an ObserverInterconnect writing into
// dest and notifying event.
func NewObserverInterconnect(event *kernel.Event, dest *Descriptor) *ObserverInterconnect {
	if event == nil {
		panic("interconnect: ObserverInterconnect requires a non-nil trigger event")
	}

	if dest == nil {
		panic("interconnect: ObserverInterconnect requires a non-nil destination")
	}

	return &ObserverInterconnect{event: event, dest: dest}
}

// Notify records value — which must already be a Descriptor built by
// whatever produced it for cross-unit transport — at the destination,
// flags the change, and fires the trigger event delta ahead.
func (o *ObserverInterconnect) Notify(k *kernel.Kernel, delta kernel.VTime, value any) {
	d, ok := value.(Descriptor)
	if !ok {
		panic("interconnect: ObserverInterconnect requires a Descriptor value")
	}

	*o.dest = d
	o.changed = true
	o.event.Notify(k, delta)
}

// Changed reports whether the destination has been written since
// construction or the last reset; passing reset clears the flag in the
// same call.
func (o *ObserverInterconnect) Changed(reset bool) bool {
	c := o.changed
	if c && reset {
		o.changed = false
	}

	return c
}

// Event returns the Observer's trigger event.
func (o *ObserverInterconnect) Event() *kernel.Event {
	return o.event
}
