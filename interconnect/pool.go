package interconnect

import "log"

// Pool is a per-manager free list of Payload objects: allocate reuses a
// retired Payload if one is available, otherwise it constructs a new
// one and tracks it on the global list for destruction accounting
// (SPEC_FULL.md §4.9).
type Pool struct {
	name   string
	free   []*Payload
	global []*Payload
}

// NewPool creates an empty Pool. name appears in its destruction
// warning, matching the PayloadManager's naming convention in the
// teacher's tracer and the interconnect's memory-manager equivalent.
func NewPool(name string) *Pool {
	return &Pool{name: name}
}

// Allocate returns a Payload ready for reuse: either the most recently
// freed one, reset to its zero value, or a brand new one.
func (p *Pool) Allocate() *Payload {
	if n := len(p.free); n > 0 {
		pl := p.free[n-1]
		p.free = p.free[:n-1]
		pl.refs = 1

		return pl
	}

	pl := &Payload{pool: p, refs: 1}
	p.global = append(p.global, pl)

	return pl
}

// release resets pl and returns it to the pool's free list. Called by
// Payload.Release once its reference count reaches zero.
func (p *Pool) release(pl *Payload) {
	pl.reset()
	p.free = append(p.free, pl)
}

// NumFree reports how many Payloads are currently available for reuse.
func (p *Pool) NumFree() int {
	return len(p.free)
}

// Close logs a non-fatal warning for every Payload the pool still
// tracks with a non-zero reference count — a caller held onto a
// transaction past the simulation's end instead of releasing it.
func (p *Pool) Close() {
	for _, pl := range p.global {
		if pl.refs != 0 {
			log.Printf("interconnect: pool %q destroyed with payload still in use (refs=%d)", p.name, pl.refs)
		}
	}
}
