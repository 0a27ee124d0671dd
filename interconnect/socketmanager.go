// Package interconnect implements the per-link arbitration, transaction
// packing and routing layer that carries vertex outputs across
// processing-unit boundaries (SPEC_FULL.md §4.8/§4.9).
package interconnect

import "github.com/tgsim/tgsim/kernel"

// SocketManager arbitrates exclusive use of a single outgoing link: at
// most one transmission is in flight on it at a time, and later
// requesters queue FIFO behind the current one (SPEC_FULL.md §4.8).
type SocketManager struct {
	used  bool
	queue []*kernel.Event
}

// NewSocketManager returns a free SocketManager.
func NewSocketManager() *SocketManager {
	return &SocketManager{}
}

// RequestLink asks for the link. If free, ev fires immediately (Δt=0)
// and false is returned ("go"). Otherwise ev is queued and true is
// returned ("queued").
func (m *SocketManager) RequestLink(k *kernel.Kernel, ev *kernel.Event) (queued bool) {
	if m.used {
		m.queue = append(m.queue, ev)
		return true
	}

	m.used = true
	ev.Notify(k, 0)

	return false
}

// ReleaseLink hands the link to the next queued waiter (Δt=0, link
// stays marked used) or frees it if the queue is empty. It returns
// whether a waiter was handed off.
func (m *SocketManager) ReleaseLink(k *kernel.Kernel) (handedOff bool) {
	if len(m.queue) == 0 {
		m.used = false
		return false
	}

	next := m.queue[0]
	m.queue = m.queue[1:]
	next.Notify(k, 0)

	return true
}

// Used reports whether the link is currently held or about to be
// handed to a waiter.
func (m *SocketManager) Used() bool {
	return m.used
}

// QueueLen returns how many transmissions are waiting for the link.
func (m *SocketManager) QueueLen() int {
	return len(m.queue)
}
