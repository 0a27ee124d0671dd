package kernel

import "container/heap"

// notification is a scheduled future action: at the given virtual time,
// fire runs and marks the waiters of whichever Event it belongs to.
type notification struct {
	time VTime
	fire func()
}

// notificationHeap is a priority queue of notifications ordered by time,
// the same container/heap pattern the teacher uses for its event queue.
type notificationHeap []*notification

func (h notificationHeap) Len() int            { return len(h) }
func (h notificationHeap) Less(i, j int) bool  { return h[i].time < h[j].time }
func (h notificationHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *notificationHeap) Push(x interface{}) { *h = append(*h, x.(*notification)) }

func (h *notificationHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func newNotificationHeap() *notificationHeap {
	h := make(notificationHeap, 0)
	heap.Init(&h)
	return &h
}
