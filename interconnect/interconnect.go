package interconnect

import (
	"fmt"

	"github.com/tgsim/tgsim/graph"
	"github.com/tgsim/tgsim/kernel"
)

// TransmissionData is the fixed, per-observer routing and addressing
// entry an Interconnect consults when packing a transaction: which
// outgoing link to send on, how many hops away the destination is, and
// which value id to address at the destination (SPEC_FULL.md §4.8).
type TransmissionData struct {
	OutLink     int
	DeltaX      int
	DeltaY      int
	DestValueID uint32
}

// Interconnect is the per-unit transport gateway: it owns one
// SocketManager per outgoing link, a Payload Pool, and a fixed
// TransmissionData lookup table keyed by observer id. Vertices wire
// their outputs into it through ObserverInterconnect instead of a
// graph.ValueObserver when the destination lives on another unit.
type Interconnect struct {
	name string

	links []*SocketManager
	pool  *Pool

	transmission []TransmissionData
	descriptors  []Descriptor
	observers    []*ObserverInterconnect

	requestDelay   kernel.VTime
	responseDelay  kernel.VTime
	commDelay      kernel.VTime
	routingLatency kernel.VTime

	subject *graph.Subject
}

// New builds an Interconnect with numLinks outgoing links and numObs
// observer slots (one per vertex output id that can cross this unit's
// boundary).
func New(
	k *kernel.Kernel,
	name string,
	numLinks int,
	numObs int,
	requestDelay, responseDelay, commDelay, routingLatency kernel.VTime,
) *Interconnect {
	ic := &Interconnect{
		name:           name,
		pool:           NewPool(name + ".payloads"),
		transmission:   make([]TransmissionData, numObs),
		descriptors:    make([]Descriptor, numObs),
		requestDelay:   requestDelay,
		responseDelay:  responseDelay,
		commDelay:      commDelay,
		routingLatency: routingLatency,
		subject:        graph.NewSubject(k.SubjectIDAllocator(), name),
	}

	for i := 0; i < numLinks; i++ {
		ic.links = append(ic.links, NewSocketManager())
	}

	for i := 0; i < numObs; i++ {
		ev := kernel.NewEvent(fmt.Sprintf("%s.obs%d", name, i))
		ic.observers = append(ic.observers, NewObserverInterconnect(ev, &ic.descriptors[i]))
	}

	return ic
}

// Subject returns the Interconnect's own Subject, for wiring to local
// destination vertices. No method of Interconnect notifies it.
func (ic *Interconnect) Subject() *graph.Subject {
	return ic.subject
}

// Observer returns the pre-built ObserverInterconnect for observer id
// obsID, for registering against a producing vertex's output Subject.
func (ic *Interconnect) Observer(obsID int) *ObserverInterconnect {
	return ic.observers[obsID]
}

// SetTransmissionData installs the routing/addressing entry for
// observer id obsID. Elaboration-time only, per SPEC_FULL.md §5.
func (ic *Interconnect) SetTransmissionData(obsID int, data TransmissionData) {
	ic.transmission[obsID] = data
}

// RequestLink asks for exclusive use of outgoing link linkID, exactly
// like ProcessingUnit.RequestCore but scoped to one link.
func (ic *Interconnect) RequestLink(k *kernel.Kernel, linkID int, ev *kernel.Event) (queued bool) {
	return ic.links[linkID].RequestLink(k, ev)
}

// ReleaseLink frees outgoing link linkID, or hands it to the next
// queued waiter.
func (ic *Interconnect) ReleaseLink(k *kernel.Kernel, linkID int) (handedOff bool) {
	return ic.links[linkID].ReleaseLink(k)
}

// PackTransactionObject builds a read transaction for observer id obsID
// from the interconnect's lookup table and the data descriptor last
// recorded for it, returning the outgoing link id the transaction
// should request first (SPEC_FULL.md §4.8).
func (ic *Interconnect) PackTransactionObject(obsID int) (*Payload, int) {
	td := ic.transmission[obsID]
	desc := ic.descriptors[obsID]

	p := ic.pool.Allocate()
	p.Command = ReadCommand
	p.Address = uint64(td.DestValueID)
	p.Data = desc.Data
	p.DataLength = desc.Length
	p.StreamingWidth = desc.Length
	p.Routing.SetCoordinates(td.DeltaX, td.DeltaY)

	return p, td.OutLink
}

// ValidatePayload is checkForValidDataPackage: it rejects a streaming-
// width mismatch or the presence of a byte-enable mask — neither is
// implemented by this transport — setting the payload's Response and
// returning whether it is otherwise deliverable.
func ValidatePayload(p *Payload) bool {
	if p.DataLength > p.StreamingWidth {
		p.Response = StreamingWidthErrorResponse
		return false
	}

	if p.ByteEnable != nil {
		p.Response = ByteEnableErrorResponse
		return false
	}

	p.Response = OKResponse

	return true
}

// Route advances p one hop and reports whether it has arrived. Callers
// that get arrived == false should RequestLink on whichever link the
// routing policy names next; this transport's policy keeps using the
// link the transaction was packed with, matching a direct point-to-
// point or single-switch topology.
func Route(p *Payload) (arrived bool) {
	return p.Routing.NextLink()
}

// Close releases the Interconnect's Payload pool, logging a warning for
// any transaction still outstanding.
func (ic *Interconnect) Close() {
	ic.pool.Close()
}
