package interconnect

// Command mirrors the handful of transaction commands this layer
// actually issues — every vertex-output transmission is a read of the
// destination's value id (SPEC_FULL.md §4.8).
type Command int

const (
	ReadCommand Command = iota
	WriteCommand
)

// ResponseStatus is the outcome of validating a Payload before it is
// sent, modeled after the two rejection codes the source representation
// implements and nothing more (SPEC_FULL.md §4.8).
type ResponseStatus int

const (
	OKResponse ResponseStatus = iota
	StreamingWidthErrorResponse
	ByteEnableErrorResponse
)

// RoutingExt carries the relative hop coordinates a Payload still has
// to travel: each link traversal decrements whichever of Δx/Δy is
// non-zero, by convention x before y, until both reach zero and the
// payload has arrived (SPEC_FULL.md §4.8).
type RoutingExt struct {
	DeltaX int
	DeltaY int
}

// SetCoordinates overwrites both hop counters at once.
func (r *RoutingExt) SetCoordinates(dx, dy int) {
	r.DeltaX = dx
	r.DeltaY = dy
}

// IsTargetReached reports whether the payload has arrived: both
// coordinates are zero.
func (r *RoutingExt) IsTargetReached() bool {
	return r.DeltaX == 0 && r.DeltaY == 0
}

// NextLink decrements one hop of travel and returns whether the payload
// has arrived at its destination after doing so. Callers that get
// arrived == true route locally instead of calling RequestLink again.
func (r *RoutingExt) NextLink() (arrived bool) {
	switch {
	case r.DeltaX != 0:
		r.DeltaX = stepToward(r.DeltaX)
	case r.DeltaY != 0:
		r.DeltaY = stepToward(r.DeltaY)
	}

	return r.IsTargetReached()
}

func stepToward(v int) int {
	if v > 0 {
		return v - 1
	}

	return v + 1
}

// Payload is a pooled transaction object: one vertex output's value in
// flight toward a destination value id on some other processing unit.
// Payload.pool and Payload.refs implement the reference-counted
// recycling SPEC_FULL.md §4.9 describes.
type Payload struct {
	Command        Command
	Address        uint64
	Data           any
	DataLength     int
	StreamingWidth int
	ByteEnable     []byte
	Response       ResponseStatus
	Routing        RoutingExt

	pool *Pool
	refs int
}

// reset restores every field to its zero value, for reuse from a Pool's
// free list.
func (p *Payload) reset() {
	p.Command = ReadCommand
	p.Address = 0
	p.Data = nil
	p.DataLength = 0
	p.StreamingWidth = 0
	p.ByteEnable = nil
	p.Response = OKResponse
	p.Routing = RoutingExt{}
	p.refs = 0
}

// AddRef increments the payload's reference count — a transport stage
// that needs to hold onto the payload past the call that handed it to
// it should call this first.
func (p *Payload) AddRef() {
	p.refs++
}

// Release drops a reference. Once the count reaches zero the payload is
// returned to its owning pool's free list.
func (p *Payload) Release() {
	p.refs--
	if p.refs <= 0 && p.pool != nil {
		p.pool.release(p)
	}
}

// RefCount reports the payload's current reference count, mostly for
// tests and the pool's destruction warning.
func (p *Payload) RefCount() int {
	return p.refs
}
