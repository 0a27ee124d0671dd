package interconnect

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RoutingExt", func() {
	It("reports the target reached once both coordinates are zero", func() {
		r := RoutingExt{}
		Expect(r.IsTargetReached()).To(BeTrue())

		r.SetCoordinates(2, 0)
		Expect(r.IsTargetReached()).To(BeFalse())
	})

	It("decrements x before y", func() {
		r := RoutingExt{}
		r.SetCoordinates(1, 1)

		arrived := r.NextLink()
		Expect(arrived).To(BeFalse())
		Expect(r.DeltaX).To(Equal(0))
		Expect(r.DeltaY).To(Equal(1))

		arrived = r.NextLink()
		Expect(arrived).To(BeTrue())
		Expect(r.DeltaY).To(Equal(0))
	})

	It("steps a negative coordinate toward zero from the other side", func() {
		r := RoutingExt{}
		r.SetCoordinates(-2, 0)

		r.NextLink()
		Expect(r.DeltaX).To(Equal(-1))
	})
})

var _ = Describe("Pool", func() {
	It("constructs a new payload when the free list is empty", func() {
		p := NewPool("test")
		pl := p.Allocate()

		Expect(pl.RefCount()).To(Equal(1))
		Expect(p.NumFree()).To(Equal(0))
	})

	It("recycles a released payload instead of allocating a new one", func() {
		p := NewPool("test")
		pl := p.Allocate()
		pl.Data = "in flight"

		pl.Release()
		Expect(p.NumFree()).To(Equal(1))

		reused := p.Allocate()
		Expect(reused).To(BeIdenticalTo(pl))
		Expect(reused.Data).To(BeNil(), "reset clears prior payload state")
		Expect(p.NumFree()).To(Equal(0))
	})

	It("keeps a payload alive while references remain outstanding", func() {
		p := NewPool("test")
		pl := p.Allocate()
		pl.AddRef()

		pl.Release()
		Expect(p.NumFree()).To(Equal(0), "one reference still outstanding")

		pl.Release()
		Expect(p.NumFree()).To(Equal(1))
	})
})
