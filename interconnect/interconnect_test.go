package interconnect

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tgsim/tgsim/graph"
	"github.com/tgsim/tgsim/kernel"
)

var _ = Describe("Interconnect", func() {
	var (
		k  *kernel.Kernel
		ic *Interconnect
	)

	BeforeEach(func() {
		k = kernel.NewKernel()
		ic = New(k, "ic", 2, 1, 0, 0, 0, 1*kernel.Nanosecond)
		ic.SetTransmissionData(0, TransmissionData{OutLink: 0, DeltaX: 2, DeltaY: 0, DestValueID: 7})
	})

	It("records a producer's output through its ObserverInterconnect", func() {
		src := graph.NewSubject(k.SubjectIDAllocator(), "src")
		src.Register(ic.Observer(0), 0)

		src.NotifyObservers(k, 0, Descriptor{Data: 42, Length: 4})

		Expect(ic.Observer(0).Changed(false)).To(BeTrue())
	})

	It("packs a transaction using the lookup table and the recorded descriptor", func() {
		src := graph.NewSubject(k.SubjectIDAllocator(), "src")
		src.Register(ic.Observer(0), 0)
		src.NotifyObservers(k, 0, Descriptor{Data: 42, Length: 4})

		p, link := ic.PackTransactionObject(0)

		Expect(link).To(Equal(0))
		Expect(p.Address).To(Equal(uint64(7)))
		Expect(p.Data).To(Equal(42))
		Expect(p.DataLength).To(Equal(4))
		Expect(p.Routing.DeltaX).To(Equal(2))
	})

	It("routes a packed payload until it arrives", func() {
		src := graph.NewSubject(k.SubjectIDAllocator(), "src")
		src.Register(ic.Observer(0), 0)
		src.NotifyObservers(k, 0, Descriptor{Data: 1, Length: 1})

		p, _ := ic.PackTransactionObject(0)

		Expect(Route(p)).To(BeFalse())
		Expect(Route(p)).To(BeTrue())
	})
})

var _ = Describe("ValidatePayload", func() {
	It("accepts a payload whose data fits within its streaming width", func() {
		p := &Payload{DataLength: 4, StreamingWidth: 4}
		Expect(ValidatePayload(p)).To(BeTrue())
		Expect(p.Response).To(Equal(OKResponse))
	})

	It("rejects a streaming-width mismatch", func() {
		p := &Payload{DataLength: 8, StreamingWidth: 4}
		Expect(ValidatePayload(p)).To(BeFalse())
		Expect(p.Response).To(Equal(StreamingWidthErrorResponse))
	})

	It("rejects a payload carrying a byte-enable mask", func() {
		p := &Payload{DataLength: 4, StreamingWidth: 4, ByteEnable: []byte{0xFF}}
		Expect(ValidatePayload(p)).To(BeFalse())
		Expect(p.Response).To(Equal(ByteEnableErrorResponse))
	})
})
