package interconnect

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tgsim/tgsim/kernel"
)

var _ = Describe("SocketManager", func() {
	var (
		k *kernel.Kernel
		m *SocketManager
	)

	BeforeEach(func() {
		k = kernel.NewKernel()
		m = NewSocketManager()
	})

	It("grants a free link immediately", func() {
		ev := kernel.NewEvent("ev")
		queued := m.RequestLink(k, ev)

		Expect(queued).To(BeFalse())
		Expect(m.Used()).To(BeTrue())
	})

	It("queues a request against a used link", func() {
		m.RequestLink(k, kernel.NewEvent("first"))

		queued := m.RequestLink(k, kernel.NewEvent("second"))

		Expect(queued).To(BeTrue())
		Expect(m.QueueLen()).To(Equal(1))
	})

	It("frees the link when releasing with no waiters", func() {
		m.RequestLink(k, kernel.NewEvent("first"))

		handedOff := m.ReleaseLink(k)

		Expect(handedOff).To(BeFalse())
		Expect(m.Used()).To(BeFalse())
	})

	It("hands the link to the next waiter on release, keeping it marked used", func() {
		m.RequestLink(k, kernel.NewEvent("first"))
		m.RequestLink(k, kernel.NewEvent("second"))

		handedOff := m.ReleaseLink(k)

		Expect(handedOff).To(BeTrue())
		Expect(m.Used()).To(BeTrue())
		Expect(m.QueueLen()).To(Equal(0))
	})
})
