package conversation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hemlineco/stylist/pkg/conversation"
)

var _ = Describe("Handle", func() {
	var handle *conversation.Handle

	BeforeEach(func() {
		handle = conversation.NewHandle()
	})

	It("starts unset", func() {
		id, ok := handle.Current()
		Expect(ok).To(BeFalse())
		Expect(id).To(BeEmpty())
	})

	Describe("Observe", func() {
		It("stores the first identifier", func() {
			handle.Observe("s1")

			id, ok := handle.Current()
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal("s1"))
		})

		It("is idempotent for the same identifier", func() {
			handle.Observe("s1")
			handle.Observe("s1")

			id, _ := handle.Current()
			Expect(id).To(Equal("s1"))
		})

		It("ignores an empty identifier rather than clearing", func() {
			handle.Observe("s1")
			handle.Observe("")

			id, ok := handle.Current()
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal("s1"))
		})

		It("adopts a later different identifier", func() {
			handle.Observe("s1")
			handle.Observe("s2")

			id, _ := handle.Current()
			Expect(id).To(Equal("s2"))
		})

		It("does nothing when observed before any session exists", func() {
			handle.Observe("")

			_, ok := handle.Current()
			Expect(ok).To(BeFalse())
		})
	})
})
