package conversation_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hemlineco/stylist/pkg/conversation"
)

func userMessage(content string) conversation.Message {
	return conversation.Message{
		ID:        conversation.NewID(),
		Role:      conversation.RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

var _ = Describe("Log", func() {
	var log *conversation.Log

	BeforeEach(func() {
		log = conversation.NewLog()
	})

	Describe("NewLog", func() {
		It("starts empty", func() {
			Expect(log.Len()).To(Equal(0))
			Expect(log.All()).To(BeEmpty())
		})

		It("has no last message", func() {
			_, ok := log.Last()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Append", func() {
		It("adds messages in order", func() {
			log.Append(userMessage("first"))
			log.Append(userMessage("second"))
			log.Append(userMessage("third"))

			all := log.All()
			Expect(all).To(HaveLen(3))
			Expect(all[0].Content).To(Equal("first"))
			Expect(all[1].Content).To(Equal("second"))
			Expect(all[2].Content).To(Equal("third"))
		})

		It("updates Last", func() {
			log.Append(userMessage("first"))
			log.Append(userMessage("latest"))

			last, ok := log.Last()
			Expect(ok).To(BeTrue())
			Expect(last.Content).To(Equal("latest"))
		})
	})

	Describe("All", func() {
		It("is safe to call repeatedly", func() {
			log.Append(userMessage("hello"))

			first := log.All()
			second := log.All()
			Expect(second).To(Equal(first))
		})

		It("returns a copy that later appends don't grow", func() {
			log.Append(userMessage("one"))
			snapshot := log.All()

			log.Append(userMessage("two"))
			Expect(snapshot).To(HaveLen(1))
			Expect(log.Len()).To(Equal(2))
		})

		It("returns a copy whose mutation doesn't reach the log", func() {
			log.Append(userMessage("original"))

			snapshot := log.All()
			snapshot[0].Content = "mutated"

			Expect(log.All()[0].Content).To(Equal("original"))
		})
	})
})

var _ = Describe("NewID", func() {
	It("produces unique ids", func() {
		seen := map[string]bool{}
		for i := 0; i < 1000; i++ {
			id := conversation.NewID()
			Expect(seen[id]).To(BeFalse())
			seen[id] = true
		}
	})

	It("produces ids that sort in creation order", func() {
		// Two messages born in the same turn must never invert.
		a := conversation.NewID()
		b := conversation.NewID()
		Expect(a < b).To(BeTrue())
	})
})
