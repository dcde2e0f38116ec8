package conversation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hemlineco/stylist/pkg/api"
	"github.com/hemlineco/stylist/pkg/conversation"
)

var _ = Describe("RefsFromResults", func() {
	It("returns no refs for a nil list", func() {
		Expect(conversation.RefsFromResults(nil)).To(BeNil())
	})

	It("treats an empty list the same as a nil one", func() {
		Expect(conversation.RefsFromResults([]api.ImageResult{})).To(BeNil())
	})

	It("maps wire fields onto transcript refs", func() {
		refs := conversation.RefsFromResults([]api.ImageResult{
			{
				ImageID: "i1",
				URL:     "http://x/1.jpg",
				BBox:    &api.BBox{X: 0, Y: 0, W: 10, H: 10},
				Type:    api.ImageRetrieved,
			},
			{
				ImageID: "i2",
				URL:     "http://x/2.jpg",
				Type:    api.ImageVirtualTryOn,
			},
		})

		Expect(refs).To(HaveLen(2))
		Expect(refs[0].ID).To(Equal("i1"))
		Expect(refs[0].Kind).To(Equal(conversation.KindRetrieved))
		Expect(refs[0].BBox).To(Equal(&api.BBox{X: 0, Y: 0, W: 10, H: 10}))
		Expect(refs[1].Kind).To(Equal(conversation.KindVirtualTryOn))
		Expect(refs[1].BBox).To(BeNil())
	})

	It("keeps result order", func() {
		refs := conversation.RefsFromResults([]api.ImageResult{
			{ImageID: "a", URL: "u", Type: api.ImageRetrieved},
			{ImageID: "b", URL: "u", Type: api.ImageRetrieved},
			{ImageID: "c", URL: "u", Type: api.ImageRetrieved},
		})

		Expect(refs[0].ID).To(Equal("a"))
		Expect(refs[1].ID).To(Equal("b"))
		Expect(refs[2].ID).To(Equal("c"))
	})
})
