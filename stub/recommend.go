package stub

import (
	"fmt"
	"strings"

	"github.com/hemlineco/stylist/pkg/api"
)

const maxRecommendations = 3

// recommend composes the canned stylist reply for one turn. Catalog items
// whose names overlap the query come back as retrieved images; when the
// session has a model image and the user asks to try something on, a
// virtual_try_on image is added on top.
func (s *Server) recommend(sess *Session, query string, attached []api.ImageResult) (string, []api.ImageResult) {
	matched := matchItems(s.catalog.Items(), query)
	if len(matched) == 0 && len(attached) > 0 {
		// No keyword hit but the user sent photos: suggest whatever the
		// catalog has, as "similar" items.
		matched = s.catalog.Items()
		if len(matched) > maxRecommendations {
			matched = matched[:maxRecommendations]
		}
	}

	if len(matched) == 0 {
		return "I couldn't find anything matching that in the catalog. " +
			"Tell me more about the piece you're after, or attach a photo of it.", nil
	}

	images := make([]api.ImageResult, 0, len(matched)+1)
	var names []string
	for _, item := range matched {
		names = append(names, item.Name)
		images = append(images, api.ImageResult{
			ImageID: item.ID,
			URL:     item.URL,
			BBox:    item.BBox,
			Type:    api.ImageRetrieved,
		})
	}

	answer := fmt.Sprintf("Here are some options I found:\n\n- %s", strings.Join(names, "\n- "))

	if sess.HasModelImage() && wantsTryOn(query) {
		images = append(images, api.ImageResult{
			ImageID: "vton-" + sess.ModelImageID,
			URL:     "/images/" + sess.ModelImageID,
			Type:    api.ImageVirtualTryOn,
		})
		answer += "\n\nI've added a try-on preview using your photo."
	}

	return answer, images
}

// matchItems ranks catalog items by word overlap with the query and keeps the
// best few.
func matchItems(items []Item, query string) []Item {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	var matched []Item
	for _, item := range items {
		name := strings.ToLower(item.Name)
		for _, w := range words {
			if strings.Contains(name, w) {
				matched = append(matched, item)
				break
			}
		}
		if len(matched) == maxRecommendations {
			break
		}
	}
	return matched
}

func wantsTryOn(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(q, "try") || strings.Contains(q, "wear") || strings.Contains(q, "look on me")
}
