// Package conversation holds the client-side model of a chat: the append-only
// message log and the backend session handle.
//
// The log is the single source of truth for rendering. Entries are immutable
// once appended; there is no edit, reorder, or delete. Neither the log nor
// the handle is safe for concurrent use; both are owned by the conversation
// controller's single logical thread of control.
package conversation

import (
	"time"

	"github.com/google/uuid"

	"github.com/hemlineco/stylist/pkg/api"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind classifies the provenance of an image shown in the transcript. It
// mirrors api.ImageType; the set is closed.
type Kind string

const (
	KindUserProvided Kind = "user_provided"
	KindRetrieved    Kind = "retrieved"
	KindVirtualTryOn Kind = "virtual_try_on"
)

// KindFromAPI maps a validated wire image type to its model kind.
func KindFromAPI(t api.ImageType) Kind {
	return Kind(t)
}

// ImageRef points at a displayable image attached to a message.
type ImageRef struct {
	// ID is unique within the owning message's image list.
	ID string
	// URL is either a local path (user attachments) or a backend-hosted
	// location.
	URL string
	// BBox localizes the relevant item within the image. Nil unless the
	// backend supplied one; never a placeholder.
	BBox *api.BBox
	// Kind records where the image came from.
	Kind Kind
}

// Message is one entry in the log. Once appended it is never mutated.
type Message struct {
	ID        string
	Role      Role
	Content   string // May be empty for image-only messages
	Images    []ImageRef
	CreatedAt time.Time
}

// NewID returns a time-ordered identifier. UUIDv7 keeps ids from the same
// turn strictly ordered, so a user message and the assistant reply it
// produces can never collide or sort inverted.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// v7 generation only fails if the random source does; fall back to
		// the random-only form rather than returning an error nobody can
		// act on.
		return uuid.NewString()
	}
	return id.String()
}

// RefsFromResults maps validated wire images onto transcript refs. A nil
// result list and an empty one both produce no refs.
func RefsFromResults(results []api.ImageResult) []ImageRef {
	if len(results) == 0 {
		return nil
	}
	refs := make([]ImageRef, 0, len(results))
	for _, r := range results {
		refs = append(refs, ImageRef{
			ID:   r.ImageID,
			URL:  r.URL,
			BBox: r.BBox,
			Kind: KindFromAPI(r.Type),
		})
	}
	return refs
}
