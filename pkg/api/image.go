package api

import (
	"encoding/json"
	"fmt"
)

// ImageType classifies where an image in a response came from. The set is
// closed: decoding an unknown value is an error rather than a passthrough.
type ImageType string

const (
	// ImageUserProvided is an image the user attached themselves.
	ImageUserProvided ImageType = "user_provided"
	// ImageRetrieved is a catalog image found by the backend.
	ImageRetrieved ImageType = "retrieved"
	// ImageVirtualTryOn is a backend-composited try-on render.
	ImageVirtualTryOn ImageType = "virtual_try_on"
)

// Valid reports whether t is one of the three known image types.
func (t ImageType) Valid() bool {
	switch t {
	case ImageUserProvided, ImageRetrieved, ImageVirtualTryOn:
		return true
	}
	return false
}

// ImageResult is one displayable image attached to a chat response.
type ImageResult struct {
	ImageID string    `json:"image_id"`
	URL     string    `json:"url"`
	BBox    *BBox     `json:"bbox"` // Spatial localization, nil when the backend has none
	Type    ImageType `json:"type"`
}

// Validate checks the required fields of an image result.
func (r *ImageResult) Validate() error {
	if r.ImageID == "" {
		return fmt.Errorf("image missing image_id")
	}
	if r.URL == "" {
		return fmt.Errorf("image %s missing url", r.ImageID)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("image %s has unknown type %q", r.ImageID, r.Type)
	}
	return nil
}

// BBox is a bounding box in image coordinates. On the wire it is a
// four-element array [x, y, w, h].
type BBox struct {
	X float64
	Y float64
	W float64
	H float64
}

// MarshalJSON encodes the box as [x, y, w, h].
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X, b.Y, b.W, b.H})
}

// UnmarshalJSON decodes [x, y, w, h], rejecting any other arity.
func (b *BBox) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("bbox must be a numeric array: %w", err)
	}
	if len(coords) != 4 {
		return fmt.Errorf("bbox must have exactly 4 elements, got %d", len(coords))
	}
	b.X, b.Y, b.W, b.H = coords[0], coords[1], coords[2], coords[3]
	return nil
}
