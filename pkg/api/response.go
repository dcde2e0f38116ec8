package api

import "fmt"

// ChatResponse is the body of a successful POST /chat call.
type ChatResponse struct {
	Answer    string        `json:"answer"`     // The assistant's reply text
	SessionID string        `json:"session_id"` // Token to carry on subsequent requests, never empty
	Images    []ImageResult `json:"images"`     // Images referenced by the answer, may be nil
}

// Validate checks the response against the documented contract. A response
// that decodes but fails validation is treated the same as a transport
// failure by callers.
func (r *ChatResponse) Validate() error {
	if r.SessionID == "" {
		return fmt.Errorf("response missing session_id")
	}
	for i, img := range r.Images {
		if err := img.Validate(); err != nil {
			return fmt.Errorf("response image %d: %w", i, err)
		}
	}
	return nil
}
