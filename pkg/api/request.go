// Package api defines the wire contract between the stylist client and the
// recommendation backend: the chat endpoint's request/response shapes and the
// read-only session rehydration shape.
package api

// ChatRequest is the body of a POST /chat call.
type ChatRequest struct {
	Query      string   `json:"query"`       // The user's question or instruction
	SessionID  *string  `json:"session_id"`  // Backend session token, nil on the first turn
	Images     []string `json:"images"`      // Data-URL encoded attachments, nil if none
	ModelImage *string  `json:"model_image"` // Data-URL encoded reference photo for try-on, nil if unset
}
