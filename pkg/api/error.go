package api

// ErrorResponse represents an error body from the backend.
type ErrorResponse struct {
	Error string `json:"error"`
}
