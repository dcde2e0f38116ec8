package api

// HistoryMessage is one past turn as reported by the session endpoint.
type HistoryMessage struct {
	Role    string        `json:"role"` // "user" or "assistant"
	Content string        `json:"content"`
	Images  []ImageResult `json:"images"` // May be nil
}

// SessionData is the body of a GET /session/:id call, used to rehydrate a
// conversation the backend already holds.
type SessionData struct {
	SessionID     string           `json:"session_id"`
	Messages      []HistoryMessage `json:"messages"`
	HasModelImage bool             `json:"has_model_image"`
}
