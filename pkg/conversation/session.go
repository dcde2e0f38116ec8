package conversation

// Handle tracks the opaque session identifier issued by the backend. It
// starts unset; once the backend names a session, every later request carries
// that identifier so server-side context resumes.
type Handle struct {
	id string
}

// NewHandle creates an unset handle.
func NewHandle() *Handle {
	return &Handle{}
}

// Current returns the stored identifier and whether one has been observed.
func (h *Handle) Current() (string, bool) {
	return h.id, h.id != ""
}

// Observe records the identifier carried by a response. Re-observing the same
// value is a no-op, and an empty value never clears an established session;
// the contract says that shouldn't happen, but a missing field must not reset
// server-side context.
func (h *Handle) Observe(id string) {
	if id == "" {
		return
	}
	h.id = id
}
