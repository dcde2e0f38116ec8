package stub

import (
	"context"
	"sync"

	"github.com/hemlineco/stylist/pkg/api"
)

// Session is the server-side record of one conversation: the transcript plus
// the ids of images the session has seen.
type Session struct {
	ID           string               `json:"id"`
	Messages     []api.HistoryMessage `json:"messages"`
	ModelImageID string               `json:"model_image_id,omitempty"`
}

// HasModelImage reports whether a reference photo is on file.
func (s *Session) HasModelImage() bool {
	return s.ModelImageID != ""
}

// Store persists sessions and the image bytes their transcripts reference.
type Store interface {
	// GetSession retrieves a session by id. Returns ErrNotFound if it
	// doesn't exist.
	GetSession(ctx context.Context, id string) (*Session, error)

	// PutSession stores a session, replacing any previous record.
	PutSession(ctx context.Context, s *Session) error

	// PutImage stores image bytes under an id. Re-putting the same id is a
	// no-op.
	PutImage(ctx context.Context, id, mime string, data []byte) error

	// GetImage retrieves image bytes and their MIME type by id. Returns
	// ErrNotFound if the id is unknown.
	GetImage(ctx context.Context, id string) ([]byte, string, error)

	// Close closes the store and releases any resources.
	Close() error
}

// ErrNotFound is returned when a session or image doesn't exist in the store.
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	if e.ID == "" {
		return "not found"
	}
	return "not found: " + e.ID
}

// MemoryStore is an in-memory Store. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	images   map[string]storedImage
}

type storedImage struct {
	mime string
	data []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		images:   make(map[string]storedImage),
	}
}

func (m *MemoryStore) GetSession(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound{ID: id}
	}

	// Copy so callers never alias the stored transcript.
	out := *s
	out.Messages = append([]api.HistoryMessage(nil), s.Messages...)
	return &out, nil
}

func (m *MemoryStore) PutSession(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *s
	stored.Messages = append([]api.HistoryMessage(nil), s.Messages...)
	m.sessions[s.ID] = &stored
	return nil
}

func (m *MemoryStore) PutImage(_ context.Context, id, mime string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.images[id]; ok {
		return nil
	}
	m.images[id] = storedImage{mime: mime, data: append([]byte(nil), data...)}
	return nil
}

func (m *MemoryStore) GetImage(_ context.Context, id string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	img, ok := m.images[id]
	if !ok {
		return nil, "", ErrNotFound{ID: id}
	}
	return img.data, img.mime, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
