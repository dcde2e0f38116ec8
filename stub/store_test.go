package stub

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemlineco/stylist/pkg/api"
)

// storeUnderTest runs the same contract checks against both implementations.
func storeUnderTest(t *testing.T, name string, open func(t *testing.T) Store) {
	t.Run(name+"/session round trip", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		sess := &Session{
			ID: "s1",
			Messages: []api.HistoryMessage{
				{Role: "user", Content: "red shoes"},
				{Role: "assistant", Content: "Here are options", Images: []api.ImageResult{
					{ImageID: "i1", URL: "/images/i1", BBox: &api.BBox{W: 10, H: 10}, Type: api.ImageRetrieved},
				}},
			},
			ModelImageID: "img-abc1234",
		}
		require.NoError(t, s.PutSession(ctx, sess))

		got, err := s.GetSession(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
		assert.Equal(t, sess.Messages, got.Messages)
		assert.True(t, got.HasModelImage())
	})

	t.Run(name+"/session not found", func(t *testing.T) {
		s := open(t)

		_, err := s.GetSession(context.Background(), "missing")
		require.Error(t, err)
		assert.IsType(t, ErrNotFound{}, err)
	})

	t.Run(name+"/put replaces", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		require.NoError(t, s.PutSession(ctx, &Session{ID: "s1"}))
		require.NoError(t, s.PutSession(ctx, &Session{
			ID:       "s1",
			Messages: []api.HistoryMessage{{Role: "user", Content: "hi"}},
		}))

		got, err := s.GetSession(ctx, "s1")
		require.NoError(t, err)
		assert.Len(t, got.Messages, 1)
	})

	t.Run(name+"/image round trip", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		data := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
		require.NoError(t, s.PutImage(ctx, "img-1", "image/png", data))

		got, mime, err := s.GetImage(ctx, "img-1")
		require.NoError(t, err)
		assert.Equal(t, data, got)
		assert.Equal(t, "image/png", mime)
	})

	t.Run(name+"/image put is idempotent", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		require.NoError(t, s.PutImage(ctx, "img-1", "image/png", []byte{1}))
		require.NoError(t, s.PutImage(ctx, "img-1", "image/png", []byte{2}))

		got, _, err := s.GetImage(ctx, "img-1")
		require.NoError(t, err)
		assert.Equal(t, []byte{1}, got, "re-putting an id must not overwrite")
	})

	t.Run(name+"/image not found", func(t *testing.T) {
		s := open(t)

		_, _, err := s.GetImage(context.Background(), "missing")
		require.Error(t, err)
		assert.IsType(t, ErrNotFound{}, err)
	})
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, "memory", func(t *testing.T) Store {
		s := NewMemoryStore()
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSQLiteStore(t *testing.T) {
	storeUnderTest(t, "sqlite", func(t *testing.T) Store {
		s, err := NewSQLiteStore(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSQLiteStoreFilePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stub.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.PutSession(ctx, &Session{
		ID:       "s1",
		Messages: []api.HistoryMessage{{Role: "user", Content: "hello"}},
	}))
	require.NoError(t, s.Close())

	// A reopened store still has the session.
	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1)
}

func TestMemoryStoreCopiesSessions(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess := &Session{ID: "s1", Messages: []api.HistoryMessage{{Role: "user", Content: "original"}}}
	require.NoError(t, s.PutSession(ctx, sess))

	// Mutating the caller's copy after Put must not reach the store.
	sess.Messages[0].Content = "mutated"

	got, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Messages[0].Content)

	// Mutating a retrieved copy must not reach the store either.
	got.Messages[0].Content = "mutated again"
	again, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Messages[0].Content)
}
