package tui

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hemlineco/stylist/chat"
	"github.com/hemlineco/stylist/pkg/api"
)

// blockingTransport holds every Send until released, so a test can observe
// the model while a turn is in flight.
type blockingTransport struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingTransport() *blockingTransport {
	return &blockingTransport{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *blockingTransport) Send(_ context.Context, _ *api.ChatRequest) (*api.ChatResponse, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return &api.ChatResponse{Answer: "Here are options", SessionID: "s1"}, nil
}

func (b *blockingTransport) Session(_ context.Context, _ string) (*api.SessionData, error) {
	return nil, chat.ErrSessionNotFound
}

// runCmds executes a command (flattening batches) and forwards every
// resulting message, the way the bubbletea runtime would.
func runCmds(cmd tea.Cmd, msgs chan<- tea.Msg) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			go runCmds(sub, msgs)
		}
	default:
		msgs <- msg
	}
}

func sizedModel(t *testing.T, ctrl *chat.Controller) Model {
	t.Helper()
	m := New(ctrl, zap.NewNop())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

// The event loop keeps rendering while the Submit goroutine owns the
// controller. The view must draw from its own mirror of controller state, so
// no render path may touch the controller mid-turn.
func TestViewRendersFromMirrorWhileTurnInFlight(t *testing.T) {
	transport := newBlockingTransport()
	ctrl := chat.NewController(transport, zap.NewNop())
	m := sizedModel(t, ctrl)

	m.input.SetValue("red shoes")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.True(t, m.loading)
	require.NotNil(t, cmd)

	msgs := make(chan tea.Msg, 8)
	go runCmds(cmd, msgs)
	<-transport.started

	// Render repeatedly while Submit is mutating the controller. Under the
	// race detector this fails if any view path reads live controller state.
	for i := 0; i < 200; i++ {
		view := m.View()
		assert.NotContains(t, view, "Staged:")
	}

	close(transport.release)
	var done turnDoneMsg
	for {
		msg := <-msgs
		if d, ok := msg.(turnDoneMsg); ok {
			done = d
			break
		}
	}
	require.NoError(t, done.err)

	updated, _ = m.Update(done)
	m = updated.(Model)
	assert.False(t, m.loading)
	assert.Len(t, m.transcript, 2)
	assert.Contains(t, m.View(), "session s1")
}

func TestSubmitSnapshotsStagedAttachments(t *testing.T) {
	transport := newBlockingTransport()
	ctrl := chat.NewController(transport, zap.NewNop())
	m := sizedModel(t, ctrl)

	path := filepath.Join(t.TempDir(), "jacket.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, 0o600))
	require.NoError(t, ctrl.Stage(path))
	// Re-sync by hand since staging bypassed the /attach command.
	m.syncFromController()
	require.Len(t, m.staged, 1)

	m.input.SetValue("find similar")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)

	// The mirror is consumed at submit time; the pending turn carries the
	// attachments for rendering instead.
	assert.Empty(t, m.staged)
	require.NotNil(t, m.pending)
	assert.Equal(t, []string{path}, m.pending.attachments)

	msgs := make(chan tea.Msg, 8)
	go runCmds(cmd, msgs)
	<-transport.started
	assert.Contains(t, m.View(), "[user_provided]")
	close(transport.release)
}
