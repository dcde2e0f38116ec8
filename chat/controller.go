package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hemlineco/stylist/pkg/api"
	"github.com/hemlineco/stylist/pkg/conversation"
	"github.com/hemlineco/stylist/pkg/media"
)

var (
	// ErrEmptySubmission rejects a turn with no trimmed text and no staged
	// attachments. This is a local precondition, not a failed turn: nothing
	// changes.
	ErrEmptySubmission = errors.New("nothing to submit")

	// ErrBusy rejects a submission while a turn is already in flight. The
	// attempt is a no-op: no message is appended and no request is sent.
	ErrBusy = errors.New("a turn is already in flight")
)

// Controller runs the conversation state machine. It exclusively owns the
// message log, the session handle, the staged attachment list, and the
// reference (model) image; nothing else mutates them. At most one turn is in
// flight at a time, gated solely by the busy flag.
type Controller struct {
	transport Transport
	logger    *zap.Logger

	log     *conversation.Log
	session *conversation.Handle

	// staged holds attachment paths selected for the next submission. It is
	// transient UI state, never part of the log.
	staged []string

	// modelImage is the persistent reference photo for virtual try-on. It
	// survives across turns and is re-encoded onto every request until
	// cleared.
	modelImage string

	busy bool
}

// NewController creates a controller with an empty conversation.
func NewController(transport Transport, logger *zap.Logger) *Controller {
	return &Controller{
		transport: transport,
		logger:    logger,
		log:       conversation.NewLog(),
		session:   conversation.NewHandle(),
	}
}

// Messages returns the transcript in order.
func (c *Controller) Messages() []conversation.Message {
	return c.log.All()
}

// Busy reports whether a turn is in flight. While true, the input surface is
// unavailable and submissions are rejected.
func (c *Controller) Busy() bool {
	return c.busy
}

// SessionID returns the backend session identifier, if one has been issued.
func (c *Controller) SessionID() (string, bool) {
	return c.session.Current()
}

// Stage adds an attachment path to the staging list for the next submission.
// The file is checked up front so an unreadable attachment fails here, before
// any user message exists.
func (c *Controller) Stage(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stage attachment %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("stage attachment %s: is a directory", path)
	}
	if info.Size() > media.MaxAttachmentSize {
		return fmt.Errorf("stage attachment %s: %w", path, media.ErrTooLarge)
	}
	c.staged = append(c.staged, path)
	return nil
}

// Unstage removes the i-th staged attachment. Staging mutations are always
// allowed, in flight or not.
func (c *Controller) Unstage(i int) error {
	if i < 0 || i >= len(c.staged) {
		return fmt.Errorf("no staged attachment %d", i)
	}
	c.staged = append(c.staged[:i], c.staged[i+1:]...)
	return nil
}

// Staged returns the staged attachment paths.
func (c *Controller) Staged() []string {
	return append([]string(nil), c.staged...)
}

// SetModelImage sets the reference photo used for virtual try-on.
func (c *Controller) SetModelImage(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("model image %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("model image %s: is a directory", path)
	}
	c.modelImage = path
	return nil
}

// ClearModelImage removes the reference photo.
func (c *Controller) ClearModelImage() {
	c.modelImage = ""
}

// HasModelImage reports whether a reference photo is set.
func (c *Controller) HasModelImage() bool {
	return c.modelImage != ""
}

// Submit runs one full turn: append the user message, encode attachments,
// send the request, and append the assistant reply. Exactly one request is
// issued; there is no retry. On failure the user message stays in the log,
// no assistant message is appended, and the machine returns to idle.
func (c *Controller) Submit(ctx context.Context, text string) (conversation.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(c.staged) == 0 {
		return conversation.Message{}, ErrEmptySubmission
	}
	if c.busy {
		return conversation.Message{}, ErrBusy
	}

	// The staging list is consumed by this submission, like a file picker
	// clearing after send. A failed turn does not restore it.
	attachments := c.staged
	c.staged = nil

	// The user's own input goes into the log before any I/O so it is visible
	// regardless of network latency or failure.
	c.log.Append(conversation.Message{
		ID:        conversation.NewID(),
		Role:      conversation.RoleUser,
		Content:   text,
		Images:    localRefs(attachments),
		CreatedAt: time.Now(),
	})

	c.busy = true
	defer func() { c.busy = false }()

	images, err := media.EncodeAll(attachments)
	if err != nil {
		c.logger.Error("failed to encode attachments", zap.Error(err))
		return conversation.Message{}, fmt.Errorf("encode attachments: %w", err)
	}

	req := &api.ChatRequest{
		Query:  text,
		Images: images,
	}
	if id, ok := c.session.Current(); ok {
		req.SessionID = &id
	}
	if c.modelImage != "" {
		encoded, err := media.EncodeFile(c.modelImage)
		if err != nil {
			c.logger.Error("failed to encode model image", zap.Error(err))
			return conversation.Message{}, fmt.Errorf("encode model image: %w", err)
		}
		req.ModelImage = &encoded
	}

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		c.logger.Error("turn failed", zap.Error(err))
		return conversation.Message{}, fmt.Errorf("send turn: %w", err)
	}

	c.session.Observe(resp.SessionID)

	assistant := conversation.Message{
		ID:        conversation.NewID(),
		Role:      conversation.RoleAssistant,
		Content:   resp.Answer,
		Images:    conversation.RefsFromResults(resp.Images),
		CreatedAt: time.Now(),
	}
	c.log.Append(assistant)

	c.logger.Debug("turn complete",
		zap.String("session_id", resp.SessionID),
		zap.Int("response_images", len(resp.Images)),
	)

	return assistant, nil
}

// Rehydrate replaces an empty conversation with the transcript the backend
// holds for sessionID and adopts that session for subsequent turns. It
// reports whether the backend has a model image on file for the session.
func (c *Controller) Rehydrate(ctx context.Context, sessionID string) (bool, error) {
	if c.busy {
		return false, ErrBusy
	}
	if c.log.Len() > 0 {
		return false, fmt.Errorf("conversation already started")
	}

	data, err := c.transport.Session(ctx, sessionID)
	if err != nil {
		return false, err
	}

	for i, h := range data.Messages {
		role := conversation.Role(h.Role)
		if role != conversation.RoleUser && role != conversation.RoleAssistant {
			return false, fmt.Errorf("session message %d has unknown role %q", i, h.Role)
		}
		c.log.Append(conversation.Message{
			ID:        conversation.NewID(),
			Role:      role,
			Content:   h.Content,
			Images:    conversation.RefsFromResults(h.Images),
			CreatedAt: time.Now(),
		})
	}

	c.session.Observe(data.SessionID)
	c.logger.Info("session rehydrated",
		zap.String("session_id", data.SessionID),
		zap.Int("messages", len(data.Messages)),
		zap.Bool("has_model_image", data.HasModelImage),
	)

	return data.HasModelImage, nil
}

// localRefs builds transcript refs for the user's own attachments. They point
// at the local paths; the backend never sees these refs.
func localRefs(paths []string) []conversation.ImageRef {
	if len(paths) == 0 {
		return nil
	}
	refs := make([]conversation.ImageRef, 0, len(paths))
	for i, p := range paths {
		refs = append(refs, conversation.ImageRef{
			ID:   fmt.Sprintf("local-%d", i),
			URL:  p,
			Kind: conversation.KindUserProvided,
		})
	}
	return refs
}
