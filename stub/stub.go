// Package stub is a development stand-in for the recommendation backend. It
// implements the same HTTP contract the real service exposes, POST /chat and
// GET /session/:id, with canned stylist answers drawn from a small catalog,
// so the client can be exercised end to end without GPUs or a vector store.
package stub

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hemlineco/stylist/pkg/api"
	"github.com/hemlineco/stylist/pkg/media"
)

// Server is the stub backend.
type Server struct {
	config  Config
	store   Store
	catalog *Catalog
	logger  *zap.Logger
	server  *fiber.App
}

// New creates a new stub Server.
func New(config Config, logger *zap.Logger) (*Server, error) {
	var store Store
	var err error

	if config.DBPath != "" {
		store, err = NewSQLiteStore(config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite store: %w", err)
		}
		logger.Info("using SQLite storage", zap.String("path", config.DBPath))
	} else {
		store = NewMemoryStore()
		logger.Info("using in-memory storage")
	}

	catalog, err := NewCatalog(config.CatalogDir, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		// Data-URL encoded attachments are large
		BodyLimit: 64 << 20,
	})

	s := &Server{
		config:  config,
		store:   store,
		catalog: catalog,
		logger:  logger,
		server:  app,
	}

	// Built-in catalog swatches are served from the image store like any
	// uploaded image.
	for _, item := range catalog.Items() {
		if len(item.Data) == 0 {
			continue
		}
		if err := store.PutImage(context.Background(), item.ID, "image/png", item.Data); err != nil {
			catalog.Close()
			store.Close()
			return nil, fmt.Errorf("register builtin catalog image: %w", err)
		}
	}

	// Register routes
	app.Post("/chat", s.handleChat)
	app.Get("/session/:id", s.handleSession)
	app.Get("/images/:id", s.handleImage)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	// Directory-backed catalogs serve their files straight from disk.
	if config.CatalogDir != "" {
		fileServer := http.StripPrefix("/catalog/", http.FileServer(http.Dir(config.CatalogDir)))
		app.Get("/catalog/*", adaptor.HTTPHandler(fileServer))
	}

	return s, nil
}

// Run starts the stub server on the configured listen address.
func (s *Server) Run() error {
	s.logger.Info("starting stub backend",
		zap.String("listen", s.config.ListenAddr),
		zap.Int("catalog_items", s.catalog.Len()),
	)
	return s.server.Listen(s.config.ListenAddr)
}

// Close shuts down the stub and releases resources.
func (s *Server) Close() error {
	if err := s.catalog.Close(); err != nil {
		s.store.Close()
		return err
	}
	return s.store.Close()
}

// handleChat runs one conversation turn: session lookup, image intake, a
// canned recommendation, and transcript bookkeeping.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req api.ChatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		s.logger.Error("failed to parse request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(api.ErrorResponse{Error: "invalid request body"})
	}

	query := strings.TrimSpace(req.Query)
	if query == "" && len(req.Images) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(api.ErrorResponse{Error: "empty query"})
	}

	ctx := c.Context()
	sess, err := s.getOrCreateSession(ctx, req.SessionID)
	if err != nil {
		s.logger.Error("failed to load session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(api.ErrorResponse{Error: "session lookup failed"})
	}

	userImages, err := s.intakeImages(ctx, req.Images)
	if err != nil {
		s.logger.Error("failed to store attachments", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(api.ErrorResponse{Error: "invalid image attachment"})
	}

	if req.ModelImage != nil && *req.ModelImage != "" {
		id, err := s.intakeImage(ctx, *req.ModelImage)
		if err != nil {
			s.logger.Error("failed to store model image", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(api.ErrorResponse{Error: "invalid model image"})
		}
		sess.ModelImageID = id
	}

	answer, respImages := s.recommend(sess, query, userImages)

	sess.Messages = append(sess.Messages,
		api.HistoryMessage{Role: "user", Content: query, Images: userImages},
		api.HistoryMessage{Role: "assistant", Content: answer, Images: respImages},
	)
	if err := s.store.PutSession(ctx, sess); err != nil {
		s.logger.Error("failed to store session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(api.ErrorResponse{Error: "session store failed"})
	}

	s.logger.Debug("turn served",
		zap.String("session_id", sess.ID),
		zap.String("query_preview", truncate(query, 80)),
		zap.Int("attachments", len(userImages)),
		zap.Int("response_images", len(respImages)),
	)

	return c.JSON(api.ChatResponse{
		Answer:    answer,
		SessionID: sess.ID,
		Images:    respImages,
	})
}

// handleSession returns the stored transcript for a session id.
func (s *Server) handleSession(c *fiber.Ctx) error {
	sess, err := s.store.GetSession(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(api.ErrorResponse{Error: "session not found"})
	}

	return c.JSON(api.SessionData{
		SessionID:     sess.ID,
		Messages:      sess.Messages,
		HasModelImage: sess.HasModelImage(),
	})
}

// handleImage serves stored image bytes.
func (s *Server) handleImage(c *fiber.Ctx) error {
	data, mime, err := s.store.GetImage(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(api.ErrorResponse{Error: "image not found"})
	}

	c.Set("Content-Type", mime)
	return c.Send(data)
}

// getOrCreateSession resumes the named session or starts a fresh one. An
// unknown id is honored rather than rejected, matching the reference
// backend's get-or-create behavior.
func (s *Server) getOrCreateSession(ctx context.Context, sessionID *string) (*Session, error) {
	if sessionID != nil && *sessionID != "" {
		sess, err := s.store.GetSession(ctx, *sessionID)
		if err == nil {
			return sess, nil
		}
		var notFound ErrNotFound
		if !errors.As(err, &notFound) {
			return nil, err
		}
		return &Session{ID: *sessionID}, nil
	}
	return &Session{ID: uuid.NewString()}, nil
}

// intakeImages decodes and stores a batch of data-URL attachments.
func (s *Server) intakeImages(ctx context.Context, encoded []string) ([]api.ImageResult, error) {
	if len(encoded) == 0 {
		return nil, nil
	}

	results := make([]api.ImageResult, 0, len(encoded))
	for _, e := range encoded {
		id, err := s.intakeImage(ctx, e)
		if err != nil {
			return nil, err
		}
		results = append(results, api.ImageResult{
			ImageID: id,
			URL:     "/images/" + id,
			Type:    api.ImageUserProvided,
		})
	}
	return results, nil
}

// intakeImage decodes one data URL and stores the bytes under a
// content-derived id, so re-sending the same image deduplicates.
func (s *Server) intakeImage(ctx context.Context, encoded string) (string, error) {
	data, mime, err := media.Decode(encoded)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	id := "img-" + hex.EncodeToString(sum[:])[:7]
	if err := s.store.PutImage(ctx, id, mime, data); err != nil {
		return "", err
	}
	return id, nil
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
