package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hemlineco/stylist/pkg/api"
)

// ErrSessionNotFound is returned by Session for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Transport performs single request/single response calls against the
// backend. No retry, no streaming, no partial reads: a non-success status or
// a body that violates the contract is one uniform failure.
type Transport interface {
	Send(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error)
	Session(ctx context.Context, sessionID string) (*api.SessionData, error)
}

// HTTPTransport is the production Transport over the backend's HTTP binding.
type HTTPTransport struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPTransport creates a transport for the configured backend.
func NewHTTPTransport(config Config, logger *zap.Logger) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(config.ServerURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout(),
		},
		logger: logger,
	}
}

// Send issues one chat request and strictly decodes the response.
func (t *HTTPTransport) Send(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := t.baseURL + "/chat"
	t.logger.Debug("sending chat request",
		zap.String("url", url),
		zap.Int("body_size", len(reqBody)),
		zap.Int("image_count", len(req.Images)),
		zap.Bool("has_model_image", req.ModelImage != nil),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned %d: %s", httpResp.StatusCode, string(body))
	}

	var resp api.ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}

	return &resp, nil
}

// Session fetches the server-held transcript for a session id, mapping an
// explicit not-found signal to ErrSessionNotFound.
func (t *HTTPTransport) Session(ctx context.Context, sessionID string) (*api.SessionData, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id must not be empty")
	}

	url := t.baseURL + "/session/" + sessionID
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode == http.StatusNotFound {
		return nil, ErrSessionNotFound
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned %d: %s", httpResp.StatusCode, string(body))
	}

	var data api.SessionData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if data.SessionID == "" {
		return nil, fmt.Errorf("invalid session: missing session_id")
	}

	return &data, nil
}
