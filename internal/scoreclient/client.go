package scoreclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"theranova/backend/internal/api"
)

// Config drives client behaviour.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryDelay time.Duration
}

// Client calls a remote RepurposeScore service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retryDelay time.Duration
}

var (
	// ErrMissingBaseURL is returned when no service address is configured.
	ErrMissingBaseURL = errors.New("score client missing base url")
	// ErrInvalidRequest wraps 400 responses from the service.
	ErrInvalidRequest = errors.New("score request rejected")
)

// StatusError reports a non-success response other than 400.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("score api status %d", e.Code)
	}
	return fmt.Sprintf("score api status %d: %s", e.Code, e.Message)
}

// NewClient constructs a client if configuration is valid.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		retryDelay: retryDelay,
	}, nil
}

// Score posts the pair to /score and decodes the response.
func (c *Client) Score(ctx context.Context, molecule, disease string) (api.ScoreResponse, error) {
	if c == nil {
		return api.ScoreResponse{}, errors.New("score client is nil")
	}
	body, err := json.Marshal(api.ScoreRequest{Molecule: molecule, Disease: disease})
	if err != nil {
		return api.ScoreResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.post(ctx, "/score", body)
	if err != nil {
		return api.ScoreResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return api.ScoreResponse{}, decodeError(resp)
	}

	var payload api.ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return api.ScoreResponse{}, fmt.Errorf("decode score response: %w", err)
	}
	return payload, nil
}

// Health reports whether the service answers /health with status ok.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if payload.Status != "ok" {
		return fmt.Errorf("service status %q", payload.Status)
	}
	return nil
}

// post sends the request, retrying once after a 429.
func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	send := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		return c.httpClient.Do(req)
	}

	resp, err := send()
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}
	return send()
}

func decodeError(resp *http.Response) error {
	var payload api.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if resp.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, payload.Error)
	}
	return &StatusError{Code: resp.StatusCode, Message: payload.Error}
}
