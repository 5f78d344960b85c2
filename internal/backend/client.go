// Package backend talks to the remote comparisons API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Simplici0/comparativas/internal/comparison"
)

const (
	DefaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10
)

type tokenKey struct{}

// WithToken attaches the caller's bearer token to ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the token set by WithToken, if any.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded %d", e.StatusCode)
	}
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.Message)
}

// Client implements comparison.Store over HTTP. Requests are not retried.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// NewClient creates a client for baseURL. A zero timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Recent(ctx context.Context, limit int) ([]comparison.Record, error) {
	if limit <= 0 {
		limit = comparison.DefaultRecentLimit
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var records []comparison.Record
	if err := c.do(ctx, http.MethodGet, "/comparativas/recent?"+q.Encode(), nil, &records); err != nil {
		return nil, fmt.Errorf("fetch recent comparisons: %w", err)
	}
	if records == nil {
		records = make([]comparison.Record, 0)
	}
	return records, nil
}

func (c *Client) Create(ctx context.Context, rec comparison.NewRecord) (comparison.Record, error) {
	if err := rec.Validate(); err != nil {
		return comparison.Record{}, err
	}

	var created comparison.Record
	if err := c.do(ctx, http.MethodPost, "/comparativas", rec, &created); err != nil {
		return comparison.Record{}, fmt.Errorf("create comparison: %w", err)
	}
	return created, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	err := c.do(ctx, http.MethodDelete, "/comparativas/"+strconv.FormatInt(id, 10), nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return comparison.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete comparison %d: %w", id, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		switch {
		case envelope.Message != "":
			apiErr.Message = envelope.Message
		case envelope.Error != nil:
			if s, ok := envelope.Error.(string); ok {
				apiErr.Message = s
			} else if m, ok := envelope.Error.(map[string]any); ok {
				apiErr.Message, _ = m["message"].(string)
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
