// Package restrepos implements the domain repositories over the campus REST backend.
package restrepos

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core"
)

const maxErrorBody = 64 << 10

// Client performs JSON requests against the backend. The bearer token of the
// current session is read from each request's context.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do sends body as JSON and decodes a 2xx answer into out (when non-nil).
// Non-2xx answers become a *core.APIError carrying the backend message.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := core.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Wrapf(decodeError(resp), "%s %s", method, path)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return errors.Wrapf(err, "decoding %s %s", method, path)
	}
	return nil
}

// decodeError reads the backend error body: {"message": "..."} or {"message": ["...", "..."]}.
func decodeError(resp *http.Response) error {
	apiErr := &core.APIError{Status: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return apiErr
	}

	var msg string
	var msgs []string
	switch {
	case json.Unmarshal(body.Message, &msg) == nil:
		apiErr.Message = msg
	case json.Unmarshal(body.Message, &msgs) == nil:
		apiErr.Message = strings.Join(msgs, "; ")
	default:
		apiErr.Message = body.Error
	}
	return apiErr
}

// Ping waits for the backend to answer. Waits 100ms longer between each attempt.
// Any HTTP answer counts: only transport failures are retried.
func (c *Client) Ping(ctx context.Context, maxAttempts int) error {
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		var req *http.Request
		req, err = http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
		if err != nil {
			return errors.Wrap(err, "building request")
		}
		var resp *http.Response
		if resp, err = c.http.Do(req); err == nil {
			_ = resp.Body.Close()
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "backend ping")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return errors.Wrap(err, "backend ping timeout")
}
