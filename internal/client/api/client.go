package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	sessiondto "attn/internal/modules/session/dto"
	statsdto "attn/internal/modules/stats/dto"
	apperrors "attn/internal/platform/errors"
	"attn/internal/platform/web"
)

// TransportError marks a failure to reach the server, as opposed to the
// server rejecting the request. The controller rolls back on either, but
// notices read better when they are distinguishable.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// Client is the REST client used by the terminal UI and the remote CLI
// commands.
type Client struct {
	base  string
	token string
	http  *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		base:  baseURL,
		token: token,
		http:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Start(ctx context.Context) (sessiondto.Session, error) {
	var out sessiondto.Session
	err := c.do(ctx, http.MethodPost, "/api/sessions", &out)
	return out, err
}

func (c *Client) Active(ctx context.Context) (sessiondto.Session, error) {
	var out sessiondto.Session
	err := c.do(ctx, http.MethodGet, "/api/sessions/active", &out)
	return out, err
}

func (c *Client) Distract(ctx context.Context, sessionID string) (sessiondto.Distraction, error) {
	var out sessiondto.Distraction
	err := c.do(ctx, http.MethodPost, "/api/sessions/"+sessionID+"/distractions", &out)
	return out, err
}

func (c *Client) End(ctx context.Context, sessionID string) (sessiondto.EndOutput, error) {
	var out sessiondto.EndOutput
	err := c.do(ctx, http.MethodPatch, "/api/sessions/"+sessionID, &out)
	return out, err
}

func (c *Client) Summary(ctx context.Context, sessionID string) (sessiondto.Summary, error) {
	var out sessiondto.Summary
	err := c.do(ctx, http.MethodGet, "/api/sessions/"+sessionID+"/summary", &out)
	return out, err
}

func (c *Client) Stats(ctx context.Context) (statsdto.Stats, error) {
	var out statsdto.Stats
	err := c.do(ctx, http.MethodGet, "/api/stats", &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// decodeError maps the error body's code back to the typed errors the
// server raised them from.
func decodeError(resp *http.Response) error {
	var body web.ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	switch body.Code {
	case web.CodeNotFound:
		if resp.Request.URL.Path == "/api/sessions/active" {
			return apperrors.ErrNoActiveSession
		}
		return apperrors.ErrSessionNotFound
	case web.CodeConflict:
		return apperrors.ErrActiveSessionExists
	case web.CodeInvalidState:
		return apperrors.ErrSessionEnded
	default:
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
	}
}
