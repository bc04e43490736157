// Package gateway is the client's only path to the wallet API: it injects
// the bearer credential, bounds every request with the configured timeout,
// and converts transport and HTTP failures into the typed errors the state
// slices understand. A 401 response deletes the persisted credential before
// the error is returned, so a revoked token cannot be replayed.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/dzungnguyen14/aiowallet-app/internal/config"
	"github.com/dzungnguyen14/aiowallet-app/internal/credentials"
)

// ErrNetwork wraps transport-level failures: DNS, refused connections,
// timeouts. The HTTP exchange never completed.
var ErrNetwork = errors.New("network error")

// StatusError is a completed HTTP exchange with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Code)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Message)
}

// IsUnauthorized reports whether err is a 401 StatusError.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}

type Client struct {
	baseURL        string
	http           *http.Client
	creds          credentials.Store
	onUnauthorized func()
}

func New(cfg *config.Config, creds credentials.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		creds:   creds,
	}
}

// SetUnauthorizedHook registers fn to run after a 401 response has deleted
// the persisted credential. The composition root points it at the auth
// slice so the session is torn down too.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// Do issues one JSON request. body and out may be nil; out is filled from
// the response body on 2xx.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.creds.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		if err := c.creds.Delete(); err != nil {
			log.Printf("gateway: failed to clear credential after 401: %v", err)
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &StatusError{Code: res.StatusCode, Message: errorMessage(res.Body)}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{Code: res.StatusCode, Message: errorMessage(res.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// errorMessage pulls the {"error": "..."} field the API uses for failures.
func errorMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error
}
