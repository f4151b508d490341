// Package api contains the HTTP clients for the externally-owned services
// the session layer collaborates with: the auth service, the customer
// profile service, the order service, and the payment provider.
//
// All clients share one transport policy: JSON bodies, bearer-token auth,
// and bounded retries for transient failures. Authentication failures map to
// [shopsession.ErrAuthFailed] and are never retried here; the retry-once
// semantics around them belong to the session and checkout layers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/babakneza/shopsession"
)

var errNotFound = errors.New("not found")

// StatusError carries a non-2xx response that is neither an authentication
// failure nor a transport failure.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

// Client is the shared HTTP core of the collaborator clients.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	log     zerolog.Logger
}

// NewClient creates a Client for the storefront backend at cfg.BaseURL.
func NewClient(cfg shopsession.APIConfig, logger zerolog.Logger) *Client {
	return newClient(cfg.BaseURL, cfg, logger)
}

func newClient(baseURL string, cfg shopsession.APIConfig, logger zerolog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = leveledLogger{logger}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    rc,
		log:     logger,
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	return c.doWith(ctx, method, path, token, nil, in, out)
}

func (c *Client) doWith(ctx context.Context, method, path, token string, headers map[string]string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shopsession.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return shopsession.ErrAuthFailed
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %v", shopsession.ErrUpstreamUnavailable, &StatusError{
			Code:    resp.StatusCode,
			Message: errorMessage(resp.Body),
		})
	default:
		return &StatusError{
			Code:    resp.StatusCode,
			Message: errorMessage(resp.Body),
		}
	}
}

func errorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}

// leveledLogger adapts zerolog to retryablehttp's logging interface.
type leveledLogger struct {
	log zerolog.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.log.Error().Fields(kv).Msg(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.log.Warn().Fields(kv).Msg(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.log.Debug().Fields(kv).Msg(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.log.Debug().Fields(kv).Msg(msg) }
