// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP helpers shared by the provider backends.
//
// Every helper makes exactly one attempt: provider calls are never retried,
// and a call ends when the response is read or the client timeout fires.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/knowmap/internal/tracing"
	"github.com/pdiddy/knowmap/pkg/types"
)

// DefaultTimeout applies when HTTPConfig.Timeout is unset.
const DefaultTimeout = 10 * time.Second

const maxErrorBodyBytes = 64 << 10

// maxBodyBytes caps a successful response body. Tests lower it.
var maxBodyBytes int64 = 16 << 20

// ErrBodyTooLarge reports a response body longer than the read limit.
var ErrBodyTooLarge = errors.New("response body too large")

// NewClient returns an *http.Client with the configured timeout.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// StatusError reports a response with a non-2xx status. Body holds the
// beginning of the response body so callers can surface provider messages.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with HTTP %d", e.StatusCode)
}

// Get issues a GET request for rawURL and returns the response body. The
// userAgent header is sent when non-empty. A non-2xx response yields a
// *StatusError.
func Get(ctx context.Context, client *http.Client, rawURL, userAgent string) ([]byte, error) {
	ctx, span := tracing.StartSpan(ctx, "http.get", tracing.String("http.target", redact(rawURL)))
	defer span.End()

	body, err := get(ctx, client, rawURL, userAgent)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	tracing.SetOK(span)
	return body, nil
}

func get(ctx context.Context, client *http.Client, rawURL, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redact(ue.URL)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: snippet}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > maxBodyBytes {
		return nil, fmt.Errorf("%w (max %d bytes)", ErrBodyTooLarge, maxBodyBytes)
	}
	return body, nil
}

// GetJSON issues a GET request and decodes the JSON response into v.
func GetJSON(ctx context.Context, client *http.Client, rawURL, userAgent string, v any) error {
	body, err := Get(ctx, client, rawURL, userAgent)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// redact drops the query string so credentials never reach span attributes
// or error messages.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host + u.Path
}
