// Package modelgarden adapts a model-garden HTTP backend to the rageval
// LLM and embedding contracts. The backend exposes a chat-completion
// endpoint and an OpenAI-style embedding endpoint, each at its own URL.
package modelgarden

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/rageval"
)

// maxErrorBody bounds how much of a failed response body ends up in an error.
const maxErrorBody = 512

// Option configures an adapter.
type Option func(*options)

type options struct {
	client      *http.Client
	timeout     time.Duration
	temperature float64
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithTimeout sets a per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithTemperature sets the sampling temperature for completions.
// Defaults to DefaultTemperature.
func WithTemperature(t float64) Option {
	return func(o *options) {
		o.temperature = t
	}
}

func newOptions(opts []Option) options {
	o := options{temperature: DefaultTemperature}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}
	return o
}

// postJSON sends in as a JSON body to url and decodes the response into out.
// Any non-2xx status is an EUNAVAILABLE error; it is never retried.
func postJSON(ctx context.Context, client *http.Client, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return rageval.Errorf(rageval.EUNAVAILABLE, "request to %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return rageval.Errorf(rageval.EUNAVAILABLE, "HTTP %d for %s: %s", resp.StatusCode, url, bytes.TrimSpace(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return rageval.Errorf(rageval.EREMOTE, "failed to decode response from %s: %v", url, err)
	}
	return nil
}
