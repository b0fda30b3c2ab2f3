// Package ollama provides LLM and embedding adapters backed by a local
// Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/rageval"
)

// Defaults applied by New* when Config fields are empty.
const (
	DefaultBaseURL        = "http://localhost:11434"
	DefaultEmbeddingModel = "nomic-embed-text"
	DefaultModel          = "llama3.1"
	DefaultTimeout        = 120 * time.Second
)

// Config contains configuration for the Ollama adapters.
type Config struct {
	BaseURL string
	Model   string
	Client  *http.Client // Optional; defaults to a client with DefaultTimeout
}

func (c Config) withDefaults(model string) Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Model == "" {
		c.Model = model
	}
	if c.Client == nil {
		c.Client = &http.Client{Timeout: DefaultTimeout}
	}
	return c
}

func post(ctx context.Context, cfg Config, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cfg.Client.Do(req)
	if err != nil {
		return rageval.Errorf(rageval.EUNAVAILABLE, "ollama request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return rageval.Errorf(rageval.EUNAVAILABLE, "ollama returned status %d: %s", resp.StatusCode, bytes.TrimSpace(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return rageval.Errorf(rageval.EREMOTE, "failed to decode ollama response: %v", err)
	}
	return nil
}
