package ollama

import (
	"context"

	"github.com/fwojciec/rageval"
)

var (
	_ rageval.Embedder     = (*Embedder)(nil)
	_ rageval.TextEmbedder = (*Embedder)(nil)
)

// Embedder embeds text with Ollama's batch /api/embed endpoint.
type Embedder struct {
	cfg Config
}

// NewEmbedder creates an Embedder. Empty fields fall back to
// DefaultBaseURL and DefaultEmbeddingModel.
func NewEmbedder(cfg Config) *Embedder {
	return &Embedder{cfg: cfg.withDefaults(DefaultEmbeddingModel)}
}

// EmbedDocuments embeds texts with a single request.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embedResponse
	if err := post(ctx, e.cfg, "/api/embed", embedRequest{Model: e.cfg.Model, Input: texts}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, rageval.Errorf(rageval.EREMOTE, "ollama returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}

// EmbedQuery embeds a single text.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts is EmbedDocuments under the evaluation contract.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedDocuments(ctx, texts)
}

// EmbedText is EmbedQuery under the evaluation contract.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedQuery(ctx, text)
}

// ModelName returns the configured embedding model.
func (e *Embedder) ModelName() string {
	return e.cfg.Model
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}
