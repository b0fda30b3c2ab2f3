package modelgarden

import (
	"context"
	"net/http"

	"github.com/fwojciec/rageval"
)

// Ensure Embeddings implements both embedding contracts at compile time.
var (
	_ rageval.Embedder     = (*Embeddings)(nil)
	_ rageval.TextEmbedder = (*Embeddings)(nil)
)

// Embeddings embeds text through the model-garden embedding endpoint.
type Embeddings struct {
	url    string
	model  string
	client *http.Client
}

// NewEmbeddings creates an Embeddings adapter that posts to url.
func NewEmbeddings(url, model string, opts ...Option) *Embeddings {
	o := newOptions(opts)
	return &Embeddings{url: url, model: model, client: o.client}
}

// EmbedDocuments embeds texts with a single request.
// Vectors are returned in response order.
func (e *Embeddings) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := embeddingRequest{
		Model:          e.model,
		Input:          texts,
		EncodingFormat: "float",
	}

	var resp embeddingResponse
	if err := postJSON(ctx, e.client, e.url, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, rageval.Errorf(rageval.EREMOTE, "model garden returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

// EmbedQuery embeds a single text.
func (e *Embeddings) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts is EmbedDocuments under the evaluation contract.
func (e *Embeddings) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedDocuments(ctx, texts)
}

// EmbedText is EmbedQuery under the evaluation contract.
func (e *Embeddings) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedQuery(ctx, text)
}

// ModelName returns the configured embedding model.
func (e *Embeddings) ModelName() string {
	return e.model
}

type embeddingRequest struct {
	Model          string   `json:"model"`
	Input          []string `json:"input"`
	EncodingFormat string   `json:"encoding_format"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}
