package rageval

import "context"

// Embedder turns text into dense vectors.
// This is the contract document indexing and test-set generation build on.
type Embedder interface {
	// EmbedDocuments embeds a batch of texts.
	// Implementations issue one request per batch, not one per text.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// TextEmbedder is the embedding contract evaluation runs use.
type TextEmbedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// ModelName identifies the embedding model in evaluation reports.
	ModelName() string
}
