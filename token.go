package rageval

import "context"

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// CountDocuments sums the token counts of the documents' content.
// Counting stops at the first error or when ctx is done.
func CountDocuments(ctx context.Context, tc TokenCounter, docs []*Document) (int, error) {
	var total int
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := tc.CountTokens(ctx, doc.Content)
		if err != nil {
			return 0, Errorf(EINTERNAL, "count tokens for %s: %v", doc.Metadata.String(MetaSource), err)
		}
		total += n
	}
	return total, nil
}
