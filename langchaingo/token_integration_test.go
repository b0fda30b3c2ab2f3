//go:build integration

package langchaingo_test

import (
	"context"
	"testing"

	"github.com/fwojciec/rageval/langchaingo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounter_CountTokens(t *testing.T) {
	t.Parallel()

	tc := langchaingo.NewTokenCounter("")
	assert.Equal(t, langchaingo.DefaultTokenizerModel, tc.Model)

	count, err := tc.CountTokens(context.Background(), "Onboarding guide for the engineering wiki.")
	require.NoError(t, err)
	assert.Positive(t, count)
}
