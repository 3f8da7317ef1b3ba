package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestClassifyGeminiErrorBuckets(t *testing.T) {
	quota := classifyGeminiError(genai.APIError{Code: 429, Message: "quota exceeded"})
	require.ErrorIs(t, quota, ErrRateLimited)

	down := classifyGeminiError(genai.APIError{Code: 503, Message: "overloaded"})
	require.ErrorIs(t, down, ErrUnavailable)

	bad := genai.APIError{Code: 400, Message: "invalid argument"}
	require.Equal(t, error(bad), classifyGeminiError(bad))

	plain := errors.New("dial tcp: connection refused")
	require.Equal(t, plain, classifyGeminiError(plain))
	require.NoError(t, classifyGeminiError(nil))
}

func TestClassifyGeminiErrorUnwrapsPointer(t *testing.T) {
	wrapped := fmt.Errorf("embed: %w", &genai.APIError{Code: 429})
	require.ErrorIs(t, classifyGeminiError(wrapped), ErrRateLimited)
}

type geminiQuotaEmbedder struct {
	calls int
}

func (g *geminiQuotaEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	g.calls++
	if g.calls == 1 {
		return nil, classifyGeminiError(genai.APIError{Code: 429, Message: "quota exceeded"})
	}
	return []float32{1}, nil
}

func (g *geminiQuotaEmbedder) ModelName() string { return "text-embedding-004" }

// A quota failure from the gemini backend must look retryable to the
// retry wrapper, not opaque.
func TestRetryEmbedderRecoversFromGeminiQuotaError(t *testing.T) {
	inner := &geminiQuotaEmbedder{}
	embedder := WrapRetryToEmbedder(inner, 3, time.Millisecond)

	res, err := embedder.Embed(context.Background(), "text", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.Equal(t, []float32{1}, res)
	require.Equal(t, 2, inner.calls)
}
