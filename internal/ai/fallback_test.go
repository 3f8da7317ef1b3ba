package ai

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFallbackGeneratorTriesNextOnFailure(t *testing.T) {
	broken := &scriptedGenerator{errs: []error{
		fmt.Errorf("%w: down", ErrUnavailable),
	}}
	healthy := &scriptedGenerator{}
	chain := NewFallbackGenerator([]GeneratorEntry{
		{Name: "primary", Generator: broken},
		{Name: "backup", Generator: healthy},
	})

	res, err := chain.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "ok", res)
	require.Equal(t, 1, broken.calls)
	require.Equal(t, 1, healthy.calls)
}

func TestFallbackGeneratorKeepsLastErrorRetryable(t *testing.T) {
	chain := NewFallbackGenerator([]GeneratorEntry{
		{Name: "a", Generator: &scriptedGenerator{errs: []error{fmt.Errorf("%w: a", ErrUnavailable)}}},
		{Name: "b", Generator: &scriptedGenerator{errs: []error{fmt.Errorf("%w: b", ErrRateLimited)}}},
	})

	_, err := chain.Generate(context.Background(), "prompt")
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestFallbackEmbedderModelNameJoinsChain(t *testing.T) {
	chain := NewFallbackEmbedder([]EmbedderEntry{
		{Name: "text-embedding-004", Embedder: &scriptedEmbedder{}},
		{Name: "text-embedding-3-small", Embedder: &scriptedEmbedder{}},
	})
	require.Equal(t, "text-embedding-004|text-embedding-3-small", chain.ModelName())
}

func TestNewFallbackGeneratorEmptyChain(t *testing.T) {
	require.Nil(t, NewFallbackGenerator(nil))
	require.Nil(t, NewFallbackEmbedder(nil))
}
