package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type scriptedEmbedder struct {
	errs  []error
	calls int
}

func (s *scriptedEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return []float32{1}, nil
}

func (s *scriptedEmbedder) ModelName() string { return "scripted" }

func TestRetryEmbedderRecoversFromRateLimit(t *testing.T) {
	inner := &scriptedEmbedder{errs: []error{
		fmt.Errorf("%w: 429", ErrRateLimited),
		nil,
	}}
	embedder := WrapRetryToEmbedder(inner, 3, time.Millisecond)

	res, err := embedder.Embed(context.Background(), "text", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.Equal(t, []float32{1}, res)
	require.Equal(t, 2, inner.calls)
}

func TestRetryEmbedderStopsOnNonRetryableError(t *testing.T) {
	permanent := errors.New("bad request")
	inner := &scriptedEmbedder{errs: []error{permanent, nil}}
	embedder := WrapRetryToEmbedder(inner, 3, time.Millisecond)

	_, err := embedder.Embed(context.Background(), "text", "RETRIEVAL_DOCUMENT")
	require.ErrorIs(t, err, permanent)
	require.Equal(t, 1, inner.calls)
}

func TestRetryEmbedderExhaustsAttempts(t *testing.T) {
	inner := &scriptedEmbedder{errs: []error{
		fmt.Errorf("%w: a", ErrUnavailable),
		fmt.Errorf("%w: b", ErrUnavailable),
		fmt.Errorf("%w: c", ErrUnavailable),
	}}
	embedder := WrapRetryToEmbedder(inner, 3, time.Millisecond)

	_, err := embedder.Embed(context.Background(), "text", "RETRIEVAL_DOCUMENT")
	require.ErrorIs(t, err, ErrUnavailable)
	require.Equal(t, 3, inner.calls)
}

func TestRetryEmbedderHonorsContextCancel(t *testing.T) {
	inner := &scriptedEmbedder{errs: []error{
		fmt.Errorf("%w: a", ErrUnavailable),
	}}
	embedder := WrapRetryToEmbedder(inner, 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := embedder.Embed(ctx, "text", "RETRIEVAL_DOCUMENT")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, inner.calls)
}

type scriptedGenerator struct {
	errs  []error
	blank bool
	calls int
}

func (s *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return "", err
		}
	}
	if s.blank {
		return "  ", nil
	}
	return "ok", nil
}

func TestRetryGeneratorRecovers(t *testing.T) {
	inner := &scriptedGenerator{errs: []error{
		fmt.Errorf("%w: 503", ErrUnavailable),
		nil,
	}}
	generator := WrapRetryToGenerator(inner, 3, time.Millisecond)

	res, err := generator.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "ok", res)
	require.Equal(t, 2, inner.calls)
}

func TestWrapRetrySingleAttemptReturnsOriginal(t *testing.T) {
	inner := &scriptedEmbedder{}
	require.Equal(t, IEmbedder(inner), WrapRetryToEmbedder(inner, 1, time.Millisecond))
}
