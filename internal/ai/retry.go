package ai

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// WrapRetryToEmbedder retries rate-limited or transiently unavailable
// embedding calls with exponential backoff. Non-retryable errors are
// returned immediately.
func WrapRetryToEmbedder(e IEmbedder, attempts int, baseDelay time.Duration) IEmbedder {
	if e == nil || attempts <= 1 {
		return e
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return &retryEmbedder{next: e, attempts: attempts, baseDelay: baseDelay}
}

type retryEmbedder struct {
	next      IEmbedder
	attempts  int
	baseDelay time.Duration
}

func (r *retryEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	var lastErr error
	delay := r.baseDelay
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			logutil.GetLogger(ctx).Warn("retrying embed call",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		res, err := r.next.Embed(ctx, text, taskType)
		if err == nil {
			return res, nil
		}
		if !IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (r *retryEmbedder) ModelName() string {
	return r.next.ModelName()
}

// WrapRetryToGenerator mirrors WrapRetryToEmbedder for chat calls.
func WrapRetryToGenerator(g IGenerator, attempts int, baseDelay time.Duration) IGenerator {
	if g == nil || attempts <= 1 {
		return g
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return &retryGenerator{next: g, attempts: attempts, baseDelay: baseDelay}
}

type retryGenerator struct {
	next      IGenerator
	attempts  int
	baseDelay time.Duration
}

func (r *retryGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	delay := r.baseDelay
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		res, err := r.next.Generate(ctx, prompt)
		if err == nil {
			return res, nil
		}
		if !IsRetryable(err) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}
