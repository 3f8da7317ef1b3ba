package ai

import "errors"

var (
	// ErrUnavailable means the provider is not configured or the upstream
	// service refused to serve the request.
	ErrUnavailable = errors.New("ai service unavailable")
	// ErrRateLimited is returned on quota/rate-limit responses. Callers
	// may retry with backoff.
	ErrRateLimited = errors.New("ai service rate limited")
)

func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable)
}
