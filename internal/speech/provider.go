package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable means the speech provider is not configured or refused
// the request.
var ErrUnavailable = errors.New("speech service unavailable")

// Provider converts between audio and text: transcription for candidate
// answers coming from the microphone, synthesis for spoken interviewer
// questions.
type Provider interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
	Synthesize(ctx context.Context, text string, voice string) ([]byte, error)
}

type Factory func(args interface{}) (Provider, error)

var registry = map[string]Factory{}

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func New(name string, args interface{}) (Provider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("speech.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported speech provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("speech provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode speech provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode speech provider config: %w", err)
	}
	return nil
}
