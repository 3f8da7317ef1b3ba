package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

type geminiConfig struct {
	APIKey string `json:"api_key"`
}

// geminiClient serves both chat and embedding through one shared genai
// client. The client is built once at startup; a missing API key keeps
// the provider registered but permanently unavailable, matching the
// openai provider's behavior.
type geminiClient struct {
	client *genai.Client
}

func newGeminiClient(args interface{}) (*geminiClient, error) {
	cfg := &geminiConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return &geminiClient{}, nil
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &geminiClient{client: client}, nil
}

func (g *geminiClient) Name() string {
	return "gemini"
}

func (g *geminiClient) Generate(ctx context.Context, model string, prompt string) (string, error) {
	if g.client == nil {
		return "", ErrUnavailable
	}
	resp, err := g.client.Models.GenerateContent(
		ctx,
		model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

func (g *geminiClient) Embed(ctx context.Context, model string, text string, taskType string) ([]float32, error) {
	if g.client == nil {
		return nil, ErrUnavailable
	}
	var config *genai.EmbedContentConfig
	if taskType != "" {
		config = &genai.EmbedContentConfig{TaskType: taskType}
	}
	resp, err := g.client.Models.EmbedContent(
		ctx,
		model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
		config,
	)
	if err != nil {
		return nil, classifyGeminiError(err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embedding values returned")
	}
	return resp.Embeddings[0].Values, nil
}

// classifyGeminiError maps genai API failures onto the sentinel errors
// the retry wrapper keys on, the same buckets classifyStatus uses for
// openai responses.
func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	default:
		return err
	}
	switch {
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}

func init() {
	Register("gemini", func(args interface{}) (IChatProvider, error) {
		return newGeminiClient(args)
	})
	RegisterEmbed("gemini", func(args interface{}) (IEmbedProvider, error) {
		return newGeminiClient(args)
	})
}
