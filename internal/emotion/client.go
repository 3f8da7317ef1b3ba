package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable means no emotion endpoint is configured. Callers treat
// emotion data as optional and must not fail the interview turn on it.
var ErrUnavailable = errors.New("emotion service unavailable")

// Score is one recognized emotion with its confidence in [0, 1].
type Score struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		apiKey:   strings.TrimSpace(apiKey),
		client:   &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	Image string `json:"image"`
}

type analyzeResponse struct {
	Emotions []Score `json:"emotions"`
}

// Analyze submits one base64-encoded webcam frame and returns the
// recognized emotions, strongest first.
func (c *Client) Analyze(ctx context.Context, imageBase64 string) ([]Score, error) {
	if c.endpoint == "" {
		return nil, ErrUnavailable
	}
	data, err := json.Marshal(analyzeRequest{Image: imageBase64})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("emotion request failed: %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}
	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Emotions, nil
}

// Dominant returns the label of the strongest emotion, or "" when no
// emotion was recognized.
func Dominant(scores []Score) string {
	best := ""
	bestConf := 0.0
	for _, score := range scores {
		if score.Confidence > bestConf {
			best = score.Label
			bestConf = score.Confidence
		}
	}
	return best
}
