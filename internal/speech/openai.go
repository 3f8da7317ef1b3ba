package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type openAIConfig struct {
	APIKey   string `json:"api_key"`
	BaseURL  string `json:"base_url"`
	STTModel string `json:"stt_model"`
	TTSModel string `json:"tts_model"`
	Voice    string `json:"voice"`
}

type openAIProvider struct {
	apiKey   string
	baseURL  string
	sttModel string
	ttsModel string
	voice    string
}

func (p *openAIProvider) Name() string {
	return "openai"
}

type transcribeResponse struct {
	Text string `json:"text"`
}

func (p *openAIProvider) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if p.apiKey == "" {
		return "", ErrUnavailable
	}
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileNameForMime(mimeType))
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("model", p.sttModel); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}
	endpoint := strings.TrimRight(p.baseURL, "/") + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcribe request failed: %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}
	var out transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Text), nil
}

type synthesizeRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Voice string `json:"voice"`
}

func (p *openAIProvider) Synthesize(ctx context.Context, text string, voice string) ([]byte, error) {
	if p.apiKey == "" {
		return nil, ErrUnavailable
	}
	if voice == "" {
		voice = p.voice
	}
	reqBody := synthesizeRequest{
		Model: p.ttsModel,
		Input: text,
		Voice: voice,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	endpoint := strings.TrimRight(p.baseURL, "/") + "/audio/speech"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("synthesize request failed: %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}
	return io.ReadAll(resp.Body)
}

func fileNameForMime(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "wav"):
		return "audio.wav"
	case strings.Contains(mimeType, "ogg"):
		return "audio.ogg"
	case strings.Contains(mimeType, "mp4"):
		return "audio.mp4"
	default:
		return "audio.webm"
	}
}

func createOpenAIProvider(args interface{}) (Provider, error) {
	cfg := &openAIConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if cfg.STTModel == "" {
		cfg.STTModel = "whisper-1"
	}
	if cfg.TTSModel == "" {
		cfg.TTSModel = "tts-1"
	}
	if cfg.Voice == "" {
		cfg.Voice = "alloy"
	}
	return &openAIProvider{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		baseURL:  baseURL,
		sttModel: cfg.STTModel,
		ttsModel: cfg.TTSModel,
		voice:    cfg.Voice,
	}, nil
}

func init() {
	Register("openai", createOpenAIProvider)
}
