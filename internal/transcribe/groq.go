// Package transcribe converts chat audio into text with the Groq Whisper API.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"notionbot/internal/apperr"
	"notionbot/internal/httpclient"
)

const (
	serviceName     = "groq transcription"
	downloadService = "telegram file download"
)

// Config configures the Whisper client.
type Config struct {
	BaseURL    string // e.g. "https://api.groq.com/openai/v1"
	APIKey     string
	Model      string // e.g. "whisper-large-v3"
	Language   string // ISO-639-1, fixed for every request
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Groq transcribes audio files reachable by URL.
type Groq struct {
	baseURL  string
	apiKey   string
	model    string
	language string
	client   *http.Client
	logger   *slog.Logger
}

// NewGroq returns a client, or apperr.ErrNotConfigured without an API key.
func NewGroq(cfg Config) (*Groq, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("groq transcription: %w", apperr.ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-large-v3"
	}
	if cfg.Language == "" {
		cfg.Language = "ru"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = httpclient.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Groq{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		language: cfg.Language,
		client:   cfg.HTTPClient,
		logger:   cfg.Logger,
	}, nil
}

// Transcribe downloads fileURL and returns its transcript.
func (g *Groq) Transcribe(ctx context.Context, fileURL, fileName, mimeType string) (string, error) {
	g.logger.Debug("transcribing", "file_name", fileName, "mime", mimeType)

	audio, err := g.download(ctx, fileURL)
	if err != nil {
		return "", err
	}

	body, contentType, err := g.buildForm(audio, fileName, mimeType)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq transcription request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcription response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.Upstream(serviceName, resp.StatusCode, payload)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", &apperr.ValidationError{Service: serviceName, Reason: "malformed JSON"}
	}
	if strings.TrimSpace(result.Text) == "" {
		return "", &apperr.ValidationError{Service: serviceName, Reason: "empty text"}
	}

	g.logger.Info("transcription complete", "file_name", fileName, "text_len", len(result.Text))
	return result.Text, nil
}

func (g *Groq) download(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return nil, apperr.Upstream(downloadService, resp.StatusCode, payload)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return data, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (g *Groq) buildForm(audio []byte, fileName, mimeType string) (io.Reader, string, error) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(fileName)))
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", fmt.Errorf("copy audio data: %w", err)
	}

	fields := [][2]string{
		{"model", g.model},
		{"language", g.language},
		{"response_format", "json"},
		{"temperature", "0"},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write %s field: %w", f[0], err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &body, writer.FormDataContentType(), nil
}
