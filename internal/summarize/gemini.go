package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"notionbot/internal/apperr"
)

const geminiService = "gemini summary"

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey string
	Model  string
	// HTTPOptions overrides the API endpoint; zero value uses Google's.
	HTTPOptions genai.HTTPOptions
	Logger      *slog.Logger
}

// Gemini summarizes with Google Gemini.
type Gemini struct {
	client            *genai.Client
	model             string
	systemInstruction *genai.Content
	logger            *slog.Logger
}

// NewGemini initialises the genai client.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini summary: %w", apperr.ErrNotConfigured)
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: cfg.HTTPOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{
		client:            client,
		model:             cfg.Model,
		systemInstruction: genai.NewContentFromText(systemPrompt, genai.Role("system")),
		logger:            cfg.Logger,
	}, nil
}

// Summarize asks Gemini for a title and bullets.
func (g *Gemini) Summarize(ctx context.Context, text string) (Summary, error) {
	temperature := float32(0.2)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: g.systemInstruction,
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return Summary{}, fmt.Errorf("genai request: %w", err)
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return Summary{}, &apperr.ValidationError{Service: geminiService, Reason: "blocked prompt"}
	}

	reply := responseText(resp)
	if reply == "" {
		return Summary{}, &apperr.ValidationError{Service: geminiService, Reason: "no content"}
	}
	g.logger.Debug("summary reply received", "model", g.model, "reply_len", len(reply))
	return Parse(geminiService, reply)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}

	var parts []string
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		if text := strings.TrimSpace(part.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
