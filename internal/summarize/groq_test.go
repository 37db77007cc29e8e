package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"notionbot/internal/apperr"
	"notionbot/internal/logging"
)

func newGroqServer(t *testing.T, status int, content string, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, seen); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = io.WriteString(w, `{"error":{"message":"rate limited"}}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGroqClient(t *testing.T, srv *httptest.Server) *Groq {
	t.Helper()
	g, err := NewGroq(GroqConfig{BaseURL: srv.URL + "/v1", APIKey: "k", HTTPClient: srv.Client(), Logger: logging.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGroqSummarize(t *testing.T) {
	var seen chatRequest
	srv := newGroqServer(t, http.StatusOK, `{"title":"Заметка","bullets":["пункт1","пункт2"]}`, &seen)

	sum, err := newGroqClient(t, srv).Summarize(context.Background(), "текст")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.Title != "Заметка" || len(sum.Bullets) != 2 {
		t.Errorf("summary = %+v", sum)
	}
	if len(seen.Messages) != 2 || seen.Messages[0].Role != "system" || seen.Messages[1].Content != "текст" {
		t.Errorf("request messages = %+v", seen.Messages)
	}
	if seen.Model != "llama-3.3-70b-versatile" {
		t.Errorf("model = %q", seen.Model)
	}
}

func TestGroqSummarize_Upstream(t *testing.T) {
	var seen chatRequest
	srv := newGroqServer(t, http.StatusTooManyRequests, "", &seen)

	_, err := newGroqClient(t, srv).Summarize(context.Background(), "текст")
	var upErr *apperr.UpstreamError
	if !errors.As(err, &upErr) || upErr.Status != http.StatusTooManyRequests {
		t.Fatalf("expected 429 UpstreamError, got %v", err)
	}
}

func TestGroqSummarize_BadShape(t *testing.T) {
	var seen chatRequest
	srv := newGroqServer(t, http.StatusOK, `{"title":"","bullets":[]}`, &seen)

	_, err := newGroqClient(t, srv).Summarize(context.Background(), "текст")
	if !apperr.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
