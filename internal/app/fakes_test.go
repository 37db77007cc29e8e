package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"notionbot/internal/journal"
	"notionbot/internal/logging"
	"notionbot/internal/summarize"
	"notionbot/internal/task"
)

const (
	ownerID    int64 = 100
	allowedID  int64 = 200
	strangerID int64 = 999
	pageID           = "1a2b3c4d-0000-1111-2222-333344445555"
	pageLink         = "https://www.notion.so/1a2b3c4d000011112222333344445555"
)

type sentMessage struct {
	chatID int64
	html   string
}

type fakeMessenger struct {
	mu      sync.Mutex
	sent    []sentMessage
	sendErr error
	fileErr error
}

func (m *fakeMessenger) Send(_ context.Context, chatID int64, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMessage{chatID: chatID, html: html})
	return nil
}

func (m *fakeMessenger) FileURL(_ context.Context, fileID string) (string, error) {
	if m.fileErr != nil {
		return "", m.fileErr
	}
	return "https://files.test/" + fileID, nil
}

func (m *fakeMessenger) messages() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}

type fakeRepo struct {
	mu    sync.Mutex
	tasks []task.Task
	err   error
}

func (r *fakeRepo) CreateTask(_ context.Context, t task.Task) (task.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return task.Handle{}, r.err
	}
	r.tasks = append(r.tasks, t)
	return task.Handle{ID: pageID}, nil
}

type fakeTranscriber struct {
	text     string
	err      error
	fileURL  string
	fileName string
	mime     string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, fileURL, fileName, mimeType string) (string, error) {
	f.fileURL, f.fileName, f.mime = fileURL, fileName, mimeType
	return f.text, f.err
}

type fakeSummarizer struct {
	summary summarize.Summary
	err     error
	input   string
	calls   int
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string) (summarize.Summary, error) {
	f.calls++
	f.input = text
	return f.summary, f.err
}

type fakeJournal struct {
	seen     bool
	recorded []journal.Entry
}

func (j *fakeJournal) Seen(context.Context, int64, int) (bool, error) { return j.seen, nil }

func (j *fakeJournal) Record(_ context.Context, e journal.Entry) error {
	j.recorded = append(j.recorded, e)
	return nil
}

var errNetwork = errors.New("network unreachable")

type harness struct {
	messenger   *fakeMessenger
	repo        *fakeRepo
	transcriber *fakeTranscriber
	summarizer  *fakeSummarizer
	journal     *fakeJournal
	router      *Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		messenger:   &fakeMessenger{},
		repo:        &fakeRepo{},
		transcriber: &fakeTranscriber{},
		summarizer:  &fakeSummarizer{},
		journal:     &fakeJournal{},
	}
	h.build(t)
	return h
}

func (h *harness) build(t *testing.T) {
	t.Helper()
	cfg := RouterConfig{
		OwnerID:    ownerID,
		AllowIDs:   []int64{allowedID},
		Messenger:  h.messenger,
		Repository: h.repo,
		Journal:    h.journal,
		Logger:     logging.Discard(),
	}
	if h.transcriber != nil {
		cfg.Transcriber = h.transcriber
	}
	if h.summarizer != nil {
		cfg.Summarizer = h.summarizer
	}
	r, err := NewRouter(cfg)
	if err != nil {
		t.Fatal(err)
	}
	h.router = r
}

func textFrom(sender int64, username, text string) Inbound {
	return Inbound{ChatID: sender, MessageID: 1, SenderID: sender, Username: username, Payload: TextPayload{Text: text}}
}

func voiceFrom(sender int64, username string) Inbound {
	return Inbound{ChatID: sender, MessageID: 2, SenderID: sender, Username: username, Payload: VoicePayload{FileID: "voice-1", MIME: "audio/ogg"}}
}
