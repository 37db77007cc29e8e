package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"notionbot/internal/journal"
	"notionbot/internal/summarize"
	"notionbot/internal/task"
	"notionbot/internal/transcribe"
)

// Messenger sends replies and resolves file downloads on the chat platform.
type Messenger interface {
	// Send delivers an HTML-formatted message.
	Send(ctx context.Context, chatID int64, html string) error
	FileURL(ctx context.Context, fileID string) (string, error)
}

// Transcriber converts an audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, fileURL, fileName, mimeType string) (string, error)
}

// Summarizer produces a title and bullets for a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (summarize.Summary, error)
}

// TaskRepository persists tasks.
type TaskRepository interface {
	CreateTask(ctx context.Context, t task.Task) (task.Handle, error)
}

// Journal remembers messages that already produced a task.
type Journal interface {
	Seen(ctx context.Context, chatID int64, messageID int) (bool, error)
	Record(ctx context.Context, e journal.Entry) error
}

// Outcome is the terminal state of one handled message.
type Outcome string

const (
	OutcomeWelcome       Outcome = "welcome"
	OutcomeRejected      Outcome = "rejected"
	OutcomeUnsupported   Outcome = "unsupported"
	OutcomeNotConfigured Outcome = "not_configured"
	OutcomeDropped       Outcome = "dropped"
	OutcomeDuplicate     Outcome = "duplicate"
	OutcomeDone          Outcome = "done"
	OutcomeFailed        Outcome = "failed"
)

// RouterConfig wires the router. Transcriber and Summarizer may be nil.
type RouterConfig struct {
	OwnerID     int64
	AllowIDs    []int64
	NotionHost  string
	Messenger   Messenger
	Repository  TaskRepository
	Transcriber Transcriber
	Summarizer  Summarizer
	Journal     Journal
	Logger      *slog.Logger
}

// Router turns authorized chat messages into tasks. It holds no mutable
// state and is safe for concurrent use.
type Router struct {
	ownerID     int64
	allowed     map[int64]struct{}
	notionHost  string
	messenger   Messenger
	repo        TaskRepository
	transcriber Transcriber
	summarizer  Summarizer
	journal     Journal
	logger      *slog.Logger
}

// NewRouter validates the wiring.
func NewRouter(cfg RouterConfig) (*Router, error) {
	if cfg.Messenger == nil {
		return nil, errors.New("router: messenger is required")
	}
	if cfg.Repository == nil {
		return nil, errors.New("router: task repository is required")
	}
	if cfg.OwnerID == 0 {
		return nil, errors.New("router: owner id is required")
	}
	if cfg.NotionHost == "" {
		cfg.NotionHost = "www.notion.so"
	}
	if cfg.Journal == nil {
		cfg.Journal = journal.Nop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	allowed := make(map[int64]struct{}, len(cfg.AllowIDs))
	for _, id := range cfg.AllowIDs {
		allowed[id] = struct{}{}
	}

	return &Router{
		ownerID:     cfg.OwnerID,
		allowed:     allowed,
		notionHost:  cfg.NotionHost,
		messenger:   cfg.Messenger,
		repo:        cfg.Repository,
		transcriber: cfg.Transcriber,
		summarizer:  cfg.Summarizer,
		journal:     cfg.Journal,
		logger:      cfg.Logger,
	}, nil
}

func (r *Router) authorized(senderID int64) bool {
	if senderID == r.ownerID {
		return true
	}
	_, ok := r.allowed[senderID]
	return ok
}

// audioSource is an audio payload with its resolved upload name.
type audioSource struct {
	fileID   string
	mime     string
	fileName string
}

// Handle processes one message. Errors are scoped to the message; the caller
// logs them and keeps serving.
func (r *Router) Handle(ctx context.Context, in Inbound) (Outcome, error) {
	log := r.logger.With(
		"request_id", uuid.NewString(),
		"chat_id", in.ChatID,
		"message_id", in.MessageID,
		"sender_id", in.SenderID,
	)
	log.Debug("new message", "username", in.Username)

	if in.Command == "start" {
		return r.reply(ctx, in.ChatID, welcomeMessage(in.SenderID), OutcomeWelcome)
	}

	if !r.authorized(in.SenderID) {
		log.Warn("unauthorized sender", "username", in.Username)
		return r.reply(ctx, in.ChatID, msgAccessDenied, OutcomeRejected)
	}

	var (
		text  string
		audio *audioSource
	)
	switch p := in.Payload.(type) {
	case TextPayload:
		text = p.Text
	case VoicePayload:
		audio = &audioSource{fileID: p.FileID, mime: p.MIME, fileName: transcribe.FileName("voice", "", p.MIME)}
	case AudioPayload:
		audio = &audioSource{fileID: p.FileID, mime: p.MIME, fileName: transcribe.FileName("audio", p.FileName, p.MIME)}
	default:
		return r.reply(ctx, in.ChatID, msgUnsupported, OutcomeUnsupported)
	}

	if audio != nil && r.transcriber == nil {
		log.Warn("audio received but transcription is not configured")
		return r.reply(ctx, in.ChatID, msgNoTranscription, OutcomeNotConfigured)
	}

	if in.Username == "" {
		log.Info("empty username, message dropped")
		return OutcomeDropped, nil
	}

	seen, err := r.journal.Seen(ctx, in.ChatID, in.MessageID)
	if err != nil {
		log.Warn("journal lookup failed", "err", err)
	} else if seen {
		log.Info("message already produced a task, skipping")
		return OutcomeDuplicate, nil
	}

	if audio != nil {
		err = r.createFromAudio(ctx, log, in, *audio)
	} else {
		err = r.createFromText(ctx, log, in, text)
	}
	if err != nil {
		return OutcomeFailed, err
	}
	return OutcomeDone, nil
}

func (r *Router) reply(ctx context.Context, chatID int64, html string, outcome Outcome) (Outcome, error) {
	if err := r.messenger.Send(ctx, chatID, html); err != nil {
		return OutcomeFailed, fmt.Errorf("send reply: %w", err)
	}
	return outcome, nil
}

// commit creates the task, then confirms it to the sender and the owner.
func (r *Router) commit(ctx context.Context, log *slog.Logger, in Inbound, t task.Task) error {
	handle, err := r.repo.CreateTask(ctx, t)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	log.Info("task created", "page_id", handle.ID, "title", t.Title, "blocks", len(t.Blocks))

	if err := r.journal.Record(ctx, journal.Entry{
		ChatID:    in.ChatID,
		MessageID: in.MessageID,
		PageID:    handle.ID,
		Title:     t.Title,
		Author:    in.Username,
	}); err != nil {
		log.Warn("journal record failed", "err", err)
	}

	confirmation := confirmationMessage(t.Title, task.Link(r.notionHost, handle))
	if err := r.messenger.Send(ctx, in.ChatID, confirmation); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}
	if in.SenderID != r.ownerID {
		if err := r.messenger.Send(ctx, r.ownerID, ownerMessage(confirmation, in.Username)); err != nil {
			return fmt.Errorf("notify owner: %w", err)
		}
	}
	return nil
}
