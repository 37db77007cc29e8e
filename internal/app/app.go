package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"notionbot/internal/config"
	"notionbot/internal/httpclient"
	"notionbot/internal/journal"
	"notionbot/internal/notion"
	"notionbot/internal/summarize"
	"notionbot/internal/transcribe"
)

// App wires Telegram updates to the task pipeline.
type App struct {
	bot     *tele.Bot
	router  *Router
	journal interface{ Close() error }
	logger  *slog.Logger

	// inflight tracks handlers so Run can wait for them after polling stops.
	inflight sync.WaitGroup
}

// New initialises the Telegram bot, the gateways and the router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	bot, err := tele.NewBot(botSettings(cfg.Telegram.Token, logger))
	if err != nil {
		return nil, fmt.Errorf("create telebot: %w", err)
	}

	httpClient := httpclient.New()

	repo, err := notion.New(notion.Config{
		Token:      cfg.Notion.Token,
		DatabaseID: cfg.Notion.TaskDB,
		HTTPClient: httpClient,
		Logger:     logger.With("component", "notion"),
	})
	if err != nil {
		return nil, err
	}

	var transcriber Transcriber
	if cfg.TranscriptionEnabled() {
		g, err := transcribe.NewGroq(transcribe.Config{
			BaseURL:    cfg.Groq.BaseURL,
			APIKey:     cfg.Groq.Token,
			Model:      cfg.Groq.TranscriptionModel,
			Language:   cfg.Groq.Language,
			HTTPClient: httpClient,
			Logger:     logger.With("component", "transcribe"),
		})
		if err != nil {
			return nil, err
		}
		transcriber = g
	} else {
		logger.Warn("GROQ_TOKEN is not set, audio messages will be refused")
	}

	summarizer, err := newSummarizer(ctx, cfg, httpClient, logger.With("component", "summarize"))
	if err != nil {
		return nil, err
	}

	var jr Journal = journal.Nop{}
	var closer interface{ Close() error } = journal.Nop{}
	if cfg.Journal.Path != "" {
		store, err := journal.Open(cfg.Journal.Path, logger.With("component", "journal"))
		if err != nil {
			return nil, err
		}
		jr, closer = store, store
	}

	router, err := NewRouter(RouterConfig{
		OwnerID:     cfg.Telegram.OwnerID,
		AllowIDs:    cfg.Telegram.AllowIDs,
		NotionHost:  cfg.Notion.Host,
		Messenger:   &telegramMessenger{bot: bot},
		Repository:  repo,
		Transcriber: transcriber,
		Summarizer:  summarizer,
		Journal:     jr,
		Logger:      logger,
	})
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	return newApp(bot, router, closer, logger), nil
}

// botSettings runs handlers synchronously on the polling goroutine;
// handleMessage hands each message to its own tracked goroutine.
func botSettings(token string, logger *slog.Logger) tele.Settings {
	return tele.Settings{
		Token:       token,
		Poller:      &tele.LongPoller{Timeout: 10 * time.Second},
		Synchronous: true,
		OnError: func(err error, c tele.Context) {
			attrs := []any{"err", err}
			if c != nil && c.Message() != nil {
				attrs = append(attrs, "chat_id", c.Chat().ID, "message_id", c.Message().ID)
			}
			logger.Error("update handling failed", attrs...)
		},
	}
}

func newApp(bot *tele.Bot, router *Router, closer interface{ Close() error }, logger *slog.Logger) *App {
	a := &App{
		bot:     bot,
		router:  router,
		journal: closer,
		logger:  logger,
	}
	a.registerHandlers()
	return a
}

// newSummarizer prefers Gemini when its key is set, then Groq. Without
// either, audio tasks are created from the transcript alone.
func newSummarizer(ctx context.Context, cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (Summarizer, error) {
	switch {
	case strings.TrimSpace(cfg.Gemini.APIKey) != "":
		g, err := summarize.NewGemini(ctx, summarize.GeminiConfig{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
			Logger: logger,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	case cfg.TranscriptionEnabled():
		g, err := summarize.NewGroq(summarize.GroqConfig{
			BaseURL:    cfg.Groq.BaseURL,
			APIKey:     cfg.Groq.Token,
			Model:      cfg.Groq.SummaryModel,
			HTTPClient: httpClient,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, nil
	}
}

// Run starts the Telegram polling loop and blocks until ctx is cancelled.
// Messages already being handled run to completion before Run returns.
func (a *App) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		a.bot.Stop()
	}()
	a.logger.Info("bot started", "username", a.bot.Me.Username)
	a.bot.Start()

	a.logger.Info("polling stopped, waiting for in-flight messages")
	a.inflight.Wait()
	return a.journal.Close()
}

func (a *App) registerHandlers() {
	a.bot.Handle("/start", a.handleMessage)

	for _, endpoint := range []string{
		tele.OnText,
		tele.OnVoice,
		tele.OnAudio,
		tele.OnPhoto,
		tele.OnVideo,
		tele.OnVideoNote,
		tele.OnDocument,
		tele.OnSticker,
		tele.OnAnimation,
		tele.OnLocation,
		tele.OnContact,
	} {
		a.bot.Handle(endpoint, a.handleMessage)
	}
}

func (a *App) handleMessage(c tele.Context) error {
	in, ok := toInbound(c.Message())
	if !ok {
		return nil
	}

	// Add runs on the polling goroutine, before Start can return.
	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()

		// Shutdown stops polling only; a started message runs to completion.
		outcome, err := a.router.Handle(context.Background(), in)
		if err != nil {
			a.logger.Error("message handling failed", "chat_id", in.ChatID, "message_id", in.MessageID, "outcome", outcome, "err", err)
			return
		}
		a.logger.Debug("message handled", "chat_id", in.ChatID, "message_id", in.MessageID, "outcome", outcome)
	}()
	return nil
}

// toInbound converts a telebot message into the pipeline's tagged form.
func toInbound(msg *tele.Message) (Inbound, bool) {
	if msg == nil || msg.Sender == nil || msg.Chat == nil {
		return Inbound{}, false
	}

	in := Inbound{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		SenderID:  msg.Sender.ID,
		Username:  msg.Sender.Username,
	}

	switch {
	case msg.Voice != nil:
		in.Payload = VoicePayload{FileID: msg.Voice.FileID, MIME: msg.Voice.MIME}
	case msg.Audio != nil:
		in.Payload = AudioPayload{FileID: msg.Audio.FileID, MIME: msg.Audio.MIME, FileName: msg.Audio.FileName}
	case strings.TrimSpace(msg.Text) != "":
		in.Command = commandOf(msg.Text)
		in.Payload = TextPayload{Text: msg.Text}
	default:
		in.Payload = OtherPayload{}
	}
	return in, true
}

// commandOf returns "start" for "/start", "/start@bot" or "/start payload".
func commandOf(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0][1:]
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	if cmd != "start" {
		return ""
	}
	return cmd
}

// telegramMessenger implements Messenger over a telebot Bot.
type telegramMessenger struct {
	bot *tele.Bot
}

func (m *telegramMessenger) Send(_ context.Context, chatID int64, html string) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML, DisableWebPagePreview: true}
	_, err := m.bot.Send(tele.ChatID(chatID), html, opts)
	if err == nil || !isParseError(err) {
		return err
	}

	plain := *opts
	plain.ParseMode = tele.ModeDefault
	_, err = m.bot.Send(tele.ChatID(chatID), html, &plain)
	return err
}

func (m *telegramMessenger) FileURL(_ context.Context, fileID string) (string, error) {
	file, err := m.bot.FileByID(fileID)
	if err != nil {
		return "", fmt.Errorf("get file: %w", err)
	}
	if file.FilePath == "" {
		return "", fmt.Errorf("get file: empty path for %s", fileID)
	}
	return fileDownloadURL(m.bot.URL, m.bot.Token, file.FilePath), nil
}

func fileDownloadURL(apiURL, token, filePath string) string {
	return strings.TrimRight(apiURL, "/") + "/file/bot" + token + "/" + strings.TrimLeft(filePath, "/")
}

func isParseError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "can't parse entities") || strings.Contains(msg, "can't parse message")
}
