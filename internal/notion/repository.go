// Package notion stores tasks as pages of a Notion database.
package notion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jomei/notionapi"

	"notionbot/internal/apperr"
	"notionbot/internal/httpclient"
	"notionbot/internal/task"
	"notionbot/internal/textutil"
)

const (
	serviceName = "notion"

	// Notion rejects rich text objects longer than 2000 UTF-16 code units.
	maxRichTextLen = 2000
	bodyChunkLen   = 1900
	maxBodyBlocks  = 90

	statusBacklog  = "Backlog"
	sourceTelegram = "Telegram"
)

// Config configures the repository.
type Config struct {
	Token      string
	DatabaseID string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Repository creates task pages in one database.
type Repository struct {
	client     *notionapi.Client
	databaseID notionapi.DatabaseID
	logger     *slog.Logger
}

// New validates cfg and builds the Notion client.
func New(cfg Config) (*Repository, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, &apperr.ConfigError{Key: "NOTION_TOKEN"}
	}
	if strings.TrimSpace(cfg.DatabaseID) == "" {
		return nil, &apperr.ConfigError{Key: "NOTION_TASK_DB"}
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = httpclient.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Repository{
		// A 429 fails the call; nothing is resent.
		client: notionapi.NewClient(notionapi.Token(cfg.Token),
			notionapi.WithHTTPClient(cfg.HTTPClient),
			notionapi.WithRetry(1),
		),
		databaseID: notionapi.DatabaseID(cfg.DatabaseID),
		logger:     cfg.Logger,
	}, nil
}

// CreateTask writes t as a new page and returns its handle.
func (r *Repository) CreateTask(ctx context.Context, t task.Task) (task.Handle, error) {
	r.logger.Debug("creating task", "title", t.Title, "author", t.Author, "url", t.SourceURL, "blocks", len(t.Blocks))

	page, err := r.client.Page.Create(ctx, pageRequest(r.databaseID, t))
	if err != nil {
		var (
			apiErr     *notionapi.Error
			limitedErr *notionapi.RateLimitedError
		)
		switch {
		case errors.As(err, &apiErr):
			return task.Handle{}, apperr.Upstream(serviceName, apiErr.Status, []byte(string(apiErr.Code)+": "+apiErr.Message))
		case errors.As(err, &limitedErr):
			return task.Handle{}, apperr.Upstream(serviceName, http.StatusTooManyRequests, []byte(limitedErr.Message))
		}
		return task.Handle{}, fmt.Errorf("create notion page: %w", err)
	}
	return task.Handle{ID: page.ID.String()}, nil
}

func pageRequest(db notionapi.DatabaseID, t task.Task) *notionapi.PageCreateRequest {
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Type:  notionapi.PropertyTypeTitle,
			Title: richText(t.Title),
		},
		"TGAuthor": notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(t.Author),
		},
		"Status": notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: statusBacklog},
		},
		"Source": notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: sourceTelegram},
		},
	}
	if t.SourceURL != "" {
		props["URL"] = notionapi.URLProperty{
			Type: notionapi.PropertyTypeURL,
			URL:  t.SourceURL,
		}
	}

	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: db,
		},
		Properties: props,
	}

	switch {
	case len(t.Blocks) > 0:
		req.Children = convertBlocks(t.Blocks)
	case t.Body != "":
		req.Children = bodyBlocks(t.Body)
	}
	return req
}

func bodyBlocks(body string) []notionapi.Block {
	chunks := textutil.Chunk(body, bodyChunkLen)
	if len(chunks) > maxBodyBlocks {
		chunks = chunks[:maxBodyBlocks]
	}
	blocks := make([]task.Block, 0, len(chunks))
	for _, c := range chunks {
		blocks = append(blocks, task.Block{Kind: task.Paragraph, Text: c})
	}
	return convertBlocks(blocks)
}

func convertBlocks(blocks []task.Block) []notionapi.Block {
	out := make([]notionapi.Block, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case task.Heading:
			out = append(out, &notionapi.Heading2Block{
				BasicBlock: basic(notionapi.BlockTypeHeading2),
				Heading2:   notionapi.Heading{RichText: richText(b.Text)},
			})
		case task.Bullet:
			out = append(out, &notionapi.BulletedListItemBlock{
				BasicBlock:       basic(notionapi.BlockTypeBulletedListItem),
				BulletedListItem: notionapi.ListItem{RichText: richText(b.Text)},
			})
		case task.Divider:
			out = append(out, &notionapi.DividerBlock{
				BasicBlock: basic(notionapi.BlockTypeDivider),
				Divider:    notionapi.Divider{},
			})
		default:
			out = append(out, &notionapi.ParagraphBlock{
				BasicBlock: basic(notionapi.BlockTypeParagraph),
				Paragraph:  notionapi.Paragraph{RichText: richText(b.Text)},
			})
		}
	}
	return out
}

func basic(t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: t}
}

// richText splits s into segments Notion accepts.
func richText(s string) []notionapi.RichText {
	chunks := textutil.ChunkUTF16(s, maxRichTextLen)
	if len(chunks) == 0 {
		chunks = []string{""}
	}
	out := make([]notionapi.RichText, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, notionapi.RichText{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{Content: c},
		})
	}
	return out
}
