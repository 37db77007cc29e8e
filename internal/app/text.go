package app

import (
	"context"
	"log/slog"

	"notionbot/internal/task"
	"notionbot/internal/textutil"
)

func (r *Router) createFromText(ctx context.Context, log *slog.Logger, in Inbound, text string) error {
	title, sourceURL := textTitle(text)
	return r.commit(ctx, log, in, task.Task{
		Title:     title,
		Author:    in.Username,
		SourceURL: sourceURL,
	})
}

// textTitle strips the first URL out of text. When nothing else is left the
// URL itself becomes the title.
func textTitle(text string) (title, sourceURL string) {
	u, ok := textutil.ExtractFirstURL(text)
	if !ok {
		return text, ""
	}
	title = textutil.RemoveURL(text, u)
	if title == "" {
		title = u.Normalized
	}
	return title, u.Normalized
}
