package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"notionbot/internal/summarize"
	"notionbot/internal/task"
	"notionbot/internal/textutil"
)

const (
	maxSummaryInput   = 12000
	maxTitleLen       = 80
	transcriptChunk   = 1900
	maxTranscriptPara = 70
	fallbackTitle     = "Аудио"
	summaryHeading    = "TLDR"
	transcriptHeading = "Transcript"
)

func (r *Router) createFromAudio(ctx context.Context, log *slog.Logger, in Inbound, src audioSource) error {
	fileURL, err := r.messenger.FileURL(ctx, src.fileID)
	if err != nil {
		return fmt.Errorf("resolve file url: %w", err)
	}
	if err := r.messenger.Send(ctx, in.ChatID, msgProcessing); err != nil {
		return fmt.Errorf("send processing notice: %w", err)
	}

	transcript, err := r.transcriber.Transcribe(ctx, fileURL, src.fileName, src.mime)
	if err != nil {
		return fmt.Errorf("transcribe %s: %w", src.fileName, err)
	}

	var sourceURL string
	u, hasURL := textutil.ExtractFirstURL(transcript)
	if hasURL {
		sourceURL = u.Normalized
	}

	summary, hasSummary := r.summarize(ctx, log, transcript)

	return r.commit(ctx, log, in, task.Task{
		Title:     audioTitle(transcript, summary, hasSummary),
		Author:    in.Username,
		SourceURL: sourceURL,
		Blocks:    audioBlocks(transcript, summary, hasSummary),
	})
}

// summarize never fails the message: any error means no summary.
func (r *Router) summarize(ctx context.Context, log *slog.Logger, transcript string) (summarize.Summary, bool) {
	if r.summarizer == nil {
		return summarize.Summary{}, false
	}
	s, err := r.summarizer.Summarize(ctx, textutil.Truncate(transcript, maxSummaryInput))
	if err != nil {
		log.Warn("summary unavailable, using transcript", "err", err)
		return summarize.Summary{}, false
	}
	if strings.TrimSpace(s.Title) == "" || len(s.Bullets) == 0 {
		log.Warn("summary incomplete, using transcript")
		return summarize.Summary{}, false
	}
	return s, true
}

// audioTitle prefers the summary title, then the transcript without its
// URL, then the URL, then the transcript. The result is at most 80 runes.
func audioTitle(transcript string, s summarize.Summary, hasSummary bool) string {
	var title string
	if hasSummary {
		title = s.Title
		if u, ok := textutil.ExtractFirstURL(title); ok {
			title = textutil.RemoveURL(title, u)
		}
		title = strings.TrimSpace(title)
	}
	if title == "" {
		title, _ = textTitle(transcript)
	}

	title = strings.TrimSpace(textutil.Truncate(strings.TrimSpace(title), maxTitleLen))
	if title == "" {
		return fallbackTitle
	}
	return title
}

func audioBlocks(transcript string, s summarize.Summary, hasSummary bool) []task.Block {
	chunks := textutil.Chunk(transcript, transcriptChunk)
	if len(chunks) > maxTranscriptPara {
		chunks = chunks[:maxTranscriptPara]
	}

	blocks := make([]task.Block, 0, len(chunks)+summarize.MaxBullets+3)
	if hasSummary && len(s.Bullets) > 0 {
		blocks = append(blocks, task.Block{Kind: task.Heading, Text: summaryHeading})
		for i, b := range s.Bullets {
			if i == summarize.MaxBullets {
				break
			}
			blocks = append(blocks, task.Block{Kind: task.Bullet, Text: b})
		}
	}
	blocks = append(blocks,
		task.Block{Kind: task.Divider},
		task.Block{Kind: task.Heading, Text: transcriptHeading},
	)
	for _, c := range chunks {
		blocks = append(blocks, task.Block{Kind: task.Paragraph, Text: c})
	}
	return blocks
}
