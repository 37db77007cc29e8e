// Package summarize turns a transcript into a short title and a bulleted
// summary with a language model.
package summarize

import (
	"encoding/json"
	"strings"

	"notionbot/internal/apperr"
)

// MaxBullets bounds the bullets kept from a model reply.
const MaxBullets = 7

// Summary is a validated model reply: Title is non-empty and Bullets holds
// between 1 and MaxBullets non-empty items.
type Summary struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

const systemPrompt = `Ты помощник, который делает краткие выжимки из расшифровок голосовых сообщений.
Отвечай только на русском языке и только JSON-объектом вида {"title": "...", "bullets": ["...", "..."]}.
title: короткий заголовок задачи, не длиннее 80 символов.
bullets: от 3 до 7 пунктов, каждый не длиннее 140 символов, только суть без воды.
Не добавляй никакого текста вне JSON.`

// Parse extracts a Summary from a model reply. The reply is parsed as JSON
// first; on failure the span between the first '{' and the last '}' is tried.
func Parse(service, reply string) (Summary, error) {
	var raw Summary
	if err := json.Unmarshal([]byte(cleanJSON(reply)), &raw); err != nil {
		start := strings.Index(reply, "{")
		end := strings.LastIndex(reply, "}")
		if start < 0 || end <= start {
			return Summary{}, &apperr.ValidationError{Service: service, Reason: "no JSON object"}
		}
		raw = Summary{}
		if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
			return Summary{}, &apperr.ValidationError{Service: service, Reason: "malformed JSON"}
		}
	}
	return validate(service, raw)
}

func validate(service string, raw Summary) (Summary, error) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return Summary{}, &apperr.ValidationError{Service: service, Reason: "empty title"}
	}

	bullets := make([]string, 0, len(raw.Bullets))
	for _, b := range raw.Bullets {
		if b = strings.TrimSpace(b); b != "" {
			bullets = append(bullets, b)
		}
		if len(bullets) == MaxBullets {
			break
		}
	}
	if len(bullets) == 0 {
		return Summary{}, &apperr.ValidationError{Service: service, Reason: "no bullets"}
	}
	return Summary{Title: title, Bullets: bullets}, nil
}

func cleanJSON(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
