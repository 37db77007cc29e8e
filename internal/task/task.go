// Package task describes the record the bot writes to the task database.
package task

import "strings"

// BlockKind enumerates the content blocks a task page can carry.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	Bullet
	Divider
)

func (k BlockKind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case Heading:
		return "heading"
	case Bullet:
		return "bullet"
	case Divider:
		return "divider"
	default:
		return "unknown"
	}
}

// Block is one element of a task page body. Text is ignored for dividers.
type Block struct {
	Kind BlockKind
	Text string
}

// Task is created once per accepted chat message and never updated.
type Task struct {
	Title     string
	Author    string
	SourceURL string
	// Body is split into paragraphs by the repository when Blocks is empty.
	Body   string
	Blocks []Block
}

// Handle identifies a created task.
type Handle struct {
	ID string
}

// ReferenceID strips the separators from the record id so it can be used as
// a URL path segment.
func ReferenceID(h Handle) string {
	return strings.ReplaceAll(h.ID, "-", "")
}

// Link builds the deep link to a created task on host.
func Link(host string, h Handle) string {
	return "https://" + host + "/" + ReferenceID(h)
}
