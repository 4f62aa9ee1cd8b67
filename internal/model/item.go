package model

import (
	"regexp"
	"strings"
	"time"
)

// Item represents a single entry on a user's list.
// Content keeps the casing the user typed; uniqueness checks always go
// through Normalize.
type Item struct {
	ID        string `json:"id"`
	Owner     string `json:"-"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// NewItem creates a new Item owned by owner.
func NewItem(id, owner, content string) Item {
	return Item{
		ID:        id,
		Owner:     owner,
		Content:   content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize canonicalizes item text for comparison: trim, lowercase,
// collapse internal whitespace runs to single spaces. The stored content
// is never rewritten by normalization.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return whitespaceRun.ReplaceAllString(s, " ")
}

// Contents projects a slice of items onto their content strings,
// preserving order.
func Contents(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Content)
	}
	return out
}
