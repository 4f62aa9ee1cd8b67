package model

import "time"

// Change action constants
const (
	ChangeAdd    = "add"
	ChangeRemove = "remove"
)

// Change is one audit record of a physical list mutation. Changes are
// written in the same transaction as the mutation they describe, so the
// audit trail can never disagree with the list. An update produces a
// remove row followed by an add row.
type Change struct {
	ID        string `json:"id"`
	Owner     string `json:"-"`
	Action    string `json:"action"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// NewChange creates an audit record for one mutation.
func NewChange(id, owner, action, content string) Change {
	return Change{
		ID:        id,
		Owner:     owner,
		Action:    action,
		Content:   content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}
