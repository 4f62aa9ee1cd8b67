package store

import (
	"context"

	"github.com/yangwenmai/listdo/internal/model"
)

// ItemReader provides read access to items.
type ItemReader interface {
	ListItems(ctx context.Context, owner string) ([]model.Item, error)
}

// ChangeReader provides read access to the mutation audit trail.
type ChangeReader interface {
	ListChanges(ctx context.Context, owner string, limit int) ([]model.Change, error)
}

// TxBeginner opens the write transaction the executor applies intents in.
type TxBeginner interface {
	Begin(ctx context.Context) (*Tx, error)
}

// Repository combines the read operations the API layer needs.
type Repository interface {
	ItemReader
	ChangeReader
}
