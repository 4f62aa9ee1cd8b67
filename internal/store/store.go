package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yangwenmai/listdo/internal/model"
)

// Verify at compile time that Store implements all interfaces.
var (
	_ ItemReader   = (*Store)(nil)
	_ ChangeReader = (*Store)(nil)
	_ TxBeginner   = (*Store)(nil)
	_ Repository   = (*Store)(nil)
)

// Store provides data access to the SQLite database. All mutations go
// through a Tx so the executor can apply multi-step intents atomically.
type Store struct {
	db *sql.DB
}

// New creates a new Store and initialises the schema.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// currentSchemaVersion is bumped whenever the schema changes.
// Add a new migration function in the migrations slice below.
const currentSchemaVersion = 2

func (s *Store) migrate() error {
	// Ensure the schema_version table exists.
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		// Fresh database: initialize to version 0.
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("init schema version: %w", err)
		}
		version = 0
	} else if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	// migrations is an ordered list of migration functions.
	// Index 0 = migration from v0 to v1, etc.
	migrations := []func() error{
		s.migrateV1, // v0 → v1: initial schema
		s.migrateV2, // v1 → v2: add changes table
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](); err != nil {
			return fmt.Errorf("migration v%d→v%d: %w", i, i+1, err)
		}
		if _, err := s.db.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			return fmt.Errorf("update schema version to %d: %w", i+1, err)
		}
	}

	return nil
}

// migrateV1 creates the initial schema (v0 → v1).
func (s *Store) migrateV1() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id           TEXT PRIMARY KEY,
		owner        TEXT NOT NULL,
		content      TEXT NOT NULL,
		content_norm TEXT NOT NULL,
		created_at   TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_items_owner_norm ON items(owner, content_norm);
	CREATE INDEX IF NOT EXISTS idx_items_owner_created ON items(owner, created_at ASC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// migrateV2 adds the changes table recording every applied mutation (v1 → v2).
func (s *Store) migrateV2() error {
	schema := `
	CREATE TABLE IF NOT EXISTS changes (
		id         TEXT PRIMARY KEY,
		owner      TEXT NOT NULL,
		action     TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_changes_owner_created ON changes(owner, created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

// Tx is a write transaction scoped to the item list. Mutations made through
// it become visible to other readers only after Commit.
type Tx struct {
	tx *sql.Tx
}

// Begin starts a write transaction.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Commit makes the transaction's mutations durable.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback discards the transaction's mutations. Safe to call after Commit.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// ListItems returns the owner's items in insertion order as seen by this
// transaction, including rows inserted earlier in the same transaction.
func (t *Tx) ListItems(ctx context.Context, owner string) ([]model.Item, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT id, owner, content, created_at FROM items WHERE owner = ? ORDER BY created_at ASC, rowid ASC`, owner)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

// InsertItem stores a new item with the given content, assigning its id and
// creation time. Returns model.ErrDuplicateItem when the owner already has
// an item with the same normalized content.
func (t *Tx) InsertItem(ctx context.Context, owner, content string) (model.Item, error) {
	item := model.NewItem(uuid.New().String(), owner, content)
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO items (id, owner, content, content_norm, created_at) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.Owner, item.Content, model.Normalize(content), item.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return model.Item{}, fmt.Errorf("insert item: %w", model.ErrDuplicateItem)
		}
		return model.Item{}, fmt.Errorf("insert item: %w", err)
	}
	return item, nil
}

// DeleteItem removes the owner's item with the given id. The bool reports
// whether a row was actually deleted.
func (t *Tx) DeleteItem(ctx context.Context, owner, id string) (bool, error) {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM items WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordChange appends an audit row for a mutation applied in this transaction.
func (t *Tx) RecordChange(ctx context.Context, owner, action, content string) error {
	c := model.NewChange(uuid.New().String(), owner, action, content)
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO changes (id, owner, action, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Owner, c.Action, c.Content, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record change: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// ListItems returns the owner's items in insertion order.
func (s *Store) ListItems(ctx context.Context, owner string) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner, content, created_at FROM items WHERE owner = ? ORDER BY created_at ASC, rowid ASC`, owner)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

const (
	defaultChangeLimit = 50
	maxChangeLimit     = 200
)

// ListChanges returns the owner's most recent audit rows, newest first.
// A non-positive limit selects the default page size.
func (s *Store) ListChanges(ctx context.Context, owner string, limit int) ([]model.Change, error) {
	if limit <= 0 {
		limit = defaultChangeLimit
	}
	if limit > maxChangeLimit {
		limit = maxChangeLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner, action, content, created_at FROM changes WHERE owner = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		owner, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []model.Change
	for rows.Next() {
		var c model.Change
		if err := rows.Scan(&c.ID, &c.Owner, &c.Action, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func collectItems(rows *sql.Rows) ([]model.Item, error) {
	defer rows.Close()
	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Owner, &item.Content, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// isUniqueConstraintError reports whether err is a SQLite unique constraint
// violation. The driver does not expose a typed error for this, so match on
// the message.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
