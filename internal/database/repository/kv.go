package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultHistory is how many past revisions are kept per key.
const DefaultHistory = 20

// KVRepo handles the key-value table and its revision history.
type KVRepo struct {
	db   *sql.DB
	keep int
	now  func() time.Time
}

func NewKVRepo(db *sql.DB) *KVRepo {
	return &KVRepo{
		db:   db,
		keep: DefaultHistory,
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// KeepHistory changes how many revisions Put retains. n < 1 keeps one.
func (r *KVRepo) KeepHistory(n int) *KVRepo {
	if n < 1 {
		n = 1
	}
	r.keep = n
	return r
}

func (r *KVRepo) Get(ctx context.Context, key string) (Entry, error) {
	var e Entry
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT key, value, revision, updated_at FROM kv WHERE key = ?`, key).
		Scan(&e.Key, &value, &e.Revision, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	e.Value = []byte(value)
	return e, nil
}

// Put replaces the value of key and records it in history, pruning old
// revisions, all in one transaction.
func (r *KVRepo) Put(ctx context.Context, key string, value []byte) (Entry, error) {
	e := Entry{Key: key, Value: value, Revision: uuid.NewString(), UpdatedAt: r.now()}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO kv(key, value, revision, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
	 value=excluded.value,
	 revision=excluded.revision,
	 updated_at=excluded.updated_at;
	`, e.Key, string(e.Value), e.Revision, e.UpdatedAt); err != nil {
		return Entry{}, fmt.Errorf("upsert %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, `
	INSERT INTO kv_history(key, value, revision, created_at) VALUES (?, ?, ?, ?)
	`, e.Key, string(e.Value), e.Revision, e.UpdatedAt); err != nil {
		return Entry{}, fmt.Errorf("history %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, `
	DELETE FROM kv_history
	WHERE key = ? AND id NOT IN (
	 SELECT id FROM kv_history WHERE key = ? ORDER BY id DESC LIMIT ?
	)`, key, key, r.keep); err != nil {
		return Entry{}, fmt.Errorf("prune %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// History lists saved revisions of key, newest first.
func (r *KVRepo) History(ctx context.Context, key string, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = r.keep
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, key, value, revision, created_at FROM kv_history
	WHERE key = ? ORDER BY id DESC LIMIT ?`, key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Revision
	for rows.Next() {
		var rev Revision
		var value string
		if err := rows.Scan(&rev.ID, &rev.Key, &value, &rev.Revision, &rev.CreatedAt); err != nil {
			return nil, err
		}
		rev.Value = []byte(value)
		out = append(out, rev)
	}
	return out, rows.Err()
}

// Revision loads one historical value by its revision id.
func (r *KVRepo) Revision(ctx context.Context, key, revision string) (Revision, error) {
	var rev Revision
	var value string
	err := r.db.QueryRowContext(ctx, `
	SELECT id, key, value, revision, created_at FROM kv_history
	WHERE key = ? AND revision = ?`, key, revision).
		Scan(&rev.ID, &rev.Key, &value, &rev.Revision, &rev.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, ErrNotFound
	}
	if err != nil {
		return Revision{}, err
	}
	rev.Value = []byte(value)
	return rev, nil
}
