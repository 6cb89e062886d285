package kvstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/focusroom/internal/db"
)

// SQLiteStore implements Store on the kv_entries table.
type SQLiteStore struct {
	db  db.DBTX
	now func() time.Time
}

// NewSQLiteStore creates a Store backed by the given database handle.
func NewSQLiteStore(dbtx db.DBTX) *SQLiteStore {
	return &SQLiteStore{db: dbtx, now: time.Now}
}

// WithClock overrides the store's clock. Tests use this to step time across
// the TTL boundary without sleeping.
func (s *SQLiteStore) WithClock(now func() time.Time) *SQLiteStore {
	s.now = now
	return s
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var expiresAt sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM kv_entries WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading kv entry: %w", err)
	}

	if expiresAt.Valid {
		exp, parseErr := time.Parse(time.RFC3339Nano, expiresAt.String)
		if parseErr != nil || !s.now().Before(exp) {
			// Expired, or an unparseable timestamp from a corrupt row:
			// either way the entry reads as absent and is purged.
			if delErr := s.Delete(ctx, key); delErr != nil {
				return nil, false, delErr
			}
			return nil, false, nil
		}
	}

	return value, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt any
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_entries (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("writing kv entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting kv entry: %w", err)
	}
	return nil
}
