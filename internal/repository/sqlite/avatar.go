package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tinggo/tinggo/internal/domain"
)

// AvatarStore keeps avatar images as BLOBs next to the user rows.
type AvatarStore struct {
	db *sql.DB
}

// NewAvatarStore creates a new AvatarStore.
func NewAvatarStore(db *DB) *AvatarStore {
	return &AvatarStore{db: db.SqlDB}
}

// Put stores a, replacing any image already saved under a.Key.
func (s *AvatarStore) Put(ctx context.Context, a *domain.StoredAvatar) error {
	a.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO avatars (storage_key, content_type, size, data, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(storage_key) DO UPDATE SET
			content_type = excluded.content_type, size = excluded.size,
			data = excluded.data, created_at = excluded.created_at`,
		a.Key, a.ContentType, len(a.Data), a.Data, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("put avatar %s: %w", a.Key, err)
	}
	return nil
}

func (s *AvatarStore) Get(ctx context.Context, key string) (*domain.StoredAvatar, error) {
	a := &domain.StoredAvatar{Key: key}
	err := s.db.QueryRowContext(ctx,
		`SELECT content_type, data, created_at FROM avatars WHERE storage_key = ?`, key,
	).Scan(&a.ContentType, &a.Data, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get avatar %s: %w", key, err)
	}
	return a, nil
}

func (s *AvatarStore) Delete(ctx context.Context, key string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM avatars WHERE storage_key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete avatar %s: %w", key, err)
	}
	return expectOneRow(result)
}
