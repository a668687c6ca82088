package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tinggo/tinggo/internal/domain"
)

type avatarStore struct {
	pool *pgxpool.Pool
}

func (s *avatarStore) Put(ctx context.Context, a *domain.StoredAvatar) error {
	a.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO avatars (storage_key, content_type, size, data, created_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (storage_key) DO UPDATE SET
			content_type = EXCLUDED.content_type, size = EXCLUDED.size,
			data = EXCLUDED.data, created_at = EXCLUDED.created_at`,
		a.Key, a.ContentType, len(a.Data), a.Data, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("put avatar %s: %w", a.Key, err)
	}
	return nil
}

func (s *avatarStore) Get(ctx context.Context, key string) (*domain.StoredAvatar, error) {
	a := &domain.StoredAvatar{Key: key}
	err := s.pool.QueryRow(ctx,
		`SELECT content_type, data, created_at FROM avatars WHERE storage_key = $1`, key,
	).Scan(&a.ContentType, &a.Data, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get avatar %s: %w", key, notFound(err))
	}
	return a, nil
}

func (s *avatarStore) Delete(ctx context.Context, key string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM avatars WHERE storage_key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete avatar %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
