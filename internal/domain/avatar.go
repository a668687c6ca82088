package domain

import (
	"context"
	"time"
)

// StoredAvatar is an uploaded profile picture. ContentType is detected from
// the bytes at upload time, never taken from the client.
type StoredAvatar struct {
	Key         string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// AvatarStore keeps avatar images by storage key. Users reference their
// current image through User.Avatar.
type AvatarStore interface {
	Put(ctx context.Context, a *StoredAvatar) error
	Get(ctx context.Context, key string) (*StoredAvatar, error)
	// Delete returns ErrNotFound when key is unknown.
	Delete(ctx context.Context, key string) error
}
