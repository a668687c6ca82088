package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RemoteIdentity is what the hosted auth service returns for a signed-up or
// signed-in account.
type RemoteIdentity struct {
	ID          uuid.UUID
	Email       string
	AccessToken string // empty after sign-up when email confirmation is pending
}

// MirrorRecord is the denormalised user snapshot kept in the hosted
// user_profiles table. The local store stays authoritative for every field.
type MirrorRecord struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Country   string `json:"country"`
	City      string `json:"city"`
	Language  string `json:"language"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// NewMirrorRecord snapshots u without a timestamp.
func NewMirrorRecord(u *User) MirrorRecord {
	return MirrorRecord{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		Country:   u.Country,
		City:      u.City,
		Language:  string(u.Language),
	}
}

// WithCreatedAt stamps the record as a creation snapshot.
func (m MirrorRecord) WithCreatedAt(t time.Time) MirrorRecord {
	m.CreatedAt = t.UTC().Format(time.RFC3339)
	return m
}

// WithUpdatedAt stamps the record as an update snapshot.
func (m MirrorRecord) WithUpdatedAt(t time.Time) MirrorRecord {
	m.UpdatedAt = t.UTC().Format(time.RFC3339)
	return m
}

// IdentityProvider is the hosted auth API. Every failure is reported as a
// nil identity or false; callers never see the cause.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string, attributes map[string]any) *RemoteIdentity
	SignIn(ctx context.Context, email, password string) *RemoteIdentity
	ResetPasswordEmail(ctx context.Context, email string) bool
	UpdatePassword(ctx context.Context, accessToken, newPassword string) bool
}

// ProfileMirror is the hosted user_profiles table. UpsertProfile returns nil
// on any failure.
type ProfileMirror interface {
	UpsertProfile(ctx context.Context, record MirrorRecord) *MirrorRecord
	GetProfile(ctx context.Context, userID int64) *MirrorRecord
}
