package domain

import (
	"context"
	"time"
)

// UserProfile holds optional, secondary attributes of a user.
// There is exactly one per user and it is removed together with the user.
type UserProfile struct {
	ID                  int64
	UserID              int64
	Website             string
	Instagram           string
	Facebook            string
	Twitter             string
	BusinessName        string
	BusinessDescription string
	EmailNotifications  bool
	PushNotifications   bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewUserProfile returns the empty profile created alongside a new user.
func NewUserProfile(userID int64) *UserProfile {
	return &UserProfile{
		UserID:             userID,
		EmailNotifications: true,
		PushNotifications:  true,
	}
}

// UserProfileRepository defines persistence operations for user profiles.
type UserProfileRepository interface {
	Create(ctx context.Context, profile *UserProfile) error
	GetByUserID(ctx context.Context, userID int64) (*UserProfile, error)
	Update(ctx context.Context, profile *UserProfile) error
}
