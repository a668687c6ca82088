package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/i18n"
)

// MaxAvatarSize is the largest accepted avatar upload.
const MaxAvatarSize = 5 * 1024 * 1024

// ProfileService reads and edits a user's own profile and avatar.
type ProfileService struct {
	users    domain.UserRepository
	profiles domain.UserProfileRepository
	avatars  domain.AvatarStore
	mirror   domain.ProfileMirror
}

// NewProfileService creates a new ProfileService.
func NewProfileService(users domain.UserRepository, profiles domain.UserProfileRepository, avatars domain.AvatarStore, mirror domain.ProfileMirror) *ProfileService {
	return &ProfileService{users: users, profiles: profiles, avatars: avatars, mirror: mirror}
}

// Get returns the user and its profile, creating the profile when an older
// account has none.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*domain.User, *domain.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	profile, err := s.profileFor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// Update validates and stores the profile form. User and profile rows are
// written in one transaction. avatar is the uploaded image or nil to keep
// the current one. The hosted mirror is refreshed afterwards and its failure
// is only logged.
func (s *ProfileService) Update(ctx context.Context, userID int64, in ProfileInput, avatar []byte) (*domain.User, *domain.UserProfile, error) {
	if err := ValidateProfile(&in); err != nil {
		return nil, nil, err
	}
	var contentType string
	if avatar != nil {
		var err error
		if contentType, err = validateAvatar(avatar); err != nil {
			return nil, nil, err
		}
	}

	user, profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	oldAvatar := user.Avatar
	if avatar != nil {
		stored := &domain.StoredAvatar{Key: "avatars/" + uuid.NewString(), ContentType: contentType, Data: avatar}
		if err := s.avatars.Put(ctx, stored); err != nil {
			return nil, nil, fmt.Errorf("save avatar: %w", err)
		}
		user.Avatar = stored.Key
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Phone = in.Phone
	user.Bio = in.Bio
	user.Country = in.Country
	user.City = in.City
	user.Language = domain.Language(in.Language)
	profile.Website = in.Website
	profile.Instagram = in.Instagram
	profile.Facebook = in.Facebook
	profile.Twitter = in.Twitter
	profile.BusinessName = in.BusinessName
	profile.BusinessDescription = in.BusinessDescription
	profile.EmailNotifications = in.EmailNotifications
	profile.PushNotifications = in.PushNotifications
	if err := s.users.UpdateWithProfile(ctx, user, profile); err != nil {
		if avatar != nil {
			s.dropAvatar(ctx, user.Avatar)
		}
		return nil, nil, fmt.Errorf("update profile: %w", err)
	}

	if avatar != nil && oldAvatar != "" {
		s.dropAvatar(ctx, oldAvatar)
	}

	if s.mirror.UpsertProfile(ctx, domain.NewMirrorRecord(user).WithUpdatedAt(user.UpdatedAt)) == nil {
		log.Ctx(ctx).Warn().Int64("user_id", user.ID).Msg("profile mirror not written after update")
	}

	return user, profile, nil
}

// Avatar returns the avatar bytes of userID and their content type.
func (s *ProfileService) Avatar(ctx context.Context, userID int64) ([]byte, string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("get user: %w", err)
	}
	if user.Avatar == "" {
		return nil, "", domain.ErrNotFound
	}
	stored, err := s.avatars.Get(ctx, user.Avatar)
	if err != nil {
		return nil, "", fmt.Errorf("get avatar: %w", err)
	}
	return stored.Data, stored.ContentType, nil
}

func (s *ProfileService) profileFor(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	profile = domain.NewUserProfile(userID)
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// dropAvatar removes a stored image, logging rather than failing.
func (s *ProfileService) dropAvatar(ctx context.Context, key string) {
	if err := s.avatars.Delete(ctx, key); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("avatar cleanup failed")
	}
}

// validateAvatar accepts JPEG and PNG images up to MaxAvatarSize, judged by
// their bytes rather than the client's declared type, and returns that type.
func validateAvatar(data []byte) (string, error) {
	if len(data) > MaxAvatarSize {
		return "", fieldError("avatar", FieldError{Msg: i18n.MsgAvatarSize})
	}
	switch ct := http.DetectContentType(data); ct {
	case "image/jpeg", "image/png":
		return ct, nil
	}
	return "", fieldError("avatar", FieldError{Msg: i18n.MsgAvatarType})
}
