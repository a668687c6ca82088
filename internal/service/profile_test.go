package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/service"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 64)...)
)

func newProfileService(t *testing.T) (*testEnv, *service.ProfileService, *domain.User) {
	t.Helper()
	env := newTestEnv(t)
	user, _, err := env.auth.Register(context.Background(), validRegistration("profile@example.com"))
	require.NoError(t, err)
	svc := service.NewProfileService(env.db.Users(), env.db.Profiles(), env.db.Avatars(), env.remote)
	return env, svc, user
}

func profileForm() service.ProfileInput {
	return service.ProfileInput{
		FirstName:          "Ana",
		LastName:           "Pierre",
		Phone:              "+509 3456 7890",
		Country:            "Haiti",
		City:               "Port-au-Prince",
		Language:           "ht",
		Website:            "https://ana.example.com",
		Instagram:          "@ana",
		BusinessName:       "Ana Tours",
		EmailNotifications: true,
	}
}

func TestProfileService_Update(t *testing.T) {
	env, svc, user := newProfileService(t)
	ctx := context.Background()

	updated, profile, err := svc.Update(ctx, user.ID, profileForm(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Port-au-Prince", updated.City)
	assert.Equal(t, domain.LanguageHaitian, updated.Language)
	assert.Equal(t, "Ana Tours", profile.BusinessName)
	assert.False(t, profile.PushNotifications)

	stored, storedProfile, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "+509 3456 7890", stored.Phone)
	assert.Equal(t, "https://ana.example.com", storedProfile.Website)

	mirrored := env.remote.Profiles()[user.ID]
	assert.Equal(t, "Port-au-Prince", mirrored.City)
	assert.Equal(t, "ht", mirrored.Language)
	assert.NotEmpty(t, mirrored.UpdatedAt)
}

func TestProfileService_Update_MirrorFailureIsSilent(t *testing.T) {
	env, svc, user := newProfileService(t)
	env.remote.FailMirror = true

	_, _, err := svc.Update(context.Background(), user.ID, profileForm(), nil)
	assert.NoError(t, err)
}

func TestProfileService_Update_InvalidForm(t *testing.T) {
	env, svc, user := newProfileService(t)
	in := profileForm()
	in.Website = "nope"

	_, _, err := svc.Update(context.Background(), user.ID, in, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, env.remote.Calls("upsert_profile"), "only the registration mirror should have run")
}

func TestProfileService_Avatar(t *testing.T) {
	env, svc, user := newProfileService(t)
	ctx := context.Background()

	_, _, err := svc.Avatar(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first, _, err := svc.Update(ctx, user.ID, profileForm(), pngBytes)
	require.NoError(t, err)
	firstKey := first.Avatar
	require.NotEmpty(t, firstKey)

	data, contentType, err := svc.Avatar(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.True(t, bytes.Equal(pngBytes, data))

	second, _, err := svc.Update(ctx, user.ID, profileForm(), jpegBytes)
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, second.Avatar)
	_, err = env.db.Avatars().Get(ctx, firstKey)
	assert.ErrorIs(t, err, domain.ErrNotFound, "replaced avatar is removed")

	_, contentType, err = svc.Avatar(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestProfileService_Avatar_Rejected(t *testing.T) {
	_, svc, user := newProfileService(t)
	ctx := context.Background()

	_, _, err := svc.Update(ctx, user.ID, profileForm(), []byte("GIF89a not allowed"))
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "avatar")

	huge := append(append([]byte{}, pngBytes...), make([]byte, service.MaxAvatarSize)...)
	_, _, err = svc.Update(ctx, user.ID, profileForm(), huge)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "avatar")
}
