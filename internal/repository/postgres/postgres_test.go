package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/repository/postgres"
)

// newTestDB connects to TINGGO_TEST_POSTGRES_URL and starts from empty tables.
func newTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	url := os.Getenv("TINGGO_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TINGGO_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()
	db, err := postgres.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(ctx))
	_, err = db.Pool.Exec(ctx, `TRUNCATE users, user_profiles, avatars RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func TestUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := db.Users()

	u := &domain.User{AuthID: uuid.New(), Email: "pg@example.com", FirstName: "Rose", IsActive: true, PasswordHash: "h"}
	require.NoError(t, users.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.Equal(t, domain.RoleParticipant, u.Role)

	dup := &domain.User{AuthID: uuid.New(), Email: "pg@example.com", PasswordHash: "h"}
	assert.ErrorIs(t, users.Create(ctx, dup), domain.ErrDuplicateEmail)

	got, err := users.GetByEmail(ctx, "pg@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.AuthID, got.AuthID)

	got.City = "Jacmel"
	require.NoError(t, users.Update(ctx, got))
	require.NoError(t, users.UpdatePassword(ctx, got.ID, "h2"))

	again, err := users.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jacmel", again.City)
	assert.Equal(t, "h2", again.PasswordHash)

	_, err = users.GetByID(ctx, 999999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := users.CountByRole(ctx, domain.RoleParticipant)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProfilesAndFiles(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := &domain.User{AuthID: uuid.New(), Email: "p@example.com", IsActive: true, PasswordHash: "h"}
	require.NoError(t, db.Users().Create(ctx, u))

	p := domain.NewUserProfile(u.ID)
	require.NoError(t, db.Profiles().Create(ctx, p))
	p.Instagram = "@tinggo"
	require.NoError(t, db.Profiles().Update(ctx, p))

	got, err := db.Profiles().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "@tinggo", got.Instagram)
	assert.True(t, got.EmailNotifications)

	avatars := db.Avatars()
	require.NoError(t, avatars.Put(ctx, &domain.StoredAvatar{Key: "avatars/k", ContentType: "image/png", Data: []byte("img")}))
	stored, err := avatars.Get(ctx, "avatars/k")
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), stored.Data)
	assert.Equal(t, "image/png", stored.ContentType)
	require.NoError(t, avatars.Delete(ctx, "avatars/k"))
	_, err = avatars.Get(ctx, "avatars/k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, avatars.Delete(ctx, "avatars/k"), domain.ErrNotFound)
}

func TestUsers_EmailIgnoresCase(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := db.Users()

	u := &domain.User{AuthID: uuid.New(), Email: "ana@example.com", IsActive: true, PasswordHash: "h"}
	require.NoError(t, users.Create(ctx, u))

	got, err := users.GetByEmail(ctx, "Ana@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	dup := &domain.User{AuthID: uuid.New(), Email: "ANA@example.com", PasswordHash: "h"}
	assert.ErrorIs(t, users.Create(ctx, dup), domain.ErrDuplicateEmail)
}

func TestUsers_WithProfileIsAtomic(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := db.Users()

	u := &domain.User{AuthID: uuid.New(), Email: "tx@example.com", FirstName: "Rose", IsActive: true, PasswordHash: "h"}
	p := domain.NewUserProfile(0)
	require.NoError(t, users.CreateWithProfile(ctx, u, p))
	assert.NotZero(t, u.ID)
	assert.Equal(t, u.ID, p.UserID)

	// A profile row pointing at a missing user makes the second write fail.
	u.FirstName = "Changed"
	orphan := *p
	orphan.UserID = 999999
	assert.ErrorIs(t, users.UpdateWithProfile(ctx, u, &orphan), domain.ErrNotFound)

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rose", got.FirstName)
}
