package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/repository/sqlite"
)

func TestProfileRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	users := sqlite.NewUserRepository(db)
	profiles := sqlite.NewProfileRepository(db)
	ctx := context.Background()

	user := newUser("profile@example.com", domain.RoleVendor)
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("Create user: %v", err)
	}

	if err := profiles.Create(ctx, domain.NewUserProfile(user.ID)); err != nil {
		t.Fatalf("Create profile: %v", err)
	}

	p, err := profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if !p.EmailNotifications || !p.PushNotifications {
		t.Fatal("expected notifications enabled by default")
	}
	if p.Website != "" || p.BusinessName != "" {
		t.Fatal("expected empty profile fields")
	}

	if err := profiles.Create(ctx, domain.NewUserProfile(user.ID)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected second profile to be rejected, got %v", err)
	}
}

func TestProfileRepository_Update(t *testing.T) {
	db := newTestDB(t)
	users := sqlite.NewUserRepository(db)
	profiles := sqlite.NewProfileRepository(db)
	ctx := context.Background()

	user := newUser("biz@example.com", domain.RoleVendor)
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	p := domain.NewUserProfile(user.ID)
	if err := profiles.Create(ctx, p); err != nil {
		t.Fatalf("Create profile: %v", err)
	}

	p.Website = "https://griyo.example.com"
	p.BusinessName = "Griyo Express"
	p.PushNotifications = false
	if err := profiles.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.BusinessName != "Griyo Express" || got.Website != "https://griyo.example.com" {
		t.Fatalf("profile not updated: %+v", got)
	}
	if got.PushNotifications {
		t.Fatal("expected push notifications disabled")
	}
}

func TestProfileRepository_GetByUserID_NotFound(t *testing.T) {
	db := newTestDB(t)
	profiles := sqlite.NewProfileRepository(db)

	_, err := profiles.GetByUserID(context.Background(), 12345)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
