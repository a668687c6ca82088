package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/repository/sqlite"
)

var _ domain.Database = (*sqlite.DB)(nil)

func TestNew_Pragmas(t *testing.T) {
	db, err := sqlite.New(filepath.Join(t.TempDir(), "pragmas.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()

	var journal string
	var foreignKeys int
	if err := db.SqlDB.QueryRow("PRAGMA journal_mode").Scan(&journal); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if err := db.SqlDB.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		t.Fatalf("foreign_keys: %v", err)
	}
	if journal != "wal" || foreignKeys != 1 {
		t.Fatalf("expected wal with foreign keys, got journal=%s foreign_keys=%d", journal, foreignKeys)
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestMigrate_RecordsEveryFile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// newTestDB already migrated once.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var files []string
	rows, err := db.SqlDB.QueryContext(ctx, "SELECT filename FROM schema_migrations ORDER BY filename")
	if err != nil {
		t.Fatalf("query schema_migrations: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			t.Fatalf("scan: %v", err)
		}
		files = append(files, f)
	}

	want := []string{"001_users.sql", "002_user_profiles.sql", "003_avatars.sql", "004_users_email_nocase.sql"}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, files)
		}
	}
}

func TestAvatarStore(t *testing.T) {
	avatars := newTestDB(t).Avatars()
	ctx := context.Background()

	a := &domain.StoredAvatar{Key: "avatars/a", ContentType: "image/png", Data: []byte("\x89PNG first")}
	if err := avatars.Put(ctx, a); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if a.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	// Same key replaces the image.
	if err := avatars.Put(ctx, &domain.StoredAvatar{Key: "avatars/a", ContentType: "image/jpeg", Data: []byte("\xff\xd8\xff")}); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	got, err := avatars.Get(ctx, "avatars/a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ContentType != "image/jpeg" || string(got.Data) != "\xff\xd8\xff" {
		t.Fatalf("expected replaced jpeg, got %s %q", got.ContentType, got.Data)
	}

	if err := avatars.Delete(ctx, "avatars/a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := avatars.Get(ctx, "avatars/a"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := avatars.Delete(ctx, "avatars/a"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}
