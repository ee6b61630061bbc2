package repositories

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/convocatorias/portal/internal/app/migrations"
	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/db"
	"github.com/convocatorias/portal/internal/pkg/apperrors"
)

func TestMemoryPreferenceRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPreferenceRepository()

	got, err := repo.Get(ctx, "nobody")
	if err != nil || len(got) != 0 {
		t.Fatalf("Get unknown owner = %v, %v", got, err)
	}

	_ = repo.Set(ctx, "client-1", "fontSize", "18")
	_ = repo.Set(ctx, "client-1", "darkMode", "true")
	_ = repo.Set(ctx, "client-2", "fontSize", "10")

	got, _ = repo.Get(ctx, "client-1")
	if got["fontSize"] != "18" || got["darkMode"] != "true" {
		t.Errorf("client-1 = %v", got)
	}

	// Returned maps are copies
	got["fontSize"] = "99"
	again, _ := repo.Get(ctx, "client-1")
	if again["fontSize"] != "18" {
		t.Error("Get leaked internal map")
	}
}

func TestResetTokenRepository(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	repo := NewResetTokenRepository(time.Hour)
	repo.now = func() time.Time { return now }

	first, _ := repo.Create("u1")
	second, expiresAt := repo.Create("u1")
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("expiresAt = %s", expiresAt)
	}

	if _, err := repo.Consume(first); !errors.Is(err, apperrors.ErrInvalidPasswordResetToken) {
		t.Errorf("revoked token accepted: %v", err)
	}

	user, err := repo.Consume(second)
	if err != nil || user != "u1" {
		t.Fatalf("Consume = %q, %v", user, err)
	}
	if _, err := repo.Consume(second); err == nil {
		t.Error("token reused")
	}

	expired, _ := repo.Create("u2")
	now = now.Add(2 * time.Hour)
	if _, err := repo.Consume(expired); err == nil {
		t.Error("expired token accepted")
	}

	repo.Create("u3")
	now = now.Add(2 * time.Hour)
	if n := repo.PurgeExpired(); n != 1 {
		t.Errorf("purged %d, want 1", n)
	}
}

// Requires DATABASE_URL pointing at a disposable database.
func TestRecordRepositoryPostgres(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	database, err := db.NewPostgresDBFromURL(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	if _, err := migrations.NewMigrator(database.Pool).Migrate(ctx, migrations.Files()); err != nil {
		t.Fatal(err)
	}
	_, _ = database.Pool.Exec(ctx, `DELETE FROM records WHERE resource = 'test-departments'`)

	repo := NewRecordRepository[models.Department](database, "test-departments")
	if err := repo.SaveAll(ctx, []models.Department{{ID: "1", Name: "Antioquia"}, {ID: "2", Name: "Valle"}}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, models.Department{ID: "1", Name: "Antioquia (editado)"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, "2"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, "missing"); err != nil {
		t.Fatalf("deleting a missing record: %v", err)
	}

	items, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Name != "Antioquia (editado)" {
		t.Errorf("items = %+v", items)
	}

	prefs := NewPostgresPreferenceRepository(database.Pool)
	if err := prefs.Set(ctx, "test-owner", "fontSize", "20"); err != nil {
		t.Fatal(err)
	}
	got, err := prefs.Get(ctx, "test-owner")
	if err != nil || got["fontSize"] != "20" {
		t.Errorf("prefs = %v, %v", got, err)
	}
}
