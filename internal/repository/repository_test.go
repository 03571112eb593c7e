package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"mindbridge/internal/database"
	"mindbridge/internal/models"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))

	user, err := repo.CreateUser("kid@example.com", "hash", "Kid", 8)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.ID == 0 {
		t.Fatal("CreateUser() returned zero ID")
	}

	got, err := repo.GetUserByEmail("kid@example.com")
	if err != nil || got == nil {
		t.Fatalf("GetUserByEmail() = %v, %v", got, err)
	}
	if got.Age != 8 || got.Name != "Kid" {
		t.Errorf("GetUserByEmail() = %+v", got)
	}

	missing, err := repo.GetUserByEmail("nobody@example.com")
	if err != nil || missing != nil {
		t.Errorf("GetUserByEmail(missing) = %v, %v; want nil, nil", missing, err)
	}

	if _, err := repo.CreateUser("kid@example.com", "hash", "Twin", 8); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("CreateUser() with duplicate email error = %v, want ErrDuplicateEmail", err)
	}

	if err := repo.LinkOAuthProvider(user.ID, "google", "sub-1"); err != nil {
		t.Fatalf("LinkOAuthProvider() error = %v", err)
	}
	if err := repo.LinkOAuthProvider(user.ID, "google", "sub-2"); !errors.Is(err, ErrOAuthAlreadyLinked) {
		t.Errorf("second LinkOAuthProvider() error = %v, want ErrOAuthAlreadyLinked", err)
	}

	byOAuth, err := repo.GetUserByOAuth("google", "sub-1")
	if err != nil || byOAuth == nil || byOAuth.ID != user.ID {
		t.Errorf("GetUserByOAuth() = %v, %v", byOAuth, err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	user, err := repo.CreateUser("parent@example.com", "hash", "Parent", 10)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, err := repo.CreateSession("live", user.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateSession(live) error = %v", err)
	}
	if _, err := repo.CreateSession("stale", user.ID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("CreateSession(stale) error = %v", err)
	}

	session, err := repo.GetSession("live")
	if err != nil || session == nil {
		t.Fatalf("GetSession() = %v, %v", session, err)
	}
	if session.UserID != user.ID || session.IsExpired() {
		t.Errorf("GetSession() = %+v", session)
	}

	n, err := repo.DeleteExpiredSessions()
	if err != nil {
		t.Fatalf("DeleteExpiredSessions() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteExpiredSessions() removed %d, want 1", n)
	}

	if err := repo.DeleteSession("live"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if s, _ := repo.GetSession("live"); s != nil {
		t.Error("session should be gone after DeleteSession")
	}
}

func TestResultRepository(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	results := NewResultRepository(db)
	ctx := context.Background()

	user, err := users.CreateUser("ava@example.com", "hash", "Ava", 9)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	p := models.ParticipantFromUser(user)

	base := time.Now().UTC().Add(-time.Hour)
	for i, game := range []string{"Math World", "Shape Recognition", "Math World"} {
		rec := models.NewResultRecord(p, game, "easy", i+1, 30)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		id, err := results.SaveResult(ctx, rec)
		if err != nil {
			t.Fatalf("SaveResult() error = %v", err)
		}
		if id == "" {
			t.Error("SaveResult() returned empty id")
		}
	}

	guest := models.NewResultRecord(models.ParticipantFromUser(nil), "Math World", "hard", 4, 12)
	if _, err := results.SaveResult(ctx, guest); err != nil {
		t.Fatalf("SaveResult(guest) error = %v", err)
	}

	math, err := results.ListResults(ctx, "ava@example.com", "Math World", 0)
	if err != nil {
		t.Fatalf("ListResults() error = %v", err)
	}
	if len(math) != 2 {
		t.Fatalf("ListResults(Math World) returned %d, want 2", len(math))
	}
	if math[0].Score != 3 || math[1].Score != 1 {
		t.Errorf("results not newest first: scores %d, %d", math[0].Score, math[1].Score)
	}
	if math[0].UserID != user.ID || math[0].ParticipantAge != 9 {
		t.Errorf("ListResults() = %+v", math[0])
	}

	all, err := results.ListResults(ctx, "ava@example.com", "", 1)
	if err != nil {
		t.Fatalf("ListResults(limit 1) error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("ListResults(limit 1) returned %d", len(all))
	}

	everything, err := results.AllResults(ctx)
	if err != nil {
		t.Fatalf("AllResults() error = %v", err)
	}
	if len(everything) != 4 {
		t.Errorf("AllResults() returned %d, want 4", len(everything))
	}
	if everything[3].ParticipantName != "Guest" || everything[3].UserID != 0 {
		t.Errorf("guest result = %+v", everything[3])
	}
}

func TestResultRepositoryInTransaction(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	rec := models.NewResultRecord(models.ParticipantFromUser(nil), "Speech Therapy", "medium", 6, 40)
	if _, err := NewResultRepository(tx).SaveResult(ctx, rec); err != nil {
		t.Fatalf("SaveResult() in tx error = %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}

	all, err := NewResultRepository(db).AllResults(ctx)
	if err != nil {
		t.Fatalf("AllResults() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("rolled back insert is visible: %d rows", len(all))
	}
}
