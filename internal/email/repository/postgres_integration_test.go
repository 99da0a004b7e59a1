package repository

import (
	"fmt"
	"os"
	"testing"
	"time"

	emaildomain "inboxtriage-backend/internal/email/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB connects to the database named by TEST_DATABASE_URL and migrates
// the schema. Tests that need it are skipped when the variable is unset so the
// unit suite stays runnable without infrastructure.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.AutoMigrate(&emaildomain.Email{}, &emaildomain.EmailSync{}, &emaildomain.MeetingNote{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// testUserID returns a per-test user id so runs do not collide on shared
// tables, and registers cleanup of the rows it creates.
func testUserID(t *testing.T, db *gorm.DB) string {
	t.Helper()
	userID := fmt.Sprintf("%s-%d@test.local", t.Name(), time.Now().UnixNano())
	t.Cleanup(func() {
		db.Where("user_id = ?", userID).Delete(&emaildomain.Email{})
		db.Where("user_id = ?", userID).Delete(&emaildomain.MeetingNote{})
		db.Where("user_id = ?", userID).Delete(&emaildomain.EmailSync{})
	})
	return userID
}

func TestEmailInsertIfAbsentIdempotent(t *testing.T) {
	db := openTestDB(t)
	userID := testUserID(t, db)
	repo := NewEmailRepository(db)

	raw := emaildomain.RawMessage{
		ID:      userID + "-m1",
		Subject: "Kickoff",
		From:    "alice@example.com",
		Date:    "Mon, 02 Jan 2006 15:04:05 -0700",
		Snippet: "Kickoff Tuesday 10am",
	}

	first, err := repo.InsertIfAbsent(userID, raw)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}

	// Second insert with different field values must return the original
	// row unchanged.
	raw.Subject = "Kickoff (edited)"
	second, err := repo.InsertIfAbsent(userID, raw)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if second.Subject != first.Subject {
		t.Errorf("re-insert changed subject to %q", second.Subject)
	}

	var count int64
	db.Model(&emaildomain.Email{}).Where("user_id = ?", userID).Count(&count)
	if count != 1 {
		t.Errorf("row count = %d, want 1", count)
	}
}

func TestEmailListOrderNullsTrail(t *testing.T) {
	db := openTestDB(t)
	userID := testUserID(t, db)
	repo := NewEmailRepository(db)

	messages := []emaildomain.RawMessage{
		{ID: userID + "-old", Subject: "old", Date: "Mon, 02 Jan 2006 15:04:05 +0000"},
		{ID: userID + "-undated", Subject: "undated", Date: "not a date"},
		{ID: userID + "-new", Subject: "new", Date: "Wed, 04 Jan 2006 15:04:05 +0000"},
	}
	for _, raw := range messages {
		if _, err := repo.InsertIfAbsent(userID, raw); err != nil {
			t.Fatalf("insert %s: %v", raw.ID, err)
		}
	}

	listed, err := repo.List(userID, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("listed %d rows, want 3", len(listed))
	}
	if listed[0].Subject != "new" || listed[1].Subject != "old" || listed[2].Subject != "undated" {
		t.Errorf("order = [%s %s %s], want [new old undated]",
			listed[0].Subject, listed[1].Subject, listed[2].Subject)
	}

	limited, err := repo.List(userID, 2)
	if err != nil {
		t.Fatalf("list with limit: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited list returned %d rows, want 2", len(limited))
	}
}

func TestMeetingNoteUniquePerUserAndText(t *testing.T) {
	db := openTestDB(t)
	userID := testUserID(t, db)
	repo := NewMeetingNoteRepository(db)

	first, err := repo.InsertIfAbsent(userID, "Standup 9am")
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	second, err := repo.InsertIfAbsent(userID, "Standup 9am")
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("duplicate text created a new note %s (first %s)", second.ID, first.ID)
	}

	if _, err := repo.InsertIfAbsent(userID, "Retro Friday"); err != nil {
		t.Fatalf("distinct insert: %v", err)
	}

	notes, err := repo.List(userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("note count = %d, want 2", len(notes))
	}
}

func TestEmailSyncCheckpointUpsert(t *testing.T) {
	db := openTestDB(t)
	userID := testUserID(t, db)
	repo := NewEmailSyncRepository(db)

	got, err := repo.GetLastSync(userID)
	if err != nil {
		t.Fatalf("get before set: %v", err)
	}
	if got != nil {
		t.Fatalf("fresh user has checkpoint %v", got)
	}

	first := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.SetLastSync(userID, first); err != nil {
		t.Fatalf("first set: %v", err)
	}
	got, err = repo.GetLastSync(userID)
	if err != nil {
		t.Fatalf("get after set: %v", err)
	}
	if got == nil || !got.Equal(first) {
		t.Errorf("checkpoint = %v, want %v", got, first)
	}

	second := first.Add(time.Hour)
	if err := repo.SetLastSync(userID, second); err != nil {
		t.Fatalf("second set: %v", err)
	}
	got, err = repo.GetLastSync(userID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got == nil || !got.Equal(second) {
		t.Errorf("checkpoint = %v, want %v", got, second)
	}

	var count int64
	db.Model(&emaildomain.EmailSync{}).Where("user_id = ?", userID).Count(&count)
	if count != 1 {
		t.Errorf("checkpoint rows = %d, want 1", count)
	}
}
