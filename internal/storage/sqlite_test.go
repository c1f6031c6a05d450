// ABOUTME: Tests for SQLite storage implementation
// ABOUTME: Covers all repository interface methods with real database

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harper/slm/internal/models"
)

// testDB creates a temporary database for testing.
func testDB(t *testing.T) *SQLiteDB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func testAttempt(name string, scoredAt time.Time) *models.Attempt {
	line := models.TargetLine{
		Start: models.GeoPoint{Latitude: 52.606, Longitude: -1.91787},
		End:   models.GeoPoint{Latitude: 52.6123, Longitude: -1.65905},
	}
	a := models.NewAttempt(name, line)
	a.Source = name + ".gpx"
	a.PointCount = 3
	a.LineLength = 17525.9
	a.TrackLength = 18012.4
	a.MaxDeviation = 101.3
	a.Medal = "NONE"
	a.Scores["PRO"] = 12.5
	a.Scores["AMATEUR"] = 40
	a.Scores["NEWBIE"] = 75.25
	a.ScoredAt = scoredAt.UTC()
	return a
}

func testTrack() models.Track {
	return models.Track{
		{Latitude: 52.606, Longitude: -1.91787},
		{Latitude: 52.609, Longitude: -1.8},
		{Latitude: 52.6123, Longitude: -1.65905},
	}
}

func TestNewSQLiteDB(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if db.Path() != dbPath {
		t.Errorf("got path %s, want %s", db.Path(), dbPath)
	}
}

func TestNewSQLiteDB_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "nested", "path")
	dbPath := filepath.Join(nestedDir, "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(nestedDir); os.IsNotExist(err) {
		t.Error("nested directory was not created")
	}
}

func TestCreateAttempt(t *testing.T) {
	db := testDB(t)

	a := testAttempt("drive", time.Now())
	if err := db.CreateAttempt(a, testTrack()); err != nil {
		t.Fatalf("failed to create attempt: %v", err)
	}

	got, err := db.GetAttempt(a.ID)
	if err != nil {
		t.Fatalf("failed to get attempt: %v", err)
	}
	if got.ID != a.ID || got.Name != "drive" || got.Source != "drive.gpx" {
		t.Errorf("unexpected attempt %+v", got)
	}
	if got.Line != a.Line {
		t.Errorf("got line %+v, want %+v", got.Line, a.Line)
	}
	if got.PointCount != 3 || got.MaxDeviation != 101.3 || got.Medal != "NONE" {
		t.Errorf("unexpected summary %+v", got)
	}
	if len(got.Scores) != 3 || got.Scores["NEWBIE"] != 75.25 {
		t.Errorf("unexpected scores %v", got.Scores)
	}
	if !got.ScoredAt.Equal(a.ScoredAt) {
		t.Errorf("got scored_at %v, want %v", got.ScoredAt, a.ScoredAt)
	}
}

func TestCreateAttempt_InvalidName(t *testing.T) {
	db := testDB(t)

	a := testAttempt("  ", time.Now())
	if err := db.CreateAttempt(a, nil); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestCreateAttempt_DuplicateID(t *testing.T) {
	db := testDB(t)

	a := testAttempt("drive", time.Now())
	if err := db.CreateAttempt(a, testTrack()); err != nil {
		t.Fatalf("failed to create attempt: %v", err)
	}
	if err := db.CreateAttempt(a, testTrack()); err == nil {
		t.Error("expected error for duplicate ID")
	}

	// The failed insert must not leave partial points behind.
	track, err := db.GetTrack(a.ID)
	if err != nil {
		t.Fatalf("failed to get track: %v", err)
	}
	if len(track) != 3 {
		t.Errorf("got %d points, want 3", len(track))
	}
}

func TestGetAttempt_NotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.GetAttempt(uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
}

func TestGetAttemptByName(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	older := testAttempt("drive", now.Add(-time.Hour))
	newer := testAttempt("drive", now)
	other := testAttempt("walk", now.Add(time.Hour))
	for _, a := range []*models.Attempt{older, newer, other} {
		if err := db.CreateAttempt(a, nil); err != nil {
			t.Fatalf("failed to create attempt: %v", err)
		}
	}

	got, err := db.GetAttemptByName("drive")
	if err != nil {
		t.Fatalf("failed to get attempt: %v", err)
	}
	if got.ID != newer.ID {
		t.Errorf("expected the latest attempt, got %s", got.ID)
	}

	_, err = db.GetAttemptByName("swim")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
}

func TestListAttempts(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	names := []string{"first", "second", "third"}
	for i, name := range names {
		a := testAttempt(name, now.Add(time.Duration(i)*time.Minute))
		if err := db.CreateAttempt(a, nil); err != nil {
			t.Fatalf("failed to create attempt: %v", err)
		}
	}

	attempts, err := db.ListAttempts()
	if err != nil {
		t.Fatalf("failed to list attempts: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("got %d attempts, want 3", len(attempts))
	}

	expected := []string{"third", "second", "first"}
	for i, a := range attempts {
		if a.Name != expected[i] {
			t.Errorf("attempt %d: got %s, want %s", i, a.Name, expected[i])
		}
		if len(a.Scores) != 3 {
			t.Errorf("attempt %d: scores not loaded", i)
		}
	}
}

func TestListAttempts_Empty(t *testing.T) {
	db := testDB(t)

	attempts, err := db.ListAttempts()
	if err != nil {
		t.Fatalf("failed to list attempts: %v", err)
	}
	if len(attempts) != 0 {
		t.Errorf("got %d attempts, want 0", len(attempts))
	}
}

func TestListAttemptsSince(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	old := testAttempt("old", now.Add(-48*time.Hour))
	recent := testAttempt("recent", now.Add(-time.Hour))
	for _, a := range []*models.Attempt{old, recent} {
		if err := db.CreateAttempt(a, nil); err != nil {
			t.Fatalf("failed to create attempt: %v", err)
		}
	}

	attempts, err := db.ListAttemptsSince(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("failed to list attempts: %v", err)
	}
	if len(attempts) != 1 || attempts[0].Name != "recent" {
		t.Errorf("expected only the recent attempt, got %d", len(attempts))
	}
}

func TestGetTrack(t *testing.T) {
	db := testDB(t)

	a := testAttempt("drive", time.Now())
	if err := db.CreateAttempt(a, testTrack()); err != nil {
		t.Fatalf("failed to create attempt: %v", err)
	}

	track, err := db.GetTrack(a.ID)
	if err != nil {
		t.Fatalf("failed to get track: %v", err)
	}
	want := testTrack()
	if len(track) != len(want) {
		t.Fatalf("got %d points, want %d", len(track), len(want))
	}
	for i := range want {
		if !track[i].Equal(want[i]) {
			t.Errorf("point %d: got %v, want %v", i, track[i], want[i])
		}
	}
}

func TestGetTrack_NotSaved(t *testing.T) {
	db := testDB(t)

	a := testAttempt("drive", time.Now())
	if err := db.CreateAttempt(a, nil); err != nil {
		t.Fatalf("failed to create attempt: %v", err)
	}

	_, err := db.GetTrack(a.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
}

func TestDeleteAttempt_Cascades(t *testing.T) {
	db := testDB(t)

	a := testAttempt("drive", time.Now())
	if err := db.CreateAttempt(a, testTrack()); err != nil {
		t.Fatalf("failed to create attempt: %v", err)
	}

	if err := db.DeleteAttempt(a.ID); err != nil {
		t.Fatalf("failed to delete attempt: %v", err)
	}

	_, err := db.GetAttempt(a.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
	_, err = db.GetTrack(a.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound for cascaded track", err)
	}

	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM attempt_scores").Scan(&n); err != nil {
		t.Fatalf("count scores: %v", err)
	}
	if n != 0 {
		t.Errorf("got %d orphaned scores", n)
	}
}

func TestDeleteAttempt_NotFound(t *testing.T) {
	db := testDB(t)

	if err := db.DeleteAttempt(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
}

func TestReset(t *testing.T) {
	db := testDB(t)

	a := testAttempt("drive", time.Now())
	if err := db.CreateAttempt(a, testTrack()); err != nil {
		t.Fatalf("failed to create attempt: %v", err)
	}

	if err := db.Reset(); err != nil {
		t.Fatalf("failed to reset: %v", err)
	}

	attempts, err := db.ListAttempts()
	if err != nil {
		t.Fatalf("failed to list attempts: %v", err)
	}
	if len(attempts) != 0 {
		t.Errorf("got %d attempts after reset, want 0", len(attempts))
	}
}

func TestSQLiteDB_ImplementsRepository(t *testing.T) {
	var _ Repository = (*SQLiteDB)(nil)
}
