// ABOUTME: SQLite storage implementation for attempt history
// ABOUTME: Provides local-only persistence using pure Go SQLite driver

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/harper/slm/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements Repository with a local SQLite database.
type SQLiteDB struct {
	db   *sql.DB
	path string
}

// Compile-time check that SQLiteDB implements Repository.
var _ Repository = (*SQLiteDB)(nil)

// NewSQLiteDB creates a new SQLite database at the given path.
// Creates the directory and database file if they don't exist.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteDB{db: db, path: path}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// migrate creates or updates the database schema.
func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			source TEXT,
			start_latitude REAL NOT NULL,
			start_longitude REAL NOT NULL,
			end_latitude REAL NOT NULL,
			end_longitude REAL NOT NULL,
			point_count INTEGER NOT NULL,
			line_length REAL NOT NULL,
			track_length REAL NOT NULL,
			max_deviation REAL NOT NULL,
			medal TEXT NOT NULL,
			scored_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS attempt_scores (
			attempt_id TEXT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
			level TEXT NOT NULL,
			score REAL NOT NULL,
			PRIMARY KEY (attempt_id, level)
		);

		CREATE TABLE IF NOT EXISTS attempt_points (
			attempt_id TEXT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			PRIMARY KEY (attempt_id, seq)
		);

		CREATE INDEX IF NOT EXISTS idx_attempts_name ON attempts(name);
		CREATE INDEX IF NOT EXISTS idx_attempts_scored_at ON attempts(scored_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file path.
func (s *SQLiteDB) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Reset clears all data from the database.
func (s *SQLiteDB) Reset() error {
	_, err := s.db.Exec("DELETE FROM attempt_points; DELETE FROM attempt_scores; DELETE FROM attempts;")
	return err
}

// CreateAttempt inserts the attempt, its scores and its track in one
// transaction.
func (s *SQLiteDB) CreateAttempt(a *models.Attempt, track models.Track) error {
	if err := models.ValidateName(a.Name); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO attempts (id, name, source, start_latitude, start_longitude, end_latitude, end_longitude,
		 point_count, line_length, track_length, max_deviation, medal, scored_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.Name, a.Source,
		a.Line.Start.Latitude, a.Line.Start.Longitude, a.Line.End.Latitude, a.Line.End.Longitude,
		a.PointCount, a.LineLength, a.TrackLength, a.MaxDeviation, a.Medal, a.ScoredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}

	for level, score := range a.Scores {
		if _, err := tx.Exec(
			"INSERT INTO attempt_scores (attempt_id, level, score) VALUES (?, ?, ?)",
			a.ID.String(), level, score,
		); err != nil {
			return fmt.Errorf("insert score %s: %w", level, err)
		}
	}

	if len(track) > 0 {
		stmt, err := tx.Prepare("INSERT INTO attempt_points (attempt_id, seq, latitude, longitude) VALUES (?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare points: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for i, p := range track {
			if _, err := stmt.Exec(a.ID.String(), i, p.Latitude, p.Longitude); err != nil {
				return fmt.Errorf("insert point %d: %w", i, err)
			}
		}
	}

	return tx.Commit()
}

const attemptColumns = `id, name, source, start_latitude, start_longitude, end_latitude, end_longitude,
	point_count, line_length, track_length, max_deviation, medal, scored_at`

// GetAttempt retrieves an attempt by its UUID.
func (s *SQLiteDB) GetAttempt(id uuid.UUID) (*models.Attempt, error) {
	row := s.db.QueryRow("SELECT "+attemptColumns+" FROM attempts WHERE id = ?", id.String())
	a, err := scanAttempt(row)
	if err != nil {
		return nil, err
	}
	return a, s.loadScores(a)
}

// GetAttemptByName returns the most recently scored attempt with the name.
func (s *SQLiteDB) GetAttemptByName(name string) (*models.Attempt, error) {
	row := s.db.QueryRow(
		"SELECT "+attemptColumns+" FROM attempts WHERE name = ? ORDER BY scored_at DESC LIMIT 1",
		name,
	)
	a, err := scanAttempt(row)
	if err != nil {
		return nil, err
	}
	return a, s.loadScores(a)
}

// ListAttempts returns all attempts, newest first.
func (s *SQLiteDB) ListAttempts() ([]*models.Attempt, error) {
	rows, err := s.db.Query("SELECT " + attemptColumns + " FROM attempts ORDER BY scored_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	return s.collectAttempts(rows)
}

// ListAttemptsSince returns attempts scored after the given time, newest first.
func (s *SQLiteDB) ListAttemptsSince(since time.Time) ([]*models.Attempt, error) {
	rows, err := s.db.Query(
		"SELECT "+attemptColumns+" FROM attempts WHERE scored_at > ? ORDER BY scored_at DESC",
		since.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	return s.collectAttempts(rows)
}

// GetTrack returns the stored points of an attempt in order.
func (s *SQLiteDB) GetTrack(id uuid.UUID) (models.Track, error) {
	rows, err := s.db.Query(
		"SELECT latitude, longitude FROM attempt_points WHERE attempt_id = ? ORDER BY seq",
		id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var track models.Track
	for rows.Next() {
		var p models.GeoPoint
		if err := rows.Scan(&p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		track = append(track, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(track) == 0 {
		return nil, ErrNotFound
	}
	return track, nil
}

// DeleteAttempt removes an attempt (scores and points cascade delete automatically).
func (s *SQLiteDB) DeleteAttempt(id uuid.UUID) error {
	res, err := s.db.Exec("DELETE FROM attempts WHERE id = ?", id.String())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row scanner) (*models.Attempt, error) {
	var idStr string
	var source sql.NullString
	a := models.Attempt{Scores: make(map[string]float64)}
	err := row.Scan(&idStr, &a.Name, &source,
		&a.Line.Start.Latitude, &a.Line.Start.Longitude, &a.Line.End.Latitude, &a.Line.End.Longitude,
		&a.PointCount, &a.LineLength, &a.TrackLength, &a.MaxDeviation, &a.Medal, &a.ScoredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan attempt: %w", err)
	}
	a.ID, _ = uuid.Parse(idStr)
	a.Source = source.String
	return &a, nil
}

func (s *SQLiteDB) collectAttempts(rows *sql.Rows) ([]*models.Attempt, error) {
	var attempts []*models.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for _, a := range attempts {
		if err := s.loadScores(a); err != nil {
			return nil, err
		}
	}
	return attempts, nil
}

func (s *SQLiteDB) loadScores(a *models.Attempt) error {
	rows, err := s.db.Query("SELECT level, score FROM attempt_scores WHERE attempt_id = ?", a.ID.String())
	if err != nil {
		return fmt.Errorf("query scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var level string
		var score float64
		if err := rows.Scan(&level, &score); err != nil {
			return fmt.Errorf("scan score: %w", err)
		}
		a.Scores[level] = score
	}
	return rows.Err()
}
