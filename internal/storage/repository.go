// ABOUTME: Repository interfaces for attempt history storage
// ABOUTME: Enables testability and storage backend swapping

package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/harper/slm/internal/models"
)

// AttemptRepository defines operations for managing scored attempts.
type AttemptRepository interface {
	// CreateAttempt stores an attempt and, when not nil, its track.
	CreateAttempt(attempt *models.Attempt, track models.Track) error
	GetAttempt(id uuid.UUID) (*models.Attempt, error)
	// GetAttemptByName returns the most recent attempt with the name.
	GetAttemptByName(name string) (*models.Attempt, error)
	// ListAttempts returns attempts newest first.
	ListAttempts() ([]*models.Attempt, error)
	ListAttemptsSince(since time.Time) ([]*models.Attempt, error)
	// GetTrack returns the stored track, ErrNotFound when none was saved.
	GetTrack(id uuid.UUID) (models.Track, error)
	DeleteAttempt(id uuid.UUID) error
}

// Repository combines attempt operations with lifecycle management.
type Repository interface {
	AttemptRepository
	Close() error
	Reset() error
}
