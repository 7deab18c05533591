// Package session holds the authenticated identity context (bearer
// token + cached profile) that gates every protected call. The store
// is the root of trust for the whole pipeline: a 401 from any
// collaborator clears it, and every component reads it through the
// same interface so tests can swap in fakes.
package session

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AnkitDash-code/Expensync/internal/errkind"
	"github.com/AnkitDash-code/Expensync/internal/models"
)

// Store persists and retrieves the current session. Reads may run
// concurrently; SetSession and Clear are mutually exclusive writers. A
// reader racing a Clear observes either the old valid token or the
// cleared state, never a torn value.
type Store interface {
	// Token returns the current bearer token, or "" when no session is
	// stored. A storage failure is reported as StorageUnavailable;
	// callers treat it as "no session".
	Token() (string, error)
	// Profile returns the cached user profile, or nil when absent.
	Profile() (*models.UserProfile, error)
	// SetSession atomically replaces both token and profile.
	SetSession(token string, profile models.UserProfile) error
	// Clear removes token and profile. Idempotent.
	Clear() error
}

// sessionRow is the single persisted row. The row id is fixed so a
// SetSession always replaces the previous session wholesale.
type sessionRow struct {
	ID        uint `gorm:"primarykey"`
	Token     string
	UserID    string
	Email     string
	Role      string
	UpdatedAt time.Time
}

func (sessionRow) TableName() string { return "session" }

// FileStore is the durable Store backed by a local sqlite database, so
// the session survives process restart.
type FileStore struct {
	mu sync.RWMutex
	db *gorm.DB
}

// Open opens (or creates) the session database at path.
func Open(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, errkind.Wrap(errkind.StorageUnavailable, "create session dir", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errkind.Wrap(errkind.StorageUnavailable, "open session db", err)
	}
	if err := db.AutoMigrate(&sessionRow{}); err != nil {
		return nil, errkind.Wrap(errkind.StorageUnavailable, "migrate session db", err)
	}

	return &FileStore{db: db}, nil
}

func (s *FileStore) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, err := s.load()
	if err != nil {
		return "", err
	}
	if row == nil {
		return "", nil
	}
	return row.Token, nil
}

func (s *FileStore) Profile() (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, err := s.load()
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return &models.UserProfile{ID: row.UserID, Email: row.Email, Role: row.Role}, nil
}

func (s *FileStore) SetSession(token string, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := sessionRow{
		ID:        1,
		Token:     token,
		UserID:    profile.ID,
		Email:     profile.Email,
		Role:      profile.Role,
		UpdatedAt: time.Now(),
	}
	if err := s.db.Save(&row).Error; err != nil {
		return errkind.Wrap(errkind.StorageUnavailable, "persist session", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Deleting a row that is already gone is a no-op in gorm, which
	// gives Clear its idempotence for free.
	if err := s.db.Delete(&sessionRow{}, 1).Error; err != nil {
		return errkind.Wrap(errkind.StorageUnavailable, "clear session", err)
	}
	return nil
}

func (s *FileStore) load() (*sessionRow, error) {
	var row sessionRow
	err := s.db.First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errkind.Wrap(errkind.StorageUnavailable, "read session", err)
	}
	return &row, nil
}
