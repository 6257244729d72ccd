// Package session caches the logged-in user snapshot for a client process.
// It is a thin state cache around the login endpoint's output: it performs
// no credential verification of its own, only holds and persists what the
// server returned so a restart shows a logged-in UI without a round trip.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/models"
)

// Snapshot is the persisted view of the logged-in user, mirroring the
// projection returned by the login endpoint plus the session token.
type Snapshot struct {
	ID                  string               `json:"id"`
	Email               string               `json:"email"`
	Username            string               `json:"username"`
	Role                string               `json:"role"`
	IsVerified          bool                 `json:"isVerified"`
	IsAcceptingMessages bool                 `json:"isAcceptingMessages"`
	Money               float64              `json:"money"`
	PresentMoney        float64              `json:"presentMoney"`
	Profit              float64              `json:"profit"`
	Transactions        []models.Transaction `json:"transactions"`
	Token               string               `json:"token"`
}

// Store holds the current user snapshot in memory and mirrors it to a JSON
// file. Until Load has run, Loading reports true and consumers must not
// treat the absent user as "confirmed logged out".
type Store struct {
	mu      sync.RWMutex
	path    string
	logger  *common.Logger
	user    *Snapshot
	loading bool
}

// NewStore creates a session store persisting to the given file path. The
// store starts in the loading state; call Load to read any stored snapshot.
func NewStore(logger *common.Logger, path string) *Store {
	return &Store{
		path:    path,
		logger:  logger,
		loading: true,
	}
}

// Load reads the persisted snapshot, if any, and leaves the loading state.
// A missing file means "confirmed logged out", not an error. A corrupt file
// is discarded the same way so a bad write can never wedge the client.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Discarding corrupt session file")
		os.Remove(s.path)
		return nil
	}
	if snap.ID == "" {
		return nil
	}

	s.user = &snap
	s.logger.Debug().Str("account_id", snap.ID).Msg("Session restored from disk")
	return nil
}

// Login stores the snapshot in memory and on disk.
func (s *Store) Login(snap *Snapshot) error {
	if snap == nil || snap.ID == "" {
		return fmt.Errorf("snapshot must carry an account id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(snap); err != nil {
		return err
	}
	copied := *snap
	s.user = &copied
	s.loading = false
	return nil
}

// Logout clears the in-memory state and removes the persisted snapshot.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.loading = false
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// Current returns a copy of the stored snapshot, or nil when logged out or
// still loading.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// Loading reports whether the persisted snapshot has not been read yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Token returns the stored session token, or empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Token
}

// persist writes the snapshot atomically: temp file in the same directory,
// then rename. Caller holds the lock.
func (s *Store) persist(snap *Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	data = append(data, '\n')

	tmpFile, err := os.CreateTemp(dir, ".tmp-session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set session file mode: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
