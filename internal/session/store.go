// Package session persists the signed-in session (server URL and token)
// to the filesystem, so the client survives restarts without re-login.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Session is the persisted login record.
type Session struct {
	BaseURL string `json:"base_url"`
	Token   string `json:"token"`
}

// FileStore persists the session as a JSON file under a base directory.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a FileStore that saves the session under baseDir.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

// Save writes the session to disk. The file is created user-readable only,
// since it contains the session token.
func (s *FileStore) Save(sess Session) error {
	if err := os.MkdirAll(s.baseDir, 0o700); err != nil {
		return fmt.Errorf("session: creating directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshaling: %w", err)
	}

	p := s.path()
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return fmt.Errorf("session: writing %s: %w", p, err)
	}
	return nil
}

// Load reads the persisted session.
// Returns (session, true, nil) if found, (zero, false, nil) if not found.
func (s *FileStore) Load() (Session, bool, error) {
	p := s.path()
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("session: reading %s: %w", p, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, false, fmt.Errorf("session: parsing %s: %w", p, err)
	}
	return sess, true, nil
}

// Remove deletes the persisted session (logout).
func (s *FileStore) Remove() error {
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: removing %s: %w", s.path(), err)
	}
	return nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.baseDir, "session.json")
}
