package session

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/yourorg/gadhub/internal/models"
)

// Session is the {user, token} pair the client keeps across restarts.
type Session struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

// FileStore persists the session as a JSON file. It is the client-side
// counterpart of the stateless server session: logout is just Clear.
type FileStore struct {
	path string
}

// NewFileStore stores the session at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath places the session under the user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gadhub-session.json"
	}
	return filepath.Join(home, ".gadhub", "session.json")
}

// Save persists the session. An incomplete session (missing token or user)
// is an internal misuse: it is logged and dropped rather than written, so a
// broken pair can never be restored later.
func (s *FileStore) Save(sess Session) error {
	if sess.Token == "" || sess.User.ID == 0 {
		log.Printf("session: refusing to save incomplete session (token present=%t, user id=%d)",
			sess.Token != "", sess.User.ID)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Load returns the stored session. A corrupt or incomplete file is
// self-healed: the entry is cleared and "no session" reported, never a
// partially valid session.
func (s *FileStore) Load() (*Session, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("session: read failed: %v", err)
		}
		return nil, false
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.Token == "" || sess.User.ID == 0 {
		log.Printf("session: stored session unusable, clearing")
		_ = s.Clear()
		return nil, false
	}
	return &sess, true
}

// Clear removes the stored session. Clearing an absent session is not an
// error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// UpdateUser replaces the cached user projection while keeping the token.
// Used after profile edits, which do not reissue tokens.
func (s *FileStore) UpdateUser(user models.PublicUser) error {
	sess, ok := s.Load()
	if !ok {
		log.Printf("session: no session to update")
		return nil
	}
	sess.User = user
	return s.Save(*sess)
}
