// Package credstore persists the terminal client's session between runs.
package credstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// User is the signed-in account as last reported by the server.
type User struct {
	ID       string `yaml:"id"`
	Username string `yaml:"username"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
}

// Draft is a report form that has not been accepted by the server yet.
type Draft struct {
	Date            string `yaml:"date"`
	TaskDescription string `yaml:"task_description"`
	TimeSpent       string `yaml:"time_spent"`
	RelatedAdmin    string `yaml:"related_admin,omitempty"`
	Blockers        string `yaml:"blockers,omitempty"`
}

type file struct {
	Token     string `yaml:"token,omitempty"`
	ExpiresAt int64  `yaml:"expires_at,omitempty"`
	User      *User  `yaml:"user,omitempty"`
	Draft     *Draft `yaml:"draft,omitempty"`
}

// Store is a YAML file holding the access token, the signed-in user and an
// optional report draft. It is safe for concurrent use.
type Store struct {
	path string
	now  func() time.Time

	mu   sync.Mutex
	data file
}

// DefaultPath returns credentials.yaml under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("credstore: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "xtrack", "credentials.yaml"), nil
}

// Open hydrates a store from path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("credstore: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &s.data); err != nil {
		return nil, fmt.Errorf("credstore: parse %s: %w", path, err)
	}
	return s, nil
}

// Token returns the stored access token, or "" when none is stored or it
// has expired.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.ExpiresAt > 0 && s.now().Unix() >= s.data.ExpiresAt {
		return ""
	}
	return s.data.Token
}

func (s *Store) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.User == nil || s.data.Token == "" {
		return User{}, false
	}
	return *s.data.User, true
}

// Save records a fresh login.
func (s *Store) Save(token string, expiresAt int64, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Token = token
	s.data.ExpiresAt = expiresAt
	s.data.User = &u
	return s.flush()
}

// Clear forgets the login. A pending draft survives.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Token = ""
	s.data.ExpiresAt = 0
	s.data.User = nil
	return s.flush()
}

func (s *Store) Draft() (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Draft == nil {
		return Draft{}, false
	}
	return *s.data.Draft, true
}

func (s *Store) SaveDraft(d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Draft = &d
	return s.flush()
}

func (s *Store) ClearDraft() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Draft == nil {
		return nil
	}
	s.data.Draft = nil
	return s.flush()
}

// flush writes the file through a temp file and rename. Callers hold s.mu.
func (s *Store) flush() error {
	b, err := yaml.Marshal(&s.data)
	if err != nil {
		return fmt.Errorf("credstore: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("credstore: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.yaml")
	if err != nil {
		return fmt.Errorf("credstore: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("credstore: write: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("credstore: chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("credstore: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("credstore: replace %s: %w", s.path, err)
	}
	return nil
}
