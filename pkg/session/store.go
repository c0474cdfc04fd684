package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/serviclean/booking-platform/internal/core/domain"
)

// Store persists the two session keys (the raw token and the last-known
// user) across restarts. Both keys are always cleared together.
type Store interface {
	Save(token string, user *domain.User) error
	SaveUser(user *domain.User) error
	Load() (token string, user *domain.User, err error)
	Clear() error
}

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// FileStore keeps the session keys as two files under a directory, the
// CLI/desktop equivalent of the browser's two localStorage keys.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("session store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Save(token string, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return s.writeUser(user)
}

func (s *FileStore) SaveUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeUser(user)
}

func (s *FileStore) writeUser(user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFile), data, 0o600); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Load returns the persisted session. A missing token is not an error: it
// returns ("", nil, nil), meaning "no session".
func (s *FileStore) Load() (string, *domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("load token: %w", err)
	}

	var user *domain.User
	if data, err := os.ReadFile(filepath.Join(s.dir, userFile)); err == nil {
		user = &domain.User{}
		if err := json.Unmarshal(data, user); err != nil {
			// Corrupt user blob: keep the token, the user will be
			// re-resolved during verification anyway.
			user = nil
		}
	}
	return string(raw), user, nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu    sync.Mutex
	token string
	user  *domain.User
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Save(token string, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user = token, user
	return nil
}

func (s *MemStore) SaveUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	return nil
}

func (s *MemStore) Load() (string, *domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.user, nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user = "", nil
	return nil
}
