// Package session persists the auth token and user profile between runs and
// adopts sessions handed over by the browser login flow.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/naveenspark/aula/pkg/domain"
)

// Storage keys. Each holds a JSON-encoded value.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store loads, saves, and clears the client session.
type Store interface {
	// Load returns the stored session, or the empty session when either half
	// is missing or unreadable.
	Load() domain.Session
	Save(domain.Session) error
	Clear() error
}

// FileStore keeps the session as two files in a private directory.
type FileStore struct {
	dir string
	log *zap.Logger
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{dir: dir, log: log}
}

// Dir returns the directory holding the session files.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string { return filepath.Join(s.dir, key) }

// Load implements Store.
func (s *FileStore) Load() domain.Session {
	var token string
	if err := s.read(KeyToken, &token); err != nil {
		s.log.Debug("session token unavailable", zap.Error(err))
		return domain.Session{}
	}
	var user domain.UserProfile
	if err := s.read(KeyUser, &user); err != nil {
		s.log.Debug("session user unavailable", zap.Error(err))
		return domain.Session{}
	}
	sess := domain.Session{Token: token, User: &user}
	if !sess.Active() {
		return domain.Session{}
	}
	return sess
}

func (s *FileStore) read(key string, out any) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Save implements Store. Partial sessions are rejected.
func (s *FileStore) Save(sess domain.Session) error {
	if !sess.Active() {
		return ErrIncompleteSession
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("session.Save: create dir: %w", err)
	}
	tok, err := json.Marshal(sess.Token)
	if err != nil {
		return fmt.Errorf("session.Save: encode token: %w", err)
	}
	usr, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("session.Save: encode user: %w", err)
	}
	// User first: a crash between writes leaves no token, which Load treats as logged out.
	if err := writeFileAtomic(s.path(KeyUser), usr); err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}
	if err := writeFileAtomic(s.path(KeyToken), tok); err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}
	return nil
}

// Clear implements Store. Clearing an empty store is not an error.
func (s *FileStore) Clear() error {
	for _, key := range []string{KeyToken, KeyUser} {
		if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("session.Clear: %w", err)
		}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ErrIncompleteSession is returned when saving a session without both token and user.
var ErrIncompleteSession = errors.New("session must carry both token and user")

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Set writes a raw value under key. Tests use it to plant malformed data.
func (m *MemoryStore) Set(key string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
}

// Load implements Store.
func (m *MemoryStore) Load() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	var token string
	var user domain.UserProfile
	if json.Unmarshal(m.data[KeyToken], &token) != nil || json.Unmarshal(m.data[KeyUser], &user) != nil {
		return domain.Session{}
	}
	sess := domain.Session{Token: token, User: &user}
	if !sess.Active() {
		return domain.Session{}
	}
	return sess
}

// Save implements Store.
func (m *MemoryStore) Save(sess domain.Session) error {
	if !sess.Active() {
		return ErrIncompleteSession
	}
	tok, err := json.Marshal(sess.Token)
	if err != nil {
		return err
	}
	usr, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[KeyToken] = tok
	m.data[KeyUser] = usr
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, KeyToken)
	delete(m.data, KeyUser)
	return nil
}
