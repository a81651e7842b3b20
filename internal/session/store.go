package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/turboplaylist/turboplaylist/internal/model"
)

// ErrNotFound marks a session whose directory no longer exists (never
// created, already packaged, or reclaimed by the reaper).
var ErrNotFound = errors.New("session not found")

// Store manages one exclusive working directory per client connection,
// rooted at a single downloads path.
type Store struct {
	root   string
	logger *zap.Logger
}

// NewStore creates the store and ensures the downloads root exists.
func NewStore(root string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create downloads root: %w", err)
	}
	return &Store{root: root, logger: logger}, nil
}

// NewID returns a fresh session identifier. UUIDv7 keeps ids unique and
// time-ordered like task ids elsewhere.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("session-%d", time.Now().UnixNano())
	}
	return id.String()
}

// dirFor maps an id onto its directory under the root. Ids arrive from the
// URL path already decoded, so anything that is not a single plain path
// segment (separators, "..") would escape the root and is rejected as
// ErrNotFound.
func (s *Store) dirFor(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", ErrNotFound
	}
	return filepath.Join(s.root, id), nil
}

// Create makes the session directory eagerly, before any download starts.
func (s *Store) Create(id string) (model.Session, error) {
	dir, err := s.dirFor(id)
	if err != nil {
		return model.Session{}, fmt.Errorf("invalid session id %q: %w", id, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.Session{}, fmt.Errorf("create session dir: %w", err)
	}
	s.logger.Debug("session created", zap.String("session", id), zap.String("dir", dir))
	return model.Session{ID: id, Dir: dir, CreatedAt: time.Now()}, nil
}

// Dir returns the session directory path, or ErrNotFound when it is gone.
func (s *Store) Dir(id string) (string, error) {
	dir, err := s.dirFor(id)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", ErrNotFound
	}
	return dir, nil
}

// Remove force-deletes the session directory and everything in it.
func (s *Store) Remove(id string) error {
	dir, err := s.dirFor(id)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// Root returns the downloads root path.
func (s *Store) Root() string {
	return s.root
}
