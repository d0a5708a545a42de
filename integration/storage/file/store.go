package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/SinArtur/Sstu-DB/core/session"
)

const (
	dirPerm  fs.FileMode = 0o700
	filePerm fs.FileMode = 0o600
)

var _ session.Store = (*Store)(nil)

// Store keeps one JSON file per key in a directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates the directory if needed and returns a store rooted at it.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, errors.Join(ErrCreateDirectory, err)
	}
	return &Store{dir: dir}, nil
}

// NewFromConfig creates a store from Config.
func NewFromConfig(cfg Config) (*Store, error) {
	return New(cfg.Dir)
}

// Dir returns the directory records are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Load implements session.Store.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, session.ErrNotFound
		}
		return nil, errors.Join(ErrReadRecord, err)
	}
	return data, nil
}

// Save implements session.Store. The record is replaced atomically.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+key+".*.tmp")
	if err != nil {
		return errors.Join(ErrWriteRecord, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return errors.Join(ErrWriteRecord, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Join(ErrWriteRecord, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Join(ErrWriteRecord, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(ErrWriteRecord, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Join(ErrWriteRecord, err)
	}
	return nil
}

// Delete removes the record for key. A missing record is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Join(ErrWriteRecord, err)
	}
	return nil
}

func (s *Store) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
