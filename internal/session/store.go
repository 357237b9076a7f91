package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/scriv/internal/engine"
)

// Store persists sessions to a file on disk.
type Store struct {
	path string
}

// NewStore creates a store backed by the given path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a session file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Save writes the engine's session atomically: the data is written to a
// temp file in the same directory and renamed into place.
func (s *Store) Save(eng *engine.Engine) error {
	data, err := Encode(eng)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Load reads and decodes the session file.
// The underlying fs.ErrNotExist surfaces when no session has been saved.
func (s *Store) Load(opts ...engine.Option) (*engine.Engine, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return Decode(data, opts...)
}
