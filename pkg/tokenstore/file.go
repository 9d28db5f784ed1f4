package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists the token pair as a small JSON document, keyed
// "accessToken" and "refreshToken". Writes go through a temp file and rename
// so a crash mid-save never leaves a torn pair on disk.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to path. The parent directory is
// created on the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the credentials file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Save(pair Pair) error {
	if !pair.Complete() {
		return errors.New("tokenstore: refusing to persist a partial token pair")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("tokenstore: create directory: %w", err)
	}

	data, err := json.MarshalIndent(pair, "", "  ")
	if err != nil {
		return fmt.Errorf("tokenstore: encode pair: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("tokenstore: write credentials: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("tokenstore: replace credentials: %w", err)
	}

	return nil
}

func (s *FileStore) Load() (*Pair, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("tokenstore: read credentials: %w", err)
	}

	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		// Corrupt file: clear it rather than leaving a poisoned session.
		_ = s.Clear()
		return nil, nil
	}

	if !pair.Complete() {
		// Half-sessions are never surfaced; clean up the partial entry.
		_ = s.Clear()
		return nil, nil
	}

	return &pair, nil
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("tokenstore: remove credentials: %w", err)
	}
	return nil
}
