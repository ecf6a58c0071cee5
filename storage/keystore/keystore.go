// Package keystore persists the caller's API key between runs, playing the
// role browser local storage plays for the web client. Exactly one key is
// stored, JSON-encoded; an absent or corrupt file reads as "no session".
package keystore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/innexgo/hours-go/hours"
)

type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored key, or nil when no session is stored. A corrupt
// stored value is treated as no session and reset to null on disk rather
// than surfacing a parse failure.
func (s *Store) Load() *hours.APIKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var key *hours.APIKey
	if err := json.Unmarshal(data, &key); err != nil {
		_ = s.write(nil)
		return nil
	}
	return key
}

// Save stores the key, atomically updating the file. A nil key stores null,
// clearing the session.
func (s *Store) Save(key *hours.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(key)
}

// Clear resets the stored session to null.
func (s *Store) Clear() error {
	return s.Save(nil)
}

func (s *Store) Path() string { return s.path }

// write marshals the key and swaps it in via a temp file + rename so a
// crash mid-write never leaves a truncated file behind.
func (s *Store) write(key *hours.APIKey) error {
	data, err := json.Marshal(key)
	if err != nil {
		return errors.Wrap(err, "encoding api key")
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".apikey-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing api key")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting permissions")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "replacing key file")
}
