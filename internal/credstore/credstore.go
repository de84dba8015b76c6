// Package credstore persists the long-lived refresh token between runs.
//
// The token lives in a single plain-text file readable only by its owner.
// Every successful auth exchange overwrites it, so the file always holds the
// most recently rotated refresh token.
package credstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/benchwrap/benchwrap/internal/utils"
	"github.com/gofrs/flock"
)

const (
	// TokenFileName is also the name the enumerator refuses to upload.
	TokenFileName = "tokens"
	lockFileName  = TokenFileName + ".lock"

	dirPerm  os.FileMode = 0o700
	filePerm os.FileMode = 0o600
)

var ErrEmptyToken = errors.New("credstore: refusing to save empty token")

type Store struct {
	dataDir string
	path    string
	lock    *flock.Flock
}

func New(dataDir string) *Store {
	path := filepath.Join(dataDir, TokenFileName)
	return &Store{
		dataDir: dataDir,
		path:    path,
		lock:    flock.New(filepath.Join(dataDir, lockFileName)),
	}
}

func (s *Store) Path() string {
	return s.path
}

// ReservedNames lists the base names the store owns inside its data dir.
func ReservedNames() []string {
	return []string{TokenFileName, lockFileName}
}

// Ensure creates the data directory and an empty token file when missing.
func (s *Store) Ensure() error {
	if err := utils.EnsureDir(s.dataDir, dirPerm); err != nil {
		return fmt.Errorf("credstore: create data dir: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePerm)
	if errors.Is(err, os.ErrExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("credstore: create token file: %w", err)
	}
	return f.Close()
}

// IsRegistered reports whether a non-blank token has been stored.
func (s *Store) IsRegistered() bool {
	token, err := s.Load()
	return err == nil && token != ""
}

// Load returns the stored token with surrounding whitespace trimmed.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Save overwrites the token file.
func (s *Store) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	return s.write([]byte(token))
}

// Clear empties the token file, which makes the store unregistered again.
func (s *Store) Clear() error {
	if !utils.FileExists(s.path) {
		return nil
	}
	return s.write(nil)
}

func (s *Store) write(data []byte) error {
	if err := s.Ensure(); err != nil {
		return err
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("credstore: lock: %w", err)
	}
	defer s.lock.Unlock()

	if err := os.WriteFile(s.path, data, filePerm); err != nil {
		return fmt.Errorf("credstore: write token: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	return os.Chmod(s.path, filePerm)
}
