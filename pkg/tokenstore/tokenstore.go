// Package tokenstore persists the session's bearer token across process
// restarts. The token lives in a single file with a fixed name; an absent
// file means "unauthenticated".
package tokenstore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
)

// fileName is the single fixed name the token is stored under.
const fileName = "token"

// Store is durable storage for one opaque token.
type Store interface {
	// Load returns the stored token, or "" when none is stored.
	Load() (string, error)
	// Save replaces the stored token.
	Save(token string) error
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
}

// File is a Store backed by a file on disk.
type File struct {
	path string
}

var _ Store = (*File)(nil)

// NewFile returns a File store rooted at dir. The directory is created on
// first Save.
func NewFile(dir string) *File {
	return &File{path: filepath.Join(dir, fileName)}
}

// DefaultDir returns the per-user configuration directory for the client.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve user config dir")
	}
	return filepath.Join(base, "electrotech"), nil
}

// Load reads the stored token. A missing file yields an empty token.
func (f *File) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "read token file")
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token with owner-only permissions.
func (f *File) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "create token dir")
	}
	if err := os.WriteFile(f.path, []byte(token), 0o600); err != nil {
		return errors.Wrap(err, "write token file")
	}
	return nil
}

// Clear removes the token file.
func (f *File) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove token file")
	}
	return nil
}
