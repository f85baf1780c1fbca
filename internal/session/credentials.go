package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gearboxgarage/gearbox/internal/models"
)

// credentials is the durable footprint of a session: the opaque bearer
// token and the serialized user record. The two are always written and
// removed together; a file with only one of them is treated as corrupt.
type credentials struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// saveCredentials writes both entries atomically (temp file + rename) with
// owner-only permissions.
func saveCredentials(path string, c credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("session: create credentials dir: %w", err)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("session: marshal credentials: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session: write credentials: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("session: commit credentials: %w", err)
	}
	return nil
}

// loadCredentials reads the stored pair. Missing file, unreadable JSON or a
// partial pair all come back as empty credentials: restore treats every one
// of those as logged-out rather than failing startup.
func loadCredentials(path string) credentials {
	data, err := os.ReadFile(path)
	if err != nil {
		return credentials{}
	}

	var c credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return credentials{}
	}
	if c.Token == "" || c.User == nil {
		return credentials{}
	}
	return c
}

// clearCredentials removes both entries. Absence is not an error.
func clearCredentials(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove credentials: %w", err)
	}
	return nil
}
