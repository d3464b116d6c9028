package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// TokenFile is the on-disk form of a saved login.
type TokenFile struct {
	Token   string    `json:"token"`
	Server  string    `json:"server"`
	Email   string    `json:"email,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// SaveToken writes tf to path with owner-only permissions.
func SaveToken(path string, tf TokenFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// LoadToken reads the token file at path. A missing file yields
// fs.ErrNotExist.
func LoadToken(path string) (TokenFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TokenFile{}, err
	}
	var tf TokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return TokenFile{}, fmt.Errorf("parsing token file %s: %w", path, err)
	}
	return tf, nil
}

// DeleteToken removes the token file. A missing file is not an error.
func DeleteToken(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

// Restore loads the token file at path into c when it was saved for server.
// It reports whether a token was restored.
func Restore(c *Credentials, path, server string) (bool, error) {
	tf, err := LoadToken(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if tf.Token == "" || tf.Server != server {
		return false, nil
	}
	c.Set(tf.Token)
	return true, nil
}
