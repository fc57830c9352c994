package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const (
	configDirName   = "campushire"
	sessionFileName = "session.json"

	keyringService = "campushire-cli"
	keyringKey     = "session-token"
)

// Adapter persists a single namespaced session record. Load returns nil
// when no record exists.
type Adapter interface {
	Load() (*Session, error)
	Save(*Session) error
}

// DefaultPath returns the path of the session file, honoring the
// CAMPUSHIRE_CONFIG_HOME override (used by tests and CI).
func DefaultPath() (string, error) {
	if dir := os.Getenv("CAMPUSHIRE_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, sessionFileName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName, sessionFileName), nil
}

// FileAdapter stores the session as JSON at a fixed path. Written with mode
// 0600 since the record may contain the bearer token.
type FileAdapter struct {
	Path string
}

// NewFileAdapter creates a file adapter at the default session path.
func NewFileAdapter() (*FileAdapter, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return &FileAdapter{Path: path}, nil
}

func (f *FileAdapter) Load() (*Session, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &sess, nil
}

func (f *FileAdapter) Save(sess *Session) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(f.Path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// MemoryAdapter keeps the session in memory. Used by tests.
type MemoryAdapter struct {
	Session *Session
}

func (m *MemoryAdapter) Load() (*Session, error) {
	if m.Session == nil {
		return nil, nil
	}
	sess := *m.Session
	return &sess, nil
}

func (m *MemoryAdapter) Save(sess *Session) error {
	copied := *sess
	m.Session = &copied
	return nil
}

// KeyringAdapter wraps another adapter and moves the bearer token into the
// OS keychain/credential manager so it never lands on disk in plain text.
// When no keyring backend is available (headless Linux, CI) it degrades to
// leaving the token inline in the wrapped record.
type KeyringAdapter struct {
	Inner Adapter
}

func (k *KeyringAdapter) Load() (*Session, error) {
	sess, err := k.Inner.Load()
	if err != nil || sess == nil {
		return sess, err
	}

	if sess.Token == "" {
		token, err := keyring.Get(keyringService, keyringKey)
		if err == nil {
			sess.Token = token
		} else if !errors.Is(err, keyring.ErrNotFound) {
			// Keyring unavailable: the inline token (if any) is all we have.
			return sess, nil
		}
	}

	return sess, nil
}

func (k *KeyringAdapter) Save(sess *Session) error {
	stored := *sess

	if stored.Token == "" {
		// Logged out: best-effort removal of any stored secret.
		if err := keyring.Delete(keyringService, keyringKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			// Unavailable backend; nothing to clean up.
			_ = err
		}
		return k.Inner.Save(&stored)
	}

	if err := keyring.Set(keyringService, keyringKey, stored.Token); err == nil {
		stored.Token = ""
	}

	return k.Inner.Save(&stored)
}
