package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// tokenKey is the sole key in the durable credential file.
const tokenKey = "auth_token"

// TokenTTL is how long a stored credential remains usable before the record
// itself is treated as absent.
const TokenTTL = 7 * 24 * time.Hour

// Security attributes recorded with every credential write. Removal only
// matches records carrying exactly these attributes.
const (
	attrPath     = "/"
	attrSameSite = "strict"
)

// storedToken is the durable credential record: the token pair plus the
// security attributes it was written under and its explicit expiry.
type storedToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	Path         string    `json:"path"`
	Secure       bool      `json:"secure"`
	SameSite     string    `json:"same_site"`
}

func (t storedToken) expired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t storedToken) matchesPolicy() bool {
	return t.Secure && t.SameSite == attrSameSite && t.Path == attrPath
}

// FileStore persists the operator credential to a single owner-only JSON
// file. It is the only durable state the console keeps besides the snapshot
// database.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a token store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the durable credential file.
func (s *FileStore) Path() string { return s.path }

// AccessToken returns the stored access token. Reports false when the file is
// missing, unreadable, or the record has passed its explicit expiry.
func (s *FileStore) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.load()
	if !ok || rec.AccessToken == "" {
		return "", false
	}
	return rec.AccessToken, true
}

// RefreshToken returns the stored refresh token, if any.
func (s *FileStore) RefreshToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.load()
	if !ok || rec.RefreshToken == "" {
		return "", false
	}
	return rec.RefreshToken, true
}

// Write persists the token pair with the full security attribute set and a
// fresh 7-day expiry. Exactly one durable write per call.
func (s *FileStore) Write(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := storedToken{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(TokenTTL),
		Path:         attrPath,
		Secure:       true,
		SameSite:     attrSameSite,
	}

	return s.store(rec)
}

// SetAccessToken replaces only the access token after a refresh, keeping the
// refresh token and renewing the record's expiry.
func (s *FileStore) SetAccessToken(accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.load()
	if !ok {
		return fmt.Errorf("no stored credential to update")
	}

	rec.AccessToken = accessToken
	rec.ExpiresAt = time.Now().Add(TokenTTL)
	return s.store(rec)
}

// Clear removes the stored credential. Removal matches the exact attributes
// used when setting it, and is a no-op when nothing (or a record written
// under a different policy) is stored.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read token file: %w", err)
	}

	var records map[string]storedToken
	if err := json.Unmarshal(data, &records); err != nil {
		// Corrupt file: remove it rather than leave an unreadable credential.
		return os.Remove(s.path)
	}

	rec, ok := records[tokenKey]
	if !ok || !rec.matchesPolicy() {
		return nil
	}

	delete(records, tokenKey)
	if len(records) == 0 {
		return os.Remove(s.path)
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token file: %w", err)
	}
	return os.WriteFile(s.path, out, 0600)
}

// load reads the current record. Expired records are treated as absent.
func (s *FileStore) load() (storedToken, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return storedToken{}, false
	}

	var records map[string]storedToken
	if err := json.Unmarshal(data, &records); err != nil {
		return storedToken{}, false
	}

	rec, ok := records[tokenKey]
	if !ok || rec.expired() {
		return storedToken{}, false
	}
	return rec, true
}

func (s *FileStore) store(rec storedToken) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(map[string]storedToken{tokenKey: rec}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token file: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
