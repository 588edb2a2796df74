// Package auth is the authentication port: the server hub hands it
// credentials and receives an authenticated identity with locale, trust
// level, and preferences.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/playpalace/playpalace/internal/users"
)

// Account is an authenticated identity.
type Account struct {
	Username    string
	Locale      string
	TrustLevel  int
	Approved    bool
	Preferences *users.Preferences
}

// Authenticator validates credentials.
type Authenticator interface {
	Authenticate(username, password string) (*Account, error)
}

// Sentinel failures the hub turns into disconnect reasons.
var (
	ErrBadCredentials = errors.New("bad credentials")
	ErrNotApproved    = errors.New("account not approved")
)

type storedAccount struct {
	Salt         string             `json:"salt"`
	PasswordHash string             `json:"password_hash"`
	Locale       string             `json:"locale"`
	TrustLevel   int                `json:"trust_level"`
	Approved     bool               `json:"approved"`
	Preferences  *users.Preferences `json:"preferences,omitempty"`
}

// FileStore is the default authenticator: a JSON account document under
// the data directory. Writes are serialized through its mutex.
type FileStore struct {
	mu       sync.Mutex
	path     string
	accounts map[string]*storedAccount

	// AutoCreate registers unknown usernames on first login.
	AutoCreate bool
}

// OpenFileStore loads (or initializes) the account document.
func OpenFileStore(dataDir string, autoCreate bool) (*FileStore, error) {
	path := filepath.Join(dataDir, "accounts.json")
	store := &FileStore{
		path:       path,
		accounts:   map[string]*storedAccount{},
		AutoCreate: autoCreate,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, errors.Wrap(err, "read accounts")
	}
	if err := json.Unmarshal(data, &store.accounts); err != nil {
		return nil, errors.Wrap(err, "parse accounts")
	}
	return store, nil
}

func hashPassword(salt, password string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}

func newSalt() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Authenticate implements Authenticator.
func (s *FileStore) Authenticate(username, password string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.accounts[username]
	if !ok {
		if !s.AutoCreate {
			return nil, ErrBadCredentials
		}
		stored = &storedAccount{
			Salt:        newSalt(),
			Locale:      "en",
			TrustLevel:  1,
			Approved:    true,
			Preferences: users.DefaultPreferences(),
		}
		stored.PasswordHash = hashPassword(stored.Salt, password)
		s.accounts[username] = stored
		if err := s.persistLocked(); err != nil {
			delete(s.accounts, username)
			return nil, err
		}
	}

	expected := hashPassword(stored.Salt, password)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(stored.PasswordHash)) != 1 {
		return nil, ErrBadCredentials
	}
	if !stored.Approved {
		return nil, ErrNotApproved
	}

	prefs := stored.Preferences
	if prefs == nil {
		prefs = users.DefaultPreferences()
	}
	return &Account{
		Username:    username,
		Locale:      stored.Locale,
		TrustLevel:  stored.TrustLevel,
		Approved:    stored.Approved,
		Preferences: prefs,
	}, nil
}

// SavePreferences writes a user's preference snapshot back to disk.
func (s *FileStore) SavePreferences(username string, prefs *users.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.accounts[username]
	if !ok {
		return errors.Errorf("unknown account %q", username)
	}
	stored.Preferences = prefs
	return s.persistLocked()
}

func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.accounts, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode accounts")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "create data dir")
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "write accounts")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "replace accounts")
}
