package credentials

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/99designs/keyring"
)

const serviceName = "pgsentry"

// ErrNotFound is returned when no password is stored for a connection
var ErrNotFound = errors.New("password not found")

// Store keeps connection passwords in the OS keyring, falling back to an
// encrypted file when no native backend is available.
type Store struct {
	ring keyring.Keyring
}

// NewStore opens the keyring with platform-appropriate backends
func NewStore(configDir string) (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:     serviceName,
		AllowedBackends: backendsForPlatform(),
		FileDir:         filepath.Join(configDir, "keyring"),
		FilePasswordFunc: func(_ string) (string, error) {
			return deriveFilePassword()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

func backendsForPlatform() []keyring.BackendType {
	switch runtime.GOOS {
	case "darwin":
		return []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.FileBackend,
		}
	case "linux":
		return []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	case "windows":
		return []keyring.BackendType{
			keyring.WinCredBackend,
			keyring.FileBackend,
		}
	default:
		return []keyring.BackendType{
			keyring.FileBackend,
		}
	}
}

// Save stores a connection password. Empty passwords are not stored.
func (s *Store) Save(host string, port int, database, user, password string) error {
	if password == "" {
		return nil
	}
	err := s.ring.Set(keyring.Item{
		Key:         makeKey(host, port, database, user),
		Data:        []byte(password),
		Label:       fmt.Sprintf("pgsentry: %s@%s:%d/%s", user, host, port, database),
		Description: "PostgreSQL connection password for pgsentry",
	})
	if err != nil {
		return fmt.Errorf("failed to save password to keyring: %w", err)
	}
	return nil
}

// Get retrieves a stored connection password
func (s *Store) Get(host string, port int, database, user string) (string, error) {
	item, err := s.ring.Get(makeKey(host, port, database, user))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes a stored connection password; missing keys are fine
func (s *Store) Delete(host string, port int, database, user string) error {
	err := s.ring.Remove(makeKey(host, port, database, user))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}
	return nil
}

func makeKey(host string, port int, database, user string) string {
	return fmt.Sprintf("%s:%d:%s:%s", host, port, database, user)
}
