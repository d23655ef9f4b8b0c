package crypto

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "focusflow"
	KeyName     = "db-encryption-key"

	// EnvKey overrides the system keyring, e.g. on headless machines
	EnvKey = "FOCUSFLOW_DB_KEY"
)

var (
	ErrKeyNotFound = errors.New("encryption key not found")
	ErrEmptyKey    = errors.New("password cannot be empty")
)

// NewKeyring returns the environment override when set, otherwise the
// system keyring (macOS Keychain, Secret Service or Windows Credential
// Manager)
func NewKeyring() Keyring {
	env := &envKeyring{}
	if env.IsAvailable() {
		return env
	}
	return &systemKeyring{}
}

type systemKeyring struct{}

// GetKey retrieves the encryption key from the system keyring
func (k *systemKeyring) GetKey() (string, error) {
	key, err := keyring.Get(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w in system keyring", ErrKeyNotFound)
		}
		return "", fmt.Errorf("failed to retrieve key from keyring: %w", err)
	}

	if key == "" {
		return "", ErrEmptyKey
	}

	return key, nil
}

// SetKey stores the encryption key in the system keyring
func (k *systemKeyring) SetKey(password string) error {
	if password == "" {
		return ErrEmptyKey
	}

	if err := keyring.Set(ServiceName, KeyName, password); err != nil {
		return fmt.Errorf("failed to store key in keyring (set %s instead): %w", EnvKey, err)
	}

	return nil
}

// DeleteKey removes the encryption key from the system keyring
func (k *systemKeyring) DeleteKey() error {
	err := keyring.Delete(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w in system keyring", ErrKeyNotFound)
		}
		return fmt.Errorf("failed to delete key from keyring: %w", err)
	}

	return nil
}

// IsAvailable checks if the system keyring is accessible
func (k *systemKeyring) IsAvailable() bool {
	testKey := "__focusflow_availability_test__"
	if err := keyring.Set(ServiceName, testKey, "test"); err != nil {
		return false
	}

	_ = keyring.Delete(ServiceName, testKey)
	return true
}

type envKeyring struct{}

// GetKey retrieves the encryption key from FOCUSFLOW_DB_KEY
func (k *envKeyring) GetKey() (string, error) {
	key := os.Getenv(EnvKey)
	if key == "" {
		return "", fmt.Errorf("%w: %s not set", ErrKeyNotFound, EnvKey)
	}
	return key, nil
}

// SetKey cannot persist an environment variable
func (k *envKeyring) SetKey(password string) error {
	if password == "" {
		return ErrEmptyKey
	}
	return fmt.Errorf("key is read from %s; update the environment variable instead", EnvKey)
}

func (k *envKeyring) DeleteKey() error {
	return fmt.Errorf("key is read from %s; unset the environment variable manually", EnvKey)
}

func (k *envKeyring) IsAvailable() bool {
	return os.Getenv(EnvKey) != ""
}
