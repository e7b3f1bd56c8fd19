// Package keystore provides encrypted storage for Meilisearch API keys.
package keystore

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

// PassphraseEnv names the variable holding the keystore passphrase.
const PassphraseEnv = "MEILI_KEYSTORE_PASSPHRASE"

// Keystore defines the interface for secure key storage.
type Keystore interface {
	// Set stores a key-value pair.
	Set(name, value string) error
	// Get retrieves a value by name. Returns error if not found.
	Get(name string) (string, error)
	// Delete removes a key by name.
	Delete(name string) error
	// List returns all stored key names.
	List() ([]string, error)
}

// ErrKeyNotFound is returned when a requested key does not exist.
type ErrKeyNotFound struct {
	Name string
}

func (e *ErrKeyNotFound) Error() string {
	return "key not found: " + e.Name
}

// MasterKeySource supplies the secret the file encryption key is derived from.
type MasterKeySource interface {
	MasterKey() ([]byte, error)
}

// StaticKey is a fixed master key.
type StaticKey []byte

// MasterKey implements MasterKeySource.
func (k StaticKey) MasterKey() ([]byte, error) { return k, nil }

// EnvOrMachineKey uses $MEILI_KEYSTORE_PASSPHRASE when set, otherwise a key
// derived from the hostname and user. The fallback only keeps keys out of
// plain text; anyone on the same account can rebuild it.
type EnvOrMachineKey struct{}

// MasterKey implements MasterKeySource.
func (EnvOrMachineKey) MasterKey() ([]byte, error) {
	if p := os.Getenv(PassphraseEnv); p != "" {
		return []byte(p), nil
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME")
	}
	sum := sha256.Sum256([]byte(hostname + ":" + username + ":meili-keystore"))
	return sum[:], nil
}

// DefaultKeystorePath returns the default keystore file path.
// - macOS/Linux: ~/.meili/keys.enc
// - Windows: %USERPROFILE%\.meili\keys.enc
func DefaultKeystorePath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "keys.enc"
	}

	return filepath.Join(homeDir, ".meili", "keys.enc")
}

// NewKeystore opens the default keystore on the OS filesystem.
func NewKeystore() (Keystore, error) {
	return NewFileKeystore(afero.NewOsFs(), DefaultKeystorePath(), EnvOrMachineKey{})
}
