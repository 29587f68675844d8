package wallet

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

const keychainService = "forgectl"

// EnvPrivateKey overrides the keystore entirely when set. Meant for CI and
// scripting where no keychain is available.
const EnvPrivateKey = "FORGECTL_KEY"

// sessionCache holds keys already retrieved in this process, so repeated
// signing does not hit the OS keychain (which may prompt) more than once.
var sessionCache sync.Map

// KeystoreBackend abstracts key storage. Satisfied by Keystore and
// InMemoryKeystore.
type KeystoreBackend interface {
	Store(name, hexKey string) (string, error)
	Retrieve(ref string) (string, error)
	Delete(ref string) error
}

// normaliseHexKey trims whitespace and the 0x/0X prefix from a private key.
func normaliseHexKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}

// Keystore wraps OS keychain access with env var and session file fallbacks.
type Keystore struct {
	ring keyring.Keyring
}

// DefaultKeystore returns a keystore backed by the OS keychain.
func DefaultKeystore() *Keystore {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
	}

	// On Linux without a GUI, fall back to file-based storage.
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		// Use file backend as ultimate fallback.
		ring, _ = keyring.Open(keyring.Config{
			ServiceName:     keychainService,
			AllowedBackends: []keyring.BackendType{keyring.FileBackend},
		})
	}

	return &Keystore{ring: ring}
}

// Store saves a private key for a wallet name and returns a reference key.
func (k *Keystore) Store(name, hexKey string) (string, error) {
	ref := keychainService + "." + name
	sessionCache.Store(ref, hexKey)
	if k.ring == nil {
		return ref, nil
	}
	err := k.ring.Set(keyring.Item{
		Key:  ref,
		Data: []byte(hexKey),
	})
	if err != nil {
		return "", fmt.Errorf("keychain store: %w", err)
	}
	return ref, nil
}

// Retrieve fetches a private key by its reference. Resolution order:
// env var override, in-process cache, session file, OS keychain.
func (k *Keystore) Retrieve(ref string) (string, error) {
	if env := os.Getenv(EnvPrivateKey); env != "" {
		return normaliseHexKey(env), nil
	}
	if v, ok := sessionCache.Load(ref); ok {
		return v.(string), nil
	}
	if v, ok := GetSessionKey(ref); ok {
		sessionCache.Store(ref, v)
		return v, nil
	}
	if k.ring == nil {
		return "", fmt.Errorf("keystore not available")
	}
	item, err := k.ring.Get(ref)
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	key := string(item.Data)
	sessionCache.Store(ref, key)
	return key, nil
}

// Delete removes a stored key from the keychain, the in-process cache, and
// the session file.
func (k *Keystore) Delete(ref string) error {
	sessionCache.Delete(ref)
	RemoveSessionKey(ref)
	if k.ring == nil {
		return nil
	}
	return k.ring.Remove(ref)
}

// InMemoryKeystore returns a keystore that stores keys in memory (for tests).
type InMemoryKeystore struct {
	data map[string]string
}

// NewInMemoryKeystore creates an in-memory keystore.
func NewInMemoryKeystore() *InMemoryKeystore {
	return &InMemoryKeystore{data: make(map[string]string)}
}

func (k *InMemoryKeystore) Store(name, hexKey string) (string, error) {
	ref := keychainService + "." + name
	k.data[ref] = hexKey
	return ref, nil
}

func (k *InMemoryKeystore) Retrieve(ref string) (string, error) {
	v, ok := k.data[ref]
	if !ok {
		return "", fmt.Errorf("key not found: %s", ref)
	}
	return v, nil
}

func (k *InMemoryKeystore) Delete(ref string) error {
	delete(k.data, ref)
	return nil
}
