// Package keychain stores named Ed25519 public keys and verifies narinfo
// signatures against them.
package keychain

import (
	"crypto/ed25519"
	"encoding/base64"
	"strings"
	"sync"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"go.trai.ch/zerr"
)

// NixOSCachePublicKey is the well-known production key for cache.nixos.org,
// always preloaded into a fresh Keychain.
const NixOSCachePublicKey = "cache.nixos.org-1:6NCHdD59X431o0gWypbMrAURkbJ16ZPMQFGspcDShjY="

// Keychain holds named Ed25519 public keys and verifies signatures against them.
type Keychain struct {
	mu   sync.RWMutex
	keys map[string]ed25519.PublicKey
}

// New builds a Keychain preloaded with the production Nix cache key.
func New() (*Keychain, error) {
	k := &Keychain{keys: make(map[string]ed25519.PublicKey)}
	if err := k.AddEncoded(NixOSCachePublicKey); err != nil {
		return nil, zerr.Wrap(err, "preloading production cache key")
	}
	return k, nil
}

// Add registers a named public key, failing if the name is already taken.
func (k *Keychain) Add(name string, key ed25519.PublicKey) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, exists := k.keys[name]; exists {
		return zerr.With(domain.ErrKeyNameCollision, "name", name)
	}
	k.keys[name] = key
	return nil
}

// AddEncoded parses and adds a key given in its textual "<name>:<base64>" form.
func (k *Keychain) AddEncoded(encoded string) error {
	name, key, err := ParsePublicKey(encoded)
	if err != nil {
		return err
	}
	return k.Add(name, key)
}

// ParsePublicKey splits "<name>:<base64(32-byte pubkey)>" into its parts.
func ParsePublicKey(encoded string) (string, ed25519.PublicKey, error) {
	idx := strings.Index(encoded, ":")
	if idx <= 0 {
		return "", nil, zerr.With(domain.ErrConfigInvalid, "value", encoded)
	}
	name := encoded[:idx]
	raw, err := base64.StdEncoding.DecodeString(encoded[idx+1:])
	if err != nil {
		return "", nil, zerr.Wrap(err, "decoding public key base64")
	}
	if len(raw) != ed25519.PublicKeySize {
		return "", nil, zerr.With(domain.ErrConfigInvalid, "key_size", len(raw))
	}
	return name, ed25519.PublicKey(raw), nil
}

// Verify reports whether sig (base64) is a valid Ed25519 signature over data
// under the key registered as name. Returns false (not an error) if name
// isn't registered or the signature is malformed.
func (k *Keychain) Verify(name string, data []byte, sigB64 string) bool {
	k.mu.RLock()
	key, ok := k.keys[name]
	k.mu.RUnlock()
	if !ok {
		return false
	}

	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(key, data, sig)
}

// VerifyAny reports whether any of sigs verifies against its declared key
// name in the keychain.
func (k *Keychain) VerifyAny(data []byte, sigs []domain.Signature) bool {
	for _, sig := range sigs {
		if k.Verify(sig.KeyName, data, sig.SigB64) {
			return true
		}
	}
	return false
}
