package keychain

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"go.trai.ch/zerr"
)

// Signer holds a single named Ed25519 private key and produces base64
// signatures over arbitrary data. Used only by the request-signer external
// tool, never by the daemon itself.
type Signer struct {
	Name string
	key  ed25519.PrivateKey
}

// GenerateSigner creates a fresh keypair under the given name.
func GenerateSigner(name string) (*Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, zerr.Wrap(err, "generating ed25519 keypair")
	}
	return &Signer{Name: name, key: priv}, nil
}

// ParseSigner parses "<name>:<base64(64-byte keypair)>".
func ParseSigner(encoded string) (*Signer, error) {
	idx := strings.Index(encoded, ":")
	if idx <= 0 {
		return nil, zerr.With(domain.ErrConfigInvalid, "value", encoded)
	}
	name := encoded[:idx]
	raw, err := base64.StdEncoding.DecodeString(encoded[idx+1:])
	if err != nil {
		return nil, zerr.Wrap(err, "decoding private key base64")
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, zerr.With(domain.ErrConfigInvalid, "key_size", len(raw))
	}
	return &Signer{Name: name, key: ed25519.PrivateKey(raw)}, nil
}

// Encode renders the signer's keypair back into its textual "<name>:<base64>" form.
func (s *Signer) Encode() string {
	return s.Name + ":" + base64.StdEncoding.EncodeToString(s.key)
}

// PublicKeyEncoded renders the signer's public half in "<name>:<base64>" form,
// suitable for distribution to verifiers.
func (s *Signer) PublicKeyEncoded() string {
	pub := s.key.Public().(ed25519.PublicKey)
	return s.Name + ":" + base64.StdEncoding.EncodeToString(pub)
}

// Sign produces a base64-encoded signature over data.
func (s *Signer) Sign(data []byte) string {
	sig := ed25519.Sign(s.key, data)
	return base64.StdEncoding.EncodeToString(sig)
}

// SignNamed signs data and returns the full domain.Signature (key name + sig).
func (s *Signer) SignNamed(data []byte) domain.Signature {
	return domain.Signature{KeyName: s.Name, SigB64: s.Sign(data)}
}
