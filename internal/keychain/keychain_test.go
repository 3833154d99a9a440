package keychain_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/keychain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PreloadsProductionKey(t *testing.T) {
	k, err := keychain.New()
	require.NoError(t, err)

	ok := k.Verify("cache.nixos.org-1", []byte("anything"), "not-a-real-sig")
	assert.False(t, ok)

	// The production key's name is already taken by the preloaded entry.
	assert.ErrorIs(t, k.AddEncoded(keychain.NixOSCachePublicKey), domain.ErrKeyNameCollision)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	k, err := keychain.New()
	require.NoError(t, err)

	signer, err := keychain.GenerateSigner("test-key")
	require.NoError(t, err)

	require.NoError(t, k.Add(signer.Name, mustPublicKey(t, signer)))

	data := []byte("1;/nix/store/aaaa-sys;sha256:bbbb;123;")
	sig := signer.Sign(data)

	assert.True(t, k.Verify("test-key", data, sig))
}

func TestVerify_FailsForWrongKey(t *testing.T) {
	k, err := keychain.New()
	require.NoError(t, err)

	signerA, err := keychain.GenerateSigner("key-a")
	require.NoError(t, err)
	signerB, err := keychain.GenerateSigner("key-b")
	require.NoError(t, err)

	require.NoError(t, k.Add(signerA.Name, mustPublicKey(t, signerA)))
	require.NoError(t, k.Add(signerB.Name, mustPublicKey(t, signerB)))

	data := []byte("payload")
	sigFromB := signerB.Sign(data)

	assert.False(t, k.Verify("key-a", data, sigFromB))
}

func TestAdd_RejectsDuplicateName(t *testing.T) {
	k, err := keychain.New()
	require.NoError(t, err)

	signer, err := keychain.GenerateSigner("dup")
	require.NoError(t, err)
	require.NoError(t, k.Add(signer.Name, mustPublicKey(t, signer)))

	err = k.Add(signer.Name, mustPublicKey(t, signer))
	assert.ErrorIs(t, err, domain.ErrKeyNameCollision)
}

func TestVerifyAny(t *testing.T) {
	k, err := keychain.New()
	require.NoError(t, err)

	signer, err := keychain.GenerateSigner("only-key")
	require.NoError(t, err)
	require.NoError(t, k.Add(signer.Name, mustPublicKey(t, signer)))

	data := []byte("fingerprint-bytes")
	sigs := []domain.Signature{
		{KeyName: "unknown-key", SigB64: "garbage"},
		signer.SignNamed(data),
	}

	assert.True(t, k.VerifyAny(data, sigs))
}

func mustPublicKey(t *testing.T, s *keychain.Signer) ed25519.PublicKey {
	t.Helper()
	_, pub, err := keychain.ParsePublicKey(s.PublicKeyEncoded())
	require.NoError(t, err)
	return pub
}
