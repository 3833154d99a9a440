package domain_test

import (
	"testing"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNarinfo = `StorePath: /nix/store/58br4vk3q5akf4g8lx0pqzfhn47k3j8d-bash-5.2p37
URL: nar/1ncdraq4baqrdp773pmrpb6b3pngkym9278z1kg3qkxxj25s3mrw.nar.xz
Compression: xz
NarHash: sha256:07pyb1bl3q4ivh86vx6vjjivfsm1hqrwdfm5d2x8kk7qzysl5j4j
NarSize: 1654408
FileHash: sha256:1ncdraq4baqrdp773pmrpb6b3pngkym9278z1kg3qkxxj25s3mrw
FileSize: 445184
References: 58br4vk3q5akf4g8lx0pqzfhn47k3j8d-bash-5.2p37 rmy663w9p7xb202rcln4jjzmvivznmz8-glibc-2.40-66
Deriver: cfp8jh04f3jfdcjskw2p64ri3w6njndm-bash-5.2p37.drv
Sig: cache.nixos.org-1:jmkQzt2cr2aaXwrftMjybjNktqNZXcb+6LR8auhzEnIGzU9t6A3HU8Y67vraZJpgJ90XPNfkYiqUvXs5yiomAQ==
`

func TestParseNarinfo(t *testing.T) {
	n, err := domain.ParseNarinfo([]byte(sampleNarinfo))
	require.NoError(t, err)

	assert.Equal(t, "/nix/store/58br4vk3q5akf4g8lx0pqzfhn47k3j8d-bash-5.2p37", n.StorePath)
	assert.Equal(t, "xz", n.Compression)
	assert.Equal(t, "sha256:07pyb1bl3q4ivh86vx6vjjivfsm1hqrwdfm5d2x8kk7qzysl5j4j", n.NarHash)
	assert.EqualValues(t, 1654408, n.NarSize)
	assert.Equal(t, "sha256:1ncdraq4baqrdp773pmrpb6b3pngkym9278z1kg3qkxxj25s3mrw", n.FileHash)
	assert.EqualValues(t, 445184, n.FileSize)
	assert.Equal(t, []string{"58br4vk3q5akf4g8lx0pqzfhn47k3j8d-bash-5.2p37", "rmy663w9p7xb202rcln4jjzmvivznmz8-glibc-2.40-66"}, n.References)
	require.Len(t, n.Signatures, 1)
	assert.Equal(t, "cache.nixos.org-1", n.Signatures[0].KeyName)
	assert.Equal(t, "bash-5.2p37", n.PackageID()[len("58br4vk3q5akf4g8lx0pqzfhn47k3j8d-"):])
	assert.Equal(t, "/nix/store", n.StoreDir())
}

func TestParseNarinfo_EmptyReferences(t *testing.T) {
	const text = `StorePath: /nix/store/2kgif7n5hi16qhkrnjnv5swnq9aq3qhj-gcc-14-20241116-libgcc
URL: nar/1xabljs3h2qfbdfl1z0hbm1nvlcl27qlvdb8ib0j39f51rvka2dr.nar.xz
Compression: xz
NarHash: sha256:0wdfccp187mcmnbvk464zypkwdjnyfiwkf7d6q0wfinlk5z67j4i
NarSize: 201856
References:
`
	n, err := domain.ParseNarinfo([]byte(text))
	require.NoError(t, err)
	assert.Empty(t, n.References)
}

func TestParseNarinfo_RejectsMissingStorePath(t *testing.T) {
	_, err := domain.ParseNarinfo([]byte("URL: nar/foo.nar\n"))
	assert.Error(t, err)
}

func TestMarshalNarinfo_RoundTrips(t *testing.T) {
	n, err := domain.ParseNarinfo([]byte(sampleNarinfo))
	require.NoError(t, err)

	out := domain.MarshalNarinfo(n)
	reparsed, err := domain.ParseNarinfo(out)
	require.NoError(t, err)

	assert.Equal(t, n, reparsed)
}

func TestHashFromPackageID(t *testing.T) {
	hash, err := domain.HashFromPackageID("58br4vk3q5akf4g8lx0pqzfhn47k3j8d-bash-5.2p37")
	require.NoError(t, err)
	assert.Equal(t, "58br4vk3q5akf4g8lx0pqzfhn47k3j8d", hash)

	_, err = domain.HashFromPackageID("nodashhere")
	assert.ErrorIs(t, err, domain.ErrPackageIDMalformed)
}
