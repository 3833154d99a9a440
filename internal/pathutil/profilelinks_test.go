package pathutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairProfileLinks_CreatesAndPrunesLinks(t *testing.T) {
	nixState := t.TempDir()
	store := t.TempDir()

	require.NoError(t, os.Mkdir(filepath.Join(store, "aaaa-sys"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(store, "bbbb-sys"), 0o755))

	profilesDir := domain.ProfilesDir(nixState)
	require.NoError(t, os.MkdirAll(profilesDir, 0o755))
	// A stale link for a version no longer retained.
	require.NoError(t, os.Symlink(filepath.Join(store, "zzzz-old"), filepath.Join(profilesDir, "system-2-link")))

	configs := []domain.SystemConfiguration{
		domain.Tombstone(),
		{VersionNumber: 3, SystemPackageID: "aaaa-sys"},
		{VersionNumber: 4, SystemPackageID: "bbbb-sys"},
	}

	require.NoError(t, pathutil.RepairProfileLinks(nixState, store, configs))

	_, err := os.Lstat(filepath.Join(profilesDir, "system-2-link"))
	assert.True(t, os.IsNotExist(err))

	link3, err := os.Readlink(filepath.Join(profilesDir, "system-3-link"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store, "aaaa-sys"), link3)

	link4, err := os.Readlink(filepath.Join(profilesDir, "system-4-link"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store, "bbbb-sys"), link4)

	system, err := os.Readlink(domain.SystemLinkPath(nixState))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store, "bbbb-sys"), system)
}

func TestRemoveOrphanedTemporarySymlinks(t *testing.T) {
	nixState := t.TempDir()
	profilesDir := domain.ProfilesDir(nixState)
	require.NoError(t, os.MkdirAll(profilesDir, 0o755))

	orphan := filepath.Join(profilesDir, "system-temporary")
	require.NoError(t, os.Symlink("/nix/store/aaaa-sys", orphan))
	keep := filepath.Join(profilesDir, "system-3-link")
	require.NoError(t, os.Symlink("/nix/store/aaaa-sys", keep))

	require.NoError(t, pathutil.RemoveOrphanedTemporarySymlinks(nixState))

	_, err := os.Lstat(orphan)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Lstat(keep)
	assert.NoError(t, err)
}
