package pathutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DanielSidhion/nixless-agent/internal/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateStorePackageIDs(t *testing.T) {
	store := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(store, "aaaa-pkg"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(store, "bbbb-pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(store, "not-a-dir"), []byte("x"), 0o644))

	ids, err := pathutil.EnumerateStorePackageIDs(store)
	require.NoError(t, err)

	assert.Len(t, ids, 2)
	_, ok := ids["aaaa-pkg"]
	assert.True(t, ok)
	_, ok = ids["not-a-dir"]
	assert.False(t, ok)
}

func TestEnumerateStorePackageIDs_MissingStoreDir(t *testing.T) {
	ids, err := pathutil.EnumerateStorePackageIDs(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRemoveStorePackage_RestoresWriteBitsThenDeletes(t *testing.T) {
	store := t.TempDir()
	pkg := filepath.Join(store, "aaaa-pkg")
	require.NoError(t, os.Mkdir(pkg, 0o755))
	file := filepath.Join(pkg, "data")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o444))
	require.NoError(t, os.Chmod(pkg, 0o555))

	require.NoError(t, pathutil.RemoveStorePackage(pkg))

	_, err := os.Lstat(pkg)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveStorePackage_MissingIsNoOp(t *testing.T) {
	assert.NoError(t, pathutil.RemoveStorePackage(filepath.Join(t.TempDir(), "missing")))
}
