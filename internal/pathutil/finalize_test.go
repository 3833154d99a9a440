package pathutil_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DanielSidhion/nixless-agent/internal/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeTree_ClearsWriteBitsAndSetsTimestamp(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "bin")
	require.NoError(t, os.Mkdir(sub, 0o755))
	file := filepath.Join(sub, "hello")
	require.NoError(t, os.WriteFile(file, []byte("#!/bin/sh\n"), 0o755))

	require.NoError(t, pathutil.FinalizeTree(root))

	fileInfo, err := os.Lstat(file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o555), fileInfo.Mode().Perm())
	assert.Equal(t, time.Unix(1, 0).UTC(), fileInfo.ModTime().UTC())

	dirInfo, err := os.Lstat(sub)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o555), dirInfo.Mode().Perm())
}

func TestFinalizeTree_PreservesSymlinkTargets(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(target, link))

	require.NoError(t, pathutil.FinalizeTree(root))

	got, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}
