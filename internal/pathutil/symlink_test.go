package pathutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DanielSidhion/nixless-agent/internal/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverwriteSymlinkAtomic_CreatesNewLink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	link := filepath.Join(dir, "link")
	require.NoError(t, pathutil.OverwriteSymlinkAtomic(target, link))

	got, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestOverwriteSymlinkAtomic_ReplacesExistingLink(t *testing.T) {
	dir := t.TempDir()
	targetA := filepath.Join(dir, "a")
	targetB := filepath.Join(dir, "b")
	link := filepath.Join(dir, "link")

	require.NoError(t, pathutil.OverwriteSymlinkAtomic(targetA, link))
	require.NoError(t, pathutil.OverwriteSymlinkAtomic(targetB, link))

	got, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, targetB, got)

	// No leftover temporary sibling.
	_, err = os.Lstat(link + "-temporary")
	assert.True(t, os.IsNotExist(err))
}

func TestOverwriteSymlinkAtomic_NoOpWhenAlreadyCorrect(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")

	require.NoError(t, pathutil.OverwriteSymlinkAtomic(target, link))
	info1, err := os.Lstat(link)
	require.NoError(t, err)

	require.NoError(t, pathutil.OverwriteSymlinkAtomic(target, link))
	info2, err := os.Lstat(link)
	require.NoError(t, err)

	assert.Equal(t, info1.ModTime(), info2.ModTime())
}
