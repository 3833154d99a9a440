package deleter_test

import (
	"context"
	"os"
	"testing"

	"github.com/DanielSidhion/nixless-agent/internal/adapters/cache"
	"github.com/DanielSidhion/nixless-agent/internal/adapters/deleter"
	"github.com/DanielSidhion/nixless-agent/internal/adapters/logger"
	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestDeletePackages_RemovesStoreDirAndNarinfoCache(t *testing.T) {
	storeDir := t.TempDir()
	narinfoDir := t.TempDir()

	packageID := "abcdefghijklmnopqrstuvwxyz012345-hello"
	require.NoError(t, os.MkdirAll(domain.StorePackageDir(storeDir, packageID), domain.DirPerm))

	fc := cache.NewFileCache(narinfoDir)
	require.NoError(t, fc.Put("abcdefghijklmnopqrstuvwxyz012345", []byte("StorePath: x\n")))

	d := deleter.Start(&domain.AgentConfig{StoreDir: storeDir}, fc, logger.New(nil))
	t.Cleanup(func() { _ = d.Shutdown(context.Background()) })

	deleted, err := d.DeletePackages(context.Background(), []string{packageID})
	require.NoError(t, err)
	require.Equal(t, []string{packageID}, deleted)

	_, err = os.Stat(domain.StorePackageDir(storeDir, packageID))
	require.True(t, os.IsNotExist(err))

	_, ok, err := fc.Get("abcdefghijklmnopqrstuvwxyz012345")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDeletePackages_MissingPackageIsNoOp(t *testing.T) {
	storeDir := t.TempDir()
	fc := cache.NewFileCache(t.TempDir())

	d := deleter.Start(&domain.AgentConfig{StoreDir: storeDir}, fc, logger.New(nil))
	t.Cleanup(func() { _ = d.Shutdown(context.Background()) })

	deleted, err := d.DeletePackages(context.Background(), []string{"ghost-package"})
	require.NoError(t, err)
	require.Equal(t, []string{"ghost-package"}, deleted)
}
