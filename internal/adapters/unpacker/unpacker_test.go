package unpacker_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DanielSidhion/nixless-agent/internal/adapters/logger"
	"github.com/DanielSidhion/nixless-agent/internal/adapters/unpacker"
	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"github.com/nix-community/go-nix/pkg/nar"
	"github.com/stretchr/testify/require"
)

// buildNar writes a minimal single-file NAR archive to a buffer: a
// directory root containing one executable regular file.
func buildNar(t *testing.T, fileContents []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := nar.NewWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, w.WriteHeader(&nar.Header{Path: "", Type: nar.TypeDirectory}))
	require.NoError(t, w.WriteHeader(&nar.Header{
		Path:       "/bin",
		Type:       nar.TypeRegular,
		Executable: true,
		Size:       int64(len(fileContents)),
	}))
	_, err = w.Write(fileContents)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestUnpackDownloads_ExtractsAndFinalises(t *testing.T) {
	storeDir := t.TempDir()
	tempDownloadDir := t.TempDir()

	packageID := "abcdefghijklmnopqrstuvwxyz012345-hello"
	narPath := filepath.Join(tempDownloadDir, "hello.nar")
	require.NoError(t, os.WriteFile(narPath, buildNar(t, []byte("#!/bin/sh\necho hi\n")), domain.FilePerm))

	u := unpacker.Start(&domain.AgentConfig{StoreDir: storeDir}, logger.New(nil))
	t.Cleanup(func() { _ = u.Shutdown(context.Background()) })

	err := u.UnpackDownloads(context.Background(), []ports.NarDownloadResult{
		{PackageID: packageID, NarPath: narPath, IsAlreadyUnpacked: false},
	})
	require.NoError(t, err)

	finalDir := domain.StorePackageDir(storeDir, packageID)
	info, err := os.Lstat(finalDir)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	binInfo, err := os.Lstat(filepath.Join(finalDir, "bin"))
	require.NoError(t, err)
	require.False(t, binInfo.Mode().IsDir())
	require.Zero(t, binInfo.Mode().Perm()&0o222, "finalised file must not be writable")

	_, err = os.Stat(narPath)
	require.True(t, os.IsNotExist(err), "consumed archive should be removed")
}

func TestUnpackDownloads_SkipsAlreadyUnpacked(t *testing.T) {
	storeDir := t.TempDir()
	u := unpacker.Start(&domain.AgentConfig{StoreDir: storeDir}, logger.New(nil))
	t.Cleanup(func() { _ = u.Shutdown(context.Background()) })

	err := u.UnpackDownloads(context.Background(), []ports.NarDownloadResult{
		{PackageID: "already-present", NarPath: "/nonexistent", IsAlreadyUnpacked: true},
	})
	require.NoError(t, err)
}
