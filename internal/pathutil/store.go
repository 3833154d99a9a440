package pathutil

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// EnumerateStorePackageIDs lists the immediate child directory names of
// storeDir, i.e. the package ids currently present in the store.
func EnumerateStorePackageIDs(storeDir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(storeDir)
	if os.IsNotExist(err) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "reading store directory"), "store_dir", storeDir)
	}

	ids := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			ids[entry.Name()] = struct{}{}
		}
	}
	return ids, nil
}

// RemoveStorePackage recursively deletes a finalised (read-only) store
// package directory, restoring write permission along the way so the
// removal itself can proceed. A missing directory is a no-op.
func RemoveStorePackage(path string) error {
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return nil
	}

	if err := restoreWriteBitsRecursive(path); err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "removing store package"), "path", path)
	}
	return nil
}

func restoreWriteBitsRecursive(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "stat during write-bit restore"), "path", path)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		if err := os.Chmod(path, info.Mode()|0o200); err != nil {
			return zerr.With(zerr.Wrap(err, "restoring write bit"), "path", path)
		}
	}

	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "reading directory during write-bit restore"), "path", path)
	}
	for _, entry := range entries {
		if err := restoreWriteBitsRecursive(filepath.Join(path, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
