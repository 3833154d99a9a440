// Package pathutil implements the filesystem primitives the agent core
// depends on: atomic symlink swaps, recursive store-object finalisation, and
// store/profile enumeration.
package pathutil

import (
	"os"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"go.trai.ch/zerr"
)

// OverwriteSymlinkAtomic makes path a symlink pointing at target, replacing
// any existing entry at path without ever leaving an observable intermediate
// state. It's a no-op if path is already a symlink pointing at target.
func OverwriteSymlinkAtomic(target, path string) error {
	existing, err := os.Readlink(path)
	if err == nil && existing == target {
		return nil
	}

	tempPath := path + domain.TemporarySymlinkSuffix
	if err := os.RemoveAll(tempPath); err != nil {
		return zerr.With(zerr.Wrap(err, "clearing stale temporary symlink"), "path", tempPath)
	}
	if err := os.Symlink(target, tempPath); err != nil {
		return zerr.With(zerr.Wrap(err, "creating temporary symlink"), "path", tempPath)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return zerr.With(zerr.Wrap(err, "renaming temporary symlink into place"), "path", path)
	}

	return nil
}
