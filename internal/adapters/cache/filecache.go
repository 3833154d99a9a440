package cache

import (
	"os"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"go.trai.ch/zerr"
)

// FileCache is the narinfo cache: a flat directory with one file per hash
// (§4.4 step 1).
type FileCache struct {
	Dir string
}

// NewFileCache builds a FileCache rooted at dir.
func NewFileCache(dir string) *FileCache {
	return &FileCache{Dir: dir}
}

// Get reads a cached narinfo response, reporting (nil, false, nil) if absent.
func (f *FileCache) Get(hash string) ([]byte, bool, error) {
	data, err := os.ReadFile(domain.NarinfoCachePath(f.Dir, hash))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, "reading cached narinfo"), "hash", hash)
	}
	return data, true, nil
}

// Put stores a narinfo response verbatim, creating the cache directory if needed.
func (f *FileCache) Put(hash string, raw []byte) error {
	if err := os.MkdirAll(f.Dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "creating narinfo cache directory"), "dir", f.Dir)
	}
	path := domain.NarinfoCachePath(f.Dir, hash)
	if err := os.WriteFile(path, raw, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "writing cached narinfo"), "path", path)
	}
	return nil
}

// Delete removes a cached narinfo entry, if present. Non-existence is a no-op.
func (f *FileCache) Delete(hash string) error {
	path := domain.NarinfoCachePath(f.Dir, hash)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return zerr.With(zerr.Wrap(err, "deleting cached narinfo"), "path", path)
	}
	return nil
}
