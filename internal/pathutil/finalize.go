package pathutil

import (
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

// fixedModTime is the fixed modification timestamp every finalised store
// entry carries: exactly one second past the Unix epoch.
var fixedModTime = time.Unix(1, 0)

// fixedModTimespec is fixedModTime in unix.Timespec form.
var fixedModTimespec = unix.NsecToTimespec(fixedModTime.UnixNano())

// omitAtime tells the kernel to leave the access time untouched.
var omitAtime = unix.Timespec{Nsec: unix.UTIME_OMIT}

// FinalizeTree recursively canonicalises a freshly-extracted package
// directory in place: strips write permissions from non-symlinks, pins every
// entry's modification time to one second past the epoch, and takes
// uid=0/gid=0 ownership of everything, bottom-up, without following symlinks.
func FinalizeTree(root string) error {
	info, err := os.Lstat(root)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "stat for finalisation"), "path", root)
	}
	return finalizeEntry(root, info)
}

func finalizeEntry(path string, info os.FileInfo) error {
	isSymlink := info.Mode()&os.ModeSymlink != 0

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "reading directory for finalisation"), "path", path)
		}
		for _, entry := range entries {
			childPath := filepath.Join(path, entry.Name())
			childInfo, err := os.Lstat(childPath)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "stat child for finalisation"), "path", childPath)
			}
			if err := finalizeEntry(childPath, childInfo); err != nil {
				return err
			}
		}
	}

	if !isSymlink {
		if err := clearWriteBits(path, info.Mode()); err != nil {
			return err
		}
	}

	if err := setFixedMtime(path); err != nil {
		return err
	}

	if info.IsDir() {
		if err := os.Lchown(path, 0, 0); err != nil {
			return zerr.With(zerr.Wrap(err, "chowning directory"), "path", path)
		}
		return nil
	}

	if err := os.Lchown(path, 0, 0); err != nil {
		return zerr.With(zerr.Wrap(err, "chowning file or symlink"), "path", path)
	}

	return nil
}

func clearWriteBits(path string, mode os.FileMode) error {
	readOnly := mode &^ 0o222
	if readOnly == mode {
		return nil
	}
	if err := os.Chmod(path, readOnly); err != nil {
		return zerr.With(zerr.Wrap(err, "clearing write bits"), "path", path)
	}
	return nil
}

func setFixedMtime(path string) error {
	current, err := os.Lstat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "stat for mtime check"), "path", path)
	}
	if current.ModTime().Equal(fixedModTime) {
		return nil
	}

	times := [2]unix.Timespec{omitAtime, fixedModTimespec}
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, path, times[:], unix.AT_SYMLINK_NOFOLLOW); err != nil {
		return zerr.With(zerr.Wrap(err, "setting fixed mtime"), "path", path)
	}
	return nil
}
