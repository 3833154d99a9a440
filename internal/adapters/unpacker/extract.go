package unpacker

import (
	"io"
	"os"
	"path/filepath"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"github.com/DanielSidhion/nixless-agent/internal/pathutil"
	"github.com/nix-community/go-nix/pkg/nar"
	"go.trai.ch/zerr"
)

// unpackOne extracts d's NAR into a staging sibling of the store directory,
// finalises it in place, then atomically renames it into its final
// <package-id> location, per spec §4.5.
func (u *Unpacker) unpackOne(d ports.NarDownloadResult) error {
	f, err := os.Open(d.NarPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "opening downloaded archive"), "path", d.NarPath)
	}
	defer f.Close()

	stagingPath := filepath.Join(u.storeDir, pathutil.RandomStagingName())
	if err := os.RemoveAll(stagingPath); err != nil {
		return zerr.With(zerr.Wrap(err, "clearing stale staging directory"), "path", stagingPath)
	}

	if err := extractNar(f, stagingPath); err != nil {
		_ = os.RemoveAll(stagingPath)
		return err
	}

	if err := pathutil.FinalizeTree(stagingPath); err != nil {
		_ = os.RemoveAll(stagingPath)
		return err
	}

	finalPath := domain.StorePackageDir(u.storeDir, d.PackageID)
	if err := os.Rename(stagingPath, finalPath); err != nil {
		_ = os.RemoveAll(stagingPath)
		return zerr.With(zerr.Wrap(err, "renaming staged package into place"), "path", finalPath)
	}

	if err := os.Remove(d.NarPath); err != nil && !os.IsNotExist(err) {
		return zerr.With(zerr.Wrap(err, "removing consumed archive"), "path", d.NarPath)
	}

	return nil
}

// extractNar walks r's entries, each path relative to nar root "/", and
// recreates them under dest. The root entry ("/" or "") maps to dest itself.
func extractNar(r io.Reader, dest string) error {
	nr, err := nar.NewReader(r)
	if err != nil {
		return zerr.Wrap(err, "opening nar reader")
	}

	for {
		header, err := nr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, "reading nar entry")
		}

		entryPath := filepath.Join(dest, header.Path)

		switch header.Type {
		case nar.TypeDirectory:
			if err := os.MkdirAll(entryPath, domain.DirPerm|0o200); err != nil {
				return zerr.With(zerr.Wrap(err, "creating extracted directory"), "path", entryPath)
			}
		case nar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(entryPath), domain.DirPerm|0o200); err != nil {
				return zerr.With(zerr.Wrap(err, "creating parent for extracted symlink"), "path", entryPath)
			}
			if err := os.Symlink(header.LinkTarget, entryPath); err != nil {
				return zerr.With(zerr.Wrap(err, "creating extracted symlink"), "path", entryPath)
			}
		case nar.TypeRegular:
			if err := writeRegularEntry(nr, entryPath, header.Executable); err != nil {
				return err
			}
		default:
			return zerr.With(zerr.New("unsupported nar entry type"), "path", entryPath)
		}
	}
}

func writeRegularEntry(r io.Reader, path string, executable bool) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm|0o200); err != nil {
		return zerr.With(zerr.Wrap(err, "creating parent for extracted file"), "path", path)
	}

	mode := os.FileMode(0o444)
	if executable {
		mode = 0o555
	}
	mode |= 0o200 // keep writable until finalisation strips it back off.

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "creating extracted file"), "path", path)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return zerr.With(zerr.Wrap(err, "writing extracted file"), "path", path)
	}

	return nil
}
