package downloader

import (
	"context"
	"crypto/sha256"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"github.com/DanielSidhion/nixless-agent/internal/fingerprint"
	"github.com/DanielSidhion/nixless-agent/internal/hashcodec"
	"github.com/ulikunitz/xz"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// downloadPackages is the body of DownloadPackages, run inside the actor loop.
func (d *Downloader) downloadPackages(ctx context.Context, ids []string) ([]ports.NarDownloadResult, error) {
	d.mu.Lock()
	existing := make(map[string]struct{}, len(d.existingStorePackageIDs))
	for id := range d.existingStorePackageIDs {
		existing[id] = struct{}{}
	}
	d.mu.Unlock()

	results := make([]ports.NarDownloadResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.maxParallel)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			_, present := existing[id]
			res, err := d.fetchOne(gctx, id, present)
			if err != nil {
				return zerr.With(err, "package_id", id)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	for _, res := range results {
		if !res.IsAlreadyUnpacked {
			d.existingStorePackageIDs[res.PackageID] = struct{}{}
		}
	}
	snapshot := make(map[string]struct{}, len(d.existingStorePackageIDs))
	for id := range d.existingStorePackageIDs {
		snapshot[id] = struct{}{}
	}
	d.mu.Unlock()

	for _, res := range results {
		for _, ref := range res.ReferenceIDs {
			if _, ok := snapshot[ref]; !ok {
				return nil, zerr.With(domain.ErrMissingReferences, "reference", ref)
			}
		}
	}

	return results, nil
}

// fetchOne fetches (or, for already-present packages, just confirms) a
// single package's metadata, verifying signatures, and — when missing —
// streams and verifies the archive body, per spec §4.4.
func (d *Downloader) fetchOne(ctx context.Context, id string, alreadyPresent bool) (ports.NarDownloadResult, error) {
	packageHash, err := domain.HashFromPackageID(id)
	if err != nil {
		return ports.NarDownloadResult{}, err
	}

	info, err := d.fetchNarinfo(ctx, packageHash, id)
	if err != nil {
		return ports.NarDownloadResult{}, err
	}

	if err := validateHashFormat(info); err != nil {
		return ports.NarDownloadResult{}, err
	}

	if !fingerprint.Verify(info, d.keychain) {
		return ports.NarDownloadResult{}, domain.ErrSignatureVerificationFailed
	}

	references := trimReferences(info.References)

	if alreadyPresent {
		return ports.NarDownloadResult{
			PackageID:         id,
			NarPath:           d.narDestinationPath(info.URL),
			ReferenceIDs:      references,
			IsAlreadyUnpacked: true,
		}, nil
	}

	narPath, err := d.downloadBody(ctx, info)
	if err != nil {
		return ports.NarDownloadResult{}, err
	}

	return ports.NarDownloadResult{
		PackageID:         id,
		NarPath:           narPath,
		ReferenceIDs:      references,
		IsAlreadyUnpacked: false,
	}, nil
}

func (d *Downloader) fetchNarinfo(ctx context.Context, packageHash, id string) (*domain.Narinfo, error) {
	raw, cached, err := d.narinfoCache.Get(packageHash)
	if err != nil {
		return nil, err
	}
	if !cached {
		raw, err = d.cacheClient.FetchNarinfo(ctx, packageHash)
		if err != nil {
			return nil, err
		}
		if err := d.narinfoCache.Put(packageHash, raw); err != nil {
			return nil, err
		}
	}

	info, err := domain.ParseNarinfo(raw)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(info.StorePath, "/"+id) {
		return nil, zerr.With(domain.ErrNarinfoStorePathMismatch, "store_path", info.StorePath)
	}

	return info, nil
}

func validateHashFormat(info *domain.Narinfo) error {
	if !strings.HasPrefix(info.NarHash, "sha256:") {
		return zerr.With(domain.ErrBadHashFormat, "field", "nar_hash")
	}
	if info.HasFileHash() && !strings.HasPrefix(info.FileHash, "sha256:") {
		return zerr.With(domain.ErrBadHashFormat, "field", "file_hash")
	}
	return nil
}

// trimReferences returns info's reference ids, non-empty, per §4.4 step 6.
func trimReferences(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// narDestinationPath is the decompressed-body destination inside the temp
// download directory: the narinfo URL with any ".xz" suffix removed.
func (d *Downloader) narDestinationPath(url string) string {
	return filepath.Join(d.tempDir, strings.TrimSuffix(url, ".xz"))
}

func (d *Downloader) downloadBody(ctx context.Context, info *domain.Narinfo) (string, error) {
	body, err := d.cacheClient.FetchNar(ctx, info.URL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	compressedHash := sha256.New()
	taggedBody := io.TeeReader(body, compressedHash)

	var decompressed io.Reader
	if info.IsCompressed() {
		xzReader, err := xz.NewReader(taggedBody)
		if err != nil {
			return "", zerr.Wrap(err, "opening xz stream")
		}
		decompressed = xzReader
	} else {
		decompressed = taggedBody
	}

	decompressedHash := sha256.New()
	finalReader := io.TeeReader(decompressed, decompressedHash)

	destPath := d.narDestinationPath(info.URL)
	if err := os.MkdirAll(filepath.Dir(destPath), domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "creating temp download directory"), "path", destPath)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "creating destination file"), "path", destPath)
	}
	defer out.Close()

	if _, err := io.Copy(out, finalReader); err != nil {
		return "", zerr.With(zerr.Wrap(err, "writing downloaded archive"), "path", destPath)
	}

	if err := verifyDigest(decompressedHash, info.NarHashDigest()); err != nil {
		return "", err
	}
	if info.HasFileHash() {
		if err := verifyDigest(compressedHash, info.FileHashDigest()); err != nil {
			return "", err
		}
	}

	return destPath, nil
}

func verifyDigest(h hash.Hash, expected string) error {
	got := hashcodec.ToNix32(h.Sum(nil))
	if got != expected {
		return zerr.With(zerr.With(domain.ErrHashMismatch, "expected", expected), "got", got)
	}
	return nil
}
