package pathutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"go.trai.ch/zerr"
)

// RepairProfileLinks re-establishes invariants 3-4 of the agent state: a
// "system-N-link" symlink for every retained configuration version, no
// "system-N-link" for any other version, and "system" pointing at the
// newest one. Configurations must be in ascending version order; the
// tombstone (version 0) is skipped, as it has no store package to link to.
func RepairProfileLinks(nixStateDir, storeDir string, configurations []domain.SystemConfiguration) error {
	profilesDir := domain.ProfilesDir(nixStateDir)
	if err := os.MkdirAll(profilesDir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "creating profiles directory"), "path", profilesDir)
	}

	retained := make(map[uint32]struct{}, len(configurations))
	var latest *domain.SystemConfiguration
	for i := range configurations {
		cfg := configurations[i]
		if cfg.IsTombstone() {
			continue
		}
		retained[cfg.VersionNumber] = struct{}{}
		if latest == nil || cfg.VersionNumber > latest.VersionNumber {
			latest = &configurations[i]
		}
	}

	if err := removeStaleSystemLinks(profilesDir, retained); err != nil {
		return err
	}

	for _, cfg := range configurations {
		if cfg.IsTombstone() {
			continue
		}
		linkPath := domain.SystemNumberedLinkPath(nixStateDir, cfg.VersionNumber)
		target := domain.StorePackageDir(storeDir, cfg.SystemPackageID)
		if err := OverwriteSymlinkAtomic(target, linkPath); err != nil {
			return err
		}
	}

	if latest != nil {
		target := domain.StorePackageDir(storeDir, latest.SystemPackageID)
		if err := OverwriteSymlinkAtomic(target, domain.SystemLinkPath(nixStateDir)); err != nil {
			return err
		}
	}

	return nil
}

func removeStaleSystemLinks(profilesDir string, retained map[uint32]struct{}) error {
	entries, err := os.ReadDir(profilesDir)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "reading profiles directory"), "path", profilesDir)
	}

	for _, entry := range entries {
		version, ok := parseSystemLinkVersion(entry.Name())
		if !ok {
			continue
		}
		if _, keep := retained[version]; keep {
			continue
		}
		path := filepath.Join(profilesDir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return zerr.With(zerr.Wrap(err, "removing stale profile link"), "path", path)
		}
	}

	return nil
}

// RemoveOrphanedTemporarySymlinks deletes leftover "*-temporary" sibling
// entries in the profiles directory: the atomic symlink swap always cleans
// these up on success, but a crash between create and rename can leave one
// behind.
func RemoveOrphanedTemporarySymlinks(nixStateDir string) error {
	profilesDir := domain.ProfilesDir(nixStateDir)
	entries, err := os.ReadDir(profilesDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, "reading profiles directory"), "path", profilesDir)
	}

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), domain.TemporarySymlinkSuffix) {
			continue
		}
		path := filepath.Join(profilesDir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return zerr.With(zerr.Wrap(err, "removing orphaned temporary symlink"), "path", path)
		}
	}

	return nil
}

// parseSystemLinkVersion extracts N from a "system-N-link" entry name.
func parseSystemLinkVersion(name string) (uint32, bool) {
	const prefix, suffix = "system-", "-link"
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return 0, false
	}
	middle := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
	version, err := strconv.ParseUint(middle, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(version), true
}
