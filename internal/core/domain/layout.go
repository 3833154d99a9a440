// Package domain contains the core types of the nixless agent: package
// metadata, system configurations, persisted agent state, and the sentinel
// errors shared across components.
package domain

import (
	"path/filepath"
	"strconv"
)

const (
	// DirPerm is the default permission for directories the agent creates.
	DirPerm = 0o750

	// FilePerm is the default permission for world-readable files (e.g. narinfo cache entries).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for files holding persisted agent state.
	PrivateFilePerm = 0o600

	// StoreReadOnlyDirPerm is the permission finalised store directories are left at.
	StoreReadOnlyDirPerm = 0o555

	// StoreReadOnlyFilePerm is the permission finalised store files are left at.
	StoreReadOnlyFilePerm = 0o444

	// NixStateProfilesDirName is the directory under the nix state dir holding profile symlinks.
	NixStateProfilesDirName = "profiles"

	// SystemProfileName is the name of the profile symlink pointing at the current system.
	SystemProfileName = "system"

	// TemporarySymlinkSuffix is appended to a profile link's name while the atomic swap is in flight.
	TemporarySymlinkSuffix = "-temporary"

	// StateFileName is the name of the persisted agent-state JSON document.
	StateFileName = "state"

	// SwitchStartTimeFileName is the name of the file holding the JSON-encoded switch start timestamp.
	SwitchStartTimeFileName = "switch_start_time"

	// PreSwitchFileName is the tracker file written when ExecStartPre runs.
	PreSwitchFileName = "pre_switch"

	// SwitchSuccessFileName is the tracker file written when ExecStart exits 0.
	SwitchSuccessFileName = "switch_success"

	// PostSwitchFileName is the tracker file written when the activation unit exits.
	PostSwitchFileName = "post_switch"

	// TombstoneVersion is the reserved version number meaning "prior state unknown".
	TombstoneVersion uint32 = 0

	// TombstonePackageID is the package id recorded for the tombstone configuration.
	TombstonePackageID = "unknown"

	// RebootRequiredExitStatus is the exit_status recorded by the tracker when
	// switch-to-configuration succeeded but requires a reboot to fully apply.
	RebootRequiredExitStatus = "100"

	// ExitCodeServiceResult is the service_result the tracker reports for a
	// normal process exit (as opposed to e.g. a signal).
	ExitCodeServiceResult = "exit-code"

	// CurrentSystemPath is the canonical path the bootloader/init points at.
	CurrentSystemPath = "/run/current-system"
)

// ProfilesDir returns the profiles directory under the given nix state directory.
func ProfilesDir(nixStateDir string) string {
	return filepath.Join(nixStateDir, "nix", NixStateProfilesDirName)
}

// SystemLinkPath returns the path of the "system" profile symlink.
func SystemLinkPath(nixStateDir string) string {
	return filepath.Join(ProfilesDir(nixStateDir), SystemProfileName)
}

// SystemNumberedLinkPath returns the path of the "system-N-link" symlink for version n.
func SystemNumberedLinkPath(nixStateDir string, n uint32) string {
	return filepath.Join(ProfilesDir(nixStateDir), systemLinkName(n))
}

func systemLinkName(n uint32) string {
	return "system-" + strconv.FormatUint(uint64(n), 10) + "-link"
}

// StorePackageDir returns the path of a package's directory inside the store.
func StorePackageDir(storeDir, packageID string) string {
	return filepath.Join(storeDir, packageID)
}

// NarinfoCachePath returns the path of a cached narinfo file for the given hash.
func NarinfoCachePath(narinfoCacheDir, hash string) string {
	return filepath.Join(narinfoCacheDir, hash)
}
