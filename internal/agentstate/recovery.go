package agentstate

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
)

// BuildInitialState constructs the agent-state document for a first-ever
// start (no persisted state file found), by inspecting /run/current-system
// and the profiles directory (§8 boundary behaviour, scenario 1).
func BuildInitialState(nixStateDir string) *domain.AgentState {
	return BuildInitialStateFromSystemLink(nixStateDir, domain.CurrentSystemPath)
}

// BuildInitialStateFromSystemLink is BuildInitialState with the
// current-system symlink path overridable, for testing.
//
// If currentSystemPath is absent, or present but not a directory, the
// initial configuration is the tombstone. Otherwise the package id is read
// off the symlink target and the version number is recovered from whichever
// "system-N-link" entry points at the same target (falling back to version 1
// if none does).
func BuildInitialStateFromSystemLink(nixStateDir, currentSystemPath string) *domain.AgentState {
	cfg := deriveRunningConfiguration(nixStateDir, currentSystemPath)

	return &domain.AgentState{
		SystemConfigurations: []domain.SystemConfiguration{cfg},
		CurrentStatus:        domain.NewStatus(),
		PackagesToCleanup:    nil,
	}
}

func deriveRunningConfiguration(nixStateDir, currentSystemPath string) domain.SystemConfiguration {
	target, err := os.Readlink(currentSystemPath)
	if err != nil {
		return domain.Tombstone()
	}

	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return domain.Tombstone()
	}

	packageID := filepath.Base(target)
	version := findMatchingLinkVersion(nixStateDir, target)

	return domain.SystemConfiguration{
		VersionNumber:   version,
		SystemPackageID: packageID,
		PackageIDs:      []string{packageID},
	}
}

// findMatchingLinkVersion looks for a "system-N-link" in the profiles
// directory resolving to the same target as /run/current-system, returning
// its version. Falls back to 1 if no link matches (a fresh store with no
// profile history yet, but a live current-system symlink).
func findMatchingLinkVersion(nixStateDir, target string) uint32 {
	profilesDir := domain.ProfilesDir(nixStateDir)

	entries, err := os.ReadDir(profilesDir)
	if err != nil {
		return 1
	}

	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "system-") || !strings.HasSuffix(name, "-link") {
			continue
		}
		linkPath := filepath.Join(profilesDir, name)
		linkTarget, err := os.Readlink(linkPath)
		if err != nil || linkTarget != target {
			continue
		}
		version, ok := parseSystemLinkVersion(name)
		if ok {
			return version
		}
	}

	return 1
}

// parseSystemLinkVersion mirrors pathutil's unexported helper of the same
// shape, kept local since recovery only needs the read half.
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
