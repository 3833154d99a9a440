package agentstate

import (
	"os"
	"path/filepath"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/pathutil"
	"go.trai.ch/zerr"
)

// CleanUpStateDir removes crash-safety leftovers once recovery reaches
// Standby: stale switch-start-time files and orphaned "*-temporary" profile
// symlinks. Idempotent and safe to call repeatedly (E.3).
func CleanUpStateDir(stateDir, nixStateDir string) error {
	if err := removeStaleTrackerFiles(stateDir); err != nil {
		return err
	}
	return pathutil.RemoveOrphanedTemporarySymlinks(nixStateDir)
}

func removeStaleTrackerFiles(stateDir string) error {
	names := []string{
		domain.PreSwitchFileName,
		domain.SwitchSuccessFileName,
		domain.PostSwitchFileName,
		domain.SwitchStartTimeFileName,
	}
	for _, name := range names {
		path := filepath.Join(stateDir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return zerr.With(zerr.Wrap(err, "removing stale tracker file"), "path", path)
		}
	}
	return nil
}
