package statekeeper

import (
	"context"

	"github.com/DanielSidhion/nixless-agent/internal/agentstate"
)

// handleCleanUpStateDir dispatches the crash-safety sweep (stale tracker
// files, orphaned temporary profile symlinks) described in §4.9's initial
// recovery. A no-op if one is already running.
func (k *StateKeeper) handleCleanUpStateDir() {
	if k.cleanupInFlight {
		return
	}
	k.cleanupInFlight = true

	stateDir := k.stateDir
	nixStateDir := k.nixStateDir

	go func() {
		err := agentstate.CleanUpStateDir(stateDir, nixStateDir)
		k.inbox <- msgCleanUpStateDirResult{err: err}
	}()
}

func (k *StateKeeper) onCleanUpStateDirResult(m msgCleanUpStateDirResult) {
	k.cleanupInFlight = false
	if m.err != nil {
		k.logger.Error("cleaning up state directory", m.err)
	}
}

// handleCleanupConfigurationHistory implements §8's history pruning: drop
// configurations beyond maxHistory (keeping the tombstone), repair profile
// links, and queue the packages that fell out of the retained set for
// deletion.
func (k *StateKeeper) handleCleanupConfigurationHistory() {
	retained, discarded := agentstate.PruneHistory(k.state.SystemConfigurations, k.maxHistory)
	k.state.SystemConfigurations = retained

	if len(discarded) > 0 {
		k.state.AddToCleanup(discarded)
	}

	if err := k.stateStore.Save(k.state); err != nil {
		k.logger.Error("persisting pruned configuration history", err)
		return
	}

	if err := agentstate.RepairProfileLinks(k.nixStateDir, k.storeDir, k.state); err != nil {
		k.logger.Error("repairing profile links after history prune", err)
	}

	k.dispatchDeleteTask()
}

// dispatchDeleteTask kicks off deletion of whatever is queued in
// PackagesToCleanup. A no-op if a deletion is already running or nothing is
// queued.
func (k *StateKeeper) dispatchDeleteTask() {
	if k.deleteInFlight || len(k.state.PackagesToCleanup) == 0 {
		return
	}
	k.deleteInFlight = true

	ids := make([]string, len(k.state.PackagesToCleanup))
	copy(ids, k.state.PackagesToCleanup)

	deleter := k.deleter

	go func() {
		deleted, err := deleter.DeletePackages(context.Background(), ids)
		k.inbox <- msgPackageDeletionResult{requested: ids, deleted: deleted, err: err}
	}()
}

func (k *StateKeeper) onPackageDeletionResult(m msgPackageDeletionResult) {
	k.deleteInFlight = false

	if len(m.deleted) > 0 {
		k.state.RemoveFromCleanup(m.deleted)
		if err := k.stateStore.Save(k.state); err != nil {
			k.logger.Error("persisting state after package deletion", err)
		}
	}

	if m.err != nil {
		k.logger.Error("deleting cleaned-up packages", m.err, "requested", len(m.requested), "deleted", len(m.deleted))
		return
	}

	k.logger.Info("deleted cleaned-up packages", "count", len(m.deleted))
}
