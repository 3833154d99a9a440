package statekeeper

import (
	"context"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"go.trai.ch/zerr"
)

// PerformRollback implements spec §4.9's rollback operation: reactivate an
// already-downloaded configuration from history, either an explicit version
// or (toVersion == nil) the one immediately before the current entry.
func (k *StateKeeper) PerformRollback(ctx context.Context, toVersion *uint32) error {
	reply := make(chan error, 1)
	msg := msgPerformRollback{toVersion: toVersion, reply: reply}
	if err := k.send(ctx, msg); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (k *StateKeeper) handlePerformRollback(m msgPerformRollback) {
	switch k.state.CurrentStatus.Kind {
	case domain.StatusStandby, domain.StatusFailedSwitch:
	default:
		m.reply <- zerr.With(domain.ErrStateViolation, "status", string(k.state.CurrentStatus.Kind))
		return
	}

	target, err := k.resolveRollbackTarget(m.toVersion)
	if err != nil {
		m.reply <- err
		return
	}

	// A rollback reactivates the package set of an earlier configuration,
	// but it's still a new entry in the version history: invariant 5 (a
	// status-carried configuration's version_number is always
	// latest_stable + 1) makes no exception for rollbacks, and neither
	// does outcome handling downstream (handleConfigurationSwitchResult
	// treats every successful switch identically regardless of how its
	// package set was chosen).
	cfg := domain.SystemConfiguration{
		VersionNumber:   k.state.NextVersion(),
		SystemPackageID: target.SystemPackageID,
		PackageIDs:      target.PackageIDs,
	}

	previousStatus := k.state.CurrentStatus
	k.state.CurrentStatus = domain.SwitchingStatus(cfg)
	if err := k.stateStore.Save(k.state); err != nil {
		k.state.CurrentStatus = previousStatus
		m.reply <- err
		return
	}

	m.reply <- nil

	k.spawnSwitchTask(cfg, switchModeActivateOnly)
}

// resolveRollbackTarget picks the configuration a rollback should reactivate.
// An explicit toVersion is looked up directly; nil means "the configuration
// immediately before the most recent one", which is always the second-to-last
// entry of SystemConfigurations regardless of current status — a failed
// switch's configuration was never appended, so the last entry is always the
// most recently successful one either way.
func (k *StateKeeper) resolveRollbackTarget(toVersion *uint32) (domain.SystemConfiguration, error) {
	if toVersion != nil {
		if *toVersion == domain.TombstoneVersion {
			return domain.SystemConfiguration{}, domain.ErrRollbackToTombstone
		}
		cfg, ok := k.state.FindConfiguration(*toVersion)
		if !ok {
			return domain.SystemConfiguration{}, zerr.With(domain.ErrConfigurationNotFound, "version", *toVersion)
		}
		return cfg, nil
	}

	configs := k.state.SystemConfigurations
	if len(configs) < 2 {
		return domain.SystemConfiguration{}, domain.ErrNoRollbackTarget
	}
	target := configs[len(configs)-2]
	if target.IsTombstone() {
		return domain.SystemConfiguration{}, domain.ErrRollbackToTombstone
	}
	return target, nil
}
