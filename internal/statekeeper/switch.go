package statekeeper

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/DanielSidhion/nixless-agent/internal/adapters/activation/trackerwatch"
	"github.com/DanielSidhion/nixless-agent/internal/agentstate"
	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"go.trai.ch/zerr"
)

// switchMode selects which prefix of the download/unpack/record/activate
// chain a given switch task needs to run, so the same task implementation
// serves forward switches, rollbacks, and the two flavors of crash recovery.
type switchMode int

const (
	// switchModeFull runs the whole chain: download, unpack, record the
	// start timestamp, activate, then wait for a terminal outcome.
	switchModeFull switchMode = iota
	// switchModeActivateOnly skips download/unpack (the target packages are
	// already in the store) but still records a fresh start timestamp.
	switchModeActivateOnly
	// switchModeWaitOnly skips straight to observing the outcome: the
	// process crashed after activation had already started.
	switchModeWaitOnly
)

// SwitchToNewConfiguration implements spec §4.9's top-level operation.
func (k *StateKeeper) SwitchToNewConfiguration(ctx context.Context, systemPackageID string, packageIDs []string) error {
	reply := make(chan error, 1)
	msg := msgSwitchToNewConfiguration{systemPackageID: systemPackageID, packageIDs: packageIDs, reply: reply}
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

func (k *StateKeeper) handleSwitchToNewConfiguration(m msgSwitchToNewConfiguration) {
	if k.state.CurrentStatus.Kind != domain.StatusStandby {
		m.reply <- zerr.With(domain.ErrStateViolation, "status", string(k.state.CurrentStatus.Kind))
		return
	}

	cfg := domain.SystemConfiguration{
		VersionNumber:   k.state.NextVersion(),
		SystemPackageID: m.systemPackageID,
		PackageIDs:      m.packageIDs,
	}

	previousStatus := k.state.CurrentStatus
	k.state.CurrentStatus = domain.DownloadingStatus(cfg)
	// Recovery resumes differently depending on whether this status or
	// SwitchingToConfiguration is found on restart: DownloadingNewConfiguration
	// re-issues the download; SwitchingToConfiguration (set once download and
	// unpack succeed, see onConfigurationDownloadComplete) resumes the wait
	// loop only.
	if err := k.stateStore.Save(k.state); err != nil {
		k.state.CurrentStatus = previousStatus
		m.reply <- err
		return
	}

	m.reply <- nil

	k.spawnSwitchTask(cfg, switchModeFull)
}

func (k *StateKeeper) spawnSwitchTask(cfg domain.SystemConfiguration, mode switchMode) {
	ctx, cancel := context.WithCancel(context.Background())
	k.switchInFlight = true
	k.switchCancel = cancel
	k.switchStartedAt = k.clock.Now()

	go func() {
		outcome, err := k.runSwitchTask(ctx, cfg, mode)
		msg := msgConfigurationSwitchStartResult{cfg: cfg, outcome: outcome, err: err}
		select {
		case k.inbox <- msg:
		case <-ctx.Done():
		}
	}()
}

func (k *StateKeeper) runSwitchTask(ctx context.Context, cfg domain.SystemConfiguration, mode switchMode) (ports.SwitchOutcome, error) {
	if mode == switchModeFull {
		downloads, err := k.downloader.DownloadPackages(ctx, cfg.PackageIDs)
		if err != nil {
			return ports.SwitchOutcome{}, zerr.Wrap(err, "downloading configuration packages")
		}
		if err := k.unpacker.UnpackDownloads(ctx, downloads); err != nil {
			return ports.SwitchOutcome{}, zerr.Wrap(err, "unpacking configuration packages")
		}

		select {
		case k.inbox <- msgConfigurationDownloadComplete{cfg: cfg}:
		case <-ctx.Done():
			return ports.SwitchOutcome{}, ctx.Err()
		}
	}

	if mode != switchModeWaitOnly {
		if err := k.recordSwitchStartTime(); err != nil {
			return ports.SwitchOutcome{}, zerr.Wrap(err, "recording switch start time")
		}

		systemPackagePath := domain.StorePackageDir(k.storeDir, cfg.SystemPackageID)
		if err := k.activationDriver.PerformConfigurationSwitch(ctx, systemPackagePath); err != nil {
			return ports.SwitchOutcome{}, zerr.Wrap(err, "starting activation unit")
		}
	}

	return k.awaitSwitchOutcome(ctx)
}

func (k *StateKeeper) recordSwitchStartTime() error {
	path := filepath.Join(k.stateDir, domain.SwitchStartTimeFileName)
	raw, err := json.Marshal(k.clock.Now())
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.PrivateFilePerm)
}

// awaitSwitchOutcome implements the post-switch wait loop from §4.9's
// recovery description: check_switching_status, and if InProgress, block on
// the activation driver's wait before checking again. A trackerwatch is
// raced alongside the driver's wait purely to unblock sooner if the tracker
// files land before the next dbus poll tick resolves the unit's ActiveState.
func (k *StateKeeper) awaitSwitchOutcome(ctx context.Context) (ports.SwitchOutcome, error) {
	watch, err := trackerwatch.Start(ctx, k.stateDir)
	if err != nil {
		k.logger.Warn("starting tracker watch failed, falling back to driver polling alone", "error", err)
		watch = nil
	} else {
		defer watch.Stop()
	}

	for {
		status, outcome, err := k.outcomeChecker.CheckSwitchingStatus(k.stateDir)
		if err != nil {
			return ports.SwitchOutcome{}, zerr.Wrap(err, "checking switching status")
		}

		switch status {
		case ports.SwitchSuccessful:
			return outcome, nil
		case ports.SwitchFailed:
			return outcome, zerr.With(domain.ErrActivationFailed, "service_result", outcome.ServiceResult, "exit_status", outcome.ExitStatus)
		default: // ports.SwitchInProgress
			if err := k.waitForSwitchProgress(ctx, watch); err != nil {
				return ports.SwitchOutcome{}, err
			}
		}
	}
}

func (k *StateKeeper) waitForSwitchProgress(ctx context.Context, watch *trackerwatch.Watch) error {
	done := make(chan error, 1)
	go func() { done <- k.activationDriver.WaitConfigurationSwitchComplete(ctx) }()

	if watch == nil {
		return <-done
	}

	select {
	case err := <-done:
		return err
	case <-watch.Events():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (k *StateKeeper) onConfigurationDownloadComplete(m msgConfigurationDownloadComplete) {
	if k.state.CurrentStatus.Kind != domain.StatusDownloadingNewConfiguration {
		// Stale: the switch was already resolved (or aborted by shutdown)
		// before this message was processed.
		return
	}

	k.state.CurrentStatus = domain.SwitchingStatus(m.cfg)
	if err := k.stateStore.Save(k.state); err != nil {
		k.logger.Error("persisting switching-to-configuration status", err)
	}
}

func (k *StateKeeper) handleConfigurationSwitchResult(m msgConfigurationSwitchStartResult) {
	k.switchInFlight = false
	k.switchCancel = nil

	k.recordSwitchDurationMetric(context.Background(), k.clock.Now().Sub(k.switchStartedAt), m.err == nil)

	if m.err != nil {
		k.state.CurrentStatus = domain.FailedSwitchStatus(m.cfg)
		if err := k.stateStore.Save(k.state); err != nil {
			k.logger.Error("persisting failed switch state", err)
		}
		k.logger.Error("configuration switch failed", m.err, "version", m.cfg.VersionNumber)
		return
	}

	k.state.CurrentStatus = domain.StandbyStatus()
	k.stableSince = k.clock.Now()

	// Outcome handling is identical to a forward switch regardless of how
	// m.cfg's package set was chosen: a rollback mints its own fresh
	// version number (see handlePerformRollback), so this is always a new
	// history entry. The persisted history stays append-only and strictly
	// increasing in version (§8 "History monotonicity"); "system" always
	// points at the highest version ever promoted, matching ordinary Nix
	// generation semantics.
	k.state.SystemConfigurations = append(k.state.SystemConfigurations, m.cfg)

	if err := k.stateStore.Save(k.state); err != nil {
		k.logger.Error("persisting successful switch state", err)
		return
	}

	if err := agentstate.RepairProfileLinks(k.nixStateDir, k.storeDir, k.state); err != nil {
		k.logger.Error("repairing profile links", err)
	}
	k.enqueueSelf(msgCleanupConfigurationHistory{})
}
