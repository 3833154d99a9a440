package statekeeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func standbyState(configs ...domain.SystemConfiguration) *domain.AgentState {
	return &domain.AgentState{
		SystemConfigurations: configs,
		CurrentStatus:        domain.StandbyStatus(),
	}
}

func TestSwitchToNewConfiguration_HappySwitchReachesStandbyAndAppendsHistory(t *testing.T) {
	h := newHarness(t)
	initial := standbyState(domain.SystemConfiguration{VersionNumber: 1, SystemPackageID: "aaaa-sys", PackageIDs: []string{"aaaa-sys"}})
	k := h.start(initial)

	downloads := []ports.NarDownloadResult{
		{PackageID: "bbbb-sys", NarPath: "/tmp/bbbb-sys.nar", IsAlreadyUnpacked: false},
		{PackageID: "bbbb-dep1", NarPath: "/tmp/bbbb-dep1.nar", IsAlreadyUnpacked: false},
	}

	h.downloader.EXPECT().DownloadPackages(gomock.Any(), []string{"bbbb-sys", "bbbb-dep1"}).Return(downloads, nil)
	h.unpacker.EXPECT().UnpackDownloads(gomock.Any(), downloads).Return(nil)
	h.activation.EXPECT().PerformConfigurationSwitch(gomock.Any(), domain.StorePackageDir(h.cfg.StoreDir, "bbbb-sys")).Return(nil)

	gomock.InOrder(
		h.outcome.EXPECT().CheckSwitchingStatus(h.cfg.StateDir).Return(ports.SwitchInProgress, ports.SwitchOutcome{}, nil),
		h.outcome.EXPECT().CheckSwitchingStatus(h.cfg.StateDir).Return(ports.SwitchSuccessful, ports.SwitchOutcome{Successful: true}, nil),
	)
	h.activation.EXPECT().WaitConfigurationSwitchComplete(gomock.Any()).Return(nil).AnyTimes()
	h.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()

	err := k.SwitchToNewConfiguration(context.Background(), "bbbb-sys", []string{"bbbb-sys", "bbbb-dep1"})
	require.NoError(t, err)

	summary := waitForStatus(t, k, domain.StatusStandby)
	assert.Equal(t, uint32(2), summary.CurrentConfig.VersionNumber)
	assert.Equal(t, "bbbb-sys", summary.CurrentConfig.SystemPackageID)
}

func TestSwitchToNewConfiguration_RefusedOutsideStandby(t *testing.T) {
	h := newHarness(t)
	cfg := domain.SystemConfiguration{VersionNumber: 2, SystemPackageID: "bbbb-sys", PackageIDs: []string{"bbbb-sys"}}
	initial := &domain.AgentState{
		SystemConfigurations: []domain.SystemConfiguration{{VersionNumber: 1, SystemPackageID: "aaaa-sys"}},
		CurrentStatus:        domain.FailedSwitchStatus(cfg),
	}
	k := h.start(initial)

	err := k.SwitchToNewConfiguration(context.Background(), "cccc-sys", []string{"cccc-sys"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStateViolation))
}

func TestSwitchToNewConfiguration_DownloadFailureMovesToFailedSwitch(t *testing.T) {
	h := newHarness(t)
	initial := standbyState(domain.SystemConfiguration{VersionNumber: 1, SystemPackageID: "aaaa-sys", PackageIDs: []string{"aaaa-sys"}})
	k := h.start(initial)

	h.downloader.EXPECT().DownloadPackages(gomock.Any(), []string{"bbbb-sys"}).Return(nil, domain.ErrHashMismatch)
	h.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()

	err := k.SwitchToNewConfiguration(context.Background(), "bbbb-sys", []string{"bbbb-sys"})
	require.NoError(t, err, "the ack only confirms the switch started, not that it succeeded")

	summary := waitForStatus(t, k, domain.StatusFailedSwitch)
	assert.Equal(t, "bbbb-sys", summary.Status.Configuration.SystemPackageID)
}

func TestPerformRollback_TargetsImmediatePreviousConfiguration(t *testing.T) {
	h := newHarness(t)
	initial := standbyState(
		domain.SystemConfiguration{VersionNumber: 1, SystemPackageID: "aaaa-sys", PackageIDs: []string{"aaaa-sys"}},
		domain.SystemConfiguration{VersionNumber: 2, SystemPackageID: "bbbb-sys", PackageIDs: []string{"bbbb-sys"}},
	)
	k := h.start(initial)

	h.activation.EXPECT().PerformConfigurationSwitch(gomock.Any(), domain.StorePackageDir(h.cfg.StoreDir, "aaaa-sys")).Return(nil)
	gomock.InOrder(
		h.outcome.EXPECT().CheckSwitchingStatus(h.cfg.StateDir).Return(ports.SwitchInProgress, ports.SwitchOutcome{}, nil),
		h.outcome.EXPECT().CheckSwitchingStatus(h.cfg.StateDir).Return(ports.SwitchSuccessful, ports.SwitchOutcome{Successful: true}, nil),
	)
	h.activation.EXPECT().WaitConfigurationSwitchComplete(gomock.Any()).Return(nil).AnyTimes()
	h.store.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()

	err := k.PerformRollback(context.Background(), nil)
	require.NoError(t, err)

	// A rollback mints a fresh version number for the reactivated package
	// set exactly like a forward switch does, and outcome handling is
	// identical to one: the new entry is appended to history, so the
	// stable configuration becomes v3 (aaaa-sys's packages under a new
	// version number), not the pre-rollback v2.
	summary := waitForStatus(t, k, domain.StatusStandby)
	assert.Equal(t, uint32(3), summary.CurrentConfig.VersionNumber)
	assert.Equal(t, "aaaa-sys", summary.CurrentConfig.SystemPackageID)
}

func TestPerformRollback_ExplicitTombstoneTargetRefused(t *testing.T) {
	h := newHarness(t)
	initial := standbyState(
		domain.Tombstone(),
		domain.SystemConfiguration{VersionNumber: 1, SystemPackageID: "aaaa-sys", PackageIDs: []string{"aaaa-sys"}},
	)
	k := h.start(initial)

	zero := domain.TombstoneVersion
	err := k.PerformRollback(context.Background(), &zero)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRollbackToTombstone))
}

func TestGetSummary_ReportsStableDuration(t *testing.T) {
	h := newHarness(t)
	initial := standbyState(domain.SystemConfiguration{VersionNumber: 1, SystemPackageID: "aaaa-sys", PackageIDs: []string{"aaaa-sys"}})
	k := h.start(initial)

	s, err := k.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusStandby, s.Status.Kind)
	assert.Nil(t, s.OutstandingConfig)
	assert.Greater(t, s.StableFor, time.Duration(0), "fakeClock always ticks forward")
}

func TestShutdown_StopsEveryDependentActor(t *testing.T) {
	h := newHarness(t)
	initial := standbyState(domain.SystemConfiguration{VersionNumber: 1, SystemPackageID: "aaaa-sys", PackageIDs: []string{"aaaa-sys"}})
	k := h.start(initial)

	h.downloader.EXPECT().Shutdown(gomock.Any()).Return(nil)
	h.unpacker.EXPECT().Shutdown(gomock.Any()).Return(nil)
	h.deleter.EXPECT().Shutdown(gomock.Any()).Return(nil)
	h.activation.EXPECT().Shutdown(gomock.Any()).Return(nil)

	require.NoError(t, k.Shutdown(context.Background()))
}
