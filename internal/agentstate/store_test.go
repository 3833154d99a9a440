package agentstate_test

import (
	"testing"

	"github.com/DanielSidhion/nixless-agent/internal/agentstate"
	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadMissingReturnsNilNil(t *testing.T) {
	store := agentstate.NewStore(t.TempDir())
	state, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, state)
}

func TestStore_SaveThenLoadRoundTrips(t *testing.T) {
	stateDir := t.TempDir()
	store := agentstate.NewStore(stateDir)

	original := &domain.AgentState{
		SystemConfigurations: []domain.SystemConfiguration{
			domain.Tombstone(),
			{VersionNumber: 1, SystemPackageID: "aaaa-sys", PackageIDs: []string{"aaaa-sys"}},
		},
		CurrentStatus:     domain.StandbyStatus(),
		PackagesToCleanup: []string{"zzzz-old"},
	}

	require.NoError(t, store.Save(original))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, original, loaded)
}

func TestStore_SaveRoundTripsSwitchingStatus(t *testing.T) {
	store := agentstate.NewStore(t.TempDir())

	cfg := domain.SystemConfiguration{VersionNumber: 2, SystemPackageID: "bbbb-sys", PackageIDs: []string{"bbbb-sys", "bbbb-dep"}}
	original := &domain.AgentState{
		SystemConfigurations: []domain.SystemConfiguration{cfg},
		CurrentStatus:        domain.SwitchingStatus(cfg),
	}

	require.NoError(t, store.Save(original))
	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, domain.StatusSwitchingToConfiguration, loaded.CurrentStatus.Kind)
	require.Equal(t, cfg, loaded.CurrentStatus.Configuration)
}
