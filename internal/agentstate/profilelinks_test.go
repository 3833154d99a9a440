package agentstate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DanielSidhion/nixless-agent/internal/agentstate"
	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/stretchr/testify/require"
)

// RepairProfileLinks itself is exercised exhaustively by
// pathutil.RepairProfileLinks's own tests; this only checks that the
// agentstate wrapper forwards state correctly.
func TestRepairProfileLinks_ForwardsToPathutil(t *testing.T) {
	nixState := t.TempDir()
	store := t.TempDir()

	require.NoError(t, os.Mkdir(filepath.Join(store, "aaaa-sys"), 0o755))

	state := &domain.AgentState{
		SystemConfigurations: []domain.SystemConfiguration{
			{VersionNumber: 1, SystemPackageID: "aaaa-sys"},
		},
	}

	require.NoError(t, agentstate.RepairProfileLinks(nixState, store, state))

	link, err := os.Readlink(domain.SystemLinkPath(nixState))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(store, "aaaa-sys"), link)
}
