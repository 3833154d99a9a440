package agentstate_test

import (
	"encoding/json"
	"testing"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// TestAgentStateDocument_MatchesGoldenSnapshot locks down the exact on-disk
// shape of the persisted agent-state document, per spec §6/§8 scenario 1
// (fresh-install recovery producing a single stable configuration).
func TestAgentStateDocument_MatchesGoldenSnapshot(t *testing.T) {
	state := &domain.AgentState{
		SystemConfigurations: []domain.SystemConfiguration{
			{
				VersionNumber:   3,
				SystemPackageID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa-sys",
				PackageIDs:      []string{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa-sys"},
			},
		},
		CurrentStatus: domain.NewStatus(),
	}

	raw, err := json.MarshalIndent(state, "", "  ")
	require.NoError(t, err)
	raw = append(raw, '\n')

	g := goldie.New(t)
	g.Assert(t, "agent_state_fresh_install", raw)
}
