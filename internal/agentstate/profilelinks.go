package agentstate

import (
	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/pathutil"
)

// RepairProfileLinks re-derives every profile symlink (system-N-link for
// each retained configuration, and system pointing at the newest) from
// state, per §4.10. Thin wrapper kept here so the state keeper only depends
// on agentstate, not pathutil directly, for this orchestration step.
func RepairProfileLinks(nixStateDir, storeDir string, state *domain.AgentState) error {
	return pathutil.RepairProfileLinks(nixStateDir, storeDir, state.SystemConfigurations)
}
