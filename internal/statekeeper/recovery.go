package statekeeper

import (
	"github.com/DanielSidhion/nixless-agent/internal/agentstate"
	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
)

func initialState(nixStateDir string) *domain.AgentState {
	return agentstate.BuildInitialState(nixStateDir)
}

// resumeFromRecoveredStatus implements §4.9's "Initial recovery": inspect
// current_status and either settle into Standby (scheduling the crash-safety
// cleanup sweep) or resume whatever switch was interrupted by the last
// process exit. Called before the message loop starts; the messages it
// enqueues sit in the buffered inbox until run() begins consuming them.
func (k *StateKeeper) resumeFromRecoveredStatus() {
	switch k.state.CurrentStatus.Kind {
	case domain.StatusNew, domain.StatusStandby:
		k.state.CurrentStatus = domain.StandbyStatus()
		k.enqueueSelf(msgCleanUpStateDir{})

	case domain.StatusFailedSwitch:
		// Remains read-only: new switches are refused until a rollback
		// succeeds, per §4.9. Nothing to resume.

	case domain.StatusDownloadingNewConfiguration:
		cfg := k.state.CurrentStatus.Configuration
		k.spawnSwitchTask(cfg, switchModeFull)

	case domain.StatusSwitchingToConfiguration:
		// The persisted status carries no record of whether the in-flight
		// switch it describes was a forward switch or a rollback (state.go's
		// Status schema has a single SwitchingToConfiguration(cfg) variant) —
		// and since outcome handling is identical either way, resuming
		// doesn't need to know which one it was.
		cfg := k.state.CurrentStatus.Configuration
		k.spawnSwitchTask(cfg, switchModeWaitOnly)
	}
}
