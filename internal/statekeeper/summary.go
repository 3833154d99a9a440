package statekeeper

import (
	"time"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
)

// Summary is the read-only snapshot returned by GetSummary (§4.9, E.3): the
// stable configuration, the current status, and how long the agent has been
// in its current state.
type Summary struct {
	CurrentConfig     domain.SystemConfiguration
	Status            domain.Status
	OutstandingConfig *domain.SystemConfiguration
	StableSince       time.Time
	StableFor         time.Duration
	SwitchRunningFor  time.Duration
}

func (k *StateKeeper) buildSummary() Summary {
	now := k.clock.Now()

	s := Summary{
		CurrentConfig: k.state.LatestStable(),
		Status:        k.state.CurrentStatus,
		StableSince:   k.stableSince,
		StableFor:     now.Sub(k.stableSince),
	}

	if k.state.CurrentStatus.HasConfiguration() {
		cfg := k.state.CurrentStatus.Configuration
		s.OutstandingConfig = &cfg
	}

	if k.switchInFlight {
		s.SwitchRunningFor = now.Sub(k.switchStartedAt)
	}

	return s
}
