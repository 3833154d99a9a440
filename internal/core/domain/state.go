package domain

import (
	"bytes"
	"encoding/json"
	"sort"

	"go.trai.ch/zerr"
)

// StatusKind distinguishes the variants of AgentState.CurrentStatus.
type StatusKind string

const (
	StatusNew                        StatusKind = "New"
	StatusStandby                     StatusKind = "Standby"
	StatusFailedSwitch                StatusKind = "FailedSwitch"
	StatusDownloadingNewConfiguration StatusKind = "DownloadingNewConfiguration"
	StatusSwitchingToConfiguration    StatusKind = "SwitchingToConfiguration"
)

// Status is the agent's current_status field: a tagged union over the five
// states in which the state keeper can find itself. Kind determines which
// (if any) Configuration is populated; New and Standby carry none.
type Status struct {
	Kind          StatusKind
	Configuration SystemConfiguration
}

// NewStatus, StandbyStatus are the two configuration-less statuses.
func NewStatus() Status     { return Status{Kind: StatusNew} }
func StandbyStatus() Status { return Status{Kind: StatusStandby} }

// FailedSwitchStatus, DownloadingStatus, SwitchingStatus carry the
// configuration the status is about.
func FailedSwitchStatus(cfg SystemConfiguration) Status {
	return Status{Kind: StatusFailedSwitch, Configuration: cfg}
}

func DownloadingStatus(cfg SystemConfiguration) Status {
	return Status{Kind: StatusDownloadingNewConfiguration, Configuration: cfg}
}

func SwitchingStatus(cfg SystemConfiguration) Status {
	return Status{Kind: StatusSwitchingToConfiguration, Configuration: cfg}
}

// HasConfiguration reports whether this status carries a configuration.
func (s Status) HasConfiguration() bool {
	switch s.Kind {
	case StatusFailedSwitch, StatusDownloadingNewConfiguration, StatusSwitchingToConfiguration:
		return true
	default:
		return false
	}
}

type configurationEnvelope struct {
	Configuration SystemConfiguration `json:"configuration"`
}

// MarshalJSON renders Status per the agent-state schema: the bare string
// "New"/"Standby" for the configuration-less variants, or a single-key object
// wrapping the configuration for the other three.
func (s Status) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case StatusNew, StatusStandby:
		return json.Marshal(string(s.Kind))
	case StatusFailedSwitch, StatusDownloadingNewConfiguration, StatusSwitchingToConfiguration:
		wrapper := map[string]configurationEnvelope{
			string(s.Kind): {Configuration: s.Configuration},
		}
		return json.Marshal(wrapper)
	default:
		return nil, zerr.With(zerr.New("unknown status kind"), "kind", string(s.Kind))
	}
}

// UnmarshalJSON parses either the bare-string form or the single-key object form.
func (s *Status) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return zerr.Wrap(err, "decoding status string")
		}
		switch StatusKind(name) {
		case StatusNew:
			*s = NewStatus()
		case StatusStandby:
			*s = StandbyStatus()
		default:
			return zerr.With(zerr.New("unrecognised bare status"), "value", name)
		}
		return nil
	}

	var wrapper map[string]configurationEnvelope
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return zerr.Wrap(err, "decoding status object")
	}
	if len(wrapper) != 1 {
		return zerr.With(zerr.New("status object must have exactly one key"), "keys", len(wrapper))
	}
	for kind, env := range wrapper {
		switch StatusKind(kind) {
		case StatusFailedSwitch, StatusDownloadingNewConfiguration, StatusSwitchingToConfiguration:
			*s = Status{Kind: StatusKind(kind), Configuration: env.Configuration}
			return nil
		default:
			return zerr.With(zerr.New("unrecognised status object key"), "key", kind)
		}
	}
	return nil
}

// AgentState is the full persisted document: configuration history, current
// status, and the set of packages awaiting deletion.
type AgentState struct {
	SystemConfigurations []SystemConfiguration `json:"system_configurations"`
	CurrentStatus        Status                `json:"current_status"`
	PackagesToCleanup    []string              `json:"packages_to_cleanup"`
}

// LatestStable returns the last entry of SystemConfigurations, the current
// stable configuration. Panics if called on a state with no configurations,
// which the invariants guarantee never happens past construction.
func (s *AgentState) LatestStable() SystemConfiguration {
	return s.SystemConfigurations[len(s.SystemConfigurations)-1]
}

// NextVersion returns the version number the next new configuration should use.
func (s *AgentState) NextVersion() uint32 {
	return s.LatestStable().VersionNumber + 1
}

// FindConfiguration looks up a configuration by version number across the
// full history (including the tombstone).
func (s *AgentState) FindConfiguration(version uint32) (SystemConfiguration, bool) {
	for _, c := range s.SystemConfigurations {
		if c.VersionNumber == version {
			return c, true
		}
	}
	return SystemConfiguration{}, false
}

// AddToCleanup merges ids into PackagesToCleanup, de-duplicating.
func (s *AgentState) AddToCleanup(ids map[string]struct{}) {
	existing := make(map[string]struct{}, len(s.PackagesToCleanup))
	for _, id := range s.PackagesToCleanup {
		existing[id] = struct{}{}
	}
	for id := range ids {
		existing[id] = struct{}{}
	}
	merged := make([]string, 0, len(existing))
	for id := range existing {
		merged = append(merged, id)
	}
	sort.Strings(merged)
	s.PackagesToCleanup = merged
}

// RemoveFromCleanup drops ids from PackagesToCleanup after successful deletion.
func (s *AgentState) RemoveFromCleanup(ids []string) {
	remove := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		remove[id] = struct{}{}
	}
	remaining := make([]string, 0, len(s.PackagesToCleanup))
	for _, id := range s.PackagesToCleanup {
		if _, dead := remove[id]; !dead {
			remaining = append(remaining, id)
		}
	}
	s.PackagesToCleanup = remaining
}
