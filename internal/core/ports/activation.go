package ports

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=activation.go -destination=mocks/mock_activation.go -package=mocks

// SwitchOutcome is the resolved result of a configuration switch attempt.
type SwitchOutcome struct {
	Successful     bool
	RebootRequired bool
	ServiceResult  string
	ExitCode       string
	ExitStatus     string
}

// ActivationDriver owns the system-bus client that starts and observes the
// transient unit running a system package's activation command.
type ActivationDriver interface {
	// CheckAuthorisationPossibility asks PolicyKit whether the agent is
	// allowed (or may be challenged to become allowed) to manage units.
	// False reliably means a switch cannot proceed; true is advisory only.
	CheckAuthorisationPossibility(ctx context.Context) (bool, error)

	// PerformConfigurationSwitch starts the transient activation unit for
	// the system package at systemPackagePath and waits for it to leave the
	// service manager's pending-job state (not for the unit to finish).
	PerformConfigurationSwitch(ctx context.Context, systemPackagePath string) error

	// WaitConfigurationSwitchComplete polls the activation unit's
	// ActiveState until it reaches a terminal state.
	WaitConfigurationSwitchComplete(ctx context.Context) error

	// Shutdown stops the activation driver's bus client.
	Shutdown(ctx context.Context) error
}

// OutcomeChecker inspects the tracker files the external helper deposits
// during a switch.
type OutcomeChecker interface {
	// CheckSwitchingStatus reports the current outcome, consuming
	// (unlinking) the tracker files on any terminal resolution. Safe to call
	// repeatedly and across process restarts.
	CheckSwitchingStatus(stateDir string) (SwitchStatus, SwitchOutcome, error)
}

// SwitchStatus is the coarse result of CheckSwitchingStatus.
type SwitchStatus int

const (
	SwitchInProgress SwitchStatus = iota
	SwitchSuccessful
	SwitchFailed
)
