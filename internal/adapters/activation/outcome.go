package activation

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.OutcomeChecker = (*OutcomeChecker)(nil)

// OutcomeChecker inspects the tracker files the external switch tracker
// deposits in the agent's state directory during a switch attempt (§4.8).
type OutcomeChecker struct{}

// NewOutcomeChecker builds an OutcomeChecker.
func NewOutcomeChecker() *OutcomeChecker {
	return &OutcomeChecker{}
}

// CheckSwitchingStatus resolves the current outcome, unlinking the tracker
// files on any terminal resolution. Safe to call repeatedly and across
// process restarts.
func (OutcomeChecker) CheckSwitchingStatus(stateDir string) (ports.SwitchStatus, ports.SwitchOutcome, error) {
	preSwitch := filepath.Join(stateDir, domain.PreSwitchFileName)
	switchSuccess := filepath.Join(stateDir, domain.SwitchSuccessFileName)
	postSwitch := filepath.Join(stateDir, domain.PostSwitchFileName)

	postExists, err := exists(postSwitch)
	if err != nil {
		return ports.SwitchInProgress, ports.SwitchOutcome{}, err
	}
	if !postExists {
		return ports.SwitchInProgress, ports.SwitchOutcome{}, nil
	}

	successExists, err := exists(switchSuccess)
	if err != nil {
		return ports.SwitchInProgress, ports.SwitchOutcome{}, err
	}

	if successExists {
		if err := unlinkAll(preSwitch, switchSuccess, postSwitch); err != nil {
			return ports.SwitchInProgress, ports.SwitchOutcome{}, err
		}
		return ports.SwitchSuccessful, ports.SwitchOutcome{Successful: true}, nil
	}

	serviceResult, exitCode, exitStatus, err := parsePostSwitch(postSwitch)
	if err != nil {
		return ports.SwitchInProgress, ports.SwitchOutcome{}, err
	}

	if err := unlinkAll(preSwitch, switchSuccess, postSwitch); err != nil {
		return ports.SwitchInProgress, ports.SwitchOutcome{}, err
	}

	rebootRequired := serviceResult == domain.ExitCodeServiceResult && exitStatus == domain.RebootRequiredExitStatus
	outcome := ports.SwitchOutcome{
		Successful:     rebootRequired,
		RebootRequired: rebootRequired,
		ServiceResult:  serviceResult,
		ExitCode:       exitCode,
		ExitStatus:     exitStatus,
	}

	if rebootRequired {
		return ports.SwitchSuccessful, outcome, nil
	}
	return ports.SwitchFailed, outcome, nil
}

func parsePostSwitch(path string) (serviceResult, exitCode, exitStatus string, err error) {
	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		return "", "", "", zerr.With(zerr.Wrap(readErr, "reading post_switch tracker file"), "path", path)
	}

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) < 3 {
		return "", "", "", zerr.With(zerr.New("post_switch tracker file has fewer than 3 lines"), "path", path)
	}

	return lines[0], lines[1], lines[2], nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "stat tracker file"), "path", path)
	}
	return true, nil
}

func unlinkAll(paths ...string) error {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return zerr.With(zerr.Wrap(err, "removing tracker file"), "path", path)
		}
	}
	return nil
}
