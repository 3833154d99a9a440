// Package activation implements the system-bus activation driver: starting
// the transient switch-to-configuration unit and observing its outcome
// through systemd and PolicyKit (§4.7).
package activation

import (
	"context"
	"time"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"github.com/godbus/dbus/v5"
	"go.trai.ch/zerr"
)

const (
	switchUnitName        = "nixless-agent-system-switch.service"
	switchUnitDescription = "nixless-agent system configuration switch"

	policyKitAction = "org.freedesktop.systemd1.manage-units"

	systemdBusName    = "org.freedesktop.systemd1"
	systemdObjectPath = dbus.ObjectPath("/org/freedesktop/systemd1")
	systemdManagerIfc = "org.freedesktop.systemd1.Manager"

	policyKitBusName    = "org.freedesktop.PolicyKit1"
	policyKitObjectPath = dbus.ObjectPath("/org/freedesktop/PolicyKit1/Authority")
	policyKitAuthIfc    = "org.freedesktop.PolicyKit1.Authority"
)

var _ ports.ActivationDriver = (*Driver)(nil)

// Driver owns the long-lived system-bus connection used to start and
// observe the activation unit.
type Driver struct {
	conn *dbus.Conn

	trackerPath  string
	agentUser    string
	pollInterval time.Duration

	inFlight bool
	jobPath  dbus.ObjectPath
}

// NewDriver connects to the system bus and builds a Driver. pollInterval
// governs how often job/unit state is polled; callers should pass
// domain.DefaultJobPollInterval when the configuration doesn't override it.
func NewDriver(trackerPath, agentUser string, pollInterval time.Duration) (*Driver, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, zerr.Wrap(err, "connecting to system bus")
	}
	return &Driver{conn: conn, trackerPath: trackerPath, agentUser: agentUser, pollInterval: pollInterval}, nil
}

// Shutdown closes the bus connection.
func (d *Driver) Shutdown(ctx context.Context) error {
	if err := d.conn.Close(); err != nil {
		return zerr.Wrap(err, "closing system bus connection")
	}
	return nil
}

// CheckAuthorisationPossibility asks PolicyKit whether the agent's own bus
// name is (or may become, via challenge) authorised to manage units.
func (d *Driver) CheckAuthorisationPossibility(ctx context.Context) (bool, error) {
	authority := d.conn.Object(policyKitBusName, policyKitObjectPath)

	subject := struct {
		Kind    string
		Details map[string]dbus.Variant
	}{
		Kind: "system-bus-name",
		Details: map[string]dbus.Variant{
			"name": dbus.MakeVariant(d.conn.Names()[0]),
		},
	}

	var result struct {
		IsAuthorized bool
		IsChallenge  bool
		Details      map[string]string
	}

	call := authority.CallWithContext(ctx, policyKitAuthIfc+".CheckAuthorization", 0,
		subject, policyKitAction, map[string]string{}, uint32(0), "")
	if call.Err != nil {
		return false, zerr.Wrap(call.Err, "calling CheckAuthorization")
	}
	if err := call.Store(&result.IsAuthorized, &result.IsChallenge, &result.Details); err != nil {
		return false, zerr.Wrap(err, "decoding CheckAuthorization reply")
	}

	return result.IsAuthorized || result.IsChallenge, nil
}

// systemdProperty is a single property entry of StartTransientUnit's aux
// parameter, "(sv)" in the bus signature.
type systemdProperty struct {
	Name  string
	Value dbus.Variant
}

// execCommand is a single ExecStart-family entry, "(sasb)" in the bus signature.
type execCommand struct {
	Path          string
	Argv          []string
	IgnoreFailure bool
}

// PerformConfigurationSwitch starts the transient switch unit for the given
// system package, then waits for the job to leave the pending-job set.
func (d *Driver) PerformConfigurationSwitch(ctx context.Context, systemPackagePath string) error {
	if d.inFlight {
		panic("activation: PerformConfigurationSwitch called while a switch is already in flight")
	}
	d.inFlight = true

	manager := d.conn.Object(systemdBusName, systemdObjectPath)

	tracker := d.trackerPath
	user := d.agentUser

	props := []systemdProperty{
		{"Description", dbus.MakeVariant(switchUnitDescription)},
		{"Type", dbus.MakeVariant("oneshot")},
		{"RefuseManualStop", dbus.MakeVariant(true)},
		{"RemainAfterExit", dbus.MakeVariant(false)},
		{"CollectMode", dbus.MakeVariant("inactive-or-failed")},
		{"ExecStartPre", dbus.MakeVariant([]execCommand{
			{Path: tracker, Argv: []string{tracker, "pre-switch", tracker, user}},
		})},
		{"ExecStart", dbus.MakeVariant([]execCommand{
			{Path: systemPackagePath + "/bin/switch-to-configuration", Argv: []string{systemPackagePath + "/bin/switch-to-configuration", "switch"}},
		})},
		{"ExecStartPost", dbus.MakeVariant([]execCommand{
			{Path: tracker, Argv: []string{tracker, "switch-success", tracker, user}},
		})},
		{"ExecStopPost", dbus.MakeVariant([]execCommand{
			{Path: tracker, Argv: []string{tracker, "post-switch", tracker, user}},
		})},
	}

	var jobPath dbus.ObjectPath
	call := manager.CallWithContext(ctx, systemdManagerIfc+".StartTransientUnit", 0,
		switchUnitName, "fail", props, []struct {
			Name  string
			Value []systemdProperty
		}{})
	if call.Err != nil {
		d.inFlight = false
		return zerr.Wrap(call.Err, "calling StartTransientUnit")
	}
	if err := call.Store(&jobPath); err != nil {
		d.inFlight = false
		return zerr.Wrap(err, "decoding StartTransientUnit reply")
	}

	d.jobPath = jobPath

	if err := d.waitJobLeavesPending(ctx, jobPath); err != nil {
		d.inFlight = false
		return err
	}

	// inFlight stays true until WaitConfigurationSwitchComplete resolves the
	// unit to a terminal state: the switch is still considered in progress
	// even though the job itself left the pending-job set.
	return nil
}

func (d *Driver) waitJobLeavesPending(ctx context.Context, jobPath dbus.ObjectPath) error {
	job := d.conn.Object(systemdBusName, jobPath)

	for {
		var state string
		err := job.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, "org.freedesktop.systemd1.Job", "State").Store(&state)
		if err != nil {
			if isUnknownObject(err) {
				return nil
			}
			return zerr.Wrap(err, "polling job state")
		}
		if state == "running" {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.pollInterval):
		}
	}
}

// WaitConfigurationSwitchComplete polls the activation unit's ActiveState
// until it reaches a terminal state.
func (d *Driver) WaitConfigurationSwitchComplete(ctx context.Context) error {
	defer func() { d.inFlight = false }()

	manager := d.conn.Object(systemdBusName, systemdObjectPath)

	var unitPath dbus.ObjectPath
	err := manager.CallWithContext(ctx, systemdManagerIfc+".GetUnit", 0, switchUnitName).Store(&unitPath)
	if err != nil {
		if isNoSuchUnit(err) {
			return nil
		}
		return zerr.Wrap(err, "calling GetUnit")
	}

	unit := d.conn.Object(systemdBusName, unitPath)

	for {
		var state string
		err := unit.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, "org.freedesktop.systemd1.Unit", "ActiveState").Store(&state)
		if err != nil {
			if isUnknownObject(err) {
				return nil
			}
			return zerr.Wrap(err, "polling unit ActiveState")
		}

		switch state {
		case "activating", "deactivating":
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.pollInterval):
			}
			continue
		case "inactive":
			return nil
		case "active", "reloading", "failed":
			return zerr.With(domain.ErrSystemSwitchProtocol, "active_state", state)
		default:
			return zerr.With(domain.ErrSystemSwitchProtocol, "active_state", state)
		}
	}
}

func isUnknownObject(err error) bool {
	dbusErr, ok := err.(dbus.Error)
	return ok && dbusErr.Name == "org.freedesktop.DBus.Error.UnknownObject"
}

func isNoSuchUnit(err error) bool {
	dbusErr, ok := err.(dbus.Error)
	return ok && dbusErr.Name == "org.freedesktop.systemd1.NoSuchUnit"
}
