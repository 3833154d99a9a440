package statekeeper

import (
	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
)

// The state keeper's inbox carries a closed set of message types, matched by
// a type switch in handle (§4.9's "main loop messages"). External callers
// only ever construct the request/reply shaped ones through the exported
// methods below; the rest are posted internally by spawned worker tasks.

type msgSwitchToNewConfiguration struct {
	systemPackageID string
	packageIDs      []string
	reply           chan error
}

type msgPerformRollback struct {
	toVersion *uint32
	reply     chan error
}

type msgGetSummary struct {
	reply chan Summary
}

type msgShutdown struct {
	reply chan struct{}
}

// msgCleanUpStateDir requests the crash-safety sweep (stale tracker files,
// orphaned temporary profile symlinks) be (re)dispatched.
type msgCleanUpStateDir struct{}

// msgCleanUpStateDirResult is posted back by the cleanup task.
type msgCleanUpStateDirResult struct {
	err error
}

// msgConfigurationDownloadComplete is posted by a switchModeFull task once
// download+unpack succeed, so the loop can advance the persisted status from
// DownloadingNewConfiguration to SwitchingToConfiguration before activation
// starts (§4.9's two distinct recovery branches for these statuses).
type msgConfigurationDownloadComplete struct {
	cfg domain.SystemConfiguration
}

// msgConfigurationSwitchStartResult is posted back once a switch task (the
// download/unpack/record-timestamp/activate/observe-outcome chain) reaches a
// terminal outcome — success or failure. The name matches spec §4.9's
// enumerated message even though it carries the fully-resolved outcome
// rather than just "the unit started": the post-switch wait loop runs to
// completion inside the same spawned task rather than posting a second,
// unnamed completion event back to the loop.
type msgConfigurationSwitchStartResult struct {
	cfg     domain.SystemConfiguration
	outcome ports.SwitchOutcome
	err     error
}

// msgCleanupConfigurationHistory requests history pruning + profile-link
// repair + a deletion task for whatever falls out of the prune.
type msgCleanupConfigurationHistory struct{}

// msgPackageDeletionResult is posted back by the delete task.
type msgPackageDeletionResult struct {
	requested []string
	deleted   []string
	err       error
}
