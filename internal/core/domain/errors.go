package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigInvalid is returned when a configured key, URL, or path is malformed at startup.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrStoreDirMismatch is returned when the cache's advertised StoreDir doesn't match ours.
	ErrStoreDirMismatch = zerr.New("cache store directory does not match configured store directory")

	// ErrNarinfoStorePathMismatch is returned when a narinfo's StorePath doesn't end with the requested package id.
	ErrNarinfoStorePathMismatch = zerr.New("narinfo store path does not match requested package id")

	// ErrBadHashFormat is returned when a narinfo hash field isn't "sha256:<nix32>".
	ErrBadHashFormat = zerr.New("hash is not in sha256:<nix32> format")

	// ErrSignatureVerificationFailed is returned when no signature on a narinfo verifies.
	ErrSignatureVerificationFailed = zerr.New("no signature verified against the configured keychain")

	// ErrHashMismatch is returned when a decompressed or compressed digest doesn't match the expected hash.
	ErrHashMismatch = zerr.New("downloaded content hash does not match narinfo")

	// ErrMissingReferences is returned when download_packages' closure completeness check fails.
	ErrMissingReferences = zerr.New("missing references after download")

	// ErrKeyNameCollision is returned when adding a keychain entry whose name already exists.
	ErrKeyNameCollision = zerr.New("key name already registered")

	// ErrStateViolation is returned when an operation is requested while the agent is in an incompatible status.
	ErrStateViolation = zerr.New("operation not valid in current agent status")

	// ErrConfigurationNotFound is returned when a rollback target version doesn't exist in history.
	ErrConfigurationNotFound = zerr.New("configuration not found in history")

	// ErrRollbackToTombstone is returned when a rollback explicitly targets version 0.
	ErrRollbackToTombstone = zerr.New("cannot roll back to the tombstone configuration")

	// ErrNoRollbackTarget is returned when a rollback is requested but history has no prior configuration.
	ErrNoRollbackTarget = zerr.New("no prior configuration to roll back to")

	// ErrSwitchInFlight is a programming error: a second switch was requested while one was pending.
	ErrSwitchInFlight = zerr.New("a configuration switch is already in flight")

	// ErrShuttingDown is returned by any request that arrives after Shutdown has started.
	ErrShuttingDown = zerr.New("state keeper is shutting down")

	// ErrActivationNotAuthorized is returned when PolicyKit denies (or can't confirm) activation authority at startup.
	ErrActivationNotAuthorized = zerr.New("activation unit authorization could not be confirmed")

	// ErrActivationFailed wraps a non-success activation unit outcome.
	ErrActivationFailed = zerr.New("activation unit reported failure")

	// ErrSystemSwitchProtocol is returned when the activation unit reaches an unexpected bus state.
	ErrSystemSwitchProtocol = zerr.New("activation unit reached an unexpected state")

	// ErrPackageIDMalformed is returned when a package id has no non-empty
	// "<hash>-" prefix; the hash's length and alphabet are not checked.
	ErrPackageIDMalformed = zerr.New("malformed package id")
)

// errWithField attaches the offending configuration field name to a sentinel error.
func errWithField(err error, field string) error {
	return zerr.With(err, "field", field)
}
