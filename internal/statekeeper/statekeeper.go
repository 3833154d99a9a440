// Package statekeeper implements the top-level state machine described in
// spec §4.9: the single actor that owns the persisted agent-state document
// and serialises every transition to it, delegating the long-running side
// effects (download, unpack, activate, delete, state-dir cleanup) to
// detached worker tasks that report back through its own inbox.
package statekeeper

import (
	"context"
	"fmt"
	"time"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"go.opentelemetry.io/otel/metric"
	"go.trai.ch/zerr"
)

// inboxDepth matches the bounded queue depth every actor in this agent
// shares (§5).
const inboxDepth = 10

// Dependencies bundles every port the state keeper drives. Bundled as a
// struct (rather than a long Start parameter list) since it depends on
// nearly every other adapter in the agent.
type Dependencies struct {
	Downloader       ports.Downloader
	Unpacker         ports.Unpacker
	Deleter          ports.Deleter
	ActivationDriver ports.ActivationDriver
	OutcomeChecker   ports.OutcomeChecker
	StateStore       ports.StateStore
	Clock            ports.Clock
	Logger           ports.Logger
}

// StateKeeper is the single actor serialising every agent-state transition.
type StateKeeper struct {
	downloader       ports.Downloader
	unpacker         ports.Unpacker
	deleter          ports.Deleter
	activationDriver ports.ActivationDriver
	outcomeChecker   ports.OutcomeChecker
	stateStore       ports.StateStore
	clock            ports.Clock
	logger           ports.Logger

	nixStateDir string
	storeDir    string
	stateDir    string
	maxHistory  uint32

	switchDuration metric.Float64Histogram

	// state is owned exclusively by run(); nothing outside the message loop
	// reads or writes it.
	state           *domain.AgentState
	stableSince     time.Time
	switchStartedAt time.Time

	switchInFlight  bool
	switchCancel    context.CancelFunc
	cleanupInFlight bool
	deleteInFlight  bool

	inbox chan any
	done  chan struct{}
}

// Start performs the boot-time recovery described in §4.9 (authorisation
// check, current_status inspection, resuming any interrupted switch) and
// launches the actor's message loop.
func Start(ctx context.Context, cfg *domain.AgentConfig, deps Dependencies) (*StateKeeper, error) {
	authorized, err := deps.ActivationDriver.CheckAuthorisationPossibility(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "checking activation authorisation at startup")
	}
	if !authorized {
		return nil, domain.ErrActivationNotAuthorized
	}

	state, err := deps.StateStore.Load()
	if err != nil {
		return nil, zerr.Wrap(err, "loading persisted agent state")
	}
	if state == nil {
		state = initialState(cfg.NixStateDir)
		if err := deps.StateStore.Save(state); err != nil {
			return nil, zerr.Wrap(err, "persisting initial agent state")
		}
	}

	hist, err := newSwitchDurationHistogram()
	if err != nil {
		return nil, zerr.Wrap(err, "creating switch-duration histogram")
	}

	k := &StateKeeper{
		downloader:       deps.Downloader,
		unpacker:         deps.Unpacker,
		deleter:          deps.Deleter,
		activationDriver: deps.ActivationDriver,
		outcomeChecker:   deps.OutcomeChecker,
		stateStore:       deps.StateStore,
		clock:            deps.Clock,
		logger:           deps.Logger,
		nixStateDir:      cfg.NixStateDir,
		storeDir:         cfg.StoreDir,
		stateDir:         cfg.StateDir,
		maxHistory:       cfg.MaxSystemHistoryCount,
		switchDuration:   hist,
		state:            state,
		stableSince:      deps.Clock.Now(),
		inbox:            make(chan any, inboxDepth),
		done:             make(chan struct{}),
	}

	k.resumeFromRecoveredStatus()

	go k.run()

	return k, nil
}

func (k *StateKeeper) run() {
	defer close(k.done)
	for {
		msg := <-k.inbox
		if m, ok := msg.(msgShutdown); ok {
			k.handleShutdown(m)
			return
		}
		k.handle(msg)
	}
}

func (k *StateKeeper) handle(msg any) {
	switch m := msg.(type) {
	case msgSwitchToNewConfiguration:
		k.handleSwitchToNewConfiguration(m)
	case msgPerformRollback:
		k.handlePerformRollback(m)
	case msgConfigurationDownloadComplete:
		k.onConfigurationDownloadComplete(m)
	case msgConfigurationSwitchStartResult:
		k.handleConfigurationSwitchResult(m)
	case msgCleanUpStateDir:
		k.handleCleanUpStateDir()
	case msgCleanUpStateDirResult:
		k.onCleanUpStateDirResult(m)
	case msgCleanupConfigurationHistory:
		k.handleCleanupConfigurationHistory()
	case msgPackageDeletionResult:
		k.onPackageDeletionResult(m)
	case msgGetSummary:
		m.reply <- k.buildSummary()
	default:
		panic(fmt.Sprintf("statekeeper: unhandled message type %T", msg))
	}
}

// send enqueues msg, failing if ctx is done before the actor accepts it. The
// inbox never fills under normal load (depth 10, and every handler returns
// promptly after spawning its worker task), so this almost always succeeds
// immediately.
func (k *StateKeeper) send(ctx context.Context, msg any) error {
	select {
	case k.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueueSelf posts an internally-originated message without blocking. Used
// from inside a handler (the loop isn't receiving again until it returns) and
// from worker-task goroutines.
func (k *StateKeeper) enqueueSelf(msg any) {
	select {
	case k.inbox <- msg:
	default:
		k.logger.Error("statekeeper inbox full, dropping internal message", nil, "type", fmt.Sprintf("%T", msg))
	}
}

// GetSummary reports the current configuration, status, and timing detail
// (§4.9, E.3).
func (k *StateKeeper) GetSummary(ctx context.Context) (Summary, error) {
	reply := make(chan Summary, 1)
	if err := k.send(ctx, msgGetSummary{reply: reply}); err != nil {
		return Summary{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	}
}

// Shutdown stops the actor: aborts any in-flight switch task, awaits a
// pending cleanup or delete task, then shuts down every dependent actor
// concurrently (§5 Cancellation).
func (k *StateKeeper) Shutdown(ctx context.Context) error {
	reply := make(chan struct{})
	if err := k.send(ctx, msgShutdown{reply: reply}); err != nil {
		return err
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
