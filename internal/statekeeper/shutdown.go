package statekeeper

import (
	"context"
	"sync"
	"time"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
)

// shutdownGrace bounds how long each dependent actor's own Shutdown is given
// to finish before the agent process exits anyway.
const shutdownGrace = 30 * time.Second

// handleShutdown implements §5's cancellation sequence: abort any in-flight
// switch task, drain whatever cleanup/delete work is still outstanding
// (refusing anything new), then shut every dependent actor down concurrently.
func (k *StateKeeper) handleShutdown(m msgShutdown) {
	if k.switchCancel != nil {
		k.switchCancel()
	}

	for k.cleanupInFlight || k.deleteInFlight {
		switch msg := (<-k.inbox).(type) {
		case msgCleanUpStateDirResult:
			k.onCleanUpStateDirResult(msg)
		case msgPackageDeletionResult:
			k.onPackageDeletionResult(msg)
		case msgConfigurationSwitchStartResult:
			// The task was cancelled above; just clear the in-flight flag,
			// the state document isn't worth updating mid-shutdown.
			k.switchInFlight = false
		case msgConfigurationDownloadComplete:
			// Harmless: the switch this belonged to is being aborted.
		default:
			refuseDuringShutdown(msg)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var wg sync.WaitGroup
	shutdowns := []func(context.Context) error{
		k.downloader.Shutdown,
		k.unpacker.Shutdown,
		k.deleter.Shutdown,
		k.activationDriver.Shutdown,
	}
	wg.Add(len(shutdowns))
	for _, fn := range shutdowns {
		fn := fn
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				k.logger.Error("shutting down dependent actor", err)
			}
		}()
	}
	wg.Wait()

	close(m.reply)
}

// refuseDuringShutdown replies with ErrShuttingDown to any request-shaped
// message that arrives while the actor is already tearing down.
func refuseDuringShutdown(msg any) {
	switch m := msg.(type) {
	case msgSwitchToNewConfiguration:
		m.reply <- domain.ErrShuttingDown
	case msgPerformRollback:
		m.reply <- domain.ErrShuttingDown
	case msgGetSummary:
		close(m.reply)
	case msgCleanupConfigurationHistory:
		// No reply channel; simply dropped.
	case msgCleanUpStateDir:
		// No reply channel; simply dropped.
	}
}
