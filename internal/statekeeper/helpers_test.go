package statekeeper_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DanielSidhion/nixless-agent/internal/adapters/logger"
	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports/mocks"
	"github.com/DanielSidhion/nixless-agent/internal/statekeeper"
	"go.uber.org/mock/gomock"
)

// fakeClock hands out strictly increasing timestamps, one tick apart, so
// duration math in the state keeper never observes a zero delta.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// harness bundles a StateKeeper with its mocked dependencies and the
// directories backing it, for assembling Start calls with per-test
// expectations set beforehand.
type harness struct {
	t    *testing.T
	ctrl *gomock.Controller

	downloader *mocks.MockDownloader
	unpacker   *mocks.MockUnpacker
	deleter    *mocks.MockDeleter
	activation *mocks.MockActivationDriver
	outcome    *mocks.MockOutcomeChecker
	store      *mocks.MockStateStore

	clock *fakeClock
	cfg   *domain.AgentConfig
}

func newHarness(t *testing.T) *harness {
	ctrl := gomock.NewController(t)
	nixStateDir := t.TempDir()
	stateDir := t.TempDir()

	return &harness{
		t:          t,
		ctrl:       ctrl,
		downloader: mocks.NewMockDownloader(ctrl),
		unpacker:   mocks.NewMockUnpacker(ctrl),
		deleter:    mocks.NewMockDeleter(ctrl),
		activation: mocks.NewMockActivationDriver(ctrl),
		outcome:    mocks.NewMockOutcomeChecker(ctrl),
		store:      mocks.NewMockStateStore(ctrl),
		clock:      newFakeClock(),
		cfg: &domain.AgentConfig{
			NixStateDir:           nixStateDir,
			StateDir:              stateDir,
			StoreDir:              t.TempDir(),
			MaxSystemHistoryCount: 10,
		},
	}
}

func (h *harness) deps() statekeeper.Dependencies {
	return statekeeper.Dependencies{
		Downloader:       h.downloader,
		Unpacker:         h.unpacker,
		Deleter:          h.deleter,
		ActivationDriver: h.activation,
		OutcomeChecker:   h.outcome,
		StateStore:       h.store,
		Clock:            h.clock,
		Logger:           logger.New(nil),
	}
}

// start authorizes activation and stubs Load to return loaded (nil means
// "no persisted state", triggering fresh-install recovery and its Save), then
// launches the actor.
func (h *harness) start(loaded *domain.AgentState) *statekeeper.StateKeeper {
	h.activation.EXPECT().CheckAuthorisationPossibility(gomock.Any()).Return(true, nil)
	h.store.EXPECT().Load().Return(loaded, nil)
	if loaded == nil {
		h.store.EXPECT().Save(gomock.Any()).Return(nil)
	}

	k, err := statekeeper.Start(context.Background(), h.cfg, h.deps())
	if err != nil {
		h.t.Fatalf("statekeeper.Start: %v", err)
	}
	h.t.Cleanup(func() {
		_ = k
	})
	return k
}

// waitForStatus polls GetSummary until it reports kind, or fails the test
// after a short deadline.
func waitForStatus(t *testing.T, k *statekeeper.StateKeeper, kind domain.StatusKind) statekeeper.Summary {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s, err := k.GetSummary(context.Background())
		if err != nil {
			t.Fatalf("GetSummary: %v", err)
		}
		if s.Status.Kind == kind {
			return s
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for status %q", kind)
	return statekeeper.Summary{}
}
