// Package wiring assembles the concrete adapters behind every core.ports
// interface and starts the state keeper. This agent's dependency graph is a
// flat, acyclic construction order (cache client -> downloader -> unpacker ->
// deleter -> activation driver -> state keeper), so it's wired by hand in
// Start rather than through a DI framework (see DESIGN.md).
package wiring

import (
	"context"
	"net/http"

	"github.com/DanielSidhion/nixless-agent/internal/adapters/activation"
	"github.com/DanielSidhion/nixless-agent/internal/adapters/cache"
	"github.com/DanielSidhion/nixless-agent/internal/adapters/clock"
	"github.com/DanielSidhion/nixless-agent/internal/adapters/config"
	"github.com/DanielSidhion/nixless-agent/internal/adapters/deleter"
	"github.com/DanielSidhion/nixless-agent/internal/adapters/downloader"
	"github.com/DanielSidhion/nixless-agent/internal/adapters/logger"
	"github.com/DanielSidhion/nixless-agent/internal/adapters/unpacker"
	"github.com/DanielSidhion/nixless-agent/internal/agentstate"
	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"github.com/DanielSidhion/nixless-agent/internal/keychain"
	"github.com/DanielSidhion/nixless-agent/internal/statekeeper"
	"go.trai.ch/zerr"
)

// Agent bundles the running state keeper and the logger commands.New's
// caller reports startup failures through.
type Agent struct {
	StateKeeper *statekeeper.StateKeeper
	Logger      ports.Logger
	Config      *domain.AgentConfig
}

// Start loads configuration from path, constructs every adapter in
// dependency order, and launches the state keeper (which itself performs
// the boot-time recovery described in spec §4.9 before returning).
func Start(ctx context.Context, configPath string) (*Agent, error) {
	cfg, err := config.NewLoader().Load(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "loading agent configuration")
	}

	log := logger.New(nil)

	kc, err := keychain.New()
	if err != nil {
		return nil, zerr.Wrap(err, "building signature keychain")
	}
	for _, encoded := range cfg.CachePublicKeys {
		if err := kc.AddEncoded(encoded); err != nil {
			return nil, zerr.Wrap(err, "loading configured cache public key")
		}
	}

	cacheClient := cache.NewClient(cfg.CacheURL, cfg.CacheAuthToken, http.DefaultClient)
	narinfoCache := cache.NewFileCache(cfg.NarinfoCacheDir)

	dl, err := downloader.Start(ctx, cfg, cacheClient, narinfoCache, kc, log)
	if err != nil {
		return nil, zerr.Wrap(err, "starting downloader")
	}

	up := unpacker.Start(cfg, log)
	del := deleter.Start(cfg, narinfoCache, log)

	activationDriver, err := activation.NewDriver(cfg.TrackerPath, cfg.AgentUser, cfg.JobPollInterval)
	if err != nil {
		return nil, zerr.Wrap(err, "starting activation driver")
	}
	outcomeChecker := activation.NewOutcomeChecker()

	stateStore := agentstate.NewStore(cfg.StateDir)

	k, err := statekeeper.Start(ctx, cfg, statekeeper.Dependencies{
		Downloader:       dl,
		Unpacker:         up,
		Deleter:          del,
		ActivationDriver: activationDriver,
		OutcomeChecker:   outcomeChecker,
		StateStore:       stateStore,
		Clock:            clock.System{},
		Logger:           log,
	})
	if err != nil {
		return nil, zerr.Wrap(err, "starting state keeper")
	}

	return &Agent{StateKeeper: k, Logger: log, Config: cfg}, nil
}
