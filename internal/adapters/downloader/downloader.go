// Package downloader implements the binary-cache artifact acquisition actor:
// signature-verified, integrity-checked, streamed decompress-to-file fetches.
package downloader

import (
	"context"
	"sync"

	"github.com/DanielSidhion/nixless-agent/internal/adapters/cache"
	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"github.com/DanielSidhion/nixless-agent/internal/keychain"
	"github.com/DanielSidhion/nixless-agent/internal/pathutil"
	"go.trai.ch/zerr"
)

// inboxDepth is the bounded inbound request queue depth every actor in this
// agent shares (§5).
const inboxDepth = 10

var _ ports.Downloader = (*Downloader)(nil)

type request struct {
	ctx    context.Context
	ids    []string
	result chan requestResult
}

type requestResult struct {
	downloads []ports.NarDownloadResult
	err       error
}

// Downloader is the single actor fetching and verifying package archives.
type Downloader struct {
	cacheClient  *cache.Client
	narinfoCache *cache.FileCache
	keychain     *keychain.Keychain
	logger       ports.Logger

	storeDir    string
	tempDir     string
	maxParallel int

	mu                      sync.Mutex
	existingStorePackageIDs map[string]struct{}

	inbox    chan request
	shutdown chan struct{}
	done     chan struct{}
}

// Start initializes the downloader: loads the keychain (already populated by
// the caller), enumerates existing store packages, queries nix-cache-info
// and fails if its StoreDir doesn't match cfg.StoreDir, then launches the
// actor's message loop.
func Start(ctx context.Context, cfg *domain.AgentConfig, cacheClient *cache.Client, narinfoCache *cache.FileCache, kc *keychain.Keychain, logger ports.Logger) (*Downloader, error) {
	existing, err := pathutil.EnumerateStorePackageIDs(cfg.StoreDir)
	if err != nil {
		return nil, err
	}

	remoteStoreDir, err := cacheClient.NixCacheInfo(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "querying nix-cache-info at startup")
	}
	if remoteStoreDir != cfg.StoreDir {
		return nil, zerr.With(domain.ErrStoreDirMismatch, "remote_store_dir", remoteStoreDir)
	}

	maxParallel := int(cfg.MaxParallelNarDownloads)
	if maxParallel <= 0 {
		maxParallel = domain.DefaultMaxParallelNarDownloads
	}

	d := &Downloader{
		cacheClient:             cacheClient,
		narinfoCache:            narinfoCache,
		keychain:                kc,
		logger:                  logger,
		storeDir:                cfg.StoreDir,
		tempDir:                 cfg.TempDownloadDir,
		maxParallel:             maxParallel,
		existingStorePackageIDs: existing,
		inbox:                   make(chan request, inboxDepth),
		shutdown:                make(chan struct{}),
		done:                    make(chan struct{}),
	}

	go d.run()

	return d, nil
}

func (d *Downloader) run() {
	defer close(d.done)
	for {
		select {
		case req := <-d.inbox:
			downloads, err := d.downloadPackages(req.ctx, req.ids)
			req.result <- requestResult{downloads: downloads, err: err}
		case <-d.shutdown:
			return
		}
	}
}

// DownloadPackages enqueues a download request and waits for its result.
func (d *Downloader) DownloadPackages(ctx context.Context, ids []string) ([]ports.NarDownloadResult, error) {
	req := request{ctx: ctx, ids: ids, result: make(chan requestResult, 1)}

	select {
	case d.inbox <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.result:
		return res.downloads, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops the actor's message loop, letting any fetch already in
// flight drain to completion first.
func (d *Downloader) Shutdown(ctx context.Context) error {
	close(d.shutdown)
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
