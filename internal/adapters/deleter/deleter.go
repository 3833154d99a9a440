// Package deleter implements the store-garbage-collection actor: removing
// store objects and their cached narinfo entries once nothing retains them
// (§4.6).
package deleter

import (
	"context"
	"sync"

	"github.com/DanielSidhion/nixless-agent/internal/adapters/cache"
	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"github.com/DanielSidhion/nixless-agent/internal/pathutil"
)

// inboxDepth is the bounded inbound request queue depth every actor in this
// agent shares (§5).
const inboxDepth = 10

var _ ports.Deleter = (*Deleter)(nil)

type request struct {
	ctx    context.Context
	ids    []string
	result chan requestResult
}

type requestResult struct {
	deleted []string
	err     error
}

// Deleter is the single actor removing store objects and narinfo cache entries.
type Deleter struct {
	storeDir     string
	narinfoCache *cache.FileCache
	logger       ports.Logger

	inbox    chan request
	shutdown chan struct{}
	done     chan struct{}
}

// Start launches the deleter actor's message loop.
func Start(cfg *domain.AgentConfig, narinfoCache *cache.FileCache, logger ports.Logger) *Deleter {
	d := &Deleter{
		storeDir:     cfg.StoreDir,
		narinfoCache: narinfoCache,
		logger:       logger,
		inbox:        make(chan request, inboxDepth),
		shutdown:     make(chan struct{}),
		done:         make(chan struct{}),
	}

	go d.run()

	return d
}

func (d *Deleter) run() {
	defer close(d.done)
	for {
		select {
		case req := <-d.inbox:
			deleted, err := d.deletePackages(req.ids)
			req.result <- requestResult{deleted: deleted, err: err}
		case <-d.shutdown:
			return
		}
	}
}

// DeletePackages enqueues a deletion request and waits for its result.
func (d *Deleter) DeletePackages(ctx context.Context, ids []string) ([]string, error) {
	req := request{ctx: ctx, ids: ids, result: make(chan requestResult, 1)}

	select {
	case d.inbox <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.result:
		return res.deleted, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops the actor's message loop, letting any deletion already in
// flight drain to completion first.
func (d *Deleter) Shutdown(ctx context.Context) error {
	close(d.shutdown)
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// deletePackages removes each id's store directory and, concurrently with
// it, the cached narinfo entry. An id whose store directory removal fails is
// dropped from the result and the whole call fails; the narinfo cache entry
// is best-effort and its failure doesn't block the store removal from
// counting as done.
func (d *Deleter) deletePackages(ids []string) ([]string, error) {
	deleted := make([]string, 0, len(ids))

	for _, id := range ids {
		var cacheDone sync.WaitGroup
		if hash, err := domain.HashFromPackageID(id); err == nil {
			cacheDone.Add(1)
			go func() {
				defer cacheDone.Done()
				if cacheErr := d.narinfoCache.Delete(hash); cacheErr != nil {
					d.logger.Warn("failed to delete cached narinfo", "package_id", id, "error", cacheErr)
				}
			}()
		}

		path := domain.StorePackageDir(d.storeDir, id)
		err := pathutil.RemoveStorePackage(path)
		cacheDone.Wait()
		if err != nil {
			return deleted, err
		}

		deleted = append(deleted, id)
		d.logger.Info("deleted package", "package_id", id, "deleted_count", len(deleted))
	}

	return deleted, nil
}
