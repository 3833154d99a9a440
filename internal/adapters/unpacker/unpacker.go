// Package unpacker implements the NAR-to-store-object extraction actor:
// unpack into a staging sibling directory, finalise, then atomically rename
// into place (§4.5).
package unpacker

import (
	"context"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"go.trai.ch/zerr"
)

// inboxDepth is the bounded inbound request queue depth every actor in this
// agent shares (§5).
const inboxDepth = 10

var _ ports.Unpacker = (*Unpacker)(nil)

type request struct {
	ctx       context.Context
	downloads []ports.NarDownloadResult
	result    chan error
}

// Unpacker is the single actor extracting and finalising downloaded archives.
type Unpacker struct {
	storeDir string
	logger   ports.Logger

	inbox    chan request
	shutdown chan struct{}
	done     chan struct{}
}

// Start launches the unpacker actor's message loop.
func Start(cfg *domain.AgentConfig, logger ports.Logger) *Unpacker {
	u := &Unpacker{
		storeDir: cfg.StoreDir,
		logger:   logger,
		inbox:    make(chan request, inboxDepth),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}

	go u.run()

	return u
}

func (u *Unpacker) run() {
	defer close(u.done)
	for {
		select {
		case req := <-u.inbox:
			req.result <- u.unpackDownloads(req.ctx, req.downloads)
		case <-u.shutdown:
			return
		}
	}
}

// UnpackDownloads enqueues an unpack request and waits for its result.
func (u *Unpacker) UnpackDownloads(ctx context.Context, downloads []ports.NarDownloadResult) error {
	req := request{ctx: ctx, downloads: downloads, result: make(chan error, 1)}

	select {
	case u.inbox <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops the actor's message loop, letting any extraction already in
// flight drain to completion first.
func (u *Unpacker) Shutdown(ctx context.Context) error {
	close(u.shutdown)
	select {
	case <-u.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (u *Unpacker) unpackDownloads(ctx context.Context, downloads []ports.NarDownloadResult) error {
	for _, d := range downloads {
		if d.IsAlreadyUnpacked {
			continue
		}
		if err := u.unpackOne(d); err != nil {
			return zerr.With(err, "package_id", d.PackageID)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
