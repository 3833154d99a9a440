package ports

import (
	"context"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=downloader.go -destination=mocks/mock_downloader.go -package=mocks

// NarDownloadResult is the outcome of fetching (or confirming presence of) a
// single package.
type NarDownloadResult struct {
	PackageID         string
	NarPath           string
	ReferenceIDs      []string
	IsAlreadyUnpacked bool
}

// Downloader fetches package metadata and archives from the binary cache,
// verifying signatures and content hashes along the way.
type Downloader interface {
	// DownloadPackages fetches every id not already present in the store,
	// verifying signatures and integrity, and returns a result per id.
	DownloadPackages(ctx context.Context, ids []string) ([]NarDownloadResult, error)

	// Shutdown drains in-flight fetches and stops the downloader actor.
	Shutdown(ctx context.Context) error
}
