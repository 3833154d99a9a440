package ports

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=unpacker.go -destination=mocks/mock_unpacker.go -package=mocks

// Unpacker canonicalises downloaded archives into the content-addressed store.
type Unpacker interface {
	// UnpackDownloads extracts and finalises every result whose
	// IsAlreadyUnpacked is false. Errors are fatal to the whole call.
	UnpackDownloads(ctx context.Context, downloads []NarDownloadResult) error

	// Shutdown stops the unpacker actor, awaiting its in-flight extraction if any.
	Shutdown(ctx context.Context) error
}
