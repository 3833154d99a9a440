package ports

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=deleter.go -destination=mocks/mock_deleter.go -package=mocks

// Deleter removes store objects and cached narinfo entries that are no
// longer referenced by any retained configuration.
type Deleter interface {
	// DeletePackages removes the store directory and narinfo cache entry for
	// each id, if present. Non-existent targets are no-ops. Returns the ids
	// processed before any failure, including ids whose targets were
	// already absent.
	DeletePackages(ctx context.Context, ids []string) ([]string, error)

	// Shutdown stops the deleter actor.
	Shutdown(ctx context.Context) error
}
