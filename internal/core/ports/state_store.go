package ports

import "github.com/DanielSidhion/nixless-agent/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=state_store.go -destination=mocks/mock_state_store.go -package=mocks

// StateStore persists the agent-state JSON document.
type StateStore interface {
	// Load reads the persisted document, or returns (nil, nil) if absent so
	// the caller can build an initial state from host inspection.
	Load() (*domain.AgentState, error)

	// Save atomically truncate-writes the document.
	Save(state *domain.AgentState) error
}
