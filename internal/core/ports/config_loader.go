package ports

import "github.com/DanielSidhion/nixless-agent/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks

// ConfigLoader loads the agent's configuration surface.
type ConfigLoader interface {
	Load(path string) (*domain.AgentConfig, error)
}
