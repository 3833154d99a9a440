// Package config loads the agent's configuration surface from a YAML file.
package config

import (
	"os"

	"github.com/DanielSidhion/nixless-agent/internal/core/domain"
	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader reads an AgentConfig from a YAML file on disk.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads, parses, defaults, and validates the configuration at path.
func (l *Loader) Load(path string) (*domain.AgentConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "reading configuration file"), "path", path)
	}

	var cfg domain.AgentConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "parsing configuration file"), "path", path)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	return &cfg, nil
}
